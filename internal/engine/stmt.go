package engine

import (
	"fmt"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

// Stmt is a prepared statement. It stays valid until [Stmt.Finalize] or
// until its connection is closed.
type Stmt struct {
	conn  *Conn
	stmt  uintptr
	query string

	// Declared parameter names in 1-based parameter order. Nameless
	// positional parameters are empty strings.
	paramNames []string
}

// Prepare compiles a single SQL statement. Trailing content after the first
// statement is rejected.
func (c *Conn) Prepare(query string) (*Stmt, error) {
	cquery, err := libc.CString(query)
	if err != nil {
		return nil, fmt.Errorf("engine: prepare: %w", err)
	}
	defer libc.Xfree(c.tls, cquery)

	ctailPtr, err := malloc(c.tls, ptrSize)
	if err != nil {
		return nil, fmt.Errorf("engine: prepare: %w", err)
	}
	defer libc.Xfree(c.tls, ctailPtr)

	stmtPtr, err := malloc(c.tls, ptrSize)
	if err != nil {
		return nil, fmt.Errorf("engine: prepare: %w", err)
	}
	defer libc.Xfree(c.tls, stmtPtr)

	res := lib.Xsqlite3_prepare_v2(c.tls, c.conn, cquery, -1, stmtPtr, ctailPtr)
	if res != lib.SQLITE_OK {
		return nil, c.lastError(res)
	}

	s := &Stmt{
		conn:  c,
		query: query,
		stmt:  *(*uintptr)(unsafe.Pointer(stmtPtr)),
	}

	if s.stmt == 0 {
		// Input was empty or whitespace/comments only.
		return nil, &Error{Code: lib.SQLITE_MISUSE, Message: "not an SQL statement"}
	}

	s.paramNames = make([]string, lib.Xsqlite3_bind_parameter_count(c.tls, s.stmt))
	for i := range s.paramNames {
		cname := lib.Xsqlite3_bind_parameter_name(c.tls, s.stmt, int32(i+1))
		if cname != 0 {
			s.paramNames[i] = libc.GoString(cname)
		}
	}

	return s, nil
}

// SQL returns the statement's source text.
func (s *Stmt) SQL() string { return s.query }

// Finalize deletes the prepared statement.
func (s *Stmt) Finalize() error {
	res := lib.Xsqlite3_finalize(s.conn.tls, s.stmt)
	s.stmt = 0

	if res != lib.SQLITE_OK {
		return &Error{Code: res, Message: CodeName(res)}
	}

	return nil
}

// Reset rewinds the statement so it can be executed again and clears any
// bound parameter values.
func (s *Stmt) Reset() {
	lib.Xsqlite3_reset(s.conn.tls, s.stmt)
	lib.Xsqlite3_clear_bindings(s.conn.tls, s.stmt)
}

// ParamCount reports the number of bindable parameters in the statement.
func (s *Stmt) ParamCount() int {
	return len(s.paramNames)
}

// ParamName returns the declared name of the i-th parameter (1-based),
// including its leading ':'/'@'/'$' sigil, or "" for nameless positional
// parameters and out-of-range indices.
func (s *Stmt) ParamName(i int) string {
	i--
	if i < 0 || i >= len(s.paramNames) {
		return ""
	}

	return s.paramNames[i]
}

// ColumnCount reports the number of result columns the statement produces.
// Statements without output (e.g. INSERT) report 0.
func (s *Stmt) ColumnCount() int {
	return int(lib.Xsqlite3_column_count(s.conn.tls, s.stmt))
}

// ColumnInfo describes one result column. The origin fields and DeclType
// are empty for computed columns (expressions, aggregates).
type ColumnInfo struct {
	Name         string
	OriginName   string
	TableName    string
	DatabaseName string
	DeclType     string
}

// Columns returns descriptors for every result column, in column order.
func (s *Stmt) Columns() []ColumnInfo {
	tls, stmt := s.conn.tls, s.stmt
	cols := make([]ColumnInfo, s.ColumnCount())

	for i := range cols {
		col := int32(i)
		cols[i] = ColumnInfo{
			Name:         libc.GoString(lib.Xsqlite3_column_name(tls, stmt, col)),
			OriginName:   libc.GoString(lib.Xsqlite3_column_origin_name(tls, stmt, col)),
			TableName:    libc.GoString(lib.Xsqlite3_column_table_name(tls, stmt, col)),
			DatabaseName: libc.GoString(lib.Xsqlite3_column_database_name(tls, stmt, col)),
			DeclType:     libc.GoString(lib.Xsqlite3_column_decltype(tls, stmt, col)),
		}
	}

	return cols
}

// ColumnNames returns the declared result column names in column order.
func (s *Stmt) ColumnNames() []string {
	names := make([]string, s.ColumnCount())
	for i := range names {
		names[i] = libc.GoString(lib.Xsqlite3_column_name(s.conn.tls, s.stmt, int32(i)))
	}

	return names
}

// Query binds params and starts one execution of the statement, performing
// the first cursor step eagerly so that statements without output still run
// to completion. The caller must have Reset the statement beforehand.
func (s *Stmt) Query(params Params) (*Rows, error) {
	if err := s.bind(params); err != nil {
		return nil, err
	}

	rows := &Rows{stmt: s}

	row, ok, err := rows.step()
	if err != nil {
		return nil, err
	}

	rows.pending = row
	rows.hasPending = ok
	rows.done = !ok

	return rows, nil
}

func (s *Stmt) bind(params Params) error {
	switch params.kind {
	case paramsNone:
		return nil
	case paramsPositional:
		for i, v := range params.positional {
			if err := s.bindValue(int32(i+1), v); err != nil {
				return err
			}
		}

		return nil
	case paramsNamed:
		for _, p := range params.named {
			cname, err := libc.CString(p.Name)
			if err != nil {
				return fmt.Errorf("engine: bind %s: %w", p.Name, err)
			}

			idx := lib.Xsqlite3_bind_parameter_index(s.conn.tls, s.stmt, cname)
			libc.Xfree(s.conn.tls, cname)

			if idx == 0 {
				// Name no longer matches a declared parameter; nothing to
				// bind, the engine leaves the slot NULL.
				continue
			}

			if err := s.bindValue(idx, p.Value); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("engine: bind: unknown params kind %d", params.kind)
	}
}

func (s *Stmt) bindValue(idx int32, v Value) error {
	tls, stmt := s.conn.tls, s.stmt

	var res int32

	switch v.Type {
	case TypeNull:
		res = lib.Xsqlite3_bind_null(tls, stmt, idx)
	case TypeInteger:
		res = lib.Xsqlite3_bind_int64(tls, stmt, idx, v.Int)
	case TypeReal:
		res = lib.Xsqlite3_bind_double(tls, stmt, idx, v.Float)
	case TypeText:
		p, err := cBytes(tls, []byte(v.Str))
		if err != nil {
			return err
		}

		res = lib.Xsqlite3_bind_text(tls, stmt, idx, p, int32(len(v.Str)), freeFuncPtr)
	case TypeBlob:
		p, err := cBytes(tls, v.Bytes)
		if err != nil {
			return err
		}

		res = lib.Xsqlite3_bind_blob(tls, stmt, idx, p, int32(len(v.Bytes)), freeFuncPtr)
	}

	if res != lib.SQLITE_OK {
		return s.conn.lastError(res)
	}

	return nil
}

// cBytes copies b into C memory owned by SQLite (freed via freeFuncPtr).
// Always allocates at least one byte so empty strings/blobs bind a valid
// non-null pointer.
func cBytes(tls *libc.TLS, b []byte) (uintptr, error) {
	allocSize := types.Size_t(len(b))
	if allocSize == 0 {
		allocSize = 1
	}

	p, err := malloc(tls, allocSize)
	if err != nil {
		return 0, err
	}

	for i := 0; i < len(b); i++ {
		*(*byte)(unsafe.Pointer(p + uintptr(i))) = b[i]
	}

	return p, nil
}

// Rows is a live forward-only cursor over one execution of a statement.
// Starting a new execution of the same statement invalidates the cursor.
type Rows struct {
	stmt       *Stmt
	pending    Row
	hasPending bool
	done       bool
}

// Next pulls the next row. It returns ok=false once the cursor is
// exhausted; calling it again after that keeps returning ok=false.
func (r *Rows) Next() (Row, bool, error) {
	if r.hasPending {
		row := r.pending
		r.pending = nil
		r.hasPending = false

		return row, true, nil
	}

	if r.done {
		return nil, false, nil
	}

	row, ok, err := r.step()
	if err != nil {
		return nil, false, err
	}

	if !ok {
		r.done = true

		return nil, false, nil
	}

	return row, true, nil
}

func (r *Rows) step() (Row, bool, error) {
	s := r.stmt
	tls := s.conn.tls

	switch res := lib.Xsqlite3_step(tls, s.stmt); res {
	case lib.SQLITE_ROW:
		return r.readRow(), true, nil
	case lib.SQLITE_DONE:
		return nil, false, nil
	default:
		lib.Xsqlite3_reset(tls, s.stmt)

		return nil, false, s.conn.lastError(res)
	}
}

// readRow copies the current row out of SQLite-owned memory.
func (r *Rows) readRow() Row {
	s := r.stmt
	tls := s.conn.tls
	n := int(lib.Xsqlite3_data_count(tls, s.stmt))
	row := make(Row, n)

	for i := range row {
		col := int32(i)

		switch lib.Xsqlite3_column_type(tls, s.stmt, col) {
		case lib.SQLITE_INTEGER:
			row[i] = Integer(lib.Xsqlite3_column_int64(tls, s.stmt, col))
		case lib.SQLITE_FLOAT:
			row[i] = Real(lib.Xsqlite3_column_double(tls, s.stmt, col))
		case lib.SQLITE_TEXT:
			n := int(lib.Xsqlite3_column_bytes(tls, s.stmt, col))
			row[i] = Text(goStringN(lib.Xsqlite3_column_text(tls, s.stmt, col), n))
		case lib.SQLITE_BLOB:
			n := int(lib.Xsqlite3_column_bytes(tls, s.stmt, col))
			p := lib.Xsqlite3_column_blob(tls, s.stmt, col)

			b := make([]byte, n)
			if p != 0 {
				copy(b, libc.GoBytes(p, n))
			}

			row[i] = Blob(b)
		default:
			row[i] = Null()
		}
	}

	return row
}

func goStringN(s uintptr, n int) string {
	if s == 0 {
		return ""
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(s)), n)

	return string(b)
}
