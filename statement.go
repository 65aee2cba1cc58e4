package litedb

import (
	"fmt"
	"sync"
	"time"

	"github.com/calvinalkan/litedb/internal/engine"
)

// Statement is a prepared statement bound to its owning [Database]. It
// carries three independently settable result-mode flags — raw, pluck and
// safe-integers — that persist across executions until changed.
//
// A Statement is safe for concurrent use, but each execution resets the
// statement first: starting a new execution invalidates any [Iterator]
// still open from a previous one.
type Statement struct {
	db   *Database
	stmt *engine.Stmt

	// Column names in column order, captured at prepare time.
	colNames []string

	// mu guards the flags, gen, and the prepared statement's cursor state.
	// It is the inner lock: db.mu is always taken first.
	mu           sync.Mutex
	gen          uint64 // bumped per execution; open iterators check it
	raw          bool
	pluck        bool
	safeIntegers bool
}

// RunResult reports one [Statement.Run] execution.
type RunResult struct {
	// Changes is the number of rows the statement modified. It is 0 exactly
	// when the connection's cumulative change counter did not move during
	// the call, which distinguishes "executed but affected nothing" from a
	// stale per-statement count.
	Changes int64

	// Duration is the elapsed wall-clock time of the call, in seconds.
	Duration float64

	// LastInsertRowid is the rowid of the connection's most recent
	// successful INSERT.
	LastInsertRowid int64
}

// Run executes the statement and reports change counts instead of rows.
// Result rows, if the statement produces any, are discarded.
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
//   - [ErrUnsupportedType], [ErrValueOutOfRange]: a parameter could not be
//     encoded (detected before any engine call).
//   - [*Error]: the engine rejected the execution.
func (s *Statement) Run(args ...any) (*RunResult, error) {
	params, err := bindArgs(s.stmt, args)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		return nil, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res := &RunResult{}

	var execErr error

	submit(func() {
		s.stmt.Reset()
		s.gen++

		totalBefore := s.db.conn.TotalChanges()

		if _, execErr = s.stmt.Query(params); execErr != nil {
			return
		}

		if s.db.conn.TotalChanges() != totalBefore {
			res.Changes = s.db.conn.Changes()
		}

		res.LastInsertRowid = s.db.conn.LastInsertRowID()
	})

	if execErr != nil {
		return nil, asError(execErr)
	}

	res.Duration = time.Since(start).Seconds()

	return res, nil
}

// Get executes the statement and returns its first row materialized under
// the statement's result mode, or nil when the statement yields no rows.
//
// In the default keyed mode the record additionally carries a
// [MetadataKey] entry: a map with the call's elapsed "duration" in
// seconds. Raw and pluck results carry no metadata.
//
// Possible errors: as for [Statement.Run].
func (s *Statement) Get(args ...any) (any, error) {
	params, err := bindArgs(s.stmt, args)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		return nil, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	var (
		row     engine.Row
		ok      bool
		execErr error
	)

	submit(func() {
		s.stmt.Reset()
		s.gen++

		var rows *engine.Rows

		rows, execErr = s.stmt.Query(params)
		if execErr != nil {
			return
		}

		row, ok, execErr = rows.Next()
	})

	if execErr != nil {
		return nil, asError(execErr)
	}

	if !ok {
		return nil, nil
	}

	value := materializeRow(row, s.colNames, s.raw, s.pluck, s.safeIntegers)

	if record, isRecord := value.(map[string]any); isRecord {
		record[MetadataKey] = map[string]any{
			"duration": time.Since(start).Seconds(),
		}
	}

	return value, nil
}

// All executes the statement and returns every row it yields, materialized
// under the statement's result mode, in cursor order.
//
// Possible errors: as for [Statement.Run].
func (s *Statement) All(args ...any) ([]any, error) {
	params, err := bindArgs(s.stmt, args)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		return nil, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		fetched []engine.Row
		execErr error
	)

	submit(func() {
		s.stmt.Reset()
		s.gen++

		rows, err := s.stmt.Query(params)
		if err != nil {
			execErr = err

			return
		}

		for {
			row, ok, err := rows.Next()
			if err != nil {
				execErr = err

				return
			}

			if !ok {
				return
			}

			fetched = append(fetched, row)
		}
	})

	if execErr != nil {
		return nil, asError(execErr)
	}

	out := make([]any, len(fetched))
	for i, row := range fetched {
		out[i] = materializeRow(row, s.colNames, s.raw, s.pluck, s.safeIntegers)
	}

	return out, nil
}

// Iterate executes the statement and returns a lazy, pull-based [Iterator]
// over its rows. The iterator buffers at most one row ahead and is
// invalidated by the next execution of the same statement.
//
// Possible errors: as for [Statement.Run].
func (s *Statement) Iterate(args ...any) (*Iterator, error) {
	params, err := bindArgs(s.stmt, args)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		return nil, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		rows    *engine.Rows
		execErr error
	)

	submit(func() {
		s.stmt.Reset()
		s.gen++

		rows, execErr = s.stmt.Query(params)
	})

	if execErr != nil {
		return nil, asError(execErr)
	}

	return &Iterator{stmt: s, rows: rows, gen: s.gen}, nil
}

// Raw toggles raw result mode: rows materialize as ordered []any slices
// instead of keyed records. Called without arguments it turns the mode on.
// It returns the same statement for chaining.
//
// Possible errors:
//   - [ErrNoColumns]: raw mode was requested on a statement with no result
//     columns. Raised here, not at fetch time.
func (s *Statement) Raw(on ...bool) (*Statement, error) {
	v := true
	if len(on) > 0 {
		v = on[0]
	}

	if v && len(s.colNames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, s.stmt.SQL())
	}

	s.mu.Lock()
	s.raw = v
	s.mu.Unlock()

	return s, nil
}

// Pluck toggles pluck result mode: rows materialize as the first column's
// value alone, overriding both keyed and raw modes. Called without
// arguments it turns the mode on. It returns the same statement for
// chaining.
func (s *Statement) Pluck(on ...bool) *Statement {
	v := true
	if len(on) > 0 {
		v = on[0]
	}

	s.mu.Lock()
	s.pluck = v
	s.mu.Unlock()

	return s
}

// SafeIntegers toggles exact integer decoding for this statement: INTEGER
// columns decode as int64 instead of float64. Called without arguments it
// turns the mode on. It returns the same statement for chaining.
func (s *Statement) SafeIntegers(on ...bool) *Statement {
	v := true
	if len(on) > 0 {
		v = on[0]
	}

	s.mu.Lock()
	s.safeIntegers = v
	s.mu.Unlock()

	return s
}

// Column describes one result column of a prepared statement. The origin
// fields and DeclType are empty for computed columns (expressions,
// aggregates).
type Column struct {
	Name         string
	OriginName   string
	TableName    string
	DatabaseName string
	DeclType     string
}

// Columns returns descriptors for the statement's result columns, in
// column order.
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
func (s *Statement) Columns() ([]Column, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		return nil, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var infos []engine.ColumnInfo

	submit(func() {
		infos = s.stmt.Columns()
	})

	cols := make([]Column, len(infos))
	for i, info := range infos {
		cols[i] = Column{
			Name:         info.Name,
			OriginName:   info.OriginName,
			TableName:    info.TableName,
			DatabaseName: info.DatabaseName,
			DeclType:     info.DeclType,
		}
	}

	return cols, nil
}
