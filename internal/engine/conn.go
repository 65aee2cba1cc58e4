// Package engine binds the pure-Go SQLite library (modernc.org/sqlite/lib)
// behind the small typed surface the litedb core needs: prepare, batch
// execution, a forward-only row cursor, and the connection-level counters.
//
// A [Conn] and everything prepared from it are confined to a single
// goroutine (litedb runs all engine work on its background runtime); the
// package itself does no locking.
package engine

import (
	"fmt"
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

var initOnce sync.Once

func initlib(tls *libc.TLS) {
	initOnce.Do(func() {
		lib.Xsqlite3_initialize(tls)
	})
}

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// Conn is an open connection to an SQLite database.
//
// A Conn may only be used by one goroutine at a time.
type Conn struct {
	tls    *libc.TLS
	conn   uintptr
	closed bool
}

// Open opens (creating if necessary) the database file at path.
//
// URI filenames and ":memory:" are accepted as-is; the caller decides what
// counts as a valid path before getting here.
func Open(path string) (_ *Conn, err error) {
	tls := libc.NewTLS()
	defer func() {
		if err != nil {
			tls.Close()
		}
	}()
	initlib(tls)

	cpath, err := libc.CString(path)
	if err != nil {
		return nil, fmt.Errorf("engine: open %q: %w", path, err)
	}
	defer libc.Xfree(tls, cpath)

	connPtr, err := malloc(tls, ptrSize)
	if err != nil {
		return nil, fmt.Errorf("engine: open %q: %w", path, err)
	}
	defer libc.Xfree(tls, connPtr)

	flags := int32(lib.SQLITE_OPEN_READWRITE | lib.SQLITE_OPEN_CREATE | lib.SQLITE_OPEN_URI)

	res := lib.Xsqlite3_open_v2(tls, cpath, connPtr, flags, 0)
	c := &Conn{
		tls:  tls,
		conn: *(*uintptr)(unsafe.Pointer(connPtr)),
	}

	if c.conn == 0 {
		// Not enough memory to allocate the sqlite3 object.
		return nil, &Error{Code: res, Message: "out of memory"}
	}

	if res != lib.SQLITE_OK {
		// sqlite3_open_v2 may still return a sqlite3* just so the error can
		// be extracted from it.
		openErr := c.lastError(res)
		lib.Xsqlite3_close_v2(tls, c.conn)

		return nil, openErr
	}

	lib.Xsqlite3_extended_result_codes(tls, c.conn, 1)

	return c, nil
}

// Close closes the connection. All statements prepared from it must be
// finalized first.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true

	res := lib.Xsqlite3_close_v2(c.tls, c.conn)
	c.tls.Close()
	c.tls = nil

	if res != lib.SQLITE_OK {
		return &Error{Code: res, Message: CodeName(res)}
	}

	return nil
}

// ExecBatch runs one or more SQL statements separated by semicolons, with no
// parameter binding and no result rows (sqlite3_exec).
func (c *Conn) ExecBatch(sql string) error {
	csql, err := libc.CString(sql)
	if err != nil {
		return fmt.Errorf("engine: exec: %w", err)
	}
	defer libc.Xfree(c.tls, csql)

	res := lib.Xsqlite3_exec(c.tls, c.conn, csql, 0, 0, 0)
	if res != lib.SQLITE_OK {
		return c.lastError(res)
	}

	return nil
}

// Changes reports the number of rows modified by the most recent statement.
func (c *Conn) Changes() int64 {
	return int64(lib.Xsqlite3_changes(c.tls, c.conn))
}

// TotalChanges reports the cumulative number of rows modified since the
// connection was opened.
func (c *Conn) TotalChanges() int64 {
	return int64(lib.Xsqlite3_total_changes(c.tls, c.conn))
}

// LastInsertRowID reports the rowid of the most recent successful INSERT.
func (c *Conn) LastInsertRowID() int64 {
	return lib.Xsqlite3_last_insert_rowid(c.tls, c.conn)
}

// AutocommitEnabled reports whether the connection is in autocommit mode,
// i.e. no explicit transaction is open.
func (c *Conn) AutocommitEnabled() bool {
	return lib.Xsqlite3_get_autocommit(c.tls, c.conn) != 0
}

// lastError builds an [Error] from the connection's current error state,
// preferring the extended result code when one is set.
func (c *Conn) lastError(res int32) *Error {
	ext := lib.Xsqlite3_extended_errcode(c.tls, c.conn)
	if ext != 0 {
		res = ext
	}

	return &Error{
		Code:    res,
		Message: libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.conn)),
	}
}

func malloc(tls *libc.TLS, n types.Size_t) (uintptr, error) {
	p := libc.Xmalloc(tls, n)
	if p == 0 {
		return 0, fmt.Errorf("out of memory")
	}

	return p, nil
}

// cFuncPointer converts a function defined by a function declaration to a C
// pointer. The result of using cFuncPointer on closures is undefined.
func cFuncPointer[T any](f T) uintptr {
	// This assumes the memory representation described in
	// https://golang.org/s/go11func.
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}

var freeFuncPtr = cFuncPointer(libc.Xfree)
