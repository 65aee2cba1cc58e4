package litedb

import (
	"fmt"
	"strings"
	"sync"

	"github.com/calvinalkan/litedb/internal/engine"
)

// remoteSchemes are database URL schemes [Open] rejects. Only local files
// are supported.
var remoteSchemes = []string{"libsql://", "http://", "https://"}

// Database is the shared handle to one open SQLite connection. All
// statements prepared from it execute over that single connection.
//
// A Database is safe for concurrent use. It is one-way: once closed it
// cannot be reopened.
type Database struct {
	path string

	// mu guards conn and stmts. It is the outer lock: operations that also
	// need a statement's own lock take mu first (see [Statement]).
	mu    sync.Mutex
	conn  *engine.Conn // nil once closed
	stmts []*Statement

	// txMu serializes whole BEGIN/callback/COMMIT brackets. It is held
	// across the callback while mu is taken per-operation inside it, so
	// statements keep working inside a transaction callback.
	txMu sync.Mutex

	defaultSafeIntegers bool
}

// Open opens (creating if necessary) the SQLite database file at path.
// ":memory:" opens an in-memory database.
//
// Possible errors:
//   - [ErrRemotePath]: path is a remote database URL.
//   - [*Error]: the engine could not open the file.
func Open(path string) (*Database, error) {
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(path, scheme) {
			return nil, fmt.Errorf("%w: %s", ErrRemotePath, path)
		}
	}

	var (
		conn *engine.Conn
		err  error
	)

	submit(func() {
		conn, err = engine.Open(path)
	})

	if err != nil {
		return nil, asError(err)
	}

	return &Database{path: path, conn: conn}, nil
}

// Path returns the path the database was opened with.
func (db *Database) Path() string { return db.path }

// Prepare compiles sql into a reusable [Statement]. The statement stays
// valid until the database is closed; there is no per-statement close.
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
//   - [*Error]: sql did not compile.
func (db *Database) Prepare(sql string) (*Statement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn == nil {
		return nil, ErrClosed
	}

	var (
		est      *engine.Stmt
		err      error
		colNames []string
	)

	submit(func() {
		est, err = db.conn.Prepare(sql)
		if err == nil {
			colNames = est.ColumnNames()
		}
	})

	if err != nil {
		return nil, asError(err)
	}

	s := &Statement{
		db:           db,
		stmt:         est,
		colNames:     colNames,
		safeIntegers: db.defaultSafeIntegers,
	}
	db.stmts = append(db.stmts, s)

	return s, nil
}

// Exec runs one or more semicolon-separated SQL statements with no
// parameter binding and no result rows.
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
//   - [*Error]: the engine rejected a statement.
func (db *Database) Exec(sql string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn == nil {
		return ErrClosed
	}

	var err error

	submit(func() {
		err = db.conn.ExecBatch(sql)
	})

	return asError(err)
}

// InTransaction reports whether the connection currently has an explicit
// transaction open (autocommit is off).
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
func (db *Database) InTransaction() (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn == nil {
		return false, ErrClosed
	}

	var open bool

	submit(func() {
		open = !db.conn.AutocommitEnabled()
	})

	return open, nil
}

// DefaultSafeIntegers sets the integer decoding default for statements
// prepared afterward: on means INTEGER columns decode as exact int64,
// off means float64. Called without arguments it turns the default on.
// Statements already prepared keep their own setting.
func (db *Database) DefaultSafeIntegers(on ...bool) *Database {
	v := true
	if len(on) > 0 {
		v = on[0]
	}

	db.mu.Lock()
	db.defaultSafeIntegers = v
	db.mu.Unlock()

	return db
}

// Close finalizes every prepared statement and closes the connection.
// Closing an already-closed database is a no-op success.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn == nil {
		return nil
	}

	conn := db.conn
	stmts := db.stmts
	db.conn = nil
	db.stmts = nil

	var err error

	submit(func() {
		for _, s := range stmts {
			s.stmt.Finalize()
		}

		err = conn.Close()
	})

	return asError(err)
}
