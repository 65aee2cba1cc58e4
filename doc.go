// Package litedb is a synchronous SQLite client with a better-sqlite3-shaped
// API: prepared statements, positional and named parameters, keyed/raw/pluck
// result modes, and callback-bracketed transactions over a single shared
// connection.
//
// # Basic Usage
//
//	db, err := litedb.Open("app.db")
//	if err != nil {
//	    // handle open failure
//	}
//	defer db.Close()
//
//	stmt, err := db.Prepare("SELECT name FROM users WHERE id = :id")
//	row, err := stmt.Get(map[string]any{"id": 7})
//
//	insert, err := db.Prepare("INSERT INTO users(name) VALUES (?)")
//	res, err := insert.Run("ada")
//	_ = res.LastInsertRowid
//
// # Value Model
//
// Caller values map onto the five SQLite datatypes: nil binds NULL, bool
// binds INTEGER 0/1, all integer kinds bind INTEGER, float64/float32 bind
// REAL (never narrowed to INTEGER), string binds TEXT and []byte binds BLOB.
// Anything else fails with [ErrUnsupportedType] before the engine is
// touched. Reading back, INTEGER columns decode as float64 unless
// safe-integers mode is on ([Statement.SafeIntegers],
// [Database.DefaultSafeIntegers]), in which case they decode as exact int64.
//
// # Concurrency
//
// A [Database] is safe for concurrent use. All engine work runs on one
// process-wide background goroutine; every public call blocks until its
// engine round trip completes. There is no cancellation primitive: a call in
// flight runs to completion or failure.
//
// # Error Handling
//
// Engine failures surface as [*Error] carrying the engine's message text
// verbatim plus the symbolic and numeric SQLite result codes. Local
// failures (closed database, unsupported parameter shapes, mode
// misconfiguration) are sentinel errors checked with [errors.Is] and never
// cost an engine round trip.
package litedb
