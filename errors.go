package litedb

import (
	"errors"

	"github.com/calvinalkan/litedb/internal/engine"
)

// Sentinel errors returned by litedb operations.
//
// These cover every failure detected locally, before any engine call.
// Callers should use [errors.Is] to check error types:
//
//	if errors.Is(err, litedb.ErrClosed) {
//	    // reopen or bail out
//	}
var (
	// ErrClosed indicates an operation on a closed [Database].
	//
	// Every operation checks liveness before touching the engine, so a
	// closed database never costs an engine round trip.
	ErrClosed = errors.New("litedb: database is closed")

	// ErrRemotePath indicates [Open] was given a remote database URL.
	//
	// Only local database files (and ":memory:") are supported; libsql://,
	// http:// and https:// URLs are rejected.
	ErrRemotePath = errors.New("litedb: remote databases are not supported")

	// ErrUnsupportedType indicates a parameter value whose type has no
	// SQLite representation.
	//
	// The wrapped message names the offending Go type. This is a
	// programming error.
	ErrUnsupportedType = errors.New("litedb: unsupported parameter type")

	// ErrValueOutOfRange indicates an unsigned integer parameter too large
	// for SQLite's signed 64-bit INTEGER.
	ErrValueOutOfRange = errors.New("litedb: value out of range")

	// ErrNoColumns indicates raw mode was requested on a statement that
	// produces no result columns (e.g. a bare INSERT).
	//
	// This is a programming error, raised when the mode is toggled rather
	// than at fetch time.
	ErrNoColumns = errors.New("litedb: raw mode requires a statement with at least one result column")
)

// Error is a failure reported by the SQLite engine.
//
// Message is the engine's own error text, passed through verbatim — never
// reformatted or wrapped. Code is the symbolic SQLite result-code name
// (e.g. "SQLITE_CONSTRAINT_UNIQUE"); RawCode is the numeric code behind it.
type Error struct {
	Message string
	Code    string
	RawCode int
}

// Error returns the engine's message text, unmodified.
func (e *Error) Error() string { return e.Message }

// asError lifts engine failures into [*Error] and passes everything else
// through untouched.
func asError(err error) error {
	if err == nil {
		return nil
	}

	var ee *engine.Error
	if errors.As(err, &ee) {
		return &Error{
			Message: ee.Message,
			Code:    engine.CodeName(ee.Code),
			RawCode: int(ee.Code),
		}
	}

	return err
}
