package litedb

// TxMode selects the SQLite BEGIN variant a transaction opens with. The
// locking semantics are the engine's, not this package's.
type TxMode string

// BEGIN variants.
const (
	TxDeferred  TxMode = "DEFERRED"
	TxImmediate TxMode = "IMMEDIATE"
	TxExclusive TxMode = "EXCLUSIVE"
)

// TxFunc is a caller-supplied unit of work, invoked with the arguments the
// wrapped function was invoked with.
type TxFunc func(args ...any) (any, error)

// Transaction wraps fn so that invoking the returned function runs fn
// inside a plain BEGIN/COMMIT bracket. See [Database.TransactionWithMode].
func (db *Database) Transaction(fn TxFunc) TxFunc {
	return db.TransactionWithMode("", fn)
}

// TransactionWithMode wraps fn so that invoking the returned function:
//
//  1. executes BEGIN (with mode, when given),
//  2. invokes fn with the same arguments,
//  3. on success executes COMMIT and returns fn's result unchanged,
//  4. on failure executes a best-effort ROLLBACK — a rollback failure is
//     swallowed, never surfaced above fn's own error — and returns fn's
//     error.
//
// The whole bracket is serialized against other transactions on the same
// database, while statements executed inside fn keep working: they
// interleave under the bracket, not around it. A panic out of fn rolls the
// transaction back and re-panics.
//
// Possible errors (from the wrapped function):
//   - [ErrClosed]: the database has been closed.
//   - [*Error]: BEGIN or COMMIT failed.
//   - fn's own error, unchanged.
func (db *Database) TransactionWithMode(mode TxMode, fn TxFunc) TxFunc {
	begin := "BEGIN"
	if mode != "" {
		begin = "BEGIN " + string(mode)
	}

	return func(args ...any) (any, error) {
		db.txMu.Lock()
		defer db.txMu.Unlock()

		if err := db.Exec(begin); err != nil {
			return nil, err
		}

		committed := false
		defer func() {
			if !committed {
				// Best effort; the original failure wins.
				_ = db.Exec("ROLLBACK")
			}
		}()

		result, err := fn(args...)
		if err != nil {
			return nil, err
		}

		if err := db.Exec("COMMIT"); err != nil {
			return nil, err
		}

		committed = true

		return result, nil
	}
}
