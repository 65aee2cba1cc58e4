package engine

import (
	"fmt"

	lib "modernc.org/sqlite/lib"
)

// codeNames maps numeric SQLite result codes (primary and extended) to their
// symbolic constant names. The table is fixed; codes not present here are
// synthesized by [CodeName].
var codeNames = map[int32]string{
	lib.SQLITE_OK:         "SQLITE_OK",
	lib.SQLITE_ERROR:      "SQLITE_ERROR",
	lib.SQLITE_INTERNAL:   "SQLITE_INTERNAL",
	lib.SQLITE_PERM:       "SQLITE_PERM",
	lib.SQLITE_ABORT:      "SQLITE_ABORT",
	lib.SQLITE_BUSY:       "SQLITE_BUSY",
	lib.SQLITE_LOCKED:     "SQLITE_LOCKED",
	lib.SQLITE_NOMEM:      "SQLITE_NOMEM",
	lib.SQLITE_READONLY:   "SQLITE_READONLY",
	lib.SQLITE_INTERRUPT:  "SQLITE_INTERRUPT",
	lib.SQLITE_IOERR:      "SQLITE_IOERR",
	lib.SQLITE_CORRUPT:    "SQLITE_CORRUPT",
	lib.SQLITE_NOTFOUND:   "SQLITE_NOTFOUND",
	lib.SQLITE_FULL:       "SQLITE_FULL",
	lib.SQLITE_CANTOPEN:   "SQLITE_CANTOPEN",
	lib.SQLITE_PROTOCOL:   "SQLITE_PROTOCOL",
	lib.SQLITE_EMPTY:      "SQLITE_EMPTY",
	lib.SQLITE_SCHEMA:     "SQLITE_SCHEMA",
	lib.SQLITE_TOOBIG:     "SQLITE_TOOBIG",
	lib.SQLITE_CONSTRAINT: "SQLITE_CONSTRAINT",
	lib.SQLITE_MISMATCH:   "SQLITE_MISMATCH",
	lib.SQLITE_MISUSE:     "SQLITE_MISUSE",
	lib.SQLITE_NOLFS:      "SQLITE_NOLFS",
	lib.SQLITE_AUTH:       "SQLITE_AUTH",
	lib.SQLITE_FORMAT:     "SQLITE_FORMAT",
	lib.SQLITE_RANGE:      "SQLITE_RANGE",
	lib.SQLITE_NOTADB:     "SQLITE_NOTADB",
	lib.SQLITE_NOTICE:     "SQLITE_NOTICE",
	lib.SQLITE_WARNING:    "SQLITE_WARNING",
	lib.SQLITE_ROW:        "SQLITE_ROW",
	lib.SQLITE_DONE:       "SQLITE_DONE",

	lib.SQLITE_ERROR_MISSING_COLLSEQ:   "SQLITE_ERROR_MISSING_COLLSEQ",
	lib.SQLITE_ERROR_RETRY:             "SQLITE_ERROR_RETRY",
	lib.SQLITE_ERROR_SNAPSHOT:          "SQLITE_ERROR_SNAPSHOT",
	lib.SQLITE_IOERR_READ:              "SQLITE_IOERR_READ",
	lib.SQLITE_IOERR_SHORT_READ:        "SQLITE_IOERR_SHORT_READ",
	lib.SQLITE_IOERR_WRITE:             "SQLITE_IOERR_WRITE",
	lib.SQLITE_IOERR_FSYNC:             "SQLITE_IOERR_FSYNC",
	lib.SQLITE_IOERR_DIR_FSYNC:         "SQLITE_IOERR_DIR_FSYNC",
	lib.SQLITE_IOERR_TRUNCATE:          "SQLITE_IOERR_TRUNCATE",
	lib.SQLITE_IOERR_FSTAT:             "SQLITE_IOERR_FSTAT",
	lib.SQLITE_IOERR_UNLOCK:            "SQLITE_IOERR_UNLOCK",
	lib.SQLITE_IOERR_RDLOCK:            "SQLITE_IOERR_RDLOCK",
	lib.SQLITE_IOERR_DELETE:            "SQLITE_IOERR_DELETE",
	lib.SQLITE_IOERR_BLOCKED:           "SQLITE_IOERR_BLOCKED",
	lib.SQLITE_IOERR_NOMEM:             "SQLITE_IOERR_NOMEM",
	lib.SQLITE_IOERR_ACCESS:            "SQLITE_IOERR_ACCESS",
	lib.SQLITE_IOERR_CHECKRESERVEDLOCK: "SQLITE_IOERR_CHECKRESERVEDLOCK",
	lib.SQLITE_IOERR_LOCK:              "SQLITE_IOERR_LOCK",
	lib.SQLITE_IOERR_CLOSE:             "SQLITE_IOERR_CLOSE",
	lib.SQLITE_IOERR_DIR_CLOSE:         "SQLITE_IOERR_DIR_CLOSE",
	lib.SQLITE_IOERR_SHMOPEN:           "SQLITE_IOERR_SHMOPEN",
	lib.SQLITE_IOERR_SHMSIZE:           "SQLITE_IOERR_SHMSIZE",
	lib.SQLITE_IOERR_SHMLOCK:           "SQLITE_IOERR_SHMLOCK",
	lib.SQLITE_IOERR_SHMMAP:            "SQLITE_IOERR_SHMMAP",
	lib.SQLITE_IOERR_SEEK:              "SQLITE_IOERR_SEEK",
	lib.SQLITE_IOERR_DELETE_NOENT:      "SQLITE_IOERR_DELETE_NOENT",
	lib.SQLITE_IOERR_MMAP:              "SQLITE_IOERR_MMAP",
	lib.SQLITE_IOERR_GETTEMPPATH:       "SQLITE_IOERR_GETTEMPPATH",
	lib.SQLITE_IOERR_CONVPATH:          "SQLITE_IOERR_CONVPATH",
	lib.SQLITE_LOCKED_SHAREDCACHE:      "SQLITE_LOCKED_SHAREDCACHE",
	lib.SQLITE_LOCKED_VTAB:             "SQLITE_LOCKED_VTAB",
	lib.SQLITE_BUSY_RECOVERY:           "SQLITE_BUSY_RECOVERY",
	lib.SQLITE_BUSY_SNAPSHOT:           "SQLITE_BUSY_SNAPSHOT",
	lib.SQLITE_BUSY_TIMEOUT:            "SQLITE_BUSY_TIMEOUT",
	lib.SQLITE_CANTOPEN_NOTEMPDIR:      "SQLITE_CANTOPEN_NOTEMPDIR",
	lib.SQLITE_CANTOPEN_ISDIR:          "SQLITE_CANTOPEN_ISDIR",
	lib.SQLITE_CANTOPEN_FULLPATH:       "SQLITE_CANTOPEN_FULLPATH",
	lib.SQLITE_CANTOPEN_CONVPATH:       "SQLITE_CANTOPEN_CONVPATH",
	lib.SQLITE_CANTOPEN_SYMLINK:        "SQLITE_CANTOPEN_SYMLINK",
	lib.SQLITE_CORRUPT_VTAB:            "SQLITE_CORRUPT_VTAB",
	lib.SQLITE_CORRUPT_SEQUENCE:        "SQLITE_CORRUPT_SEQUENCE",
	lib.SQLITE_CORRUPT_INDEX:           "SQLITE_CORRUPT_INDEX",
	lib.SQLITE_READONLY_RECOVERY:       "SQLITE_READONLY_RECOVERY",
	lib.SQLITE_READONLY_CANTLOCK:       "SQLITE_READONLY_CANTLOCK",
	lib.SQLITE_READONLY_ROLLBACK:       "SQLITE_READONLY_ROLLBACK",
	lib.SQLITE_READONLY_DBMOVED:        "SQLITE_READONLY_DBMOVED",
	lib.SQLITE_READONLY_CANTINIT:       "SQLITE_READONLY_CANTINIT",
	lib.SQLITE_READONLY_DIRECTORY:      "SQLITE_READONLY_DIRECTORY",
	lib.SQLITE_ABORT_ROLLBACK:          "SQLITE_ABORT_ROLLBACK",
	lib.SQLITE_CONSTRAINT_CHECK:        "SQLITE_CONSTRAINT_CHECK",
	lib.SQLITE_CONSTRAINT_COMMITHOOK:   "SQLITE_CONSTRAINT_COMMITHOOK",
	lib.SQLITE_CONSTRAINT_FOREIGNKEY:   "SQLITE_CONSTRAINT_FOREIGNKEY",
	lib.SQLITE_CONSTRAINT_FUNCTION:     "SQLITE_CONSTRAINT_FUNCTION",
	lib.SQLITE_CONSTRAINT_NOTNULL:      "SQLITE_CONSTRAINT_NOTNULL",
	lib.SQLITE_CONSTRAINT_PRIMARYKEY:   "SQLITE_CONSTRAINT_PRIMARYKEY",
	lib.SQLITE_CONSTRAINT_TRIGGER:      "SQLITE_CONSTRAINT_TRIGGER",
	lib.SQLITE_CONSTRAINT_UNIQUE:       "SQLITE_CONSTRAINT_UNIQUE",
	lib.SQLITE_CONSTRAINT_VTAB:         "SQLITE_CONSTRAINT_VTAB",
	lib.SQLITE_CONSTRAINT_ROWID:        "SQLITE_CONSTRAINT_ROWID",
	lib.SQLITE_CONSTRAINT_PINNED:       "SQLITE_CONSTRAINT_PINNED",
	lib.SQLITE_CONSTRAINT_DATATYPE:     "SQLITE_CONSTRAINT_DATATYPE",
	lib.SQLITE_NOTICE_RECOVER_WAL:      "SQLITE_NOTICE_RECOVER_WAL",
	lib.SQLITE_NOTICE_RECOVER_ROLLBACK: "SQLITE_NOTICE_RECOVER_ROLLBACK",
	lib.SQLITE_WARNING_AUTOINDEX:       "SQLITE_WARNING_AUTOINDEX",
	lib.SQLITE_AUTH_USER:               "SQLITE_AUTH_USER",
	lib.SQLITE_OK_LOAD_PERMANENTLY:     "SQLITE_OK_LOAD_PERMANENTLY",
}

// CodeName returns the symbolic constant name for a numeric result code.
//
// Unrecognized codes synthesize a name embedding the numeric value, so a
// caller always gets a non-empty, stable identifier.
func CodeName(code int32) string {
	if name, ok := codeNames[code]; ok {
		return name
	}

	return fmt.Sprintf("UNKNOWN_SQLITE_ERROR_%d", code)
}

// Error is a failure reported by the engine. Message is the verbatim
// sqlite3_errmsg text at the time of failure; it is never rewritten.
type Error struct {
	Code    int32
	Message string
}

// Error returns the engine's own message text, unmodified.
func (e *Error) Error() string { return e.Message }

// CodeName returns the symbolic name for the error's result code.
func (e *Error) CodeName() string { return CodeName(e.Code) }
