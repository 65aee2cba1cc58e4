package litedb

import (
	"iter"

	"github.com/calvinalkan/litedb/internal/engine"
)

// Step is one pull from an [Iterator]: either a materialized row value, or
// Done once the cursor is exhausted.
type Step struct {
	Done  bool
	Value any
}

// Iterator is a lazy, pull-based cursor over one execution of a
// [Statement], produced by [Statement.Iterate]. It buffers at most one row
// and cannot be restarted or rewound.
//
// Exhaustion is terminal and idempotent: once a call returns Done, every
// later call returns Done again without touching the engine. Re-executing
// the owning statement exhausts any iterator still open on the previous
// execution.
type Iterator struct {
	stmt *Statement
	rows *engine.Rows
	gen  uint64
	done bool
	err  error
}

// Next pulls one row, materialized under the owning statement's result
// mode.
//
// Possible errors:
//   - [ErrClosed]: the database has been closed.
//   - [*Error]: the cursor failed mid-iteration.
func (it *Iterator) Next() (Step, error) {
	if it.done {
		return Step{Done: true}, nil
	}

	s := it.stmt

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.conn == nil {
		it.done = true

		return Step{Done: true}, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if it.gen != s.gen {
		// The statement was re-executed; this cursor is stale.
		it.done = true

		return Step{Done: true}, nil
	}

	var (
		row engine.Row
		ok  bool
		err error
	)

	submit(func() {
		row, ok, err = it.rows.Next()
	})

	if err != nil {
		it.done = true

		return Step{Done: true}, asError(err)
	}

	if !ok {
		it.done = true

		return Step{Done: true}, nil
	}

	return Step{Value: materializeRow(row, s.colNames, s.raw, s.pluck, s.safeIntegers)}, nil
}

// Values adapts the iterator to a range-over-func sequence:
//
//	for v := range it.Values() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
//
// Iteration stops on the first error; check [Iterator.Err] afterward.
func (it *Iterator) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for {
			step, err := it.Next()
			if err != nil {
				it.err = err

				return
			}

			if step.Done {
				return
			}

			if !yield(step.Value) {
				return
			}
		}
	}
}

// Err returns the error that stopped a [Iterator.Values] loop, if any.
func (it *Iterator) Err() error { return it.err }
