package litedb_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/litedb"
)

var errBoom = errors.New("boom")

func Test_Transaction_Commits_When_Callback_Succeeds(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE t (a INTEGER)"))

	insert, err := db.Prepare("INSERT INTO t (a) VALUES (?)")
	require.NoError(t, err)

	deposit := db.Transaction(func(args ...any) (any, error) {
		for _, arg := range args {
			if _, err := insert.Run(arg); err != nil {
				return nil, err
			}
		}

		return len(args), nil
	})

	result, err := deposit(1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 3, result)

	open, err := db.InTransaction()
	require.NoError(t, err)
	require.False(t, open, "autocommit must be restored after commit")

	count, err := db.Prepare("SELECT count(*) FROM t")
	require.NoError(t, err)

	got, err := count.Pluck().Get()
	require.NoError(t, err)
	require.Equal(t, float64(3), got, "committed writes must be visible")
}

func Test_Transaction_Rolls_Back_When_Callback_Fails(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE t (a INTEGER)"))

	insert, err := db.Prepare("INSERT INTO t (a) VALUES (?)")
	require.NoError(t, err)

	failing := db.Transaction(func(args ...any) (any, error) {
		if _, err := insert.Run(1); err != nil {
			return nil, err
		}

		return nil, errBoom
	})

	_, err = failing()
	require.ErrorIs(t, err, errBoom, "the callback's own error must surface, not the rollback")

	open, err := db.InTransaction()
	require.NoError(t, err)
	require.False(t, open, "autocommit must be restored after rollback")

	count, err := db.Prepare("SELECT count(*) FROM t")
	require.NoError(t, err)

	got, err := count.Pluck().Get()
	require.NoError(t, err)
	require.Equal(t, float64(0), got, "rolled-back writes must not be visible")
}

func Test_Transaction_Reports_InTransaction_Inside_The_Callback(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	probe := db.Transaction(func(...any) (any, error) {
		open, err := db.InTransaction()
		if err != nil {
			return nil, err
		}

		return open, nil
	})

	result, err := probe()
	require.NoError(t, err)
	require.Equal(t, true, result, "the callback must run inside an open transaction")
}

func Test_Transaction_Rolls_Back_When_Callback_Panics(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE t (a INTEGER)"))

	insert, err := db.Prepare("INSERT INTO t (a) VALUES (1)")
	require.NoError(t, err)

	panicking := db.Transaction(func(...any) (any, error) {
		if _, err := insert.Run(); err != nil {
			return nil, err
		}

		panic("mid-transaction panic")
	})

	require.PanicsWithValue(t, "mid-transaction panic", func() {
		_, _ = panicking()
	})

	open, err := db.InTransaction()
	require.NoError(t, err)
	require.False(t, open, "autocommit must be restored after a panic")

	count, err := db.Prepare("SELECT count(*) FROM t")
	require.NoError(t, err)

	got, err := count.Pluck().Get()
	require.NoError(t, err)
	require.Equal(t, float64(0), got)
}

func Test_Transaction_Supports_Begin_Modes(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE t (a INTEGER)"))

	for _, mode := range []litedb.TxMode{litedb.TxDeferred, litedb.TxImmediate, litedb.TxExclusive} {
		fn := db.TransactionWithMode(mode, func(...any) (any, error) {
			return db.InTransaction()
		})

		result, err := fn()
		require.NoError(t, err, "mode %s", mode)
		require.Equal(t, true, result, "mode %s", mode)
	}
}

func Test_Transaction_Fails_When_Database_Is_Closed(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	fn := db.Transaction(func(...any) (any, error) {
		return nil, nil
	})

	require.NoError(t, db.Close())

	_, err := fn()
	require.ErrorIs(t, err, litedb.ErrClosed)
}
