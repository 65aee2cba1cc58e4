package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/litedb/internal/engine"
)

func openConn(t *testing.T) *engine.Conn {
	t.Helper()

	conn, err := engine.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})

	return conn
}

func Test_Open_Fails_When_Directory_Does_Not_Exist(t *testing.T) {
	t.Parallel()

	_, err := engine.Open(filepath.Join(t.TempDir(), "nope", "test.db"))
	if err == nil {
		t.Fatal("expected an error")
	}

	engineErr, ok := err.(*engine.Error)
	if !ok {
		t.Fatalf("expected *engine.Error, got %T: %v", err, err)
	}

	if engineErr.Message == "" {
		t.Error("expected a non-empty engine message")
	}
}

func Test_Close_Is_Idempotent(t *testing.T) {
	t.Parallel()

	conn, err := engine.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}

func Test_ExecBatch_Runs_Multiple_Statements(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	err := conn.ExecBatch("CREATE TABLE t (a); INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)")
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	if got := conn.TotalChanges(); got != 2 {
		t.Errorf("expected 2 total changes, got %d", got)
	}
}

func Test_Prepare_Captures_Declared_Parameter_Names(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	stmt, err := conn.Prepare("SELECT :a, ?, @b, $c")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	if got := stmt.ParamCount(); got != 4 {
		t.Fatalf("expected 4 parameters, got %d", got)
	}

	want := []string{":a", "", "@b", "$c"}
	for i, name := range want {
		if got := stmt.ParamName(i + 1); got != name {
			t.Errorf("parameter %d: expected %q, got %q", i+1, name, got)
		}
	}
}

func Test_Prepare_Fails_When_Input_Is_Not_SQL(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if _, err := conn.Prepare("not sql at all"); err == nil {
		t.Error("expected a syntax error")
	}

	if _, err := conn.Prepare("   -- comment only"); err == nil {
		t.Error("expected an error for statement-free input")
	}
}

func Test_Query_Steps_Through_All_Rows(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if err := conn.ExecBatch("CREATE TABLE t (a); INSERT INTO t VALUES (1), (2), (3)"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	stmt, err := conn.Prepare("SELECT a FROM t ORDER BY a")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	rows, err := stmt.Query(engine.NoParams())
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	var got []int64

	for {
		row, ok, err := rows.Next()
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}

		if !ok {
			break
		}

		got = append(got, row[0].Int)
	}

	if diff := cmp.Diff([]int64{1, 2, 3}, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	// Exhausted cursors keep reporting done.
	if _, ok, err := rows.Next(); ok || err != nil {
		t.Errorf("expected a terminal cursor, got ok=%v err=%v", ok, err)
	}
}

func Test_Query_Executes_Statements_Without_Output(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if err := conn.ExecBatch("CREATE TABLE t (a)"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	stmt, err := conn.Prepare("INSERT INTO t VALUES (42)")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	rows, err := stmt.Query(engine.NoParams())
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if _, ok, _ := rows.Next(); ok {
		t.Error("an INSERT must yield no rows")
	}

	if got := conn.Changes(); got != 1 {
		t.Errorf("expected 1 change, got %d", got)
	}

	if got := conn.LastInsertRowID(); got != 1 {
		t.Errorf("expected rowid 1, got %d", got)
	}
}

func Test_Query_Binds_Every_Datatype(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	stmt, err := conn.Prepare("SELECT ?, ?, ?, ?, ?")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	params := engine.Positional([]engine.Value{
		engine.Null(),
		engine.Integer(-9),
		engine.Real(2.5),
		engine.Text("héllo"),
		engine.Blob([]byte{0x00, 0x01, 0xff}),
	})

	rows, err := stmt.Query(params)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	row, ok, err := rows.Next()
	if err != nil || !ok {
		t.Fatalf("expected one row, got ok=%v err=%v", ok, err)
	}

	want := engine.Row{
		engine.Null(),
		engine.Integer(-9),
		engine.Real(2.5),
		engine.Text("héllo"),
		engine.Blob([]byte{0x00, 0x01, 0xff}),
	}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func Test_Query_Binds_Named_Parameters_By_Declared_Name(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	stmt, err := conn.Prepare("SELECT :a + :b")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	params := engine.Named([]engine.NamedParam{
		{Name: ":a", Value: engine.Integer(2)},
		{Name: ":b", Value: engine.Integer(40)},
	})

	rows, err := stmt.Query(params)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	row, ok, err := rows.Next()
	if err != nil || !ok {
		t.Fatalf("expected one row, got ok=%v err=%v", ok, err)
	}

	if row[0].Int != 42 {
		t.Errorf("expected 42, got %d", row[0].Int)
	}
}

func Test_Reset_Allows_Reexecution_With_Fresh_Bindings(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	stmt, err := conn.Prepare("SELECT ?")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	for _, v := range []int64{1, 2, 3} {
		stmt.Reset()

		rows, err := stmt.Query(engine.Positional([]engine.Value{engine.Integer(v)}))
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}

		row, ok, err := rows.Next()
		if err != nil || !ok {
			t.Fatalf("expected one row, got ok=%v err=%v", ok, err)
		}

		if row[0].Int != v {
			t.Errorf("expected %d, got %d", v, row[0].Int)
		}
	}
}

func Test_Columns_Reports_Origin_Metadata(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if err := conn.ExecBatch("CREATE TABLE t (a INTEGER, b TEXT)"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	stmt, err := conn.Prepare("SELECT a, b AS renamed, a + 1 FROM t")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	want := []engine.ColumnInfo{
		{Name: "a", OriginName: "a", TableName: "t", DatabaseName: "main", DeclType: "INTEGER"},
		{Name: "renamed", OriginName: "b", TableName: "t", DatabaseName: "main", DeclType: "TEXT"},
		{Name: "a + 1"},
	}
	if diff := cmp.Diff(want, stmt.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func Test_Step_Surfaces_Constraint_Violations_With_Extended_Code(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if err := conn.ExecBatch("CREATE TABLE t (a INTEGER PRIMARY KEY); INSERT INTO t VALUES (1)"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	stmt, err := conn.Prepare("INSERT INTO t VALUES (1)")
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	defer stmt.Finalize()

	_, err = stmt.Query(engine.NoParams())
	if err == nil {
		t.Fatal("expected a constraint violation")
	}

	engineErr, ok := err.(*engine.Error)
	if !ok {
		t.Fatalf("expected *engine.Error, got %T: %v", err, err)
	}

	if got := engineErr.CodeName(); got != "SQLITE_CONSTRAINT_PRIMARYKEY" {
		t.Errorf("expected SQLITE_CONSTRAINT_PRIMARYKEY, got %q", got)
	}
}

func Test_AutocommitEnabled_Tracks_Explicit_Transactions(t *testing.T) {
	t.Parallel()

	conn := openConn(t)

	if !conn.AutocommitEnabled() {
		t.Fatal("expected autocommit before BEGIN")
	}

	if err := conn.ExecBatch("BEGIN"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if conn.AutocommitEnabled() {
		t.Error("expected autocommit off inside a transaction")
	}

	if err := conn.ExecBatch("COMMIT"); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if !conn.AutocommitEnabled() {
		t.Error("expected autocommit after COMMIT")
	}
}

func Test_CodeName_Synthesizes_Names_For_Unknown_Codes(t *testing.T) {
	t.Parallel()

	if got := engine.CodeName(5); got != "SQLITE_BUSY" {
		t.Errorf("expected SQLITE_BUSY, got %q", got)
	}

	if got := engine.CodeName(99999); got != "UNKNOWN_SQLITE_ERROR_99999" {
		t.Errorf("expected a synthesized name, got %q", got)
	}
}
