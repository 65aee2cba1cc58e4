// Package shell implements the interactive litedb SQL shell: a liner-based
// REPL with dot commands, output modes, persistent history and a HuJSON
// config file.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"

	"github.com/calvinalkan/litedb"
)

// Output modes.
const (
	ModeTable = "table"
	ModeRaw   = "raw"
	ModePluck = "pluck"
)

// Shell drives one database through typed commands: SQL statements and dot
// commands (.help, .tables, ...). Reading input is the caller's concern for
// one-shot use; [Shell.Run] adds the interactive loop.
type Shell struct {
	db   *litedb.Database
	cfg  Config
	out  io.Writer
	mode string
	line *liner.State
}

// New returns a shell over db, writing output to out.
func New(db *litedb.Database, cfg Config, out io.Writer) *Shell {
	if cfg.SafeIntegers {
		db.DefaultSafeIntegers()
	}

	return &Shell{
		db:   db,
		cfg:  cfg,
		out:  out,
		mode: ModeTable,
	}
}

// SetMode switches the output mode: table, raw, or pluck.
func (sh *Shell) SetMode(mode string) error {
	switch mode {
	case ModeTable, ModeRaw, ModePluck:
		sh.mode = mode

		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownMode, mode)
	}
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".litedb_history")
}

// Run starts the interactive loop and blocks until the user quits.
func (sh *Shell) Run() error {
	sh.line = liner.NewLiner()
	defer sh.line.Close()

	sh.line.SetCtrlCAborts(true)
	sh.line.SetCompleter(completer)

	if f, err := os.Open(historyFile()); err == nil {
		sh.line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(sh.out, "litedb shell - %s\n", sh.db.Path())
	fmt.Fprintln(sh.out, "Type '.help' for available commands.")
	fmt.Fprintln(sh.out)

	for {
		input, err := sh.line.Prompt(sh.cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.out, "\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		sh.line.AppendHistory(input)

		quit, err := sh.Execute(input)
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}

		if quit {
			break
		}
	}

	sh.saveHistory()

	return nil
}

// saveHistory persists command history atomically, truncated to the
// configured size.
func (sh *Shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	var buf bytes.Buffer

	if _, err := sh.line.WriteHistory(&buf); err != nil {
		return
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) > sh.cfg.HistorySize {
		lines = lines[len(lines)-sh.cfg.HistorySize:]
	}

	data := strings.Join(lines, "\n") + "\n"

	_ = atomic.WriteFile(path, strings.NewReader(data))
}

// completer provides tab completion for dot commands.
func completer(input string) []string {
	commands := []string{
		".help", ".tables", ".schema", ".columns", ".mode", ".quit",
	}

	var completions []string

	lower := strings.ToLower(input)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

// Execute runs one line of input, either a dot command or SQL. It reports
// whether the shell should quit.
func (sh *Shell) Execute(input string) (bool, error) {
	if strings.HasPrefix(input, ".") {
		return sh.executeDotCommand(input)
	}

	return false, sh.executeSQL(input)
}

func (sh *Shell) executeDotCommand(input string) (bool, error) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ".quit", ".exit", ".q":
		fmt.Fprintln(sh.out, "Bye!")

		return true, nil

	case ".help", ".h":
		sh.printHelp()

		return false, nil

	case ".tables":
		return false, sh.cmdTables()

	case ".schema":
		return false, sh.cmdSchema(args)

	case ".columns":
		if len(args) == 0 {
			return false, fmt.Errorf("%w: .columns <sql>", errMissingArgument)
		}

		return false, sh.cmdColumns(strings.Join(args, " "))

	case ".mode":
		if len(args) == 0 {
			fmt.Fprintf(sh.out, "Output mode: %s\n", sh.mode)

			return false, nil
		}

		return false, sh.SetMode(strings.ToLower(args[0]))

	default:
		return false, fmt.Errorf("unknown command: %s (type '.help' for commands)", cmd)
	}
}

func (sh *Shell) printHelp() {
	fmt.Fprintln(sh.out, "Commands:")
	fmt.Fprintln(sh.out, "  .tables                 List table names")
	fmt.Fprintln(sh.out, "  .schema [table]         Show CREATE statements")
	fmt.Fprintln(sh.out, "  .columns <sql>          Describe the result columns of a query")
	fmt.Fprintln(sh.out, "  .mode [table|raw|pluck] Show or set the output mode")
	fmt.Fprintln(sh.out, "  .help                   Show this help")
	fmt.Fprintln(sh.out, "  .quit                   Exit")
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "Anything else is executed as SQL against the open database.")
}

func (sh *Shell) cmdTables() error {
	stmt, err := sh.db.Prepare(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	)
	if err != nil {
		return err
	}

	names, err := stmt.Pluck().All()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(sh.out, "(no tables)")

		return nil
	}

	for _, name := range names {
		fmt.Fprintln(sh.out, formatValue(name))
	}

	return nil
}

func (sh *Shell) cmdSchema(args []string) error {
	query := "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY name"

	var bind []any

	if len(args) > 0 {
		query = "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL AND name = ?"
		bind = append(bind, args[0])
	}

	stmt, err := sh.db.Prepare(query)
	if err != nil {
		return err
	}

	schemas, err := stmt.Pluck().All(bind...)
	if err != nil {
		return err
	}

	if len(schemas) == 0 {
		fmt.Fprintln(sh.out, "(no schema)")

		return nil
	}

	for _, schema := range schemas {
		fmt.Fprintf(sh.out, "%s;\n", formatValue(schema))
	}

	return nil
}

func (sh *Shell) cmdColumns(query string) error {
	stmt, err := sh.db.Prepare(query)
	if err != nil {
		return err
	}

	cols, err := stmt.Columns()
	if err != nil {
		return err
	}

	if len(cols) == 0 {
		fmt.Fprintln(sh.out, "(no result columns)")

		return nil
	}

	rows := make([][]string, len(cols))
	for i, col := range cols {
		rows[i] = []string{
			col.Name, col.OriginName, col.TableName, col.DatabaseName, col.DeclType,
		}
	}

	fmt.Fprint(sh.out, renderTable(
		[]string{"name", "origin", "table", "database", "type"}, rows,
	))

	return nil
}

// executeSQL runs one SQL statement. Statements with result columns print
// rows under the current output mode; statements without print the change
// summary.
func (sh *Shell) executeSQL(input string) error {
	stmt, err := sh.db.Prepare(input)
	if err != nil {
		return err
	}

	cols, err := stmt.Columns()
	if err != nil {
		return err
	}

	if len(cols) == 0 {
		res, err := stmt.Run()
		if err != nil {
			return err
		}

		fmt.Fprintf(sh.out, "OK: %d change(s), last rowid %d (%.3fs)\n",
			res.Changes, res.LastInsertRowid, res.Duration)

		return nil
	}

	switch sh.mode {
	case ModePluck:
		values, err := stmt.Pluck().All()
		if err != nil {
			return err
		}

		for _, v := range values {
			fmt.Fprintln(sh.out, formatValue(v))
		}

	default:
		if _, err := stmt.Raw(); err != nil {
			return err
		}

		rows, err := stmt.All()
		if err != nil {
			return err
		}

		if sh.mode == ModeRaw {
			for _, row := range rows {
				cells := formatRow(row)
				fmt.Fprintln(sh.out, strings.Join(cells, "|"))
			}

			break
		}

		headers := make([]string, len(cols))
		for i, col := range cols {
			headers[i] = col.Name
		}

		table := make([][]string, len(rows))
		for i, row := range rows {
			table[i] = formatRow(row)
		}

		fmt.Fprint(sh.out, renderTable(headers, table))
	}

	return nil
}

func formatRow(row any) []string {
	values, ok := row.([]any)
	if !ok {
		return []string{formatValue(row)}
	}

	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = formatValue(v)
	}

	return cells
}
