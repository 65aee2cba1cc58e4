// litedb is an interactive SQL shell for local SQLite database files.
//
// Usage:
//
//	litedb [options] [database-file]
//
// Without a database file an in-memory database is opened. Without
// -c/--command an interactive REPL starts.
//
// Options:
//
//	-c, --command    Execute one SQL statement (or dot command) and exit
//	    --safe-integers  Decode INTEGER columns as exact int64
//	    --mode       Output mode: table, raw, or pluck
//	    --config     Explicit config file (HuJSON)
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/litedb"
	"github.com/calvinalkan/litedb/internal/shell"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("litedb", flag.ContinueOnError)

	command := flags.StringP("command", "c", "", "execute one SQL statement and exit")
	safeIntegers := flags.Bool("safe-integers", false, "decode INTEGER columns as exact int64")
	mode := flags.String("mode", "", "output mode: table, raw, or pluck")
	configPath := flags.String("config", "", "explicit config file")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: litedb [options] [database-file]\n\n")
		fmt.Fprintf(os.Stderr, "Opens an interactive SQL shell. Without a file, an in-memory\n")
		fmt.Fprintf(os.Stderr, "database is used.\n\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg, err := shell.LoadConfig(*configPath, os.Environ())
	if err != nil {
		return err
	}

	if *safeIntegers {
		cfg.SafeIntegers = true
	}

	path := ":memory:"
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}

	db, err := litedb.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	sh := shell.New(db, cfg, os.Stdout)

	if *mode != "" {
		if err := sh.SetMode(*mode); err != nil {
			return err
		}
	}

	if *command != "" {
		_, err := sh.Execute(*command)

		return err
	}

	return sh.Run()
}
