package shell

import "errors"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
	errHistorySizeBad     = errors.New("history_size cannot be negative")
	errUnknownMode        = errors.New("unknown output mode")
	errMissingArgument    = errors.New("missing argument")
)
