package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")

	ErrInvalidConcurrencyWorkers = errors.New("concurrency workers must be greater than 0")
	ErrInvalidFiltersDebounce    = errors.New("filters debounce must not be negative")
	ErrInvalidMaxLineLength      = errors.New("logs max line length must be greater than 0")

	ErrMissingName    = errors.New("filter name is required")
	ErrMissingPattern = errors.New("filter pattern is required")
	ErrMissingColor   = errors.New("filter color is required")
	ErrMultilineName  = errors.New("filter name must be a single line")

	ErrInvalidConfiguration = errors.New("invalid filter configuration")
	ErrInvalidPattern       = errors.New("invalid filter pattern")
	ErrInvalidFormat        = errors.New("wrong filter format")

	ErrTooFewFields    = errors.New("filter record has too few fields")
	ErrInvalidColor    = errors.New("wrong color format")
	ErrUnknownSeverity = errors.New("unknown severity")

	ErrFailedToReadFilters  = errors.New("failed to read filter file")
	ErrFailedToWriteFilters = errors.New("failed to write filter file")
	ErrFailedToReadLog      = errors.New("failed to read log file")

	ErrRunInProgress    = errors.New("filtering run already in progress")
	ErrNoFiltersApplied = errors.New("no filters applied")

	ErrFailedToAcquireWorker = errors.New("failed to acquire worker")

	ErrConfigExists       = errors.New("config file already exists")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrFiltersRequired    = errors.New("at least one filter file is required")
	ErrLogsRequired       = errors.New("at least one log file is required")
	ErrInvalidFilterFiles = errors.New("filter files contain invalid records")
)

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
