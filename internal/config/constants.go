package config

import "time"

// app constants
const (
	AppName = "logviewer"
	Version = "0.1.0"

	AppDescription = "Filter engine for Android and application log files"

	FileName  = "logviewer.yaml"
	EnvFile   = ".env"
	EnvPrefix = "LOGVIEWER"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// concurrency constants
const (
	MaxWorkers = 4
)

// filter constants
const (
	DefaultDebounce = 300 * time.Millisecond
)

// log file constants
const (
	DefaultMaxLineLength = 1024 * 1024
)
