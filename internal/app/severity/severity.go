package severity

import (
	"fmt"

	"logviewer/internal/app/errors"
)

// Level represents the severity of a log entry, ordered from most to least verbose
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
	Assert
)

// MostVerbose is the level assumed when a record carries no severity
const MostVerbose = Verbose

var names = [...]string{
	Verbose: "VERBOSE",
	Debug:   "DEBUG",
	Info:    "INFO",
	Warning: "WARNING",
	Error:   "ERROR",
	Assert:  "ASSERT",
}

var byName = func() map[string]Level {
	m := make(map[string]Level, len(names))
	for i, n := range names {
		m[n] = Level(i)
	}

	return m
}()

// Levels returns all levels ordered by rank
func Levels() []Level {
	return []Level{Verbose, Debug, Info, Warning, Error, Assert}
}

// String returns the persisted name of the level
func (l Level) String() string {
	if l < Verbose || l > Assert {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return names[l]
}

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	return l >= Verbose && l <= Assert
}

// AtLeast reports whether l is at least as significant as threshold
func (l Level) AtLeast(threshold Level) bool {
	return l >= threshold
}

// Parse returns the level with the given persisted name
func Parse(name string) (Level, error) {
	if l, ok := byName[name]; ok {
		return l, nil
	}

	return Verbose, fmt.Errorf("%w: '%s'", errors.ErrUnknownSeverity, name)
}

// FromLetter maps a logcat priority letter to a level
func FromLetter(c byte) (Level, bool) {
	switch c {
	case 'V':
		return Verbose, true
	case 'D':
		return Debug, true
	case 'I':
		return Info, true
	case 'W':
		return Warning, true
	case 'E':
		return Error, true
	case 'A', 'F':
		return Assert, true
	default:
		return Verbose, false
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}
