package filter

import (
	"fmt"

	"logviewer/internal/app/errors"
)

// ConfigurationError reports a missing or invalid input when building or updating a filter
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %v", errors.ErrInvalidConfiguration, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrInvalidConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == errors.ErrInvalidConfiguration
}

// PatternError reports text that does not compile as a pattern
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s '%s': %v", errors.ErrInvalidPattern, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrInvalidPattern
func (e *PatternError) Is(target error) bool {
	return target == errors.ErrInvalidPattern
}

// FormatError reports a persisted record that could not be decoded
type FormatError struct {
	Record string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q: %v", errors.ErrInvalidFormat, e.Record, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrInvalidFormat
func (e *FormatError) Is(target error) bool {
	return target == errors.ErrInvalidFormat
}
