package filter

import (
	"fmt"
	"strings"
	"sync/atomic"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/severity"
)

// FileExtension is the extension of persisted filter files
const FileExtension = "filter"

// Filter is a named rule combining a text pattern with a minimum severity.
// Configuration is replaced only through Update, which is all-or-nothing.
// The match counter and the applied flag are safe for concurrent use.
type Filter struct {
	name      string
	color     Color
	threshold severity.Level
	pattern   *Pattern
	flags     Flags
	simple    bool
	needle    string
	legacy    bool
	applied   atomic.Bool
	counter   atomic.Pointer[Counter]
}

// Option configures a filter at construction
type Option func(*options)

type options struct {
	flags Flags
}

// WithCaseSensitive makes the pattern match case-sensitively
func WithCaseSensitive(caseSensitive bool) Option {
	return func(o *options) {
		o.flags = o.flags.WithCaseSensitive(caseSensitive)
	}
}

// withFlags sets the raw flags, keeping reserved bits from a decoded record
func withFlags(flags Flags) Option {
	return func(o *options) {
		o.flags = flags
	}
}

// New validates the inputs and builds a filter; it is case-insensitive unless configured otherwise
func New(name, pattern string, color *Color, threshold severity.Level, opts ...Option) (*Filter, error) {
	o := options{flags: DefaultFlags}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := build(name, pattern, color, threshold, o.flags)
	if err != nil {
		return nil, err
	}

	f := &Filter{}
	f.assign(cfg)

	return f, nil
}

// config is a fully validated filter configuration
type config struct {
	name      string
	color     Color
	threshold severity.Level
	pattern   *Pattern
	flags     Flags
	simple    bool
	needle    string
}

func build(name, pattern string, color *Color, threshold severity.Level, flags Flags) (*config, error) {
	switch {
	case name == "":
		return nil, &ConfigurationError{Err: errors.ErrMissingName}
	case strings.ContainsAny(name, "\r\n"):
		return nil, &ConfigurationError{Err: errors.ErrMultilineName}
	case pattern == "":
		return nil, &ConfigurationError{Err: errors.ErrMissingPattern}
	case color == nil:
		return nil, &ConfigurationError{Err: errors.ErrMissingColor}
	case !threshold.Valid():
		return nil, &ConfigurationError{Err: fmt.Errorf("%w: %s", errors.ErrUnknownSeverity, threshold)}
	}

	compiled, err := Compile(pattern, flags)
	if err != nil {
		return nil, err
	}

	cfg := &config{
		name:      name,
		color:     *color,
		threshold: threshold,
		pattern:   compiled,
		flags:     flags,
		simple:    !IsPotentialRegex(pattern),
	}

	if flags.CaseSensitive() {
		cfg.needle = pattern
	} else {
		cfg.needle = strings.ToLower(pattern)
	}

	return cfg, nil
}

func (f *Filter) assign(cfg *config) {
	f.name = cfg.name
	f.color = cfg.color
	f.threshold = cfg.threshold
	f.pattern = cfg.pattern
	f.flags = cfg.flags
	f.simple = cfg.simple
	f.needle = cfg.needle
}

// Update re-validates and replaces the configuration, leaving the filter untouched on error.
// It must not run concurrently with AppliesTo on the same filter.
func (f *Filter) Update(name, pattern string, color *Color, threshold severity.Level, caseSensitive bool) error {
	cfg, err := build(name, pattern, color, threshold, f.flags.WithCaseSensitive(caseSensitive))
	if err != nil {
		return err
	}

	f.assign(cfg)

	return nil
}

// Copy returns an independent filter with the same configuration and applied state.
// Run statistics are not copied and the copy is never marked as loaded from a legacy record.
func Copy(from *Filter) *Filter {
	f := &Filter{
		name:      from.name,
		color:     from.color,
		threshold: from.threshold,
		pattern:   from.pattern,
		flags:     from.flags,
		simple:    from.simple,
		needle:    from.needle,
	}
	f.applied.Store(from.applied.Load())

	return f
}

func (f *Filter) Name() string {
	return f.name
}

func (f *Filter) Color() Color {
	return f.color
}

// Threshold returns the minimum severity an entry needs to match
func (f *Filter) Threshold() severity.Level {
	return f.threshold
}

func (f *Filter) PatternString() string {
	return f.pattern.String()
}

func (f *Filter) Flags() Flags {
	return f.flags
}

func (f *Filter) CaseSensitive() bool {
	return f.flags.CaseSensitive()
}

// IsSimple reports whether the pattern is matched as a plain substring
func (f *Filter) IsSimple() bool {
	return f.simple
}

// NameIsPattern reports whether the filter is named after its pattern
func (f *Filter) NameIsPattern() bool {
	return f.name == f.PatternString()
}

func (f *Filter) IsApplied() bool {
	return f.applied.Load()
}

func (f *Filter) SetApplied(applied bool) {
	f.applied.Store(applied)
}

// LoadedFromLegacy reports whether the filter was decoded from a record without a severity
func (f *Filter) LoadedFromLegacy() bool {
	return f.legacy
}

// Equal compares configuration only: name, color, flags and pattern text
func (f *Filter) Equal(other *Filter) bool {
	if f == other {
		return true
	}

	if f == nil || other == nil {
		return false
	}

	return f.name == other.name &&
		f.color == other.color &&
		f.flags == other.flags &&
		f.PatternString() == other.PatternString()
}

// Key returns a value that is equal for filters that are Equal
func (f *Filter) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%s", f.name, f.color, f.flags, f.PatternString())
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter: [Name=%s, pattern=%s, regexFlags=%d, color=%s, verbosity=%s, applied=%t]",
		f.name, f.PatternString(), f.flags, f.color, f.threshold, f.IsApplied())
}
