package filter

import (
	"regexp"
	"strings"
)

// Flags holds the compiler flags persisted with a filter
type Flags int

// FlagCaseInsensitive is the only bit interpreted here; other bits are kept as-is
const FlagCaseInsensitive Flags = 0x02

// DefaultFlags are the flags of a new filter
const DefaultFlags = FlagCaseInsensitive

// CaseSensitive reports whether the case-insensitive bit is off
func (f Flags) CaseSensitive() bool {
	return f&FlagCaseInsensitive == 0
}

// WithCaseSensitive returns f with the case-insensitive bit set or cleared
func (f Flags) WithCaseSensitive(caseSensitive bool) Flags {
	if caseSensitive {
		return f &^ FlagCaseInsensitive
	}

	return f | FlagCaseInsensitive
}

const regexMeta = `\^$.|?*+()[]{}`

// IsPotentialRegex reports whether text contains characters with regex meaning
func IsPotentialRegex(text string) bool {
	return strings.ContainsAny(text, regexMeta)
}

// Pattern is a compiled filter pattern that remembers its source text
type Pattern struct {
	text string
	re   *regexp.Regexp
}

// Compile compiles text honouring the case-insensitive flag
func Compile(text string, flags Flags) (*Pattern, error) {
	expr := text
	if !flags.CaseSensitive() {
		expr = "(?i)" + text
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: text, Err: err}
	}

	return &Pattern{text: text, re: re}, nil
}

// String returns the text the pattern was compiled from
func (p *Pattern) String() string {
	return p.text
}

// MatchString reports whether the pattern occurs anywhere in s
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}
