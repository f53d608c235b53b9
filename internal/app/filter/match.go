package filter

import (
	"strings"

	"logviewer/internal/app/severity"
)

// Entry is a single log line as seen by a filter
type Entry interface {
	Text() string
	Severity() severity.Level
}

// AppliesTo reports whether the entry passes the severity gate and contains the pattern.
// It has no side effects; callers count matches through Counter.
func (f *Filter) AppliesTo(entry Entry) bool {
	if !entry.Severity().AtLeast(f.threshold) {
		return false
	}

	text := entry.Text()

	if f.simple {
		return f.simpleMatch(text)
	}

	return f.pattern.MatchString(text)
}

func (f *Filter) simpleMatch(text string) bool {
	if f.flags.CaseSensitive() {
		return strings.Contains(text, f.needle)
	}

	return strings.Contains(strings.ToLower(text), f.needle)
}
