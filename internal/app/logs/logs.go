package logs

import (
	"logviewer/internal/app/severity"
	"logviewer/internal/app/stream"
)

// Entry represents a single line of a log source
type Entry struct {
	Message string
	Level   severity.Level
	Stream  stream.Stream
	Line    int
}

// Text returns the full line as filters see it
func (e Entry) Text() string {
	return e.Message
}

// Severity returns the parsed severity of the line
func (e Entry) Severity() severity.Level {
	return e.Level
}

// Source is a loaded log file
type Source struct {
	Name    string
	Path    string
	Stream  stream.Stream
	Entries []Entry
}

// NewSource builds a source from raw lines, inferring its stream from the name
func NewSource(name string, lines []string) *Source {
	s := &Source{
		Name:    name,
		Stream:  stream.Infer(name),
		Entries: make([]Entry, 0, len(lines)),
	}

	for i, line := range lines {
		s.append(i+1, line)
	}

	return s
}

func (s *Source) append(lineNumber int, line string) {
	e := ParseLine(line)
	e.Stream = s.Stream
	e.Line = lineNumber
	s.Entries = append(s.Entries, e)
}

// Streams returns the set of streams the sources belong to
func Streams(sources []*Source) stream.Set {
	set := stream.NewSet()
	for _, s := range sources {
		set[s.Stream] = struct{}{}
	}

	return set
}
