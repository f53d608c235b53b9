package stream

import (
	"strings"

	"github.com/gobwas/glob"
)

// Stream identifies the log buffer a source belongs to
type Stream int

const (
	Main Stream = iota
	System
	Radio
	Events
	Unknown
)

var streamNames = map[Stream]string{
	Main:    "MAIN",
	System:  "SYSTEM",
	Radio:   "RADIO",
	Events:  "EVENTS",
	Unknown: "UNKNOWN",
}

// String returns the stream name
func (s Stream) String() string {
	if name, ok := streamNames[s]; ok {
		return name
	}

	return streamNames[Unknown]
}

// All returns every stream including Unknown
func All() []Stream {
	return []Stream{Main, System, Radio, Events, Unknown}
}

type nameRule struct {
	stream   Stream
	patterns []glob.Glob
}

// fragments lists the file name fragments that identify each stream, checked in order
var fragments = []struct {
	stream Stream
	names  []string
}{
	{Main, []string{"main", "-m."}},
	{System, []string{"system", "-s."}},
	{Radio, []string{"radio", "-r."}},
	{Events, []string{"events", "-e."}},
}

var rules = compileRules()

func compileRules() []nameRule {
	compiled := make([]nameRule, 0, len(fragments))

	for _, f := range fragments {
		rule := nameRule{stream: f.stream}
		for _, name := range f.names {
			rule.patterns = append(rule.patterns, glob.MustCompile("*"+glob.QuoteMeta(name)+"*"))
		}

		compiled = append(compiled, rule)
	}

	return compiled
}

// Infer classifies a log file name into a stream, returning Unknown when nothing matches
func Infer(fileName string) Stream {
	if fileName == "" {
		return Unknown
	}

	name := strings.ToLower(fileName)

	for _, rule := range rules {
		for _, p := range rule.patterns {
			if p.Match(name) {
				return rule.stream
			}
		}
	}

	return Unknown
}

// Set is a set of streams; a nil Set means "all streams"
type Set map[Stream]struct{}

// NewSet creates a set containing the given streams
func NewSet(streams ...Stream) Set {
	s := make(Set, len(streams))
	for _, st := range streams {
		s[st] = struct{}{}
	}

	return s
}

// Contains reports whether the set admits the stream; a nil set admits all
func (s Set) Contains(st Stream) bool {
	if s == nil {
		return true
	}

	_, ok := s[st]

	return ok
}
