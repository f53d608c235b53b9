package logs

import (
	"regexp"
	"strings"

	"github.com/valyala/fastjson"

	"logviewer/internal/app/severity"
)

// logcat layouts carrying a priority letter
var logcatPatterns = []*regexp.Regexp{
	// 01-06 20:46:26.091 821-2168/? V/ThermalMonitor: message
	regexp.MustCompile(`^\d\d-\d\d\s+\d\d:\d\d:\d\d\.\d+\s+\d+-\d+/\S*\s+([VDIWEAF])/`),
	// 01-06 20:46:26.091   821  2168 V ThermalMonitor: message
	regexp.MustCompile(`^\d\d-\d\d\s+\d\d:\d\d:\d\d\.\d+\s+\d+\s+\d+\s+([VDIWEAF])\s`),
	// V/ThermalMonitor(  821): message
	regexp.MustCompile(`^([VDIWEAF])/[^(]*\(\s*\d+\):`),
}

var jsonParsers fastjson.ParserPool

// ParseLine extracts the severity of a log line; unrecognised lines are Verbose
func ParseLine(line string) Entry {
	entry := Entry{Message: line, Level: severity.Verbose}

	if level, ok := parseLogcat(line); ok {
		entry.Level = level
		return entry
	}

	if level, ok := parseJSON(line); ok {
		entry.Level = level
	}

	return entry
}

func parseLogcat(line string) (severity.Level, bool) {
	for _, re := range logcatPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return severity.FromLetter(m[1][0])
		}
	}

	return severity.Verbose, false
}

func parseJSON(line string) (severity.Level, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return severity.Verbose, false
	}

	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.Parse(trimmed)
	if err != nil || v.Type() != fastjson.TypeObject {
		return severity.Verbose, false
	}

	for _, key := range []string{"level", "severity", "lvl"} {
		if raw := v.GetStringBytes(key); raw != nil {
			return levelFromName(string(raw))
		}
	}

	return severity.Verbose, false
}

func levelFromName(name string) (severity.Level, bool) {
	switch strings.ToLower(name) {
	case "trace", "verbose", "v":
		return severity.Verbose, true
	case "debug", "d":
		return severity.Debug, true
	case "info", "information", "i":
		return severity.Info, true
	case "warn", "warning", "w":
		return severity.Warning, true
	case "error", "err", "e":
		return severity.Error, true
	case "fatal", "panic", "critical", "assert", "a", "f":
		return severity.Assert, true
	default:
		return severity.Verbose, false
	}
}
