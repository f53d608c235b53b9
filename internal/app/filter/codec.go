package filter

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/severity"
)

// Record layout: name,base64(pattern),flags,R:G:B,SEVERITY
// Legacy records have no SEVERITY field.
const (
	fieldName = iota
	fieldPattern
	fieldFlags
	fieldColor
	fieldSeverity

	legacyFields  = 4
	currentFields = 5
)

// Encode serializes a filter into a single-line record.
// Commas in the name become spaces; the pattern is base64 encoded.
func Encode(f *Filter) string {
	return fmt.Sprintf("%s,%s,%d,%s,%s",
		strings.ReplaceAll(f.name, ",", " "),
		base64.StdEncoding.EncodeToString([]byte(f.PatternString())),
		f.flags,
		f.color,
		f.threshold,
	)
}

// Decode parses a record in the current or the legacy format
func Decode(record string) (*Filter, error) {
	f, err := decode(record)
	if err != nil {
		return nil, &FormatError{Record: record, Err: err}
	}

	return f, nil
}

func decode(record string) (*Filter, error) {
	fields := splitFields(record)
	if len(fields) < legacyFields {
		return nil, fmt.Errorf("%w: got %d", errors.ErrTooFewFields, len(fields))
	}

	color, err := ParseColor(fields[fieldColor])
	if err != nil {
		return nil, err
	}

	pattern, err := base64.StdEncoding.DecodeString(fields[fieldPattern])
	if err != nil {
		return nil, fmt.Errorf("pattern payload: %w", err)
	}

	flags, err := strconv.ParseInt(fields[fieldFlags], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	legacy := len(fields) == legacyFields
	threshold := severity.MostVerbose

	if !legacy {
		threshold, err = severity.Parse(fields[fieldSeverity])
		if err != nil {
			return nil, err
		}
	}

	f, err := New(fields[fieldName], string(pattern), &color, threshold, withFlags(Flags(flags)))
	if err != nil {
		return nil, err
	}

	f.legacy = legacy

	return f, nil
}

// splitFields splits on commas and drops trailing empty fields, so "a,b,c,d," is a legacy record
func splitFields(record string) []string {
	fields := strings.Split(record, ",")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	return fields
}

// MarshalText implements encoding.TextMarshaler using the record format
func (f *Filter) MarshalText() ([]byte, error) {
	return []byte(Encode(f)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; f is unchanged on error
func (f *Filter) UnmarshalText(text []byte) error {
	decoded, err := Decode(string(text))
	if err != nil {
		return err
	}

	f.assign(&config{
		name:      decoded.name,
		color:     decoded.color,
		threshold: decoded.threshold,
		pattern:   decoded.pattern,
		flags:     decoded.flags,
		simple:    decoded.simple,
		needle:    decoded.needle,
	})
	f.legacy = decoded.legacy

	return nil
}
