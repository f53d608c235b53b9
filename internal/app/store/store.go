//go:generate mockgen -source=store.go -destination=store_mock.go -package=store
package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.yaml.in/yaml/v3"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/filter"
	"logviewer/internal/config/logger"
)

// Group is the set of filters loaded from one file
type Group struct {
	Name    string
	Path    string
	Filters []*filter.Filter
	// Err holds one error per line that failed to decode
	Err error
}

// Legacy returns the filters decoded from records without a severity
func (g *Group) Legacy() []*filter.Filter {
	var legacy []*filter.Filter

	for _, f := range g.Filters {
		if f.LoadedFromLegacy() {
			legacy = append(legacy, f)
		}
	}

	return legacy
}

// Store reads and writes filter files
type Store interface {
	Load(path string) (*Group, error)
	Save(path string, filters []*filter.Filter) error
	Append(path string, f *filter.Filter) error
	ExportYAML(w io.Writer, filters []*filter.Filter) error
}

type store struct {
	log logger.Logger
}

// NewStore creates a new filter file store
func NewStore(log logger.Logger) Store {
	return &store{
		log: log.WithComponent("STORE"),
	}
}

// EnsureExtension appends the filter file extension when missing
func EnsureExtension(path string) string {
	if filepath.Ext(path) == "."+filter.FileExtension {
		return path
	}

	return path + "." + filter.FileExtension
}

// GroupName returns the file name without directory and extension
func GroupName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load decodes every line independently; malformed lines are reported in Group.Err and skipped
func (s *store) Load(path string) (*Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadFilters, err)
	}

	group := &Group{
		Name: GroupName(path),
		Path: path,
	}

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		f, err := filter.Decode(line)
		if err != nil {
			s.log.Warn().Err(err).Msgf("Skipping line %d of '%s'", lineNumber, path)
			group.Err = multierr.Append(group.Err, fmt.Errorf("%s:%d: %w", path, lineNumber, err))

			continue
		}

		if _, dup := seen[f.Key()]; dup {
			s.log.Debug().Msgf("Dropping duplicate filter '%s' at line %d of '%s'", f.Name(), lineNumber, path)
			continue
		}

		seen[f.Key()] = struct{}{}
		group.Filters = append(group.Filters, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadFilters, err)
	}

	s.log.Debug().Msgf("Loaded %d filters from '%s' (%d invalid)", len(group.Filters), path, len(multierr.Errors(group.Err)))

	return group, nil
}

// Save writes one record per filter, replacing the file atomically
func (s *store) Save(path string, filters []*filter.Filter) error {
	var buf bytes.Buffer
	for _, f := range filters {
		buf.WriteString(filter.Encode(f))
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteFilters, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteFilters, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteFilters, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteFilters, err)
	}

	s.log.Info().Msgf("Saved %d filters to '%s'", len(filters), path)

	return nil
}

// Append adds a filter to a file, creating it when missing; invalid existing lines are dropped
func (s *store) Append(path string, f *filter.Filter) error {
	var filters []*filter.Filter

	if _, err := os.Stat(path); err == nil {
		group, err := s.Load(path)
		if err != nil {
			return err
		}

		filters = group.Filters
	}

	for _, existing := range filters {
		if existing.Equal(f) {
			s.log.Info().Msgf("Filter '%s' already present in '%s'", f.Name(), path)
			return nil
		}
	}

	return s.Save(path, append(filters, f))
}

// definition is the YAML view of a filter
type definition struct {
	Name          string `yaml:"name"`
	Pattern       string `yaml:"pattern"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	Simple        bool   `yaml:"simple"`
	Color         string `yaml:"color"`
	Severity      string `yaml:"severity"`
	Legacy        bool   `yaml:"legacy,omitempty"`
	Record        string `yaml:"record"`
}

// ExportYAML writes the filters as a YAML list
func (s *store) ExportYAML(w io.Writer, filters []*filter.Filter) error {
	defs := make([]definition, 0, len(filters))
	for _, f := range filters {
		defs = append(defs, definition{
			Name:          f.Name(),
			Pattern:       f.PatternString(),
			CaseSensitive: f.CaseSensitive(),
			Simple:        f.IsSimple(),
			Color:         f.Color().Hex(),
			Severity:      f.Threshold().String(),
			Legacy:        f.LoadedFromLegacy(),
			Record:        filter.Encode(f),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(defs); err != nil {
		return err
	}

	return enc.Close()
}
