//go:generate mockgen -source=reader.go -destination=reader_mock.go -package=logs
package logs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/stream"
	"logviewer/internal/config"
)

const gzipExtension = ".gz"

// Reader loads log files into sources
type Reader interface {
	Read(path string) (*Source, error)
}

type reader struct {
	maxLineLength int
}

// NewReader creates a reader honouring the configured line length limit
func NewReader(cfg *config.Config) Reader {
	return &reader{maxLineLength: cfg.Logs.MaxLineLength}
}

// Read reads a plain or gzip-compressed log file; the stream is inferred from its base name
func (r *reader) Read(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadLog, err)
	}
	defer file.Close()

	name := filepath.Base(path)

	var in io.Reader = file

	if strings.HasSuffix(name, gzipExtension) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errors.ErrFailedToReadLog, path, err)
		}
		defer gz.Close()

		in = gz
		name = strings.TrimSuffix(name, gzipExtension)
	}

	source := &Source{
		Name:   name,
		Path:   path,
		Stream: stream.Infer(name),
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, min(64*1024, r.maxLineLength)), r.maxLineLength)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		source.append(lineNumber, strings.TrimRight(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrFailedToReadLog, path, err)
	}

	return source, nil
}
