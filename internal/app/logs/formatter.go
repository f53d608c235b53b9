package logs

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"logviewer/internal/app/filter"
	"logviewer/internal/config"
	"logviewer/internal/config/logger"
)

const defaultMaxSourceLen = 12

// Formatter renders matched lines in console or JSON form
type Formatter struct {
	mu             sync.Mutex
	format         string
	maxSourceLen   int
	separatorStyle lipgloss.Style
	lineStyle      lipgloss.Style
	colorStyles    map[string]lipgloss.Style
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		format:         cfg.Logging.Format,
		maxSourceLen:   defaultMaxSourceLen,
		separatorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		lineStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		colorStyles:    make(map[string]lipgloss.Style),
	}
}

// matchRecord is the JSON form of a matched line
type matchRecord struct {
	Source  string `json:"source"`
	Stream  string `json:"stream"`
	Line    int    `json:"line"`
	Level   string `json:"level"`
	Filter  string `json:"filter"`
	Message string `json:"message"`
}

// FormatMatch formats a line matched by f
func (fm *Formatter) FormatMatch(source *Source, entry Entry, f *filter.Filter) string {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if fm.format == logger.JSONFormat {
		data, err := json.Marshal(matchRecord{
			Source:  source.Name,
			Stream:  source.Stream.String(),
			Line:    entry.Line,
			Level:   entry.Level.String(),
			Filter:  f.Name(),
			Message: entry.Message,
		})
		if err != nil {
			return fmt.Sprintf(`{"source":%q,"message":%q}`+"\n", source.Name, entry.Message)
		}

		return string(data) + "\n"
	}

	return fm.formatLine(source.Name, entry, f.Color())
}

// WriteMatch writes a formatted match to w
func (fm *Formatter) WriteMatch(w io.Writer, source *Source, entry Entry, f *filter.Filter) {
	fmt.Fprint(w, fm.FormatMatch(source, entry, f))
}

// Colorize renders text in the filter's display color
func (fm *Formatter) Colorize(text string, color filter.Color) string {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	return fm.colorStyle(color).Render(text)
}

func (fm *Formatter) formatLine(source string, entry Entry, color filter.Color) string {
	if len(source) > fm.maxSourceLen {
		fm.maxSourceLen = len(source)
	}

	padded := source + strings.Repeat(" ", fm.maxSourceLen-len(source))

	return fm.colorStyle(color).Render(padded) + " " +
		fm.lineStyle.Render(fmt.Sprintf("%6d", entry.Line)) + " " +
		fm.separatorStyle.Render("|") + " " +
		entry.Message + "\n"
}

// colorStyle returns a cached style for a filter color
func (fm *Formatter) colorStyle(color filter.Color) lipgloss.Style {
	hex := color.Hex()
	if style, exists := fm.colorStyles[hex]; exists {
		return style
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
	fm.colorStyles[hex] = style

	return style
}
