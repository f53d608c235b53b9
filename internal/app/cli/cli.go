//go:generate mockgen -source=cli.go -destination=cli_mock.go -package=cli
package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/filter"
	"logviewer/internal/app/logs"
	"logviewer/internal/app/runner"
	"logviewer/internal/app/severity"
	"logviewer/internal/app/store"
	"logviewer/internal/app/watcher"
	"logviewer/internal/config"
	"logviewer/internal/config/logger"
)

// CLI defines the interface for cli operations
type CLI interface {
	Execute() (int, error)
	Run(ctx context.Context, opts *Options) error
}

// cli represents the command-line interface for the application
type cli struct {
	cfg       *config.Config
	store     store.Store
	reader    logs.Reader
	runner    runner.Runner
	watcher   watcher.Watcher
	formatter *logs.Formatter
	log       logger.Logger
	out       io.Writer
	errOut    io.Writer
}

// NewCLI creates a new cli instance
func NewCLI(
	cfg *config.Config,
	store store.Store,
	reader logs.Reader,
	runner runner.Runner,
	watcher watcher.Watcher,
	formatter *logs.Formatter,
	log logger.Logger,
) CLI {
	return &cli{
		cfg:       cfg,
		store:     store,
		reader:    reader,
		runner:    runner,
		watcher:   watcher,
		formatter: formatter,
		log:       log.WithComponent("CLI"),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
}

// Execute parses os.Args, runs the command and returns the process exit code
func (c *cli) Execute() (int, error) {
	defer c.watcher.Close()

	opts, err := Parse(os.Args[1:])
	if err != nil {
		c.printError(err)
		return 1, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx, opts); err != nil {
		c.printError(err)
		return 1, err
	}

	return 0, nil
}

// Run executes a parsed command
func (c *cli) Run(ctx context.Context, opts *Options) error {
	switch opts.Type {
	case CommandApply:
		return c.handleApply(ctx, opts)
	case CommandCheck:
		return c.handleCheck(opts.Files)
	case CommandAdd:
		return c.handleAdd(opts)
	case CommandList:
		return c.handleList(opts.Files)
	case CommandExport:
		return c.handleExport(opts.Files)
	case CommandInit:
		return c.handleInit()
	case CommandVersion:
		fmt.Fprintln(c.out, RenderTitle())
		return nil
	case CommandHelp:
		fmt.Fprint(c.out, RenderHelp())
		return nil
	default:
		return errors.ErrUnknownCommand
	}
}

// handleApply loads filters and logs, runs them and, with --watch, re-runs on filter file changes
func (c *cli) handleApply(ctx context.Context, opts *Options) error {
	files := opts.FilterFiles
	if len(files) == 0 {
		files = c.cfg.Filters.Paths
	}

	if len(files) == 0 {
		return errors.ErrFiltersRequired
	}

	if len(opts.Logs) == 0 {
		return errors.ErrLogsRequired
	}

	sources := make([]*logs.Source, 0, len(opts.Logs))
	for _, path := range opts.Logs {
		source, err := c.reader.Read(path)
		if err != nil {
			return err
		}

		c.log.Debug().Msgf("Read %d lines from '%s' (%s)", len(source.Entries), path, source.Stream)
		sources = append(sources, source)
	}

	if err := c.apply(ctx, files, sources, opts.Matches); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}

	if err := c.watcher.Add(files...); err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	c.watcher.Start(ctx, func(paths []string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	fmt.Fprintln(c.out, mutedText.Render("Watching filter files, press Ctrl+C to stop"))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := c.apply(ctx, files, sources, opts.Matches); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				c.log.Warn().Err(err).Msg("Failed to re-apply filters")
				c.printError(err)
			}
		}
	}
}

// apply loads the filter files, runs them over the sources and prints the report
func (c *cli) apply(ctx context.Context, files []string, sources []*logs.Source, withMatches bool) error {
	var filters []*filter.Filter

	for _, path := range files {
		group, err := c.store.Load(path)
		if err != nil {
			return err
		}

		for _, lineErr := range multierr.Errors(group.Err) {
			fmt.Fprintln(c.errOut, warningStyle.Render("warning: "+lineErr.Error()))
		}

		for _, f := range group.Filters {
			f.SetApplied(true)
		}

		filters = append(filters, group.Filters...)
	}

	result, err := c.runner.Run(ctx, filters, sources)
	if err != nil {
		return err
	}

	if withMatches {
		for _, m := range result.Matches {
			c.formatter.WriteMatch(c.out, m.Source, m.Entry, result.Filters[m.Filter])
		}
	}

	for i, f := range result.Filters {
		fmt.Fprintf(c.out, "%s %s\n", c.formatter.Colorize(f.Name(), f.Color()), mutedText.Render(fmt.Sprintf("%d", result.Total(i))))
	}

	return nil
}

// handleCheck reports legacy and invalid records; any invalid record fails the command
func (c *cli) handleCheck(files []string) error {
	invalid := false

	for _, path := range files {
		group, err := c.store.Load(path)
		if err != nil {
			return err
		}

		lineErrs := multierr.Errors(group.Err)
		legacy := group.Legacy()

		status := successStyle.Render("ok")
		if len(lineErrs) > 0 {
			status = errorStyle.Render("invalid")
			invalid = true
		}

		fmt.Fprintf(c.out, "%s %s: %d filters, %d legacy, %d invalid\n", status, path, len(group.Filters), len(legacy), len(lineErrs))

		for _, f := range legacy {
			fmt.Fprintf(c.out, "  %s %s\n", warningStyle.Render("legacy"), f.Name())
		}

		for _, lineErr := range lineErrs {
			fmt.Fprintf(c.out, "  %s %s\n", errorStyle.Render("error"), lineErr.Error())
		}
	}

	if invalid {
		return errors.ErrInvalidFilterFiles
	}

	return nil
}

// handleAdd builds a filter from flags and appends it to the file
func (c *cli) handleAdd(opts *Options) error {
	var color *filter.Color

	if opts.Color != "" {
		parsed, err := filter.ParseColor(opts.Color)
		if err != nil {
			return err
		}

		color = &parsed
	}

	threshold, err := severity.Parse(opts.Severity)
	if err != nil {
		return err
	}

	f, err := filter.New(opts.Name, opts.Pattern, color, threshold, filter.WithCaseSensitive(opts.CaseSensitive))
	if err != nil {
		return err
	}

	path := store.EnsureExtension(opts.File)
	if err := c.store.Append(path, f); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s %s to %s\n", successStyle.Render("added"), c.formatter.Colorize(f.Name(), f.Color()), path)

	return nil
}

// handleList prints every filter of the given files
func (c *cli) handleList(files []string) error {
	for _, path := range files {
		group, err := c.store.Load(path)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.out, sectionHeader.Render(group.Name))

		for _, f := range group.Filters {
			kind := "regex"
			if f.IsSimple() {
				kind = "text"
			}

			fmt.Fprintf(c.out, "  %s %s %s %s\n",
				c.formatter.Colorize(f.Name(), f.Color()),
				mutedText.Render(kind+":"),
				f.PatternString(),
				mutedText.Render(fmt.Sprintf("[%s case-sensitive=%t]", f.Threshold(), f.CaseSensitive())),
			)
		}
	}

	return nil
}

// handleExport writes the filters of the given files as YAML
func (c *cli) handleExport(files []string) error {
	var filters []*filter.Filter

	for _, path := range files {
		group, err := c.store.Load(path)
		if err != nil {
			return err
		}

		filters = append(filters, group.Filters...)
	}

	return c.store.ExportYAML(c.out, filters)
}

// handleInit writes the default config file unless one exists
func (c *cli) handleInit() error {
	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%w: %s", errors.ErrConfigExists, config.FileName)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	data, err := config.Template()
	if err != nil {
		return err
	}

	if err := os.WriteFile(config.FileName, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s %s\n", successStyle.Render("created"), config.FileName)

	return nil
}

func (c *cli) printError(err error) {
	c.log.Debug().Err(err).Msg("Command failed")
	fmt.Fprintf(c.errOut, "%s %v\n", errorStyle.Render("Error:"), err)
}
