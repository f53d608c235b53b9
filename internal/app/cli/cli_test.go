package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
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

type fixture struct {
	cli     *cli
	store   *store.MockStore
	reader  *logs.MockReader
	runner  *runner.MockRunner
	watcher *watcher.MockWatcher
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	mockLogger := logger.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithComponent("CLI").Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Debug().Return(nil).AnyTimes()
	mockLogger.EXPECT().Info().Return(nil).AnyTimes()
	mockLogger.EXPECT().Warn().Return(nil).AnyTimes()

	f := &fixture{
		store:   store.NewMockStore(ctrl),
		reader:  logs.NewMockReader(ctrl),
		runner:  runner.NewMockRunner(ctrl),
		watcher: watcher.NewMockWatcher(ctrl),
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}

	cfg := config.DefaultConfig()
	instance := NewCLI(cfg, f.store, f.reader, f.runner, f.watcher, logs.NewFormatter(cfg), mockLogger).(*cli)
	instance.out = f.out
	instance.errOut = f.errOut
	f.cli = instance

	return f
}

func newFilter(t *testing.T, name, pattern string) *filter.Filter {
	f, err := filter.New(name, pattern, filter.RGB(255, 0, 0), severity.Verbose)
	require.NoError(t, err)

	return f
}

func Test_NewCLI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.DefaultConfig()
	mockStore := store.NewMockStore(ctrl)
	mockReader := logs.NewMockReader(ctrl)
	mockRunner := runner.NewMockRunner(ctrl)
	mockWatcher := watcher.NewMockWatcher(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithComponent("CLI").Return(mockLogger)

	cliInstance := NewCLI(cfg, mockStore, mockReader, mockRunner, mockWatcher, logs.NewFormatter(cfg), mockLogger)
	require.NotNil(t, cliInstance)

	instance, ok := cliInstance.(*cli)
	require.True(t, ok)
	assert.Equal(t, cfg, instance.cfg)
	assert.Equal(t, mockStore, instance.store)
	assert.Equal(t, mockReader, instance.reader)
	assert.Equal(t, mockRunner, instance.runner)
	assert.Equal(t, mockWatcher, instance.watcher)
	assert.Equal(t, os.Stdout, instance.out)
}

func Test_Run_Simple(t *testing.T) {
	tests := []struct {
		name     string
		opts     *Options
		contains string
		error    error
	}{
		{name: "help", opts: &Options{Type: CommandHelp}, contains: "Usage:"},
		{name: "version", opts: &Options{Type: CommandVersion}, contains: config.Version},
		{name: "unknown", opts: &Options{Type: CommandType(99)}, error: errors.ErrUnknownCommand},
		{name: "apply without filters", opts: &Options{Type: CommandApply, Logs: []string{"main.log"}}, error: errors.ErrFiltersRequired},
		{name: "apply without logs", opts: &Options{Type: CommandApply, FilterFiles: []string{"a.filter"}}, error: errors.ErrLogsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			err := f.cli.Run(context.Background(), tt.opts)
			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, f.out.String(), tt.contains)
		})
	}
}

func Test_Apply(t *testing.T) {
	f := newFixture(t)

	crash := newFilter(t, "Crash", "fatal")
	source := logs.NewSource("main.log", []string{"FATAL EXCEPTION", "all good"})

	f.reader.EXPECT().Read("main.log").Return(source, nil)
	f.store.EXPECT().Load("crash.filter").Return(&store.Group{
		Name:    "crash",
		Filters: []*filter.Filter{crash},
		Err:     fmt.Errorf("crash.filter:3: %w", errors.ErrInvalidFormat),
	}, nil)
	f.runner.EXPECT().Run(gomock.Any(), []*filter.Filter{crash}, []*logs.Source{source}).
		DoAndReturn(func(ctx context.Context, filters []*filter.Filter, sources []*logs.Source) (*runner.Result, error) {
			assert.True(t, filters[0].IsApplied())
			filters[0].StartRun().Increment(source.Stream)

			return &runner.Result{
				Filters: filters,
				Matches: []runner.Match{{Source: source, Entry: source.Entries[0], Filter: 0}},
			}, nil
		})

	err := f.cli.Run(context.Background(), &Options{
		Type:        CommandApply,
		FilterFiles: []string{"crash.filter"},
		Logs:        []string{"main.log"},
		Matches:     true,
	})
	require.NoError(t, err)

	assert.Contains(t, f.out.String(), "FATAL EXCEPTION")
	assert.Contains(t, f.out.String(), "Crash 1")
	assert.Contains(t, f.errOut.String(), "crash.filter:3")
}

func Test_Apply_UsesConfiguredPaths(t *testing.T) {
	f := newFixture(t)
	f.cli.cfg.Filters.Paths = []string{"default.filter"}

	source := logs.NewSource("main.log", nil)

	f.reader.EXPECT().Read("main.log").Return(source, nil)
	f.store.EXPECT().Load("default.filter").Return(nil, errors.ErrFailedToReadFilters)

	err := f.cli.Run(context.Background(), &Options{Type: CommandApply, Logs: []string{"main.log"}})
	assert.ErrorIs(t, err, errors.ErrFailedToReadFilters)
}

func Test_Apply_ReadError(t *testing.T) {
	f := newFixture(t)

	f.reader.EXPECT().Read("missing.log").Return(nil, errors.ErrFailedToReadLog)

	err := f.cli.Run(context.Background(), &Options{
		Type:        CommandApply,
		FilterFiles: []string{"a.filter"},
		Logs:        []string{"missing.log"},
	})
	assert.ErrorIs(t, err, errors.ErrFailedToReadLog)
}

func Test_Apply_Watch(t *testing.T) {
	f := newFixture(t)

	source := logs.NewSource("main.log", []string{"line"})
	ctx, cancel := context.WithCancel(context.Background())

	f.reader.EXPECT().Read("main.log").Return(source, nil)
	f.store.EXPECT().Load("crash.filter").DoAndReturn(func(path string) (*store.Group, error) {
		return &store.Group{Filters: []*filter.Filter{newFilter(t, "Crash", "line")}}, nil
	}).Times(2)

	runs := 0
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, filters []*filter.Filter, sources []*logs.Source) (*runner.Result, error) {
			runs++
			if runs == 2 {
				cancel()
			}

			return &runner.Result{Filters: filters}, nil
		}).Times(2)

	f.watcher.EXPECT().Add("crash.filter").Return(nil)
	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).Do(func(ctx context.Context, onChange func([]string)) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			onChange([]string{"crash.filter"})
		}()
	})

	done := make(chan error, 1)

	go func() {
		done <- f.cli.Run(ctx, &Options{
			Type:        CommandApply,
			FilterFiles: []string{"crash.filter"},
			Logs:        []string{"main.log"},
			Watch:       true,
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop")
	}

	assert.Equal(t, 2, runs)
}

func Test_Check(t *testing.T) {
	legacy, err := filter.Decode("Legacy,QWN0aXZpdHk=,2,0:0:255")
	require.NoError(t, err)

	tests := []struct {
		name     string
		group    *store.Group
		contains []string
		error    error
	}{
		{
			name:     "valid file",
			group:    &store.Group{Name: "ok", Filters: []*filter.Filter{legacy}},
			contains: []string{"ok", "1 legacy", "legacy Legacy"},
		},
		{
			name: "invalid records",
			group: &store.Group{
				Name: "bad",
				Err: multierr.Combine(
					fmt.Errorf("bad.filter:1: %w", errors.ErrInvalidFormat),
					fmt.Errorf("bad.filter:2: %w", errors.ErrInvalidFormat),
				),
			},
			contains: []string{"invalid", "2 invalid", "bad.filter:2"},
			error:    errors.ErrInvalidFilterFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.EXPECT().Load("x.filter").Return(tt.group, nil)

			err := f.cli.Run(context.Background(), &Options{Type: CommandCheck, Files: []string{"x.filter"}})
			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
			} else {
				assert.NoError(t, err)
			}

			for _, c := range tt.contains {
				assert.Contains(t, f.out.String(), c)
			}
		})
	}
}

func Test_Add(t *testing.T) {
	tests := []struct {
		name   string
		opts   *Options
		expect bool
		error  error
	}{
		{
			name:   "valid filter",
			opts:   &Options{Type: CommandAdd, File: "crash", Name: "Crash", Pattern: "FATAL|ANR", Color: "255:0:0", Severity: "ERROR"},
			expect: true,
		},
		{
			name:  "invalid color",
			opts:  &Options{Type: CommandAdd, File: "crash", Name: "Crash", Pattern: "x", Color: "red", Severity: "ERROR"},
			error: errors.ErrInvalidColor,
		},
		{
			name:  "missing color",
			opts:  &Options{Type: CommandAdd, File: "crash", Name: "Crash", Pattern: "x", Severity: "ERROR"},
			error: errors.ErrMissingColor,
		},
		{
			name:  "unknown severity",
			opts:  &Options{Type: CommandAdd, File: "crash", Name: "Crash", Pattern: "x", Color: "1:1:1", Severity: "LOUD"},
			error: errors.ErrUnknownSeverity,
		},
		{
			name:  "invalid pattern",
			opts:  &Options{Type: CommandAdd, File: "crash", Name: "Crash", Pattern: "(", Color: "1:1:1", Severity: "INFO"},
			error: errors.ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.expect {
				f.store.EXPECT().Append("crash.filter", gomock.Any()).DoAndReturn(func(path string, added *filter.Filter) error {
					assert.Equal(t, "Crash", added.Name())
					assert.Equal(t, severity.Error, added.Threshold())
					assert.False(t, added.IsSimple())

					return nil
				})
			}

			err := f.cli.Run(context.Background(), tt.opts)
			if tt.error != nil {
				assert.ErrorIs(t, err, tt.error)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, f.out.String(), "crash.filter")
		})
	}
}

func Test_List(t *testing.T) {
	f := newFixture(t)

	f.store.EXPECT().Load("a.filter").Return(&store.Group{
		Name:    "android",
		Filters: []*filter.Filter{newFilter(t, "Crash", "FATAL|ANR"), newFilter(t, "Activity", "ActivityManager")},
	}, nil)

	require.NoError(t, f.cli.Run(context.Background(), &Options{Type: CommandList, Files: []string{"a.filter"}}))

	out := f.out.String()
	assert.Contains(t, out, "android")
	assert.Contains(t, out, "regex: FATAL|ANR")
	assert.Contains(t, out, "text: ActivityManager")
	assert.Contains(t, out, "VERBOSE")
}

func Test_Export(t *testing.T) {
	f := newFixture(t)
	crash := newFilter(t, "Crash", "FATAL")

	f.store.EXPECT().Load("a.filter").Return(&store.Group{Filters: []*filter.Filter{crash}}, nil)
	f.store.EXPECT().ExportYAML(f.out, []*filter.Filter{crash}).Return(nil)

	assert.NoError(t, f.cli.Run(context.Background(), &Options{Type: CommandExport, Files: []string{"a.filter"}}))
}

func Test_Init(t *testing.T) {
	t.Chdir(t.TempDir())

	f := newFixture(t)
	require.NoError(t, f.cli.Run(context.Background(), &Options{Type: CommandInit}))

	data, err := os.ReadFile(filepath.Join(".", config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers")

	err = f.cli.Run(context.Background(), &Options{Type: CommandInit})
	assert.ErrorIs(t, err, errors.ErrConfigExists)
}

func Test_PrintError(t *testing.T) {
	f := newFixture(t)
	f.cli.printError(io.ErrUnexpectedEOF)

	assert.Contains(t, f.errOut.String(), "Error:")
	assert.Contains(t, f.errOut.String(), io.ErrUnexpectedEOF.Error())
}
