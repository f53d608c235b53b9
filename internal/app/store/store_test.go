package store

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"
	"go.yaml.in/yaml/v3"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/filter"
	"logviewer/internal/app/severity"
	"logviewer/internal/config"
	"logviewer/internal/config/logger"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func newTestStore() Store {
	return NewStore(logger.NewLoggerWithOutput(config.DefaultConfig(), io.Discard))
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func Test_NewStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithComponent("STORE").Return(mockLogger)

	s := NewStore(mockLogger)
	assert.NotNil(t, s)

	instance, ok := s.(*store)
	assert.True(t, ok)
	assert.Equal(t, mockLogger, instance.log)
}

func Test_Load(t *testing.T) {
	content := strings.Join([]string{
		"Crash," + b64("FATAL EXCEPTION") + ",2,255:0:0,ERROR",
		"",
		"Legacy," + b64("ActivityManager") + ",2,0:0:255",
		"Broken," + b64("x"),
		"Activity," + b64("Force finishing") + ",0,0:255:0,WARNING\r",
		"BadColor," + b64("x") + ",2,1:2,INFO",
		"Crash," + b64("FATAL EXCEPTION") + ",2,255:0:0,ERROR",
	}, "\n")

	path := writeFile(t, "android.filter", content)

	group, err := newTestStore().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "android", group.Name)
	assert.Equal(t, path, group.Path)
	require.Len(t, group.Filters, 3)

	assert.Equal(t, "Crash", group.Filters[0].Name())
	assert.Equal(t, "Legacy", group.Filters[1].Name())
	assert.Equal(t, "Activity", group.Filters[2].Name())
	assert.Equal(t, severity.Warning, group.Filters[2].Threshold())
	assert.True(t, group.Filters[2].CaseSensitive())

	legacy := group.Legacy()
	require.Len(t, legacy, 1)
	assert.Equal(t, "Legacy", legacy[0].Name())

	lineErrs := multierr.Errors(group.Err)
	require.Len(t, lineErrs, 2)
	assert.Contains(t, lineErrs[0].Error(), ":4:")
	assert.Contains(t, lineErrs[1].Error(), ":6:")

	for _, e := range lineErrs {
		assert.ErrorIs(t, e, errors.ErrInvalidFormat)
	}
}

func Test_Load_Errors(t *testing.T) {
	_, err := newTestStore().Load(filepath.Join(t.TempDir(), "missing.filter"))
	assert.ErrorIs(t, err, errors.ErrFailedToReadFilters)
}

func Test_Load_WithMockLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithComponent("STORE").Return(mockLogger)
	mockLogger.EXPECT().Warn().Return(nil).Times(1)
	mockLogger.EXPECT().Debug().Return(nil).AnyTimes()

	path := writeFile(t, "one.filter", "bad record\nOk,"+b64("ok")+",2,1:1:1,INFO\n")

	group, err := NewStore(mockLogger).Load(path)
	require.NoError(t, err)
	assert.Len(t, group.Filters, 1)
	assert.Len(t, multierr.Errors(group.Err), 1)
}

func Test_SaveAndLoad(t *testing.T) {
	s := newTestStore()

	crash, err := filter.New("Crash, fatal", "FATAL|ANR", filter.RGB(255, 0, 0), severity.Error)
	require.NoError(t, err)

	activity, err := filter.New("Activity", "ActivityManager", filter.RGB(0, 128, 0), severity.Info, filter.WithCaseSensitive(true))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.filter")
	require.NoError(t, s.Save(path, []*filter.Filter{crash, activity}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filter.Encode(crash)+"\n"+filter.Encode(activity)+"\n", string(data))

	group, err := s.Load(path)
	require.NoError(t, err)
	require.NoError(t, group.Err)
	require.Len(t, group.Filters, 2)

	assert.Equal(t, "Crash  fatal", group.Filters[0].Name())
	assert.Equal(t, "FATAL|ANR", group.Filters[0].PatternString())
	assert.True(t, group.Filters[1].Equal(activity))
	assert.Equal(t, severity.Info, group.Filters[1].Threshold())
}

func Test_SaveAndLoad_NameStaysOnOneLine(t *testing.T) {
	s := newTestStore()

	crash, err := filter.New("first", "crash", filter.RGB(1, 2, 3), severity.Info)
	require.NoError(t, err)

	err = crash.Update("first\nsecond", "crash", filter.RGB(1, 2, 3), severity.Info, false)
	require.ErrorIs(t, err, errors.ErrMultilineName)

	_, err = filter.New("first\r\nsecond", "crash", filter.RGB(1, 2, 3), severity.Info)
	require.ErrorIs(t, err, errors.ErrMultilineName)

	path := filepath.Join(t.TempDir(), "x.filter")
	require.NoError(t, s.Save(path, []*filter.Filter{crash}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))

	group, err := s.Load(path)
	require.NoError(t, err)
	require.NoError(t, group.Err)
	require.Len(t, group.Filters, 1)
	assert.Equal(t, "first", group.Filters[0].Name())
}

func Test_Save_Error(t *testing.T) {
	err := newTestStore().Save(filepath.Join(t.TempDir(), "missing", "dir.filter"), nil)
	assert.ErrorIs(t, err, errors.ErrFailedToWriteFilters)
}

func Test_Append(t *testing.T) {
	s := newTestStore()
	path := filepath.Join(t.TempDir(), "new.filter")

	first, err := filter.New("First", "one", filter.RGB(1, 1, 1), severity.Verbose)
	require.NoError(t, err)

	second, err := filter.New("Second", "two", filter.RGB(2, 2, 2), severity.Debug)
	require.NoError(t, err)

	require.NoError(t, s.Append(path, first))
	require.NoError(t, s.Append(path, second))
	require.NoError(t, s.Append(path, filter.Copy(first)))

	group, err := s.Load(path)
	require.NoError(t, err)
	require.Len(t, group.Filters, 2)
	assert.Equal(t, "First", group.Filters[0].Name())
	assert.Equal(t, "Second", group.Filters[1].Name())
}

func Test_ExportYAML(t *testing.T) {
	f, err := filter.New("Crash", "FATAL", filter.RGB(255, 0, 0), severity.Error)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, newTestStore().ExportYAML(&buf, []*filter.Filter{f}))

	var defs []definition
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &defs))
	require.Len(t, defs, 1)

	assert.Equal(t, "Crash", defs[0].Name)
	assert.Equal(t, "FATAL", defs[0].Pattern)
	assert.Equal(t, "#ff0000", defs[0].Color)
	assert.Equal(t, "ERROR", defs[0].Severity)
	assert.True(t, defs[0].Simple)
	assert.False(t, defs[0].CaseSensitive)
	assert.Equal(t, filter.Encode(f), defs[0].Record)
}

func Test_EnsureExtension(t *testing.T) {
	assert.Equal(t, "a.filter", EnsureExtension("a"))
	assert.Equal(t, "a.filter", EnsureExtension("a.filter"))
	assert.Equal(t, "a.txt.filter", EnsureExtension("a.txt"))
}

func Test_GroupName(t *testing.T) {
	assert.Equal(t, "android", GroupName("/tmp/x/android.filter"))
	assert.Equal(t, "plain", GroupName("plain"))
}
