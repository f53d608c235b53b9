package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/severity"
	"logviewer/internal/app/stream"
	"logviewer/internal/config"
)

const sampleLog = "01-06 20:46:26.091 821-2168/? V/ThermalMonitor: Foreground Application Changed: com.voidcorporation.carimbaai\r\n" +
	"01-06 20:46:26.091 821-2168/? D/ThermalMonitor: Foreground Application Changed: com.voidcorporation.carimbaai\n" +
	"01-06 20:46:42.501 821-2810/? I/ActivityManager: Process com.voidcorporation.carimbaai (pid 25175) (adj 0) has died.\n" +
	"01-06 20:46:39.491 821-1054/? W/ActivityManager:   Force finishing activity com.voidcorporation.carimbaai/.UserProfileActivity\n" +
	"01-06 20:46:39.481 25175-25175/? E/AndroidRuntime: FATAL EXCEPTION: main"

func Test_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logcat_system.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0644))

	source, err := NewReader(config.DefaultConfig()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, "logcat_system.txt", source.Name)
	assert.Equal(t, path, source.Path)
	assert.Equal(t, stream.System, source.Stream)
	require.Len(t, source.Entries, 5)

	assert.False(t, strings.HasSuffix(source.Entries[0].Message, "\r"))
	assert.Equal(t, severity.Verbose, source.Entries[0].Level)
	assert.Equal(t, severity.Error, source.Entries[4].Level)
	assert.Equal(t, 5, source.Entries[4].Line)
}

func Test_Read_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log.gz")

	file, err := os.Create(path)
	require.NoError(t, err)

	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(sampleLog))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	source, err := NewReader(config.DefaultConfig()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, "events.log", source.Name)
	assert.Equal(t, stream.Events, source.Stream)
	assert.Len(t, source.Entries, 5)
}

func Test_Read_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewReader(config.DefaultConfig()).Read(filepath.Join(dir, "missing.log"))
		assert.ErrorIs(t, err, errors.ErrFailedToReadLog)
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		path := filepath.Join(dir, "bad.gz")
		require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))

		_, err := NewReader(config.DefaultConfig()).Read(path)
		assert.ErrorIs(t, err, errors.ErrFailedToReadLog)
	})

	t.Run("line too long", func(t *testing.T) {
		path := filepath.Join(dir, "long.log")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 200*1024)), 0644))

		cfg := config.DefaultConfig()
		cfg.Logs.MaxLineLength = 1024

		_, err := NewReader(cfg).Read(path)
		assert.ErrorIs(t, err, errors.ErrFailedToReadLog)
	})
	t.Run("line longer than a small limit", func(t *testing.T) {
		path := filepath.Join(dir, "small.log")
		require.NoError(t, os.WriteFile(path, []byte("ok\n"+strings.Repeat("y", 100)+"\n"), 0644))

		cfg := config.DefaultConfig()
		cfg.Logs.MaxLineLength = 16

		_, err := NewReader(cfg).Read(path)
		assert.ErrorIs(t, err, errors.ErrFailedToReadLog)
	})

	t.Run("lines within a small limit", func(t *testing.T) {
		path := filepath.Join(dir, "short.log")
		require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

		cfg := config.DefaultConfig()
		cfg.Logs.MaxLineLength = 16

		source, err := NewReader(cfg).Read(path)
		require.NoError(t, err)
		assert.Len(t, source.Entries, 3)
	})
}
