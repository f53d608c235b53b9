//go:generate mockgen -source=watcher.go -destination=watcher_mock.go -package=watcher
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"logviewer/internal/config"
	"logviewer/internal/config/logger"
)

// Watcher reports changes to filter files so applied groups can be reloaded
type Watcher interface {
	Add(paths ...string) error
	Files() []string
	Start(ctx context.Context, onChange func(paths []string))
	Close()
}

// manager implements the Watcher interface
type manager struct {
	cfg       *config.Config
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	dirs      map[string]struct{}
	batcher   Batcher
	log       logger.Logger
	mu        sync.RWMutex
	closed    bool
}

// NewWatcher creates a new Watcher instance
func NewWatcher(cfg *config.Config, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &manager{
		cfg:       cfg,
		fsWatcher: fsw,
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		log:       log.WithComponent("WATCHER"),
	}, nil
}

// Add registers filter files. The parent directory is watched so that editors replacing the file are noticed.
func (m *manager) Add(paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("watcher is closed")
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		dir := filepath.Dir(abs)
		if _, exists := m.dirs[dir]; !exists {
			if err := m.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory '%s': %w", dir, err)
			}

			m.dirs[dir] = struct{}{}
		}

		m.files[abs] = struct{}{}
		m.log.Debug().Msgf("Watching filter file '%s'", abs)
	}

	return nil
}

// Files returns the absolute paths of the watched filter files
func (m *manager) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for f := range m.files {
		files = append(files, f)
	}

	return files
}

// Start processes file events until ctx is done, calling onChange with the changed files once writes settle.
// Removed files are not reported so their last applied filters stay in effect.
func (m *manager) Start(ctx context.Context, onChange func(paths []string)) {
	m.mu.Lock()
	m.batcher = NewBatcher(m.cfg.Filters.Debounce, func(batch Batch) {
		if m.isClosed() {
			return
		}

		for _, path := range batch.Removed {
			m.log.Warn().Msgf("Filter file '%s' was removed, keeping its last filters", path)
		}

		if len(batch.Changed) == 0 {
			return
		}

		m.log.Info().Msgf("Filter files changed: %v", batch.Changed)
		onChange(batch.Changed)
	})
	batcher := m.batcher
	m.mu.Unlock()

	go func() {
		defer batcher.Stop()

		m.processEvents(ctx)
	}()
}

// Close stops the watcher and releases resources
func (m *manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.closed = true

	if m.batcher != nil {
		m.batcher.Stop()
	}

	m.fsWatcher.Close()
}

func (m *manager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.closed
}

// processEvents handles fsnotify events and routes them to the batcher
func (m *manager) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-m.fsWatcher.Events:
			if !ok {
				return
			}

			m.handleEvent(event)
		case err, ok := <-m.fsWatcher.Errors:
			if !ok {
				return
			}

			m.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// handleEvent records events on registered files
func (m *manager) handleEvent(event fsnotify.Event) {
	if !isRelevantEvent(event) {
		return
	}

	path := filepath.Clean(event.Name)

	m.mu.RLock()
	_, watched := m.files[path]
	batcher := m.batcher
	m.mu.RUnlock()

	if !watched || batcher == nil {
		return
	}

	batcher.Record(path)
}

// isRelevantEvent returns true if the event should trigger a reload
func isRelevantEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
