package watcher

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"sync"
	"time"
)

// maxWaitFactor bounds how long a stream of writes can postpone a reload, in quiet periods
const maxWaitFactor = 4

// Batch is the set of filter files touched within one settle window
type Batch struct {
	// Changed files exist on disk and should be reloaded
	Changed []string
	// Removed files were deleted and not recreated before the window closed
	Removed []string
}

// Batcher groups filter file events until writes settle
type Batcher interface {
	Record(path string)
	Stop()
}

type batcher struct {
	quiet   time.Duration
	maxWait time.Duration
	deliver func(Batch)
	timer   *time.Timer
	first   time.Time
	touched map[string]struct{}
	mu      sync.Mutex
	stopped bool
}

// NewBatcher creates a Batcher that delivers once no event arrived for quiet,
// or at the latest maxWaitFactor quiet periods after the first event of the batch
func NewBatcher(quiet time.Duration, deliver func(Batch)) Batcher {
	return &batcher{
		quiet:   quiet,
		maxWait: maxWaitFactor * quiet,
		deliver: deliver,
		touched: make(map[string]struct{}),
	}
}

// Record notes an event on path and pushes the delivery back, up to the max wait
func (b *batcher) Record(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	now := time.Now()
	if len(b.touched) == 0 {
		b.first = now
	}

	b.touched[path] = struct{}{}

	delay := min(b.quiet, b.maxWait-now.Sub(b.first))
	if b.timer != nil {
		b.timer.Stop()
	}

	b.timer = time.AfterFunc(max(delay, 0), b.flush)
}

// Stop drops the pending batch; later events are ignored
func (b *batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	clear(b.touched)
}

func (b *batcher) flush() {
	b.mu.Lock()

	if b.stopped || len(b.touched) == 0 {
		b.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(b.touched))
	for p := range b.touched {
		paths = append(paths, p)
	}

	clear(b.touched)
	b.timer = nil

	b.mu.Unlock()

	slices.Sort(paths)
	b.deliver(settle(paths))
}

// settle splits paths by whether the file is on disk now. Editors that save
// by remove and recreate show up as Changed.
func settle(paths []string) Batch {
	var batch Batch

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			batch.Removed = append(batch.Removed, p)
			continue
		}

		batch.Changed = append(batch.Changed, p)
	}

	return batch
}
