package filter

import (
	"sync"
	"sync/atomic"

	"logviewer/internal/app/stream"
)

// Counter accumulates matched lines per stream during one filtering run.
// Increments are safe from many goroutines; totals are not snapshots.
type Counter struct {
	counts  sync.Map // stream.Stream -> *atomic.Int64
	allowed atomic.Pointer[stream.Set]
}

// NewCounter creates an empty counter that admits all streams
func NewCounter() *Counter {
	return &Counter{}
}

// Increment adds one matched line for the stream
func (c *Counter) Increment(s stream.Stream) {
	v, ok := c.counts.Load(s)
	if !ok {
		v, _ = c.counts.LoadOrStore(s, new(atomic.Int64))
	}

	v.(*atomic.Int64).Add(1)
}

// Count returns the matched lines for a single stream
func (c *Counter) Count(s stream.Stream) int {
	v, ok := c.counts.Load(s)
	if !ok {
		return 0
	}

	return int(v.(*atomic.Int64).Load())
}

// Total sums the counts of streams in allowed; a nil set sums every stream
func (c *Counter) Total(allowed stream.Set) int {
	total := 0

	c.counts.Range(func(key, value any) bool {
		if allowed.Contains(key.(stream.Stream)) {
			total += int(value.(*atomic.Int64).Load())
		}

		return true
	})

	return total
}

// SetAllowed restricts AllowedTotal to the given streams; nil admits all
func (c *Counter) SetAllowed(allowed stream.Set) {
	if allowed == nil {
		c.allowed.Store(nil)
		return
	}

	c.allowed.Store(&allowed)
}

// AllowedTotal sums the counts of the streams set through SetAllowed
func (c *Counter) AllowedTotal() int {
	if allowed := c.allowed.Load(); allowed != nil {
		return c.Total(*allowed)
	}

	return c.Total(nil)
}

// Counts returns a copy of the per-stream counts
func (c *Counter) Counts() map[stream.Stream]int {
	result := make(map[stream.Stream]int)

	c.counts.Range(func(key, value any) bool {
		result[key.(stream.Stream)] = int(value.(*atomic.Int64).Load())
		return true
	})

	return result
}

// Reset drops all counts; the allowed restriction is kept
func (c *Counter) Reset() {
	c.counts.Clear()
}

// Counter returns the counter of the current run, creating it on first use
func (f *Filter) Counter() *Counter {
	if c := f.counter.Load(); c != nil {
		return c
	}

	c := NewCounter()
	if f.counter.CompareAndSwap(nil, c) {
		return c
	}

	return f.counter.Load()
}

// StartRun installs a fresh counter for a new filtering run
func (f *Filter) StartRun() *Counter {
	c := NewCounter()
	f.counter.Store(c)

	return c
}

// ResetCounter discards the run counter
func (f *Filter) ResetCounter() {
	f.counter.Store(nil)
}

// LinesFound returns the allowed total of the current run, or zero when no run started
func (f *Filter) LinesFound() int {
	c := f.counter.Load()
	if c == nil {
		return 0
	}

	return c.AllowedTotal()
}
