//go:generate mockgen -source=runner.go -destination=runner_mock.go -package=runner
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"logviewer/internal/app/errors"
	"logviewer/internal/app/filter"
	"logviewer/internal/app/logs"
	"logviewer/internal/app/worker"
	"logviewer/internal/config/logger"
)

// Match is a line accepted by at least one applied filter
type Match struct {
	Source *logs.Source
	Entry  logs.Entry
	// Filter indexes the first accepting filter in Result.Filters
	Filter int
}

// Result is the outcome of a filtering run
type Result struct {
	ID       string
	State    string
	Filters  []*filter.Filter
	Matches  []Match
	Duration time.Duration
}

// Total returns the number of lines found by the i-th applied filter within the loaded streams
func (r *Result) Total(i int) int {
	return r.Filters[i].LinesFound()
}

// Runner applies filters to loaded log sources
type Runner interface {
	Run(ctx context.Context, filters []*filter.Filter, sources []*logs.Source) (*Result, error)
	State() string
}

type runner struct {
	pool worker.Pool
	log  logger.Logger
	fsm  *fsm.FSM
	mu   sync.Mutex
}

// NewRunner creates a new runner instance
func NewRunner(pool worker.Pool, log logger.Logger) Runner {
	l := log.WithComponent("RUNNER")

	return &runner{
		pool: pool,
		log:  l,
		fsm:  newRunFSM(l),
	}
}

// State returns the lifecycle state of the last run
func (r *runner) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Current()
}

// Run counts, for every applied filter, the lines it accepts in each source.
// Counters are reset at the start and restricted to the streams of the given sources.
func (r *runner) Run(ctx context.Context, filters []*filter.Filter, sources []*logs.Source) (*Result, error) {
	applied := make([]*filter.Filter, 0, len(filters))
	for _, f := range filters {
		if f.IsApplied() {
			applied = append(applied, f)
		}
	}

	if len(applied) == 0 {
		return nil, errors.ErrNoFiltersApplied
	}

	if err := r.transition(ctx, Start); err != nil {
		return nil, errors.ErrRunInProgress
	}

	result := &Result{
		ID:      uuid.NewString(),
		Filters: applied,
	}

	allowed := logs.Streams(sources)
	for _, f := range applied {
		f.StartRun().SetAllowed(allowed)
	}

	r.log.Info().Msgf("Run %s: applying %d filters to %d sources", result.ID, len(applied), len(sources))

	started := time.Now()
	matches, err := r.scanAll(ctx, applied, sources)
	result.Duration = time.Since(started)

	for _, m := range matches {
		result.Matches = append(result.Matches, m...)
	}

	switch {
	case err == nil:
		r.finish(ctx, Complete, result)
		r.log.Info().Msgf("Run %s completed in %s: %d matching lines", result.ID, result.Duration, len(result.Matches))

		return result, nil
	case ctx.Err() != nil:
		r.finish(ctx, Cancel, result)
		r.log.Warn().Msgf("Run %s cancelled after %s", result.ID, result.Duration)

		return result, ctx.Err()
	default:
		r.finish(ctx, Fail, result)
		r.log.Error().Err(err).Msgf("Run %s failed", result.ID)

		return result, err
	}
}

func (r *runner) transition(ctx context.Context, event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fsm.Event(context.WithoutCancel(ctx), event)
}

func (r *runner) finish(ctx context.Context, event string, result *Result) {
	if err := r.transition(ctx, event); err != nil {
		r.log.Warn().Err(err).Msgf("Run %s: failed to record '%s'", result.ID, event)
	}

	result.State = r.State()
}

// scanAll scans every source on its own goroutine, bounded by the worker pool
func (r *runner) scanAll(ctx context.Context, applied []*filter.Filter, sources []*logs.Source) ([][]Match, error) {
	matches := make([][]Match, len(sources))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i, source := range sources {
		if err := r.pool.Acquire(ctx); err != nil {
			errOnce.Do(func() { firstErr = fmt.Errorf("%w: %w", errors.ErrFailedToAcquireWorker, err) })
			break
		}

		wg.Add(1)

		go func(i int, source *logs.Source) {
			defer wg.Done()
			defer r.pool.Release()

			found, err := scan(ctx, applied, source)
			matches[i] = found

			if err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(i, source)
	}

	wg.Wait()

	return matches, firstErr
}

// scan tests every applied filter against every entry of a source
func scan(ctx context.Context, applied []*filter.Filter, source *logs.Source) ([]Match, error) {
	var found []Match

	for _, entry := range source.Entries {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		first := -1

		for i, f := range applied {
			if !f.AppliesTo(entry) {
				continue
			}

			f.Counter().Increment(entry.Stream)

			if first < 0 {
				first = i
			}
		}

		if first >= 0 {
			found = append(found, Match{Source: source, Entry: entry, Filter: first})
		}
	}

	return found, nil
}
