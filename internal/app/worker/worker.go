//go:generate mockgen -source=worker.go -destination=worker_mock.go -package=worker
package worker

import (
	"context"

	"logviewer/internal/config"
)

// Pool bounds the number of log sources scanned at the same time
type Pool interface {
	Acquire(ctx context.Context) error
	Release()
	Size() int
}

// pool implements the Pool interface
type pool struct {
	sem chan struct{}
}

// NewWorkerPool creates a pool sized by the configured concurrency
func NewWorkerPool(cfg *config.Config) Pool {
	size := cfg.Concurrency.Workers
	if size <= 0 {
		size = config.MaxWorkers
	}

	return &pool{
		sem: make(chan struct{}, size),
	}
}

// Acquire blocks until a slot is free or ctx is done
func (p *pool) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire
func (p *pool) Release() {
	<-p.sem
}

// Size returns the maximum number of concurrent slots
func (p *pool) Size() int {
	return cap(p.sem)
}
