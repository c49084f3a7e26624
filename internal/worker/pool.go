package worker

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Task represents a unit of work to be processed by the pool.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
	onDone  func(index int, err error)
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// OnDone registers a callback invoked after each task that ran. It is called
// from worker goroutines and must be safe for concurrent use.
func (p *Pool[T, R]) OnDone(fn func(index int, err error)) *Pool[T, R] {
	p.onDone = fn
	return p
}

// Execute runs all inputs through the worker pool and returns results in
// input order. A failing task does not stop the others. Once ctx is done,
// tasks that have not started are marked with ctx.Err() and skipped.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i := range inputs {
		results[i].Input = inputs[i]
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			result, err := p.process(ctx, inputs[i])
			results[i].Result = result
			results[i].Err = err
			if err != nil {
				log.Debug().Err(err).Int("index", i).Msg("Task failed")
			}
			if p.onDone != nil {
				p.onDone(i, err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
