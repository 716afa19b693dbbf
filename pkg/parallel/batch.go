package parallel

import (
	"context"
	"runtime"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
)

// Map applies fn to every item on a pool of workers and returns the results
// in input order. Items whose task panicked leave the zero value in their
// slot. fn receives ctx and is expected to honour its deadline; Map itself
// stops submitting once ctx is done and reports ctx.Err(). A nil ctx is
// treated as context.Background().
func Map[T, R any](ctx context.Context, workers int, logger logging.Logger, items []T, fn func(context.Context, T) R) ([]R, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if ctx.Err() != nil {
			break
		}
		i := i
		if err := pool.Submit(func() {
			results[i] = fn(ctx, items[i])
		}); err != nil {
			break
		}
	}

	pool.Close()
	return results, ctx.Err()
}
