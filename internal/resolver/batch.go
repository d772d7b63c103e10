package resolver

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stylus/internal/services"
)

// Progress is invoked after each file finishes, from worker goroutines.
// done counts completed files, total is the batch size.
type Progress func(done, total int, result Result)

// ResolveBatch runs the cascade over paths with a bounded worker pool and
// streams results in completion order. Cancellation is observed between
// files; a cascade already under way runs to completion. The channel is
// closed once every scheduled file has reported.
func (r *Resolver) ResolveBatch(ctx context.Context, paths []string, progress Progress) <-chan Result {
	results := make(chan Result, len(paths))

	workers := r.config.WorkerCount()
	if workers < 1 {
		workers = 1
	}

	ctx = services.WithBatchID(ctx, uuid.NewString())

	go func() {
		defer close(results)

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(workers)

		var done atomic.Int64
		total := len(paths)

		for _, path := range paths {
			if groupCtx.Err() != nil {
				break
			}
			group.Go(func() error {
				fileCtx := services.WithRequestID(groupCtx, uuid.NewString())
				result := r.Resolve(fileCtx, path)
				results <- result
				if progress != nil {
					progress(int(done.Add(1)), total, result)
				}
				return nil
			})
		}
		_ = group.Wait()
	}()

	return results
}
