// Package parallel provides the two fan-out primitives used for driving
// device groups and racing discovery probes: run-all-and-collect and
// run-first-success-with-cancellation.
package parallel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is an independent unit of concurrent work.
type Task[T any] func(ctx context.Context) (T, error)

// All runs every task concurrently and returns the successful results in
// no particular order. Failures (errors and panics) are logged and
// discarded; one broken task never blocks or fails the others. All itself
// never fails.
func All[T any](ctx context.Context, tasks []Task[T]) []T {
	var (
		mu      sync.Mutex
		results []T
		wg      sync.WaitGroup
	)

	for i, task := range tasks {
		wg.Add(1)
		go func(id int, task Task[T]) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Int("task", id).Msg("Task panicked")
				}
			}()

			result, err := task(ctx)
			if err != nil {
				log.Warn().Err(err).Int("task", id).Msg("Task failed")
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(i, task)
	}

	wg.Wait()
	return results
}

// First runs every task concurrently and returns the first successful
// result, cancelling the rest. It returns false if every task fails or
// the context is cancelled before any task succeeds.
func First[T any](ctx context.Context, tasks []Task[T]) (T, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	winner := make(chan T, 1)
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(id int, task Task[T]) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Int("task", id).Msg("Task panicked")
				}
			}()

			result, err := task(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Debug().Err(err).Int("task", id).Msg("Task failed")
				}
				return
			}
			select {
			case winner <- result:
				cancel()
			default:
			}
		}(i, task)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case result := <-winner:
		return result, true
	case <-done:
		// A success may have landed while the last task was finishing.
		select {
		case result := <-winner:
			return result, true
		default:
			var zero T
			return zero, false
		}
	}
}

// Timeout returns a task that yields T's zero value after d. Raced
// inside First against real work it bounds the race without a separate
// mechanism: when it wins, callers see the zero result and treat it as
// absence.
func Timeout[T any](d time.Duration) Task[T] {
	return func(ctx context.Context) (T, error) {
		var zero T
		select {
		case <-time.After(d):
			return zero, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
