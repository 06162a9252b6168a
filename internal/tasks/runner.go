// Package tasks runs detached background work for request handlers.
//
// A task outlives the request that spawned it. Its context carries only the
// caller's logger: request contexts may be pooled and reused once the handler
// returns, so no other value or cancellation is kept. Failures and panics are
// logged, never silently dropped.
package tasks

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/DIMO-Network/waba-relay/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Runner spawns detached tasks and bounds how many run at once.
type Runner struct {
	wg  sync.WaitGroup
	sem *semaphore.Weighted
}

// NewRunner creates a Runner allowing at most maxInFlight concurrent tasks.
// maxInFlight < 1 means unbounded.
func NewRunner(maxInFlight int64) *Runner {
	r := &Runner{}
	if maxInFlight > 0 {
		r.sem = semaphore.NewWeighted(maxInFlight)
	}
	return r
}

// Go runs fn on its own goroutine. The caller does not wait for it.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	taskCtx := Detach(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if r.sem != nil {
			// taskCtx is never cancelled so Acquire only returns once a slot is free.
			_ = r.sem.Acquire(taskCtx, 1)
			defer r.sem.Release(1)
		}
		logger := zerolog.Ctx(taskCtx)
		if err := Isolate(taskCtx, fn); err != nil {
			metrics.DetachedTasks.WithLabelValues("error").Inc()
			logger.Error().Err(err).Str("task", name).Msg("Detached task failed")
			return
		}
		metrics.DetachedTasks.WithLabelValues("success").Inc()
	}()
}

// Detach returns a background context carrying only the logger of ctx.
func Detach(ctx context.Context) context.Context {
	return zerolog.Ctx(ctx).WithContext(context.Background())
}

// Wait blocks until all spawned tasks finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for detached tasks: %w", ctx.Err())
	}
}

// Isolate calls fn and converts a panic into an error.
func Isolate(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			zerolog.Ctx(ctx).Error().Bytes("stack", debug.Stack()).Msg("Recovered panic")
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx)
}
