package attachment

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/msomdec/item-flow/internal/domain"
)

// Remover releases a single attachment.
type Remover interface {
	Release(ctx context.Context, locator string) error
}

// Releaser runs attachment releases in the background with bounded
// concurrency. It implements domain.AttachmentReleaser.
type Releaser struct {
	remover  Remover
	sem      *semaphore.Weighted
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	failures atomic.Int64
}

// NewReleaser creates a Releaser that runs at most concurrency releases at
// once, each limited to timeout.
func NewReleaser(remover Remover, concurrency int, timeout time.Duration, logger *slog.Logger) *Releaser {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Releaser{
		remover: remover,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
		logger:  logger,
	}
}

// Enqueue schedules job and returns immediately. The release outlives the
// cancellation of ctx but keeps its values.
func (r *Releaser) Enqueue(ctx context.Context, job domain.ReleaseJob) {
	if job.Locator == "" {
		return
	}

	ctx = context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer r.sem.Release(1)

		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		if err := r.remover.Release(ctx, job.Locator); err != nil {
			r.failures.Add(1)
			r.logger.Warn("attachment release failed",
				"item_id", job.ItemID, "locator", job.Locator, "op", job.Op, "error", err)
			return
		}
		r.logger.Debug("attachment released", "item_id", job.ItemID, "locator", job.Locator, "op", job.Op)
	}()
}

// Wait blocks until every enqueued release has finished.
func (r *Releaser) Wait() {
	r.wg.Wait()
}

// Failures returns the number of releases that failed since creation.
func (r *Releaser) Failures() int64 {
	return r.failures.Load()
}
