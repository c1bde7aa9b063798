package mirror

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// WorkerOptions tune the outbox worker
type WorkerOptions struct {
	PollInterval  time.Duration
	PushTimeout   time.Duration
	MaxRetries    int
	RatePerSecond float64
	BatchSize     int

	// NewBackOff builds the retry policy of a single push. Defaults to exponential.
	NewBackOff func() backoff.BackOff
}

func (o *WorkerOptions) withDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.PushTimeout <= 0 {
		o.PushTimeout = 10 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.NewBackOff == nil {
		o.NewBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		}
	}
}

// Worker drains the outbox into the remote document store. Mutators only
// enqueue; the worker owns all remote I/O.
type Worker struct {
	outbox  Outbox
	docs    repository.DocumentStore
	opts    WorkerOptions
	limiter *rate.Limiter
	wake    chan struct{}
	seq     atomic.Int64
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewWorker creates a worker. A non-positive rate disables pacing.
func NewWorker(outbox Outbox, docs repository.DocumentStore, opts WorkerOptions, logger logger.Logger, m *metrics.Metrics) *Worker {
	opts.withDefaults()

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	w := &Worker{
		outbox:  outbox,
		docs:    docs,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		wake:    make(chan struct{}, 1),
		logger:  logger,
		metrics: m,
	}
	w.seq.Store(time.Now().UnixNano())
	return w
}

// Enqueue stores a sync task for path and wakes the worker
func (w *Worker) Enqueue(ctx context.Context, path string, payload []byte) error {
	task := SyncTask{
		Path:       path,
		Payload:    payload,
		Seq:        w.seq.Add(1),
		EnqueuedAt: time.Now(),
	}
	if err := w.outbox.Enqueue(ctx, task); err != nil {
		return err
	}
	w.updatePending(ctx)

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run drains the outbox whenever woken or on every poll interval until ctx ends
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.logger.Info("Sync worker started", "pollInterval", w.opts.PollInterval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Sync worker stopped")
			return ctx.Err()
		case <-w.wake:
		case <-ticker.C:
		}

		if _, err := w.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Error draining outbox", "error", err)
			w.metrics.ErrorsCount.WithLabelValues("outbox_drain").Inc()
		}
	}
}

// Drain pushes one batch of pending tasks and returns how many reached the
// remote store. Failed tasks stay in the outbox for the next round.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	tasks, err := w.outbox.Pending(ctx, w.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	pushed := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			return pushed, ctx.Err()
		}

		start := time.Now()
		err := w.push(ctx, task)
		w.metrics.PushDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			w.metrics.MirrorPushes.WithLabelValues("failed").Inc()
			w.logger.Warn("Failed to sync collection",
				"path", task.Path,
				"attempts", task.Attempts+1,
				"error", err)
			if ferr := w.outbox.Fail(ctx, task.Path, task.Seq, err); ferr != nil {
				w.logger.Error("Failed to record sync failure", "path", task.Path, "error", ferr)
			}
			continue
		}

		w.metrics.MirrorPushes.WithLabelValues("ok").Inc()
		if err := w.outbox.Complete(ctx, task.Path, task.Seq); err != nil {
			w.logger.Error("Failed to complete sync task", "path", task.Path, "error", err)
			continue
		}
		w.logger.Debug("Collection synced", "path", task.Path, "bytes", len(task.Payload))
		pushed++
	}

	w.updatePending(ctx)
	return pushed, nil
}

func (w *Worker) push(ctx context.Context, task SyncTask) error {
	op := func() error {
		if err := w.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		pushCtx, cancel := context.WithTimeout(ctx, w.opts.PushTimeout)
		defer cancel()
		return w.docs.Set(pushCtx, task.Path, task.Payload)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(w.opts.NewBackOff(), uint64(w.opts.MaxRetries)),
		ctx,
	)
	return backoff.Retry(op, policy)
}

func (w *Worker) updatePending(ctx context.Context) {
	if n, err := w.outbox.Len(ctx); err == nil {
		w.metrics.OutboxPending.Set(float64(n))
	}
}
