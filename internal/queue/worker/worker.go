package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/medisecure/medisecure-backend/internal/domain/job"
	"github.com/medisecure/medisecure-backend/internal/notifications"
	"github.com/medisecure/medisecure-backend/internal/observability"
)

type JobsRepository interface {
	ClaimNext(ctx context.Context, workerID string) (job.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
	Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error
	RequeueStaleProcessing(ctx context.Context, lockTTL time.Duration) (int64, error)
}

// Deduper guards against double sends when a job is retried or two
// replicas race on the same work.
type Deduper interface {
	AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Config struct {
	PollInterval  time.Duration
	WorkerID      string
	Concurrency   int
	ShutdownGrace time.Duration
	LockTTL       time.Duration
}

type Worker struct {
	cfg      Config
	repo     JobsRepository
	notifier notifications.Notifier
	dedup    Deduper
	metrics  *observability.JobMetrics
	logger   *slog.Logger

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, repo JobsRepository, notifier notifications.Notifier, dedup Deduper, metrics *observability.JobMetrics, logger *slog.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 60 * time.Second
	}
	if metrics == nil {
		metrics = observability.NewJobMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		dedup:    dedup,
		metrics:  metrics,
		logger:   logger,
	}
}

func (w *Worker) Metrics() *observability.JobMetrics {
	return w.metrics
}

// Run polls for jobs until the context is cancelled, then drains in-flight
// work within the shutdown grace period.
func (w *Worker) Run(ctx context.Context) error {
	w.setReady(true)
	defer w.setReady(false)

	var wg sync.WaitGroup

	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)

		go func(slot int) {
			defer wg.Done()
			w.pollLoop(ctx, slot)
		}(i)
	}

	// one sweeper per process is plenty
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.staleSweepLoop(ctx)
	}()

	<-ctx.Done()
	w.setReady(false)

	drained := make(chan struct{})

	go func() {
		wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		w.logger.Info("worker drained")
	case <-time.After(w.cfg.ShutdownGrace):
		w.logger.Error("worker shutdown grace exceeded")
	}

	return nil
}

func (w *Worker) pollLoop(ctx context.Context, slot int) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// keep claiming until the queue is empty, then back off to the ticker
			for {
				processed, err := w.ProcessOne(ctx)

				if err != nil {
					w.logger.Error("job processing error", "slot", slot, "err", err.Error())
					break
				}

				if !processed {
					break
				}
			}
		}
	}
}

func (w *Worker) staleSweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.LockTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.repo.RequeueStaleProcessing(ctx, w.cfg.LockTTL)

			if err != nil {
				w.logger.Error("stale requeue failed", "err", err.Error())
				continue
			}

			if n > 0 {
				w.logger.Info("requeued stale jobs", "count", n)
			}
		}
	}
}

func (w *Worker) setReady(ready bool) {
	w.readyMu.Lock()
	w.ready = ready
	w.readyMu.Unlock()
}
