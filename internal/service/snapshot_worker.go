package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/pkg/jobs"
)

const (
	jobPersistSnapshot = "persist_snapshot"
	jobCleanupArchive  = "cleanup_archive"
)

// SnapshotWorker periodically persists the overall analytics snapshot to the
// durable tier and prunes the export archive. Work runs through a retrying
// job queue so a transient storage failure does not lose the tick.
type SnapshotWorker struct {
	analytics  *AnalyticsService
	exports    *ExportService
	interval   time.Duration
	archiveTTL time.Duration
	logger     *zap.Logger

	queue  *jobs.Queue
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSnapshotWorker constructs the worker. A non-positive interval disables it.
func NewSnapshotWorker(analytics *AnalyticsService, exports *ExportService, interval, archiveTTL time.Duration, logger *zap.Logger) *SnapshotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotWorker{
		analytics:  analytics,
		exports:    exports,
		interval:   interval,
		archiveTTL: archiveTTL,
		logger:     logger,
	}
}

// Start launches the queue workers and the ticker loop.
func (w *SnapshotWorker) Start(ctx context.Context) {
	if w.interval <= 0 || w.analytics == nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)

	w.queue = jobs.NewQueue("analytics-snapshots", w.handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 3,
		RetryDelay: 30 * time.Second,
		Logger:     w.logger,
	})
	w.queue.Start(ctx)

	w.wg.Add(1)
	go w.tick(ctx)
}

// Stop halts the ticker and drains the queue workers.
func (w *SnapshotWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
	w.queue.Stop()
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq++
			w.enqueue(jobs.Job{ID: fmt.Sprintf("persist-%d", seq), Type: jobPersistSnapshot})
			if w.exports != nil && w.archiveTTL > 0 {
				w.enqueue(jobs.Job{ID: fmt.Sprintf("cleanup-%d", seq), Type: jobCleanupArchive})
			}
		}
	}
}

func (w *SnapshotWorker) enqueue(job jobs.Job) {
	if err := w.queue.Enqueue(job); err != nil {
		w.logger.Warn("snapshot job enqueue failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (w *SnapshotWorker) handle(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobPersistSnapshot:
		if _, err := w.analytics.StoreSnapshot(ctx, models.ScopeAll); err != nil {
			return err
		}
		return nil
	case jobCleanupArchive:
		deleted, err := w.exports.CleanupArchive(w.archiveTTL)
		if err != nil {
			return err
		}
		if deleted > 0 {
			w.logger.Info("export archive pruned", zap.Int("deleted", deleted))
		}
		return nil
	default:
		w.logger.Warn("unknown snapshot job type", zap.String("type", job.Type))
		return nil
	}
}
