// internal/adapters/queue/stock_refresh.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/workers"
)

// Enqueuer is the part of *asynq.Client the queue uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// StockRefreshQueue schedules stock cache reloads on the worker.
// At most one refresh per outlet is pending within the uniqueness window.
type StockRefreshQueue struct {
	client    Enqueuer
	uniqueFor time.Duration
	maxRetry  int
	logger    *slog.Logger
}

var _ ports.StockRefresher = (*StockRefreshQueue)(nil)

// NewStockRefreshQueue creates a new stock refresh queue
func NewStockRefreshQueue(client Enqueuer, uniqueFor time.Duration, maxRetry int, logger *slog.Logger) *StockRefreshQueue {
	if uniqueFor <= 0 {
		uniqueFor = time.Minute
	}
	return &StockRefreshQueue{
		client:    client,
		uniqueFor: uniqueFor,
		maxRetry:  maxRetry,
		logger:    logger.With(slog.String("component", "stock_refresh_queue")),
	}
}

// EnqueueRefresh queues a refresh of outletID. A refresh already queued for
// the outlet is not an error.
func (q *StockRefreshQueue) EnqueueRefresh(ctx context.Context, outletID int64) error {
	task, err := workers.NewStockRefreshTask(outletID)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(workers.QueueLow),
		asynq.MaxRetry(q.maxRetry),
		asynq.Unique(q.uniqueFor),
		asynq.Retention(time.Hour))
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			q.logger.DebugContext(ctx, "stock refresh already queued", slog.Int64("outlet_id", outletID))
			return nil
		}
		return fmt.Errorf("failed to enqueue stock refresh: %w", err)
	}

	q.logger.DebugContext(ctx, "stock refresh queued",
		slog.Int64("outlet_id", outletID),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))
	return nil
}
