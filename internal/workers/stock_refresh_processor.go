// internal/workers/stock_refresh_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

// StockCache reloads one outlet's cached stock list.
type StockCache interface {
	Refresh(ctx context.Context, outletID int64) (int, error)
}

// StockRefreshProcessor handles stock refresh tasks
type StockRefreshProcessor struct {
	cache   StockCache
	timeout time.Duration
	logger  *slog.Logger
}

// NewStockRefreshProcessor creates a new stock refresh processor
func NewStockRefreshProcessor(cache StockCache, timeout time.Duration, logger *slog.Logger) *StockRefreshProcessor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StockRefreshProcessor{
		cache:   cache,
		timeout: timeout,
		logger:  logger.With(slog.String("processor", "stock_refresh")),
	}
}

// ProcessStockRefresh reloads the outlet named in the task payload.
// A bad payload or a rejected token will not get better on retry.
func (p *StockRefreshProcessor) ProcessStockRefresh(ctx context.Context, t *asynq.Task) error {
	var payload StockRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OutletID <= 0 {
		return fmt.Errorf("invalid outlet id %d: %w", payload.OutletID, asynq.SkipRetry)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	n, err := p.cache.Refresh(ctx, payload.OutletID)
	if err != nil {
		p.logger.ErrorContext(ctx, "stock refresh failed",
			slog.Int64("outlet_id", payload.OutletID),
			slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("refresh outlet %d: %v: %w", payload.OutletID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("refresh outlet %d: %w", payload.OutletID, err)
	}

	p.logger.InfoContext(ctx, "stock refresh completed",
		slog.Int64("outlet_id", payload.OutletID),
		slog.Int("records", n),
		slog.Duration("duration_ms", time.Since(start)))
	return nil
}
