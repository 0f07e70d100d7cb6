// internal/adapters/redis_adapter/stock_cache.go
package redis_a

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// CachedStockRepository keeps each outlet's stock list in Redis so price
// resolution does not hit the backend on every product selection.
// Paged stock listings pass through uncached.
type CachedStockRepository struct {
	next      ports.StockRepository
	cache     ports.CacheRepository
	refresher ports.StockRefresher // optional
	ttl       time.Duration
	logger    *slog.Logger
}

var _ ports.StockRepository = (*CachedStockRepository)(nil)

// NewCachedStockRepository wraps next. refresher may be nil.
func NewCachedStockRepository(next ports.StockRepository, cache ports.CacheRepository,
	refresher ports.StockRefresher, ttl time.Duration, logger *slog.Logger) *CachedStockRepository {
	return &CachedStockRepository{
		next:      next,
		cache:     cache,
		refresher: refresher,
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "stock_cache")),
	}
}

// ListStocks is not cached; the browser wants live quantities.
func (r *CachedStockRepository) ListStocks(ctx context.Context, params ports.ListParams) (domain.Page[domain.Stock], error) {
	return r.next.ListStocks(ctx, params)
}

// ListByOutlet serves from cache, loading through on a miss. Every miss
// schedules a background refresh so the entry is rebuilt before it expires.
func (r *CachedStockRepository) ListByOutlet(ctx context.Context, outletID int64) ([]domain.Stock, error) {
	key := OutletStockKey(outletID)

	var stocks []domain.Stock
	missed := false
	err := r.cache.GetOrSet(ctx, key, &stocks, func() (interface{}, error) {
		missed = true
		return r.next.ListByOutlet(ctx, outletID)
	}, r.ttl)
	if err != nil {
		return nil, err
	}

	if missed && r.refresher != nil {
		if err := r.refresher.EnqueueRefresh(ctx, outletID); err != nil {
			r.logger.WarnContext(ctx, "failed to schedule stock refresh",
				slog.Int64("outlet_id", outletID),
				slog.String("error", err.Error()))
		}
	}
	return stocks, nil
}

// Refresh reloads an outlet's stock from the backend and overwrites the
// cached entry. It returns the number of records stored.
func (r *CachedStockRepository) Refresh(ctx context.Context, outletID int64) (int, error) {
	stocks, err := r.next.ListByOutlet(ctx, outletID)
	if err != nil {
		return 0, err
	}
	if err := r.cache.SetWithTTL(ctx, OutletStockKey(outletID), stocks, r.ttl); err != nil {
		return 0, err
	}

	r.logger.InfoContext(ctx, "stock cache refreshed",
		slog.Int64("outlet_id", outletID),
		slog.Int("records", len(stocks)))
	return len(stocks), nil
}

// Invalidate drops one outlet's entry, or every outlet's when outletID is 0.
func (r *CachedStockRepository) Invalidate(ctx context.Context, outletID int64) error {
	if outletID == 0 {
		return r.cache.DeletePattern(ctx, BuildKey(PrefixStock, "outlet", "*"))
	}
	err := r.cache.Delete(ctx, OutletStockKey(outletID))
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		return err
	}
	return nil
}
