// internal/core/services/price.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/shopspring/decimal"
)

// PriceResolver derives default invoice pricing from outlet stock.
type PriceResolver struct {
	stocks ports.StockRepository
	logger *slog.Logger
}

// NewPriceResolver creates a new price resolver
func NewPriceResolver(stocks ports.StockRepository, logger *slog.Logger) *PriceResolver {
	return &PriceResolver{
		stocks: stocks,
		logger: logger.With(slog.String("service", "price")),
	}
}

// Resolve fetches the outlet's stock and prices itemID from its record.
//
// Wholesale is buy_price, selling is stock_price falling back to
// retail_price. Only an absent price falls through; an explicit zero is kept.
// ErrStockNotFound means the outlet has no record for the item.
func (r *PriceResolver) Resolve(ctx context.Context, itemID, outletID int64) (domain.Pricing, error) {
	stocks, err := r.stocks.ListByOutlet(ctx, outletID)
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("failed to list stock for outlet %d: %w", outletID, err)
	}

	for i := range stocks {
		if stocks[i].ItemID != itemID {
			continue
		}
		pricing := PricingFor(stocks[i])
		r.logger.DebugContext(ctx, "price resolved",
			slog.Int64("item_id", itemID),
			slog.Int64("outlet_id", outletID),
			slog.String("wholesale", pricing.Wholesale.String()),
			slog.String("selling", pricing.Selling.String()))
		return pricing, nil
	}

	r.logger.InfoContext(ctx, "no stock record for item",
		slog.Int64("item_id", itemID),
		slog.Int64("outlet_id", outletID),
		slog.Int("scanned", len(stocks)))
	return domain.Pricing{}, domain.ErrStockNotFound
}

// PricingFor applies the price fallback rules to one stock record.
func PricingFor(s domain.Stock) domain.Pricing {
	return domain.Pricing{
		Wholesale: firstPrice(s.BuyPrice),
		Selling:   firstPrice(s.StockPrice, s.RetailPrice),
	}
}

func firstPrice(candidates ...decimal.NullDecimal) decimal.Decimal {
	for _, c := range candidates {
		if c.Valid {
			return c.Decimal
		}
	}
	return decimal.Zero
}
