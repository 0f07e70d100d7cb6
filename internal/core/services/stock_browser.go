// internal/core/services/stock_browser.go
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// StockExporter writes stock rows to a spreadsheet.
type StockExporter interface {
	WriteStocks(w io.Writer, rows []domain.Stock) error
}

// StockBrowser is the read-only stock view: 20 rows per page searched by
// name with a 500ms debounce.
type StockBrowser struct {
	*Pager[domain.Stock]
	exporter StockExporter
	logger   *slog.Logger
}

// NewStockBrowser creates a new stock browser
func NewStockBrowser(repo ports.StockRepository, exporter StockExporter, opts PagerOptions, logger *slog.Logger) *StockBrowser {
	opts.Name = "stock"
	opts.PageSize = 20
	opts.Debounce = 500 * time.Millisecond

	return &StockBrowser{
		Pager:    NewPager[domain.Stock](repo.ListStocks, opts, logger),
		exporter: exporter,
		logger:   logger.With(slog.String("service", "stock_browser")),
	}
}

// Export writes the rows currently on screen.
func (b *StockBrowser) Export(ctx context.Context, w io.Writer) (int, error) {
	if b.exporter == nil {
		return 0, fmt.Errorf("%w: no exporter configured", domain.ErrInvalidInput)
	}

	rows := b.View().Items
	if err := b.exporter.WriteStocks(w, rows); err != nil {
		return 0, fmt.Errorf("failed to export stock page: %w", err)
	}

	b.logger.InfoContext(ctx, "stock page exported", slog.Int("rows", len(rows)))
	return len(rows), nil
}
