// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

// ListParams holds the parameters of a paged, searched list call.
// Page is 1-based.
type ListParams struct {
	Query    string
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the page.
func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// CustomerRepository is the customer collaborator.
// Create and Update exist for the host; the pickers only list.
type CustomerRepository interface {
	ListCustomers(ctx context.Context, params ListParams) (domain.Page[domain.Customer], error)
	CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error)
}

// ItemRepository searches the catalog by name, SKU or description.
type ItemRepository interface {
	SearchItems(ctx context.Context, params ListParams) (domain.Page[domain.Item], error)
}

// StockRepository exposes outlet stock.
type StockRepository interface {
	// ListStocks returns one page of the stock view, searched by name.
	ListStocks(ctx context.Context, params ListParams) (domain.Page[domain.Stock], error)
	// ListByOutlet returns every stock record of one outlet.
	ListByOutlet(ctx context.Context, outletID int64) ([]domain.Stock, error)
}

// InvoiceRepository lists historical invoices. The backend has no server-side
// search, so the whole set is returned.
type InvoiceRepository interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
}

// StockRefresher schedules a background reload of an outlet's stock cache.
type StockRefresher interface {
	EnqueueRefresh(ctx context.Context, outletID int64) error
}
