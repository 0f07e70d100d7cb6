// internal/adapters/rest/catalog.go
package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// CatalogRepository implements the item, stock and invoice ports against
// the /store and /pos endpoints.
type CatalogRepository struct {
	client *Client
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(client *Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

var (
	_ ports.ItemRepository    = (*CatalogRepository)(nil)
	_ ports.StockRepository   = (*CatalogRepository)(nil)
	_ ports.InvoiceRepository = (*CatalogRepository)(nil)
)

// SearchItems calls GET /store/items?search&page&limit.
func (r *CatalogRepository) SearchItems(ctx context.Context, params ports.ListParams) (domain.Page[domain.Item], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(params.Page, 1)))
	query.Set("limit", strconv.Itoa(params.PageSize))
	if params.Query != "" {
		query.Set("search", params.Query)
	}

	page, err := fetchPage[domain.Item](ctx, r.client, "/store/items", query, params)
	if err != nil {
		return domain.Page[domain.Item]{}, fmt.Errorf("failed to search items: %w", err)
	}
	return page, nil
}

// ListStocks calls GET /store/stocks?take&skip&name.
func (r *CatalogRepository) ListStocks(ctx context.Context, params ports.ListParams) (domain.Page[domain.Stock], error) {
	query := url.Values{}
	query.Set("take", strconv.Itoa(params.PageSize))
	query.Set("skip", strconv.Itoa(params.Offset()))
	if params.Query != "" {
		query.Set("name", params.Query)
	}

	page, err := fetchPage[domain.Stock](ctx, r.client, "/store/stocks", query, params)
	if err != nil {
		return domain.Page[domain.Stock]{}, fmt.Errorf("failed to list stocks: %w", err)
	}
	return page, nil
}

// ListByOutlet calls GET /store/stocks/outlet/{id}.
func (r *CatalogRepository) ListByOutlet(ctx context.Context, outletID int64) ([]domain.Stock, error) {
	path := "/store/stocks/outlet/" + strconv.FormatInt(outletID, 10)
	stocks, err := fetchAll[domain.Stock](ctx, r.client, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks of outlet %d: %w", outletID, err)
	}
	return stocks, nil
}

// ListInvoices calls GET /pos/invoices.
func (r *CatalogRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := fetchAll[domain.Invoice](ctx, r.client, "/pos/invoices")
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
