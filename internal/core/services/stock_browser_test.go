// internal/core/services/stock_browser_test.go
package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
	"github.com/NavodaLakshika/erp-frontend/test/mocks"
)

type lineExporter struct {
	err error
}

func (e lineExporter) WriteStocks(w io.Writer, rows []domain.Stock) error {
	if e.err != nil {
		return e.err
	}
	for _, r := range rows {
		fmt.Fprintln(w, r.Name)
	}
	return nil
}

func stockRows(n int) []domain.Stock {
	rows := make([]domain.Stock, n)
	for i := range rows {
		idx := i
		rows[i] = helpers.CreateTestStock(func(s *domain.Stock) {
			s.ID = int64(idx + 1)
			s.Name = fmt.Sprintf("item-%02d", idx+1)
		})
	}
	return rows
}

func TestStockBrowser_PagesByTwentyWithLongerDebounce(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStockRepository(ctrl)
	clock := helpers.NewFakeClock()

	repo.EXPECT().ListStocks(gomock.Any(), ports.ListParams{Page: 1, PageSize: 20}).
		Return(domain.Page[domain.Stock]{Items: stockRows(20), Total: 45}, nil)
	repo.EXPECT().ListStocks(gomock.Any(), ports.ListParams{Query: "rice", Page: 1, PageSize: 20}).
		Return(domain.Page[domain.Stock]{Items: stockRows(3), Total: 3}, nil)

	browser := services.NewStockBrowser(repo, lineExporter{}, services.PagerOptions{Clock: clock}, helpers.TestLogger())
	defer browser.Close()

	browser.Open(context.Background())
	v := waitLoaded(t, browser.View)
	assert.Equal(t, 20, v.PageSize)
	assert.Equal(t, 3, v.TotalPages)

	browser.SetQuery("rice")
	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, 1, clock.Pending(), "stock search waits longer than the pickers")

	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool {
		v := browser.View()
		return !v.Loading && v.TotalCount == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStockBrowser_ExportVisiblePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStockRepository(ctrl)

	repo.EXPECT().ListStocks(gomock.Any(), gomock.Any()).
		Return(domain.Page[domain.Stock]{Items: stockRows(2), Total: 2}, nil)

	browser := services.NewStockBrowser(repo, lineExporter{}, services.PagerOptions{}, helpers.TestLogger())
	defer browser.Close()

	browser.Open(context.Background())
	waitLoaded(t, browser.View)

	var buf bytes.Buffer
	n, err := browser.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "item-01\nitem-02\n", buf.String())
}

func TestStockBrowser_ExportErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStockRepository(ctrl)

	noExporter := services.NewStockBrowser(repo, nil, services.PagerOptions{}, helpers.TestLogger())
	_, err := noExporter.Export(context.Background(), io.Discard)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("disk full")
	failing := services.NewStockBrowser(repo, lineExporter{err: boom}, services.PagerOptions{}, helpers.TestLogger())
	_, err = failing.Export(context.Background(), io.Discard)
	assert.ErrorIs(t, err, boom)
}

func TestDraftInvoice(t *testing.T) {
	draft := services.NewDraftInvoice()

	_, ok := draft.Customer()
	assert.False(t, ok)

	draft.SetCustomer(helpers.CreateTestCustomer())
	draft.AddLine(domain.ProductLine{ID: 7, UnitPrice: decimal.RequireFromString("950.00"), Qty: 2})
	draft.AddLine(domain.ProductLine{ID: 7, UnitPrice: decimal.RequireFromString("12.50"), Qty: 1})

	c, ok := draft.Customer()
	require.True(t, ok)
	assert.Equal(t, "Nimal Silva", c.FullName())
	assert.Len(t, draft.Lines(), 2)
	assert.Equal(t, "1912.50", draft.Subtotal().StringFixed(2))

	draft.Recall(helpers.CreateTestInvoice().Summary())
	r, ok := draft.Recalled()
	require.True(t, ok)
	assert.Equal(t, "INV42", r.Number)
	assert.Empty(t, draft.Lines())
	_, ok = draft.Customer()
	assert.False(t, ok)
}
