package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
)

// invoices builds n recall rows with distinct customers.
func invoices(n int) []domain.Invoice {
	out := make([]domain.Invoice, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = helpers.CreateTestInvoice(func(inv *domain.Invoice) {
			inv.ID = id
			inv.Customer = &domain.CustomerSummary{ID: id, FirstName: fmt.Sprintf("Customer%04d", id), LastName: "Silva"}
		})
	}
	return out
}

func BenchmarkInvoiceRecallFilter(b *testing.B) {
	rows := invoices(5000)
	ctx := context.Background()

	b.Run("MatchInvoice", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			matched := 0
			for _, inv := range rows {
				if services.MatchInvoice(inv, "customer4999") {
					matched++
				}
			}
			if matched != 1 {
				b.Fatalf("matched %d rows", matched)
			}
		}
	})

	b.Run("LocalPagerQuery", func(b *testing.B) {
		pager := services.NewLocalPager[domain.Invoice](func(context.Context) ([]domain.Invoice, error) {
			return rows, nil
		}, services.MatchInvoice, services.PagerOptions{Name: "bench"}, helpers.TestLogger())
		defer pager.Close()

		pager.Open(ctx)
		for !pager.View().Loaded {
			time.Sleep(time.Millisecond)
		}

		queries := []string{"silva", "12", "customer0042", ""}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			pager.SetQuery(queries[i%len(queries)])
		}
	})
}

func BenchmarkPricing(b *testing.B) {
	stocks := make([]domain.Stock, 500)
	for i := range stocks {
		id := int64(i + 1)
		stocks[i] = helpers.CreateTestStock(func(s *domain.Stock) {
			s.ItemID = id
			if id%3 == 0 {
				s.StockPrice = decimal.NullDecimal{}
			}
		})
	}

	b.Run("PricingFor", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = services.PricingFor(stocks[i%len(stocks)])
		}
	})

	b.Run("ParsePrice", func(b *testing.B) {
		inputs := []string{"950.00", "12abc", "", "1e3", "-4.5"}
		for i := 0; i < b.N; i++ {
			_ = domain.ParsePrice(inputs[i%len(inputs)])
		}
	})

	b.Run("ParseQuantity", func(b *testing.B) {
		inputs := []string{"3", "2.7", "x", "0", "12 boxes"}
		for i := 0; i < b.N; i++ {
			_ = domain.ParseQuantity(inputs[i%len(inputs)])
		}
	})
}
