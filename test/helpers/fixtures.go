// test/helpers/fixtures.go
package helpers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

var fixtureTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// CreateTestCustomer creates a test customer with optional overrides
func CreateTestCustomer(overrides ...func(*domain.Customer)) domain.Customer {
	c := domain.Customer{
		ID:        1,
		FirstName: "Nimal",
		LastName:  "Silva",
		Address:   "12 Galle Road, Colombo",
		Telephone: "0771234567",
		CreatedAt: domain.NewTimestamp(fixtureTime),
	}
	for _, override := range overrides {
		override(&c)
	}
	return c
}

// CreateTestCustomers creates n customers with sequential ids starting at 1
func CreateTestCustomers(n int) []domain.Customer {
	out := make([]domain.Customer, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = CreateTestCustomer(func(c *domain.Customer) {
			c.ID = id
			c.FirstName = fmt.Sprintf("Customer%02d", id)
		})
	}
	return out
}

// CreateTestItem creates a test catalog item with optional overrides
func CreateTestItem(overrides ...func(*domain.Item)) domain.Item {
	item := domain.Item{
		ID:            7,
		SubCategoryID: 2,
		Name:          "Basmati Rice 5kg",
		Description:   "Premium long grain",
		Origin:        "IN",
		SKU:           "RICE-5KG",
		CreatedAt:     domain.NewTimestamp(fixtureTime),
	}
	for _, override := range overrides {
		override(&item)
	}
	return item
}

// CreateTestStock creates a stock record for item 7 at outlet 1. All three
// prices are set; pass overrides to null or zero them.
func CreateTestStock(overrides ...func(*domain.Stock)) domain.Stock {
	s := domain.Stock{
		ID:          100,
		ItemID:      7,
		OutletID:    1,
		BuyPrice:    decimal.NewNullDecimal(decimal.NewFromInt(800)),
		StockPrice:  decimal.NewNullDecimal(decimal.NewFromInt(950)),
		RetailPrice: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		Quantity:    decimal.NewFromInt(25),
		Name:        "Basmati Rice 5kg",
		SKU:         "RICE-5KG",
		OutletName:  "Main",
		CreatedAt:   domain.NewTimestamp(fixtureTime),
	}
	for _, override := range overrides {
		override(&s)
	}
	return s
}

// CreateTestInvoice creates a paid invoice with nested customer and creator
func CreateTestInvoice(overrides ...func(*domain.Invoice)) domain.Invoice {
	inv := domain.Invoice{
		ID:            42,
		CustomerID:    1,
		CreatedUserID: 3,
		Status:        domain.InvoiceStatusPaid,
		PaidAmount:    decimal.RequireFromString("1200.50"),
		TotalAmount:   decimal.RequireFromString("1200.50"),
		CreatedAt:     domain.NewTimestamp(fixtureTime),
		UpdatedAt:     domain.NewTimestamp(fixtureTime),
		Customer:      &domain.CustomerSummary{ID: 1, FirstName: "Nimal", LastName: "Silva"},
		CreatedUser:   &domain.UserSummary{Username: "cashier1", FirstName: "Ruwan", LastName: "Dias"},
	}
	for _, override := range overrides {
		override(&inv)
	}
	return inv
}
