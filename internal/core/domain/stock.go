// internal/core/domain/stock.go
package domain

import "github.com/shopspring/decimal"

// Stock is the outlet-specific pricing and quantity entry for a catalog item.
// An item has at most one stock record per outlet; a missing record is a
// normal state, not an error.
//
// Prices are nullable: an absent stock_price must fall back to retail_price,
// while an explicit zero is a real price.
type Stock struct {
	ID          int64               `json:"id"`
	ItemID      int64               `json:"item_id"`
	OutletID    int64               `json:"outlet_id"`
	BuyPrice    decimal.NullDecimal `json:"buy_price"`
	StockPrice  decimal.NullDecimal `json:"stock_price"`
	RetailPrice decimal.NullDecimal `json:"retail_price"`
	Quantity    decimal.Decimal     `json:"quantity"`

	// Descriptive columns returned by the stock view listing only.
	Name            string    `json:"name,omitempty"`
	OtherName       string    `json:"other_name,omitempty"`
	TypeName        string    `json:"type_name,omitempty"`
	CategoryName    string    `json:"category_name,omitempty"`
	SubCategoryName string    `json:"sub_category_name,omitempty"`
	SKU             string    `json:"sku,omitempty"`
	Description     string    `json:"description,omitempty"`
	Rack            string    `json:"rack,omitempty"`
	OutletName      string    `json:"outlet_name,omitempty"`
	Origin          string    `json:"origin,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       Timestamp `json:"created_at"`
}

// Pricing is the default wholesale and selling price for an invoice line.
// Operators may edit both before confirming.
type Pricing struct {
	Wholesale decimal.Decimal `json:"wholesale"`
	Selling   decimal.Decimal `json:"selling"`
}
