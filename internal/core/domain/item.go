// internal/core/domain/item.go
package domain

// Item is a sellable catalog entry, independent of stock and price.
type Item struct {
	ID            int64     `json:"id"`
	SubCategoryID int64     `json:"sub_category_id"`
	Name          string    `json:"name"`
	OtherName     string    `json:"other_name,omitempty"`
	Description   string    `json:"description,omitempty"`
	Origin        string    `json:"origin,omitempty"`
	SKU           string    `json:"sku"`
	CreatedAt     Timestamp `json:"created_at"`
}
