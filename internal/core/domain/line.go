// internal/core/domain/line.go
package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductLine is the line candidate the product picker hands to the
// invoice builder.
type ProductLine struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Qty         int             `json:"qty"`
}

// DefaultQuantity is used whenever the quantity input does not hold a
// positive integer.
const DefaultQuantity = 1

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseQuantity reads the leading integer of free-text input.
// Empty, non-numeric, zero or negative input yields DefaultQuantity.
func ParseQuantity(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return DefaultQuantity
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return DefaultQuantity
	}
	return n
}

// ParsePrice reads the leading decimal number of free-text input.
// Anything unparsable yields zero.
func ParsePrice(s string) decimal.Decimal {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}
