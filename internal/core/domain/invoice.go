// internal/core/domain/invoice.go
package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the backend status string of an invoice
type InvoiceStatus string

// Status constants seen on /pos/invoices
const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// CustomerSummary is the customer block nested in an invoice
type CustomerSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserSummary is the created-by block nested in an invoice
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Invoice is a historical invoice as listed by GET /pos/invoices.
// The recall workflow treats it as read-only.
type Invoice struct {
	ID                int64            `json:"id"`
	PreviousInvoiceID *int64           `json:"previous_invoice_id"`
	CustomerID        int64            `json:"customer_id"`
	CreatedUserID     int64            `json:"created_user_id"`
	Status            InvoiceStatus    `json:"status"`
	PaidAmount        decimal.Decimal  `json:"paid_amount"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	DiscountType      string           `json:"discount_type,omitempty"`
	DiscountAmount    decimal.Decimal  `json:"discount_amount"`
	NextBoxNumber     int              `json:"next_box_number"`
	CreatedAt         Timestamp        `json:"created_at"`
	UpdatedAt         Timestamp        `json:"updated_at"`
	Customer          *CustomerSummary `json:"customer,omitempty"`
	CreatedUser       *UserSummary     `json:"created_user,omitempty"`
}

// Number renders the operator-facing invoice number.
func (i Invoice) Number() string {
	return "INV" + strconv.FormatInt(i.ID, 10)
}

// CustomerName returns the nested customer's name or "".
func (i Invoice) CustomerName() string {
	if i.Customer == nil {
		return ""
	}
	return joinName(i.Customer.FirstName, i.Customer.LastName)
}

// CreatorName returns the nested creator's name or "".
func (i Invoice) CreatorName() string {
	if i.CreatedUser == nil {
		return ""
	}
	return joinName(i.CreatedUser.FirstName, i.CreatedUser.LastName)
}

// InvoiceRecall is the identity and summary handed to the invoice builder
// when an operator recalls a prior invoice.
type InvoiceRecall struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	Status       InvoiceStatus   `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	CreatedAt    Timestamp       `json:"created_at"`
}

// Summary extracts the recall view of the invoice.
func (i Invoice) Summary() InvoiceRecall {
	return InvoiceRecall{
		ID:           i.ID,
		Number:       i.Number(),
		CustomerID:   i.CustomerID,
		CustomerName: i.CustomerName(),
		CreatedBy:    i.CreatorName(),
		Status:       i.Status,
		TotalAmount:  i.TotalAmount,
		PaidAmount:   i.PaidAmount,
		CreatedAt:    i.CreatedAt,
	}
}
