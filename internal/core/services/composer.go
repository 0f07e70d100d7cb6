// internal/core/services/composer.go
package services

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

// InvoiceComposer is the invoice builder the pickers feed. It owns totals,
// discounts and persistence; the pickers only hand it identified,
// priced candidates.
type InvoiceComposer interface {
	SetCustomer(c domain.Customer)
	AddLine(line domain.ProductLine)
	Recall(inv domain.InvoiceRecall)
}

// DraftInvoice is an in-memory InvoiceComposer for a terminal session.
// Lines are kept in the order they were added; the same item added twice
// becomes two lines.
type DraftInvoice struct {
	mu       sync.Mutex
	customer *domain.Customer
	lines    []domain.ProductLine
	recalled *domain.InvoiceRecall
}

var _ InvoiceComposer = (*DraftInvoice)(nil)

func NewDraftInvoice() *DraftInvoice { return &DraftInvoice{} }

func (d *DraftInvoice) SetCustomer(c domain.Customer) {
	d.mu.Lock()
	d.customer = &c
	d.mu.Unlock()
}

func (d *DraftInvoice) AddLine(line domain.ProductLine) {
	d.mu.Lock()
	d.lines = append(d.lines, line)
	d.mu.Unlock()
}

// Recall starts the draft over from a prior invoice.
func (d *DraftInvoice) Recall(inv domain.InvoiceRecall) {
	d.mu.Lock()
	d.recalled = &inv
	d.lines = nil
	d.customer = nil
	d.mu.Unlock()
}

// Customer returns the chosen customer, if any.
func (d *DraftInvoice) Customer() (domain.Customer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.customer == nil {
		return domain.Customer{}, false
	}
	return *d.customer, true
}

// Recalled returns the recalled invoice, if any.
func (d *DraftInvoice) Recalled() (domain.InvoiceRecall, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.recalled == nil {
		return domain.InvoiceRecall{}, false
	}
	return *d.recalled, true
}

// Lines returns a copy of the lines.
func (d *DraftInvoice) Lines() []domain.ProductLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.ProductLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Subtotal is the sum of unit price times quantity over all lines.
func (d *DraftInvoice) Subtotal() decimal.Decimal {
	d.mu.Lock()
	defer d.mu.Unlock()

	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return total
}
