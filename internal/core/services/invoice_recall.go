// internal/core/services/invoice_recall.go
package services

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// InvoiceRecallPicker lists every invoice once and filters it locally.
// Confirming emits the invoice's recall summary.
type InvoiceRecallPicker struct {
	*Modal[domain.Invoice]
	pager *LocalPager[domain.Invoice]
}

// NewInvoiceRecallPicker wires the recall modal with 10 rows per page.
func NewInvoiceRecallPicker(repo ports.InvoiceRepository, opts PickerOptions[domain.InvoiceRecall], logger *slog.Logger) *InvoiceRecallPicker {
	pager := NewLocalPager[domain.Invoice](repo.ListInvoices, MatchInvoice, PagerOptions{
		Name:     "invoice_recall",
		PageSize: 10,
		Notifier: opts.Notifier,
	}, logger)

	var onSelect func(domain.Invoice)
	if opts.OnSelect != nil {
		onSelect = func(inv domain.Invoice) { opts.OnSelect(inv.Summary()) }
	}

	modal := NewModal[domain.Invoice](pager, ModalOptions[domain.Invoice]{
		Name:     "invoice_recall",
		Key:      func(inv domain.Invoice) string { return strconv.FormatInt(inv.ID, 10) },
		OnSelect: onSelect,
		OnClose:  opts.OnClose,
	}, logger)

	return &InvoiceRecallPicker{Modal: modal, pager: pager}
}

func (p *InvoiceRecallPicker) Stats() Stats { return p.pager.Stats() }

// MatchInvoice is a case-insensitive substring match over the invoice id,
// its creation date string and the customer and creator names.
func MatchInvoice(inv domain.Invoice, query string) bool {
	query = strings.ToLower(query)

	fields := []string{
		strconv.FormatInt(inv.ID, 10),
		inv.CreatedAt.String(),
		inv.CustomerName(),
		inv.CreatorName(),
	}

	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
