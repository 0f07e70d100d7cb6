// internal/core/services/customer_picker.go
package services

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// PickerOptions is shared by the picker constructors.
type PickerOptions[T any] struct {
	Clock Clock
	Notifier
	OnSelect func(T)
	OnClose  func()
}

// CustomerPicker searches customers by name, address or phone on the server.
type CustomerPicker struct {
	*Modal[domain.Customer]
	pager *Pager[domain.Customer]
}

// NewCustomerPicker wires a customer search modal: 10 rows per page, 400ms debounce.
func NewCustomerPicker(repo ports.CustomerRepository, opts PickerOptions[domain.Customer], logger *slog.Logger) *CustomerPicker {
	pager := NewPager[domain.Customer](repo.ListCustomers, PagerOptions{
		Name:     "customer",
		PageSize: 10,
		Debounce: 400 * time.Millisecond,
		Clock:    opts.Clock,
		Notifier: opts.Notifier,
	}, logger)

	modal := NewModal[domain.Customer](pager, ModalOptions[domain.Customer]{
		Name:     "customer",
		Key:      func(c domain.Customer) string { return strconv.FormatInt(c.ID, 10) },
		OnSelect: opts.OnSelect,
		OnClose:  opts.OnClose,
	}, logger)

	return &CustomerPicker{Modal: modal, pager: pager}
}

// Stats exposes the pager counters.
func (p *CustomerPicker) Stats() Stats { return p.pager.Stats() }
