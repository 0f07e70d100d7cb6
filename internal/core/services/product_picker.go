// internal/core/services/product_picker.go
package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// NoticeNoStock is shown when the outlet has no stock record for the item.
const NoticeNoStock = "No stock available for this item"

// ProductView is the read model of the product modal.
type ProductView struct {
	PageView[domain.Item]
	Selected     *domain.Item
	Quantity     string
	Wholesale    string
	Selling      string
	PricePending bool
	Notice       string
}

// ProductPicker searches items and prefills pricing for the selected one.
//
// Price resolution runs in the background with its own sequence; selecting
// another item invalidates the pending resolution and clears the price
// inputs at once. Confirm never waits for pricing.
type ProductPicker struct {
	modal    *Modal[domain.Item]
	pager    *Pager[domain.Item]
	prices   *PriceResolver
	outletID int64
	notify   Notifier
	onLine   func(domain.ProductLine)
	onClose  func()
	logger   *slog.Logger

	notifyMu sync.Mutex

	mu            sync.Mutex
	ctx           context.Context
	priceSeq      uint64
	priceCancel   context.CancelFunc
	pricePending  bool
	notice        string
	quantity      string
	wholesale     string
	selling       string
	wholesaleEdit bool
	sellingEdit   bool
}

// NewProductPicker wires a product search modal for one outlet:
// 10 rows per page, 400ms debounce.
func NewProductPicker(items ports.ItemRepository, prices *PriceResolver, outletID int64,
	opts PickerOptions[domain.ProductLine], logger *slog.Logger) *ProductPicker {
	p := &ProductPicker{
		prices:   prices,
		outletID: outletID,
		notify:   opts.Notifier,
		onLine:   opts.OnSelect,
		onClose:  opts.OnClose,
		logger: logger.With(
			slog.String("component", "product_picker"),
			slog.Int64("outlet_id", outletID),
		),
		quantity: strconv.Itoa(domain.DefaultQuantity),
	}

	p.pager = NewPager[domain.Item](items.SearchItems, PagerOptions{
		Name:     "product",
		PageSize: 10,
		Debounce: 400 * time.Millisecond,
		Clock:    opts.Clock,
		Notifier: opts.Notifier,
	}, logger)

	p.modal = NewModal[domain.Item](p.pager, ModalOptions[domain.Item]{
		Name:     "product",
		Key:      itemKey,
		OnSelect: p.emit,
		OnClose:  p.closed,
	}, logger)

	return p
}

func itemKey(it domain.Item) string { return strconv.FormatInt(it.ID, 10) }

// Open resets the inputs and starts a new search session.
func (p *ProductPicker) Open(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.resetPricingLocked()
	p.quantity = strconv.Itoa(domain.DefaultQuantity)
	p.mu.Unlock()

	p.modal.Open(ctx)
}

// Select highlights item and starts resolving its price. Selecting the item
// that is already selected changes nothing.
func (p *ProductPicker) Select(item domain.Item) error {
	if cur, ok := p.modal.Selected(); ok && itemKey(cur) == itemKey(item) {
		return nil
	}
	if err := p.modal.Select(item); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetPricingLocked()
	p.pricePending = true
	seq := p.priceSeq

	base := p.ctx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	p.priceCancel = cancel

	go p.resolve(ctx, seq, item.ID)
	return nil
}

// SelectIndex selects the i-th row of the visible page.
func (p *ProductPicker) SelectIndex(i int) (domain.Item, error) {
	items := p.modal.View().Items
	if i < 0 || i >= len(items) {
		return domain.Item{}, domain.ErrNoSelection
	}
	return items[i], p.Select(items[i])
}

// SetQuantity, SetWholesale and SetSelling hold the operator's free text.
// Edited prices are not overwritten by a later price resolution.
func (p *ProductPicker) SetQuantity(text string) {
	p.mu.Lock()
	p.quantity = text
	p.mu.Unlock()
}

func (p *ProductPicker) SetWholesale(text string) {
	p.mu.Lock()
	p.wholesale = text
	p.wholesaleEdit = true
	p.mu.Unlock()
}

func (p *ProductPicker) SetSelling(text string) {
	p.mu.Lock()
	p.selling = text
	p.sellingEdit = true
	p.mu.Unlock()
}

// View returns the page and the line inputs.
func (p *ProductPicker) View() ProductView {
	v := ProductView{PageView: p.modal.View()}
	if sel, ok := p.modal.Selected(); ok {
		v.Selected = &sel
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	v.Quantity = p.quantity
	v.Wholesale = p.wholesale
	v.Selling = p.selling
	v.PricePending = p.pricePending
	v.Notice = p.notice
	return v
}

// Confirm emits the selected item as a line and closes the modal.
func (p *ProductPicker) Confirm() error { return p.modal.Confirm() }

// Cancel closes without emitting a line.
func (p *ProductPicker) Cancel()  { p.modal.Cancel() }
func (p *ProductPicker) Dismiss() { p.modal.Dismiss() }

func (p *ProductPicker) State() ModalState { return p.modal.State() }
func (p *ProductPicker) SetQuery(q string) { p.modal.SetQuery(q) }
func (p *ProductPicker) SetPage(page int)  { p.modal.SetPage(page) }
func (p *ProductPicker) NextPage()         { p.modal.NextPage() }
func (p *ProductPicker) PrevPage()         { p.modal.PrevPage() }
func (p *ProductPicker) Stats() Stats      { return p.pager.Stats() }

func (p *ProductPicker) resolve(ctx context.Context, seq uint64, itemID int64) {
	pricing, err := p.prices.Resolve(ctx, itemID, p.outletID)

	p.mu.Lock()
	if seq != p.priceSeq {
		p.mu.Unlock()
		p.logger.Debug("discarded stale price",
			slog.Uint64("seq", seq),
			slog.Int64("item_id", itemID))
		return
	}

	p.pricePending = false
	if p.priceCancel != nil {
		p.priceCancel()
		p.priceCancel = nil
	}

	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		p.wholesale, p.selling = "", ""
		p.notice = NoticeNoStock
	case err != nil:
		p.notice = "Could not load price: " + err.Error()
	default:
		if !p.wholesaleEdit {
			p.wholesale = pricing.Wholesale.StringFixed(2)
		}
		if !p.sellingEdit {
			p.selling = pricing.Selling.StringFixed(2)
		}
	}
	p.mu.Unlock()

	failed := err != nil && !errors.Is(err, domain.ErrStockNotFound)
	if failed {
		p.logger.Warn("price resolution failed",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
	}

	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	live := seq == p.priceSeq
	p.mu.Unlock()
	if !live {
		return
	}
	if failed {
		p.notify.failed(err)
	}
	p.notify.changed()
}

// resetPricingLocked invalidates any pending resolution and clears the
// price inputs and notice.
func (p *ProductPicker) resetPricingLocked() {
	p.priceSeq++
	if p.priceCancel != nil {
		p.priceCancel()
		p.priceCancel = nil
	}
	p.pricePending = false
	p.notice = ""
	p.wholesale, p.selling = "", ""
	p.wholesaleEdit, p.sellingEdit = false, false
}

func (p *ProductPicker) emit(item domain.Item) {
	p.mu.Lock()
	line := domain.ProductLine{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   domain.ParsePrice(p.selling),
		Qty:         domain.ParseQuantity(p.quantity),
	}
	p.mu.Unlock()

	p.logger.Info("product line confirmed",
		slog.Int64("item_id", line.ID),
		slog.Int("qty", line.Qty),
		slog.String("unit_price", line.UnitPrice.String()))

	if p.onLine != nil {
		p.onLine(line)
	}
}

func (p *ProductPicker) closed() {
	p.mu.Lock()
	p.resetPricingLocked()
	p.mu.Unlock()

	// wait out a price notification that is already running
	p.notifyMu.Lock()
	p.notifyMu.Unlock() //nolint:staticcheck

	if p.onClose != nil {
		p.onClose()
	}
}
