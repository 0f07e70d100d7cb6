// internal/core/services/pager.go
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

const (
	DefaultPageSize = 10
	DefaultDebounce = 400 * time.Millisecond
)

// PagerOptions configures a Pager or LocalPager.
type PagerOptions struct {
	// Name identifies the owning modal in logs.
	Name     string
	PageSize int
	// Debounce delays the fetch after a query change. LocalPager ignores it.
	Debounce time.Duration
	Clock    Clock
	Notifier
}

func (o PagerOptions) withDefaults() PagerOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	if o.Name == "" {
		o.Name = "search"
	}
	return o
}

// Pager drives a server-side searched and paginated list.
//
// Every fetch is stamped with a sequence number and only the response to the
// latest issued fetch is applied. A query change resets the page to 1 in the
// same update and schedules a single debounced fetch; a page change fetches
// immediately. Host-initiated calls never invoke the Notifier; completions do.
type Pager[T any] struct {
	fetch    FetchFunc[T]
	pageSize int
	debounce time.Duration
	clock    Clock
	notify   Notifier
	logger   *slog.Logger

	// notifyMu serializes callbacks so Close can wait out one in progress.
	notifyMu sync.Mutex

	mu      sync.Mutex
	open    bool
	baseCtx context.Context
	cancel  context.CancelFunc
	timer   Timer
	seq     uint64
	query   string
	page    int
	items   []T
	total   int
	loading bool
	loaded  bool
	err     error
	stats   Stats
}

var _ Searcher[any] = (*Pager[any])(nil)

// NewPager creates a closed pager. Call Open to start a session.
func NewPager[T any](fetch FetchFunc[T], opts PagerOptions, logger *slog.Logger) *Pager[T] {
	opts = opts.withDefaults()
	return &Pager[T]{
		fetch:    fetch,
		pageSize: opts.PageSize,
		debounce: opts.Debounce,
		clock:    opts.Clock,
		notify:   opts.Notifier,
		logger: logger.With(
			slog.String("component", "pager"),
			slog.String("modal", opts.Name),
		),
		page: 1,
	}
}

// Open starts a fresh session with an empty query on page 1 and fetches
// immediately. Reopening discards everything from the previous session.
func (p *Pager[T]) Open(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.baseCtx = ctx
	p.open = true
	p.query, p.page = "", 1
	p.items, p.total = nil, 0
	p.loaded, p.err = false, nil
	p.issueLocked()
}

// SetQuery changes the search text. The page is 1 as soon as this returns;
// the fetch fires once the debounce window passes without another change.
func (p *Pager[T]) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || q == p.query {
		return
	}

	p.query = q
	p.page = 1
	p.seq++
	p.stopLocked()
	p.loading = true

	token := p.seq
	p.timer = p.clock.AfterFunc(p.debounce, func() { p.fire(token) })
}

// SetPage clamps page into [1, totalPages] and fetches it immediately,
// dropping any pending debounced fetch.
func (p *Pager[T]) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return
	}
	p.setPageLocked(page)
}

// NextPage moves forward unless already on the last page.
func (p *Pager[T]) NextPage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || p.page >= domain.TotalPages(p.total, p.pageSize) {
		return
	}
	p.setPageLocked(p.page + 1)
}

// PrevPage moves back unless already on page 1.
func (p *Pager[T]) PrevPage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || p.page <= 1 {
		return
	}
	p.setPageLocked(p.page - 1)
}

// Refresh refetches the current page.
func (p *Pager[T]) Refresh() {
	p.SetPage(p.View().Page)
}

// View returns a snapshot of the read model.
func (p *Pager[T]) View() PageView[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]T, len(p.items))
	copy(items, p.items)

	return PageView[T]{
		Query:      p.query,
		Items:      items,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: domain.TotalPages(p.total, p.pageSize),
		TotalCount: p.total,
		Loading:    p.loading,
		Loaded:     p.loaded,
		Err:        p.err,
	}
}

// Stats returns fetch counters.
func (p *Pager[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close stops the debounce timer and cancels the in-flight fetch. Once Close
// returns no completion touches state or calls the Notifier.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	p.open = false
	p.seq++
	p.stopLocked()
	p.loading = false
	p.mu.Unlock()

	// wait out a callback that is already running
	p.notifyMu.Lock()
	p.notifyMu.Unlock() //nolint:staticcheck
}

func (p *Pager[T]) setPageLocked(page int) {
	if pages := domain.TotalPages(p.total, p.pageSize); page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	p.page = page
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.issueLocked()
}

func (p *Pager[T]) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Pager[T]) fire(token uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || p.seq != token {
		return
	}
	p.timer = nil
	p.issueLocked()
}

func (p *Pager[T]) issueLocked() {
	if p.cancel != nil {
		p.cancel()
	}

	p.seq++
	seq := p.seq
	ctx, cancel := context.WithCancel(p.baseCtx)
	p.cancel = cancel
	p.loading = true
	p.stats.Issued++

	params := ports.ListParams{Query: p.query, Page: p.page, PageSize: p.pageSize}
	go p.run(ctx, seq, params)
}

func (p *Pager[T]) run(ctx context.Context, seq uint64, params ports.ListParams) {
	page, err := p.fetch(ctx, params)
	p.complete(seq, params, page, err)
}

func (p *Pager[T]) complete(seq uint64, params ports.ListParams, result domain.Page[T], err error) {
	p.mu.Lock()

	if !p.open || seq != p.seq {
		p.stats.Discarded++
		p.mu.Unlock()
		p.logger.Debug("discarded stale response",
			slog.Uint64("seq", seq),
			slog.String("query", params.Query),
			slog.Int("page", params.Page))
		return
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if err != nil {
		p.loading = false
		p.err = err
		p.stats.Failed++
		p.mu.Unlock()

		p.logger.Warn("search fetch failed",
			slog.Uint64("seq", seq),
			slog.String("query", params.Query),
			slog.Int("page", params.Page),
			slog.String("error", err.Error()))
		p.deliver(seq, func() {
			p.notify.failed(err)
			p.notify.changed()
		})
		return
	}

	// The result set shrank under us: fetch the last valid page instead of
	// presenting an empty one.
	if pages := domain.TotalPages(result.Total, p.pageSize); params.Page > pages {
		p.total = result.Total
		p.page = pages
		p.logger.Debug("page out of range, refetching",
			slog.Int("requested", params.Page),
			slog.Int("total_pages", pages))
		p.issueLocked()
		p.mu.Unlock()
		return
	}

	p.items = result.Items
	p.total = result.Total
	p.loading = false
	p.loaded = true
	p.err = nil
	p.stats.Applied++
	p.mu.Unlock()

	p.deliver(seq, p.notify.changed)
}

func (p *Pager[T]) deliver(seq uint64, fn func()) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	live := p.open && p.seq == seq
	p.mu.Unlock()

	if live {
		fn()
	}
}
