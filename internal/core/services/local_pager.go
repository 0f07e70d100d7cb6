// internal/core/services/local_pager.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

// MatchFunc reports whether row matches a non-empty, lower-cased query.
type MatchFunc[T any] func(row T, query string) bool

// LocalPager loads a complete result set once per session and searches and
// paginates it in memory. It backs lists whose endpoint has no server-side
// search.
type LocalPager[T any] struct {
	load     LoadFunc[T]
	match    MatchFunc[T]
	pageSize int
	notify   Notifier
	logger   *slog.Logger

	notifyMu sync.Mutex

	mu       sync.Mutex
	open     bool
	cancel   context.CancelFunc
	seq      uint64
	all      []T
	filtered []T
	query    string
	page     int
	loading  bool
	loaded   bool
	err      error
	stats    Stats
}

var _ Searcher[any] = (*LocalPager[any])(nil)

// NewLocalPager creates a closed local pager.
func NewLocalPager[T any](load LoadFunc[T], match MatchFunc[T], opts PagerOptions, logger *slog.Logger) *LocalPager[T] {
	opts = opts.withDefaults()
	return &LocalPager[T]{
		load:     load,
		match:    match,
		pageSize: opts.PageSize,
		notify:   opts.Notifier,
		logger: logger.With(
			slog.String("component", "local_pager"),
			slog.String("modal", opts.Name),
		),
		page: 1,
	}
}

// Open resets the session and loads the full set in the background.
func (p *LocalPager[T]) Open(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	p.open = true
	p.query, p.page = "", 1
	p.all, p.filtered = nil, nil
	p.loaded, p.err = false, nil
	p.loading = true

	p.seq++
	seq := p.seq
	loadCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stats.Issued++

	go p.run(loadCtx, seq)
}

// SetQuery filters the loaded rows and returns to page 1.
func (p *LocalPager[T]) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return
	}
	p.query = q
	p.page = 1
	p.refilterLocked()
}

// SetPage clamps page into [1, totalPages].
func (p *LocalPager[T]) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return
	}
	p.setPageLocked(page)
}

func (p *LocalPager[T]) NextPage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		p.setPageLocked(p.page + 1)
	}
}

func (p *LocalPager[T]) PrevPage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		p.setPageLocked(p.page - 1)
	}
}

// View returns a snapshot of the current page.
func (p *LocalPager[T]) View() PageView[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	start, end := domain.PageBounds(p.page, p.pageSize, len(p.filtered))
	items := make([]T, end-start)
	copy(items, p.filtered[start:end])

	return PageView[T]{
		Query:      p.query,
		Items:      items,
		Page:       p.page,
		PageSize:   p.pageSize,
		TotalPages: domain.TotalPages(len(p.filtered), p.pageSize),
		TotalCount: len(p.filtered),
		Loading:    p.loading,
		Loaded:     p.loaded,
		Err:        p.err,
	}
}

func (p *LocalPager[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close cancels the load. Once Close returns no completion touches state
// or calls the Notifier.
func (p *LocalPager[T]) Close() {
	p.mu.Lock()
	p.open = false
	p.seq++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.loading = false
	p.mu.Unlock()

	// wait out a callback that is already running
	p.notifyMu.Lock()
	p.notifyMu.Unlock() //nolint:staticcheck
}

func (p *LocalPager[T]) setPageLocked(page int) {
	if pages := domain.TotalPages(len(p.filtered), p.pageSize); page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	p.page = page
}

func (p *LocalPager[T]) refilterLocked() {
	q := strings.ToLower(strings.TrimSpace(p.query))
	if q == "" {
		p.filtered = p.all
		return
	}

	filtered := make([]T, 0, len(p.all))
	for _, row := range p.all {
		if p.match(row, q) {
			filtered = append(filtered, row)
		}
	}
	p.filtered = filtered
}

func (p *LocalPager[T]) run(ctx context.Context, seq uint64) {
	rows, err := p.load(ctx)

	p.mu.Lock()
	if !p.open || seq != p.seq {
		p.stats.Discarded++
		p.mu.Unlock()
		p.logger.Debug("discarded stale load", slog.Uint64("seq", seq))
		return
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.loading = false
	if err != nil {
		p.err = err
		p.stats.Failed++
		p.mu.Unlock()

		p.logger.Warn("list load failed",
			slog.Uint64("seq", seq),
			slog.String("error", err.Error()))
		p.deliver(seq, func() {
			p.notify.failed(err)
			p.notify.changed()
		})
		return
	}

	p.all = rows
	p.loaded = true
	p.err = nil
	p.stats.Applied++
	p.refilterLocked()
	p.setPageLocked(p.page)
	p.mu.Unlock()

	p.logger.Debug("list loaded", slog.Int("rows", len(rows)))
	p.deliver(seq, p.notify.changed)
}

func (p *LocalPager[T]) deliver(seq uint64, fn func()) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	live := p.open && p.seq == seq
	p.mu.Unlock()

	if live {
		fn()
	}
}
