// internal/core/services/modal.go
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
)

// ModalState is the lifecycle state of a selection modal.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalSearching
	ModalHasSelection
)

func (s ModalState) String() string {
	switch s {
	case ModalSearching:
		return "searching"
	case ModalHasSelection:
		return "has_selection"
	default:
		return "closed"
	}
}

// ModalOptions holds the key function and output hooks of a modal.
type ModalOptions[T any] struct {
	Name string
	// Key identifies a row for highlighting and idempotent re-selection.
	Key func(T) string
	// OnSelect receives the confirmed row before OnClose runs.
	OnSelect func(T)
	OnClose  func()
}

// Modal is the search, select, confirm workflow shared by every picker.
// It owns its Searcher and selection exclusively.
type Modal[T any] struct {
	name     string
	search   Searcher[T]
	key      func(T) string
	onSelect func(T)
	onClose  func()
	logger   *slog.Logger

	mu       sync.Mutex
	state    ModalState
	selected *T
}

// NewModal creates a closed modal over search.
func NewModal[T any](search Searcher[T], opts ModalOptions[T], logger *slog.Logger) *Modal[T] {
	if opts.Name == "" {
		opts.Name = "modal"
	}
	return &Modal[T]{
		name:     opts.Name,
		search:   search,
		key:      opts.Key,
		onSelect: opts.OnSelect,
		onClose:  opts.OnClose,
		logger: logger.With(
			slog.String("component", "modal"),
			slog.String("modal", opts.Name),
		),
	}
}

// Open clears any previous selection and starts a new search session.
// Fetches issued by the session carry the modal name in ctx.
func (m *Modal[T]) Open(ctx context.Context) {
	ctx = logger.WithModal(ctx, m.name)

	m.mu.Lock()
	m.state = ModalSearching
	m.selected = nil
	m.mu.Unlock()

	m.search.Open(ctx)
	m.logger.DebugContext(ctx, "modal opened")
}

// State returns the lifecycle state.
func (m *Modal[T]) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsOpen reports whether the modal is searching or holds a selection.
func (m *Modal[T]) IsOpen() bool {
	return m.State() != ModalClosed
}

// Select replaces the selection with a copy of row. There is no toggle:
// selecting the selected row again leaves it selected.
func (m *Modal[T]) Select(row T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == ModalClosed {
		return domain.ErrModalNotOpen
	}
	sel := row
	m.selected = &sel
	m.state = ModalHasSelection
	return nil
}

// SelectIndex selects the i-th row of the visible page.
func (m *Modal[T]) SelectIndex(i int) (T, error) {
	var zero T

	items := m.search.View().Items
	if i < 0 || i >= len(items) {
		return zero, domain.ErrNoSelection
	}
	if err := m.Select(items[i]); err != nil {
		return zero, err
	}
	return items[i], nil
}

// Selected returns the current selection.
func (m *Modal[T]) Selected() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		var zero T
		return zero, false
	}
	return *m.selected, true
}

// IsSelected reports whether row is the highlighted one.
func (m *Modal[T]) IsSelected(row T) bool {
	sel, ok := m.Selected()
	return ok && m.key != nil && m.key(sel) == m.key(row)
}

// Confirm emits the selection through OnSelect, then OnClose.
func (m *Modal[T]) Confirm() error {
	m.mu.Lock()
	if m.state == ModalClosed {
		m.mu.Unlock()
		return domain.ErrModalNotOpen
	}
	if m.selected == nil {
		m.mu.Unlock()
		return domain.ErrNoSelection
	}
	sel := *m.selected
	m.state = ModalClosed
	m.selected = nil
	m.mu.Unlock()

	m.search.Close()
	m.logger.Debug("selection confirmed")

	if m.onSelect != nil {
		m.onSelect(sel)
	}
	if m.onClose != nil {
		m.onClose()
	}
	return nil
}

// Cancel closes the modal without emitting a selection. Closing an already
// closed modal is a no-op.
func (m *Modal[T]) Cancel() {
	m.mu.Lock()
	if m.state == ModalClosed {
		m.mu.Unlock()
		return
	}
	m.state = ModalClosed
	m.selected = nil
	m.mu.Unlock()

	m.search.Close()
	m.logger.Debug("modal cancelled")

	if m.onClose != nil {
		m.onClose()
	}
}

// Dismiss is a backdrop click; it behaves like Cancel.
func (m *Modal[T]) Dismiss() { m.Cancel() }

func (m *Modal[T]) SetQuery(q string) { m.search.SetQuery(q) }
func (m *Modal[T]) SetPage(page int)  { m.search.SetPage(page) }
func (m *Modal[T]) NextPage()         { m.search.NextPage() }
func (m *Modal[T]) PrevPage()         { m.search.PrevPage() }
func (m *Modal[T]) View() PageView[T] { return m.search.View() }
