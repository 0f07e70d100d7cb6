// internal/core/services/types.go
package services

import (
	"context"
	"time"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// FetchFunc is the only way a Pager reaches the backend.
type FetchFunc[T any] func(ctx context.Context, params ports.ListParams) (domain.Page[T], error)

// LoadFunc fetches a complete, unpaged result set.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// PageView is the read model a modal renders.
type PageView[T any] struct {
	Query      string `json:"query"`
	Items      []T    `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	TotalCount int    `json:"total_count"`
	// Loading is true while a fetch is scheduled or in flight.
	Loading bool `json:"loading"`
	// Loaded is true once any response has been applied. It separates
	// "no results" from "not loaded yet".
	Loaded bool  `json:"loaded"`
	Err    error `json:"-"`
}

// Empty reports a loaded, zero-row result.
func (v PageView[T]) Empty() bool {
	return v.Loaded && !v.Loading && len(v.Items) == 0
}

// Stats counts fetch outcomes of a pager.
type Stats struct {
	Issued    uint64 `json:"issued"`
	Applied   uint64 `json:"applied"`
	Discarded uint64 `json:"discarded"`
	Failed    uint64 `json:"failed"`
}

// Searcher is the paging controller behind a selection modal.
type Searcher[T any] interface {
	Open(ctx context.Context)
	SetQuery(q string)
	SetPage(page int)
	NextPage()
	PrevPage()
	View() PageView[T]
	Close()
}

// Timer is the part of *time.Timer the pagers use.
type Timer interface {
	Stop() bool
}

// Clock schedules debounce timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Notifier receives state-change and error notifications from a component.
// Both hooks are optional. They are invoked from background goroutines and
// must not call Close on the component that invoked them.
type Notifier struct {
	OnChange func()
	OnError  func(err error)
}

func (n Notifier) changed() {
	if n.OnChange != nil {
		n.OnChange()
	}
}

func (n Notifier) failed(err error) {
	if n.OnError != nil {
		n.OnError(err)
	}
}
