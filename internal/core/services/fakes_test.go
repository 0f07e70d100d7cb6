// internal/core/services/fakes_test.go
package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
)

type fetchResult[T any] struct {
	page domain.Page[T]
	err  error
}

// pendingFetch is one fetch waiting for the test to answer it.
type pendingFetch[T any] struct {
	ctx    context.Context
	params ports.ListParams
	reply  chan fetchResult[T]
}

func (f *pendingFetch[T]) respond(items []T, total int) {
	f.reply <- fetchResult[T]{page: domain.Page[T]{Items: items, Total: total}}
}

func (f *pendingFetch[T]) fail(err error) {
	f.reply <- fetchResult[T]{err: err}
}

// scriptedFetch hands every fetch to the test and blocks until answered.
// With ignoreCancel set it keeps waiting after cancellation, like a backend
// that answers late.
type scriptedFetch[T any] struct {
	calls        chan *pendingFetch[T]
	ignoreCancel bool
}

func newScriptedFetch[T any]() *scriptedFetch[T] {
	return &scriptedFetch[T]{calls: make(chan *pendingFetch[T], 32)}
}

func (s *scriptedFetch[T]) Fetch(ctx context.Context, params ports.ListParams) (domain.Page[T], error) {
	call := &pendingFetch[T]{ctx: ctx, params: params, reply: make(chan fetchResult[T], 1)}
	s.calls <- call

	if s.ignoreCancel {
		r := <-call.reply
		return r.page, r.err
	}
	select {
	case r := <-call.reply:
		return r.page, r.err
	case <-ctx.Done():
		return domain.Page[T]{}, ctx.Err()
	}
}

func (s *scriptedFetch[T]) next(t *testing.T) *pendingFetch[T] {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch")
		return nil
	}
}

func (s *scriptedFetch[T]) none(t *testing.T) {
	t.Helper()
	select {
	case call := <-s.calls:
		t.Fatalf("unexpected fetch %+v", call.params)
	case <-time.After(50 * time.Millisecond):
	}
}

// recorder counts notifications.
type recorder struct {
	changes atomic.Int32
	mu      sync.Mutex
	errs    []error
}

func (r *recorder) notifier() services.Notifier {
	return services.Notifier{
		OnChange: func() { r.changes.Add(1) },
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
		},
	}
}

func (r *recorder) errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func ints(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func waitLoaded[T any](t *testing.T, view func() services.PageView[T]) services.PageView[T] {
	t.Helper()
	require.Eventually(t, func() bool {
		v := view()
		return v.Loaded && !v.Loading
	}, 2*time.Second, 5*time.Millisecond)
	return view()
}
