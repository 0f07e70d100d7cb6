// internal/core/services/pager_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
)

type pagerFixture struct {
	fetch *scriptedFetch[int]
	clock *helpers.FakeClock
	rec   *recorder
	pager *services.Pager[int]
}

func newPagerFixture(t *testing.T) *pagerFixture {
	t.Helper()

	f := &pagerFixture{
		fetch: newScriptedFetch[int](),
		clock: helpers.NewFakeClock(),
		rec:   &recorder{},
	}
	f.pager = services.NewPager[int](f.fetch.Fetch, services.PagerOptions{
		Name:     "test",
		PageSize: 10,
		Debounce: 400 * time.Millisecond,
		Clock:    f.clock,
		Notifier: f.rec.notifier(),
	}, helpers.TestLogger())
	t.Cleanup(f.pager.Close)
	return f
}

// open opens the pager and answers the initial fetch with total rows.
func (f *pagerFixture) open(t *testing.T, total int) {
	t.Helper()
	f.pager.Open(context.Background())
	call := f.fetch.next(t)
	require.Equal(t, ports.ListParams{Query: "", Page: 1, PageSize: 10}, call.params)
	call.respond(ints(1, min(total, 10)), total)
	waitLoaded(t, f.pager.View)
}

func TestPager_OpenFetchesFirstPage(t *testing.T) {
	f := newPagerFixture(t)

	f.pager.Open(context.Background())
	v := f.pager.View()
	assert.True(t, v.Loading)
	assert.False(t, v.Loaded)

	f.fetch.next(t).respond(ints(1, 10), 25)

	v = waitLoaded(t, f.pager.View)
	assert.Equal(t, ints(1, 10), v.Items)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 25, v.TotalCount)
	assert.NoError(t, v.Err)
	assert.False(t, v.Empty())
	assert.Eventually(t, func() bool { return f.rec.changes.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestPager_EmptyResult(t *testing.T) {
	f := newPagerFixture(t)
	f.pager.Open(context.Background())
	f.fetch.next(t).respond(nil, 0)

	v := waitLoaded(t, f.pager.View)
	assert.True(t, v.Empty())
	assert.Equal(t, 1, v.TotalPages)
}

func TestPager_QueryIsDebounced(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	f.pager.SetPage(2)
	f.fetch.next(t).respond(ints(11, 20), 30)
	require.Eventually(t, func() bool { return f.pager.View().Page == 2 && !f.pager.View().Loading },
		time.Second, 5*time.Millisecond)

	f.pager.SetQuery("r")
	f.pager.SetQuery("ri")
	f.pager.SetQuery("ric")

	v := f.pager.View()
	assert.Equal(t, "ric", v.Query)
	assert.Equal(t, 1, v.Page, "query change resets the page immediately")
	assert.True(t, v.Loading)
	assert.Equal(t, 1, f.clock.Pending())

	f.clock.Advance(399 * time.Millisecond)
	f.fetch.none(t)

	f.clock.Advance(time.Millisecond)
	call := f.fetch.next(t)
	assert.Equal(t, ports.ListParams{Query: "ric", Page: 1, PageSize: 10}, call.params)
	call.respond([]int{7}, 1)

	require.Eventually(t, func() bool { return f.pager.View().TotalCount == 1 }, time.Second, 5*time.Millisecond)
	f.fetch.none(t)
}

func TestPager_SameQueryIsNoop(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 5)

	f.pager.SetQuery("")
	assert.Zero(t, f.clock.Pending())
	assert.False(t, f.pager.View().Loading)
}

func TestPager_PageChangeCancelsPendingQuery(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	f.pager.SetQuery("a")
	require.Equal(t, 1, f.clock.Pending())

	f.pager.SetPage(1)
	assert.Zero(t, f.clock.Pending())

	call := f.fetch.next(t)
	assert.Equal(t, "a", call.params.Query)
	assert.Equal(t, 1, call.params.Page)
	call.respond(ints(1, 3), 3)

	f.clock.Advance(time.Second)
	f.fetch.none(t)
}

func TestPager_LatestResponseWins(t *testing.T) {
	f := newPagerFixture(t)
	f.fetch.ignoreCancel = true
	f.open(t, 30)

	f.pager.SetPage(2)
	slow := f.fetch.next(t)
	f.pager.SetPage(3)
	fast := f.fetch.next(t)

	fast.respond(ints(21, 30), 30)
	require.Eventually(t, func() bool {
		v := f.pager.View()
		return !v.Loading && v.Page == 3
	}, time.Second, 5*time.Millisecond)

	slow.respond(ints(11, 20), 30)
	require.Eventually(t, func() bool { return f.pager.Stats().Discarded == 1 }, time.Second, 5*time.Millisecond)

	v := f.pager.View()
	assert.Equal(t, ints(21, 30), v.Items)
	assert.Equal(t, 3, v.Page)
	assert.Equal(t, services.Stats{Issued: 3, Applied: 2, Discarded: 1}, f.pager.Stats())
}

func TestPager_SupersededFetchIsCancelled(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	f.pager.SetPage(2)
	first := f.fetch.next(t)
	f.pager.SetPage(3)

	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	f.fetch.next(t).respond(ints(21, 30), 30)
	waitLoaded(t, f.pager.View)
}

func TestPager_SetPageClamps(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 25)

	f.pager.SetPage(99)
	call := f.fetch.next(t)
	assert.Equal(t, 3, call.params.Page)
	call.respond(ints(21, 25), 25)
	waitLoaded(t, f.pager.View)

	f.pager.SetPage(-4)
	call = f.fetch.next(t)
	assert.Equal(t, 1, call.params.Page)
	call.respond(ints(1, 10), 25)
}

func TestPager_NextAndPrevStopAtBounds(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 15)

	f.pager.PrevPage()
	f.fetch.none(t)

	f.pager.NextPage()
	call := f.fetch.next(t)
	assert.Equal(t, 2, call.params.Page)
	call.respond(ints(11, 15), 15)
	require.Eventually(t, func() bool { return f.pager.View().Page == 2 && !f.pager.View().Loading },
		time.Second, 5*time.Millisecond)

	f.pager.NextPage()
	f.fetch.none(t)

	f.pager.PrevPage()
	assert.Equal(t, 1, f.fetch.next(t).params.Page)
}

func TestPager_ShrunkResultRefetchesLastPage(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	f.pager.SetPage(3)
	f.fetch.next(t).respond(nil, 12)

	call := f.fetch.next(t)
	assert.Equal(t, 2, call.params.Page)
	call.respond([]int{11, 12}, 12)

	v := waitLoaded(t, f.pager.View)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, []int{11, 12}, v.Items)
}

func TestPager_FailureIsReported(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	boom := errors.Join(domain.ErrNetworkFailure, errors.New("connection refused"))
	f.pager.NextPage()
	f.fetch.next(t).fail(boom)

	require.Eventually(t, func() bool { return len(f.rec.errors()) == 1 }, time.Second, 5*time.Millisecond)

	v := f.pager.View()
	assert.False(t, v.Loading)
	assert.ErrorIs(t, v.Err, domain.ErrNetworkFailure)
	assert.Equal(t, ints(1, 10), v.Items, "previous rows stay on screen")
	assert.Equal(t, uint64(1), f.pager.Stats().Failed)

	// a later success clears the error
	f.pager.Refresh()
	f.fetch.next(t).respond(ints(11, 20), 30)
	require.Eventually(t, func() bool { return f.pager.View().Err == nil }, time.Second, 5*time.Millisecond)
}

func TestPager_CloseSilencesCompletions(t *testing.T) {
	f := newPagerFixture(t)
	f.fetch.ignoreCancel = true
	f.open(t, 30)
	require.Eventually(t, func() bool { return f.rec.changes.Load() == 1 }, time.Second, 5*time.Millisecond)
	base := f.rec.changes.Load()

	f.pager.NextPage()
	call := f.fetch.next(t)
	f.pager.SetQuery("late")
	f.pager.Close()

	assert.Zero(t, f.clock.Pending())
	call.respond(ints(11, 20), 30)

	require.Eventually(t, func() bool { return f.pager.Stats().Discarded == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, base, f.rec.changes.Load())
	assert.False(t, f.pager.View().Loading)

	f.pager.SetQuery("ignored")
	f.pager.NextPage()
	f.fetch.none(t)
	assert.Zero(t, f.clock.Pending())
}

func TestPager_ReopenStartsFresh(t *testing.T) {
	f := newPagerFixture(t)
	f.open(t, 30)

	f.pager.SetQuery("rice")
	f.pager.Close()

	f.pager.Open(context.Background())
	v := f.pager.View()
	assert.Empty(t, v.Query)
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.Loaded)
	assert.Empty(t, v.Items)

	call := f.fetch.next(t)
	assert.Empty(t, call.params.Query)
	call.respond(ints(1, 10), 30)
	waitLoaded(t, f.pager.View)
}
