// internal/core/services/local_pager_test.go
package services_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/services"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
)

func matchWord(row string, q string) bool {
	return strings.Contains(strings.ToLower(row), q)
}

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		prefix := "apple"
		if i%2 == 1 {
			prefix = "banana"
		}
		out[i] = prefix + "-" + strconv.Itoa(i+1)
	}
	return out
}

func newLocalPager(load services.LoadFunc[string], rec *recorder) *services.LocalPager[string] {
	return services.NewLocalPager[string](load, matchWord, services.PagerOptions{
		Name:     "local",
		PageSize: 10,
		Notifier: rec.notifier(),
	}, helpers.TestLogger())
}

func TestLocalPager_LoadsAndPages(t *testing.T) {
	rec := &recorder{}
	p := newLocalPager(func(ctx context.Context) ([]string, error) { return words(25), nil }, rec)
	defer p.Close()

	p.Open(context.Background())
	v := waitLoaded(t, p.View)

	assert.Len(t, v.Items, 10)
	assert.Equal(t, "apple-1", v.Items[0])
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 25, v.TotalCount)

	p.NextPage()
	p.NextPage()
	p.NextPage()
	v = p.View()
	assert.Equal(t, 3, v.Page)
	assert.Len(t, v.Items, 5)

	p.SetPage(0)
	assert.Equal(t, 1, p.View().Page)
	p.PrevPage()
	assert.Equal(t, 1, p.View().Page)

	assert.Eventually(t, func() bool { return rec.changes.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestLocalPager_QueryFiltersAndResetsPage(t *testing.T) {
	p := newLocalPager(func(ctx context.Context) ([]string, error) { return words(25), nil }, &recorder{})
	defer p.Close()

	p.Open(context.Background())
	waitLoaded(t, p.View)
	p.SetPage(3)

	p.SetQuery("  BANANA ")
	v := p.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 12, v.TotalCount)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, "banana-2", v.Items[0])

	p.SetQuery("banana-24")
	v = p.View()
	assert.Equal(t, []string{"banana-24"}, v.Items)

	p.SetQuery("cherry")
	v = p.View()
	assert.True(t, v.Empty())
	assert.Equal(t, 1, v.TotalPages)

	p.SetQuery("")
	assert.Equal(t, 25, p.View().TotalCount)
}

func TestLocalPager_QueryBeforeLoadApplies(t *testing.T) {
	release := make(chan struct{})
	p := newLocalPager(func(ctx context.Context) ([]string, error) {
		<-release
		return words(6), nil
	}, &recorder{})
	defer p.Close()

	p.Open(context.Background())
	p.SetQuery("apple")
	close(release)

	v := waitLoaded(t, p.View)
	assert.Equal(t, 3, v.TotalCount)
}

func TestLocalPager_LoadFailure(t *testing.T) {
	rec := &recorder{}
	p := newLocalPager(func(ctx context.Context) ([]string, error) {
		return nil, domain.ErrNetworkFailure
	}, rec)
	defer p.Close()

	p.Open(context.Background())
	require.Eventually(t, func() bool { return len(rec.errors()) == 1 }, time.Second, 5*time.Millisecond)

	v := p.View()
	assert.False(t, v.Loading)
	assert.False(t, v.Loaded)
	assert.ErrorIs(t, v.Err, domain.ErrNetworkFailure)
	assert.Equal(t, uint64(1), p.Stats().Failed)
}

func TestLocalPager_CloseDiscardsLoad(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	p := newLocalPager(func(ctx context.Context) ([]string, error) {
		<-release
		return nil, errors.New("too late")
	}, rec)

	p.Open(context.Background())
	p.Close()
	close(release)

	require.Eventually(t, func() bool { return p.Stats().Discarded == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, rec.changes.Load())
	assert.Empty(t, rec.errors())
}
