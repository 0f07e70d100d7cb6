package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/NavodaLakshika/erp-frontend/internal/adapters/redis_adapter"
	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
	"github.com/NavodaLakshika/erp-frontend/test/mocks"
)

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, 5*time.Minute, helpers.TestLogger())

	t.Run("stores_and_retrieves_customer", func(t *testing.T) {
		in := helpers.CreateTestCustomer()
		require.NoError(t, cache.Set(ctx, "test:customer", in))

		var out domain.Customer
		require.NoError(t, cache.Get(ctx, "test:customer", &out))
		assert.Equal(t, in.ID, out.ID)
		assert.Equal(t, in.FullName(), out.FullName())
	})

	t.Run("stores_and_retrieves_nullable_prices", func(t *testing.T) {
		in := []domain.Stock{helpers.CreateTestStock(func(s *domain.Stock) {
			s.StockPrice = decimal.NullDecimal{}
		})}
		require.NoError(t, cache.Set(ctx, "test:stocks", in))

		var out []domain.Stock
		require.NoError(t, cache.Get(ctx, "test:stocks", &out))
		require.Len(t, out, 1)
		assert.False(t, out[0].StockPrice.Valid)
		assert.True(t, out[0].RetailPrice.Decimal.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("missing_key_is_cache_miss", func(t *testing.T) {
		var out string
		err := cache.Get(ctx, "test:missing", &out)
		assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
	})
}

func TestCache_TTLAndExpiry(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	require.NoError(t, cache.SetWithTTL(ctx, "test:ttl", "v", 30*time.Second))

	ttl, err := cache.TTL(ctx, "test:ttl")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)

	tr.Server.FastForward(31 * time.Second)

	var out string
	assert.ErrorIs(t, cache.Get(ctx, "test:ttl", &out), redis_a.ErrCacheMiss)
}

func TestCache_DeleteAndPattern(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	for _, key := range []string{"stock:outlet:1", "stock:outlet:2", "invoices:all"} {
		require.NoError(t, cache.Set(ctx, key, 1))
	}

	ok, err := cache.Exists(ctx, "stock:outlet:1", "stock:outlet:2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.DeletePattern(ctx, "stock:outlet:*"))

	ok, err = cache.Exists(ctx, "stock:outlet:1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = cache.Exists(ctx, "invoices:all")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "invoices:all"))
	require.NoError(t, cache.Delete(ctx))
	require.NoError(t, cache.Ping(ctx))
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	var first []int
	require.NoError(t, cache.GetOrSet(ctx, "test:gos", &first, fetch, time.Minute))
	var second []int
	require.NoError(t, cache.GetOrSet(ctx, "test:gos", &second, fetch, time.Minute))

	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	boom := errors.New("backend down")
	var out []int
	err := cache.GetOrSet(ctx, "test:fail", &out, func() (interface{}, error) { return nil, boom }, time.Minute)
	assert.ErrorIs(t, err, boom)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "stock:outlet:3", redis_a.OutletStockKey(3))
	assert.Equal(t, "session:a:b", redis_a.BuildKey(redis_a.PrefixSession, "a", "b"))
	assert.Equal(t, "invoices", redis_a.BuildKey(redis_a.PrefixInvoices))
}

func TestCachedStockRepository_ListByOutlet(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	next := mocks.NewMockStockRepository(ctrl)
	refresher := mocks.NewMockStockRefresher(ctrl)

	stocks := []domain.Stock{helpers.CreateTestStock()}
	next.EXPECT().ListByOutlet(gomock.Any(), int64(1)).Return(stocks, nil).Times(1)
	refresher.EXPECT().EnqueueRefresh(gomock.Any(), int64(1)).Return(nil).Times(1)

	repo := redis_a.NewCachedStockRepository(next, cache, refresher, time.Minute, helpers.TestLogger())

	got, err := repo.ListByOutlet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// served from Redis; the mocks reject a second backend call
	got, err = repo.ListByOutlet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ItemID)
	assert.True(t, got[0].StockPrice.Decimal.Equal(decimal.NewFromInt(950)))
}

func TestCachedStockRepository_FailuresPropagate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	next := mocks.NewMockStockRepository(ctrl)

	next.EXPECT().ListByOutlet(gomock.Any(), int64(2)).Return(nil, domain.ErrNetworkFailure).Times(2)

	repo := redis_a.NewCachedStockRepository(next, cache, nil, time.Minute, helpers.TestLogger())

	for i := 0; i < 2; i++ {
		_, err := repo.ListByOutlet(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	}
}

func TestCachedStockRepository_RefreshAndInvalidate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	next := mocks.NewMockStockRepository(ctrl)

	next.EXPECT().ListByOutlet(gomock.Any(), int64(1)).Return([]domain.Stock{
		helpers.CreateTestStock(),
		helpers.CreateTestStock(func(s *domain.Stock) { s.ID, s.ItemID = 101, 8 }),
	}, nil)

	repo := redis_a.NewCachedStockRepository(next, cache, nil, time.Minute, helpers.TestLogger())

	n, err := repo.Refresh(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, tr.Server.Exists(redis_a.OutletStockKey(1)))

	require.NoError(t, repo.Invalidate(ctx, 1))
	assert.False(t, tr.Server.Exists(redis_a.OutletStockKey(1)))

	require.NoError(t, cache.Set(ctx, redis_a.OutletStockKey(4), []domain.Stock{}))
	require.NoError(t, repo.Invalidate(ctx, 0))
	assert.False(t, tr.Server.Exists(redis_a.OutletStockKey(4)))
}

func TestCachedStockRepository_ListStocksPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockStockRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	params := ports.ListParams{Query: "rice", Page: 2, PageSize: 20}
	next.EXPECT().ListStocks(gomock.Any(), params).Return(domain.Page[domain.Stock]{Total: 21}, nil)

	repo := redis_a.NewCachedStockRepository(next, cache, nil, time.Minute, helpers.TestLogger())
	page, err := repo.ListStocks(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
}
