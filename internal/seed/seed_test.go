package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/db"
	"milkdelivery/internal/repository"
)

func newSeeder(t *testing.T) (*Seeder, repository.ProductRepository) {
	t.Helper()
	seeder, _, products := newCachedSeeder(t, nil)
	return seeder, products
}

func newCachedSeeder(t *testing.T, cacheClient *cache.Client) (*Seeder, repository.CategoryRepository, repository.ProductRepository) {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	categories := repository.NewCategoryRepository(gormDB)
	products := repository.NewProductRepository(gormDB)
	return NewSeeder(categories, products, cacheClient), categories, products
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Categories)
	assert.Equal(t, "Milk", catalog.Categories[0].Name)
}

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	seeder, products := newSeeder(t)
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	first, err := seeder.Run(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Categories), first.CategoriesCreated)
	assert.Zero(t, first.CategoriesUpdated)
	assert.Positive(t, first.ProductsCreated)

	second, err := seeder.Run(ctx, catalog)
	require.NoError(t, err)
	assert.Zero(t, second.CategoriesCreated)
	assert.Equal(t, first.CategoriesCreated, second.CategoriesUpdated)
	assert.Zero(t, second.ProductsCreated)
	assert.Equal(t, first.ProductsCreated, second.ProductsUpdated)

	_, total, err := products.List(ctx, repository.ProductFilter{Page: repository.Page{Limit: 100}})
	require.NoError(t, err)
	assert.Equal(t, int64(first.ProductsCreated), total)
}

func TestRun_UpdatesPrice(t *testing.T) {
	ctx := context.Background()
	seeder, products := newSeeder(t)

	catalog, err := Load(strings.NewReader(`{"categories": [{"name": "Milk", "products": [{"name": "Toned Milk", "price": 52}]}]}`))
	require.NoError(t, err)
	_, err = seeder.Run(ctx, catalog)
	require.NoError(t, err)

	catalog.Categories[0].Products[0].Price = []byte(`"54.50"`)
	_, err = seeder.Run(ctx, catalog)
	require.NoError(t, err)

	list, _, err := products.List(ctx, repository.ProductFilter{Search: "toned", Page: repository.Page{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "54.50", list[0].Price.StringFixed(2))
}

func TestRun_DropsCachedRecords(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cacheClient := cache.NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cacheClient.Close() })
	seeder, categories, products := newCachedSeeder(t, cacheClient)

	catalog, err := Load(strings.NewReader(`{"categories": [{"name": "Dairy", "products": [{"name": "Milk 1L", "price": "3.50"}]}]}`))
	require.NoError(t, err)
	_, err = seeder.Run(ctx, catalog)
	require.NoError(t, err)

	dairy, err := categories.FindByName(ctx, "Dairy")
	require.NoError(t, err)
	milk, err := products.FindByCategoryAndName(ctx, dairy.ID, "Milk 1L")
	require.NoError(t, err)

	// Records as the services would have cached them before the reseed.
	require.NoError(t, cacheClient.SetJSON(ctx, cache.CategoryKey(dairy.ID), dairy, cache.DefaultTTL))
	require.NoError(t, cacheClient.SetJSON(ctx, cache.ProductKey(milk.ID), milk, cache.DefaultTTL))
	require.True(t, mr.Exists(cache.ProductKey(milk.ID)))

	catalog.Categories[0].Products[0].Price = []byte(`"9.99"`)
	_, err = seeder.Run(ctx, catalog)
	require.NoError(t, err)

	assert.False(t, mr.Exists(cache.CategoryKey(dairy.ID)))
	assert.False(t, mr.Exists(cache.ProductKey(milk.ID)))

	reloaded, err := products.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.99", reloaded.Price.StringFixed(2))
}

func TestRun_RejectsInvalidEntry(t *testing.T) {
	seeder, _ := newSeeder(t)
	catalog, err := Load(strings.NewReader(`{"categories": [{"name": "Milk", "products": [{"name": "Bad", "price": "1.999"}]}]}`))
	require.NoError(t, err)

	result, err := seeder.Run(context.Background(), catalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Bad"`)
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Zero(t, result.ProductsCreated)
}
