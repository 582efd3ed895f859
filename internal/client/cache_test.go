package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

type staticFetcher struct {
	products []entity.Product
	err      error
	calls    int
}

func (f *staticFetcher) Products(context.Context) ([]entity.Product, error) {
	f.calls++
	return f.products, f.err
}

func storeProducts() []entity.Product {
	return []entity.Product{
		{ID: 1, Name: "Black Hoodie", Price: entity.NewPrice(100), Discount: 20, Category: "new-drops", Type: "hoodies"},
		{ID: 2, Name: "White Tee", Price: entity.NewPrice(40), Category: "best-sellers", Type: "t-shirts"},
		{ID: 3, Name: "Cargo Pants", Price: entity.NewPrice(75), Category: "new-drops", Type: "pants"},
	}
}

func cardIDs(cards []ProductCard) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestLoadCatalog_FetchesOnce(t *testing.T) {
	f := &staticFetcher{products: storeProducts()}
	cache, err := LoadCatalog(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, 3, cache.Len())
	require.False(t, cache.FetchedAt().IsZero())

	cache.CategoryPage("new-drops")
	cache.TypePage("hoodies")
	cache.Search(catalog.NewQuery("tee", "", ""))
	cache.AdminTable()
	require.Equal(t, 1, f.calls)
}

func TestLoadCatalog_Error(t *testing.T) {
	_, err := LoadCatalog(context.Background(), &staticFetcher{err: errors.New("offline")})
	require.Error(t, err)
}

func TestCatalogCache_SnapshotIsIsolated(t *testing.T) {
	products := storeProducts()
	cache := NewCatalogCache(products)
	products[0].Name = "mutated"
	require.Equal(t, "Black Hoodie", cache.All()[0].Name)

	all := cache.All()
	all[1].Name = "mutated"
	require.Equal(t, "White Tee", cache.All()[1].Name)
}

func TestCatalogCache_Views(t *testing.T) {
	cache := NewCatalogCache(storeProducts())

	require.Equal(t, []int64{1, 3}, cardIDs(cache.CategoryPage("new-drops")))
	require.Equal(t, []int64{1, 2, 3}, cardIDs(cache.CategoryPage(catalog.FilterAll)))
	require.Equal(t, []int64{2}, cardIDs(cache.TypePage("t-shirts")))
	require.Empty(t, cache.TypePage("socks"))

	require.Equal(t, []int64{1, 3}, cardIDs(cache.Search(catalog.NewQuery("", "all", "50-100"))))
	require.Equal(t, []int64{2}, cardIDs(cache.Search(catalog.NewQuery("", "all", "0-50"))))
	require.Equal(t, []int64{1, 3}, cardIDs(cache.Search(catalog.NewQuery("new", "", ""))))

	card := cache.TypePage("hoodies")[0]
	require.Equal(t, "80.00", card.Price.Final)
	require.True(t, card.Price.Strike)
}

func TestCatalogCache_Empty(t *testing.T) {
	cache := NewCatalogCache(nil)
	require.Zero(t, cache.Len())
	require.NotNil(t, cache.All())
	require.Empty(t, cache.CategoryPage("new-drops"))
	require.Empty(t, cache.AdminTable())
}
