package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

func sampleCatalog() []entity.Product {
	return []entity.Product{
		{ID: 1, Name: "Black Hoodie", Price: entity.NewPrice(120), Category: "new-drops", Type: "hoodies"},
		{ID: 2, Name: "White Tee", Price: entity.NewPrice(40), Category: "best-sellers", Type: "t-shirts"},
		{ID: 3, Name: "Cargo Pants", Price: entity.NewPrice(50), Category: "new-drops", Type: "pants"},
		{ID: 4, Name: "Grey Hoodie", Price: entity.NewPrice(100), Category: "best-sellers", Type: "hoodies"},
	}
}

func ids(products []entity.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSearch_EmptyQueryReturnsEverythingInOrder(t *testing.T) {
	products := sampleCatalog()
	got := Search(products, NewQuery("", "all", "all"))
	require.Equal(t, []int64{1, 2, 3, 4}, ids(got))

	got[0].Name = "changed"
	require.Equal(t, "Black Hoodie", products[0].Name, "input must not be modified")
}

func TestSearch_TextMatchesNameCategoryAndType(t *testing.T) {
	products := sampleCatalog()
	require.Equal(t, []int64{1, 4}, ids(Search(products, NewQuery("HOODIE", "", ""))))
	require.Equal(t, []int64{2, 4}, ids(Search(products, NewQuery("best", "", ""))))
	require.Equal(t, []int64{3}, ids(Search(products, NewQuery("pants", "", ""))))
	require.Empty(t, Search(products, NewQuery("socks", "", "")))
}

func TestSearch_PredicatesAreANDed(t *testing.T) {
	products := sampleCatalog()
	got := Search(products, NewQuery("hoodie", "hoodies", "100+"))
	require.Equal(t, []int64{1}, ids(got))

	got = Search(products, NewQuery("", "hoodies", "50-100"))
	require.Equal(t, []int64{4}, ids(got))
}

func TestPriceBucket_Edges(t *testing.T) {
	d := decimal.NewFromInt
	require.True(t, BucketUnder50.Contains(d(49)))
	require.False(t, BucketUnder50.Contains(d(50)))

	require.True(t, Bucket50To100.Contains(d(50)))
	require.True(t, Bucket50To100.Contains(d(100)))
	require.False(t, Bucket50To100.Contains(decimal.RequireFromString("100.01")))

	require.False(t, BucketOver100.Contains(d(100)))
	require.True(t, BucketOver100.Contains(d(101)))

	require.True(t, BucketAll.Contains(d(0)))
}

func TestParseBucket_UnknownMeansAll(t *testing.T) {
	require.Equal(t, BucketAll, ParseBucket("cheap"))
	require.Equal(t, BucketAll, ParseBucket(""))
	require.Equal(t, Bucket50To100, ParseBucket(" 50-100 "))
}

func TestByCategoryAndType(t *testing.T) {
	products := sampleCatalog()
	require.Equal(t, []int64{1, 3}, ids(ByCategory(products, "new-drops")))
	require.Equal(t, []int64{1, 2, 3, 4}, ids(ByCategory(products, FilterAll)))
	require.Equal(t, []int64{1, 4}, ids(ByType(products, "hoodies")))
	require.Empty(t, ByType(products, "socks"))
}
