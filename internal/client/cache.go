package client

import (
	"context"
	"time"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

// ProductFetcher is the single network call a page load makes.
type ProductFetcher interface {
	Products(ctx context.Context) ([]entity.Product, error)
}

// CatalogCache is a read-only snapshot of the catalog taken at page load.
// Views never go back to the server; edits made elsewhere show up only after
// the next Load.
type CatalogCache struct {
	products  []entity.Product
	fetchedAt time.Time
}

func NewCatalogCache(products []entity.Product) *CatalogCache {
	cp := make([]entity.Product, len(products))
	copy(cp, products)
	return &CatalogCache{products: cp, fetchedAt: time.Now()}
}

// LoadCatalog fetches the catalog once and wraps it in a cache.
func LoadCatalog(ctx context.Context, f ProductFetcher) (*CatalogCache, error) {
	products, err := f.Products(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalogCache(products), nil
}

func (c *CatalogCache) Len() int             { return len(c.products) }
func (c *CatalogCache) FetchedAt() time.Time { return c.fetchedAt }

// All returns the snapshot in server order.
func (c *CatalogCache) All() []entity.Product {
	return catalog.Search(c.products, catalog.Query{})
}

// CategoryPage is e.g. the "new-drops" or "best-sellers" page.
func (c *CatalogCache) CategoryPage(category string) []ProductCard {
	return Cards(catalog.ByCategory(c.products, category))
}

// TypePage lists one product type, e.g. "hoodies".
func (c *CatalogCache) TypePage(typ string) []ProductCard {
	return Cards(catalog.ByType(c.products, typ))
}

// Search backs the search overlay.
func (c *CatalogCache) Search(q catalog.Query) []ProductCard {
	return Cards(catalog.Search(c.products, q))
}

func (c *CatalogCache) AdminTable() []AdminRow {
	return AdminRows(c.products)
}
