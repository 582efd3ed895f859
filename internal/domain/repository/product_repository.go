package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository persists catalog entries keyed by Product.ID.
type ProductRepository interface {
	// List returns every product in storage order.
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Insert(ctx context.Context, p *entity.Product) error
	// Replace overwrites the stored product with the same ID or returns ErrProductNotFound.
	Replace(ctx context.Context, p *entity.Product) error
	// DeleteByID removes every product with the ID. Missing IDs are not an error.
	DeleteByID(ctx context.Context, id int64) error
	// MaxID returns the largest stored ID, 0 for an empty catalog.
	MaxID(ctx context.Context) (int64, error)
	// Reset removes all products; used by the seed importer.
	Reset(ctx context.Context) error
}
