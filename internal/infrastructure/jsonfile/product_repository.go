package jsonfile

import (
	"context"
	"sync"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/domain/repository"
)

type ProductRepository struct {
	path string
	mu   sync.Mutex
}

func NewProductRepository(path string) *ProductRepository {
	return &ProductRepository{path: path}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return readAll[entity.Product](r.path)
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, err := readAll[entity.Product](r.path)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (r *ProductRepository) Insert(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, err := readAll[entity.Product](r.path)
	if err != nil {
		return err
	}
	products = append(products, *p)
	return writeAll(r.path, products)
}

func (r *ProductRepository) Replace(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, err := readAll[entity.Product](r.path)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			return writeAll(r.path, products)
		}
	}
	return repository.ErrProductNotFound
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	products, err := readAll[entity.Product](r.path)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return writeAll(r.path, kept)
}

func (r *ProductRepository) MaxID(ctx context.Context) (int64, error) {
	products, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max, nil
}

func (r *ProductRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeAll(r.path, []entity.Product{})
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
