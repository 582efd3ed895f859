package application

import (
	"context"
	"errors"
	"expvar"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	repo "github.com/oksasatya/crateyy/internal/domain/repository"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

const (
	productListCacheKey = "catalog:products"
	productListCacheTTL = 5 * time.Minute
	searchIndexSize     = 100
)

var (
	productsCreated  = expvar.NewInt("products_created")
	productsUpdated  = expvar.NewInt("products_updated")
	productsDeleted  = expvar.NewInt("products_deleted")
	productListFails = expvar.NewInt("product_list_failures")
	searchFallbacks  = expvar.NewInt("product_search_fallbacks")
)

// ImageStore persists an uploaded image and returns the path or URL to store on the product.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ProductIndex is the optional full-text index kept next to the catalog.
type ProductIndex interface {
	Index(ctx context.Context, p entity.Product) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q catalog.Query, size int) ([]entity.Product, error)
}

// ImageUpload is a file received in the multipart "image" field.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// NewProduct holds the fields of an admin create submission.
type NewProduct struct {
	Name          string
	Price         entity.Price
	Discount      entity.Percent
	Category      string
	Type          string
	ExistingImage string
}

type CatalogService struct {
	Repo   repo.ProductRepository
	IDs    *IDGenerator
	Images ImageStore
	Index  ProductIndex
	Redis  *redis.Client
	Logger *logrus.Logger

	uploadNames *IDGenerator
	now         func() time.Time
}

func NewCatalogService(r repo.ProductRepository, ids *IDGenerator, images ImageStore, rdb *redis.Client, logger *logrus.Logger) *CatalogService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &CatalogService{
		Repo:        r,
		IDs:         ids,
		Images:      images,
		Redis:       rdb,
		Logger:      logger,
		uploadNames: NewIDGenerator(0),
		now:         time.Now,
	}
}

// WithIndex enables the search index. Passing nil keeps in-memory search.
func (s *CatalogService) WithIndex(idx ProductIndex) *CatalogService {
	s.Index = idx
	return s
}

// List returns the catalog in storage order. Storage faults are logged and
// reported as an empty catalog.
func (s *CatalogService) List(ctx context.Context) []entity.Product {
	if s.Redis != nil {
		var cached []entity.Product
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, productListCacheKey, &cached)
		if err != nil {
			s.Logger.WithError(err).Warn("product cache read failed")
		}
		if hit {
			return cached
		}
	}

	products, err := s.Repo.List(ctx)
	if err != nil {
		productListFails.Add(1)
		s.Logger.WithError(err).Warn("list products failed, serving empty catalog")
		return []entity.Product{}
	}
	if products == nil {
		products = []entity.Product{}
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, productListCacheKey, products, productListCacheTTL); err != nil {
			s.Logger.WithError(err).Warn("product cache write failed")
		}
	}
	return products
}

// Search answers from the index when one is configured, otherwise it filters List.
func (s *CatalogService) Search(ctx context.Context, q catalog.Query) []entity.Product {
	if s.Index != nil && !q.IsEmpty() {
		res, err := s.Index.Search(ctx, q, searchIndexSize)
		if err == nil {
			return res
		}
		searchFallbacks.Add(1)
		s.Logger.WithError(err).Warn("product index search failed, filtering in memory")
	}
	return catalog.Search(s.List(ctx), q)
}

func (s *CatalogService) Create(ctx context.Context, in NewProduct, upload *ImageUpload) (*entity.Product, error) {
	if err := validateNewProduct(in); err != nil {
		return nil, err
	}
	image := in.ExistingImage
	if upload != nil {
		url, err := s.saveImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		image = url
	}
	if image == "" {
		image = entity.PlaceholderImage
	}

	p := &entity.Product{
		ID:        s.IDs.Next(),
		Name:      in.Name,
		Price:     in.Price,
		Discount:  in.Discount,
		Category:  in.Category,
		Type:      in.Type,
		Image:     image,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.Insert(ctx, p); err != nil {
		return nil, storageErr("insert product", err)
	}
	productsCreated.Add(1)
	s.afterWrite(ctx, p)
	return p, nil
}

// Update applies the present fields of patch. The image is taken from the
// upload, then existingImage, and otherwise left as stored.
func (s *CatalogService) Update(ctx context.Context, id int64, patch entity.ProductPatch, upload *ImageUpload, existingImage string) (*entity.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storageErr("get product", err)
	}

	switch {
	case upload != nil:
		url, err := s.saveImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		patch.Image = &url
	case existingImage != "":
		patch.Image = &existingImage
	}
	patch.Apply(p)

	if err := s.Repo.Replace(ctx, p); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storageErr("replace product", err)
	}
	productsUpdated.Add(1)
	s.afterWrite(ctx, p)
	return p, nil
}

// Delete removes every product with id. Unknown ids succeed.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return storageErr("delete product", err)
	}
	productsDeleted.Add(1)
	s.invalidateList(ctx)
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("product index delete failed")
		}
	}
	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, p *entity.Product) {
	s.invalidateList(ctx)
	if s.Index != nil {
		if err := s.Index.Index(ctx, *p); err != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product index failed")
		}
	}
}

func (s *CatalogService) invalidateList(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, productListCacheKey); err != nil {
		s.Logger.WithError(err).Warn("product cache invalidation failed")
	}
}

func (s *CatalogService) saveImage(ctx context.Context, up *ImageUpload) (string, error) {
	if s.Images == nil {
		return "", storageErr("save image", errors.New("no image store configured"))
	}
	name := strconv.FormatInt(s.uploadNames.Next(), 10) + strings.ToLower(filepath.Ext(up.Filename))
	url, err := s.Images.Save(ctx, name, up.ContentType, up.Body)
	if err != nil {
		return "", storageErr("save image", err)
	}
	return url, nil
}

func validateNewProduct(in NewProduct) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if in.Discount < 0 {
		fields["discount"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validatePatch(pt entity.ProductPatch) error {
	fields := map[string]string{}
	if pt.Name != nil && strings.TrimSpace(*pt.Name) == "" {
		fields["name"] = "must not be blank"
	}
	if pt.Price != nil && pt.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if pt.Discount != nil && *pt.Discount < 0 {
		fields["discount"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
