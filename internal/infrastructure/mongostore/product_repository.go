package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/domain/repository"
)

const productsCollection = "products"

// productDocument keeps Mongo's own _id next to the numeric id the API exposes.
type productDocument struct {
	OID       primitive.ObjectID `bson:"_id,omitempty"`
	ID        int64              `bson:"id"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	Discount  int                `bson:"discount"`
	Category  string             `bson:"category"`
	Type      string             `bson:"type"`
	Image     string             `bson:"image"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toDocument(p *entity.Product) productDocument {
	price, _ := p.Price.Decimal.Float64()
	return productDocument{
		ID:        p.ID,
		Name:      p.Name,
		Price:     price,
		Discount:  int(p.Discount),
		Category:  p.Category,
		Type:      p.Type,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

func (d productDocument) toEntity() entity.Product {
	return entity.Product{
		ID:        d.ID,
		Name:      d.Name,
		Price:     entity.Price{Decimal: decimal.NewFromFloat(d.Price)},
		Discount:  entity.Percent(d.Discount),
		Category:  d.Category,
		Type:      d.Type,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
	}
}

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

// EnsureIndexes creates the unique index on the numeric id.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_product_id"),
	})
	return err
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var d productDocument
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrProductNotFound
		}
		return nil, err
	}
	p := d.toEntity()
	return &p, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *entity.Product) error {
	_, err := r.coll.InsertOne(ctx, toDocument(p))
	return err
}

func (r *ProductRepository) Replace(ctx context.Context, p *entity.Product) error {
	d := toDocument(p)
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": bson.M{
		"name":     d.Name,
		"price":    d.Price,
		"discount": d.Discount,
		"category": d.Category,
		"type":     d.Type,
		"image":    d.Image,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"id": id})
	return err
}

func (r *ProductRepository) MaxID(ctx context.Context) (int64, error) {
	var d productDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	if err := r.coll.FindOne(ctx, bson.D{}, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return d.ID, nil
}

func (r *ProductRepository) Reset(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.D{})
	return err
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
