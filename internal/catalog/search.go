package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

// FilterAll disables the type and price filters.
const FilterAll = "all"

type PriceBucket string

const (
	BucketAll     PriceBucket = FilterAll
	BucketUnder50 PriceBucket = "0-50"
	Bucket50To100 PriceBucket = "50-100"
	BucketOver100 PriceBucket = "100+"
)

const (
	bucketBoundLow = 50
	bucketBoundHi  = 100
)

// ParseBucket maps a filter value to a bucket; unknown values mean "all".
func ParseBucket(s string) PriceBucket {
	switch b := PriceBucket(strings.TrimSpace(s)); b {
	case BucketUnder50, Bucket50To100, BucketOver100:
		return b
	}
	return BucketAll
}

// Contains reports whether price falls inside the bucket. Bucket edges:
// 0-50 is < 50, 50-100 is inclusive on both ends, 100+ is > 100.
func (b PriceBucket) Contains(price decimal.Decimal) bool {
	low := decimal.NewFromInt(bucketBoundLow)
	hi := decimal.NewFromInt(bucketBoundHi)
	switch b {
	case BucketUnder50:
		return price.LessThan(low)
	case Bucket50To100:
		return price.GreaterThanOrEqual(low) && price.LessThanOrEqual(hi)
	case BucketOver100:
		return price.GreaterThan(hi)
	}
	return true
}

// Query combines the three search predicates with AND.
type Query struct {
	Text   string      // substring over name, category and type
	Type   string      // exact type tag or "all"
	Bucket PriceBucket // price bucket or "all"
}

// NewQuery normalizes raw filter input the way the search overlay does.
func NewQuery(text, typ, bucket string) Query {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" {
		typ = FilterAll
	}
	return Query{
		Text:   strings.ToLower(strings.TrimSpace(text)),
		Type:   typ,
		Bucket: ParseBucket(bucket),
	}
}

// IsEmpty is true when no predicate can exclude anything.
func (q Query) IsEmpty() bool {
	return q.Text == "" && (q.Type == "" || q.Type == FilterAll) && (q.Bucket == "" || q.Bucket == BucketAll)
}

func (q Query) Matches(p entity.Product) bool {
	name := strings.ToLower(p.Name)
	cat := strings.ToLower(p.Category)
	typ := strings.ToLower(p.Type)

	text := strings.ToLower(q.Text)
	matchesText := text == "" ||
		strings.Contains(name, text) ||
		strings.Contains(cat, text) ||
		strings.Contains(typ, text)

	matchesType := q.Type == "" || q.Type == FilterAll || typ == strings.ToLower(q.Type)

	matchesPrice := q.Bucket == "" || q.Bucket.Contains(p.Price.Decimal)

	return matchesText && matchesType && matchesPrice
}

// Search returns the products matching q, preserving order. The input slice is
// never modified.
func Search(products []entity.Product, q Query) []entity.Product {
	if q.IsEmpty() {
		return clone(products)
	}
	return filter(products, q.Matches)
}

// ByCategory keeps products whose category tag equals category ("all" keeps everything).
func ByCategory(products []entity.Product, category string) []entity.Product {
	if category == FilterAll {
		return clone(products)
	}
	return filter(products, func(p entity.Product) bool { return p.Category == category })
}

// ByType keeps products whose type tag equals typ ("all" keeps everything).
func ByType(products []entity.Product, typ string) []entity.Product {
	if typ == FilterAll {
		return clone(products)
	}
	return filter(products, func(p entity.Product) bool { return p.Type == typ })
}

func filter(products []entity.Product, keep func(entity.Product) bool) []entity.Product {
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func clone(products []entity.Product) []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}
