package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// ProductIndex mirrors the catalog into an Elasticsearch index keyed by product id.
type ProductIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, IndexName: index}
}

// productDoc adds a lowercased type tag so the type filter ignores case the
// way local filtering does.
type productDoc struct {
	entity.Product
	TypeTag string `json:"type_tag"`
}

func newProductDoc(p entity.Product) productDoc {
	return productDoc{Product: p, TypeTag: strings.ToLower(strings.TrimSpace(p.Type))}
}

func (x *ProductIndex) Index(ctx context.Context, p entity.Product) error {
	b, err := json.Marshal(newProductDoc(p))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *ProductIndex) Delete(ctx context.Context, id int64) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document is already the state we want
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs q against the index with the same three predicates the
// storefront applies locally.
func (x *ProductIndex) Search(ctx context.Context, q catalog.Query, size int) ([]entity.Product, error) {
	body, err := json.Marshal(map[string]any{
		"query": buildQuery(q),
		"size":  size,
	})
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func buildQuery(q catalog.Query) map[string]any {
	var must []map[string]any
	var filter []map[string]any

	if q.Text != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"type":   "phrase_prefix",
				"fields": []string{"name^2", "category", "type"},
			},
		})
	}
	if q.Type != "" && q.Type != catalog.FilterAll {
		filter = append(filter, map[string]any{"term": map[string]any{"type_tag.keyword": strings.ToLower(strings.TrimSpace(q.Type))}})
	}
	switch q.Bucket {
	case catalog.BucketUnder50:
		filter = append(filter, priceRange(map[string]any{"lt": 50}))
	case catalog.Bucket50To100:
		filter = append(filter, priceRange(map[string]any{"gte": 50, "lte": 100}))
	case catalog.BucketOver100:
		filter = append(filter, priceRange(map[string]any{"gt": 100}))
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	boolQ := map[string]any{}
	if len(must) > 0 {
		boolQ["must"] = must
	}
	if len(filter) > 0 {
		boolQ["filter"] = filter
	}
	return map[string]any{"bool": boolQ}
}

func priceRange(bounds map[string]any) map[string]any {
	return map[string]any{"range": map[string]any{"price": bounds}}
}
