package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

func TestBuildQuery_MatchAllForEmptyQuery(t *testing.T) {
	q := buildQuery(catalog.NewQuery("", "all", "all"))
	require.Contains(t, q, "match_all")
}

func TestBuildQuery_CombinesPredicates(t *testing.T) {
	b, err := json.Marshal(buildQuery(catalog.NewQuery("Hoodie", "hoodies", "50-100")))
	require.NoError(t, err)
	s := string(b)
	require.Contains(t, s, `"multi_match"`)
	require.Contains(t, s, `"query":"hoodie"`)
	require.Contains(t, s, `"type_tag.keyword":"hoodies"`)
	require.Contains(t, s, `"gte":50`)
	require.Contains(t, s, `"lte":100`)
}

func TestBuildQuery_TypeFilterIgnoresCase(t *testing.T) {
	q := catalog.NewQuery("", "all", "all")
	q.Type = "Hoodies"
	b, err := json.Marshal(buildQuery(q))
	require.NoError(t, err)
	require.Contains(t, string(b), `"type_tag.keyword":"hoodies"`)
}

// fakeES answers the few endpoints the index uses.
func fakeES(t *testing.T, got *[]string) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = append(*got, r.Method+" "+r.URL.Path+" "+string(body))
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":5,"name":"Black Hoodie","price":120,"discount":"10","type":"hoodies"}}]}}`))
		default:
			_, _ = w.Write([]byte(`{"result":"created"}`))
		}
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestProductIndex_RoundTrip(t *testing.T) {
	var calls []string
	idx := NewProductIndex(fakeES(t, &calls), "products")
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, entity.Product{ID: 5, Name: "Black Hoodie", Price: entity.NewPrice(120), Type: "Hoodies"}))
	require.NoError(t, idx.Delete(ctx, 6), "missing documents are not an error")

	res, err := idx.Search(ctx, catalog.NewQuery("hoodie", "", ""), 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, int64(5), res[0].ID)
	require.Equal(t, entity.Percent(10), res[0].Discount)

	require.Len(t, calls, 3)
	require.True(t, strings.HasPrefix(calls[0], "PUT /products/_doc/5"))
	require.Contains(t, calls[0], `"type":"Hoodies"`)
	require.Contains(t, calls[0], `"type_tag":"hoodies"`)
	require.True(t, strings.HasPrefix(calls[1], "DELETE /products/_doc/6"))
	require.Contains(t, calls[2], `"size":10`)
}
