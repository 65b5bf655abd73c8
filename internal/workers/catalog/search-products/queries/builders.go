// internal/workers/catalog/search-products/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ProductQuery defines the structure of a search request
type ProductQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	TenantID   string
	ProductID  string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, pq ProductQuery) (*esapi.SearchRequest, error) {
	if pq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch pq.QueryType {
	case "product_search":
		queryBody = buildProductSearchQuery(pq)
	case "similar_products":
		queryBody = buildSimilarProductsQuery(pq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, pq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{pq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &pq.Pagination.From,
		Size:  &pq.Pagination.Size,
	}

	return &req, nil
}

// buildProductSearchQuery builds the main catalog search query dynamically
func buildProductSearchQuery(pq ProductQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if keywords, ok := pq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "brand^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	// Tenant isolation: results never cross tenants.
	if pq.TenantID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"tenantId": pq.TenantID},
		})
	}

	if category, ok := pq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}

	if fitType, ok := pq.Filters["fitType"].(string); ok && fitType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"fitType": fitType},
		})
	}

	if brand, ok := pq.Filters["brand"].(string); ok && brand != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"brand": brand},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	if sortBy, ok := pq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "name":
			query["sort"] = []map[string]interface{}{{"name.keyword": "asc"}}
		case "brand":
			query["sort"] = []map[string]interface{}{{"brand.keyword": "asc"}}
		}
	}

	return query
}

// buildSimilarProductsQuery builds a "similar products" query
func buildSimilarProductsQuery(pq ProductQuery) map[string]interface{} {
	if pq.ProductID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "brand", "category"},
				"like": []map[string]interface{}{
					{"_index": pq.Index, "_id": pq.ProductID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}
