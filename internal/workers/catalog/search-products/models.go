// internal/workers/catalog/search-products/models.go
package searchproducts

type Input struct {
	IndexName  string                 `json:"indexName,omitempty"`
	QueryType  string                 `json:"queryType"`
	TenantID   string                 `json:"tenantId,omitempty"`
	ProductID  string                 `json:"productId,omitempty"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination map[string]interface{} `json:"pagination,omitempty"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
