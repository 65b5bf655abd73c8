// internal/workers/catalog/query-products/models.go
package queryproducts

type Input struct {
	QueryType string                 `json:"queryType"`
	ProductID string                 `json:"productId,omitempty"`
	TenantID  string                 `json:"tenantId,omitempty"`
	Category  string                 `json:"category,omitempty"`
	APIKey    string                 `json:"apiKey,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
