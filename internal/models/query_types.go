// internal/models/query_types.go
package models

// QueryType identifies a registered catalog query.
type QueryType string

const (
	QueryTypeProductByID        QueryType = "product_by_id"
	QueryTypeProductsByTenant   QueryType = "products_by_tenant"
	QueryTypeProductsByCategory QueryType = "products_by_category"
	QueryTypeSizeChartByProduct QueryType = "size_chart_by_product"
	QueryTypeTenantByAPIKey     QueryType = "tenant_by_api_key"
)
