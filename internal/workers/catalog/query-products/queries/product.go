// internal/workers/catalog/query-products/queries/product.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func ProductByID(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	productID, ok := params["productId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, externalID, tenantID, name, brand, category, fitType string
	var imageURL, productURL string
	var fabric, chart []byte
	var createdAt, updatedAt string

	err := db.QueryRowContext(ctx, `
		SELECT id, external_id, tenant_id, name, brand, category,
		       image_url, product_url, fit_type, fabric_composition, size_chart,
		       created_at, updated_at
		FROM products
		WHERE id = $1 OR external_id = $1`, productID).Scan(
		&id, &externalID, &tenantID, &name, &brand, &category,
		&imageURL, &productURL, &fitType, &fabric, &chart,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":                id,
		"externalId":        externalID,
		"tenantId":          tenantID,
		"name":              name,
		"brand":             brand,
		"category":          category,
		"imageUrl":          imageURL,
		"productUrl":        productURL,
		"fitType":           fitType,
		"fabricComposition": decodeJSONMap(fabric),
		"sizeChart":         decodeJSONMap(chart),
		"createdAt":         createdAt,
		"updatedAt":         updatedAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func ProductsByTenant(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	tenantID, ok := params["tenantId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, external_id, name, brand, category, fit_type
		FROM products
		WHERE tenant_id = $1
		ORDER BY name`, tenantID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results, err := scanProductSummaries(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func ProductsByCategory(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	tenantID, ok := params["tenantId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}
	category, ok := params["category"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, external_id, name, brand, category, fit_type
		FROM products
		WHERE tenant_id = $1 AND category = $2
		ORDER BY name`, tenantID, category)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results, err := scanProductSummaries(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func SizeChartByProduct(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	productID, ok := params["productId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var fitType string
	var fabric, chart []byte

	err := db.QueryRowContext(ctx, `
		SELECT fit_type, fabric_composition, size_chart
		FROM products
		WHERE id = $1 OR external_id = $1`, productID).Scan(&fitType, &fabric, &chart)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"fitType":           fitType,
		"fabricComposition": decodeJSONMap(fabric),
		"sizeChart":         decodeJSONMap(chart),
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func scanProductSummaries(rows *sql.Rows) ([]map[string]interface{}, error) {
	var results []map[string]interface{}
	for rows.Next() {
		var id, externalID, name, brand, category, fitType string
		if err := rows.Scan(&id, &externalID, &name, &brand, &category, &fitType); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"id":         id,
			"externalId": externalID,
			"name":       name,
			"brand":      brand,
			"category":   category,
			"fitType":    fitType,
		})
	}
	return results, rows.Err()
}

func decodeJSONMap(data []byte) map[string]interface{} {
	result := map[string]interface{}{}
	if len(data) > 0 {
		json.Unmarshal(data, &result)
	}
	return result
}
