// internal/workers/catalog/query-products/queries/tenant.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func TenantByAPIKey(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	apiKey, ok := params["apiKey"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, domain string
	var isActive bool

	err := db.QueryRowContext(ctx, `
		SELECT id, name, domain, is_active
		FROM tenants
		WHERE api_key = $1`, apiKey).Scan(&id, &name, &domain, &isActive)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":       id,
		"name":     name,
		"domain":   domain,
		"isActive": isActive,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
