// internal/workers/infrastructure/validate-api-key/models.go
package validateapikey

type Input struct {
	APIKey string `json:"apiKey"`
	Origin string `json:"origin,omitempty"`
}

// Output represents the output data after API key validation
type Output struct {
	IsValid    bool   `json:"isValid"`
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName,omitempty"`
}

// tenantRecord is the cached tenant row.
type tenantRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	IsActive bool   `json:"isActive"`
}
