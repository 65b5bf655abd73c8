// internal/workers/catalog/ingest-product/models.go
package ingestproduct

import "fitengine-workers/internal/common/validation"

type Input struct {
	// Product is kept untyped until schema validation has passed.
	Product map[string]interface{} `json:"product"`
}

// productPayload is the snake_case wire form merchants send; it is
// converted to models.Product after validation.
type productPayload struct {
	ExternalID        string                        `json:"external_id"`
	TenantID          string                        `json:"tenant_id"`
	Name              string                        `json:"name"`
	Brand             string                        `json:"brand"`
	Category          string                        `json:"category"`
	ImageURL          string                        `json:"image_url"`
	ProductURL        string                        `json:"product_url"`
	FitType           string                        `json:"fit_type"`
	FabricComposition map[string]float64            `json:"fabric_composition"`
	SizeChart         map[string]map[string]float64 `json:"size_chart"`
}

type Output struct {
	ProductID  string                       `json:"productId"`
	Status     string                       `json:"status"`
	Indexed    bool                         `json:"indexed"`
	Validation *validation.ValidationResult `json:"validation,omitempty"`
}
