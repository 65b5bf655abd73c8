// internal/models/product.go
package models

// FabricComposition maps a fiber name to its percentage (0-100).
type FabricComposition map[string]float64

// GarmentMeasurements maps a garment dimension key (chest_width, waist,
// hip, shoulder_width, length, sleeve_length) to centimeters.
type GarmentMeasurements map[string]float64

// SizeChart maps a size code (S, M, L...) to its garment measurements.
type SizeChart map[string]GarmentMeasurements

// Product is a catalog entry with everything the engine needs to score sizes.
type Product struct {
	ID                string            `json:"id"`
	ExternalID        string            `json:"externalId,omitempty"`
	TenantID          string            `json:"tenantId"`
	Name              string            `json:"name"`
	Brand             string            `json:"brand,omitempty"`
	Category          string            `json:"category,omitempty"`
	ImageURL          string            `json:"imageUrl,omitempty"`
	ProductURL        string            `json:"productUrl,omitempty"`
	FitType           FitType           `json:"fitType"`
	FabricComposition FabricComposition `json:"fabricComposition,omitempty"`
	SizeChart         SizeChart         `json:"sizeChart"`
}

// Tenant is a widget customer identified by API key.
type Tenant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	APIKey   string `json:"apiKey"`
	Domain   string `json:"domain,omitempty"`
	IsActive bool   `json:"isActive"`
}

// WidgetEvent is a telemetry event emitted by the embedded widget.
type WidgetEvent struct {
	ID        string                 `json:"id"`
	TenantID  string                 `json:"tenantId"`
	SessionID string                 `json:"sessionId"`
	EventType string                 `json:"eventType"`
	ProductID string                 `json:"productId,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt string                 `json:"createdAt"`
}
