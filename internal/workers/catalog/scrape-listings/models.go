// internal/workers/catalog/scrape-listings/models.go
package scrapelistings

import "fitengine-workers/internal/models"

type Input struct {
	TenantID string   `json:"tenantId"`
	Brand    string   `json:"brand,omitempty"`
	FeedURLs []string `json:"feedUrls"`
}

type Output struct {
	Products []ScrapedProduct `json:"products"`
	Fetched  int              `json:"fetched"`
	Skipped  int              `json:"skipped"`
}

// ScrapedProduct is a normalized listing ready for ingest-product.
type ScrapedProduct struct {
	ExternalID        string                   `json:"external_id,omitempty"`
	TenantID          string                   `json:"tenant_id"`
	Name              string                   `json:"name"`
	Brand             string                   `json:"brand,omitempty"`
	Category          string                   `json:"category,omitempty"`
	ImageURL          string                   `json:"image_url,omitempty"`
	ProductURL        string                   `json:"product_url,omitempty"`
	FitType           string                   `json:"fit_type"`
	FabricComposition models.FabricComposition `json:"fabric_composition,omitempty"`
	SizeChart         models.SizeChart         `json:"size_chart"`
	ChartSource       string                   `json:"chart_source"` // "listing" or "brand_default"
}

// listing is the raw feed entry shape. Fabric arrives as free text,
// usually Turkish ("%95 Pamuk %5 Elastan").
type listing struct {
	ID         string                        `json:"id"`
	Name       string                        `json:"name"`
	Brand      string                        `json:"brand"`
	Category   string                        `json:"category"`
	ImageURL   string                        `json:"image_url"`
	ProductURL string                        `json:"product_url"`
	FitType    string                        `json:"fit_type"`
	Fabric     string                        `json:"fabric"`
	SizeChart  map[string]map[string]float64 `json:"size_chart"`
}

type feed struct {
	Listings []listing `json:"listings"`
}
