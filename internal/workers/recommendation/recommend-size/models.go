// internal/workers/recommendation/recommend-size/models.go
package recommendsize

import "fitengine-workers/internal/models"

type Input struct {
	UserProfile  *models.UserProfile `json:"userProfile,omitempty"`
	Measurements models.Measurements `json:"measurements,omitempty"`
	ProductID    string              `json:"productId,omitempty"`
	Product      *ProductSpec        `json:"product,omitempty"`
	QuickMode    bool                `json:"quickMode,omitempty"`
}

// ProductSpec carries the garment data inline when the caller already
// has it and no catalog lookup is needed.
type ProductSpec struct {
	FitType           models.FitType           `json:"fitType"`
	FabricComposition models.FabricComposition `json:"fabricComposition,omitempty"`
	SizeChart         models.SizeChart         `json:"sizeChart"`
}

type Output struct {
	Recommendation   *models.Recommendation `json:"recommendation"`
	BodyMeasurements models.Measurements    `json:"bodyMeasurements"`
}
