// internal/workers/recommendation/estimate-body-measurements/models.go
package estimatebodymeasurements

import "fitengine-workers/internal/models"

type Input struct {
	Operation   string             `json:"operation,omitempty"`
	UserProfile models.UserProfile `json:"userProfile"`
}

type Output struct {
	Measurements models.Measurements  `json:"measurements,omitempty"`
	Analysis     *models.BodyAnalysis `json:"analysis,omitempty"`
}
