// internal/sizing/estimator/config.go
package estimator

import "fitengine-workers/internal/models"

// Config holds the anthropometric coefficient tables. All values are
// empirically calibrated constants; they are injected rather than
// inlined so a recalibration pass can swap them without code changes.
type Config struct {
	// BaseRatios relate each dimension to height.
	BaseRatios map[string]float64

	// ShapeModifiers multiply the base value per body shape.
	ShapeModifiers map[models.BodyShape]map[string]float64

	// BMIImpact scales how strongly BMI deviation moves each dimension.
	BMIImpact map[string]float64

	// ReferenceBMI is the BMI treated as "average" (zero deviation).
	ReferenceBMI float64

	// FootRatio relates foot length to height.
	FootRatio float64

	// AgeRatePerYear is the waist/hip growth per year past AgeThreshold,
	// capped at AgeMaxFactor.
	AgeThreshold   int
	AgeRatePerYear float64
	AgeMaxFactor   float64
}

// DefaultConfig returns the calibrated production coefficient tables.
func DefaultConfig() *Config {
	return &Config{
		BaseRatios: map[string]float64{
			"chest":    0.52,
			"waist":    0.44,
			"hip":      0.53,
			"shoulder": 0.24,
		},
		ShapeModifiers: map[models.BodyShape]map[string]float64{
			models.BodyShapeAthletic: {
				"chest":    1.05,
				"waist":    0.92,
				"hip":      0.98,
				"shoulder": 1.08,
			},
			models.BodyShapeAverage: {
				"chest":    1.0,
				"waist":    1.0,
				"hip":      1.0,
				"shoulder": 1.0,
			},
			models.BodyShapeSlim: {
				"chest":    0.92,
				"waist":    0.88,
				"hip":      0.94,
				"shoulder": 0.95,
			},
			models.BodyShapeStocky: {
				"chest":    1.08,
				"waist":    1.12,
				"hip":      1.06,
				"shoulder": 1.05,
			},
			models.BodyShapePlusSize: {
				"chest":    1.15,
				"waist":    1.22,
				"hip":      1.18,
				"shoulder": 1.02,
			},
		},
		BMIImpact: map[string]float64{
			"chest":    0.8,
			"waist":    1.2, // Waist is most affected by weight
			"hip":      0.9,
			"shoulder": 0.3, // Shoulders least affected
		},
		ReferenceBMI:   22.5,
		FootRatio:      0.153,
		AgeThreshold:   40,
		AgeRatePerYear: 0.002,
		AgeMaxFactor:   1.05,
	}
}
