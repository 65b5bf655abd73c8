// internal/sizing/estimator/estimator.go
package estimator

import (
	"errors"
	"math"

	"fitengine-workers/internal/models"
)

var (
	ErrInvalidProfile = errors.New("PROFILE_INVALID")
)

// dimensions is the stable processing order for the four derived values.
var dimensions = []string{"chest", "waist", "hip", "shoulder"}

// Estimator derives body measurements from height, weight and optional
// descriptors using fixed anthropometric ratios. It is pure and
// safe for concurrent use.
type Estimator struct {
	cfg *Config
}

func New(cfg *Config) *Estimator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Estimator{cfg: cfg}
}

// BMI computes body mass index from height (cm) and weight (kg).
func (e *Estimator) BMI(heightCM, weightKG float64) float64 {
	heightM := heightCM / 100
	return weightKG / (heightM * heightM)
}

// Estimate derives chest, waist, hip, shoulder and foot_length in cm.
// Unknown body shapes behave as average; age only matters past the
// configured threshold and only for waist and hip.
func (e *Estimator) Estimate(profile models.UserProfile) (models.Measurements, error) {
	if profile.HeightCM <= 0 || profile.WeightKG <= 0 {
		return nil, ErrInvalidProfile
	}

	shape := profile.BodyShape
	modifiers, ok := e.cfg.ShapeModifiers[shape]
	if !ok {
		modifiers = e.cfg.ShapeModifiers[models.BodyShapeAverage]
	}

	bmi := e.BMI(profile.HeightCM, profile.WeightKG)
	bmiDeviation := (bmi - e.cfg.ReferenceBMI) / e.cfg.ReferenceBMI

	measurements := make(models.Measurements, len(dimensions)+1)

	for _, dim := range dimensions {
		value := profile.HeightCM * e.cfg.BaseRatios[dim]
		value *= modifiers[dim]
		value *= 1 + bmiDeviation*e.cfg.BMIImpact[dim]

		if profile.Age > e.cfg.AgeThreshold && (dim == "waist" || dim == "hip") {
			ageFactor := 1 + float64(profile.Age-e.cfg.AgeThreshold)*e.cfg.AgeRatePerYear
			value *= math.Min(ageFactor, e.cfg.AgeMaxFactor)
		}

		measurements[dim] = round1(value)
	}

	// Foot length tracks height only, no shape or BMI adjustment.
	measurements["foot_length"] = round1(profile.HeightCM * e.cfg.FootRatio)

	return measurements, nil
}

// Analyze returns the measurement set together with BMI, its category
// and two proportion ratios. Diagnostic only, not used for sizing.
func (e *Estimator) Analyze(profile models.UserProfile) (*models.BodyAnalysis, error) {
	measurements, err := e.Estimate(profile)
	if err != nil {
		return nil, err
	}

	bmi := e.BMI(profile.HeightCM, profile.WeightKG)

	var category string
	switch {
	case bmi < 18.5:
		category = "underweight"
	case bmi < 25:
		category = "normal"
	case bmi < 30:
		category = "overweight"
	default:
		category = "obese"
	}

	return &models.BodyAnalysis{
		BMI:          round1(bmi),
		BMICategory:  category,
		Measurements: measurements,
		Proportions: map[string]float64{
			"waist_to_hip_ratio":   round2(measurements["waist"] / measurements["hip"]),
			"chest_to_waist_ratio": round2(measurements["chest"] / measurements["waist"]),
		},
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
