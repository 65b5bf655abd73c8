// internal/sizing/engine/config.go
package engine

import "fitengine-workers/internal/models"

// StretchFiber pairs a fiber-name keyword with its ease reduction in cm
// at 100% composition. Order matters: a fiber is counted once via its
// first matching keyword.
type StretchFiber struct {
	Keyword   string
	Reduction float64
}

// GarmentKeyPair maps a garment measurement key to its body counterpart.
type GarmentKeyPair struct {
	GarmentKey string
	BodyKey    string
}

// Config holds every tunable constant of the scoring model.
type Config struct {
	// EaseTable is the minimum comfortable ease (cm) per fit type
	// and dimension. Dimensions not listed fall back to DefaultEase.
	EaseTable   map[models.FitType]map[string]float64
	DefaultEase float64

	// StretchFibers and the cap on their combined reduction.
	StretchFibers       []StretchFiber
	MaxStretchReduction float64

	// Thresholds on the space/ease ratio, checked in order.
	TightBelow       float64
	FittedBelow      float64
	ComfortableBelow float64
	LooseBelow       float64

	// ZeroEaseReference replaces the divisor when required ease is 0.
	ZeroEaseReference float64

	// StatusScores are the raw per-dimension scores.
	StatusScores map[models.FitStatus]float64

	// PreferenceBonus rewards a status matching the stated preference.
	PreferenceBonus float64

	// MeasurementWeights aggregate per-dimension scores, normalized
	// over the dimensions actually present.
	MeasurementWeights map[string]float64

	// GarmentKeyMapping is the ordered garment-to-body key mapping.
	GarmentKeyMapping []GarmentKeyPair

	// MissingMeasurementPenalty applies x4 when nothing could be matched.
	MissingMeasurementPenalty float64

	// AlternativeWindow is the max score gap for offering a runner-up.
	AlternativeWindow float64

	// SizeOrder breaks score ties deterministically; unknown codes
	// rank after known ones, alphabetically.
	SizeOrder []string
}

// DefaultConfig returns the calibrated production scoring model.
func DefaultConfig() *Config {
	return &Config{
		EaseTable: map[models.FitType]map[string]float64{
			models.FitTypeSlim: {
				"chest": 3,
				"waist": 2,
				"hip":   2,
			},
			models.FitTypeRegular: {
				"chest": 5,
				"waist": 5,
				"hip":   5,
			},
			models.FitTypeLoose: {
				"chest": 10,
				"waist": 10,
				"hip":   10,
			},
			models.FitTypeOversize: {
				"chest": 15,
				"waist": 15,
				"hip":   15,
			},
		},
		DefaultEase: 5,

		StretchFibers: []StretchFiber{
			{Keyword: "elastane", Reduction: 2.5},
			{Keyword: "spandex", Reduction: 2.5},
			{Keyword: "lycra", Reduction: 2.5},
			{Keyword: "polyester_blend", Reduction: 1.0},
			{Keyword: "jersey", Reduction: 1.5},
			{Keyword: "stretch_cotton", Reduction: 1.5},
		},
		MaxStretchReduction: 4.0,

		TightBelow:       0.5,
		FittedBelow:      0.8,
		ComfortableBelow: 1.2,
		LooseBelow:       1.5,

		ZeroEaseReference: 5,

		StatusScores: map[models.FitStatus]float64{
			models.FitStatusTight:       50,
			models.FitStatusFitted:      75,
			models.FitStatusComfortable: 100,
			models.FitStatusLoose:       85,
			models.FitStatusVeryLoose:   60,
		},
		PreferenceBonus: 10,

		MeasurementWeights: map[string]float64{
			"chest":    0.4,
			"waist":    0.3,
			"hip":      0.2,
			"shoulder": 0.1,
		},

		GarmentKeyMapping: []GarmentKeyPair{
			{GarmentKey: "chest_width", BodyKey: "chest"},
			{GarmentKey: "chest", BodyKey: "chest"},
			{GarmentKey: "waist", BodyKey: "waist"},
			{GarmentKey: "hip", BodyKey: "hip"},
			{GarmentKey: "shoulder_width", BodyKey: "shoulder"},
		},

		MissingMeasurementPenalty: 5,
		AlternativeWindow:         15,

		SizeOrder: []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"},
	}
}
