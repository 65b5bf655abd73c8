// internal/models/recommendation.go
package models

// BodyShape is a coarse five-way body classification.
type BodyShape string

const (
	BodyShapeAthletic BodyShape = "athletic"
	BodyShapeAverage  BodyShape = "average"
	BodyShapeSlim     BodyShape = "slim"
	BodyShapeStocky   BodyShape = "stocky"
	BodyShapePlusSize BodyShape = "plus_size"
)

// FitType selects the garment's base ease profile.
type FitType string

const (
	FitTypeSlim     FitType = "slim_fit"
	FitTypeRegular  FitType = "regular_fit"
	FitTypeLoose    FitType = "loose_fit"
	FitTypeOversize FitType = "oversized"
)

// PreferredFit is the user's stated deviation from true-to-size.
type PreferredFit string

const (
	PreferTighter    PreferredFit = "tighter"
	PreferTrueToSize PreferredFit = "true_to_size"
	PreferLooser     PreferredFit = "looser"
)

// FitStatus classifies how much ease a single measurement receives.
type FitStatus string

const (
	FitStatusTight       FitStatus = "tight"
	FitStatusFitted      FitStatus = "fitted"
	FitStatusComfortable FitStatus = "comfortable"
	FitStatusLoose       FitStatus = "loose"
	FitStatusVeryLoose   FitStatus = "very_loose"
)

// Measurements maps a measurement name (chest, waist, hip, shoulder,
// foot_length) to a value in centimeters.
type Measurements map[string]float64

// SizeBreakdown is the per-measurement detail for a scored size.
type SizeBreakdown struct {
	Measurement   string    `json:"measurement"`
	UserEstimated float64   `json:"userEstimated"`
	GarmentActual float64   `json:"garmentActual"`
	EaseApplied   float64   `json:"easeApplied"`
	FitStatus     FitStatus `json:"fitStatus"`
}

// Recommendation is the externally visible result of a size recommendation.
type Recommendation struct {
	RecommendedSize  string          `json:"recommendedSize"`
	ConfidenceScore  int             `json:"confidenceScore"`
	FitDescription   string          `json:"fitDescription"`
	FitDescriptionTR string          `json:"fitDescriptionTr"`
	SizeBreakdown    []SizeBreakdown `json:"sizeBreakdown"`
	AlternativeSize  string          `json:"alternativeSize,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// BodyAnalysis is the diagnostic output of the body estimator.
type BodyAnalysis struct {
	BMI          float64            `json:"bmi"`
	BMICategory  string             `json:"bmiCategory"`
	Measurements Measurements       `json:"measurements"`
	Proportions  map[string]float64 `json:"proportions"`
}

// UserProfile is the input to the body estimator.
type UserProfile struct {
	HeightCM     float64      `json:"heightCm"`
	WeightKG     float64      `json:"weightKg"`
	BodyShape    BodyShape    `json:"bodyShape,omitempty"`
	Age          int          `json:"age,omitempty"`
	PreferredFit PreferredFit `json:"preferredFit,omitempty"`
}
