// internal/sizing/engine/engine_test.go
package engine

import (
	"testing"

	"fitengine-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Body of a 180cm/85kg average-shape user, as the estimator derives it.
func testBody() models.Measurements {
	return models.Measurements{
		"chest":       106.0,
		"waist":       95.0,
		"hip":         109.7,
		"shoulder":    45.4,
		"foot_length": 27.5,
	}
}

func testSizeChart() models.SizeChart {
	return models.SizeChart{
		"S":  {"chest_width": 104, "length": 72},
		"M":  {"chest_width": 110, "length": 74},
		"L":  {"chest_width": 116, "length": 76},
		"XL": {"chest_width": 122, "length": 78},
	}
}

// ==========================
// Stretch Reduction Tests
// ==========================

func TestStretchReduction(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		fabric   models.FabricComposition
		expected float64
	}{
		{"no fabric", models.FabricComposition{}, 0},
		{"pure cotton", models.FabricComposition{"cotton": 100}, 0},
		{"5% elastane", models.FabricComposition{"cotton": 95, "elastane": 5}, 0.125},
		{"full elastane", models.FabricComposition{"elastane": 100}, 2.5},
		{"jersey blend", models.FabricComposition{"jersey": 60, "cotton": 40}, 0.9},
		{"polyester alone is not a blend", models.FabricComposition{"polyester": 100}, 0},
		{"polyester_blend", models.FabricComposition{"polyester_blend": 50, "cotton": 50}, 0.5},
		{"case insensitive", models.FabricComposition{"Elastane": 10}, 0.25},
		{"capped at 4", models.FabricComposition{"elastane": 100, "lycra": 80}, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, e.StretchReduction(tt.fabric), 1e-9)
		})
	}
}

func TestRequiredEase(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name      string
		fitType   models.FitType
		fabric    models.FabricComposition
		dimension string
		expected  float64
	}{
		{"regular chest no stretch", models.FitTypeRegular, nil, "chest", 5},
		{"slim waist no stretch", models.FitTypeSlim, nil, "waist", 2},
		{"loose hip no stretch", models.FitTypeLoose, nil, "hip", 10},
		{"oversized chest no stretch", models.FitTypeOversize, nil, "chest", 15},
		{"shoulder falls back to default", models.FitTypeSlim, nil, "shoulder", 5},
		{"mild stretch keeps 1cm floor", models.FitTypeSlim, models.FabricComposition{"jersey": 100}, "waist", 1},
		{"heavy stretch can reach zero", models.FitTypeSlim, models.FabricComposition{"elastane": 100}, "waist", 0},
		{"regular chest 5% elastane", models.FitTypeRegular, models.FabricComposition{"cotton": 95, "elastane": 5}, "chest", 4.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, e.RequiredEase(tt.fitType, tt.fabric, tt.dimension), 1e-9)
		})
	}
}

// ==========================
// Scoring Tests
// ==========================

func TestScoreSize_FitStages(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 100}

	// Regular fit, no stretch: required chest ease is 5.
	tests := []struct {
		name     string
		garment  float64
		status   models.FitStatus
		expected float64
	}{
		{"6cm deficit floors at zero", 94, models.FitStatusTight, 0},
		{"2cm deficit", 98, models.FitStatusTight, 20},
		{"exact body size", 100, models.FitStatusTight, 50},
		{"fitted band", 102.5, models.FitStatusFitted, 75},
		{"comfortable band", 104, models.FitStatusComfortable, 100},
		{"loose band", 106, models.FitStatusLoose, 85},
		{"very loose band", 107.5, models.FitStatusVeryLoose, 60},
	}

	var prev float64
	peaked := false
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, breakdowns := e.ScoreSize(body, models.GarmentMeasurements{"chest_width": tt.garment}, models.FitTypeRegular, nil, models.PreferTrueToSize)
			assert.InDelta(t, tt.expected, score, 1e-9)
			require.Len(t, breakdowns, 1)
			assert.Equal(t, tt.status, breakdowns[0].FitStatus)
			assert.Equal(t, "chest", breakdowns[0].Measurement)

			// Score rises to the comfortable peak, then falls.
			if i > 0 {
				if peaked {
					assert.LessOrEqual(t, score, prev)
				} else {
					assert.GreaterOrEqual(t, score, prev)
				}
			}
			if tt.status == models.FitStatusComfortable {
				peaked = true
			}
			prev = score
		})
	}
}

func TestScoreSize_WeightedAggregation(t *testing.T) {
	e := New(nil)
	body := testBody()

	garment := models.GarmentMeasurements{
		"chest_width":    110, // comfortable (space 4, ease 5)
		"waist":          100, // comfortable (space 5)
		"hip":            115, // comfortable (space 5.3)
		"shoulder_width": 46,  // tight (space 0.6, ease 5)
	}

	score, breakdowns := e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferTrueToSize)

	// 100*0.4 + 100*0.3 + 100*0.2 + 50*0.1 = 95
	assert.InDelta(t, 95, score, 1e-9)
	require.Len(t, breakdowns, 4)
	assert.Equal(t, "chest", breakdowns[0].Measurement)
	assert.Equal(t, "waist", breakdowns[1].Measurement)
	assert.Equal(t, "hip", breakdowns[2].Measurement)
	assert.Equal(t, "shoulder", breakdowns[3].Measurement)
	assert.Equal(t, models.FitStatusTight, breakdowns[3].FitStatus)
}

func TestScoreSize_MissingDimensionsExcludedFromWeights(t *testing.T) {
	e := New(nil)
	body := testBody()

	// Only the chest matches: the weight normalization must not
	// punish the absent waist/hip/shoulder entries.
	score, breakdowns := e.ScoreSize(body, models.GarmentMeasurements{"chest_width": 110, "length": 74}, models.FitTypeRegular, nil, models.PreferTrueToSize)

	assert.InDelta(t, 100, score, 1e-9)
	assert.Len(t, breakdowns, 1)
}

func TestScoreSize_NoMatchableDimension(t *testing.T) {
	e := New(nil)

	score, breakdowns := e.ScoreSize(testBody(), models.GarmentMeasurements{"length": 74, "sleeve_length": 60}, models.FitTypeRegular, nil, models.PreferTrueToSize)

	assert.InDelta(t, 80, score, 1e-9)
	assert.Empty(t, breakdowns)
}

func TestScoreSize_PreferenceBonus(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 100}

	// Space 6.5, ease 5, ratio 1.3: loose.
	garment := models.GarmentMeasurements{"chest_width": 106.5}

	neutral, _ := e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferTrueToSize)
	looser, _ := e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferLooser)
	tighter, _ := e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferTighter)

	assert.InDelta(t, 85, neutral, 1e-9)
	assert.InDelta(t, 95, looser, 1e-9)
	assert.InDelta(t, 85, tighter, 1e-9)

	// Space 2.5, ratio 0.5: fitted.
	garment = models.GarmentMeasurements{"chest_width": 102.5}

	neutral, _ = e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferTrueToSize)
	tighter, _ = e.ScoreSize(body, garment, models.FitTypeRegular, nil, models.PreferTighter)

	assert.InDelta(t, 75, neutral, 1e-9)
	assert.InDelta(t, 85, tighter, 1e-9)
}

func TestScoreSize_ZeroEaseUsesReferenceDivisor(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"waist": 80}

	// Slim waist ease 2 fully consumed by elastane: ease 0, ratio uses /5.
	score, breakdowns := e.ScoreSize(body, models.GarmentMeasurements{"waist": 82}, models.FitTypeSlim, models.FabricComposition{"elastane": 100}, models.PreferTrueToSize)

	require.Len(t, breakdowns, 1)
	assert.Equal(t, 0.0, breakdowns[0].EaseApplied)
	assert.Equal(t, models.FitStatusTight, breakdowns[0].FitStatus)
	assert.InDelta(t, 50, score, 1e-9)
}

// ==========================
// Recommendation Tests
// ==========================

func TestRecommend_RegularCottonTee(t *testing.T) {
	e := New(nil)

	rec, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeRegular, models.FabricComposition{"cotton": 100}, models.PreferTrueToSize)
	require.NoError(t, err)

	// M gives 4cm of space against the 5cm regular-fit ease target.
	assert.Equal(t, "M", rec.RecommendedSize)
	assert.Equal(t, 100, rec.ConfidenceScore)
	require.Len(t, rec.SizeBreakdown, 1)
	assert.Equal(t, models.FitStatusComfortable, rec.SizeBreakdown[0].FitStatus)
	assert.Equal(t, "Good overall fit", rec.FitDescription)
	assert.Equal(t, "Genel olarak iyi uyum", rec.FitDescriptionTR)
	assert.Empty(t, rec.AlternativeSize)
	assert.Empty(t, rec.Notes)
}

func TestRecommend_StretchLowersEaseNotOutcome(t *testing.T) {
	e := New(nil)

	cotton, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeRegular, models.FabricComposition{"cotton": 100}, models.PreferTrueToSize)
	require.NoError(t, err)

	stretch, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeRegular, models.FabricComposition{"cotton": 95, "elastane": 5}, models.PreferTrueToSize)
	require.NoError(t, err)

	// Same winner, but the applied ease reflects the stretch reduction.
	assert.Equal(t, cotton.RecommendedSize, stretch.RecommendedSize)
	assert.Less(t, stretch.SizeBreakdown[0].EaseApplied, cotton.SizeBreakdown[0].EaseApplied)
	assert.Equal(t, 4.9, stretch.SizeBreakdown[0].EaseApplied)
}

func TestRecommend_AlternativeWithinWindow(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 106}

	chart := models.SizeChart{
		"M": {"chest_width": 110}, // comfortable, 100
		"L": {"chest_width": 112}, // loose, 85
	}

	rec, err := e.Recommend(body, chart, models.FitTypeRegular, nil, models.PreferTrueToSize)
	require.NoError(t, err)

	assert.Equal(t, "M", rec.RecommendedSize)
	assert.Equal(t, "L", rec.AlternativeSize)
}

func TestRecommend_SingleSizeNeverHasAlternative(t *testing.T) {
	e := New(nil)

	rec, err := e.Recommend(testBody(), models.SizeChart{"M": {"chest_width": 110}}, models.FitTypeRegular, nil, models.PreferTrueToSize)
	require.NoError(t, err)

	assert.Equal(t, "M", rec.RecommendedSize)
	assert.Empty(t, rec.AlternativeSize)
}

func TestRecommend_TightWinnerGetsSizingUpNote(t *testing.T) {
	e := New(nil)

	rec, err := e.Recommend(testBody(), models.SizeChart{"S": {"chest_width": 104}}, models.FitTypeRegular, nil, models.PreferTrueToSize)
	require.NoError(t, err)

	assert.Equal(t, "S", rec.RecommendedSize)
	assert.Equal(t, 20, rec.ConfidenceScore)
	assert.Equal(t, "Tight on chest.", rec.FitDescription)
	assert.Equal(t, "Göğüste dar.", rec.FitDescriptionTR)
	assert.Equal(t, "Consider sizing up if you prefer a more relaxed fit.", rec.Notes)
}

func TestRecommend_VeryLooseWinnerGetsSizingDownNote(t *testing.T) {
	e := New(nil)

	rec, err := e.Recommend(testBody(), models.SizeChart{"XL": {"chest_width": 122}}, models.FitTypeRegular, nil, models.PreferTrueToSize)
	require.NoError(t, err)

	assert.Equal(t, "Very loose on chest.", rec.FitDescription)
	assert.Equal(t, "Göğüste çok bol.", rec.FitDescriptionTR)
	assert.Equal(t, "Consider sizing down for a more fitted look.", rec.Notes)
}

func TestRecommend_TightNoteTakesPrecedence(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 106, "hip": 100}

	// Chest tight, hip very loose on the same garment.
	chart := models.SizeChart{
		"M": {"chest_width": 104, "hip": 112},
	}

	rec, err := e.Recommend(body, chart, models.FitTypeRegular, nil, models.PreferTrueToSize)
	require.NoError(t, err)

	assert.Equal(t, "Tight on chest. Very loose on hips.", rec.FitDescription)
	assert.Equal(t, "Göğüste dar. Kalçada çok bol.", rec.FitDescriptionTR)
	assert.Equal(t, "Consider sizing up if you prefer a more relaxed fit.", rec.Notes)
}

func TestRecommend_TiesPreferSmallerSize(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 106}

	chart := models.SizeChart{
		"M": {"chest_width": 110},
		"L": {"chest_width": 110},
	}

	// Identical measurements score identically; iteration order of the
	// chart must not leak into the result.
	for i := 0; i < 20; i++ {
		rec, err := e.Recommend(body, chart, models.FitTypeRegular, nil, models.PreferTrueToSize)
		require.NoError(t, err)
		assert.Equal(t, "M", rec.RecommendedSize)
		assert.Equal(t, "L", rec.AlternativeSize)
	}
}

func TestRecommend_UnknownSizeCodesRankAlphabetically(t *testing.T) {
	e := New(nil)
	body := models.Measurements{"chest": 106}

	chart := models.SizeChart{
		"40": {"chest_width": 110},
		"42": {"chest_width": 110},
	}

	for i := 0; i < 20; i++ {
		rec, err := e.Recommend(body, chart, models.FitTypeRegular, nil, models.PreferTrueToSize)
		require.NoError(t, err)
		assert.Equal(t, "40", rec.RecommendedSize)
	}
}

func TestRecommend_EmptySizeChart(t *testing.T) {
	e := New(nil)

	_, err := e.Recommend(testBody(), models.SizeChart{}, models.FitTypeRegular, nil, models.PreferTrueToSize)
	assert.ErrorIs(t, err, ErrEmptySizeChart)
}

func TestRecommend_ConfidenceAlwaysInRange(t *testing.T) {
	e := New(nil)
	body := testBody()

	charts := []models.SizeChart{
		{"XS": {"chest_width": 80}},   // far too small
		{"XXL": {"chest_width": 160}}, // far too big
		testSizeChart(),
		{"M": {"length": 74}}, // nothing matchable
	}

	for _, chart := range charts {
		rec, err := e.Recommend(body, chart, models.FitTypeRegular, nil, models.PreferTrueToSize)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.ConfidenceScore, 0)
		assert.LessOrEqual(t, rec.ConfidenceScore, 100)
		assert.Contains(t, chart, rec.RecommendedSize)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	e := New(nil)

	first, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeSlim, models.FabricComposition{"cotton": 92, "elastane": 8}, models.PreferTighter)
	require.NoError(t, err)
	second, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeSlim, models.FabricComposition{"cotton": 92, "elastane": 8}, models.PreferTighter)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_EaseNeverNegativeInBreakdown(t *testing.T) {
	e := New(nil)

	rec, err := e.Recommend(testBody(), testSizeChart(), models.FitTypeSlim, models.FabricComposition{"elastane": 100, "lycra": 100}, models.PreferTrueToSize)
	require.NoError(t, err)

	for _, b := range rec.SizeBreakdown {
		assert.GreaterOrEqual(t, b.EaseApplied, 0.0)
	}
}
