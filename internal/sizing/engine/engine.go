// internal/sizing/engine/engine.go
package engine

import (
	"errors"
	"math"
	"sort"
	"strings"

	"fitengine-workers/internal/models"
)

var (
	ErrEmptySizeChart = errors.New("SIZE_CHART_EMPTY")
)

// Engine scores candidate sizes against estimated body measurements.
// The key concept is EASE (bolluk payı): a garment must be larger than
// the body to allow comfortable movement, and the required surplus
// varies by fit type and fabric stretch. Pure, safe for concurrent use.
type Engine struct {
	cfg *Config
}

func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// StretchReduction converts a fabric composition into an ease reduction
// in cm. Each fiber counts once via its first matching keyword,
// proportionally to its percentage; the total is capped.
func (e *Engine) StretchReduction(fabric models.FabricComposition) float64 {
	total := 0.0

	for fiber, percentage := range fabric {
		fiberLower := strings.ToLower(fiber)
		for _, sf := range e.cfg.StretchFibers {
			if strings.Contains(fiberLower, sf.Keyword) {
				total += sf.Reduction * (percentage / 100)
				break
			}
		}
	}

	return math.Min(total, e.cfg.MaxStretchReduction)
}

// RequiredEase returns the ease a dimension needs after stretch is
// accounted for. Very stretchy fabrics may drop the floor to zero;
// otherwise at least 1cm of ease is kept.
func (e *Engine) RequiredEase(fitType models.FitType, fabric models.FabricComposition, dimension string) float64 {
	baseEase := e.cfg.DefaultEase
	if table, ok := e.cfg.EaseTable[fitType]; ok {
		if v, ok := table[dimension]; ok {
			baseEase = v
		}
	}

	reduction := e.StretchReduction(fabric)
	adjusted := baseEase - reduction

	if reduction > 2 {
		return math.Max(adjusted, 0)
	}
	return math.Max(adjusted, 1)
}

func (e *Engine) fitStatus(availableSpace, requiredEase float64) models.FitStatus {
	var ratio float64
	if requiredEase == 0 {
		ratio = availableSpace / e.cfg.ZeroEaseReference
	} else {
		ratio = availableSpace / requiredEase
	}

	switch {
	case ratio < e.cfg.TightBelow:
		return models.FitStatusTight
	case ratio < e.cfg.FittedBelow:
		return models.FitStatusFitted
	case ratio < e.cfg.ComfortableBelow:
		return models.FitStatusComfortable
	case ratio < e.cfg.LooseBelow:
		return models.FitStatusLoose
	default:
		return models.FitStatusVeryLoose
	}
}

// ScoreSize scores one garment size against the body, 0-100, with a
// per-dimension breakdown. Dimensions missing on either side are
// skipped; a size with no matchable dimension gets the flat fallback.
func (e *Engine) ScoreSize(
	body models.Measurements,
	garment models.GarmentMeasurements,
	fitType models.FitType,
	fabric models.FabricComposition,
	preferredFit models.PreferredFit,
) (float64, []models.SizeBreakdown) {
	breakdowns := []models.SizeBreakdown{}

	measuredWeight := 0.0
	weightedScore := 0.0

	for _, pair := range e.cfg.GarmentKeyMapping {
		garmentValue, ok := garment[pair.GarmentKey]
		if !ok {
			continue
		}
		bodyValue, ok := body[pair.BodyKey]
		if !ok {
			continue
		}

		requiredEase := e.RequiredEase(fitType, fabric, pair.BodyKey)
		availableSpace := garmentValue - bodyValue
		status := e.fitStatus(availableSpace, requiredEase)

		var fitScore float64
		if availableSpace < 0 {
			// Garment smaller than body: steep penalty, zero at ~6cm deficit.
			fitScore = math.Max(0, 30+availableSpace*5)
		} else {
			fitScore = e.cfg.StatusScores[status]
		}

		if preferredFit == models.PreferTighter && (status == models.FitStatusFitted || status == models.FitStatusTight) {
			fitScore += e.cfg.PreferenceBonus
		} else if preferredFit == models.PreferLooser && (status == models.FitStatusLoose || status == models.FitStatusVeryLoose) {
			fitScore += e.cfg.PreferenceBonus
		}

		weight, ok := e.cfg.MeasurementWeights[pair.BodyKey]
		if !ok {
			weight = 0.1
		}
		measuredWeight += weight
		weightedScore += fitScore * weight

		breakdowns = append(breakdowns, models.SizeBreakdown{
			Measurement:   pair.BodyKey,
			UserEstimated: round1(bodyValue),
			GarmentActual: round1(garmentValue),
			EaseApplied:   round1(requiredEase),
			FitStatus:     status,
		})
	}

	var score float64
	if measuredWeight > 0 {
		score = weightedScore / measuredWeight
	} else {
		score = 100 - e.cfg.MissingMeasurementPenalty*4
	}

	return math.Max(0, math.Min(100, score)), breakdowns
}

// Recommend scores every size in the chart and picks the best one,
// with a runner-up when it lands within the alternative window.
func (e *Engine) Recommend(
	body models.Measurements,
	sizeChart models.SizeChart,
	fitType models.FitType,
	fabric models.FabricComposition,
	preferredFit models.PreferredFit,
) (*models.Recommendation, error) {
	if len(sizeChart) == 0 {
		return nil, ErrEmptySizeChart
	}

	type scoredSize struct {
		code       string
		score      float64
		breakdowns []models.SizeBreakdown
	}

	scored := make([]scoredSize, 0, len(sizeChart))
	for code, measurements := range sizeChart {
		score, breakdowns := e.ScoreSize(body, measurements, fitType, fabric, preferredFit)
		scored = append(scored, scoredSize{code: code, score: score, breakdowns: breakdowns})
	}

	// Highest score wins; ties go to the smaller size in canonical
	// order so results do not depend on map iteration.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		ri, rj := e.sizeRank(scored[i].code), e.sizeRank(scored[j].code)
		if ri != rj {
			return ri < rj
		}
		return scored[i].code < scored[j].code
	})

	best := scored[0]

	alternative := ""
	if len(scored) > 1 && scored[1].score >= best.score-e.cfg.AlternativeWindow {
		alternative = scored[1].code
	}

	descEN, descTR := e.describeFit(best.breakdowns)

	notes := ""
	if hasStatus(best.breakdowns, models.FitStatusTight) {
		notes = "Consider sizing up if you prefer a more relaxed fit."
	} else if hasStatus(best.breakdowns, models.FitStatusVeryLoose) {
		notes = "Consider sizing down for a more fitted look."
	}

	return &models.Recommendation{
		RecommendedSize:  best.code,
		ConfidenceScore:  int(best.score),
		FitDescription:   descEN,
		FitDescriptionTR: descTR,
		SizeBreakdown:    best.breakdowns,
		AlternativeSize:  alternative,
		Notes:            notes,
	}, nil
}

func (e *Engine) sizeRank(code string) int {
	for i, s := range e.cfg.SizeOrder {
		if strings.EqualFold(code, s) {
			return i
		}
	}
	return len(e.cfg.SizeOrder)
}

func hasStatus(breakdowns []models.SizeBreakdown, status models.FitStatus) bool {
	for _, b := range breakdowns {
		if b.FitStatus == status {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
