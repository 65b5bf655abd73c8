// internal/sizing/engine/phrases.go
package engine

import (
	"strings"

	"fitengine-workers/internal/models"
)

// phrase holds the English and Turkish wording for one fit finding.
type phrase struct {
	en string
	tr string
}

var fitPhrases = map[models.FitStatus]map[string]phrase{
	models.FitStatusTight: {
		"chest":    {"Tight on chest", "Göğüste dar"},
		"waist":    {"Tight on waist", "Belde dar"},
		"hip":      {"Tight on hips", "Kalçada dar"},
		"shoulder": {"Tight on shoulders", "Omuzlarda dar"},
	},
	models.FitStatusFitted: {
		"chest":    {"Fitted on chest", "Göğüste oturumlu"},
		"waist":    {"Fitted on waist", "Belde oturumlu"},
		"hip":      {"Fitted on hips", "Kalçada oturumlu"},
		"shoulder": {"Fitted on shoulders", "Omuzlarda oturumlu"},
	},
	models.FitStatusComfortable: {
		"chest":    {"Comfortable chest fit", "Göğüste rahat"},
		"waist":    {"Comfortable waist fit", "Belde rahat"},
		"hip":      {"Comfortable hip fit", "Kalçada rahat"},
		"shoulder": {"Comfortable shoulder fit", "Omuzlarda rahat"},
	},
	models.FitStatusLoose: {
		"chest":    {"Roomy on chest", "Göğüste bol"},
		"waist":    {"Roomy on waist", "Belde bol"},
		"hip":      {"Roomy on hips", "Kalçada bol"},
		"shoulder": {"Roomy on shoulders", "Omuzlarda bol"},
	},
	models.FitStatusVeryLoose: {
		"chest":    {"Very loose on chest", "Göğüste çok bol"},
		"waist":    {"Very loose on waist", "Belde çok bol"},
		"hip":      {"Very loose on hips", "Kalçada çok bol"},
		"shoulder": {"Very loose on shoulders", "Omuzlarda çok bol"},
	},
}

var goodFitPhrase = phrase{"Good overall fit", "Genel olarak iyi uyum"}

// describeFit renders the notable findings (tight/loose/very_loose) of
// a breakdown as bilingual sentences, or the good-fit default when
// nothing stands out.
func (e *Engine) describeFit(breakdowns []models.SizeBreakdown) (string, string) {
	var issuesEN, issuesTR []string

	for _, b := range breakdowns {
		switch b.FitStatus {
		case models.FitStatusTight, models.FitStatusLoose, models.FitStatusVeryLoose:
			p, ok := fitPhrases[b.FitStatus][b.Measurement]
			if !ok {
				p = phrase{titleStatus(b.FitStatus) + " fit", "Genel uyum"}
			}
			issuesEN = append(issuesEN, p.en)
			issuesTR = append(issuesTR, p.tr)
		}
	}

	if len(issuesEN) == 0 {
		return goodFitPhrase.en, goodFitPhrase.tr
	}

	return strings.Join(issuesEN, ". ") + ".", strings.Join(issuesTR, ". ") + "."
}

func titleStatus(status models.FitStatus) string {
	s := strings.ReplaceAll(string(status), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
