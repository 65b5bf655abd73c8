// internal/workers/catalog/scrape-listings/fabric.go
package scrapelistings

import (
	"regexp"
	"strconv"
	"strings"

	"fitengine-workers/internal/models"
)

// fiberNames maps Turkish fiber names as they appear on listing pages
// to the canonical names the engine's stretch table knows.
var fiberNames = map[string]string{
	"pamuk":     "cotton",
	"elastan":   "elastane",
	"likra":     "lycra",
	"viskon":    "viscose",
	"viskoz":    "viscose",
	"yün":       "wool",
	"keten":     "linen",
	"akrilik":   "acrylic",
	"naylon":    "nylon",
	"polyamid":  "nylon",
	"poliamid":  "nylon",
	"ipek":      "silk",
	"polyester": "polyester",
	"poliester": "polyester",
	"modal":     "modal",
}

// fabricPattern matches "%95 Pamuk", "95% cotton", "5 % Elastan".
var fabricPattern = regexp.MustCompile(`%?\s*(\d+(?:[.,]\d+)?)\s*%?\s+([\p{L}]+)`)

// parseFabric turns a free-text composition line into a normalized
// fiber map. Unknown fiber names are kept lowercased as-is so the
// engine's substring matching still has a chance.
func parseFabric(raw string) models.FabricComposition {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fabric := models.FabricComposition{}
	for _, match := range fabricPattern.FindAllStringSubmatch(raw, -1) {
		pct, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil || pct <= 0 || pct > 100 {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(match[2]))
		if canonical, ok := fiberNames[name]; ok {
			name = canonical
		}
		fabric[name] += pct
	}

	if len(fabric) == 0 {
		return nil
	}
	return fabric
}
