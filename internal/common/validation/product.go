// internal/common/validation/product.go
package validation

import (
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Accepted garment measurement ranges in cm.
var measurementRanges = map[string][2]float64{
	"chest_width":    {30, 200},
	"waist":          {30, 200},
	"hip":            {30, 200},
	"shoulder_width": {20, 100},
	"length":         {30, 150},
	"sleeve_length":  {20, 120},
}

// productSchema is the JSON schema for an incoming product payload.
var productSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"external_id": map[string]interface{}{"type": "string", "minLength": 1},
		"tenant_id":   map[string]interface{}{"type": "string", "minLength": 1},
		"name":        map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 500},
		"brand":       map[string]interface{}{"type": "string"},
		"category":    map[string]interface{}{"type": "string"},
		"image_url":   map[string]interface{}{"type": "string"},
		"product_url": map[string]interface{}{"type": "string"},
		"fit_type": map[string]interface{}{
			"type": "string",
			"enum": []string{"slim_fit", "regular_fit", "loose_fit", "oversized"},
		},
		"fabric_composition": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"size_chart": map[string]interface{}{
			"type":          "object",
			"minProperties": 1,
			"additionalProperties": map[string]interface{}{
				"type": "object",
				"additionalProperties": map[string]interface{}{
					"type": "number",
				},
			},
		},
	},
	"required": []string{"tenant_id", "name", "fit_type", "size_chart"},
}

// ValidateProduct checks a raw product payload against the product schema,
// the measurement ranges, and the fabric percentage sum.
func ValidateProduct(payload map[string]interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	schemaLoader := gojsonschema.NewGoLoader(productSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	schemaResult, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "",
			Message: err.Error(),
			Code:    "SCHEMA_ERROR",
		})
		return result
	}

	if !schemaResult.Valid() {
		result.Valid = false
		for _, desc := range schemaResult.Errors() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
				Code:    "SCHEMA_VIOLATION",
			})
		}
	}

	if sizeChart, ok := payload["size_chart"].(map[string]interface{}); ok {
		validateSizeChart(sizeChart, result)
	}

	if fabric, ok := payload["fabric_composition"].(map[string]interface{}); ok && len(fabric) > 0 {
		validateFabricSum(fabric, result)
	}

	return result
}

func validateSizeChart(sizeChart map[string]interface{}, result *ValidationResult) {
	for sizeCode, raw := range sizeChart {
		measurements, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		for key, value := range measurements {
			bounds, known := measurementRanges[key]
			if !known {
				continue
			}
			num, ok := value.(float64)
			if !ok {
				continue
			}
			if num < bounds[0] || num > bounds[1] {
				result.Valid = false
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("size_chart.%s.%s", sizeCode, key),
					Message: fmt.Sprintf("value %.1f outside accepted range [%.0f, %.0f]", num, bounds[0], bounds[1]),
					Code:    "MEASUREMENT_OUT_OF_RANGE",
				})
			}
		}
	}
}

// Fabric percentages must sum to roughly 100; scraped compositions
// often carry rounding noise, so a 99-101 band is accepted.
func validateFabricSum(fabric map[string]interface{}, result *ValidationResult) {
	sum := 0.0
	for _, v := range fabric {
		if num, ok := v.(float64); ok {
			sum += num
		}
	}
	if math.Abs(sum-100) > 1 {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "fabric_composition",
			Message: fmt.Sprintf("percentages sum to %.1f, expected 99-101", sum),
			Code:    "FABRIC_SUM_INVALID",
		})
	}
}
