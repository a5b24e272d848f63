// Package nutrition turns model text into typed estimates and rescales
// meals for different portion sizes.
package nutrition

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"nutrilens/internal/model"
)

// Fallback texts used when the model answer is not usable JSON.
const (
	UnknownFood            = "Unknown"
	FallbackAnalysis       = "Could not parse AI response."
	FallbackRecommendation = "Try taking a clearer photo."
)

var (
	fenceRe   = regexp.MustCompile("(?i)```(?:json)?")
	leadNumRe = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// Fallback is the estimate stored when parsing fails.
func Fallback() model.Estimate {
	return model.Estimate{
		FoodName:       UnknownFood,
		IsHealthy:      false,
		Analysis:       FallbackAnalysis,
		Recommendation: FallbackRecommendation,
		HealthMetrics:  model.HealthMetrics{Benefits: []string{}, Concerns: []string{}},
	}
}

// Normalize parses raw model output. The boolean is false when the fallback was used.
func Normalize(raw string) (model.Estimate, bool) {
	obj, ok := ExtractObject(raw)
	if !ok {
		return Fallback(), false
	}
	return project(obj), true
}

// StripFences removes markdown code fences and surrounding whitespace.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// ExtractObject strips fences and decodes a JSON object, retrying on the
// outermost {...} span when the text around it is not JSON. Valid JSON that
// is not an object is rejected without repair.
func ExtractObject(raw string) (map[string]any, bool) {
	text := StripFences(raw)
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		obj, ok := v.(map[string]any)
		return obj, ok
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeObject(text[start : end+1])
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func project(obj map[string]any) model.Estimate {
	macro := object(obj, "macronutrients")
	micro := object(obj, "micronutrients")
	breakdown := object(obj, "nutritionBreakdown")
	metrics := object(obj, "healthMetrics")

	est := model.Estimate{
		FoodName:       text(obj, "foodName", model.MaxFoodNameLen),
		ServingSize:    text(obj, "servingSize", model.MaxServingSizeLen),
		IsHealthy:      boolean(obj["isHealthy"]),
		Calories:       model.CaloriesRange.Clamp(number(obj["calories"])),
		Analysis:       text(obj, "analysis", model.MaxAnalysisLen),
		Recommendation: text(obj, "recommendation", model.MaxRecommendationLen),
		Macronutrients: model.Macronutrients{
			Protein: model.ProteinRange.Clamp(number(macro["protein"])),
			Carbs:   model.CarbsRange.Clamp(number(macro["carbs"])),
			Fat:     model.FatRange.Clamp(number(macro["fat"])),
			Fiber:   model.FiberRange.Clamp(number(macro["fiber"])),
			Sugar:   model.SugarRange.Clamp(number(macro["sugar"])),
		},
		Micronutrients: model.Micronutrients{
			Sodium:      model.SodiumRange.Clamp(number(micro["sodium"])),
			Cholesterol: model.CholesterolRange.Clamp(number(micro["cholesterol"])),
			VitaminA:    model.VitaminARange.Clamp(number(micro["vitaminA"])),
			VitaminC:    model.VitaminCRange.Clamp(number(micro["vitaminC"])),
			Calcium:     model.CalciumRange.Clamp(number(micro["calcium"])),
			Iron:        model.IronRange.Clamp(number(micro["iron"])),
			Potassium:   model.PotassiumRange.Clamp(number(micro["potassium"])),
			Magnesium:   model.MagnesiumRange.Clamp(number(micro["magnesium"])),
			Zinc:        model.ZincRange.Clamp(number(micro["zinc"])),
			VitaminD:    model.VitaminDRange.Clamp(number(micro["vitaminD"])),
			VitaminB12:  model.VitaminB12Range.Clamp(number(micro["vitaminB12"])),
		},
		NutritionBreakdown: model.NutritionBreakdown{
			ProteinPercent: model.PercentRange.Clamp(number(breakdown["proteinPercent"])),
			CarbsPercent:   model.PercentRange.Clamp(number(breakdown["carbsPercent"])),
			FatPercent:     model.PercentRange.Clamp(number(breakdown["fatPercent"])),
		},
		HealthMetrics: model.HealthMetrics{
			HealthScore: model.PercentRange.Clamp(number(metrics["healthScore"])),
			Benefits:    stringList(metrics["benefits"]),
			Concerns:    stringList(metrics["concerns"]),
		},
		PortionEstimate: portion(object(obj, "portionEstimate")),
	}
	if est.FoodName == "" {
		est.FoodName = UnknownFood
	}
	return est
}

func portion(p map[string]any) *model.PortionEstimate {
	if len(p) == 0 {
		return nil
	}
	out := &model.PortionEstimate{
		Category:   text(p, "category", model.MaxServingSizeLen),
		Grams:      math.Max(number(p["grams"]), 0),
		Multiplier: number(p["multiplier"]),
		Confidence: model.Range{Min: 0, Max: 1}.Clamp(number(p["confidence"])),
	}
	if out.Multiplier <= 0 || math.IsInf(out.Multiplier, 0) {
		out.Multiplier = 1
	}
	return out
}

func object(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)
	return m
}

// number accepts JSON numbers, numeric strings and strings with a unit
// suffix ("12g"). Anything else is zero.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		s := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if m := leadNumRe.FindString(s); m != "" {
			f, _ := strconv.ParseFloat(m, 64)
			return f
		}
	}
	return 0
}

func boolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}

func text(obj map[string]any, key string, max int) string {
	var s string
	switch v := obj[key].(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
	return truncate(strings.TrimSpace(s), max)
}

func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			return []string{truncate(strings.TrimSpace(s), model.MaxMetricNoteLen)}
		}
		return out
	}
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, truncate(s, model.MaxMetricNoteLen))
		}
	}
	return out
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
