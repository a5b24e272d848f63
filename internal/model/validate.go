package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first field that violates the meal schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
}

// Clamp forces v into r. NaN and infinities become r.Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return r.Min
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

func (r Range) contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Text length limits, in characters.
const (
	MaxImagePathLen      = 500
	MaxFoodNameLen       = 100
	MaxServingSizeLen    = 50
	MaxAnalysisLen       = 1000
	MaxRecommendationLen = 500
	MaxMetricNoteLen     = 200
)

var (
	CaloriesRange = Range{0, 5000}
	PercentRange  = Range{0, 100}

	ProteinRange = Range{0, 1000}
	CarbsRange   = Range{0, 1000}
	FatRange     = Range{0, 1000}
	FiberRange   = Range{0, 100}
	SugarRange   = Range{0, 500}

	SodiumRange      = Range{0, 10000}
	CholesterolRange = Range{0, 1000}
	VitaminARange    = Range{0, 1000}
	VitaminCRange    = Range{0, 1000}
	CalciumRange     = Range{0, 2000}
	IronRange        = Range{0, 100}
	PotassiumRange   = Range{0, 5000}
	MagnesiumRange   = Range{0, 1000}
	ZincRange        = Range{0, 100}
	VitaminDRange    = Range{0, 100}
	VitaminB12Range  = Range{0, 100}
)

type numericField struct {
	name  string
	value float64
	rng   Range
}

// Validate checks the meal against the schema bounds.
func (m *Meal) Validate() error {
	if strings.TrimSpace(m.ImagePath) == "" {
		return &ValidationError{Field: "imagePath", Reason: "is required"}
	}
	if utf8.RuneCountInString(m.ImagePath) > MaxImagePathLen {
		return &ValidationError{Field: "imagePath", Reason: "too long"}
	}
	if strings.TrimSpace(m.FoodName) == "" {
		return &ValidationError{Field: "foodName", Reason: "is required"}
	}

	texts := []struct {
		name  string
		value string
		max   int
	}{
		{"foodName", m.FoodName, MaxFoodNameLen},
		{"servingSize", m.ServingSize, MaxServingSizeLen},
		{"analysis", m.Analysis, MaxAnalysisLen},
		{"recommendation", m.Recommendation, MaxRecommendationLen},
	}
	for _, t := range texts {
		if utf8.RuneCountInString(t.value) > t.max {
			return &ValidationError{Field: t.name, Reason: "too long"}
		}
	}
	for _, note := range append(append([]string{}, m.HealthMetrics.Benefits...), m.HealthMetrics.Concerns...) {
		if utf8.RuneCountInString(note) > MaxMetricNoteLen {
			return &ValidationError{Field: "healthMetrics", Reason: "note too long"}
		}
	}

	mac, mic, nb := m.Macronutrients, m.Micronutrients, m.NutritionBreakdown
	fields := []numericField{
		{"calories", m.Calories, CaloriesRange},
		{"macronutrients.protein", mac.Protein, ProteinRange},
		{"macronutrients.carbs", mac.Carbs, CarbsRange},
		{"macronutrients.fat", mac.Fat, FatRange},
		{"macronutrients.fiber", mac.Fiber, FiberRange},
		{"macronutrients.sugar", mac.Sugar, SugarRange},
		{"micronutrients.sodium", mic.Sodium, SodiumRange},
		{"micronutrients.cholesterol", mic.Cholesterol, CholesterolRange},
		{"micronutrients.vitaminA", mic.VitaminA, VitaminARange},
		{"micronutrients.vitaminC", mic.VitaminC, VitaminCRange},
		{"micronutrients.calcium", mic.Calcium, CalciumRange},
		{"micronutrients.iron", mic.Iron, IronRange},
		{"micronutrients.potassium", mic.Potassium, PotassiumRange},
		{"micronutrients.magnesium", mic.Magnesium, MagnesiumRange},
		{"micronutrients.zinc", mic.Zinc, ZincRange},
		{"micronutrients.vitaminD", mic.VitaminD, VitaminDRange},
		{"micronutrients.vitaminB12", mic.VitaminB12, VitaminB12Range},
		{"nutritionBreakdown.proteinPercent", nb.ProteinPercent, PercentRange},
		{"nutritionBreakdown.carbsPercent", nb.CarbsPercent, PercentRange},
		{"nutritionBreakdown.fatPercent", nb.FatPercent, PercentRange},
		{"healthMetrics.healthScore", m.HealthMetrics.HealthScore, PercentRange},
	}
	for _, f := range fields {
		if !f.rng.contains(f.value) {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be between %g and %g", f.rng.Min, f.rng.Max)}
		}
	}
	return nil
}
