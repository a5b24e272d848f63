package nutrition

import (
	"errors"
	"math"

	"nutrilens/internal/model"
)

// DefaultPortionGrams is the reference weight when a meal has no gram estimate.
const DefaultPortionGrams = 250.0

// ErrInvalidPortion is returned for a non-positive multiplier or gram weight.
var ErrInvalidPortion = errors.New("portion multiplier and grams must be positive numbers")

// PortionRequest is a client's requested serving. Nil fields were not sent.
type PortionRequest struct {
	Multiplier *float64 `json:"multiplier,omitempty"`
	Grams      *float64 `json:"grams,omitempty"`
	Category   *string  `json:"category,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Resolve returns the scale factor: an explicit multiplier wins, then
// grams relative to the previous gram estimate, otherwise 1.
func (r PortionRequest) Resolve(prev *model.PortionEstimate) (float64, error) {
	switch {
	case r.Multiplier != nil:
		if !positive(*r.Multiplier) {
			return 0, ErrInvalidPortion
		}
		return *r.Multiplier, nil
	case r.Grams != nil:
		if !positive(*r.Grams) {
			return 0, ErrInvalidPortion
		}
		base := DefaultPortionGrams
		if prev != nil && positive(prev.Grams) {
			base = prev.Grams
		}
		return *r.Grams / base, nil
	default:
		return 1, nil
	}
}

// ApplyPortion rescales calories, protein, carbs and fat of m from its
// original snapshot and merges req into the portion estimate. Other fields
// are untouched.
func ApplyPortion(m *model.Meal, req PortionRequest) error {
	mult, err := req.Resolve(m.PortionEstimate)
	if err != nil {
		return err
	}

	base := m.NutritionBase()
	if m.OriginalNutrition == (model.OriginalNutrition{}) {
		m.OriginalNutrition = base
	}

	m.Calories = model.CaloriesRange.Clamp(Round1(base.Calories * mult))
	m.Macronutrients.Protein = model.ProteinRange.Clamp(Round1(base.Macronutrients.Protein * mult))
	m.Macronutrients.Carbs = model.CarbsRange.Clamp(Round1(base.Macronutrients.Carbs * mult))
	m.Macronutrients.Fat = model.FatRange.Clamp(Round1(base.Macronutrients.Fat * mult))

	next := model.PortionEstimate{}
	if m.PortionEstimate != nil {
		next = *m.PortionEstimate
	}
	if req.Grams != nil {
		next.Grams = *req.Grams
	}
	if req.Category != nil {
		next.Category = *req.Category
	}
	if req.Confidence != nil {
		next.Confidence = model.Range{Min: 0, Max: 1}.Clamp(*req.Confidence)
	}
	next.Multiplier = mult
	m.PortionEstimate = &next
	return nil
}

// Round1 rounds half up to one decimal place.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
