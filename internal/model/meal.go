package model

import "time"

// Macronutrients are gram amounts for one serving.
type Macronutrients struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Sugar   float64 `json:"sugar"`
}

// Micronutrients are milligram (or model-chosen unit) amounts for one serving.
type Micronutrients struct {
	Sodium      float64 `json:"sodium"`
	Cholesterol float64 `json:"cholesterol"`
	VitaminA    float64 `json:"vitaminA"`
	VitaminC    float64 `json:"vitaminC"`
	Calcium     float64 `json:"calcium"`
	Iron        float64 `json:"iron"`
	Potassium   float64 `json:"potassium"`
	Magnesium   float64 `json:"magnesium"`
	Zinc        float64 `json:"zinc"`
	VitaminD    float64 `json:"vitaminD"`
	VitaminB12  float64 `json:"vitaminB12"`
}

// NutritionBreakdown is the calorie split reported by the model.
// The three values are not required to sum to 100.
type NutritionBreakdown struct {
	ProteinPercent float64 `json:"proteinPercent"`
	CarbsPercent   float64 `json:"carbsPercent"`
	FatPercent     float64 `json:"fatPercent"`
}

type HealthMetrics struct {
	HealthScore float64  `json:"healthScore"`
	Benefits    []string `json:"benefits"`
	Concerns    []string `json:"concerns"`
}

// PortionEstimate describes the serving the current nutrition values refer to.
type PortionEstimate struct {
	Category   string  `json:"category,omitempty"`
	Grams      float64 `json:"grams,omitempty"`
	Multiplier float64 `json:"multiplier"`
	Confidence float64 `json:"confidence,omitempty"`
}

// OriginalNutrition is the first-computed nutrition snapshot. Portion
// adjustments always scale from it.
type OriginalNutrition struct {
	Calories       float64        `json:"calories"`
	Macronutrients Macronutrients `json:"macronutrients"`
}

// Estimate is the part of a meal produced by the analysis model.
type Estimate struct {
	FoodName           string             `json:"foodName"`
	ServingSize        string             `json:"servingSize"`
	IsHealthy          bool               `json:"isHealthy"`
	Calories           float64            `json:"calories"`
	Macronutrients     Macronutrients     `json:"macronutrients"`
	Micronutrients     Micronutrients     `json:"micronutrients"`
	NutritionBreakdown NutritionBreakdown `json:"nutritionBreakdown"`
	HealthMetrics      HealthMetrics      `json:"healthMetrics"`
	Analysis           string             `json:"analysis"`
	Recommendation     string             `json:"recommendation"`
	PortionEstimate    *PortionEstimate   `json:"portionEstimate,omitempty"`
}

// Meal is one analyzed food photo.
// Like the other models it carries no persistence tags; each store maps it to its own row/document shape.
type Meal struct {
	ID        string `json:"id"`
	ImagePath string `json:"imagePath"`
	Estimate
	OriginalNutrition OriginalNutrition `json:"originalNutrition"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// NewMeal builds a meal from a model estimate and snapshots its nutrition.
func NewMeal(id, imagePath string, est Estimate, createdAt time.Time) *Meal {
	if est.HealthMetrics.Benefits == nil {
		est.HealthMetrics.Benefits = []string{}
	}
	if est.HealthMetrics.Concerns == nil {
		est.HealthMetrics.Concerns = []string{}
	}
	return &Meal{
		ID:        id,
		ImagePath: imagePath,
		Estimate:  est,
		OriginalNutrition: OriginalNutrition{
			Calories:       est.Calories,
			Macronutrients: est.Macronutrients,
		},
		CreatedAt: createdAt,
	}
}

// NutritionBase returns the snapshot portion scaling starts from. Records
// persisted without a snapshot fall back to their current values.
func (m *Meal) NutritionBase() OriginalNutrition {
	if m.OriginalNutrition == (OriginalNutrition{}) {
		return OriginalNutrition{Calories: m.Calories, Macronutrients: m.Macronutrients}
	}
	return m.OriginalNutrition
}
