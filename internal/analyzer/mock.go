package analyzer

import (
	"context"
	"encoding/json"
	"strings"
)

// MockFoodName is the food every DEV_MOCK analysis reports.
const MockFoodName = "Mock Food"

// Mock is the DEV_MOCK analyzer. It never leaves the process and always
// describes the same 250 kcal meal.
type Mock struct{}

var _ Analyzer = Mock{}

func (Mock) AnalyzeImage(ctx context.Context, _ Image, quantity string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	serving := strings.TrimSpace(quantity)
	if serving == "" {
		serving = "1 serving"
	}
	b, err := json.Marshal(map[string]any{
		"foodName":    MockFoodName,
		"servingSize": serving,
		"isHealthy":   true,
		"calories":    250,
		"macronutrients": map[string]float64{
			"protein": 12, "carbs": 30, "fat": 10, "fiber": 3, "sugar": 5,
		},
		"micronutrients": map[string]float64{
			"sodium": 50, "cholesterol": 10, "vitaminA": 0.5, "vitaminC": 2,
			"calcium": 20, "iron": 1, "potassium": 150, "magnesium": 10,
			"zinc": 0.5, "vitaminD": 0, "vitaminB12": 0,
		},
		"nutritionBreakdown": map[string]float64{
			"proteinPercent": 20, "carbsPercent": 60, "fatPercent": 20,
		},
		"healthMetrics": map[string]any{
			"healthScore": 70,
			"benefits":    []string{"Protein source"},
			"concerns":    []string{},
		},
		"portionEstimate": map[string]any{
			"category": "medium", "grams": 250, "multiplier": 1, "confidence": 0.7,
		},
		"analysis":       "This is a mock analysis.",
		"recommendation": "Add vegetables for fiber.",
	})
	if err != nil {
		return "", err
	}
	// fenced like a real model answer so the normalizer path is exercised
	return "```json\n" + string(b) + "\n```", nil
}

func (Mock) Chat(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := json.Marshal(map[string]any{
		"text":      "Mock answer to: " + message,
		"report":    map[string]float64{"carbs": 30, "protein": 12, "fats": 10},
		"healthTip": "Drink water with every meal.",
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
