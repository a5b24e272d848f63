package nutrition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FencedJSON(t *testing.T) {
	raw := "```json\n{\"foodName\":\"Apple\",\"calories\":95}\n```"

	est, ok := Normalize(raw)

	require.True(t, ok)
	assert.Equal(t, "Apple", est.FoodName)
	assert.Equal(t, 95.0, est.Calories)
	assert.False(t, est.IsHealthy)
	assert.Equal(t, []string{}, est.HealthMetrics.Benefits)
	assert.Nil(t, est.PortionEstimate)
}

func TestNormalize_NotJSON(t *testing.T) {
	est, ok := Normalize("I cannot analyze this image")

	assert.False(t, ok)
	assert.Equal(t, Fallback(), est)
	assert.Equal(t, "Unknown", est.FoodName)
	assert.Equal(t, "Could not parse AI response.", est.Analysis)
	assert.Equal(t, "Try taking a clearer photo.", est.Recommendation)
	assert.Zero(t, est.Calories)
}

func TestNormalize_Cases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "uppercase fence", raw: "```JSON\n{\"foodName\":\"Rice\"}\n```", ok: true},
		{name: "prose around object", raw: "Sure! Here it is: {\"foodName\":\"Rice\"} Enjoy.", ok: true},
		{name: "array is not an object", raw: `[{"foodName":"Rice"}]`, ok: false},
		{name: "broken braces", raw: `{"foodName": "Rice"`, ok: false},
		{name: "empty", raw: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "Rice", est.FoodName)
			} else {
				assert.Equal(t, UnknownFood, est.FoodName)
			}
		})
	}
}

func TestNormalize_CoercesAndClamps(t *testing.T) {
	raw := `{
		"foodName": "  Pizza  ",
		"servingSize": 2,
		"isHealthy": "true",
		"calories": "9000",
		"macronutrients": {"protein": "12g", "carbs": "abc", "fat": -4, "fiber": 150, "sugar": "7.5"},
		"micronutrients": {"sodium": 640, "vitaminB12": "0.4mcg"},
		"nutritionBreakdown": {"proteinPercent": 20, "carbsPercent": 50, "fatPercent": 140},
		"healthMetrics": {"healthScore": 45, "benefits": ["Calcium", "", 3], "concerns": "High sodium"},
		"portionEstimate": {"category": "large", "grams": "400", "multiplier": 0, "confidence": 2},
		"analysis": "` + strings.Repeat("a", 1200) + `"
	}`

	est, ok := Normalize(raw)

	require.True(t, ok)
	assert.Equal(t, "Pizza", est.FoodName)
	assert.Equal(t, "2", est.ServingSize)
	assert.True(t, est.IsHealthy)
	assert.Equal(t, 5000.0, est.Calories)
	assert.Equal(t, 12.0, est.Macronutrients.Protein)
	assert.Equal(t, 0.0, est.Macronutrients.Carbs)
	assert.Equal(t, 0.0, est.Macronutrients.Fat)
	assert.Equal(t, 100.0, est.Macronutrients.Fiber)
	assert.Equal(t, 7.5, est.Macronutrients.Sugar)
	assert.Equal(t, 640.0, est.Micronutrients.Sodium)
	assert.Equal(t, 0.4, est.Micronutrients.VitaminB12)
	assert.Equal(t, 100.0, est.NutritionBreakdown.FatPercent)
	assert.Equal(t, []string{"Calcium"}, est.HealthMetrics.Benefits)
	assert.Equal(t, []string{"High sodium"}, est.HealthMetrics.Concerns)
	assert.Len(t, est.Analysis, 1000)

	require.NotNil(t, est.PortionEstimate)
	assert.Equal(t, "large", est.PortionEstimate.Category)
	assert.Equal(t, 400.0, est.PortionEstimate.Grams)
	assert.Equal(t, 1.0, est.PortionEstimate.Multiplier)
	assert.Equal(t, 1.0, est.PortionEstimate.Confidence)
}

func TestNormalize_MissingFoodName(t *testing.T) {
	est, ok := Normalize(`{"calories": 120}`)

	require.True(t, ok)
	assert.Equal(t, UnknownFood, est.FoodName)
	assert.Equal(t, 120.0, est.Calories)
}

func TestParseChat_Coerce(t *testing.T) {
	reply := ParseChat("```json\n{\"text\":\"Rice is fine.\",\"report\":{\"carbs\":\"45g\",\"protein\":4,\"fats\":-1},\"healthTip\":\"Pair with beans.\"}\n```")
	assert.Equal(t, "Rice is fine.", reply.Text)
	require.NotNil(t, reply.Report)
	assert.Equal(t, 45.0, reply.Report.Carbs)
	assert.Equal(t, 4.0, reply.Report.Protein)
	assert.Equal(t, 0.0, reply.Report.Fats)
	assert.Equal(t, "Pair with beans.", reply.HealthTip)

	plain := ParseChat("Just eat more vegetables.")
	assert.Equal(t, "Just eat more vegetables.", plain.Text)
	assert.Nil(t, plain.Report)
}
