package model

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeal() *Meal {
	return NewMeal("id-1", "1700000000000-deadbeef-apple.jpg", Estimate{
		FoodName:       "Apple",
		Calories:       95,
		Macronutrients: Macronutrients{Protein: 0.5, Carbs: 25, Fat: 0.3, Fiber: 4.4, Sugar: 19},
	}, time.Now().UTC())
}

func TestNewMeal_SnapshotsNutrition(t *testing.T) {
	m := validMeal()

	assert.Equal(t, 95.0, m.OriginalNutrition.Calories)
	assert.Equal(t, m.Macronutrients, m.OriginalNutrition.Macronutrients)
	assert.NotNil(t, m.HealthMetrics.Benefits)
	assert.NotNil(t, m.HealthMetrics.Concerns)
}

func TestMeal_NutritionBase(t *testing.T) {
	m := validMeal()
	m.Calories = 190
	assert.Equal(t, 95.0, m.NutritionBase().Calories)

	m.OriginalNutrition = OriginalNutrition{}
	assert.Equal(t, 190.0, m.NutritionBase().Calories)
}

func TestMeal_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m *Meal)
		wantField string
	}{
		{name: "valid", mutate: func(m *Meal) {}},
		{name: "missing image path", mutate: func(m *Meal) { m.ImagePath = "" }, wantField: "imagePath"},
		{name: "blank food name", mutate: func(m *Meal) { m.FoodName = "  " }, wantField: "foodName"},
		{name: "food name too long", mutate: func(m *Meal) { m.FoodName = strings.Repeat("a", 101) }, wantField: "foodName"},
		{name: "negative calories", mutate: func(m *Meal) { m.Calories = -1 }, wantField: "calories"},
		{name: "calories too high", mutate: func(m *Meal) { m.Calories = 5001 }, wantField: "calories"},
		{name: "NaN calories", mutate: func(m *Meal) { m.Calories = math.NaN() }, wantField: "calories"},
		{name: "fiber over bound", mutate: func(m *Meal) { m.Macronutrients.Fiber = 101 }, wantField: "macronutrients.fiber"},
		{name: "sodium over bound", mutate: func(m *Meal) { m.Micronutrients.Sodium = 10001 }, wantField: "micronutrients.sodium"},
		{name: "percent over bound", mutate: func(m *Meal) { m.NutritionBreakdown.FatPercent = 120 }, wantField: "nutritionBreakdown.fatPercent"},
		{name: "benefit too long", mutate: func(m *Meal) { m.HealthMetrics.Benefits = []string{strings.Repeat("b", 201)} }, wantField: "healthMetrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMeal()
			tt.mutate(m)

			err := m.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestRange_Clamp(t *testing.T) {
	r := Range{0, 100}
	assert.Equal(t, 0.0, r.Clamp(-5))
	assert.Equal(t, 100.0, r.Clamp(250))
	assert.Equal(t, 42.5, r.Clamp(42.5))
	assert.Equal(t, 0.0, r.Clamp(math.Inf(1)))
	assert.Equal(t, 0.0, r.Clamp(math.NaN()))
}
