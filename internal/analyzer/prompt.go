package analyzer

import "strings"

const analyzePrompt = `Analyze this food image thoroughly. Identify the food item(s), estimate the quantity (e.g., number of pieces, number of bowls), and provide a complete nutritional breakdown.

Return ONLY valid JSON in the following format (all numeric values MUST be numbers, not strings):
{
  "foodName": "...",
  "servingSize": "...",
  "isHealthy": true/false,
  "calories": 0,
  "macronutrients": {
    "protein": 0,
    "carbs": 0,
    "fat": 0,
    "fiber": 0,
    "sugar": 0
  },
  "micronutrients": {
    "sodium": 0,
    "cholesterol": 0,
    "vitaminA": 0,
    "vitaminC": 0,
    "calcium": 0,
    "iron": 0,
    "potassium": 0,
    "magnesium": 0,
    "zinc": 0,
    "vitaminD": 0,
    "vitaminB12": 0
  },
  "nutritionBreakdown": {
    "proteinPercent": 0,
    "carbsPercent": 0,
    "fatPercent": 0
  },
  "healthMetrics": {
    "healthScore": 0,
    "benefits": ["...", "..."],
    "concerns": ["...", "..."]
  },
  "portionEstimate": {
    "category": "small|medium|large",
    "grams": 0,
    "multiplier": 1,
    "confidence": 0.0
  },
  "analysis": "Detailed analysis of the food's nutritional value, preparation method, and health implications (2-3 sentences)",
  "recommendation": "What to eat next to balance this meal nutritionally (be specific with food suggestions)"
}

Notes:
- All gram values should be in grams (g)
- Vitamins and minerals in milligrams (mg) or appropriate units
- Percentages should be whole numbers (0-100)
- healthScore should be 0-100
- Be accurate with portion size estimation (e.g., "2 slices", "1 bowl", "3 pieces")`

const chatPrompt = `You are NutriLens, a friendly nutrition assistant. Answer the user's question about food or nutrition.

Return ONLY valid JSON in this format:
{
  "text": "your answer in 1-4 sentences",
  "report": {"carbs": 0, "protein": 0, "fats": 0},
  "healthTip": "one short practical tip",
  "info": "optional extra context"
}
Include "report" only when the question is about a specific food or meal; values are grams.

Question: `

// BuildAnalyzePrompt appends the user's quantity hint, if any.
func BuildAnalyzePrompt(quantity string) string {
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		return analyzePrompt
	}
	return analyzePrompt + "\n\nThe user says the quantity shown is: " + quantity + ". Use it for servingSize and scale the values accordingly."
}

// BuildChatPrompt wraps a user question.
func BuildChatPrompt(message string) string {
	return chatPrompt + message
}
