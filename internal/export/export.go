// Package export renders a meal as a downloadable TXT or CSV report.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"nutrilens/internal/model"
)

// Format is a report file type.
type Format string

const (
	FormatTXT Format = "txt"
	FormatCSV Format = "csv"
)

// ErrUnsupportedFormat is returned for anything other than txt or csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const dateLayout = "2006-01-02"

var whitespaceRe = regexp.MustCompile(`\s+`)

// ParseFormat accepts "txt" or "csv" in any case; empty means txt.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTXT:
		return FormatTXT, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the HTTP content type of a rendered report.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// FileName builds the download name, e.g. NutriLens-Report-Fried-Rice.csv.
func FileName(foodName string, f Format) string {
	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(foodName), "-")
	name = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "Meal"
	}
	return fmt.Sprintf("NutriLens-Report-%s.%s", name, f)
}

// Render writes the report for m in format f.
func Render(w io.Writer, m *model.Meal, f Format) error {
	switch f {
	case FormatTXT:
		return renderTXT(w, m)
	case FormatCSV:
		return renderCSV(w, m)
	}
	return ErrUnsupportedFormat
}

type labeled struct {
	label string
	value float64
}

var camelRe = regexp.MustCompile(`([A-Z])`)

func microLabel(key string) string {
	return strings.TrimSpace(camelRe.ReplaceAllString(key, " $1"))
}

func micronutrients(m model.Micronutrients) []labeled {
	return []labeled{
		{microLabel("sodium"), m.Sodium},
		{microLabel("cholesterol"), m.Cholesterol},
		{microLabel("vitaminA"), m.VitaminA},
		{microLabel("vitaminC"), m.VitaminC},
		{microLabel("calcium"), m.Calcium},
		{microLabel("iron"), m.Iron},
		{microLabel("potassium"), m.Potassium},
		{microLabel("magnesium"), m.Magnesium},
		{microLabel("zinc"), m.Zinc},
		{microLabel("vitaminD"), m.VitaminD},
		{microLabel("vitaminB12"), m.VitaminB12},
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func status(healthy bool) string {
	if healthy {
		return "Healthy Choice"
	}
	return "Indulgent"
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

func renderTXT(w io.Writer, m *model.Meal) error {
	var b strings.Builder
	fmt.Fprintln(&b, "NutriLens Analysis Report")
	fmt.Fprintln(&b, "-------------------------")
	fmt.Fprintf(&b, "Date: %s\n", m.CreatedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Food: %s\n", m.FoodName)
	fmt.Fprintf(&b, "Serving Size: %s\n", orNA(m.ServingSize))
	fmt.Fprintf(&b, "Health Score: %s/100\n", num(m.HealthMetrics.HealthScore))
	fmt.Fprintf(&b, "Status: %s\n\n", status(m.IsHealthy))

	fmt.Fprintln(&b, "Nutritional Info:")
	fmt.Fprintf(&b, "- Calories: %s kcal\n", num(m.Calories))
	fmt.Fprintf(&b, "- Protein: %sg\n", num(m.Macronutrients.Protein))
	fmt.Fprintf(&b, "- Carbs: %sg\n", num(m.Macronutrients.Carbs))
	fmt.Fprintf(&b, "- Fat: %sg\n\n", num(m.Macronutrients.Fat))

	fmt.Fprintf(&b, "Analysis:\n%s\n\n", m.Analysis)
	fmt.Fprintf(&b, "Recommendation:\n%s\n\n", m.Recommendation)
	fmt.Fprintf(&b, "Benefits:\n%s\n\n", bullets(m.HealthMetrics.Benefits))
	fmt.Fprintf(&b, "Concerns:\n%s\n\n", bullets(m.HealthMetrics.Concerns))

	fmt.Fprintln(&b, "Micronutrients:")
	micros := micronutrients(m.Micronutrients)
	for i, mn := range micros {
		fmt.Fprintf(&b, "- %s: %s", mn.label, num(mn.value))
		if i < len(micros)-1 {
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderCSV(w io.Writer, m *model.Meal) error {
	rows := [][]string{
		{"Category", "Detail", "Value", "Unit"},
		{"General", "Date", m.CreatedAt.Format(dateLayout), ""},
		{"General", "Food Name", m.FoodName, ""},
		{"General", "Serving Size", orNA(m.ServingSize), ""},
		{"General", "Health Score", num(m.HealthMetrics.HealthScore), "/100"},
		{"General", "Status", status(m.IsHealthy), ""},
		{"Macros", "Calories", num(m.Calories), "kcal"},
		{"Macros", "Protein", num(m.Macronutrients.Protein), "g"},
		{"Macros", "Carbs", num(m.Macronutrients.Carbs), "g"},
		{"Macros", "Fat", num(m.Macronutrients.Fat), "g"},
		{"Macros", "Fiber", num(m.Macronutrients.Fiber), "g"},
		{"Macros", "Sugar", num(m.Macronutrients.Sugar), "g"},
		{"Analysis", "Summary", m.Analysis, ""},
		{"Analysis", "Recommendation", m.Recommendation, ""},
	}
	for i, b := range m.HealthMetrics.Benefits {
		rows = append(rows, []string{"Benefits", fmt.Sprintf("Benefit %d", i+1), b, ""})
	}
	for i, c := range m.HealthMetrics.Concerns {
		rows = append(rows, []string{"Concerns", fmt.Sprintf("Concern %d", i+1), c, ""})
	}
	for _, mn := range micronutrients(m.Micronutrients) {
		rows = append(rows, []string{"Micronutrients", mn.label, num(mn.value), "mg"})
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
