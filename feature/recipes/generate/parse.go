package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"recipe-pipeline/core/generation"
	"recipe-pipeline/core/utils"
	"recipe-pipeline/feature/recipes/models"
)

// ErrInvalidResponse is returned when a completion holds no JSON object.
var ErrInvalidResponse = errors.New("generation service returned invalid recipe JSON")

const defaultLevel = "medium"

var (
	portionSizes = []string{"small", "medium", "large"}
	difficulties = []string{"easy", "medium", "hard"}

	dietaryLabels = []string{
		"vegetarian", "vegan", "pescatarian", "gluten-free", "dairy-free",
		"nut-free", "egg-free", "soy-free", "low-carb", "keto", "paleo",
		"halal", "kosher", "low-sodium", "low-fat", "high-protein",
		"diabetic-friendly",
	}
	contraindicationLabels = []string{
		"diabetes", "hypertension", "heart-disease", "kidney-disease",
		"celiac-disease", "lactose-intolerance", "gout", "ibs", "gerd",
		"high-cholesterol", "pregnancy",
	}
)

// ParseGenerated turns a completion into a recipe. Only a missing or
// malformed JSON object is an error; every field that does not fit its type
// or vocabulary falls back to a default. fallbackName is used when the
// completion has no name.
func ParseGenerated(text, fallbackName string) (*models.Recipe, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(generation.ExtractJSONObject(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	r := &models.Recipe{
		Name:                     str(raw["name"]),
		Description:              str(raw["description"]),
		Ingredients:              ingredientList(raw["ingredients"]),
		Instructions:             stringList(raw["instructions"]),
		PrepTime:                 minutes(first(raw, "prepTime", "prep_time")),
		CookTime:                 minutes(first(raw, "cookTime", "cook_time")),
		Servings:                 minutes(raw["servings"]),
		Nutrition:                nutrition(raw),
		Tags:                     stringList(raw["tags"]),
		DietaryRestrictions:      labels(raw["dietaryRestrictions"], dietaryLabels),
		Allergens:                stringList(raw["allergens"]),
		MedicalContraindications: labels(raw["medicalContraindications"], contraindicationLabels),
		Difficulty:               oneOf(raw["difficulty"], difficulties, defaultLevel),
		PortionSize:              oneOf(raw["portionSize"], portionSizes, defaultLevel),
		Cuisine:                  str(raw["cuisine"]),
		Category:                 str(raw["category"]),
		Tips:                     stringList(raw["tips"]),
		Variations:               stringList(raw["variations"]),
		IsActive:                 true,
		Source:                   models.SourceGenerated,
	}
	if r.Name == "" {
		r.Name = strings.TrimSpace(fallbackName)
	}
	return r, nil
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// nonNegative reads a number or numeric string; anything else is 0.
func nonNegative(v any) float64 {
	f, ok := utils.ToFloat(v)
	if !ok {
		if s, isStr := v.(string); isStr {
			f, ok = leadingNumber(s)
		}
	}
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// leadingNumber reads "25 minutes" as 25.
func leadingNumber(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	return utils.ParseNumber(fields[0])
}

// maxWhole caps whole-number fields so out-of-range values cannot wrap on
// conversion to int.
const maxWhole = 100_000

func minutes(v any) int {
	return int(math.Round(math.Min(nonNegative(v), maxWhole)))
}

func nutrition(raw map[string]any) models.Nutrition {
	src, ok := raw["nutrition"].(map[string]any)
	if !ok {
		src = raw
	}
	return models.Nutrition{
		Calories: nonNegative(src["calories"]),
		Protein:  nonNegative(src["protein"]),
		Carbs:    nonNegative(src["carbs"]),
		Fat:      nonNegative(src["fat"]),
	}
}

func stringList(v any) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case string:
		for _, line := range strings.Split(t, "\n") {
			items = append(items, line)
		}
	default:
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := str(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ingredientList(v any) []models.Ingredient {
	items, _ := v.([]any)
	out := make([]models.Ingredient, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case map[string]any:
			name := str(t["name"])
			if name == "" {
				continue
			}
			out = append(out, models.Ingredient{
				Name:     name,
				Quantity: nonNegative(t["quantity"]),
				Unit:     str(t["unit"]),
				Remarks:  str(t["remarks"]),
			})
		case string:
			if name := strings.TrimSpace(t); name != "" {
				out = append(out, models.Ingredient{Name: name})
			}
		}
	}
	return out
}

// label reduces "Gluten Free" and "gluten_free" to "gluten-free".
func label(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	return s
}

func labels(v any, allowed []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, s := range stringList(v) {
		l := label(s)
		if seen[l] || !slices.Contains(allowed, l) {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func oneOf(v any, allowed []string, fallback string) string {
	l := label(str(v))
	if slices.Contains(allowed, l) {
		return l
	}
	return fallback
}
