package dedup

import (
	"strings"

	"recipe-pipeline/feature/recipes/models"
)

// stopWords carry no dish identity and are ignored when comparing names.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "with": true,
	"of": true, "in": true, "on": true, "style": true, "recipe": true,
}

// staples are shared by most recipes and never count towards overlap.
var staples = map[string]bool{
	"salt":            true,
	"water":           true,
	"oil":             true,
	"olive oil":       true,
	"vegetable oil":   true,
	"cooking oil":     true,
	"sugar":           true,
	"pepper":          true,
	"black pepper":    true,
	"salt and pepper": true,
	"butter":          true,
	"ghee":            true,
	"garlic":          true,
	"onion":           true,
	"ice":             true,
}

// Comparison is the result of CompareIngredients.
type Comparison struct {
	Similar      bool    `json:"similar"`
	OverlapScore float64 `json:"overlapScore"`
}

// NameTokens returns the significant words of a dish name.
func NameTokens(name string) []string {
	words := strings.Fields(models.NormalizeName(name))
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// NameSimilarity scores two dish names in [0,1]: the mean of the token
// Jaccard index and the share of the shorter name found in the longer one.
// Identical normalized names score 1.
func NameSimilarity(a, b string) float64 {
	na, nb := models.NormalizeName(a), models.NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	ta, tb := toSet(NameTokens(na)), toSet(NameTokens(nb))
	return (jaccard(ta, tb) + containment(ta, tb)) / 2
}

// IngredientOverlap is the intersection over the smaller set of two
// ingredient name sets, staples removed. It is 0 when either side has no
// core ingredient.
func IngredientOverlap(a, b []models.Ingredient) float64 {
	return containment(ingredientSet(a), ingredientSet(b))
}

func ingredientSet(items []models.Ingredient) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		name := models.NormalizeName(it.Name)
		if name == "" || staples[name] {
			continue
		}
		set[name] = true
	}
	return set
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func intersection(a, b map[string]bool) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if b[k] {
			n++
		}
	}
	return n
}

func jaccard(a, b map[string]bool) float64 {
	inter := intersection(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func containment(a, b map[string]bool) float64 {
	smaller := min(len(a), len(b))
	if smaller == 0 {
		return 0
	}
	return float64(intersection(a, b)) / float64(smaller)
}
