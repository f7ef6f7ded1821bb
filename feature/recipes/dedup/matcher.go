package dedup

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/normalize"
	"recipe-pipeline/feature/recipes/store"

	"github.com/google/uuid"
)

// candidateFactor multiplies the similarity limit to size the single search query.
const candidateFactor = 10

// Match points an input name at the stored recipe it duplicates.
type Match struct {
	ExistingID   string `json:"existingId"`
	ExistingName string `json:"existingName"`
}

// Matcher finds stored recipes that describe the same dish.
type Matcher struct {
	store store.Store
	cfg   pipeline.Config
	now   func() time.Time
}

// NewMatcher creates a matcher on s.
func NewMatcher(s store.Store, cfg pipeline.Config) *Matcher {
	return &Matcher{store: s, cfg: cfg.WithDefaults(), now: time.Now}
}

// BatchFindDuplicates maps every input name whose normalized form is already
// stored to the oldest such recipe. Names are queried in chunks, so the
// number of queries grows with len(names)/PrecheckChunkSize.
func (m *Matcher) BatchFindDuplicates(ctx context.Context, names []string) (map[string]Match, error) {
	var keys []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		key := models.NormalizeName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	byKey := make(map[string]Match, len(keys))
	for chunk := range slices.Chunk(keys, m.cfg.PrecheckChunkSize) {
		found, err := m.store.FindByNormalizedNames(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("duplicate pre-check failed: %w", err)
		}
		for _, r := range found {
			if _, ok := byKey[r.NormalizedName]; ok {
				continue
			}
			byKey[r.NormalizedName] = Match{ExistingID: r.ID, ExistingName: r.Name}
		}
	}

	out := make(map[string]Match)
	for _, n := range names {
		if match, ok := byKey[models.NormalizeName(n)]; ok {
			out[n] = match
		}
	}
	return out, nil
}

// FindSimilarRecipes returns up to limit stored recipes whose name scores at
// least NameSimilarityThreshold against name, best first. It issues one
// query for at most limit*10 rows.
func (m *Matcher) FindSimilarRecipes(ctx context.Context, name string, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		return nil, nil
	}
	tokens := NameTokens(name)
	if len(tokens) == 0 {
		return nil, nil
	}
	candidates, err := m.store.SearchByNameTokens(ctx, models.NormalizeName(name), tokens, limit*candidateFactor)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	type scored struct {
		recipe models.Recipe
		score  float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		score := NameSimilarity(name, c.Name)
		if score < m.cfg.NameSimilarityThreshold {
			continue
		}
		ranked = append(ranked, scored{recipe: c, score: score})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]models.Recipe, 0, min(limit, len(ranked)))
	for _, s := range ranked[:min(limit, len(ranked))] {
		out = append(out, s.recipe)
	}
	return out, nil
}

// CompareIngredients reports whether two ingredient lists describe the same
// dish. The score is symmetric and independent of list order.
func (m *Matcher) CompareIngredients(a, b []models.Ingredient) Comparison {
	score := IngredientOverlap(a, b)
	return Comparison{
		Similar:      score > 0 && score >= m.cfg.IngredientOverlapThreshold,
		OverlapScore: score,
	}
}

// MergeRecipeData overwrites the merge-eligible fields of the stored recipe
// existingID with fields. There is no diff: every eligible field is written.
// An audit row records the previous values.
func (m *Matcher) MergeRecipeData(ctx context.Context, existingID string, fields []changeset.Field, reason string) (*models.Recipe, error) {
	recipe, err := m.store.FindByID(ctx, existingID)
	if err != nil {
		return nil, err
	}

	eligible := make([]changeset.Field, 0, len(fields))
	for _, f := range fields {
		if slices.Contains(models.MergeEligible, f.Name) {
			eligible = append(eligible, f)
		}
	}
	eligible = normalize.Fields(eligible, normalize.SourceJSON)
	if len(eligible) == 0 {
		return recipe, nil
	}

	now := m.now()
	names := make([]string, 0, len(eligible))
	changes := make([]models.ChangeEntry, 0, len(eligible))
	for _, f := range eligible {
		old, _ := recipe.FieldValue(f.Name)
		if err := recipe.Apply(f.Name, f.Value); err != nil {
			return nil, err
		}
		updated, _ := recipe.FieldValue(f.Name)
		names = append(names, f.Name)
		changes = append(changes, models.ChangeEntry{Field: f.Name, OldValue: old, NewValue: updated, Timestamp: now})
	}
	recipe.UpdatedAt = now

	audit := &models.RecipeUpdate{
		ID:       uuid.NewString(),
		RecipeID: recipe.ID,
		Reason:   reason,
		Changes:  changes,
	}
	if err := m.store.Update(ctx, recipe, names, audit); err != nil {
		return nil, err
	}
	return recipe, nil
}
