package dedup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/dedup"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store/mocks"
	"recipe-pipeline/feature/recipes/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ingredients(names ...string) []models.Ingredient {
	out := make([]models.Ingredient, len(names))
	for i, n := range names {
		out[i] = models.Ingredient{Name: n, Quantity: 1}
	}
	return out
}

func TestBatchFindDuplicates(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &models.Recipe{Name: "Paneer Tikka", CreatedAt: base}
	second := &models.Recipe{Name: "paneer  tikka", CreatedAt: base.Add(time.Hour)}
	dal := &models.Recipe{Name: "Dal Tadka", CreatedAt: base}
	storetest.Seed(t, st, second, first, dal)

	m := dedup.NewMatcher(st, pipeline.Defaults())
	got, err := m.BatchFindDuplicates(ctx, []string{"PANEER TIKKA ", "dal-tadka", "Biryani"})
	require.NoError(t, err)

	assert.Equal(t, map[string]dedup.Match{
		"PANEER TIKKA ": {ExistingID: first.ID, ExistingName: "Paneer Tikka"},
		"dal-tadka":     {ExistingID: dal.ID, ExistingName: "Dal Tadka"},
	}, got)
}

func TestBatchFindDuplicates_Chunks(t *testing.T) {
	st := new(mocks.Store)
	st.On("FindByNormalizedNames", mock.Anything, mock.Anything).Return([]models.Recipe{}, nil)

	cfg := pipeline.Defaults()
	cfg.PrecheckChunkSize = 2
	m := dedup.NewMatcher(st, cfg)

	_, err := m.BatchFindDuplicates(context.Background(), []string{"a1", "b2", "c3", "C3", "d4", "e5"})
	require.NoError(t, err)
	st.AssertNumberOfCalls(t, "FindByNormalizedNames", 3)
}

func TestBatchFindDuplicates_StoreError(t *testing.T) {
	st := new(mocks.Store)
	st.On("FindByNormalizedNames", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := dedup.NewMatcher(st, pipeline.Defaults()).BatchFindDuplicates(context.Background(), []string{"x1"})
	assert.ErrorContains(t, err, "db down")
}

func TestFindSimilarRecipes(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)
	masala := &models.Recipe{Name: "Paneer Tikka Masala"}
	storetest.Seed(t, st,
		masala,
		&models.Recipe{Name: "Chicken Tikka"},
		&models.Recipe{Name: "Paneer Butter Masala"},
		&models.Recipe{Name: "Dal Tadka"},
	)

	m := dedup.NewMatcher(st, pipeline.Defaults())
	got, err := m.FindSimilarRecipes(ctx, "Paneer Tikka", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, masala.ID, got[0].ID)

	got, err = m.FindSimilarRecipes(ctx, "!!", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindSimilarRecipes_CrowdedToken(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 40 {
		storetest.Seed(t, st, &models.Recipe{Name: fmt.Sprintf("Chicken Dish %d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	tikka := &models.Recipe{Name: "Chicken Tikka Masala", CreatedAt: base.Add(time.Hour)}
	storetest.Seed(t, st, tikka)

	got, err := dedup.NewMatcher(st, pipeline.Defaults()).FindSimilarRecipes(ctx, "chicken tikka masala", 3)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, tikka.ID, got[0].ID)
}

func TestFindSimilarRecipes_SingleCappedQuery(t *testing.T) {
	st := new(mocks.Store)
	st.On("SearchByNameTokens", mock.Anything, "butter and chicken", []string{"butter", "chicken"}, 30).Return([]models.Recipe{
		{ID: "1", Name: "Chicken Curry"},
		{ID: "2", Name: "Butter Chicken Masala"},
		{ID: "3", Name: "Butter Chicken"},
	}, nil).Once()

	got, err := dedup.NewMatcher(st, pipeline.Defaults()).FindSimilarRecipes(context.Background(), "Butter & Chicken", 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	st.AssertExpectations(t)
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, dedup.NameSimilarity("Mac & Cheese", "mac and cheese"))
	assert.InDelta(t, 0.833, dedup.NameSimilarity("Paneer Tikka", "Paneer Tikka Masala"), 0.001)
	assert.Equal(t, dedup.NameSimilarity("a b c", "b"), dedup.NameSimilarity("b", "a b c"))
	assert.Zero(t, dedup.NameSimilarity("", "Dal"))
	assert.Zero(t, dedup.NameSimilarity("Dal", "Pizza"))
}

func TestCompareIngredients(t *testing.T) {
	m := dedup.NewMatcher(new(mocks.Store), pipeline.Defaults())

	t.Run("Core Ingredients Shared", func(t *testing.T) {
		a := ingredients("Paneer", "Yogurt", "Bell Pepper", "Salt", "Oil")
		b := ingredients("paneer ", "yogurt", "bell pepper", "Garam Masala")
		got := m.CompareIngredients(a, b)
		assert.True(t, got.Similar)
		assert.Equal(t, 1.0, got.OverlapScore)
	})

	t.Run("Symmetric And Order Independent", func(t *testing.T) {
		a := ingredients("Rice", "Chicken", "Saffron", "Yogurt")
		b := ingredients("Chicken", "Potato", "Rice")
		reversed := ingredients("Rice", "Potato", "Chicken")
		assert.Equal(t, m.CompareIngredients(a, b), m.CompareIngredients(b, a))
		assert.Equal(t, m.CompareIngredients(a, b), m.CompareIngredients(a, reversed))
	})

	t.Run("Only Staples Shared", func(t *testing.T) {
		a := ingredients("Salt", "Water", "Oil", "Flour")
		b := ingredients("Salt", "Water", "Oil", "Chickpeas")
		got := m.CompareIngredients(a, b)
		assert.False(t, got.Similar)
		assert.Zero(t, got.OverlapScore)
	})

	t.Run("Below Threshold", func(t *testing.T) {
		a := ingredients("Rice", "Chicken", "Saffron")
		b := ingredients("Rice", "Lentils", "Spinach")
		got := m.CompareIngredients(a, b)
		assert.False(t, got.Similar)
		assert.InDelta(t, 1.0/3, got.OverlapScore, 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, dedup.Comparison{}, m.CompareIngredients(nil, ingredients("Rice")))
	})
}

func TestMergeRecipeData(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)
	existing := &models.Recipe{Name: "Paneer Tikka", PrepTime: 10, Image: "a.jpg", Tags: []string{"old"}}
	storetest.Seed(t, st, existing)

	m := dedup.NewMatcher(st, pipeline.Defaults())
	merged, err := m.MergeRecipeData(ctx, existing.ID, []changeset.Field{
		{Name: "name", Value: "Paneer Tikka (AI)"},
		{Name: "image", Value: "b.jpg"},
		{Name: "prepTime", Value: float64(25)},
		{Name: "tags", Value: "['grill', 'starter']"},
		{Name: "ingredients", Value: []any{map[string]any{"name": "Paneer", "quantity": 200, "unit": "g"}}},
	}, "merged generated recipe")
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", merged.Name)

	got, err := st.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", got.Name)
	assert.Equal(t, "a.jpg", got.Image)
	assert.Equal(t, 25, got.PrepTime)
	assert.Equal(t, []string{"grill", "starter"}, got.Tags)
	assert.Equal(t, []models.Ingredient{{Name: "Paneer", Quantity: 200, Unit: "g"}}, got.Ingredients)

	updates, err := st.ListUpdates(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "merged generated recipe", updates[0].Reason)
	assert.Len(t, updates[0].Changes, 3)

	t.Run("Invalid Value", func(t *testing.T) {
		_, err := m.MergeRecipeData(ctx, existing.ID, []changeset.Field{{Name: "servings", Value: "lots"}}, "x")
		assert.ErrorContains(t, err, "invalid value for servings")
	})
}
