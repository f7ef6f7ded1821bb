package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store"
	"recipe-pipeline/feature/recipes/store/storetest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func flex(t *testing.T, v any) models.FlexID {
	t.Helper()
	id, ok := models.ParseFlexID(v)
	require.True(t, ok)
	return id
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)

	byID := &models.Recipe{ID: uuid.NewString(), UUID: flex(t, "100"), Name: "Dal Makhani"}
	byUUID := &models.Recipe{ID: uuid.NewString(), UUID: models.NumericFlexID(42), Name: "Paneer Tikka"}
	byText := &models.Recipe{ID: uuid.NewString(), UUID: flex(t, "7"), Name: "Chana Masala"}
	storetest.Seed(t, st, byID, byUUID, byText)

	resolver := store.NewResolver(st)

	t.Run("ID Takes Precedence", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, store.Ref{ID: byID.ID, UUID: models.NumericFlexID(42)})
		require.NoError(t, err)
		assert.Equal(t, byID.ID, got.ID)
	})

	t.Run("Malformed ID Is Not Found", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, store.Ref{ID: "not-an-id", UUID: models.NumericFlexID(42)})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, store.Ref{ID: uuid.NewString()})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("String Matches Numeric UUID", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, store.Ref{UUID: flex(t, "42")})
		require.NoError(t, err)
		assert.Equal(t, byUUID.ID, got.ID)
	})

	t.Run("Number Matches String UUID", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, store.Ref{UUID: models.NumericFlexID(7)})
		require.NoError(t, err)
		assert.Equal(t, byText.ID, got.ID)

		got, err = resolver.Resolve(ctx, store.Ref{UUID: flex(t, "7.0")})
		require.NoError(t, err)
		assert.Equal(t, byText.ID, got.ID)
	})

	t.Run("Empty Ref", func(t *testing.T) {
		assert.True(t, store.Ref{}.IsZero())
		_, err := resolver.Resolve(ctx, store.Ref{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestGormStore_Update(t *testing.T) {
	ctx := context.Background()
	db, st := storetest.New(t)

	r := &models.Recipe{Name: "Paneer Tikka", PrepTime: 15, Servings: 2}
	storetest.Seed(t, st, r)
	require.NotEmpty(t, r.ID)
	assert.Equal(t, "paneer tikka", r.NormalizedName)

	r.PrepTime = 20
	r.Name = "Paneer Tikka Masala"
	r.Servings = 99 // not selected, must not be written
	audit := &models.RecipeUpdate{
		ID:       uuid.NewString(),
		RecipeID: r.ID,
		Reason:   "fix times",
		Changes:  []models.ChangeEntry{{Field: "prepTime", OldValue: 15, NewValue: 20, Timestamp: time.Now()}},
	}
	require.NoError(t, st.Update(ctx, r, []string{"prepTime", "name"}, audit))

	got, err := st.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.PrepTime)
	assert.Equal(t, 2, got.Servings)
	assert.Equal(t, "paneer tikka masala", got.NormalizedName)

	updates, err := st.ListUpdates(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "fix times", updates[0].Reason)
	assert.Equal(t, "prepTime", updates[0].Changes[0].Field)

	var count int64
	require.NoError(t, db.Model(&models.RecipeUpdate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	t.Run("Missing Record", func(t *testing.T) {
		ghost := &models.Recipe{ID: uuid.NewString(), Name: "Ghost"}
		err := st.Update(ctx, ghost, []string{"name"}, &models.RecipeUpdate{ID: uuid.NewString(), RecipeID: ghost.ID})
		assert.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, db.Model(&models.RecipeUpdate{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormStore_NameQueries(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.Recipe{Name: "Butter Chicken", CreatedAt: base}
	newer := &models.Recipe{Name: "butter  chicken", CreatedAt: base.Add(time.Hour)}
	other := &models.Recipe{Name: "Chicken Biryani", CreatedAt: base.Add(2 * time.Hour)}
	storetest.Seed(t, st, older, newer, other)

	found, err := st.FindByNormalizedNames(ctx, []string{"butter chicken", "nothing"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, older.ID, found[0].ID)

	hits, err := st.SearchByNameTokens(ctx, "chicken", []string{"chicken"}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = st.SearchByNameTokens(ctx, "chicken tikka biryani", []string{"biryani", "tikka"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, other.ID, hits[0].ID)

	hits, err = st.SearchByNameTokens(ctx, "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestGormStore_QueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `recipes` WHERE id = ?")).
		WillReturnError(errors.New("connection reset"))

	_, err = store.NewGormStore(db).FindByID(context.Background(), uuid.NewString())
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByNameTokens_RanksInQuery(t *testing.T) {
	ctx := context.Background()
	_, st := storetest.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		storetest.Seed(t, st, &models.Recipe{Name: "Chicken Dish " + string(rune('A'+i)), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	wrap := &models.Recipe{Name: "Tikka Chicken Wrap", CreatedAt: base.Add(time.Hour)}
	exact := &models.Recipe{Name: "Chicken Tikka Masala", CreatedAt: base.Add(2 * time.Hour)}
	storetest.Seed(t, st, wrap, exact)

	tokens := []string{"chicken", "tikka", "masala"}
	hits, err := st.SearchByNameTokens(ctx, "chicken tikka masala", tokens, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, exact.ID, hits[0].ID)
	assert.Equal(t, wrap.ID, hits[1].ID)

	hits, err = st.SearchByNameTokens(ctx, "chicken", []string{"chicken"}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "Chicken Dish A", hits[0].Name)
}
