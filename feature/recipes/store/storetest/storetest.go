// Package storetest opens migrated in-memory recipe stores for tests.
package storetest

import (
	"context"
	"testing"

	"recipe-pipeline/core/database"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns an empty sqlite store with the recipe tables migrated.
func New(t testing.TB) (*gorm.DB, *store.GormStore) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, store.NewGormStore(db)
}

// Seed inserts recipes in order.
func Seed(t testing.TB, s store.Store, recipes ...*models.Recipe) {
	t.Helper()
	for _, r := range recipes {
		require.NoError(t, s.Create(context.Background(), r))
	}
}
