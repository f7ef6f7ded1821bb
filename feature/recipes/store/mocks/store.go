package mocks

import (
	"context"

	"recipe-pipeline/feature/recipes/models"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of store.Store
type Store struct {
	mock.Mock
}

func (m *Store) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Recipe)
	return r, args.Error(1)
}

func (m *Store) FindByUUID(ctx context.Context, forms []string) (*models.Recipe, error) {
	args := m.Called(ctx, forms)
	r, _ := args.Get(0).(*models.Recipe)
	return r, args.Error(1)
}

func (m *Store) FindByNormalizedNames(ctx context.Context, names []string) ([]models.Recipe, error) {
	args := m.Called(ctx, names)
	r, _ := args.Get(0).([]models.Recipe)
	return r, args.Error(1)
}

func (m *Store) SearchByNameTokens(ctx context.Context, name string, tokens []string, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, name, tokens, limit)
	r, _ := args.Get(0).([]models.Recipe)
	return r, args.Error(1)
}

func (m *Store) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *Store) Update(ctx context.Context, recipe *models.Recipe, fields []string, audit *models.RecipeUpdate) error {
	args := m.Called(ctx, recipe, fields, audit)
	return args.Error(0)
}

func (m *Store) ListUpdates(ctx context.Context, recipeID string) ([]models.RecipeUpdate, error) {
	args := m.Called(ctx, recipeID)
	r, _ := args.Get(0).([]models.RecipeUpdate)
	return r, args.Error(1)
}
