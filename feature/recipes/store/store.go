package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"recipe-pipeline/feature/recipes/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no recipe matches a lookup.
var ErrNotFound = errors.New("recipe not found")

// Store is the record store contract used by the pipeline.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Recipe, error)
	FindByUUID(ctx context.Context, forms []string) (*models.Recipe, error)
	FindByNormalizedNames(ctx context.Context, names []string) ([]models.Recipe, error)
	SearchByNameTokens(ctx context.Context, name string, tokens []string, limit int) ([]models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe, fields []string, audit *models.RecipeUpdate) error
	ListUpdates(ctx context.Context, recipeID string) ([]models.RecipeUpdate, error)
}

// GormStore implements Store on a gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the recipe tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate recipe tables: %w", err)
	}
	return nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// FindByUUID returns the earliest recipe whose uuid equals any of forms.
func (s *GormStore) FindByUUID(ctx context.Context, forms []string) (*models.Recipe, error) {
	if len(forms) == 0 {
		return nil, ErrNotFound
	}
	var r models.Recipe
	err := s.db.WithContext(ctx).
		Where("uuid IN ?", forms).
		Order("created_at ASC").
		First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// FindByNormalizedNames returns every recipe whose normalized name is in
// names, oldest first.
func (s *GormStore) FindByNormalizedNames(ctx context.Context, names []string) ([]models.Recipe, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var out []models.Recipe
	err := s.db.WithContext(ctx).
		Where("normalized_name IN ?", names).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes by name: %w", err)
	}
	return out, nil
}

// SearchByNameTokens returns up to limit recipes whose normalized name
// contains any of tokens. Rows are ranked in the query: an exact match on the
// normalized name first, then by the number of tokens matched, then oldest
// first, so the cap never cuts a close match in favour of a loose one.
func (s *GormStore) SearchByNameTokens(ctx context.Context, name string, tokens []string, limit int) ([]models.Recipe, error) {
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}
	clauses := make([]string, 0, len(tokens))
	hits := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		clauses = append(clauses, "normalized_name LIKE ?")
		hits = append(hits, "CASE WHEN normalized_name LIKE ? THEN 1 ELSE 0 END")
		args = append(args, "%"+tok+"%")
	}
	rank := clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN normalized_name = ? THEN 0 ELSE 1 END, (" + strings.Join(hits, " + ") + ") DESC, created_at ASC",
		Vars:               append([]any{name}, args...),
		WithoutParentheses: true,
	}}

	var out []models.Recipe
	err := s.db.WithContext(ctx).
		Where(strings.Join(clauses, " OR "), args...).
		Order(rank).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return out, nil
}

func (s *GormStore) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update writes the named fields of recipe plus updated_at, and the audit
// row when given, in one transaction.
func (s *GormStore) Update(ctx context.Context, recipe *models.Recipe, fields []string, audit *models.RecipeUpdate) error {
	columns := models.Columns(fields)
	if slices.Contains(fields, "name") {
		recipe.NormalizedName = models.NormalizeName(recipe.Name)
		columns = append(columns, "normalized_name")
	}
	columns = append(columns, "updated_at")

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(recipe).Select(columns).Updates(recipe)
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe %s: %w", recipe.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if audit == nil {
			return nil
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("failed to record update: %w", err)
		}
		return nil
	})
}

// ListUpdates returns the audit rows of a recipe, newest first.
func (s *GormStore) ListUpdates(ctx context.Context, recipeID string) ([]models.RecipeUpdate, error) {
	var out []models.RecipeUpdate
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to query recipe: %w", err)
}
