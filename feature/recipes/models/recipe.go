package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Remarks  string  `json:"remarks"`
}

// Nutrition holds per-serving macro values.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is a stored recipe document.
type Recipe struct {
	ID             string `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	UUID           FlexID `gorm:"column:uuid;type:varchar(64);index" json:"uuid,omitempty"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	NormalizedName string `gorm:"type:varchar(255);index" json:"-"`
	Description    string `gorm:"type:text" json:"description"`

	Ingredients  []Ingredient `gorm:"type:text;serializer:json" json:"ingredients"`
	Instructions []string     `gorm:"type:text;serializer:json" json:"instructions"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	Servings     int          `json:"servings"`
	Nutrition    Nutrition    `gorm:"type:text;serializer:json" json:"nutrition"`

	Tags                     []string `gorm:"type:text;serializer:json" json:"tags"`
	DietaryRestrictions      []string `gorm:"type:text;serializer:json" json:"dietaryRestrictions"`
	Allergens                []string `gorm:"type:text;serializer:json" json:"allergens"`
	MedicalContraindications []string `gorm:"type:text;serializer:json" json:"medicalContraindications"`

	Difficulty  string   `gorm:"type:varchar(32)" json:"difficulty"`
	PortionSize string   `gorm:"type:varchar(32)" json:"portionSize"`
	Image       string   `gorm:"type:text" json:"image"`
	Images      []string `gorm:"type:text;serializer:json" json:"images"`
	Video       string   `gorm:"type:text" json:"video"`
	Cuisine     string   `gorm:"type:varchar(64)" json:"cuisine"`
	Category    string   `gorm:"type:varchar(64)" json:"category"`
	Tips        []string `gorm:"type:text;serializer:json" json:"tips"`
	Variations  []string `gorm:"type:text;serializer:json" json:"variations"`

	IsPublic  bool `json:"isPublic"`
	IsPremium bool `json:"isPremium"`
	IsActive  bool `json:"isActive"`

	Source    string    `gorm:"type:varchar(32)" json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	SourceManual    = "manual"
	SourceGenerated = "ai"
)

// BeforeCreate assigns a database id when none is set.
func (r *Recipe) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps the normalized name in sync with Name.
func (r *Recipe) BeforeSave(*gorm.DB) error {
	r.NormalizedName = NormalizeName(r.Name)
	return nil
}

// RecipeUpdate is the audit record written with every applied bulk update.
type RecipeUpdate struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"updateId"`
	RecipeID  string        `gorm:"type:varchar(36);index" json:"recipeId"`
	Reason    string        `gorm:"type:text" json:"reason"`
	Changes   []ChangeEntry `gorm:"type:text;serializer:json" json:"changes"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ChangeEntry is the persisted form of one field change.
type ChangeEntry struct {
	Field     string    `json:"field"`
	OldValue  any       `json:"oldValue"`
	NewValue  any       `json:"newValue"`
	Timestamp time.Time `json:"timestamp"`
}

// All lists the models migrated by the recipe store.
func All() []any {
	return []any{&Recipe{}, &RecipeUpdate{}}
}
