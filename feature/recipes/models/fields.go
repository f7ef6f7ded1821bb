package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AllowedFields is the ordered allow-list of fields a bulk update or a merge
// may write. Anything else in an input record is dropped.
var AllowedFields = []string{
	"name",
	"description",
	"ingredients",
	"instructions",
	"prepTime",
	"cookTime",
	"servings",
	"nutrition",
	"tags",
	"dietaryRestrictions",
	"allergens",
	"medicalContraindications",
	"difficulty",
	"image",
	"images",
	"video",
	"isPublic",
	"isPremium",
	"isActive",
	"cuisine",
	"category",
	"tips",
	"variations",
}

// MergeEligible lists the fields copied from a generated recipe onto an
// existing near-duplicate. Identity, media and visibility are left alone.
var MergeEligible = []string{
	"description",
	"ingredients",
	"instructions",
	"prepTime",
	"cookTime",
	"servings",
	"nutrition",
	"tags",
	"dietaryRestrictions",
	"allergens",
	"medicalContraindications",
	"tips",
	"variations",
	"cuisine",
	"category",
	"difficulty",
}

type fieldSpec struct {
	column string
	get    func(r *Recipe) any
	coerce func(v any) (any, error)
	set    func(r *Recipe, v any) error
}

func typed[T any](column string, ptr func(r *Recipe) *T) fieldSpec {
	return fieldSpec{
		column: column,
		get:    func(r *Recipe) any { return *ptr(r) },
		coerce: func(v any) (any, error) {
			var out T
			err := decode(v, &out)
			return out, err
		},
		set: func(r *Recipe, v any) error {
			var out T
			if err := decode(v, &out); err != nil {
				return err
			}
			*ptr(r) = out
			return nil
		},
	}
}

var registry = map[string]fieldSpec{
	"name":                     typed("name", func(r *Recipe) *string { return &r.Name }),
	"description":              typed("description", func(r *Recipe) *string { return &r.Description }),
	"ingredients":              typed("ingredients", func(r *Recipe) *[]Ingredient { return &r.Ingredients }),
	"instructions":             typed("instructions", func(r *Recipe) *[]string { return &r.Instructions }),
	"prepTime":                 typed("prep_time", func(r *Recipe) *int { return &r.PrepTime }),
	"cookTime":                 typed("cook_time", func(r *Recipe) *int { return &r.CookTime }),
	"servings":                 typed("servings", func(r *Recipe) *int { return &r.Servings }),
	"nutrition":                typed("nutrition", func(r *Recipe) *Nutrition { return &r.Nutrition }),
	"tags":                     typed("tags", func(r *Recipe) *[]string { return &r.Tags }),
	"dietaryRestrictions":      typed("dietary_restrictions", func(r *Recipe) *[]string { return &r.DietaryRestrictions }),
	"allergens":                typed("allergens", func(r *Recipe) *[]string { return &r.Allergens }),
	"medicalContraindications": typed("medical_contraindications", func(r *Recipe) *[]string { return &r.MedicalContraindications }),
	"difficulty":               typed("difficulty", func(r *Recipe) *string { return &r.Difficulty }),
	"image":                    typed("image", func(r *Recipe) *string { return &r.Image }),
	"images":                   typed("images", func(r *Recipe) *[]string { return &r.Images }),
	"video":                    typed("video", func(r *Recipe) *string { return &r.Video }),
	"isPublic":                 typed("is_public", func(r *Recipe) *bool { return &r.IsPublic }),
	"isPremium":                typed("is_premium", func(r *Recipe) *bool { return &r.IsPremium }),
	"isActive":                 typed("is_active", func(r *Recipe) *bool { return &r.IsActive }),
	"cuisine":                  typed("cuisine", func(r *Recipe) *string { return &r.Cuisine }),
	"category":                 typed("category", func(r *Recipe) *string { return &r.Category }),
	"tips":                     typed("tips", func(r *Recipe) *[]string { return &r.Tips }),
	"variations":               typed("variations", func(r *Recipe) *[]string { return &r.Variations }),
}

// IsAllowed reports whether field is on the allow-list.
func IsAllowed(field string) bool {
	_, ok := registry[field]
	return ok
}

// CanonicalField maps a header such as "PREPTIME" to its allow-listed
// spelling.
func CanonicalField(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := registry[name]; ok {
		return name, true
	}
	for _, f := range AllowedFields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return name, false
}

// Column returns the database column of an allowed field.
func Column(field string) (string, bool) {
	spec, ok := registry[field]
	return spec.column, ok
}

// Columns maps field names to columns, skipping unknown names.
func Columns(fields []string) []string {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		if spec, ok := registry[f]; ok {
			cols = append(cols, spec.column)
		}
	}
	return cols
}

// Coerce decodes v into the Go type of field. It fails when v does not fit,
// for example a string for an integer field.
func Coerce(field string, v any) (any, error) {
	spec, ok := registry[field]
	if !ok {
		return nil, fmt.Errorf("field %q is not allowed", field)
	}
	out, err := spec.coerce(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	return out, nil
}

// FieldValue returns the current value of an allowed field.
func (r *Recipe) FieldValue(field string) (any, bool) {
	spec, ok := registry[field]
	if !ok {
		return nil, false
	}
	return spec.get(r), true
}

// Apply sets field on r from a loosely typed value.
func (r *Recipe) Apply(field string, v any) error {
	spec, ok := registry[field]
	if !ok {
		return fmt.Errorf("field %q is not allowed", field)
	}
	if err := spec.set(r, v); err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	return nil
}

func decode(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
