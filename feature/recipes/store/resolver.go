package store

import (
	"context"
	"strings"

	"recipe-pipeline/feature/recipes/models"

	"github.com/google/uuid"
)

// Ref identifies a stored recipe by database id or by external uuid.
type Ref struct {
	ID   string
	UUID models.FlexID
}

// IsZero reports whether neither identifier is set.
func (r Ref) IsZero() bool {
	return strings.TrimSpace(r.ID) == "" && r.UUID.IsZero()
}

// Resolver maps a Ref to exactly one stored recipe.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver on s.
func NewResolver(s Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve looks up ref. A set ID wins and the uuid is ignored; a malformed
// ID resolves to ErrNotFound. Otherwise the uuid is matched in both its text
// and numeric spelling. Resolve never writes.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (*models.Recipe, error) {
	if id := strings.TrimSpace(ref.ID); id != "" {
		if uuid.Validate(id) != nil {
			return nil, ErrNotFound
		}
		return r.store.FindByID(ctx, id)
	}
	if ref.UUID.IsZero() {
		return nil, ErrNotFound
	}
	return r.store.FindByUUID(ctx, ref.UUID.Forms())
}
