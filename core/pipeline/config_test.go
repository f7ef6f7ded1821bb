package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	want := Defaults()
	want.PacingMs = 0
	assert.Equal(t, want, Config{}.WithDefaults())

	custom := Config{GroupSize: 5, PacingMs: 0, IngredientOverlapThreshold: 0.8}.WithDefaults()
	assert.Equal(t, 5, custom.GroupSize)
	assert.Equal(t, 0, custom.PacingMs, "zero pacing is a valid choice")
	assert.Equal(t, 0.8, custom.IngredientOverlapThreshold)
	assert.Equal(t, 500, custom.MaxNames)
}

func TestDurations(t *testing.T) {
	c := Defaults()
	assert.Equal(t, 500*time.Millisecond, c.Pacing())
	assert.Equal(t, 3*time.Minute, c.ItemTimeout())
}
