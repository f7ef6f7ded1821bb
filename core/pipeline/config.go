package pipeline

import "time"

// Config holds the tunables of the bulk update and bulk generation pipelines.
type Config struct {
	// MaxBulkRecords caps the rows of one bulk update request.
	MaxBulkRecords int `mapstructure:"max_bulk_records" default:"5000"`
	// MaxNames caps the distinct names of one generation batch.
	MaxNames int `mapstructure:"max_names" default:"500"`
	// GroupSize is the number of names generated concurrently.
	GroupSize int `mapstructure:"group_size" default:"3"`
	// PacingMs is the pause between two generation groups.
	PacingMs int `mapstructure:"pacing_ms" default:"500"`
	// ItemTimeoutSeconds bounds the work on one generated name.
	ItemTimeoutSeconds int `mapstructure:"item_timeout_seconds" default:"180"`
	// SimilarCandidates is the number of near-duplicates checked after generation.
	SimilarCandidates int `mapstructure:"similar_candidates" default:"3"`
	// NameSimilarityThreshold is the minimum name score of a similarity candidate.
	NameSimilarityThreshold float64 `mapstructure:"name_similarity_threshold" default:"0.5"`
	// IngredientOverlapThreshold is the overlap score at which two recipes merge.
	IngredientOverlapThreshold float64 `mapstructure:"ingredient_overlap_threshold" default:"0.6"`
	// PrecheckChunkSize is the number of names per duplicate pre-check query.
	PrecheckChunkSize int `mapstructure:"precheck_chunk_size" default:"100"`
}

// Defaults returns the configuration with every default applied.
func Defaults() Config {
	return Config{
		MaxBulkRecords:             5000,
		MaxNames:                   500,
		GroupSize:                  3,
		PacingMs:                   500,
		ItemTimeoutSeconds:         180,
		SimilarCandidates:          3,
		NameSimilarityThreshold:    0.5,
		IngredientOverlapThreshold: 0.6,
		PrecheckChunkSize:          100,
	}
}

// WithDefaults replaces unset (zero or negative) values with defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.MaxBulkRecords <= 0 {
		c.MaxBulkRecords = d.MaxBulkRecords
	}
	if c.MaxNames <= 0 {
		c.MaxNames = d.MaxNames
	}
	if c.GroupSize <= 0 {
		c.GroupSize = d.GroupSize
	}
	if c.PacingMs < 0 {
		c.PacingMs = d.PacingMs
	}
	if c.ItemTimeoutSeconds <= 0 {
		c.ItemTimeoutSeconds = d.ItemTimeoutSeconds
	}
	if c.SimilarCandidates <= 0 {
		c.SimilarCandidates = d.SimilarCandidates
	}
	if c.NameSimilarityThreshold <= 0 {
		c.NameSimilarityThreshold = d.NameSimilarityThreshold
	}
	if c.IngredientOverlapThreshold <= 0 {
		c.IngredientOverlapThreshold = d.IngredientOverlapThreshold
	}
	if c.PrecheckChunkSize <= 0 {
		c.PrecheckChunkSize = d.PrecheckChunkSize
	}
	return c
}

// Pacing returns the pause between generation groups.
func (c Config) Pacing() time.Duration {
	return time.Duration(c.PacingMs) * time.Millisecond
}

// ItemTimeout returns the per-name work ceiling.
func (c Config) ItemTimeout() time.Duration {
	return time.Duration(c.ItemTimeoutSeconds) * time.Second
}
