package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"recipe-pipeline/core/cache"
	"recipe-pipeline/core/database"
	"recipe-pipeline/core/generation"
	"recipe-pipeline/core/logger"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/core/server"
	"recipe-pipeline/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used for CSV and report archives.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the recipe database connection.
	Database database.Config `mapstructure:"database"`
	// Cache holds configuration for the recipe read cache.
	Cache cache.Config `mapstructure:"cache"`
	// Generation holds configuration for the recipe generation service.
	Generation generation.Config `mapstructure:"generation"`
	// Pipeline holds the limits and tunables of the bulk pipelines.
	Pipeline pipeline.Config `mapstructure:"pipeline"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the pipelines cannot run with. Unset numeric
// tunables are fine; they fall back to their defaults.
func (c *Config) Validate() error {
	var errs []error

	if !database.Supported(c.Database.Driver) {
		errs = append(errs, fmt.Errorf("database.driver %q is not one of mysql, postgres, sqlite", c.Database.Driver))
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "", cache.DriverMemory, cache.DriverRedis, cache.DriverNone:
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q is not one of memory, redis, none", c.Cache.Driver))
	}
	switch strings.ToLower(c.Generation.Provider) {
	case "", generation.ProviderOpenRouter, generation.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("generation.provider %q is not one of openrouter, gemini", c.Generation.Provider))
	}

	p := c.Pipeline
	for name, score := range map[string]float64{
		"pipeline.name_similarity_threshold":    p.NameSimilarityThreshold,
		"pipeline.ingredient_overlap_threshold": p.IngredientOverlapThreshold,
	} {
		if score > 1 {
			errs = append(errs, fmt.Errorf("%s must be at most 1, got %v", name, score))
		}
	}
	if p.MaxNames > 0 && p.GroupSize > p.MaxNames {
		errs = append(errs, fmt.Errorf("pipeline.group_size (%d) exceeds pipeline.max_names (%d)", p.GroupSize, p.MaxNames))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
