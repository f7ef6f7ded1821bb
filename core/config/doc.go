// Package config provides configuration management for the recipe pipeline.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit, stream timeout)
//   - Database: MySQL, PostgreSQL or SQLite connection details
//   - Storage: S3/MinIO credentials and the archive bucket
//   - Log: Logging level, format and outputs
//   - Cache: recipe read cache driver (memory, redis, none)
//   - Generation: completion provider, model and retry policy
//   - Pipeline: batch limits, group size, pacing and duplicate thresholds
//
// Every key maps to an environment variable by replacing dots with
// underscores, e.g. PIPELINE_GROUP_SIZE or GENERATION_API_KEY.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
