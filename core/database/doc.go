// Package database handles database connections and schema inspection for the
// recipe store.
//
// # Connect
//
// Connect opens a GORM connection for the configured driver: MySQL (default),
// Postgres or SQLite. SQLite is used for local runs and tests; its pool is
// pinned to a single connection so that ":memory:" databases stay coherent.
//
// # Schema Inspection
//
// GetTableColumns reports the live columns of a table on every supported
// dialect; MissingColumns compares them against the columns a model expects.
// The migrate command uses both to verify the recipe tables after AutoMigrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "recipes", []string{"uuid", "normalized_name"})
package database
