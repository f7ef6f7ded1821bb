package cmd

import (
	"fmt"
	"sync"

	"recipe-pipeline/core/config"
	"recipe-pipeline/core/database"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var migrateCheckOnly bool

// migrateCmd creates or updates the recipe tables and reports their columns.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the recipe tables",
	Long:  `Runs the schema migration for recipes and recipe updates, then lists each table's columns and any the models expect but the table lacks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if !migrateCheckOnly {
			if err := store.Migrate(db); err != nil {
				return err
			}
			fmt.Println("✓ Migration complete")
		}
		return inspectTables(db)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheckOnly, "check", false, "Only inspect the tables, do not migrate")
	RootCmd.AddCommand(migrateCmd)
}

func inspectTables(db *gorm.DB) error {
	for _, model := range models.All() {
		s, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
		if err != nil {
			return fmt.Errorf("failed to parse model schema: %w", err)
		}

		columns, err := database.GetTableColumns(db, s.Table)
		if err != nil {
			return err
		}
		fmt.Printf("\n--- %s (%d columns) ---\n", s.Table, len(columns))
		for _, col := range columns {
			fmt.Printf("  %-28s %-16s %s\n", col.Field, col.Type, col.Key)
		}

		missing, err := database.MissingColumns(db, s.Table, s.DBNames)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			fmt.Printf("\033[31mMissing columns: %v\033[0m\n", missing)
		}
	}
	return nil
}
