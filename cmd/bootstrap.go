package cmd

import (
	"context"
	"fmt"

	"recipe-pipeline/core/cache"
	"recipe-pipeline/core/config"
	"recipe-pipeline/core/database"
	"recipe-pipeline/core/generation"
	"recipe-pipeline/core/logger"
	"recipe-pipeline/core/storage"
	"recipe-pipeline/feature/recipes"
	"recipe-pipeline/feature/recipes/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment is everything a command needs to run the recipe pipelines.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	deps   recipes.Deps
}

// bootstrap loads configuration and connects the collaborators in order:
// logger, database (required), archive storage, cache and generation
// client (both optional).
func bootstrap(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	logg.Info("Connected to recipe database", zap.String("driver", cfg.Database.Driver))

	archiver := recipes.NewArchiver(nil, cfg.Storage.Bucket)
	if cfg.Storage.Archive {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		archiver = recipes.NewArchiver(client, cfg.Storage.Bucket)
		if err := archiver.Prepare(ctx); err != nil {
			logg.Warn("Archive storage unavailable, archiving disabled", zap.Error(err))
			archiver = recipes.NewArchiver(nil, cfg.Storage.Bucket)
		}
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		logg.Warn("Cache unavailable, reads go to the database", zap.Error(err))
		c = cache.Nop{}
	}

	gen, err := generation.NewClient(ctx, cfg.Generation)
	if err != nil {
		logg.Warn("Bulk generation disabled", zap.Error(err))
		gen = nil
	}

	return &environment{
		cfg:    cfg,
		logger: logg,
		db:     db,
		deps: recipes.Deps{
			DB:          db,
			Cache:       c,
			Archiver:    archiver,
			Generation:  gen,
			RetryPolicy: cfg.Generation.RetryPolicy(),
			Pipeline:    cfg.Pipeline,
			Logger:      logg,
		},
	}, nil
}

// close releases the database connection.
func (e *environment) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.logger.Sync()
}
