package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"recipe-pipeline/core/cache"
	"recipe-pipeline/core/csvimport"
	"recipe-pipeline/core/generation"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/bulk"
	"recipe-pipeline/feature/recipes/dedup"
	"recipe-pipeline/feature/recipes/generate"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/normalize"
	"recipe-pipeline/feature/recipes/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrGenerationDisabled is returned when no generation client is configured.
var ErrGenerationDisabled = errors.New("recipe generation is not configured")

// identifierColumns are the CSV headers that can name a recipe.
var identifierColumns = []string{"uuid", "_id"}

// Deps are the collaborators of the recipes feature.
type Deps struct {
	DB       *gorm.DB
	Cache    cache.Cache
	Archiver *Archiver
	// Generation may be nil, which disables bulk generation.
	Generation  generation.Client
	RetryPolicy generation.RetryPolicy
	Pipeline    pipeline.Config
	Logger      *zap.Logger
}

// Service exposes the recipe pipelines to the HTTP handler and the CLI.
type Service struct {
	store    store.Store
	cache    cache.Cache
	archiver *Archiver
	matcher  *dedup.Matcher
	bulk     *bulk.Orchestrator
	gen      *generate.Orchestrator
	logger   *zap.Logger
	cfg      pipeline.Config
}

// NewService wires the pipelines on top of d.DB.
func NewService(d Deps) *Service {
	c := d.Cache
	if c == nil {
		c = cache.Nop{}
	}
	cfg := d.Pipeline.WithDefaults()
	st := store.NewGormStore(d.DB)
	matcher := dedup.NewMatcher(st, cfg)

	s := &Service{
		store:    st,
		cache:    c,
		archiver: d.Archiver,
		matcher:  matcher,
		bulk:     bulk.NewOrchestrator(st, c, d.Logger, cfg),
		logger:   d.Logger,
		cfg:      cfg,
	}
	if d.Generation != nil {
		generator := generate.NewRecipeGenerator(d.Generation, d.RetryPolicy, d.Logger)
		s.gen = generate.NewOrchestrator(generator, matcher, st, c, d.Logger, cfg)
	}
	return s
}

// BulkUpdate applies records and archives the report of a real run.
func (s *Service) BulkUpdate(ctx context.Context, records []bulk.UpdateRecord, opts bulk.Options) (*bulk.Report, error) {
	report, err := s.bulk.Run(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		if _, err := s.archiver.SaveReport(ctx, report); err != nil {
			s.logger.Warn("Failed to archive bulk report", zap.String("batch_id", report.BatchID), zap.Error(err))
		}
	}
	return report, nil
}

// BulkUpdateCSV parses a CSV file, archives the upload and applies its rows.
// A header without a uuid or _id column rejects the file before any row is
// read.
func (s *Service) BulkUpdateCSV(ctx context.Context, filename string, data []byte, opts bulk.Options) (*bulk.Report, error) {
	table, err := csvimport.Parse(bytes.NewReader(data), identifierColumns...)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		if key, err := s.archiver.SaveUpload(ctx, filename, data, time.Now()); err != nil {
			s.logger.Warn("Failed to archive CSV upload", zap.String("file", filename), zap.Error(err))
		} else if key != "" {
			s.logger.Info("Archived CSV upload", zap.String("key", key))
		}
	}
	opts.Source = normalize.SourceCSV
	return s.BulkUpdate(ctx, bulk.RecordsFromCSV(table), opts)
}

// BulkUpdateArchivedCSV re-runs an archived CSV upload.
func (s *Service) BulkUpdateArchivedCSV(ctx context.Context, key string, opts bulk.Options) (*bulk.Report, error) {
	data, err := s.archiver.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	table, err := csvimport.Parse(bytes.NewReader(data), identifierColumns...)
	if err != nil {
		return nil, err
	}
	opts.Source = normalize.SourceCSV
	return s.BulkUpdate(ctx, bulk.RecordsFromCSV(table), opts)
}

// ListReports returns the ids of archived bulk reports.
func (s *Service) ListReports(ctx context.Context) ([]string, error) {
	return s.archiver.ListReports(ctx)
}

// GetReport returns one archived bulk report.
func (s *Service) GetReport(ctx context.Context, batchID string) (*bulk.Report, error) {
	return s.archiver.LoadReport(ctx, batchID)
}

// StartGeneration validates names and starts a generation batch.
func (s *Service) StartGeneration(ctx context.Context, names string) (<-chan generate.Event, error) {
	if s.gen == nil {
		return nil, ErrGenerationDisabled
	}
	return s.gen.Start(ctx, names)
}

// FindSimilar runs the name similarity search.
func (s *Service) FindSimilar(ctx context.Context, name string, limit int) ([]models.Recipe, error) {
	return s.matcher.FindSimilarRecipes(ctx, name, limit)
}

// GetRecipe returns the JSON of one recipe through the read cache.
func (s *Service) GetRecipe(ctx context.Context, id string) ([]byte, error) {
	return s.cache.GetOrLoad(ctx, "recipe:"+id, []string{cache.TagRecipes}, func(ctx context.Context) ([]byte, error) {
		r, err := store.NewResolver(s.store).Resolve(ctx, store.Ref{ID: id})
		if err != nil {
			return nil, err
		}
		return json.Marshal(r)
	})
}
