package bulk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-pipeline/core/cache"
	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/logger"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/normalize"
	"recipe-pipeline/feature/recipes/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyBatch is returned when a request carries no records.
	ErrEmptyBatch = errors.New("no records to update")
	// ErrBatchTooLarge is returned when a request exceeds MaxBulkRecords.
	ErrBatchTooLarge = errors.New("too many records in one batch")
)

// Options controls one Run.
type Options struct {
	Reason string
	DryRun bool
	Source normalize.Source
}

// NormalizeFunc filters and normalizes the fields of one record.
type NormalizeFunc func(fields []changeset.Field, source normalize.Source) []changeset.Field

// Orchestrator applies batches of update records.
type Orchestrator struct {
	store     store.Store
	resolver  *store.Resolver
	cache     cache.Invalidator
	logger    *zap.Logger
	cfg       pipeline.Config
	normalize NormalizeFunc
	now       func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithNormalizer replaces normalize.Fields.
func WithNormalizer(fn NormalizeFunc) Option {
	return func(o *Orchestrator) { o.normalize = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator. inv may be nil.
func NewOrchestrator(s store.Store, inv cache.Invalidator, l *zap.Logger, cfg pipeline.Config, opts ...Option) *Orchestrator {
	if inv == nil {
		inv = cache.Nop{}
	}
	o := &Orchestrator{
		store:     s,
		resolver:  store.NewResolver(s),
		cache:     inv,
		logger:    l,
		cfg:       cfg.WithDefaults(),
		normalize: normalize.Fields,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes records sequentially; Results[i] belongs to records[i].
// A failing record is reported in its result and never stops the batch.
// The recipes cache tag is invalidated once after a real run.
func (o *Orchestrator) Run(ctx context.Context, records []UpdateRecord, opts Options) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(records) > o.cfg.MaxBulkRecords {
		return nil, fmt.Errorf("%w: %d records, limit is %d", ErrBatchTooLarge, len(records), o.cfg.MaxBulkRecords)
	}

	report := &Report{
		BatchID:   uuid.NewString(),
		Reason:    opts.Reason,
		Source:    opts.Source.String(),
		DryRun:    opts.DryRun,
		StartedAt: o.now(),
		Results:   make([]Result, 0, len(records)),
	}
	l := logger.WithBatch(o.logger, "bulk_update", report.BatchID)
	l.Info("Bulk update started",
		zap.Int("records", len(records)),
		zap.String("source", report.Source),
		zap.Bool("dry_run", opts.DryRun),
	)

	for _, rec := range records {
		res := o.process(ctx, rec, opts)
		if res.Status == models.StatusError {
			l.Warn("Record failed",
				zap.Int("row", res.Row),
				zap.String("_id", res.ID),
				zap.String("error", res.Message),
			)
		}
		report.Summary.Add(res.Status)
		report.Results = append(report.Results, res)
	}

	if !opts.DryRun {
		if err := o.cache.InvalidateTag(ctx, cache.TagRecipes); err != nil {
			l.Warn("Cache invalidation failed", zap.Error(err))
		}
	}

	report.FinishedAt = o.now()
	l.Info("Bulk update finished",
		zap.Int("success", report.Summary.Success),
		zap.Int("failed", report.Summary.Failed),
		zap.Int("not_found", report.Summary.NotFound),
		zap.Int("no_changes", report.Summary.NoChanges),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (o *Orchestrator) process(ctx context.Context, rec UpdateRecord, opts Options) (res Result) {
	res = Result{Row: rec.Line, ID: rec.ID}
	if !rec.UUID.IsZero() {
		id := rec.UUID
		res.UUID = &id
	}
	defer func() {
		if r := recover(); r != nil {
			res.Status = models.StatusError
			res.Message = fmt.Sprintf("unexpected failure: %v", r)
		}
	}()

	if rec.Ref().IsZero() {
		return fail(res, "record must include uuid or _id")
	}
	if err := ctx.Err(); err != nil {
		return fail(res, err.Error())
	}

	recipe, err := o.resolver.Resolve(ctx, rec.Ref())
	if errors.Is(err, store.ErrNotFound) {
		res.Status = models.StatusNotFound
		res.Message = "recipe not found"
		return res
	}
	if err != nil {
		return fail(res, err.Error())
	}
	res.ID = recipe.ID

	now := o.now()
	diff := changeset.Compute(recipe, coerce(o.normalize(rec.Fields, opts.Source)), now)
	if diff.Empty() {
		res.Status = models.StatusNoChanges
		res.Message = "no changes detected"
		return res
	}
	res.ChangedFields = diff.FieldNames()
	res.ChangedFieldsCount = len(res.ChangedFields)
	res.Changes = diff.Changed

	if opts.DryRun {
		res.Status = models.StatusSuccess
		res.Message = "dry run"
		return res
	}

	for _, f := range diff.Cleaned {
		if err := recipe.Apply(f.Name, f.Value); err != nil {
			return fail(res, err.Error())
		}
	}
	recipe.UpdatedAt = now

	audit := &models.RecipeUpdate{
		ID:       uuid.NewString(),
		RecipeID: recipe.ID,
		Reason:   opts.Reason,
		Changes:  entries(diff.Changed),
	}
	if err := o.store.Update(ctx, recipe, res.ChangedFields, audit); err != nil {
		return fail(res, err.Error())
	}

	res.Status = models.StatusSuccess
	res.Message = fmt.Sprintf("updated %d field(s)", res.ChangedFieldsCount)
	res.UpdateID = audit.ID
	return res
}

func fail(res Result, msg string) Result {
	res.Status = models.StatusError
	res.Message = msg
	return res
}

// coerce decodes each value into its field type when it fits, so the diff
// compares what would be stored. Values that do not fit are kept and fail
// when applied.
func coerce(fields []changeset.Field) []changeset.Field {
	out := make([]changeset.Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if v, err := models.Coerce(f.Name, f.Value); err == nil {
			out[i].Value = v
		}
	}
	return out
}

func entries(changed []changeset.Entry) []models.ChangeEntry {
	out := make([]models.ChangeEntry, len(changed))
	for i, c := range changed {
		out[i] = models.ChangeEntry{
			Field:     c.Field,
			OldValue:  c.OldValue,
			NewValue:  c.NewValue,
			Timestamp: c.Timestamp,
		}
	}
	return out
}
