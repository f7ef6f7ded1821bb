package generate

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"recipe-pipeline/core/cache"
	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/logger"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/dedup"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mergeReason is recorded on the audit row of a merge.
const mergeReason = "merged generated recipe"

// invalidateTimeout bounds the cache call after a batch.
const invalidateTimeout = 5 * time.Second

// finalEventTimeout bounds delivery of the done event once the batch context
// is cancelled.
const finalEventTimeout = 2 * time.Second

// Generator produces a recipe for a dish name.
type Generator interface {
	Generate(ctx context.Context, name string) (*models.Recipe, error)
}

// DuplicateMatcher is the part of dedup.Matcher the orchestrator uses.
type DuplicateMatcher interface {
	BatchFindDuplicates(ctx context.Context, names []string) (map[string]dedup.Match, error)
	FindSimilarRecipes(ctx context.Context, name string, limit int) ([]models.Recipe, error)
	CompareIngredients(a, b []models.Ingredient) dedup.Comparison
	MergeRecipeData(ctx context.Context, existingID string, fields []changeset.Field, reason string) (*models.Recipe, error)
}

// Orchestrator turns a list of dish names into stored recipes, streaming
// progress events.
type Orchestrator struct {
	generator Generator
	matcher   DuplicateMatcher
	store     store.Store
	cache     cache.Invalidator
	logger    *zap.Logger
	cfg       pipeline.Config
}

// NewOrchestrator creates an orchestrator. inv may be nil.
func NewOrchestrator(gen Generator, matcher DuplicateMatcher, s store.Store, inv cache.Invalidator, l *zap.Logger, cfg pipeline.Config) *Orchestrator {
	if inv == nil {
		inv = cache.Nop{}
	}
	return &Orchestrator{
		generator: gen,
		matcher:   matcher,
		store:     s,
		cache:     inv,
		logger:    l,
		cfg:       cfg.WithDefaults(),
	}
}

type item struct {
	index int
	name  string
}

// progress counts outcomes and serialises event delivery so that progress
// values reach the consumer in increasing order.
type progress struct {
	mu    sync.Mutex
	ctx   context.Context
	out   chan<- Event
	total int
	tally DonePayload
}

func (p *progress) send(ev Event) {
	select {
	case p.out <- ev:
	case <-p.ctx.Done():
	}
}

// sendFinal delivers ev even after cancellation, waiting at most
// finalEventTimeout for a consumer that is still reading.
func (p *progress) sendFinal(ev Event) {
	select {
	case p.out <- ev:
		return
	default:
	}
	t := time.NewTimer(finalEventTimeout)
	defer t.Stop()
	select {
	case p.out <- ev:
	case <-t.C:
	}
}

func (p *progress) record(payload RecipePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tally.Count(payload)
	payload.Progress = p.tally.Progress
	payload.Total = p.total
	p.send(Event{Type: EventRecipe, Data: payload})
}

// Start validates raw and starts the batch. Validation errors are returned
// before any event exists. The channel is closed after the done or error
// event. Cancelling ctx stops scheduling further groups; items already
// running finish under their own timeout, and their events are dropped
// once nobody is listening.
func (o *Orchestrator) Start(ctx context.Context, raw string) (<-chan Event, error) {
	names, err := ParseNames(raw, o.cfg.MaxNames)
	if err != nil {
		return nil, err
	}
	out := make(chan Event, o.cfg.GroupSize+2)
	go o.run(ctx, names, out)
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, names []string, out chan<- Event) {
	defer close(out)

	batchID := uuid.NewString()
	l := logger.WithBatch(o.logger, "bulk_generate", batchID)
	p := &progress{ctx: ctx, out: out, total: len(names), tally: DonePayload{Total: len(names)}}

	dups, err := o.matcher.BatchFindDuplicates(ctx, names)
	if err != nil {
		l.Error("Duplicate pre-check failed", zap.Error(err))
		p.send(Event{Type: EventError, Data: ErrorPayload{Total: p.total, Message: err.Error()}})
		return
	}

	var todo []item
	for i, name := range names {
		if _, ok := dups[name]; !ok {
			todo = append(todo, item{index: i, name: name})
		}
	}
	skipped := len(names) - len(todo)

	l.Info("Bulk generation started", zap.Int("names", len(names)), zap.Int("skipped", skipped))
	p.send(Event{Type: EventInit, Data: InitPayload{
		BatchID:    batchID,
		Total:      p.total,
		ToGenerate: len(todo),
		Skipped:    skipped,
		Message:    fmt.Sprintf("Generating %d recipe(s), %d already exist", len(todo), skipped),
	}})

	for i, name := range names {
		if match, ok := dups[name]; ok {
			p.record(RecipePayload{
				Index:        i,
				Name:         name,
				Status:       models.StatusSkipped,
				Message:      "recipe already exists",
				ExistingID:   match.ExistingID,
				ExistingName: match.ExistingName,
			})
		}
	}

	first := true
	for group := range slices.Chunk(todo, o.cfg.GroupSize) {
		if !first && !sleep(ctx, o.cfg.Pacing()) {
			break
		}
		first = false
		if ctx.Err() != nil {
			break
		}

		var wg sync.WaitGroup
		for _, it := range group {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.record(o.process(ctx, l, it))
			}()
		}
		wg.Wait()
	}

	cancelled := ctx.Err() != nil
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	if err := o.cache.InvalidateTag(invCtx, cache.TagRecipes); err != nil {
		l.Warn("Cache invalidation failed", zap.Error(err))
	}
	cancel()

	p.mu.Lock()
	done := p.tally
	p.mu.Unlock()
	done.BatchID = batchID
	done.Cancelled = cancelled
	done.Message = done.Summary()

	l.Info("Bulk generation finished",
		zap.Int("success", done.Success),
		zap.Int("merged", done.Merged),
		zap.Int("skipped", done.Skipped),
		zap.Int("errors", done.Errors),
		zap.Bool("cancelled", cancelled),
	)
	p.sendFinal(Event{Type: EventDone, Data: done})
}

// process generates one name and either merges it into a near-duplicate or
// stores it as a new recipe.
func (o *Orchestrator) process(parent context.Context, l *zap.Logger, it item) (payload RecipePayload) {
	payload = RecipePayload{Index: it.index, Name: it.name}
	defer func() {
		if r := recover(); r != nil {
			payload.Status = models.StatusError
			payload.Message = fmt.Sprintf("unexpected failure: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), o.cfg.ItemTimeout())
	defer cancel()

	fail := func(step string, err error) RecipePayload {
		l.Warn("Recipe generation failed", zap.String("name", it.name), zap.String("step", step), zap.Error(err))
		payload.Status = models.StatusError
		payload.Message = fmt.Sprintf("%s: %v", step, err)
		return payload
	}

	recipe, err := o.generator.Generate(ctx, it.name)
	if err != nil {
		return fail("generate", err)
	}

	similar, err := o.matcher.FindSimilarRecipes(ctx, recipe.Name, o.cfg.SimilarCandidates)
	if err != nil {
		return fail("similarity search", err)
	}
	for _, candidate := range similar {
		cmp := o.matcher.CompareIngredients(recipe.Ingredients, candidate.Ingredients)
		if !cmp.Similar {
			continue
		}
		if _, err := o.matcher.MergeRecipeData(ctx, candidate.ID, mergeFields(recipe), mergeReason); err != nil {
			return fail("merge", err)
		}
		payload.Status = models.StatusMerged
		payload.ID = candidate.ID
		payload.ExistingID = candidate.ID
		payload.ExistingName = candidate.Name
		payload.OverlapScore = cmp.OverlapScore
		payload.Message = fmt.Sprintf("merged into %q", candidate.Name)
		return payload
	}

	if err := o.store.Create(ctx, recipe); err != nil {
		return fail("create", err)
	}
	payload.Status = models.StatusSuccess
	payload.ID = recipe.ID
	payload.Message = "recipe created"
	return payload
}

func mergeFields(r *models.Recipe) []changeset.Field {
	fields := make([]changeset.Field, 0, len(models.MergeEligible))
	for _, name := range models.MergeEligible {
		if v, ok := r.FieldValue(name); ok {
			fields = append(fields, changeset.Field{Name: name, Value: v})
		}
	}
	return fields
}

// sleep waits d or until ctx is done. It reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
