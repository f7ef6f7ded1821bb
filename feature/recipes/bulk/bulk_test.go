package bulk_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/csvimport"
	"recipe-pipeline/core/pipeline"
	"recipe-pipeline/feature/recipes/bulk"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/normalize"
	"recipe-pipeline/feature/recipes/store"
	"recipe-pipeline/feature/recipes/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingInvalidator struct {
	calls atomic.Int32
	tags  []string
	err   error
}

func (c *countingInvalidator) InvalidateTag(_ context.Context, tag string) error {
	c.calls.Add(1)
	c.tags = append(c.tags, tag)
	return c.err
}

func newOrchestrator(t *testing.T, opts ...bulk.Option) (*bulk.Orchestrator, *store.GormStore, *countingInvalidator) {
	t.Helper()
	_, st := storetest.New(t)
	inv := &countingInvalidator{}
	return bulk.NewOrchestrator(st, inv, zap.NewNop(), pipeline.Defaults(), opts...), st, inv
}

func assertSummaryTotals(t *testing.T, s bulk.Summary) {
	t.Helper()
	assert.Equal(t, s.Total, s.Success+s.Failed+s.NotFound+s.NoChanges)
}

func TestRun_CSVEndToEnd(t *testing.T) {
	ctx := context.Background()
	o, st, inv := newOrchestrator(t)
	recipe := &models.Recipe{UUID: models.NumericFlexID(7), Name: "Paneer Tikka", PrepTime: 15}
	storetest.Seed(t, st, recipe)

	table, err := csvimport.Parse(strings.NewReader("uuid,name,prepTime\n7,Paneer Tikka,20\n"), "uuid", "_id")
	require.NoError(t, err)

	report, err := o.Run(ctx, bulk.RecordsFromCSV(table), bulk.Options{Reason: "fix prep", Source: normalize.SourceCSV})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, []string{"prepTime"}, res.ChangedFields)
	assert.Equal(t, 1, res.ChangedFieldsCount)
	assert.Equal(t, recipe.ID, res.ID)
	assert.Equal(t, 2, res.Row)
	assert.NoError(t, uuid.Validate(res.UpdateID))
	assert.Equal(t, bulk.Summary{Total: 1, Success: 1}, report.Summary)
	assert.Equal(t, "csv", report.Source)
	assert.Equal(t, int32(1), inv.calls.Load())

	got, err := st.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.PrepTime)

	updates, err := st.ListUpdates(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, res.UpdateID, updates[0].ID)
	assert.Equal(t, "fix prep", updates[0].Reason)
}

func TestRun_NoOpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	o, st, _ := newOrchestrator(t, bulk.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	recipe := &models.Recipe{Name: "Dal", Servings: 2}
	storetest.Seed(t, st, recipe)

	records := []bulk.UpdateRecord{{ID: recipe.ID, Fields: []changeset.Field{
		{Name: "servings", Value: float64(4)},
		{Name: "tags", Value: []any{"lentil"}},
	}}}

	first, err := o.Run(ctx, records, bulk.Options{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, first.Results[0].Status)
	after, err := st.FindByID(ctx, recipe.ID)
	require.NoError(t, err)

	second, err := o.Run(ctx, records, bulk.Options{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoChanges, second.Results[0].Status)

	again, err := st.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(again.UpdatedAt))

	updates, err := st.ListUpdates(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestRun_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	o, st, inv := newOrchestrator(t, bulk.WithNormalizer(func(fields []changeset.Field, src normalize.Source) []changeset.Field {
		for _, f := range fields {
			if f.Value == "boom" {
				panic("normalizer exploded")
			}
		}
		return normalize.Fields(fields, src)
	}))

	recipes := make([]*models.Recipe, 5)
	for i := range recipes {
		recipes[i] = &models.Recipe{Name: "Recipe", CookTime: i}
	}
	storetest.Seed(t, st, recipes...)

	records := make([]bulk.UpdateRecord, 5)
	for i, r := range recipes {
		records[i] = bulk.UpdateRecord{ID: r.ID, Fields: []changeset.Field{{Name: "cookTime", Value: float64(30)}}}
	}
	records[2].Fields = []changeset.Field{{Name: "description", Value: "boom"}}
	records[3].Fields = []changeset.Field{{Name: "cookTime", Value: float64(3)}}

	report, err := o.Run(ctx, records, bulk.Options{})
	require.NoError(t, err)

	statuses := make([]models.Status, len(report.Results))
	for i, r := range report.Results {
		statuses[i] = r.Status
	}
	assert.Equal(t, []models.Status{
		models.StatusSuccess,
		models.StatusSuccess,
		models.StatusError,
		models.StatusNoChanges,
		models.StatusSuccess,
	}, statuses)
	assert.Contains(t, report.Results[2].Message, "normalizer exploded")
	assert.Equal(t, bulk.Summary{Total: 5, Success: 3, Failed: 1, NoChanges: 1}, report.Summary)
	assertSummaryTotals(t, report.Summary)
	assert.Equal(t, int32(1), inv.calls.Load())
}

func TestRun_Classification(t *testing.T) {
	ctx := context.Background()
	o, st, _ := newOrchestrator(t)
	recipe := &models.Recipe{UUID: models.NumericFlexID(1), Name: "Soup", Servings: 1}
	storetest.Seed(t, st, recipe)

	id, _ := models.ParseFlexID("1")
	records := []bulk.UpdateRecord{
		{Fields: []changeset.Field{{Name: "name", Value: "No Ids"}}},
		{UUID: models.NumericFlexID(404), Fields: []changeset.Field{{Name: "name", Value: "Ghost"}}},
		{ID: "not-a-valid-id"},
		{UUID: id, Fields: []changeset.Field{{Name: "servings", Value: "lots"}}},
		{UUID: id, Fields: []changeset.Field{{Name: "secret", Value: "x"}}},
	}

	report, err := o.Run(ctx, records, bulk.Options{})
	require.NoError(t, err)
	require.Len(t, report.Results, 5)

	assert.Equal(t, models.StatusError, report.Results[0].Status)
	assert.Equal(t, "record must include uuid or _id", report.Results[0].Message)
	assert.Equal(t, models.StatusNotFound, report.Results[1].Status)
	assert.Equal(t, "404", report.Results[1].UUID.String())
	assert.Equal(t, models.StatusNotFound, report.Results[2].Status)
	assert.Equal(t, "not-a-valid-id", report.Results[2].ID)
	assert.Equal(t, models.StatusError, report.Results[3].Status)
	assert.Contains(t, report.Results[3].Message, "invalid value for servings")
	assert.Equal(t, models.StatusNoChanges, report.Results[4].Status)

	assert.Equal(t, bulk.Summary{Total: 5, Failed: 2, NotFound: 2, NoChanges: 1}, report.Summary)
	assertSummaryTotals(t, report.Summary)
}

func TestRun_DryRun(t *testing.T) {
	ctx := context.Background()
	o, st, inv := newOrchestrator(t)
	recipe := &models.Recipe{Name: "Soup", Servings: 1}
	storetest.Seed(t, st, recipe)

	report, err := o.Run(ctx, []bulk.UpdateRecord{{ID: recipe.ID, Fields: []changeset.Field{{Name: "servings", Value: float64(6)}}}},
		bulk.Options{DryRun: true})
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, "dry run", res.Message)
	assert.Empty(t, res.UpdateID)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, 1, res.Changes[0].OldValue)
	assert.Equal(t, 6, res.Changes[0].NewValue)

	got, err := st.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Servings)
	assert.Zero(t, inv.calls.Load())
}

func TestRun_BatchErrors(t *testing.T) {
	_, st := storetest.New(t)
	cfg := pipeline.Defaults()
	cfg.MaxBulkRecords = 2
	o := bulk.NewOrchestrator(st, nil, zap.NewNop(), cfg)

	_, err := o.Run(context.Background(), nil, bulk.Options{})
	assert.ErrorIs(t, err, bulk.ErrEmptyBatch)

	_, err = o.Run(context.Background(), make([]bulk.UpdateRecord, 3), bulk.Options{})
	assert.ErrorIs(t, err, bulk.ErrBatchTooLarge)
}

func TestRun_InvalidationFailureIgnored(t *testing.T) {
	_, st := storetest.New(t)
	inv := &countingInvalidator{err: errors.New("redis down")}
	o := bulk.NewOrchestrator(st, inv, zap.NewNop(), pipeline.Defaults())

	report, err := o.Run(context.Background(), []bulk.UpdateRecord{{UUID: models.NumericFlexID(9)}}, bulk.Options{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFound, report.Results[0].Status)
	assert.Equal(t, []string{"recipes"}, inv.tags)
}

func TestUpdateRecord_UnmarshalJSON(t *testing.T) {
	var records []bulk.UpdateRecord
	err := json.Unmarshal([]byte(`[
		{"uuid": 12345678901234567890, "tags": ["b","a"], "name": "Dal", "prepTime": 10},
		{"_id": "abc", "uuid": "7", "servings": 2}
	]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "12345678901234567890", records[0].UUID.String())
	assert.True(t, records[0].UUID.IsNumeric())
	names := make([]string, 0, len(records[0].Fields))
	for _, f := range records[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"tags", "name", "prepTime"}, names)
	assert.Equal(t, json.Number("10"), records[0].Fields[2].Value)

	assert.Equal(t, "abc", records[1].ID)
	assert.Equal(t, "7", records[1].UUID.String())

	var bad bulk.UpdateRecord
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &bad))
}

func TestRecordsFromCSV(t *testing.T) {
	table, err := csvimport.Parse(strings.NewReader("_id,UUID,PrepTime,description,extra\nabc,,,\"Hot, spicy\",x\n,5,20,,\n"), "uuid", "_id")
	require.NoError(t, err)

	records := bulk.RecordsFromCSV(table)
	require.Len(t, records, 2)

	assert.Equal(t, "abc", records[0].ID)
	assert.True(t, records[0].UUID.IsZero())
	assert.Equal(t, []changeset.Field{
		{Name: "description", Value: "Hot, spicy"},
		{Name: "extra", Value: "x"},
	}, records[0].Fields)
	assert.Equal(t, 2, records[0].Line)

	assert.Equal(t, "5", records[1].UUID.String())
	assert.Equal(t, []changeset.Field{{Name: "prepTime", Value: "20"}}, records[1].Fields)
}

func TestDecodeRequest(t *testing.T) {
	req, err := bulk.DecodeRequest([]byte(` [{"uuid": 7, "servings": 2}] `))
	require.NoError(t, err)
	require.Len(t, req.Records, 1)
	assert.Equal(t, "7", req.Records[0].UUID.String())
	assert.False(t, req.DryRun)

	req, err = bulk.DecodeRequest([]byte(`{"reason":"typo","dryRun":true,"records":[{"_id":"abc","name":"Soup"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "typo", req.Reason)
	assert.True(t, req.DryRun)
	assert.Equal(t, "abc", req.Records[0].ID)

	_, err = bulk.DecodeRequest([]byte(`{"records": 5}`))
	assert.ErrorContains(t, err, "invalid bulk update body")
}
