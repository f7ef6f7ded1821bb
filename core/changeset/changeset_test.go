package changeset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type mapSource map[string]any

func (m mapSource) FieldValue(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

type nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

func TestCompute(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := mapSource{
		"name":      "Paneer Tikka",
		"prepTime":  15,
		"tags":      []string{"a", "b"},
		"nutrition": nutrition{Calories: 200, Protein: 12},
	}

	tests := []struct {
		name    string
		in      []Field
		changed []Entry
	}{
		{
			name: "OnlyDifferingFields",
			in: []Field{
				{Name: "name", Value: "Paneer Tikka"},
				{Name: "prepTime", Value: 20},
			},
			changed: []Entry{{Field: "prepTime", OldValue: 15, NewValue: 20, Timestamp: now}},
		},
		{
			// Arrays compare by serialized order.
			name:    "ReorderedArrayIsAChange",
			in:      []Field{{Name: "tags", Value: []string{"b", "a"}}},
			changed: []Entry{{Field: "tags", OldValue: []string{"a", "b"}, NewValue: []string{"b", "a"}, Timestamp: now}},
		},
		{
			name: "StructAndMapFormsAreEqual",
			in: []Field{{Name: "nutrition", Value: map[string]any{
				"protein":  json.Number("12"),
				"calories": 200.0,
			}}},
			changed: nil,
		},
		{
			name: "NumberFormsAreEqual",
			in:   []Field{{Name: "prepTime", Value: 15.0}},
		},
		{
			name: "OrderFollowsIncoming",
			in: []Field{
				{Name: "tags", Value: []string{"c"}},
				{Name: "description", Value: "new"},
				{Name: "prepTime", Value: 1},
			},
			changed: []Entry{
				{Field: "tags", OldValue: []string{"a", "b"}, NewValue: []string{"c"}, Timestamp: now},
				{Field: "description", OldValue: nil, NewValue: "new", Timestamp: now},
				{Field: "prepTime", OldValue: 15, NewValue: 1, Timestamp: now},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(existing, tt.in, now)
			if diff := cmp.Diff(tt.changed, res.Changed); diff != "" {
				t.Errorf("changed mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, res.Cleaned, len(tt.changed))
			assert.Equal(t, len(tt.changed) == 0, res.Empty())
		})
	}
}

func TestCompute_DoesNotMutateExisting(t *testing.T) {
	tags := []string{"a", "b"}
	existing := mapSource{"tags": tags}

	Compute(existing, []Field{{Name: "tags", Value: []string{"z"}}}, time.Now())
	assert.Equal(t, []string{"a", "b"}, existing["tags"])
}

func TestResult_FieldNames(t *testing.T) {
	res := Result{Changed: []Entry{{Field: "prepTime"}, {Field: "tags"}}}
	assert.Equal(t, []string{"prepTime", "tags"}, res.FieldNames())
	assert.Empty(t, Result{}.FieldNames())
}

func TestSerialize(t *testing.T) {
	assert.Equal(t, `{"calories":1,"protein":2}`, Serialize(nutrition{Calories: 1, Protein: 2}))
	assert.Equal(t, `{"calories":1,"protein":2}`, Serialize(map[string]any{"protein": 2, "calories": 1.0}))
	assert.Equal(t, "null", Serialize(nil))
	assert.False(t, Equal([]string{}, nil))
	assert.True(t, Equal("x", "x"))
}
