package changeset

import (
	"encoding/json"
	"fmt"
	"time"
)

// Field is one named incoming value. Slices of Field keep the caller's order.
type Field struct {
	Name  string
	Value any
}

// Entry is one field-level before/after pair.
type Entry struct {
	Field     string    `json:"field"`
	OldValue  any       `json:"oldValue"`
	NewValue  any       `json:"newValue"`
	Timestamp time.Time `json:"timestamp"`
}

// Source exposes the current values of a stored record.
type Source interface {
	FieldValue(name string) (any, bool)
}

// Result is the outcome of Compute.
type Result struct {
	// Changed lists the differing fields in incoming order.
	Changed []Entry
	// Cleaned holds only the incoming fields that differ.
	Cleaned []Field
}

// Empty reports whether nothing differs.
func (r Result) Empty() bool {
	return len(r.Cleaned) == 0
}

// FieldNames returns the changed field names in order.
func (r Result) FieldNames() []string {
	names := make([]string, 0, len(r.Changed))
	for _, e := range r.Changed {
		names = append(names, e.Field)
	}
	return names
}

// Compute compares every incoming field against existing by canonical
// serialized form and keeps the ones that differ. Array order is significant:
// ["a","b"] and ["b","a"] are different values. existing is never modified.
func Compute(existing Source, incoming []Field, now time.Time) Result {
	var res Result
	for _, f := range incoming {
		old, _ := existing.FieldValue(f.Name)
		if Equal(old, f.Value) {
			continue
		}
		res.Changed = append(res.Changed, Entry{
			Field:     f.Name,
			OldValue:  old,
			NewValue:  f.Value,
			Timestamp: now,
		})
		res.Cleaned = append(res.Cleaned, f)
	}
	return res
}

// Equal reports whether a and b serialize to the same canonical JSON.
func Equal(a, b any) bool {
	return Serialize(a) == Serialize(b)
}

// Serialize renders v as canonical JSON: struct fields and map keys end up in
// the same (sorted) order and numbers in their shortest form, so a typed value
// and its decoded map form compare equal.
func Serialize(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}
