package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"recipe-pipeline/core/utils"
)

// FlexID is the external uuid of a recipe. Historic records store it as a
// string or as a number; FlexID keeps the text form plus which one it was.
type FlexID struct {
	text    string
	numeric bool
}

// ParseFlexID builds a FlexID from a decoded JSON value, a CSV cell or a
// native number. The second return value is false for empty input.
func ParseFlexID(v any) (FlexID, bool) {
	switch t := v.(type) {
	case nil:
		return FlexID{}, false
	case FlexID:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		return FlexID{text: s}, s != ""
	case json.Number:
		text := strings.TrimSpace(t.String())
		if _, ok := utils.ParseNumber(text); !ok {
			return FlexID{}, false
		}
		return FlexID{text: text, numeric: true}, true
	case float64, float32, int, int64, int32, uint, uint64, uint32:
		f, ok := utils.ToFloat(t)
		if !ok {
			return FlexID{}, false
		}
		return FlexID{text: formatNumber(f), numeric: true}, true
	default:
		s := strings.TrimSpace(utils.ToString(t))
		return FlexID{text: s}, s != ""
	}
}

// NumericFlexID returns a FlexID stored as a number.
func NumericFlexID(n int64) FlexID {
	return FlexID{text: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the text form.
func (f FlexID) String() string { return f.text }

// IsZero reports whether no uuid is set.
func (f FlexID) IsZero() bool { return f.text == "" }

// IsNumeric reports whether the value was provided as a number.
func (f FlexID) IsNumeric() bool { return f.numeric }

// Forms returns the lookup candidates: the text form and, when the text
// parses as a finite number, its canonical numeric spelling ("7.0" and "7").
func (f FlexID) Forms() []string {
	if f.IsZero() {
		return nil
	}
	forms := []string{f.text}
	if n, ok := utils.ParseNumber(f.text); ok {
		if canonical := formatNumber(n); canonical != f.text {
			forms = append(forms, canonical)
		}
	}
	return forms
}

// Value implements driver.Valuer. The column is text on every driver.
func (f FlexID) Value() (driver.Value, error) {
	if f.IsZero() {
		return nil, nil
	}
	return f.text, nil
}

// Scan implements sql.Scanner.
func (f *FlexID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = FlexID{}
	case string:
		*f = FlexID{text: v}
	case []byte:
		*f = FlexID{text: string(v)}
	case int64:
		*f = FlexID{text: strconv.FormatInt(v, 10), numeric: true}
	case float64:
		*f = FlexID{text: formatNumber(v), numeric: true}
	default:
		return fmt.Errorf("unsupported uuid column type %T", src)
	}
	return nil
}

// MarshalJSON writes numeric uuids as JSON numbers.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	if f.numeric {
		if _, ok := utils.ParseNumber(f.text); ok {
			return []byte(f.text), nil
		}
	}
	return json.Marshal(f.text)
}

// UnmarshalJSON accepts a string, a number or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID{text: strings.TrimSpace(s)}
		return nil
	}
	if _, ok := utils.ParseNumber(string(data)); !ok {
		return fmt.Errorf("invalid uuid %s", data)
	}
	*f = FlexID{text: string(data), numeric: true}
	return nil
}

func formatNumber(f float64) string {
	return utils.ToString(utils.NumberValue(f))
}
