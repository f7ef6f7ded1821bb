package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/utils"
	"recipe-pipeline/feature/recipes/models"
)

// Source tells Normalize where a value came from.
type Source int

const (
	// SourceJSON is a decoded JSON request body.
	SourceJSON Source = iota
	// SourceCSV is a CSV cell; every value arrives as a string.
	SourceCSV
)

func (s Source) String() string {
	if s == SourceCSV {
		return "csv"
	}
	return "json"
}

// numericFields are coerced from CSV text to numbers.
var numericFields = map[string]bool{
	"prepTime": true,
	"cookTime": true,
	"servings": true,
}

// boolFields take "true"/"false" text as booleans from either source.
var boolFields = map[string]bool{
	"isPublic":  true,
	"isPremium": true,
	"isActive":  true,
}

var (
	quotedNumber = regexp.MustCompile(`([:\[,]\s*)"(-?\d+(?:\.\d+)?)"(\s*[,}\]])`)
	legacyToken  = regexp.MustCompile(`([:\[,]\s*)(None|True|False)(\s*[,}\]])`)
	looseToken   = regexp.MustCompile(`\b(None|True|False)\b`)
)

var jsonTokens = map[string]string{
	"None":  "null",
	"True":  "true",
	"False": "false",
}

// Fields keeps the allow-listed fields in input order and normalizes their
// values. Unknown fields are dropped without error.
func Fields(in []changeset.Field, source Source) []changeset.Field {
	out := make([]changeset.Field, 0, len(in))
	for _, f := range in {
		if !models.IsAllowed(f.Name) {
			continue
		}
		out = append(out, changeset.Field{Name: f.Name, Value: Normalize(f.Name, f.Value, source)})
	}
	return out
}

// Normalize converts raw into the representation stored for field. It never
// fails: a value that cannot be interpreted is returned unchanged.
func Normalize(field string, raw any, source Source) any {
	v := plain(raw)
	s, ok := v.(string)
	if !ok {
		return v
	}

	if parsed, ok := parseStructured(s); ok {
		return parsed
	}

	if boolFields[field] {
		if b, ok := utils.ParseBool(s); ok {
			return b
		}
	}
	if source == SourceCSV && numericFields[field] {
		if n, ok := utils.ParseNumber(s); ok {
			return utils.NumberValue(n)
		}
	}
	return s
}

// parseStructured decodes strings that look like a JSON array or object,
// including the legacy single-quoted spelling.
func parseStructured(s string) (any, bool) {
	t := strings.TrimSpace(s)
	if !looksStructured(t) {
		return nil, false
	}
	if v, ok := decodeJSON(t); ok {
		return v, true
	}
	if strings.Contains(t, "'") {
		return ParseLegacy(t)
	}
	return nil, false
}

// ParseLegacy repairs a bracketed value written with single quotes and
// None/True/False literals, for example
//
//	[{'name': 'Salt', 'quantity': '1.5', 'remarks': None}]
//
// A strict pass swaps the quotes, unquotes numbers in value position and
// replaces the literals only where a value is expected. If that does not
// parse, a loose pass replaces the literals everywhere.
func ParseLegacy(s string) (any, bool) {
	swapped := strings.ReplaceAll(s, "'", `"`)

	strict := untilStable(swapped, func(s string) string {
		return quotedNumber.ReplaceAllString(s, "${1}${2}${3}")
	})
	strict = untilStable(strict, func(s string) string {
		return legacyToken.ReplaceAllStringFunc(s, func(m string) string {
			sub := legacyToken.FindStringSubmatch(m)
			return sub[1] + jsonTokens[sub[2]] + sub[3]
		})
	})
	if v, ok := decodeJSON(strict); ok {
		return v, true
	}

	loose := looseToken.ReplaceAllStringFunc(swapped, func(tok string) string {
		return jsonTokens[tok]
	})
	return decodeJSON(loose)
}

// untilStable applies fn until the string stops changing. The guarded
// patterns consume the delimiter after a value, so adjacent values need a
// second pass.
func untilStable(s string, fn func(string) string) string {
	for range 8 {
		next := fn(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func looksStructured(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '[' && last == ']') || (first == '{' && last == '}')
}

func decodeJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// plain replaces json.Number values, at any depth, with int64 or float64.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, ok := utils.ToFloat(t); ok {
			return utils.NumberValue(f)
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	default:
		return v
	}
}
