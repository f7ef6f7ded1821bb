package generate

import (
	"errors"
	"fmt"
	"strings"

	"recipe-pipeline/feature/recipes/models"
)

var (
	// ErrNoNames is returned when the input holds no usable name.
	ErrNoNames = errors.New("no recipe names provided")
	// ErrTooManyNames is returned when the input holds more names than allowed.
	ErrTooManyNames = errors.New("too many recipe names")
)

// minNameLength is the shortest name kept by ParseNames.
const minNameLength = 2

// ParseNames splits a comma separated list, trims every entry, drops entries
// shorter than two characters and removes repeats that normalize to the same
// dish name ("Paneer-Tikka", "paneer  tikka"), keeping the first spelling and
// order. It fails when nothing is left or when more
// than limit names remain.
func ParseNames(raw string, limit int) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if len([]rune(name)) < minNameLength {
			continue
		}
		key := models.NormalizeName(name)
		if key == "" {
			key = strings.ToLower(name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	if limit > 0 && len(names) > limit {
		return nil, fmt.Errorf("%w: %d names, limit is %d", ErrTooManyNames, len(names), limit)
	}
	return names, nil
}
