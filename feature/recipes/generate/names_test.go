package generate_test

import (
	"fmt"
	"strings"
	"testing"

	"recipe-pipeline/feature/recipes/generate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
		err  error
	}{
		{"Trim And Dedupe", " Paneer Tikka, dal makhani ,PANEER TIKKA, Dal Makhani", []string{"Paneer Tikka", "dal makhani"}, nil},
		{"Normalized Repeats", "Paneer Tikka, paneer  tikka, Paneer-Tikka, Dal Makhani", []string{"Paneer Tikka", "Dal Makhani"}, nil},
		{"Short Entries Dropped", "a, ,Idli,, b", []string{"Idli"}, nil},
		{"Empty", " , ,x", nil, generate.ErrNoNames},
		{"Blank", "", nil, generate.ErrNoNames},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generate.ParseNames(tt.raw, 500)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNames_Limit(t *testing.T) {
	names := make([]string, 501)
	for i := range names {
		names[i] = fmt.Sprintf("Dish %d", i)
	}
	_, err := generate.ParseNames(strings.Join(names, ","), 500)
	assert.ErrorIs(t, err, generate.ErrTooManyNames)

	got, err := generate.ParseNames(strings.Join(names[:500], ","), 500)
	require.NoError(t, err)
	assert.Len(t, got, 500)
}
