package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     "50!%",
		"a_b":     "a!_b",
		"wow!":    "wow!!",
		"%_!":     "!%!_!!",
		"c++ (2)": "c++ (2)",
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeLike(in), in)
	}
}

func TestParseQuery(t *testing.T) {
	_, ok := ParseQuery(" a ")
	assert.False(t, ok)
	_, ok = ParseQuery("")
	assert.False(t, ok)

	q, ok := ParseQuery("  En_g ")
	assert.True(t, ok)
	assert.Equal(t, "En_g", q.Raw)
	assert.Equal(t, "en!_g", q.Escaped)
	assert.Equal(t, MaxSuggestions, q.Limit)

	p := q.Patterns()
	assert.Equal(t, "en!_g%", p.Prefix)
	assert.Equal(t, "% en!_g%", p.WordPrefix)
	assert.Equal(t, "%en!_g%", p.Contains)
}

func TestParseQuery_CountsRunes(t *testing.T) {
	_, ok := ParseQuery("বই")
	assert.True(t, ok)
}
