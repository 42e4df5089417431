// Package search holds the autocomplete rules: query normalization, pattern escaping,
// ranking weights, and the ports the engine needs (ranked store query, cache,
// per-user history, query popularity).
package search

import (
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLength = 2
	MaxSuggestions = 8
	MaxHistory     = 10
	MaxPopular     = 8

	// popular = top counted queries + trending titles
	PopularFromCounts   = 5
	PopularFromTrending = 3
	TrendingWindowDays  = 7
)

// Ranking weights. Matches are case-insensitive and additive, so a title that
// starts with the query scores prefix + substring.
const (
	WeightTitlePrefix    = 10
	WeightTitleSubstring = 5
	WeightAuthor         = 3
	WeightISBN           = 2
	WeightCategory       = 1
)

// Suggestion is one autocomplete entry.
type Suggestion struct {
	BookID   uint   `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	ISBN     string `json:"isbn,omitempty"`
	Price    int64  `json:"price"`
	CoverURL string `json:"cover_url,omitempty"`
	Score    int    `json:"score"`
}

// LikeEscape is the escape character used in LIKE patterns built from user input.
const LikeEscape = '!'

var likeEscaper = strings.NewReplacer(
	string(LikeEscape), string(LikeEscape)+string(LikeEscape),
	"%", string(LikeEscape)+"%",
	"_", string(LikeEscape)+"_",
)

// EscapeLike neutralizes every character with special meaning in a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Query is a normalized autocomplete query.
type Query struct {
	Raw     string // trimmed user input, used for popularity counting
	Escaped string // lower-cased and LIKE-escaped, used for patterns and cache keys
	Limit   int
}

// ParseQuery trims raw input; ok is false when it is too short to search.
func ParseQuery(raw string) (Query, bool) {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return Query{}, false
	}
	return Query{
		Raw:     trimmed,
		Escaped: EscapeLike(strings.ToLower(trimmed)),
		Limit:   MaxSuggestions,
	}, true
}

// Patterns are the LIKE patterns the ranked query matches against lower-cased fields.
type Patterns struct {
	Prefix     string // field starts with query
	WordPrefix string // some later word starts with query
	Contains   string
}

func (q Query) Patterns() Patterns {
	return Patterns{
		Prefix:     q.Escaped + "%",
		WordPrefix: "% " + q.Escaped + "%",
		Contains:   "%" + q.Escaped + "%",
	}
}
