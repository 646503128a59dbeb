// Package search merges the semantic and keyword retrieval channels into
// one ranked, deduplicated, token-budgeted evidence set.
package search

// ResultType categorizes a piece of retrieved evidence. Merge priority is
// note < code < wiki: human corrections outrank raw source, which outranks
// generated pages.
type ResultType string

const (
	TypeNote ResultType = "note"
	TypeCode ResultType = "code"
	TypeWiki ResultType = "wiki"
)

// typePriority orders result types for merging; lower sorts first.
func typePriority(t ResultType) int {
	switch t {
	case TypeNote:
		return 0
	case TypeCode:
		return 1
	case TypeWiki:
		return 2
	default:
		return 3
	}
}

// Result is one piece of retrieved evidence. Distance is 0 for an exact
// semantic match and 1 for an unrelated one; keyword-only hits carry the
// fixed fallback distance.
type Result struct {
	Type      ResultType `json:"type"`
	Path      string     `json:"path"`
	Content   string     `json:"content"`
	Distance  float64    `json:"distance"`
	LineStart int        `json:"line_start,omitempty"`
	LineEnd   int        `json:"line_end,omitempty"`
}

// Quality reports what each retrieval channel actually did. A false
// *_searched flag means the channel failed or timed out, not that it found
// nothing; results_found counts merged results before the token budget and
// results_used those that fit it.
type Quality struct {
	SemanticSearched bool `json:"semantic_searched"`
	FTSSearched      bool `json:"fts_searched"`
	ResultsFound     int  `json:"results_found"`
	ResultsUsed      int  `json:"results_used"`
}
