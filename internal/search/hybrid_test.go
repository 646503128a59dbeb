package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"repowiki/internal/db"
	"repowiki/internal/vectordb"
)

// fakeVectorStore returns scripted semantic results or a scripted error.
type fakeVectorStore struct {
	results []vectordb.SearchResult
	err     error
}

func (f *fakeVectorStore) Search(_ context.Context, _ string, limit int, _ *vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeVectorStore) AddDocuments(context.Context, []vectordb.Document) error { return nil }
func (f *fakeVectorStore) Persist(context.Context, string) error                   { return nil }
func (f *fakeVectorStore) Load(context.Context, string) error                      { return nil }
func (f *fakeVectorStore) Count() int                                              { return len(f.results) }

// fakeKeywordIndex returns scripted FTS hits or a scripted error.
type fakeKeywordIndex struct {
	hits []db.KeywordHit
	err  error
}

func (f *fakeKeywordIndex) KeywordSearch(_ context.Context, _ string, limit int) ([]db.KeywordHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.hits) {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

func semanticResult(path, content string, similarity float32, docType vectordb.DocumentType) vectordb.SearchResult {
	return vectordb.SearchResult{
		Document: vectordb.Document{
			ID:       path,
			Content:  content,
			Metadata: vectordb.DocumentMetadata{Path: path, Type: docType},
		},
		Similarity: similarity,
	}
}

func TestSearch_MergesBothChannels(t *testing.T) {
	store := &fakeVectorStore{results: []vectordb.SearchResult{
		semanticResult("core/parse.go", "parseConfig reads the config file.", 0.9, vectordb.DocTypeCode),
		semanticResult("docs/overview.md", "The system has three components.", 0.8, vectordb.DocTypeWiki),
	}}
	keywords := &fakeKeywordIndex{hits: []db.KeywordHit{
		{Path: "notes/config.md", Content: "Config parsing was rewritten in v2.", Type: "note"},
	}}

	s := NewSearcher(store, keywords, Options{})
	results, quality := s.Search(context.Background(), "how is config parsed", 10)

	if !quality.SemanticSearched || !quality.FTSSearched {
		t.Fatalf("both channels should be marked searched: %+v", quality)
	}
	if quality.ResultsFound != 3 {
		t.Fatalf("results_found = %d, want 3", quality.ResultsFound)
	}
	if quality.ResultsUsed != len(results) {
		t.Errorf("results_used = %d but %d results returned", quality.ResultsUsed, len(results))
	}

	// Merge order: note first, then code, then wiki.
	if results[0].Type != TypeNote {
		t.Errorf("first result type = %s, want note", results[0].Type)
	}
	if results[1].Type != TypeCode || results[2].Type != TypeWiki {
		t.Errorf("unexpected merge order: %v %v", results[1].Type, results[2].Type)
	}

	if results[0].Distance != fallbackDistance {
		t.Errorf("keyword hit distance = %v, want fallback %v", results[0].Distance, fallbackDistance)
	}
}

func TestSearch_SemanticFailureDegradesQualityOnly(t *testing.T) {
	store := &fakeVectorStore{err: errors.New("index unavailable")}
	keywords := &fakeKeywordIndex{hits: []db.KeywordHit{
		{Path: "a.go", Content: "first match content here.", Type: "code"},
		{Path: "b.go", Content: "second match content here.", Type: "code"},
	}}

	s := NewSearcher(store, keywords, Options{})
	results, quality := s.Search(context.Background(), "anything", 10)

	if quality.SemanticSearched {
		t.Error("semantic_searched should be false after channel failure")
	}
	if !quality.FTSSearched {
		t.Error("fts_searched should remain true")
	}
	if len(results) != 2 {
		t.Fatalf("expected keyword results to survive, got %d", len(results))
	}

	// Confidence is computed from the surviving matches, not LOW-by-default.
	if got := Classify(results); got != ConfidenceMedium {
		t.Errorf("Classify = %s, want medium from 2 fallback-distance hits", got)
	}
}

func TestSearch_KeywordFailureDegradesQualityOnly(t *testing.T) {
	store := &fakeVectorStore{results: []vectordb.SearchResult{
		semanticResult("a.go", "some content.", 0.95, vectordb.DocTypeCode),
	}}
	keywords := &fakeKeywordIndex{err: errors.New("fts locked")}

	s := NewSearcher(store, keywords, Options{})
	results, quality := s.Search(context.Background(), "anything", 10)

	if quality.FTSSearched {
		t.Error("fts_searched should be false after channel failure")
	}
	if !quality.SemanticSearched || len(results) != 1 {
		t.Errorf("semantic channel should survive: quality=%+v results=%d", quality, len(results))
	}
}

func TestSearch_DeduplicatesAcrossChannels(t *testing.T) {
	content := "Shared chunk content that appears in both indexes."
	store := &fakeVectorStore{results: []vectordb.SearchResult{
		semanticResult("core/parse.go", content, 0.9, vectordb.DocTypeCode),
	}}
	keywords := &fakeKeywordIndex{hits: []db.KeywordHit{
		{Path: "core/parse.go", Content: "  " + strings.ToUpper(content) + "  ", Type: "code"},
	}}

	s := NewSearcher(store, keywords, Options{})
	results, quality := s.Search(context.Background(), "q", 10)

	if len(results) != 1 {
		t.Fatalf("expected 1 result after dedup, got %d", len(results))
	}
	if quality.ResultsFound != 1 {
		t.Errorf("results_found = %d, want 1 after dedup", quality.ResultsFound)
	}
	// The semantic copy sorts first (lower distance) and wins.
	if results[0].Distance == fallbackDistance {
		t.Error("dedup kept the keyword copy instead of the better-ranked semantic one")
	}
}

func TestSearch_ExcludeGlobs(t *testing.T) {
	store := &fakeVectorStore{results: []vectordb.SearchResult{
		semanticResult("vendor/lib/x.go", "vendored content.", 0.99, vectordb.DocTypeCode),
		semanticResult("core/x.go", "own content.", 0.9, vectordb.DocTypeCode),
	}}

	s := NewSearcher(store, &fakeKeywordIndex{}, Options{Exclude: []string{"vendor/**"}})
	results, _ := s.Search(context.Background(), "q", 10)

	for _, r := range results {
		if strings.HasPrefix(r.Path, "vendor/") {
			t.Errorf("excluded path surfaced: %s", r.Path)
		}
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearch_BudgetLimitsResultsUsed(t *testing.T) {
	long := strings.Repeat("Some sentence about the code. ", 40) // ~1200 chars
	store := &fakeVectorStore{results: []vectordb.SearchResult{
		semanticResult("a.go", long, 0.95, vectordb.DocTypeCode),
		semanticResult("b.go", long+"b", 0.9, vectordb.DocTypeCode),
		semanticResult("c.go", long+"c", 0.85, vectordb.DocTypeCode),
	}}

	// Budget fits roughly one truncated result.
	s := NewSearcher(store, &fakeKeywordIndex{}, Options{ResultTokenCap: 200, ContextBudget: 250})
	results, quality := s.Search(context.Background(), "q", 10)

	if quality.ResultsFound != 3 {
		t.Fatalf("results_found = %d, want 3", quality.ResultsFound)
	}
	if quality.ResultsUsed >= quality.ResultsFound {
		t.Errorf("budget should starve some results: used=%d found=%d", quality.ResultsUsed, quality.ResultsFound)
	}
	if len(results) != quality.ResultsUsed {
		t.Errorf("returned %d results but results_used=%d", len(results), quality.ResultsUsed)
	}
}

func TestTruncateAtSentence(t *testing.T) {
	content := "First sentence here. Second sentence follows. " + strings.Repeat("x", 400)
	got := truncateAtSentence(content, 100) // 400-char cap

	if len(got) > 400 {
		t.Fatalf("truncated content too long: %d chars", len(got))
	}
	if !strings.HasSuffix(strings.TrimSpace(got), ".") && len(got) == 400 {
		// A hard cut only happens when no boundary sits past the midpoint.
		t.Logf("hard cut applied: %q", got[len(got)-20:])
	}

	short := "Short content."
	if truncateAtSentence(short, 100) != short {
		t.Error("content under the cap must be untouched")
	}
}
