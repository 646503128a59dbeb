package search

import (
	"context"
	"log"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"repowiki/internal/db"
	"repowiki/internal/vectordb"
)

// fallbackDistance is assigned to keyword-only hits, which carry an FTS
// rank instead of an embedding distance.
const fallbackDistance = 0.40

// KeywordIndex is the read interface over the FTS5 keyword channel.
// *db.DB satisfies it.
type KeywordIndex interface {
	KeywordSearch(ctx context.Context, query string, limit int) ([]db.KeywordHit, error)
}

// Options tunes a Searcher.
type Options struct {
	ChannelTimeout time.Duration // per-channel deadline
	ResultTokenCap int           // per-result token cap
	ContextBudget  int           // global token budget
	Exclude        []string      // doublestar globs dropped from results
}

// Searcher runs the semantic and keyword channels concurrently and merges
// their results. Either channel may fail without failing the other.
type Searcher struct {
	store    vectordb.VectorStore
	keywords KeywordIndex
	opts     Options
}

// NewSearcher creates a hybrid searcher over both retrieval channels.
func NewSearcher(store vectordb.VectorStore, keywords KeywordIndex, opts Options) *Searcher {
	if opts.ChannelTimeout <= 0 {
		opts.ChannelTimeout = 10 * time.Second
	}
	if opts.ResultTokenCap <= 0 {
		opts.ResultTokenCap = 700
	}
	if opts.ContextBudget <= 0 {
		opts.ContextBudget = 6000
	}
	return &Searcher{store: store, keywords: keywords, opts: opts}
}

type channelOutcome struct {
	results []Result
	ok      bool
}

// Search runs both channels, merges, deduplicates, and budgets the result
// set. A failed or timed-out channel is recorded in Quality, never
// collapsed into "no results."
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Result, Quality) {
	semanticCh := make(chan channelOutcome, 1)
	keywordCh := make(chan channelOutcome, 1)

	go func() { semanticCh <- s.searchSemantic(ctx, query, limit) }()
	go func() { keywordCh <- s.searchKeyword(ctx, query, limit) }()

	semantic := <-semanticCh
	keyword := <-keywordCh

	quality := Quality{
		SemanticSearched: semantic.ok,
		FTSSearched:      keyword.ok,
	}

	all := append(semantic.results, keyword.results...)
	all = s.filterExcluded(all)
	merged := mergeResults(all)
	quality.ResultsFound = len(merged)

	used := applyBudget(merged, s.opts.ResultTokenCap, s.opts.ContextBudget)
	quality.ResultsUsed = len(used)

	return used, quality
}

func (s *Searcher) searchSemantic(ctx context.Context, query string, limit int) channelOutcome {
	if s.store == nil {
		return channelOutcome{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ChannelTimeout)
	defer cancel()

	hits, err := s.store.Search(ctx, query, limit, nil)
	if err != nil {
		log.Printf("search: semantic channel failed: %v", err)
		return channelOutcome{}
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Type:      resultType(string(h.Document.Metadata.Type)),
			Path:      h.Document.Metadata.Path,
			Content:   h.Document.Content,
			Distance:  clampDistance(1 - float64(h.Similarity)),
			LineStart: h.Document.Metadata.LineStart,
			LineEnd:   h.Document.Metadata.LineEnd,
		})
	}
	return channelOutcome{results: results, ok: true}
}

func (s *Searcher) searchKeyword(ctx context.Context, query string, limit int) channelOutcome {
	if s.keywords == nil {
		return channelOutcome{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ChannelTimeout)
	defer cancel()

	hits, err := s.keywords.KeywordSearch(ctx, query, limit)
	if err != nil {
		log.Printf("search: keyword channel failed: %v", err)
		return channelOutcome{}
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Type:     resultType(h.Type),
			Path:     h.Path,
			Content:  h.Content,
			Distance: fallbackDistance,
		})
	}
	return channelOutcome{results: results, ok: true}
}

func (s *Searcher) filterExcluded(results []Result) []Result {
	if len(s.opts.Exclude) == 0 {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if !s.excluded(r.Path) {
			kept = append(kept, r)
		}
	}
	return kept
}

func (s *Searcher) excluded(path string) bool {
	for _, glob := range s.opts.Exclude {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

func resultType(t string) ResultType {
	switch ResultType(t) {
	case TypeNote, TypeCode, TypeWiki:
		return ResultType(t)
	default:
		return TypeCode
	}
}

func clampDistance(d float64) float64 {
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
