package cgrag

import (
	"context"
	"fmt"
	"log"
	"time"

	"repowiki/internal/graph"
	"repowiki/internal/search"
	"repowiki/internal/session"
)

// StopReason says why the loop finished. It is the explicit caller-visible
// signal distinguishing a clean answer from a forced or stuck stop.
type StopReason string

const (
	StopAnswered       StopReason = "answered"        // model reported no gaps
	StopExhausted      StopReason = "exhausted"       // every requested gap already failed lookup
	StopMaxPasses      StopReason = "max_passes"      // pass budget spent
	StopReasoningError StopReason = "reasoning_error" // model call failed after pass 1
)

// Stage identifiers surfaced to streaming clients. Status events carry no
// answer content; the answer is final only in the terminal event.
const (
	StageSearching = "searching"
	StageThinking  = "thinking"
)

// Options tunes the loop.
type Options struct {
	MaxPasses        int
	SearchLimit      int           // pass-1 hybrid search cap
	FollowUpLimit    int           // targeted-retrieval hybrid cap, smaller than pass 1
	ReasoningTimeout time.Duration // per-pass model deadline
	MinConfidence    float64       // graph edge confidence floor
}

// Outcome is the loop's final state for one question.
type Outcome struct {
	Answer     string
	Citations  []CitationRef
	Evidence   []search.Result
	Quality    search.Quality
	Confidence search.Confidence
	StopReason StopReason
	Passes     int
	SessionID  string
}

// Engine drives the retrieval passes for one repository.
type Engine struct {
	graph    *graph.Graph
	searcher *search.Searcher
	sessions *session.Store
	reasoner Reasoner
	opts     Options
}

// NewEngine wires the loop together.
func NewEngine(g *graph.Graph, searcher *search.Searcher, sessions *session.Store, reasoner Reasoner, opts Options) *Engine {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = 3
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 12
	}
	if opts.FollowUpLimit <= 0 || opts.FollowUpLimit > opts.SearchLimit {
		opts.FollowUpLimit = 5
	}
	if opts.ReasoningTimeout <= 0 {
		opts.ReasoningTimeout = 60 * time.Second
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.5
	}
	return &Engine{graph: g, searcher: searcher, sessions: sessions, reasoner: reasoner, opts: opts}
}

// Ask answers one question. Passes run sequentially because each pass's
// retrieval depends on the previous reasoning output. status may be nil;
// when set it receives stage names only, never partial answers.
func (e *Engine) Ask(ctx context.Context, question, sessionID string, status func(stage string)) (*Outcome, error) {
	notify := func(stage string) {
		if status != nil {
			status(stage)
		}
	}

	sess := e.sessions.Get(sessionID)

	out := &Outcome{
		SessionID:  sess.ID,
		Confidence: search.ConfidenceLow,
	}

	var evidence []search.Result
	seen := make(map[string]bool) // cross-pass evidence dedup

	appendEvidence := func(results []search.Result) {
		for _, r := range results {
			key := evidenceKey(r)
			if seen[key] {
				continue
			}
			seen[key] = true
			evidence = append(evidence, r)
		}
	}

	// Pass 1: full retrieval.
	notify(StageSearching)
	results, quality := e.searcher.Search(ctx, question, e.opts.SearchLimit)
	out.Quality = quality
	appendEvidence(results)

	for pass := 1; pass <= e.opts.MaxPasses; pass++ {
		out.Passes = pass

		notify(StageThinking)
		reasoning, err := e.reason(ctx, question, Evidence{Results: evidence, Graph: sess.Subgraph()})
		if err != nil {
			if pass == 1 {
				return nil, fmt.Errorf("reasoning pass 1: %w", err)
			}
			// Stop with the best available answer; confidence reflects
			// actual evidence, never a fabricated high.
			log.Printf("cgrag: reasoning pass %d failed, stopping: %v", pass, err)
			out.StopReason = StopReasoningError
			break
		}

		out.Answer = reasoning.Answer
		out.Citations = reasoning.Citations

		if len(reasoning.Gaps) == 0 {
			out.StopReason = StopAnswered
			break
		}
		if sess.AllNotFound(reasoning.Gaps) {
			out.StopReason = StopExhausted
			break
		}
		if pass == e.opts.MaxPasses {
			out.StopReason = StopMaxPasses
			break
		}

		notify(StageSearching)
		appendEvidence(e.retrieveGaps(ctx, sess, reasoning.Gaps, &out.Quality))
	}

	out.Evidence = evidence
	out.Confidence = search.Classify(evidence)
	return out, nil
}

func (e *Engine) reason(ctx context.Context, question string, ev Evidence) (*Reasoning, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.ReasoningTimeout)
	defer cancel()
	return e.reasoner.Reason(ctx, question, ev)
}

// retrieveGaps runs targeted follow-up for each gap the model named.
// Specific gaps try an exact graph lookup first; misses and fuzzy gaps
// fall back to a smaller hybrid search. Gaps still unresolved join the
// session's not-found set and are never re-fetched in this session.
func (e *Engine) retrieveGaps(ctx context.Context, sess *session.Session, gaps []string, quality *search.Quality) []search.Result {
	var gathered []search.Result

	for _, gap := range gaps {
		if sess.IsNotFound(gap) {
			continue
		}

		target := classifyGap(gap)

		if target.Specific && e.graph != nil {
			if sub, ok := graph.LookupByName(e.graph, target.Symbol, target.PathHint, e.opts.MinConfidence); ok {
				sess.MergeSubgraph(sub)
				gathered = append(gathered, nodeResults(sub)...)
				continue
			}
		}

		results, q := e.searcher.Search(ctx, gap, e.opts.FollowUpLimit)
		quality.SemanticSearched = quality.SemanticSearched || q.SemanticSearched
		quality.FTSSearched = quality.FTSSearched || q.FTSSearched
		quality.ResultsFound += q.ResultsFound
		quality.ResultsUsed += q.ResultsUsed

		if len(results) == 0 {
			sess.MarkNotFound(gap)
			continue
		}
		gathered = append(gathered, results...)
	}

	return gathered
}

// nodeResults converts a looked-up neighborhood into evidence entries.
// Exact graph hits carry distance 0.
func nodeResults(sub graph.Subgraph) []search.Result {
	out := make([]search.Result, 0, len(sub.Nodes))
	for _, n := range sub.Nodes {
		content := n.Signature
		if n.Docstring != "" {
			if content != "" {
				content += "\n"
			}
			content += n.Docstring
		}
		if content == "" {
			content = string(n.Kind) + " " + n.Name
		}
		out = append(out, search.Result{
			Type:      search.TypeCode,
			Path:      n.FilePath,
			Content:   content,
			Distance:  0,
			LineStart: n.StartLine,
			LineEnd:   n.EndLine,
		})
	}
	return out
}

func evidenceKey(r search.Result) string {
	prefix := r.Content
	if len(prefix) > 80 {
		prefix = prefix[:80]
	}
	return r.Path + "\x00" + prefix
}
