// Package cgrag implements the iterative retrieval loop: run a pass,
// ask the model to answer and name what is missing, fetch exactly that,
// and decide when to stop.
package cgrag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"repowiki/internal/graph"
	"repowiki/internal/llm"
	"repowiki/internal/search"
)

// Evidence is everything a reasoning pass gets to see: the budgeted search
// results plus the session's accumulated call-graph neighborhood.
type Evidence struct {
	Results []search.Result
	Graph   graph.Subgraph
}

// CitationRef is one source the model claims to have used.
type CitationRef struct {
	Path         string `json:"path"`
	RelevantText string `json:"relevant_text"`
}

// Reasoning is one pass's model output: a candidate answer, its claimed
// sources, and an explicit list of missing context.
type Reasoning struct {
	Answer    string        `json:"answer"`
	Citations []CitationRef `json:"citations"`
	Gaps      []string      `json:"missing_context"`
}

// Reasoner produces a Reasoning from a question and evidence. The loop's
// control flow is tested against scripted implementations of this
// interface, independent of any transport.
type Reasoner interface {
	Reason(ctx context.Context, question string, ev Evidence) (*Reasoning, error)
}

// LLMReasoner implements Reasoner over an llm.Provider.
type LLMReasoner struct {
	provider llm.Provider
	model    string
}

// NewLLMReasoner creates a model-backed reasoner.
func NewLLMReasoner(provider llm.Provider, model string) *LLMReasoner {
	return &LLMReasoner{provider: provider, model: model}
}

func (r *LLMReasoner) Reason(ctx context.Context, question string, ev Evidence) (*Reasoning, error) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model: r.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: reasoningSystemPrompt},
			{Role: llm.RoleUser, Content: buildReasoningPrompt(question, ev)},
		},
		MaxTokens:   2048,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("reasoning completion: %w", err)
	}

	return parseReasoning(resp.Content), nil
}

// parseReasoning extracts the JSON envelope from a model response. The
// response may be wrapped in markdown fences or prose; if no valid JSON
// is found the raw content becomes the answer with no citations or gaps.
func parseReasoning(content string) *Reasoning {
	jsonStr := content
	if idx := strings.Index(content, "{"); idx >= 0 {
		jsonStr = content[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var r Reasoning
	if err := json.Unmarshal([]byte(jsonStr), &r); err != nil {
		return &Reasoning{Answer: strings.TrimSpace(content)}
	}

	r.Gaps = cleanGaps(r.Gaps)
	return &r
}

// cleanGaps drops empty entries and the literal "none" the prompt allows.
func cleanGaps(gaps []string) []string {
	out := gaps[:0]
	for _, g := range gaps {
		g = strings.TrimSpace(g)
		if g == "" || strings.EqualFold(g, "none") {
			continue
		}
		out = append(out, g)
	}
	return out
}
