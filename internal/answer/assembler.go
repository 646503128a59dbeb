// Package answer turns a finished retrieval loop outcome into the response
// returned to clients: validated citations, resolved URLs, and a
// confidence-derived disclaimer.
package answer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strings"

	"repowiki/internal/cgrag"
	"repowiki/internal/db"
	"repowiki/internal/search"
	"repowiki/internal/wiki"
)

// Citation is one validated, resolved source reference.
type Citation struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Lines string `json:"lines,omitempty"`
	URL   string `json:"url"`
}

// Answer is the final response payload for one question.
type Answer struct {
	Answer     string            `json:"answer"`
	Citations  []Citation        `json:"citations"`
	Confidence search.Confidence `json:"confidence"`
	Disclaimer string            `json:"disclaimer"`
	Quality    search.Quality    `json:"search_quality"`
	SessionID  string            `json:"session_id"`
	StopReason cgrag.StopReason  `json:"stop_reason"`
}

// maxFallbackCitations bounds rank-based citations when the model's
// citation block is missing or malformed.
const maxFallbackCitations = 3

// Assembler validates citations against retrieved evidence and resolves
// display titles and URLs.
type Assembler struct {
	database *db.DB
	baseURL  string
}

// NewAssembler creates an assembler. database may be nil when no wiki
// pages are available; titles then derive from paths.
func NewAssembler(database *db.DB, baseURL string) *Assembler {
	return &Assembler{database: database, baseURL: strings.TrimRight(baseURL, "/")}
}

// Assemble builds the final answer from a loop outcome. A citation
// survives only if its path matches a retrieved result's path; a missing
// or fully invalid citation list falls back to the top-ranked evidence.
func (a *Assembler) Assemble(ctx context.Context, out *cgrag.Outcome) *Answer {
	retrieved := make(map[string]search.Result, len(out.Evidence))
	for _, r := range out.Evidence {
		// Keep the best-ranked result per path for line ranges.
		if prev, ok := retrieved[r.Path]; !ok || r.Distance < prev.Distance {
			retrieved[r.Path] = r
		}
	}

	var citations []Citation
	seen := make(map[string]bool)
	for _, c := range out.Citations {
		p := strings.TrimSpace(c.Path)
		r, ok := retrieved[p]
		if !ok {
			log.Printf("answer: dropping citation to unretrieved path %q", p)
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		citations = append(citations, a.resolve(ctx, r))
	}

	// Fall back to rank-based citations rather than failing the answer.
	if len(citations) == 0 {
		for _, r := range out.Evidence {
			if seen[r.Path] {
				continue
			}
			seen[r.Path] = true
			citations = append(citations, a.resolve(ctx, r))
			if len(citations) == maxFallbackCitations {
				break
			}
		}
	}

	return &Answer{
		Answer:     out.Answer,
		Citations:  citations,
		Confidence: out.Confidence,
		Disclaimer: search.Disclaimer(out.Confidence),
		Quality:    out.Quality,
		SessionID:  out.SessionID,
		StopReason: out.StopReason,
	}
}

// resolve fills in a citation's title, line range, and URL.
func (a *Assembler) resolve(ctx context.Context, r search.Result) Citation {
	c := Citation{
		Path:  r.Path,
		Title: wiki.TitleFromPath(r.Path),
		URL:   a.resolveURL(r.Path),
	}

	if r.LineStart > 0 {
		if r.LineEnd > r.LineStart {
			c.Lines = fmt.Sprintf("%d-%d", r.LineStart, r.LineEnd)
		} else {
			c.Lines = fmt.Sprintf("%d", r.LineStart)
		}
	}

	if r.Type == search.TypeWiki && a.database != nil {
		content, err := a.database.GetWikiPage(ctx, r.Path)
		if err != nil && err != sql.ErrNoRows {
			log.Printf("answer: loading wiki page %q: %v", r.Path, err)
		}
		if err == nil {
			c.Title = wiki.Title(r.Path, content)
		}
	}

	return c
}

func (a *Assembler) resolveURL(p string) string {
	escaped := make([]string, 0, 4)
	for _, seg := range strings.Split(p, "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	return a.baseURL + "/" + strings.Join(escaped, "/")
}
