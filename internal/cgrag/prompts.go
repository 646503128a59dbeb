package cgrag

import (
	"fmt"
	"strings"

	"repowiki/internal/graph"
)

const reasoningSystemPrompt = `You are a repository question-answering assistant. Answer the question using ONLY the evidence provided: human notes, source code, generated wiki pages, and the call-graph excerpt.

You MUST respond with valid JSON matching this schema:
{
  "answer": "your answer in markdown",
  "citations": [
    {"path": "path of an evidence item you actually used", "relevant_text": "short quote from it"}
  ],
  "missing_context": ["things you still need to answer confidently, or an empty list"]
}

Rules:
- Cite only paths that appear in the evidence. Never invent a path.
- If a specific symbol is missing, name it as "symbol in path" (e.g. "parseConfig in config.py") or just the symbol name.
- If the evidence is sufficient, missing_context must be an empty list.
- Human notes override generated documentation when they disagree.`

// buildReasoningPrompt renders the question and all evidence for one pass.
func buildReasoningPrompt(question string, ev Evidence) string {
	var b strings.Builder

	b.WriteString("## Evidence\n")
	if len(ev.Results) == 0 {
		b.WriteString("(no search results)\n")
	}
	for i, r := range ev.Results {
		fmt.Fprintf(&b, "--- [%d] %s (%s", i+1, r.Path, r.Type)
		if r.LineStart > 0 {
			fmt.Fprintf(&b, ", lines %d-%d", r.LineStart, r.LineEnd)
		}
		b.WriteString(") ---\n")
		b.WriteString(r.Content)
		b.WriteString("\n\n")
	}

	if len(ev.Graph.Nodes) > 0 {
		b.WriteString("## Call graph excerpt\n")
		for _, n := range ev.Graph.Nodes {
			fmt.Fprintf(&b, "- %s %s (%s:%d)", n.Kind, n.Name, n.FilePath, n.StartLine)
			if n.Signature != "" {
				fmt.Fprintf(&b, " %s", n.Signature)
			}
			if n.Docstring != "" {
				fmt.Fprintf(&b, " — %s", firstLine(n.Docstring))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n```mermaid\n")
		b.WriteString(graph.ToDiagram(ev.Graph))
		b.WriteString("```\n")
	}

	fmt.Fprintf(&b, "\n## Question\n%s\n", question)
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
