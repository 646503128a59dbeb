package graph

import (
	"fmt"
	"sort"
	"strings"
)

// ToDiagram renders a subgraph as a mermaid graph TD diagram. Nodes are
// sorted by ID and edges by (source, target) so the output is reproducible
// for identical inputs.
func ToDiagram(sub Subgraph) string {
	nodes := make([]Node, len(sub.Nodes))
	copy(nodes, sub.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]SubEdge, len(sub.Edges))
	copy(edges, sub.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].TargetID < edges[j].TargetID
	})

	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, n := range nodes {
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", sanitizeID(n.ID), escapeMermaid(n.Name)))
	}
	for _, e := range edges {
		b.WriteString(fmt.Sprintf("    %s -->|%.2f| %s\n", sanitizeID(e.SourceID), e.Confidence, sanitizeID(e.TargetID)))
	}

	return b.String()
}

// ComponentDiagram renders the directory-level aggregate graph as mermaid.
func ComponentDiagram(components []Component, edges []ComponentEdge) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, c := range components {
		b.WriteString(fmt.Sprintf("    %s[\"%s (%d)\"]\n", sanitizeID(c.Name), escapeMermaid(c.Name), c.NodeCount))
	}
	for _, e := range edges {
		b.WriteString(fmt.Sprintf("    %s -->|%d| %s\n", sanitizeID(e.From), e.Count, sanitizeID(e.To)))
	}

	return b.String()
}

// sanitizeID converts a string into a safe mermaid node ID.
func sanitizeID(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		".", "_",
		"-", "_",
		" ", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
		":", "_",
		"#", "_",
	)
	return replacer.Replace(s)
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
