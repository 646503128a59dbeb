package graph

import (
	"path"
	"sort"
	"strings"
)

// IsTestPath reports whether a file path follows common test conventions:
// tests/ or test/ or __tests__/ directory segments, test_*/*_test file
// stems, and *.test.* / *.spec.* infixes.
func IsTestPath(filePath string) bool {
	p := strings.ToLower(strings.ReplaceAll(filePath, "\\", "/"))

	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "tests", "test", "__tests__":
			return true
		}
	}

	base := path.Base(p)
	stem := base
	if i := strings.Index(base, "."); i >= 0 {
		stem = base[:i]
	}
	if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") {
		return true
	}
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	return false
}

// FilterTestNodes returns a new graph without test-convention nodes and
// without any edge touching a removed node. Applied before every diagram
// and ranking query.
func FilterTestNodes(g *Graph) *Graph {
	kept := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if !IsTestPath(n.FilePath) {
			kept = append(kept, n)
		}
	}

	keptIDs := make(map[string]bool, len(kept))
	for _, n := range kept {
		keptIDs[n.ID] = true
	}

	var edges []EdgeSpec
	for _, e := range g.edges {
		src, dst := g.nodes[e.From].ID, g.nodes[e.To].ID
		if keptIDs[src] && keptIDs[dst] {
			edges = append(edges, EdgeSpec{SourceID: src, TargetID: dst, Type: e.Type, Confidence: e.Confidence, Line: e.Line})
		}
	}

	return Build(kept, edges)
}

// Component is one node of the directory-level aggregate graph.
type Component struct {
	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
}

// ComponentEdge aggregates all underlying edges between two components.
// Confidence is the max of the underlying edges, Count their number.
type ComponentEdge struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

// ComponentGraph aggregates nodes to their top-level path segment and
// emits an A->B edge iff some underlying edge meets minConfidence.
// Self-loops are dropped. Output is sorted for deterministic rendering.
func ComponentGraph(g *Graph, minConfidence float64) ([]Component, []ComponentEdge) {
	counts := make(map[string]int)
	for _, n := range g.nodes {
		counts[topSegment(n.FilePath)]++
	}

	components := make([]Component, 0, len(counts))
	for name, c := range counts {
		components = append(components, Component{Name: name, NodeCount: c})
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Name < components[j].Name })

	type pair struct{ from, to string }
	agg := make(map[pair]*ComponentEdge)
	for _, e := range g.edges {
		if e.Confidence < minConfidence {
			continue
		}
		from := topSegment(g.nodes[e.From].FilePath)
		to := topSegment(g.nodes[e.To].FilePath)
		if from == to {
			continue
		}
		key := pair{from, to}
		ce, ok := agg[key]
		if !ok {
			ce = &ComponentEdge{From: from, To: to}
			agg[key] = ce
		}
		ce.Count++
		if e.Confidence > ce.Confidence {
			ce.Confidence = e.Confidence
		}
	}

	edges := make([]ComponentEdge, 0, len(agg))
	for _, ce := range agg {
		edges = append(edges, *ce)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return components, edges
}

// topSegment returns the first path segment of a file path, or the file
// name itself for top-level files.
func topSegment(filePath string) string {
	p := strings.ReplaceAll(filePath, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if i := strings.Index(p, "/"); i >= 0 {
		return p[:i]
	}
	return p
}

// TopEntryPoints returns up to n non-test node IDs that have at least one
// outgoing "calls" edge and no incoming edges, sorted by outgoing count
// descending with ties broken by ID.
func TopEntryPoints(g *Graph, n int) []string {
	filtered := FilterTestNodes(g)

	type candidate struct {
		id  string
		out int
	}
	var candidates []candidate
	for i, node := range filtered.nodes {
		if len(filtered.in[i]) > 0 {
			continue
		}
		outCalls := 0
		for _, ei := range filtered.out[i] {
			if filtered.edges[ei].Type == "calls" {
				outCalls++
			}
		}
		if outCalls > 0 {
			candidates = append(candidates, candidate{id: node.ID, out: outCalls})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].out != candidates[j].out {
			return candidates[i].out > candidates[j].out
		}
		return candidates[i].id < candidates[j].id
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	ids := make([]string, 0, n)
	for _, c := range candidates[:n] {
		ids = append(ids, c.id)
	}
	return ids
}

// Neighborhood returns the subgraph reachable from nodeID within the hop
// bound, following edges in both directions. Edges below minConfidence are
// excluded from traversal and from the result.
func Neighborhood(g *Graph, nodeID string, hops int, minConfidence float64) Subgraph {
	start, ok := g.byID[nodeID]
	if !ok {
		return Subgraph{}
	}

	visited := map[int]bool{start: true}
	frontier := []int{start}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		var next []int
		for _, i := range frontier {
			for _, ei := range g.out[i] {
				e := g.edges[ei]
				if e.Confidence < minConfidence || visited[e.To] {
					continue
				}
				visited[e.To] = true
				next = append(next, e.To)
			}
			for _, ei := range g.in[i] {
				e := g.edges[ei]
				if e.Confidence < minConfidence || visited[e.From] {
					continue
				}
				visited[e.From] = true
				next = append(next, e.From)
			}
		}
		frontier = next
	}

	return g.subgraphOf(visited, minConfidence)
}

// LookupByName finds nodes whose symbol name matches exactly and returns
// each hit together with its immediate neighborhood. An optional path hint
// narrows the match to nodes whose file path contains the hint.
func LookupByName(g *Graph, name, pathHint string, minConfidence float64) (Subgraph, bool) {
	hits := g.NodesByName(name)
	if pathHint != "" {
		var narrowed []Node
		for _, n := range hits {
			if strings.Contains(n.FilePath, pathHint) {
				narrowed = append(narrowed, n)
			}
		}
		hits = narrowed
	}
	if len(hits) == 0 {
		return Subgraph{}, false
	}

	var sub Subgraph
	for _, n := range hits {
		sub = sub.Merge(Neighborhood(g, n.ID, 1, minConfidence))
	}
	return sub, true
}
