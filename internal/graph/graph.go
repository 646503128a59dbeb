// Package graph models the call graph the generation pipeline persists:
// code symbols as nodes, confidence-weighted call relationships as edges.
// The graph is immutable once built; every analysis returns a fresh value.
package graph

import "sort"

// NodeKind categorizes a code symbol.
type NodeKind string

const (
	KindFunction NodeKind = "function"
	KindMethod   NodeKind = "method"
	KindClass    NodeKind = "class"
	KindVariable NodeKind = "variable"
)

// Node is a code symbol. The ID is stable: file path plus symbol path.
type Node struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      NodeKind `json:"kind"`
	FilePath  string   `json:"file_path"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Docstring string   `json:"docstring,omitempty"`
	Signature string   `json:"signature,omitempty"`
	ParentID  string   `json:"parent_id,omitempty"`
}

// Edge is a directed, typed relationship between two nodes, stored as
// indices into the owning graph's node arena. Parallel edges between the
// same pair are allowed and never deduplicated.
type Edge struct {
	From       int
	To         int
	Type       string
	Confidence float64
	Line       int
}

// Graph is an immutable directed multigraph over an arena of nodes, with
// auxiliary indices built once at construction.
type Graph struct {
	nodes []Node
	edges []Edge

	byID   map[string]int
	byName map[string][]int
	out    map[int][]int // node index -> indexes into edges
	in     map[int][]int
}

// Build constructs a graph from nodes and edges expressed by node ID.
// Edges referencing unknown node IDs are dropped.
func Build(nodes []Node, edges []EdgeSpec) *Graph {
	g := &Graph{
		nodes:  make([]Node, len(nodes)),
		byID:   make(map[string]int, len(nodes)),
		byName: make(map[string][]int),
		out:    make(map[int][]int),
		in:     make(map[int][]int),
	}
	copy(g.nodes, nodes)

	for i, n := range g.nodes {
		g.byID[n.ID] = i
		g.byName[n.Name] = append(g.byName[n.Name], i)
	}

	for _, e := range edges {
		from, okFrom := g.byID[e.SourceID]
		to, okTo := g.byID[e.TargetID]
		if !okFrom || !okTo {
			continue
		}
		edgeType := e.Type
		if edgeType == "" {
			edgeType = "calls"
		}
		idx := len(g.edges)
		g.edges = append(g.edges, Edge{From: from, To: to, Type: edgeType, Confidence: e.Confidence, Line: e.Line})
		g.out[from] = append(g.out[from], idx)
		g.in[to] = append(g.in[to], idx)
	}

	return g
}

// EdgeSpec expresses an edge by node ID, as stored by the pipeline.
type EdgeSpec struct {
	SourceID   string
	TargetID   string
	Type       string
	Confidence float64
	Line       int
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeByID returns the node with the given stable ID.
func (g *Graph) NodeByID(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// NodesByName returns all nodes with the given symbol name, sorted by ID.
func (g *Graph) NodesByName(name string) []Node {
	idxs := g.byName[name]
	out := make([]Node, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.nodes[i])
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Nodes returns a copy of the node arena.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Node returns the node at the given arena index.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Subgraph is a node set plus the edges whose endpoints are both in that
// set. It is always a fresh value, never a view into the parent graph.
type Subgraph struct {
	Nodes []Node
	Edges []SubEdge
}

// SubEdge is a subgraph edge expressed by node ID.
type SubEdge struct {
	SourceID   string
	TargetID   string
	Type       string
	Confidence float64
	Line       int
}

// Merge returns a new subgraph combining s and other, deduplicating nodes
// by ID. Edges are concatenated; parallel edges stay.
func (s Subgraph) Merge(other Subgraph) Subgraph {
	seen := make(map[string]bool, len(s.Nodes))
	merged := Subgraph{
		Nodes: make([]Node, 0, len(s.Nodes)+len(other.Nodes)),
		Edges: make([]SubEdge, 0, len(s.Edges)+len(other.Edges)),
	}
	for _, n := range s.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			merged.Nodes = append(merged.Nodes, n)
		}
	}
	for _, n := range other.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			merged.Nodes = append(merged.Nodes, n)
		}
	}
	merged.Edges = append(merged.Edges, s.Edges...)
	merged.Edges = append(merged.Edges, other.Edges...)
	return merged
}

// subgraphOf builds a fresh Subgraph from a set of arena indices, keeping
// only edges whose endpoints are both in the set and whose confidence
// meets minConfidence.
func (g *Graph) subgraphOf(indices map[int]bool, minConfidence float64) Subgraph {
	sub := Subgraph{}
	order := make([]int, 0, len(indices))
	for i := range indices {
		order = append(order, i)
	}
	sort.Ints(order)
	for _, i := range order {
		sub.Nodes = append(sub.Nodes, g.nodes[i])
	}
	for _, e := range g.edges {
		if e.Confidence < minConfidence {
			continue
		}
		if indices[e.From] && indices[e.To] {
			sub.Edges = append(sub.Edges, SubEdge{
				SourceID:   g.nodes[e.From].ID,
				TargetID:   g.nodes[e.To].ID,
				Type:       e.Type,
				Confidence: e.Confidence,
				Line:       e.Line,
			})
		}
	}
	return sub
}
