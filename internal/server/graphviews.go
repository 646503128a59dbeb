package server

import "repowiki/internal/graph"

// componentsResponse is the directory-level aggregate view.
type componentsResponse struct {
	Components []graph.Component     `json:"components"`
	Edges      []graph.ComponentEdge `json:"edges"`
	Diagram    string                `json:"diagram"`
}

// entryPoint pairs a ranked entry-point ID with its node metadata.
type entryPoint struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
}

func (s *Server) filteredGraph() *graph.Graph {
	return graph.FilterTestNodes(s.graph)
}

func componentView(g *graph.Graph, minConfidence float64) componentsResponse {
	components, edges := graph.ComponentGraph(g, minConfidence)
	return componentsResponse{
		Components: components,
		Edges:      edges,
		Diagram:    graph.ComponentDiagram(components, edges),
	}
}

func entryPointView(g *graph.Graph, n int) []entryPoint {
	ids := graph.TopEntryPoints(g, n)
	out := make([]entryPoint, 0, len(ids))
	for _, id := range ids {
		node, ok := g.NodeByID(id)
		if !ok {
			continue
		}
		out = append(out, entryPoint{ID: id, Name: node.Name, FilePath: node.FilePath})
	}
	return out
}
