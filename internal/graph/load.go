package graph

import (
	"context"
	"fmt"

	"repowiki/internal/db"
)

// LoadFromDB builds the immutable graph from the pipeline's persisted node
// and edge tables.
func LoadFromDB(ctx context.Context, database *db.DB) (*Graph, error) {
	nodeRows, err := database.LoadNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading graph nodes: %w", err)
	}
	edgeRows, err := database.LoadEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading graph edges: %w", err)
	}

	nodes := make([]Node, 0, len(nodeRows))
	for _, r := range nodeRows {
		nodes = append(nodes, Node{
			ID:        r.ID,
			Name:      r.Name,
			Kind:      NodeKind(r.Kind),
			FilePath:  r.FilePath,
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Docstring: r.Docstring,
			Signature: r.Signature,
			ParentID:  r.ParentID,
		})
	}

	edges := make([]EdgeSpec, 0, len(edgeRows))
	for _, r := range edgeRows {
		edges = append(edges, EdgeSpec{
			SourceID:   r.SourceID,
			TargetID:   r.TargetID,
			Type:       r.Type,
			Confidence: r.Confidence,
			Line:       r.Line,
		})
	}

	return Build(nodes, edges), nil
}
