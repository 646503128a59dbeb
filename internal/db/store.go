package db

import (
	"context"
	"database/sql"
	"fmt"
)

// NodeRow mirrors one row of the nodes table.
type NodeRow struct {
	ID        string
	Name      string
	Kind      string
	FilePath  string
	StartLine int
	EndLine   int
	Docstring string
	Signature string
	ParentID  string
}

// EdgeRow mirrors one row of the edges table.
type EdgeRow struct {
	SourceID   string
	TargetID   string
	Type       string
	Confidence float64
	Line       int
}

// LoadNodes returns every node row. The answering core loads the whole
// graph once per process and queries it in memory.
func (d *DB) LoadNodes(ctx context.Context) ([]NodeRow, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, name, kind, file_path, start_line, end_line, docstring, signature, COALESCE(parent_id, '')
		FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()

	var out []NodeRow
	for rows.Next() {
		var n NodeRow
		if err := rows.Scan(&n.ID, &n.Name, &n.Kind, &n.FilePath, &n.StartLine, &n.EndLine, &n.Docstring, &n.Signature, &n.ParentID); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// LoadEdges returns every edge row.
func (d *DB) LoadEdges(ctx context.Context) ([]EdgeRow, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT source_id, target_id, edge_type, confidence, line FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}
	defer rows.Close()

	var out []EdgeRow
	for rows.Next() {
		var e EdgeRow
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.Type, &e.Confidence, &e.Line); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetWikiPage returns the content of a generated wiki page, or sql.ErrNoRows.
func (d *DB) GetWikiPage(ctx context.Context, path string) (string, error) {
	var content string
	err := d.QueryRowContext(ctx, `SELECT content FROM wiki_pages WHERE path = ?`, path).Scan(&content)
	if err != nil {
		return "", err
	}
	return content, nil
}

// HasWikiPage reports whether a wiki page exists at the given path.
func (d *DB) HasWikiPage(ctx context.Context, path string) (bool, error) {
	_, err := d.GetWikiPage(ctx, path)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertNode writes a node row. Used by the generation pipeline and tests.
func (d *DB) InsertNode(ctx context.Context, n NodeRow) error {
	var parent any
	if n.ParentID != "" {
		parent = n.ParentID
	}
	_, err := d.ExecContext(ctx, `
		INSERT INTO nodes (id, name, kind, file_path, start_line, end_line, docstring, signature, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Name, n.Kind, n.FilePath, n.StartLine, n.EndLine, n.Docstring, n.Signature, parent)
	if err != nil {
		return fmt.Errorf("inserting node %s: %w", n.ID, err)
	}
	return nil
}

// InsertEdge writes an edge row.
func (d *DB) InsertEdge(ctx context.Context, e EdgeRow) error {
	edgeType := e.Type
	if edgeType == "" {
		edgeType = "calls"
	}
	_, err := d.ExecContext(ctx, `
		INSERT INTO edges (source_id, target_id, edge_type, confidence, line)
		VALUES (?, ?, ?, ?, ?)`,
		e.SourceID, e.TargetID, edgeType, e.Confidence, e.Line)
	if err != nil {
		return fmt.Errorf("inserting edge %s->%s: %w", e.SourceID, e.TargetID, err)
	}
	return nil
}

// InsertNote writes a human note.
func (d *DB) InsertNote(ctx context.Context, id, path, content, author string) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO notes (id, path, content, author) VALUES (?, ?, ?, ?)`,
		id, path, content, author)
	if err != nil {
		return fmt.Errorf("inserting note %s: %w", id, err)
	}
	return nil
}

// UpsertWikiPage writes a generated wiki page.
func (d *DB) UpsertWikiPage(ctx context.Context, path, content string) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO wiki_pages (path, content) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET content = excluded.content, generated_at = datetime('now')`,
		path, content)
	if err != nil {
		return fmt.Errorf("upserting wiki page %s: %w", path, err)
	}
	return nil
}
