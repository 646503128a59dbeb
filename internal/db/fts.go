package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// KeywordHit is one row from the FTS5 keyword index.
type KeywordHit struct {
	Path    string
	Content string
	Type    string // note, code, wiki
	Rank    float64
}

// migrateFTS creates the FTS5 virtual table over searchable content plus
// sync triggers from the source tables. Notes and wiki pages are indexed
// whole; code content is indexed through node docstrings and signatures.
func (d *DB) migrateFTS() error {
	stmts := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS search_fts USING fts5(
			path, content, type UNINDEXED
		)`,

		`CREATE TRIGGER IF NOT EXISTS notes_fts_ai AFTER INSERT ON notes BEGIN
			INSERT INTO search_fts(path, content, type)
			VALUES (new.path, new.content, 'note');
		END`,
		`CREATE TRIGGER IF NOT EXISTS notes_fts_ad AFTER DELETE ON notes BEGIN
			DELETE FROM search_fts WHERE path = old.path AND type = 'note';
		END`,

		`CREATE TRIGGER IF NOT EXISTS wiki_fts_ai AFTER INSERT ON wiki_pages BEGIN
			INSERT INTO search_fts(path, content, type)
			VALUES (new.path, new.content, 'wiki');
		END`,
		`CREATE TRIGGER IF NOT EXISTS wiki_fts_ad AFTER DELETE ON wiki_pages BEGIN
			DELETE FROM search_fts WHERE path = old.path AND type = 'wiki';
		END`,
		`CREATE TRIGGER IF NOT EXISTS wiki_fts_au AFTER UPDATE ON wiki_pages BEGIN
			DELETE FROM search_fts WHERE path = old.path AND type = 'wiki';
			INSERT INTO search_fts(path, content, type)
			VALUES (new.path, new.content, 'wiki');
		END`,

		`CREATE TRIGGER IF NOT EXISTS nodes_fts_ai AFTER INSERT ON nodes BEGIN
			INSERT INTO search_fts(path, content, type)
			VALUES (new.file_path, new.name || ' ' || new.signature || ' ' || new.docstring, 'code');
		END`,
		`CREATE TRIGGER IF NOT EXISTS nodes_fts_ad AFTER DELETE ON nodes BEGIN
			DELETE FROM search_fts WHERE path = old.file_path AND type = 'code';
		END`,
	}

	for _, stmt := range stmts {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("fts migration: %w", err)
		}
	}
	return nil
}

// KeywordSearch runs an FTS5 match against the keyword index, best rank first.
func (d *DB) KeywordSearch(ctx context.Context, query string, limit int) ([]KeywordHit, error) {
	match := ftsQuote(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.QueryContext(ctx, `
		SELECT path, content, type, rank
		FROM search_fts
		WHERE search_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var hits []KeywordHit
	for rows.Next() {
		var h KeywordHit
		var rank sql.NullFloat64
		if err := rows.Scan(&h.Path, &h.Content, &h.Type, &rank); err != nil {
			return nil, fmt.Errorf("fts scan: %w", err)
		}
		h.Rank = rank.Float64
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsQuote turns free text into a safe FTS5 match expression: each term is
// double-quoted so punctuation in user questions cannot break the query
// syntax, and terms are OR-ed for recall.
func ftsQuote(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
