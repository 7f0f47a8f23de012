// Package search maintains the site's full-text index. The index is a
// single SQLite FTS5 table rebuilt from scratch on every build and queried
// by the preview server's /search endpoint.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Index is a SQLite-backed full-text page index.
type Index struct {
	db *sql.DB
	mu sync.RWMutex
}

// Doc is one indexed page.
type Doc struct {
	Target     string   `json:"target"`
	Title      string   `json:"title"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	Body       string   `json:"-"`
}

// Hit is one search result with a highlighted snippet.
type Hit struct {
	Target     string `json:"target"`
	Title      string `json:"title"`
	Breadcrumb string `json:"breadcrumb,omitempty"`
	Snippet    string `json:"snippet"`
}

// Open opens (or creates) the index at dbPath. Use ":memory:" for an
// ephemeral index.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	idx := &Index{db: db}
	if err := idx.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize search schema: %w", err)
	}
	return idx, nil
}

func (i *Index) initialize() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS pages USING fts5(
		target UNINDEXED,
		title,
		breadcrumb,
		body
	);
	`
	_, err := i.db.Exec(schema)
	return err
}

// Reset drops all indexed pages; called at the start of each build.
func (i *Index) Reset(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, err := i.db.ExecContext(ctx, `DELETE FROM pages`)
	return err
}

// Add indexes one page.
func (i *Index) Add(ctx context.Context, doc Doc) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO pages (target, title, breadcrumb, body) VALUES (?, ?, ?, ?)`,
		doc.Target, doc.Title, strings.Join(doc.Breadcrumb, " / "), doc.Body)
	if err != nil {
		return fmt.Errorf("index page %s: %w", doc.Target, err)
	}
	return nil
}

// Search returns up to limit hits ranked by relevance.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT target, title, breadcrumb, snippet(pages, 3, '<mark>', '</mark>', '…', 12)
		 FROM pages WHERE pages MATCH ? ORDER BY rank LIMIT ?`,
		ftsQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Target, &h.Title, &h.Breadcrumb, &h.Snippet); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Count returns the number of indexed pages.
func (i *Index) Count(ctx context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	var n int
	err := i.db.QueryRowContext(ctx, `SELECT count(*) FROM pages`).Scan(&n)
	return n, err
}

// Close releases the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

// ftsQuery quotes each term so user input cannot inject FTS5 query syntax.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
