// Package store persists harvested articles. The link is the natural key:
// inserting an already-known link is a no-op, which makes batch commits
// idempotent row by row.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"sjsage522/newsharvester/internal/scraper"
)

// SQLiteStore implements scraper.Store on a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the articles table if it doesn't exist
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS articles (
		link         TEXT PRIMARY KEY,
		source       TEXT NOT NULL,
		title        TEXT NOT NULL,
		image        TEXT,
		author       TEXT,
		snippet      TEXT,
		display_date TEXT,
		published_at TIMESTAMP,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ExistingLinks returns every known article link, loaded once per batch
func (s *SQLiteStore) ExistingLinks(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT link FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]struct{})
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links[link] = struct{}{}
	}
	return links, rows.Err()
}

// Commit inserts a batch of articles and returns how many rows were
// actually new. Links already present are skipped silently.
func (s *SQLiteStore) Commit(ctx context.Context, articles []scraper.Article) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO articles
			(link, source, title, image, author, snippet, display_date, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range articles {
		a := &articles[i]
		res, err := stmt.ExecContext(ctx,
			a.Link, a.Source, a.Title,
			nullable(a.Image), nullable(a.Author), nullable(a.Snippet),
			a.DisplayDate, a.PublishedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", a.Link, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count insert: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable maps empty strings to NULL so optional fields stay optional
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
