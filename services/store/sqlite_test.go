package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/newsharvester/internal/scraper"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(link string) scraper.Article {
	published := time.Date(2024, time.October, 15, 12, 0, 0, 0, time.UTC)
	return scraper.Article{
		Source:      "Test Site",
		Title:       "A reasonably long headline",
		Link:        link,
		Image:       "https://example.com/img.jpg",
		Author:      "Jane Doe",
		Snippet:     "Something happened.",
		DisplayDate: "Oct 15, 2024",
		PublishedAt: &published,
	}
}

func TestCommit_InsertsAndCounts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.Commit(ctx, []scraper.Article{
		testArticle("https://example.com/1"),
		testArticle("https://example.com/2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	links, err := s.ExistingLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Contains(t, links, "https://example.com/1")
	assert.Contains(t, links, "https://example.com/2")
}

func TestCommit_IgnoresKnownLinks(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Commit(ctx, []scraper.Article{testArticle("https://example.com/1")})
	require.NoError(t, err)

	// Same link again, even with a different title, inserts nothing.
	again := testArticle("https://example.com/1")
	again.Title = "A completely different headline"
	saved, err := s.Commit(ctx, []scraper.Article{again, testArticle("https://example.com/3")})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestCommit_OptionalFieldsMayBeEmpty(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/bare")
	a.Image = ""
	a.Author = ""
	a.Snippet = ""

	saved, err := s.Commit(ctx, []scraper.Article{a})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestCommit_NilPublishedAt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testArticle("https://example.com/undated")
	a.PublishedAt = nil
	a.DisplayDate = "N/A"

	saved, err := s.Commit(ctx, []scraper.Article{a})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestCommit_EmptyBatch(t *testing.T) {
	s := testStore(t)

	saved, err := s.Commit(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestExistingLinks_EmptyStore(t *testing.T) {
	s := testStore(t)

	links, err := s.ExistingLinks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestStore_ReopenSeesPriorRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.Commit(ctx, []scraper.Article{testArticle("https://example.com/1")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	links, err := s.ExistingLinks(ctx)
	require.NoError(t, err)
	assert.Contains(t, links, "https://example.com/1")
}
