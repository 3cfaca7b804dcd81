package scraper

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recentArticle(title, link string, published time.Time) *Article {
	return &Article{
		Source:      "Test",
		Title:       title,
		Link:        link,
		PublishedAt: &published,
	}
}

func TestFilter_ReasonOrder(t *testing.T) {
	now := time.Now()
	cutoff := now.Add(-25 * time.Hour)
	existing := map[string]struct{}{
		"https://example.com/known": {},
	}

	filter := NewFilter(existing, cutoff)

	tests := []struct {
		name    string
		article *Article
		want    Reason
	}{
		{
			name:    "valid recent new article admitted",
			article: recentArticle("A perfectly fine headline", "https://example.com/new", now.Add(-1*time.Hour)),
			want:    ReasonAdmitted,
		},
		{
			name:    "missing title",
			article: recentArticle("", "https://example.com/a", now),
			want:    ReasonInvalid,
		},
		{
			name:    "title of exactly 10 runes",
			article: recentArticle("ABCDEFGHIJ", "https://example.com/b", now),
			want:    ReasonInvalid,
		},
		{
			name:    "title of 11 runes passes validation",
			article: recentArticle("ABCDEFGHIJK", "https://example.com/c", now.Add(-1*time.Hour)),
			want:    ReasonAdmitted,
		},
		{
			name:    "missing link",
			article: recentArticle("A perfectly fine headline", "", now),
			want:    ReasonInvalid,
		},
		{
			name:    "relative link",
			article: recentArticle("A perfectly fine headline", "/news/1", now),
			want:    ReasonInvalid,
		},
		{
			name:    "known link is a duplicate",
			article: recentArticle("A perfectly fine headline", "https://example.com/known", now),
			want:    ReasonDuplicate,
		},
		{
			// Invalid wins over duplicate: reason order is fixed.
			name:    "invalid title on a known link reports invalid",
			article: recentArticle("short", "https://example.com/known", now),
			want:    ReasonInvalid,
		},
		{
			name:    "older than cutoff is stale",
			article: recentArticle("A perfectly fine headline", "https://example.com/old", now.Add(-26*time.Hour)),
			want:    ReasonStale,
		},
		{
			name: "absent published date is stale",
			article: &Article{
				Source: "Test",
				Title:  "A perfectly fine headline",
				Link:   "https://example.com/undated",
			},
			want: ReasonStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Admit(tt.article))
		})
	}
}

func TestFilter_RecencyBoundary(t *testing.T) {
	now := time.Now()
	filter := NewFilter(nil, now.Add(-25*time.Hour))

	admitted := filter.Admit(recentArticle("A perfectly fine headline", "https://example.com/fresh", now.Add(-24*time.Hour)))
	assert.Equal(t, ReasonAdmitted, admitted)

	stale := filter.Admit(recentArticle("Another perfectly fine headline", "https://example.com/stale", now.Add(-26*time.Hour)))
	assert.Equal(t, ReasonStale, stale)
}

func TestFilter_AdmissionRegistersLink(t *testing.T) {
	now := time.Now()
	filter := NewFilter(nil, now.Add(-25*time.Hour))

	first := recentArticle("A perfectly fine headline", "https://example.com/story", now)
	second := recentArticle("A different headline entirely", "https://example.com/story", now)

	require.Equal(t, ReasonAdmitted, filter.Admit(first))
	assert.Equal(t, ReasonDuplicate, filter.Admit(second))
}

func TestFilter_ConcurrentAdmissionIsExclusive(t *testing.T) {
	now := time.Now()
	filter := NewFilter(nil, now.Add(-25*time.Hour))

	const workers = 16
	var wg sync.WaitGroup
	admittedCount := make(chan Reason, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := recentArticle("A perfectly fine headline", "https://example.com/contested", now)
			admittedCount <- filter.Admit(a)
		}()
	}
	wg.Wait()
	close(admittedCount)

	admissions := 0
	for reason := range admittedCount {
		if reason == ReasonAdmitted {
			admissions++
		}
	}
	assert.Equal(t, 1, admissions, "exactly one worker may admit a contested link")
}

func TestValidArticle_MultibyteTitles(t *testing.T) {
	now := time.Now()
	filter := NewFilter(nil, now.Add(-25*time.Hour))

	// 11 multibyte runes must pass the length check.
	title := strings.Repeat("기", 11)
	assert.Equal(t, ReasonAdmitted, filter.Admit(recentArticle(title, "https://example.com/kr", now)))
}
