package scraper

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Reason classifies the outcome of one admission decision
type Reason string

const (
	// ReasonAdmitted means the record will be committed
	ReasonAdmitted Reason = "admitted"
	// ReasonInvalid means a load-bearing field is missing or malformed
	ReasonInvalid Reason = "invalid"
	// ReasonDuplicate means the link is already known
	ReasonDuplicate Reason = "duplicate"
	// ReasonStale means the article is older than the recency cutoff,
	// or its date could not be parsed at all
	ReasonStale Reason = "stale"
)

// minTitleLength is exclusive: a title of exactly this many runes is invalid
const minTitleLength = 10

// Filter decides admission for candidate articles. It owns the link set
// for one batch: the set is seeded from persisted state and grows as
// records are admitted, so a link admitted on one site is a duplicate on
// every later record, regardless of which worker sees it.
type Filter struct {
	mu     sync.Mutex
	links  map[string]struct{}
	cutoff time.Time
}

// NewFilter creates a filter seeded with the already-persisted links.
// cutoff is the batch-start instant minus the recency window.
func NewFilter(existing map[string]struct{}, cutoff time.Time) *Filter {
	links := make(map[string]struct{}, len(existing))
	for link := range existing {
		links[link] = struct{}{}
	}
	return &Filter{
		links:  links,
		cutoff: cutoff,
	}
}

// Admit classifies one candidate. Reasons are evaluated in a fixed order
// so diagnostics stay deterministic: invalid, duplicate, stale, admitted.
// Admission registers the link immediately.
func (f *Filter) Admit(a *Article) Reason {
	if !validArticle(a) {
		return ReasonInvalid
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, seen := f.links[a.Link]; seen {
		return ReasonDuplicate
	}
	if a.PublishedAt == nil || a.PublishedAt.Before(f.cutoff) {
		return ReasonStale
	}

	f.links[a.Link] = struct{}{}
	return ReasonAdmitted
}

// Cutoff returns the recency cutoff the filter judges against
func (f *Filter) Cutoff() time.Time {
	return f.cutoff
}

// validArticle checks the load-bearing fields: a usable title and an
// absolute http(s) link
func validArticle(a *Article) bool {
	if a.Title == "" || utf8.RuneCountInString(a.Title) <= minTitleLength {
		return false
	}
	if a.Link == "" {
		return false
	}
	return strings.HasPrefix(a.Link, "http://") || strings.HasPrefix(a.Link, "https://")
}
