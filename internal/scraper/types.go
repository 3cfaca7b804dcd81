package scraper

import (
	"context"
	"time"
)

// RawRecord holds the untyped strings pulled out of one container element.
// It lives only inside one extraction pass and is discarded once the
// record has been normalized and judged.
type RawRecord struct {
	Title    string
	Link     string
	Image    string
	Author   string
	Snippet  string
	DateText string
}

// Article is the unit handed to persistence. Link is the natural key:
// two articles with the same link are the same article, everywhere.
type Article struct {
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Image       string     `json:"image,omitempty"`
	Author      string     `json:"author,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	DisplayDate string     `json:"display_date,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Document is the queryable rendered page. Extraction never touches the
// rendering backend directly; anything that can answer CSS-like selector
// queries can drive it.
type Document interface {
	// Select returns all elements matching the selector, in document order
	Select(selector string) []Element
}

// Element is one node of a rendered document
type Element interface {
	// SelectFirst returns the first descendant matching the selector
	SelectFirst(selector string) (Element, bool)

	// Text returns the trimmed text content of the element
	Text() string

	// Attr returns the value of the named attribute
	Attr(name string) (string, bool)
}

// Store is the persistence contract. Insertion is keyed by link and is a
// no-op for links already present.
type Store interface {
	// ExistingLinks returns all known article links
	ExistingLinks(ctx context.Context) (map[string]struct{}, error)

	// Commit inserts a batch and returns how many rows were actually new
	Commit(ctx context.Context, articles []Article) (int, error)
}

// Publisher notifies downstream consumers about newly saved articles
type Publisher interface {
	// Publish publishes a message keyed by source site
	Publish(key string, message []byte) error

	// TrimStreams trims the notification streams to their configured bound
	TrimStreams() error
}
