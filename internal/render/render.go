// Package render turns a site URL into fetched page HTML. The scraper only
// sees the Renderer interface; whether the page came from a headless
// browser or a plain HTTP fetch is invisible to extraction.
package render

import (
	"context"
	"io"
)

// Request describes one page render
type Request struct {
	// URL is the page to load
	URL string

	// WaitSelector, when set, is the selector the renderer should wait
	// for before declaring the page ready. Best effort: a renderer that
	// cannot wait (or times out waiting) still returns what it has.
	WaitSelector string

	// SiteKey identifies the site for diagnostics and rate-limit keys
	SiteKey string
}

// Renderer fetches and renders one page per call
type Renderer interface {
	Render(ctx context.Context, req Request) (io.Reader, error)

	// Close releases any session the renderer holds
	Close() error
}
