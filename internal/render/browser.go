package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"sjsage522/newsharvester/logger"
	apperrors "sjsage522/newsharvester/pkg/errors"
)

// BrowserOptions configures the headless-browser renderer
type BrowserOptions struct {
	// ControlURL is an existing DevTools websocket endpoint.
	// Empty = launch a local headless Chrome via launcher.
	ControlURL string

	NavigationTimeout  time.Duration
	ContentTimeout     time.Duration
	NetworkIdleTimeout time.Duration
	GraceDelay         time.Duration
}

// BrowserRenderer renders pages in headless Chrome so script-built content
// is present before extraction. One renderer owns one browser; each Render
// call owns one page, never shared.
type BrowserRenderer struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	opts    BrowserOptions
}

// NewBrowserRenderer connects to or launches a browser
func NewBrowserRenderer(opts BrowserOptions) (*BrowserRenderer, error) {
	r := &BrowserRenderer{opts: opts}

	wsURL := opts.ControlURL
	if wsURL == "" {
		l := launcher.New().
			Headless(true).
			NoSandbox(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		r.lnch = l
		wsURL = u
		logger.Debug("Launched local headless browser at %s", wsURL)
	} else {
		logger.Debug("Connecting to remote browser at %s", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if r.lnch != nil {
			r.lnch.Kill()
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	r.browser = b

	return r, nil
}

// Render navigates to the page, waits for the container selector, lets the
// network settle and applies a short grace delay before serializing the
// DOM. Wait timeouts are not fatal: whatever has rendered by then is
// extracted best-effort. Only navigation itself failing is an error.
func (r *BrowserRenderer) Render(ctx context.Context, req Request) (io.Reader, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, apperrors.NewNavigation(req.SiteKey, "create page", err)
	}
	defer page.Close()

	navCtx, cancelNav := context.WithTimeout(ctx, r.opts.NavigationTimeout)
	defer cancelNav()

	if err := page.Context(navCtx).Navigate(req.URL); err != nil {
		return nil, apperrors.NewNavigation(req.SiteKey, fmt.Sprintf("navigate %s", req.URL), err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		logger.Warn("Load wait ended early for %s: %v", req.URL, err)
	}

	r.waitForContent(ctx, page, req)

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return nil, apperrors.NewNavigation(req.SiteKey, "serialize page", err)
	}
	return strings.NewReader(html), nil
}

// waitForContent implements the content-settling phase: container selector
// first, then network idle, then a fixed grace delay for late-rendering
// dynamic content. Every phase is bounded and best-effort.
func (r *BrowserRenderer) waitForContent(ctx context.Context, page *rod.Page, req Request) {
	if req.WaitSelector != "" {
		waitCtx, cancel := context.WithTimeout(ctx, r.opts.ContentTimeout)
		if _, err := page.Context(waitCtx).Element(req.WaitSelector); err != nil {
			logger.Warn("Container %q did not appear on %s within %s, continuing",
				req.WaitSelector, req.URL, r.opts.ContentTimeout)
		}
		cancel()
	}

	idleCtx, cancel := context.WithTimeout(ctx, r.opts.NetworkIdleTimeout)
	wait := page.Context(idleCtx).WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
	wait()
	cancel()

	select {
	case <-time.After(r.opts.GraceDelay):
	case <-ctx.Done():
	}
}

// Close shuts down the browser, and the launched Chrome when we own it
func (r *BrowserRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
	}
	if r.lnch != nil {
		r.lnch.Kill()
	}
	return err
}
