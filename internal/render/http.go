package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sjsage522/newsharvester/helpers"
	"sjsage522/newsharvester/logger"
	apperrors "sjsage522/newsharvester/pkg/errors"
	"sjsage522/newsharvester/services/cache"
)

// HTTPRenderer fetches pages with a plain HTTP GET and browser-like
// headers. It cannot execute scripts, so WaitSelector is ignored; sites
// that render server-side work fine with it and skip the browser cost.
type HTTPRenderer struct {
	cacheSvc  cache.CacheService
	blockTime time.Duration
}

// NewHTTPRenderer creates an HTTP renderer. cacheSvc may be nil, in which
// case rate-limit blocking is disabled.
func NewHTTPRenderer(cacheSvc cache.CacheService, blockTime time.Duration) *HTTPRenderer {
	return &HTTPRenderer{
		cacheSvc:  cacheSvc,
		blockTime: blockTime,
	}
}

// Render fetches the page body, transcoded to UTF-8. A site that answered
// with a rate-limit status is blocked in the cache for the configured
// duration so the next batches leave it alone.
func (r *HTTPRenderer) Render(ctx context.Context, req Request) (io.Reader, error) {
	cacheKey := r.rateLimitKey(req.SiteKey)
	if r.cacheSvc != nil && cacheKey != "" {
		if _, err := r.cacheSvc.Get(cacheKey); err == nil {
			return nil, apperrors.NewNavigation(req.SiteKey,
				fmt.Sprintf("blocked for %s after rate limiting", r.blockTime), nil)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(ctx, req.URL)
	if err != nil {
		if r.cacheSvc != nil && cacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			if cacheErr := r.cacheSvc.Set(cacheKey, []byte("1"), r.blockTime); cacheErr != nil {
				logger.Warn("Failed to record rate-limit block for %s: %v", req.SiteKey, cacheErr)
			}
		}
		return nil, apperrors.NewNavigation(req.SiteKey, fmt.Sprintf("fetch %s", req.URL), err)
	}

	return body, nil
}

// Close implements Renderer; the HTTP renderer holds no session
func (r *HTTPRenderer) Close() error {
	return nil
}

func (r *HTTPRenderer) rateLimitKey(siteKey string) string {
	if siteKey == "" {
		return ""
	}
	key := strings.ToLower(strings.ReplaceAll(siteKey, " ", "_"))
	return key + "_rate_limited"
}
