// Package scraper implements the extraction, admission and orchestration
// core: given declarative site configs and a rendering backend, it
// harvests recently-published articles and hands clean, deduplicated
// batches to persistence.
package scraper

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sjsage522/newsharvester/config"
	"sjsage522/newsharvester/internal/datetext"
	"sjsage522/newsharvester/internal/render"
	"sjsage522/newsharvester/internal/siteconfig"
	"sjsage522/newsharvester/logger"
	apperrors "sjsage522/newsharvester/pkg/errors"
)

// Harvester is the batch orchestrator. It is safe to call RunBatch
// repeatedly; no resources are held between calls. Batches must not
// overlap (the scheduler guarantees that).
type Harvester struct {
	configDir string
	window    time.Duration
	workers   int
	renderer  render.Renderer
	store     Store
	publisher Publisher
	norm      *datetext.Normalizer
}

// NewHarvester wires a harvester. publisher may be nil to disable stream
// notifications.
func NewHarvester(cfg *config.Config, renderer render.Renderer, st Store, pub Publisher) *Harvester {
	return &Harvester{
		configDir: cfg.ConfigDir,
		window:    cfg.RecencyWindow,
		workers:   cfg.SiteWorkers,
		renderer:  renderer,
		store:     st,
		publisher: pub,
		norm:      datetext.New(cfg.Location()),
	}
}

// RunBatch runs one full harvest across all configured sites: load
// configs, scrape sites on a bounded worker pool, aggregate admitted
// articles and commit them in one pass. Returns total candidates found
// and articles actually saved. Only persistence failures are returned as
// errors; everything else degrades to per-site or per-record skips.
func (h *Harvester) RunBatch(ctx context.Context) (int, int, error) {
	log := logger.ForBatch()
	start := time.Now()

	sites, err := siteconfig.LoadDir(h.configDir)
	if err != nil {
		return 0, 0, err
	}
	if len(sites) == 0 {
		log.Warn().Str("dir", h.configDir).Msg("No valid site configs, nothing to do")
		return 0, 0, nil
	}

	existing, err := h.store.ExistingLinks(ctx)
	if err != nil {
		return 0, 0, apperrors.NewPersistence("load existing links", err)
	}

	log.Info().
		Int("sites", len(sites)).
		Int("known_links", len(existing)).
		Time("cutoff", start.Add(-h.window)).
		Msg("Starting batch")

	filter := NewFilter(existing, start.Add(-h.window))

	// Sites are independent; run them on a bounded pool sharing one
	// filter. Once the context is cancelled no new site starts, but
	// in-flight sites finish their extraction pass.
	results := make([]SiteResult, len(sites))
	sem := make(chan struct{}, h.workers)
	var wg sync.WaitGroup
	for i, site := range sites {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("Batch cancelled, not starting remaining sites")
			break
		}
		wg.Add(1)
		go func(i int, site *siteconfig.Site) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = h.scrapeSite(ctx, site, filter)
		}(i, site)
	}
	wg.Wait()

	found := 0
	var admitted []Article
	for _, res := range results {
		if res.Site == "" {
			continue
		}
		found += res.Found
		admitted = append(admitted, res.Admitted...)
		log.Info().
			Str("site", res.Site).
			Int("found", res.Found).
			Int("admitted", len(res.Admitted)).
			Interface("rejected", res.Rejected).
			Msg("Site scrape complete")
	}

	if len(admitted) == 0 {
		log.Info().Int("found", found).Msg("No new articles to save")
		return found, 0, nil
	}

	saved, err := h.store.Commit(ctx, admitted)
	if err != nil {
		// Rows inserted before the failure stand; per-article insertion
		// is idempotent, so the next batch picks up where this one died.
		return found, 0, apperrors.NewPersistence("commit batch", err)
	}

	h.notify(admitted)

	log.Info().
		Int("found", found).
		Int("saved", saved).
		Dur("elapsed", time.Since(start)).
		Msg("Batch complete")

	return found, saved, nil
}

// notify publishes admitted articles to the notification stream. Publish
// failures are logged, never batch-fatal.
func (h *Harvester) notify(articles []Article) {
	if h.publisher == nil {
		return
	}
	for i := range articles {
		data, err := json.Marshal(&articles[i])
		if err != nil {
			logger.LogError("publisher", err, "marshal article %s", articles[i].Link)
			continue
		}
		if err := h.publisher.Publish(articles[i].Source, data); err != nil {
			logger.LogError("publisher", err, "publish article %s", articles[i].Link)
		}
	}
	if err := h.publisher.TrimStreams(); err != nil {
		logger.LogError("publisher", err, "trim streams")
	}
}
