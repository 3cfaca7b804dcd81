package scraper

import (
	"context"

	"sjsage522/newsharvester/helpers"
	"sjsage522/newsharvester/internal/datetext"
	"sjsage522/newsharvester/internal/render"
	"sjsage522/newsharvester/internal/siteconfig"
	"sjsage522/newsharvester/logger"
)

// SiteResult summarizes one site's scrape for batch reporting
type SiteResult struct {
	Site     string
	Found    int
	Admitted []Article
	Rejected map[Reason]int
}

// scrapeSite drives one site end to end: render, extract, normalize,
// filter. Navigation and parse failures yield an empty result rather than
// an error; one unreachable site must never abort the batch.
func (h *Harvester) scrapeSite(ctx context.Context, site *siteconfig.Site, filter *Filter) SiteResult {
	log := logger.ForSite(site.Name)
	result := SiteResult{
		Site:     site.Name,
		Rejected: make(map[Reason]int),
	}

	body, err := h.renderer.Render(ctx, render.Request{
		URL:          site.BaseURL,
		WaitSelector: site.Article.Container,
		SiteKey:      site.Name,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Site unreachable, zero results")
		return result
	}

	doc, err := NewDocument(body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse rendered page, zero results")
		return result
	}

	records := ExtractRecords(doc, site)
	result.Found = len(records)
	log.Debug().
		Int("candidates", len(records)).
		Str("container", site.Article.Container).
		Msg("Extracted candidate records")

	for i := range records {
		article := h.normalize(&records[i], site)
		switch reason := filter.Admit(article); reason {
		case ReasonAdmitted:
			result.Admitted = append(result.Admitted, *article)
			log.Debug().
				Str("title", helpers.Truncate(article.Title, 60)).
				Str("date", article.DisplayDate).
				Msg("Admitted article")
		default:
			result.Rejected[reason]++
			log.Debug().
				Str("reason", string(reason)).
				Str("title", helpers.Truncate(article.Title, 50)).
				Str("date_text", helpers.Truncate(records[i].DateText, 30)).
				Msg("Rejected candidate")
		}
	}

	return result
}

// normalize turns a raw record into an article. Date parse failure is a
// normal outcome: the article keeps an absent PublishedAt and an "N/A"
// display date, and the admission filter treats it as stale.
func (h *Harvester) normalize(rec *RawRecord, site *siteconfig.Site) *Article {
	article := &Article{
		Source:  site.Name,
		Title:   rec.Title,
		Link:    rec.Link,
		Image:   rec.Image,
		Author:  rec.Author,
		Snippet: rec.Snippet,
	}
	if published, ok := h.norm.Normalize(rec.DateText); ok {
		article.PublishedAt = &published
	}
	article.DisplayDate = datetext.FormatDisplay(article.PublishedAt)
	return article
}
