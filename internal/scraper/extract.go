package scraper

import (
	"net/url"

	"sjsage522/newsharvester/internal/siteconfig"
)

// ExtractRecords locates the container elements matching the site's
// configured selector, bounded by the site's limit in document order, and
// resolves the field sub-selectors relative to each container. A container
// that cannot produce its load-bearing fields still yields a record; the
// admission filter owns that judgment. Missing optional selectors simply
// leave fields empty.
func ExtractRecords(doc Document, site *siteconfig.Site) []RawRecord {
	containers := doc.Select(site.Article.Container)

	limit := site.Limit
	if limit <= 0 {
		limit = siteconfig.DefaultLimit
	}
	if len(containers) > limit {
		containers = containers[:limit]
	}

	records := make([]RawRecord, 0, len(containers))
	for _, container := range containers {
		records = append(records, extractRecord(container, site))
	}
	return records
}

// extractRecord pulls one record out of one container element
func extractRecord(el Element, site *siteconfig.Site) RawRecord {
	rec := RawRecord{}
	sel := site.Article

	if link, ok := attrOf(el, sel.Link, "href"); ok {
		rec.Link = resolveURL(site.BaseURL, link)
	}
	rec.Title = textOf(el, sel.Title)
	if img, ok := attrOf(el, sel.Image, "src"); ok {
		rec.Image = resolveURL(site.BaseURL, img)
	}
	rec.Author = textOf(el, sel.Author)
	rec.Snippet = textOf(el, sel.Snippet)
	rec.DateText = textOf(el, sel.Date)

	return rec
}

// textOf returns the text of the first descendant matching the selector
func textOf(el Element, selector string) string {
	if selector == "" {
		return ""
	}
	found, ok := el.SelectFirst(selector)
	if !ok {
		return ""
	}
	return found.Text()
}

// attrOf returns an attribute of the first descendant matching the selector
func attrOf(el Element, selector, name string) (string, bool) {
	if selector == "" {
		return "", false
	}
	found, ok := el.SelectFirst(selector)
	if !ok {
		return "", false
	}
	val, ok := found.Attr(name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// resolveURL joins a possibly-relative reference against the site base URL
func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
