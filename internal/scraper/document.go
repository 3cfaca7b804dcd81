package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// goqueryDocument adapts a parsed HTML tree to the Document interface
type goqueryDocument struct {
	doc *goquery.Document
}

// NewDocument parses rendered HTML into a queryable Document
func NewDocument(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &goqueryDocument{doc: doc}, nil
}

func (d *goqueryDocument) Select(selector string) []Element {
	var elements []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &goqueryElement{sel: s})
	})
	return elements
}

type goqueryElement struct {
	sel *goquery.Selection
}

func (e *goqueryElement) SelectFirst(selector string) (Element, bool) {
	found := e.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &goqueryElement{sel: found}, true
}

func (e *goqueryElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *goqueryElement) Attr(name string) (string, bool) {
	val, ok := e.sel.Attr(name)
	return strings.TrimSpace(val), ok
}
