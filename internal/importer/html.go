package importer

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"pastegate/internal/paste"
)

// noiseSelectors are elements removed before the page content is handed to
// the ingestion pipeline. They contribute chrome, not content.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header", "aside",
	"iframe", "form", "button", "input", "select", "textarea",
	"svg", "canvas",
}

// HTMLImporter handles HTML files. It isolates the main content container
// before ingestion; the dispatcher's sanitizer remains the trust boundary.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*paste.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// Best content container in priority order: <main> is the most
	// semantically specific, then <article>, then <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("no content container found in %s", filename)
	}

	markup, err := content.Html()
	if err != nil {
		return nil, fmt.Errorf("serialize content: %w", err)
	}

	ev := paste.NewEvent()
	ev.Set(paste.TypeHTML, markup)
	ev.Set(paste.TypePlain, content.Text())
	return ev, nil
}
