package importer

import (
	"fmt"
	"io"

	"pastegate/internal/convert"
	"pastegate/internal/paste"
)

// MarkdownImporter handles Markdown files. The source is parsed through the
// goldmark AST and re-rendered as markup so it rides the sanitized markup
// path like any other structured content.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*paste.Event, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	nodes, err := convert.NodesFromMarkdown(src)
	if err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	ev := paste.NewEvent()
	ev.Set(paste.TypeHTML, convert.HTMLFromNodes(nodes))
	ev.Set(paste.TypePlain, string(src))
	return ev, nil
}
