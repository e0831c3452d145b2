package convert

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"pastegate/internal/doctree"
)

// MarkdownFromNodes renders block nodes as markdown, going through the
// markup rendering so both exports share one serialization.
func MarkdownFromNodes(nodes []doctree.Node) (string, error) {
	md, err := htmltomarkdown.ConvertString(HTMLFromNodes(nodes))
	if err != nil {
		return "", fmt.Errorf("converting markup to markdown: %w", err)
	}
	return md, nil
}

// NodesFromMarkdown parses markdown source into block nodes via the
// goldmark AST.
func NodesFromMarkdown(src []byte) ([]doctree.Node, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))
	return mdBlocks(doc, src), nil
}

func mdBlocks(parent ast.Node, src []byte) []doctree.Node {
	var out []doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			h := &doctree.Heading{Rank: v.Level}
			h.SetChildren(mdInlines(v, src))
			out = append(out, h)
		case *ast.Paragraph:
			p := &doctree.Paragraph{}
			p.SetChildren(mdInlines(v, src))
			out = append(out, p)
		case *ast.List:
			out = append(out, mdList(v, src))
		case *ast.Blockquote:
			q := &doctree.Quote{}
			q.SetChildren(mdBlocks(v, src))
			out = append(out, q)
		case *ast.FencedCodeBlock:
			out = append(out, &doctree.CodeBlock{
				Language: string(v.Language(src)),
				Text:     blockLines(v, src),
			})
		case *ast.CodeBlock:
			out = append(out, &doctree.CodeBlock{Text: blockLines(v, src)})
		case *ast.ThematicBreak:
			out = append(out, &doctree.Rule{})
		case *ast.TextBlock:
			p := &doctree.Paragraph{}
			p.SetChildren(mdInlines(v, src))
			out = append(out, p)
		}
	}
	return out
}

func mdList(l *ast.List, src []byte) *doctree.List {
	list := &doctree.List{Ordered: l.IsOrdered(), Start: l.Start}
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		item := &doctree.ListItem{}
		var kids []doctree.Node
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				kids = append(kids, mdInlines(v, src)...)
			case *ast.List:
				kids = append(kids, mdList(v, src))
			}
		}
		item.SetChildren(kids)
		list.Append(item)
	}
	return list
}

func mdInlines(parent ast.Node, src []byte) []doctree.Node {
	return mdInlineWalk(parent, src, 0)
}

func mdInlineWalk(parent ast.Node, src []byte, format doctree.Format) []doctree.Node {
	var out []doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Text:
			out = append(out, &doctree.TextRun{Text: string(v.Segment.Value(src)), Format: format})
			if v.HardLineBreak() || v.SoftLineBreak() {
				out = append(out, &doctree.LineBreak{})
			}
		case *ast.Emphasis:
			f := format | doctree.FormatItalic
			if v.Level >= 2 {
				f = format | doctree.FormatBold
			}
			out = append(out, mdInlineWalk(v, src, f)...)
		case *ast.CodeSpan:
			out = append(out, &doctree.TextRun{Text: inlineText(v, src), Format: format | doctree.FormatCode})
		case *ast.Link:
			link := &doctree.Link{Href: string(v.Destination), Title: string(v.Title)}
			link.SetChildren(mdInlineWalk(v, src, format))
			out = append(out, link)
		case *ast.AutoLink:
			url := string(v.URL(src))
			link := &doctree.Link{Href: url}
			link.SetChildren([]doctree.Node{&doctree.TextRun{Text: string(v.Label(src)), Format: format}})
			out = append(out, link)
		default:
			if n.Type() == ast.TypeInline {
				out = append(out, mdInlineWalk(n, src, format)...)
			}
		}
	}
	return out
}

// inlineText concatenates the raw text segments directly under n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return sb.String()
}

func blockLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
