// Package convert translates between document-tree nodes and external
// representations: markup (HTML), markdown, and plain text.
package convert

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pastegate/internal/doctree"
)

// NodesFromHTML parses a markup fragment into block nodes. Inline content
// outside any block wrapper is collected into implicit paragraphs.
func NodesFromHTML(markup string) ([]doctree.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	frag, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return blocksFrom(frag), nil
}

func blocksFrom(ns []*html.Node) []doctree.Node {
	var out []doctree.Node
	var pending []doctree.Node

	flush := func() {
		if !hasInlineContent(pending) {
			pending = nil
			return
		}
		p := &doctree.Paragraph{}
		p.SetChildren(pending)
		out = append(out, p)
		pending = nil
	}

	for _, n := range ns {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
			pending = append(pending, &doctree.TextRun{Text: n.Data})

		case html.ElementNode:
			tag := strings.ToLower(n.Data)
			switch tag {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
				h := &doctree.Heading{Rank: int(tag[1] - '0')}
				h.SetChildren(inlineFrom(n, 0))
				out = append(out, h)
			case "p":
				flush()
				p := &doctree.Paragraph{}
				p.SetChildren(inlineFrom(n, 0))
				out = append(out, p)
			case "ul", "ol":
				flush()
				out = append(out, listFrom(n, tag == "ol"))
			case "blockquote":
				flush()
				q := &doctree.Quote{}
				q.SetChildren(blocksFrom(childSlice(n)))
				out = append(out, q)
			case "pre":
				flush()
				out = append(out, codeBlockFrom(n))
			case "hr":
				flush()
				out = append(out, &doctree.Rule{})
			case "br":
				pending = append(pending, &doctree.LineBreak{})
			case "div", "section", "article", "main", "body":
				flush()
				out = append(out, blocksFrom(childSlice(n))...)
			default:
				pending = append(pending, inlineOne(n, 0)...)
			}
		}
	}
	flush()
	return out
}

func childSlice(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func hasInlineContent(nodes []doctree.Node) bool {
	for _, n := range nodes {
		if strings.TrimSpace(doctree.Text(n)) != "" {
			return true
		}
	}
	return false
}

// inlineFrom converts an element's children to inline nodes, threading the
// accumulated format bitmask through nested emphasis containers.
func inlineFrom(n *html.Node, format doctree.Format) []doctree.Node {
	var out []doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inlineOne(c, format)...)
	}
	return out
}

func inlineOne(n *html.Node, format doctree.Format) []doctree.Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []doctree.Node{&doctree.TextRun{Text: n.Data, Format: format}}
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "b", "strong":
			return inlineFrom(n, format|doctree.FormatBold)
		case "i", "em":
			return inlineFrom(n, format|doctree.FormatItalic)
		case "code":
			return inlineFrom(n, format|doctree.FormatCode)
		case "u":
			return inlineFrom(n, format|doctree.FormatUnderline)
		case "s", "del", "strike":
			return inlineFrom(n, format|doctree.FormatStrike)
		case "br":
			return []doctree.Node{&doctree.LineBreak{}}
		case "a":
			link := &doctree.Link{
				Href:   attr(n, "href"),
				Title:  attr(n, "title"),
				Rel:    attr(n, "rel"),
				Target: attr(n, "target"),
			}
			link.SetChildren(inlineFrom(n, format))
			return []doctree.Node{link}
		default:
			return inlineFrom(n, format)
		}
	}
	return nil
}

func listFrom(n *html.Node, ordered bool) *doctree.List {
	list := &doctree.List{Ordered: ordered}
	if s := attr(n, "start"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			list.Start = v
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || strings.ToLower(c.Data) != "li" {
			continue
		}
		item := &doctree.ListItem{}
		var kids []doctree.Node
		for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
			if lc.Type == html.ElementNode {
				switch strings.ToLower(lc.Data) {
				case "ul", "ol":
					kids = append(kids, listFrom(lc, strings.ToLower(lc.Data) == "ol"))
					continue
				case "p":
					kids = append(kids, inlineFrom(lc, 0)...)
					continue
				}
			}
			kids = append(kids, inlineOne(lc, 0)...)
		}
		item.SetChildren(kids)
		list.Append(item)
	}
	return list
}

func codeBlockFrom(n *html.Node) *doctree.CodeBlock {
	cb := &doctree.CodeBlock{}
	// <pre><code class="language-x"> carries the language.
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.ToLower(c.Data) == "code" {
			for _, cls := range strings.Fields(attr(c, "class")) {
				if lang, ok := strings.CutPrefix(cls, "language-"); ok {
					cb.Language = lang
				}
			}
		}
	}
	cb.Text = strings.TrimSuffix(textContent(n), "\n")
	return cb
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// HTMLFromNodes renders block nodes back to markup.
func HTMLFromNodes(nodes []doctree.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		writeBlock(&buf, n)
	}
	return buf.String()
}

func writeBlock(buf *bytes.Buffer, n doctree.Node) {
	switch v := n.(type) {
	case *doctree.Heading:
		rank := v.Rank
		if rank < 1 {
			rank = 1
		}
		if rank > 6 {
			rank = 6
		}
		fmt.Fprintf(buf, "<h%d>", rank)
		writeInlines(buf, v.Children())
		fmt.Fprintf(buf, "</h%d>", rank)
	case *doctree.Paragraph:
		buf.WriteString("<p>")
		writeInlines(buf, v.Children())
		buf.WriteString("</p>")
	case *doctree.List:
		tag := "ul"
		if v.Ordered {
			tag = "ol"
		}
		buf.WriteByte('<')
		buf.WriteString(tag)
		if v.Ordered && v.Start > 1 {
			fmt.Fprintf(buf, ` start="%d"`, v.Start)
		}
		buf.WriteByte('>')
		for _, k := range v.Children() {
			writeBlock(buf, k)
		}
		buf.WriteString("</" + tag + ">")
	case *doctree.ListItem:
		buf.WriteString("<li>")
		for _, k := range v.Children() {
			if doctree.IsBlock(k) {
				writeBlock(buf, k)
			} else {
				writeInlines(buf, []doctree.Node{k})
			}
		}
		buf.WriteString("</li>")
	case *doctree.Quote:
		buf.WriteString("<blockquote>")
		for _, k := range v.Children() {
			writeBlock(buf, k)
		}
		buf.WriteString("</blockquote>")
	case *doctree.CodeBlock:
		buf.WriteString("<pre><code")
		if v.Language != "" {
			fmt.Fprintf(buf, ` class="language-%s"`, html.EscapeString(v.Language))
		}
		buf.WriteByte('>')
		buf.WriteString(html.EscapeString(v.Text))
		buf.WriteString("</code></pre>")
	case *doctree.Rule:
		buf.WriteString("<hr>")
	default:
		writeInlines(buf, []doctree.Node{n})
	}
}

func writeInlines(buf *bytes.Buffer, nodes []doctree.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *doctree.TextRun:
			open, close := formatTags(v.Format)
			buf.WriteString(open)
			buf.WriteString(html.EscapeString(v.Text))
			buf.WriteString(close)
		case *doctree.LineBreak:
			buf.WriteString("<br>")
		case *doctree.Link:
			buf.WriteString("<a")
			writeAttr(buf, "href", v.Href)
			writeAttr(buf, "title", v.Title)
			writeAttr(buf, "rel", v.Rel)
			writeAttr(buf, "target", v.Target)
			buf.WriteByte('>')
			writeInlines(buf, v.Children())
			buf.WriteString("</a>")
		default:
			if c, ok := n.(doctree.Container); ok {
				writeInlines(buf, c.Children())
			}
		}
	}
}

func writeAttr(buf *bytes.Buffer, key, val string) {
	if val == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, key, html.EscapeString(val))
}

// formatTags returns the open and close wrappers for a format bitmask,
// innermost-last so the close sequence mirrors the open sequence.
func formatTags(f doctree.Format) (string, string) {
	var open, close strings.Builder
	wrap := func(tag string) {
		open.WriteString("<" + tag + ">")
		s := close.String()
		close.Reset()
		close.WriteString("</" + tag + ">" + s)
	}
	if f&doctree.FormatBold != 0 {
		wrap("strong")
	}
	if f&doctree.FormatItalic != 0 {
		wrap("em")
	}
	if f&doctree.FormatCode != 0 {
		wrap("code")
	}
	if f&doctree.FormatUnderline != 0 {
		wrap("u")
	}
	if f&doctree.FormatStrike != 0 {
		wrap("s")
	}
	return open.String(), close.String()
}

// PlainText flattens block nodes to plain text, one line per block.
func PlainText(nodes []doctree.Node) string {
	var parts []string
	for _, n := range nodes {
		if t := doctree.Text(n); strings.TrimSpace(t) != "" {
			parts = append(parts, strings.TrimSpace(t))
		}
	}
	return strings.Join(parts, "\n")
}
