// Package sanitize strips an untrusted markup fragment down to an
// allow-listed tag and attribute surface and neutralizes unsafe URL
// references. Disallowed dangerous containers are removed with their entire
// subtree so content cannot be smuggled through them; other unknown tags are
// unwrapped, keeping their children.
package sanitize

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags is the block/inline surface that survives sanitization.
var allowedTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"blockquote": true, "pre": true, "code": true,
	"b": true, "strong": true, "i": true, "em": true,
	"a": true, "br": true,
}

// droppedTags are removed along with their whole subtree, not unwrapped.
var droppedTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "frame": true, "frameset": true, "object": true, "embed": true, "applet": true,
	"form": true, "input": true, "button": true, "select": true, "textarea": true, "option": true,
	"svg": true, "math": true,
	"head": true, "meta": true, "link": true, "title": true, "base": true,
}

// allowedSchemes gates scheme-qualified hyperlink references. References
// with no scheme (fragments, root and relative paths) always pass.
var allowedSchemes = map[string]bool{
	"http": true, "https": true, "mailto": true,
}

// Forced link safety annotations, overwriting whatever the input carried.
const (
	forcedRel    = "noopener noreferrer nofollow"
	forcedTarget = "_blank"
)

// Sanitize cleans an untrusted markup fragment. On any internal failure it
// fails safe by returning an empty string rather than propagating raw input.
func Sanitize(raw string) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	nodes, err := parseFragment(raw)
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		writeClean(&buf, n)
	}
	return buf.String()
}

func parseFragment(raw string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(raw), ctx)
}

func writeClean(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if droppedTags[tag] {
			return
		}
		if !allowedTags[tag] {
			// Unknown but not dangerous: unwrap, keep children.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeClean(buf, c)
			}
			return
		}

		attrs := filterAttrs(tag, n.Attr)
		buf.WriteByte('<')
		buf.WriteString(tag)
		for _, a := range attrs {
			buf.WriteByte(' ')
			buf.WriteString(a.Key)
			buf.WriteString(`="`)
			buf.WriteString(html.EscapeString(a.Val))
			buf.WriteByte('"')
		}
		buf.WriteByte('>')
		if tag == "br" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeClean(buf, c)
		}
		buf.WriteString("</")
		buf.WriteString(tag)
		buf.WriteByte('>')

	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeClean(buf, c)
		}
	}
	// Comments and doctypes are dropped.
}

// filterAttrs applies the per-tag attribute allow-list. Only hyperlinks keep
// any attributes at all, and their rel and target are forced to the safe
// values regardless of what the scheme gate decided — link safety must never
// depend on content from the untrusted input.
func filterAttrs(tag string, attrs []html.Attribute) []html.Attribute {
	if tag != "a" {
		return nil
	}
	var out []html.Attribute
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		switch key {
		case "href":
			if safeRef(a.Val) {
				out = append(out, html.Attribute{Key: "href", Val: a.Val})
			}
		case "title":
			out = append(out, html.Attribute{Key: "title", Val: a.Val})
		}
	}
	out = append(out,
		html.Attribute{Key: "rel", Val: forcedRel},
		html.Attribute{Key: "target", Val: forcedTarget},
	)
	return out
}

// safeRef reports whether a hyperlink reference may be kept. Any reference
// that fails to parse, or carries a scheme outside the allow-list, loses the
// attribute entirely rather than being rewritten.
func safeRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	return allowedSchemes[strings.ToLower(u.Scheme)]
}

// StripTags reduces markup to its text content, used to derive the plaintext
// fallback when no plain-text representation was provided. Dangerous
// subtrees are discarded entirely; block boundaries become newlines.
func StripTags(raw string) string {
	nodes, err := parseFragment(raw)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, n := range nodes {
		writeStripped(&sb, n)
	}
	return strings.TrimSpace(sb.String())
}

var blockBoundary = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true, "tr": true, "table": true,
}

func writeStripped(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if droppedTags[tag] {
			return
		}
		if tag == "br" {
			sb.WriteByte('\n')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeStripped(sb, c)
		}
		if blockBoundary[tag] && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeStripped(sb, c)
		}
	}
}
