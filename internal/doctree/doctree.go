// Package doctree defines the block and inline node model for a structured
// document: an ordered forest of block nodes (paragraph, heading, list,
// list item, quote, code, rule), each owning a sequence of inline nodes
// (text runs, line breaks, links).
package doctree

import "strings"

// Kind identifies a node type.
type Kind int

const (
	KindParagraph Kind = iota + 1
	KindHeading
	KindList
	KindListItem
	KindQuote
	KindCode
	KindRule
	KindText
	KindLineBreak
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindList:
		return "list"
	case KindListItem:
		return "listitem"
	case KindQuote:
		return "quote"
	case KindCode:
		return "code"
	case KindRule:
		return "rule"
	case KindText:
		return "text"
	case KindLineBreak:
		return "linebreak"
	case KindLink:
		return "link"
	}
	return "unknown"
}

// Format is a bitmask of inline text styles.
type Format uint8

const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatCode
	FormatUnderline
	FormatStrike
)

// Node is a block or inline node in the document tree.
type Node interface {
	Kind() Kind
	Clone() Node
}

// Container is a node that owns an ordered child sequence.
type Container interface {
	Node
	Children() []Node
	SetChildren([]Node)
}

// container holds ordered children; embedded by every container node.
type container struct {
	kids []Node
}

func (c *container) Children() []Node        { return c.kids }
func (c *container) SetChildren(kids []Node) { c.kids = kids }

// Append adds children to the end of the sequence.
func (c *container) Append(kids ...Node) { c.kids = append(c.kids, kids...) }

func (c *container) cloneKids() container {
	if c.kids == nil {
		return container{}
	}
	kids := make([]Node, len(c.kids))
	for i, k := range c.kids {
		kids[i] = k.Clone()
	}
	return container{kids: kids}
}

// Document is the root of a document tree.
type Document struct {
	container
}

func (d *Document) Kind() Kind  { return 0 }
func (d *Document) Clone() Node { return &Document{container: d.cloneKids()} }

// CloneDocument deep-copies a document, preserving child order.
func (d *Document) CloneDocument() *Document { return d.Clone().(*Document) }

// Paragraph is a block of inline content.
type Paragraph struct {
	container
}

func (p *Paragraph) Kind() Kind  { return KindParagraph }
func (p *Paragraph) Clone() Node { return &Paragraph{container: p.cloneKids()} }

// Heading is a ranked section title. Rank is unbounded at the source; the
// normalization transform caps it after every transaction settles.
type Heading struct {
	container
	Rank      int
	Format    Format
	Indent    int
	Direction string
}

func (h *Heading) Kind() Kind { return KindHeading }

func (h *Heading) Clone() Node {
	return &Heading{
		container: h.cloneKids(),
		Rank:      h.Rank,
		Format:    h.Format,
		Indent:    h.Indent,
		Direction: h.Direction,
	}
}

// List is an ordered or unordered list of list items.
type List struct {
	container
	Ordered bool
	Start   int
}

func (l *List) Kind() Kind  { return KindList }
func (l *List) Clone() Node { return &List{container: l.cloneKids(), Ordered: l.Ordered, Start: l.Start} }

// ListItem owns an inline sequence, and possibly a nested List.
type ListItem struct {
	container
	Indent int
}

func (li *ListItem) Kind() Kind  { return KindListItem }
func (li *ListItem) Clone() Node { return &ListItem{container: li.cloneKids(), Indent: li.Indent} }

// Quote is a block quotation.
type Quote struct {
	container
}

func (q *Quote) Kind() Kind  { return KindQuote }
func (q *Quote) Clone() Node { return &Quote{container: q.cloneKids()} }

// CodeBlock is a preformatted block. Content is raw text, not inline nodes.
type CodeBlock struct {
	Language string
	Text     string
}

func (cb *CodeBlock) Kind() Kind  { return KindCode }
func (cb *CodeBlock) Clone() Node { return &CodeBlock{Language: cb.Language, Text: cb.Text} }

// Rule is a horizontal rule.
type Rule struct{}

func (r *Rule) Kind() Kind  { return KindRule }
func (r *Rule) Clone() Node { return &Rule{} }

// TextRun is a run of text with a format bitmask.
type TextRun struct {
	Text   string
	Format Format
}

func (t *TextRun) Kind() Kind  { return KindText }
func (t *TextRun) Clone() Node { return &TextRun{Text: t.Text, Format: t.Format} }

// LineBreak is an explicit inline break.
type LineBreak struct{}

func (b *LineBreak) Kind() Kind  { return KindLineBreak }
func (b *LineBreak) Clone() Node { return &LineBreak{} }

// Link is an inline hyperlink owning inline children.
type Link struct {
	container
	Href   string
	Title  string
	Rel    string
	Target string
}

func (l *Link) Kind() Kind { return KindLink }

func (l *Link) Clone() Node {
	return &Link{
		container: l.cloneKids(),
		Href:      l.Href,
		Title:     l.Title,
		Rel:       l.Rel,
		Target:    l.Target,
	}
}

// DetachChildren removes and returns a container's children in order.
func DetachChildren(c Container) []Node {
	kids := c.Children()
	c.SetChildren(nil)
	return kids
}

// ReplaceChild swaps the child at index i of parent for repl, keeping position.
func ReplaceChild(parent Container, i int, repl Node) {
	kids := parent.Children()
	kids[i] = repl
	parent.SetChildren(kids)
}

// InsertChildren inserts nodes into parent at index i, shifting later children.
func InsertChildren(parent Container, i int, nodes ...Node) {
	kids := parent.Children()
	out := make([]Node, 0, len(kids)+len(nodes))
	out = append(out, kids[:i]...)
	out = append(out, nodes...)
	out = append(out, kids[i:]...)
	parent.SetChildren(out)
}

// Text flattens a node to its plain text content. Block boundaries and line
// breaks become newlines; code blocks contribute their raw text.
func Text(n Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *TextRun:
		sb.WriteString(v.Text)
	case *LineBreak:
		sb.WriteByte('\n')
	case *CodeBlock:
		sb.WriteString(v.Text)
	case Container:
		for i, k := range v.Children() {
			if i > 0 && IsBlock(k) {
				sb.WriteByte('\n')
			}
			writeText(sb, k)
		}
	}
}

// IsBlock reports whether n is a block-level node.
func IsBlock(n Node) bool {
	switch n.Kind() {
	case KindParagraph, KindHeading, KindList, KindListItem, KindQuote, KindCode, KindRule:
		return true
	}
	return false
}
