package editor

import (
	"encoding/json"
	"fmt"

	"pastegate/internal/doctree"
)

// Native serialization of the document tree. The wire shape is a typed node
// object; the root envelope is {"root":{"children":[...]}}. Deserialization
// additionally probes the container shapes produced by clipboard copies and
// embedded editor state.

type jsonNode struct {
	Type      string     `json:"type"`
	Text      string     `json:"text,omitempty"`
	Format    uint8      `json:"format,omitempty"`
	Rank      int        `json:"rank,omitempty"`
	Indent    int        `json:"indent,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Ordered   bool       `json:"ordered,omitempty"`
	Start     int        `json:"start,omitempty"`
	Language  string     `json:"language,omitempty"`
	Href      string     `json:"href,omitempty"`
	Title     string     `json:"title,omitempty"`
	Rel       string     `json:"rel,omitempty"`
	Target    string     `json:"target,omitempty"`
	Children  []jsonNode `json:"children,omitempty"`
}

// Serialize encodes the editor's document as native JSON. It holds the
// editor's lock so the encoding never observes a half-committed tree.
func (ed *Editor) Serialize() ([]byte, error) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return SerializeNodes(ed.doc.Children())
}

// SerializeNodes encodes a node list under the root envelope.
func SerializeNodes(nodes []doctree.Node) ([]byte, error) {
	kids := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		kids = append(kids, encodeNode(n))
	}
	return json.Marshal(map[string]any{
		"root": map[string]any{"children": kids},
	})
}

func encodeNode(n doctree.Node) jsonNode {
	out := jsonNode{Type: n.Kind().String()}
	switch v := n.(type) {
	case *doctree.TextRun:
		out.Text = v.Text
		out.Format = uint8(v.Format)
	case *doctree.Heading:
		out.Rank = v.Rank
		out.Format = uint8(v.Format)
		out.Indent = v.Indent
		out.Direction = v.Direction
	case *doctree.List:
		out.Ordered = v.Ordered
		out.Start = v.Start
	case *doctree.ListItem:
		out.Indent = v.Indent
	case *doctree.CodeBlock:
		out.Language = v.Language
		out.Text = v.Text
	case *doctree.Link:
		out.Href = v.Href
		out.Title = v.Title
		out.Rel = v.Rel
		out.Target = v.Target
	}
	if c, ok := n.(doctree.Container); ok {
		for _, k := range c.Children() {
			out.Children = append(out.Children, encodeNode(k))
		}
	}
	return out
}

// envelope covers the known container shapes a native payload may arrive in:
// wrapped under root, wrapped under a clipboard object, a bare node list, or
// a nested serialized state carried as a JSON string.
type envelope struct {
	Root *struct {
		Children []jsonNode `json:"children"`
	} `json:"root"`
	Clipboard *struct {
		Nodes []jsonNode `json:"nodes"`
	} `json:"clipboard"`
	Nodes       []jsonNode `json:"nodes"`
	EditorState string     `json:"editorState"`
}

// DeserializeNodes decodes a native payload into document nodes, probing
// each known container shape in turn. An empty node list with a nil error
// means the payload was well-formed but carried nothing usable.
func DeserializeNodes(data []byte) ([]doctree.Node, error) {
	// Direct node array.
	var direct []jsonNode
	if err := json.Unmarshal(data, &direct); err == nil {
		return decodeNodes(direct)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode native payload: %w", err)
	}
	switch {
	case env.Root != nil:
		return decodeNodes(env.Root.Children)
	case env.Clipboard != nil:
		return decodeNodes(env.Clipboard.Nodes)
	case env.Nodes != nil:
		return decodeNodes(env.Nodes)
	case env.EditorState != "":
		return DeserializeNodes([]byte(env.EditorState))
	}
	return nil, nil
}

func decodeNodes(in []jsonNode) ([]doctree.Node, error) {
	var out []doctree.Node
	for _, jn := range in {
		n, err := decodeNode(jn)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeNode(jn jsonNode) (doctree.Node, error) {
	var n doctree.Node
	switch jn.Type {
	case "paragraph":
		n = &doctree.Paragraph{}
	case "heading":
		n = &doctree.Heading{
			Rank:      jn.Rank,
			Format:    doctree.Format(jn.Format),
			Indent:    jn.Indent,
			Direction: jn.Direction,
		}
	case "list":
		n = &doctree.List{Ordered: jn.Ordered, Start: jn.Start}
	case "listitem":
		n = &doctree.ListItem{Indent: jn.Indent}
	case "quote":
		n = &doctree.Quote{}
	case "code":
		n = &doctree.CodeBlock{Language: jn.Language, Text: jn.Text}
	case "rule":
		n = &doctree.Rule{}
	case "text":
		n = &doctree.TextRun{Text: jn.Text, Format: doctree.Format(jn.Format)}
	case "linebreak":
		n = &doctree.LineBreak{}
	case "link":
		n = &doctree.Link{Href: jn.Href, Title: jn.Title, Rel: jn.Rel, Target: jn.Target}
	default:
		return nil, fmt.Errorf("unknown node type %q", jn.Type)
	}
	if c, ok := n.(doctree.Container); ok && len(jn.Children) > 0 {
		kids, err := decodeNodes(jn.Children)
		if err != nil {
			return nil, err
		}
		c.SetChildren(kids)
	}
	return n, nil
}
