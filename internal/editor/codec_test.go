package editor

import (
	"strings"
	"testing"

	"pastegate/internal/doctree"
)

func TestSerializeRoundTrip(t *testing.T) {
	h := &doctree.Heading{Rank: 2, Format: doctree.FormatBold, Indent: 1, Direction: "rtl"}
	h.Append(&doctree.TextRun{Text: "Title"})

	link := &doctree.Link{Href: "https://example.com", Rel: "noopener", Target: "_blank"}
	link.Append(&doctree.TextRun{Text: "site"})
	p := &doctree.Paragraph{}
	p.Append(&doctree.TextRun{Text: "see "}, link, &doctree.LineBreak{})

	item := &doctree.ListItem{Indent: 1}
	item.Append(&doctree.TextRun{Text: "one", Format: doctree.FormatCode})
	list := &doctree.List{Ordered: true, Start: 3}
	list.Append(item)

	in := []doctree.Node{h, p, list, &doctree.CodeBlock{Language: "go", Text: "x := 1"}, &doctree.Rule{}}

	data, err := SerializeNodes(in)
	if err != nil {
		t.Fatalf("SerializeNodes: %v", err)
	}
	out, err := DeserializeNodes(data)
	if err != nil {
		t.Fatalf("DeserializeNodes: %v", err)
	}
	back, err := SerializeNodes(out)
	if err != nil {
		t.Fatalf("SerializeNodes(round trip): %v", err)
	}
	if string(back) != string(data) {
		t.Errorf("round trip diverged:\n in %s\nout %s", data, back)
	}
}

func TestDeserializeNodes_ContainerShapes(t *testing.T) {
	cases := map[string]string{
		"root envelope": `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`,
		"clipboard":     `{"clipboard":{"nodes":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`,
		"bare nodes":    `{"nodes":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}`,
		"direct array":  `[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]`,
		"nested state":  `{"editorState":"{\"root\":{\"children\":[{\"type\":\"paragraph\",\"children\":[{\"type\":\"text\",\"text\":\"hi\"}]}]}}"}`,
	}
	for name, payload := range cases {
		nodes, err := DeserializeNodes([]byte(payload))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(nodes) != 1 {
			t.Errorf("%s: decoded %d nodes, want 1", name, len(nodes))
			continue
		}
		if got := doctree.Text(nodes[0]); got != "hi" {
			t.Errorf("%s: text = %q, want %q", name, got, "hi")
		}
	}
}

func TestDeserializeNodes_UnknownType(t *testing.T) {
	_, err := DeserializeNodes([]byte(`[{"type":"widget"}]`))
	if err == nil || !strings.Contains(err.Error(), "widget") {
		t.Fatalf("err = %v, want unknown-type error naming the type", err)
	}
}

func TestDeserializeNodes_WellFormedButUnusable(t *testing.T) {
	nodes, err := DeserializeNodes([]byte(`{"version":1}`))
	if err != nil {
		t.Fatalf("err = %v, want nil for unrecognized but valid object", err)
	}
	if len(nodes) != 0 {
		t.Errorf("decoded %d nodes from unusable payload", len(nodes))
	}
}

func TestDeserializeNodes_Malformed(t *testing.T) {
	if _, err := DeserializeNodes([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
