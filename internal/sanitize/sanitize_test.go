package sanitize

import (
	"strings"
	"testing"
)

func TestSanitize_ScriptSchemeLosesHref(t *testing.T) {
	out := Sanitize(`<a href="javascript:alert(1)">x</a>`)
	if strings.Contains(out, "href") {
		t.Errorf("expected href to be removed entirely, got %q", out)
	}
	if strings.Contains(out, "javascript:") {
		t.Errorf("expected no script scheme in output, got %q", out)
	}
	// Forced safety annotations are applied even when the scheme gate
	// rejected the reference.
	if !strings.Contains(out, `rel="noopener noreferrer nofollow"`) {
		t.Errorf("expected forced rel annotation, got %q", out)
	}
	if !strings.Contains(out, `target="_blank"`) {
		t.Errorf("expected forced target, got %q", out)
	}
}

func TestSanitize_DataSchemeLosesHref(t *testing.T) {
	out := Sanitize(`<a href="data:text/html;base64,AAAA">x</a>`)
	if strings.Contains(out, "href") {
		t.Errorf("expected href removed for data scheme, got %q", out)
	}
}

func TestSanitize_SafeSchemesKept(t *testing.T) {
	cases := []string{
		"https://example.com/a",
		"http://example.com",
		"mailto:user@example.com",
		"#section-2",
		"/docs/page",
		"relative/path",
	}
	for _, ref := range cases {
		out := Sanitize(`<a href="` + ref + `">x</a>`)
		if !strings.Contains(out, `href="`+ref+`"`) {
			t.Errorf("expected href %q to survive, got %q", ref, out)
		}
	}
}

func TestSanitize_ForcedAnnotationsOverwriteInput(t *testing.T) {
	out := Sanitize(`<a href="https://example.com" rel="opener" target="_self">x</a>`)
	if strings.Contains(out, "opener\"") && !strings.Contains(out, "noopener") {
		t.Errorf("expected input rel to be overwritten, got %q", out)
	}
	if !strings.Contains(out, `rel="noopener noreferrer nofollow"`) {
		t.Errorf("expected forced rel, got %q", out)
	}
	if strings.Contains(out, `target="_self"`) {
		t.Errorf("expected input target to be overwritten, got %q", out)
	}
}

func TestSanitize_ScriptSubtreeRemoved(t *testing.T) {
	cases := []string{
		`<script>steal()</script>`,
		`<div><script>steal()</script></div>`,
		`<p>ok<span><script>steal()</script></span></p>`,
		`<ul><li><blockquote><script>steal()</script></blockquote></li></ul>`,
	}
	for _, in := range cases {
		out := Sanitize(in)
		if strings.Contains(out, "script") || strings.Contains(out, "steal") {
			t.Errorf("Sanitize(%q): script content leaked: %q", in, out)
		}
	}
}

func TestSanitize_DangerousContainersRemovedWithSubtree(t *testing.T) {
	out := Sanitize(`<p>before</p><iframe><p>smuggled</p></iframe><p>after</p>`)
	if strings.Contains(out, "smuggled") {
		t.Errorf("expected iframe subtree to be removed, got %q", out)
	}
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("expected surrounding content to survive, got %q", out)
	}
}

func TestSanitize_UnknownTagsUnwrapped(t *testing.T) {
	out := Sanitize(`<span data-x="1">hello</span> <article>world</article>`)
	if strings.Contains(out, "span") || strings.Contains(out, "article") || strings.Contains(out, "data-x") {
		t.Errorf("expected unknown tags stripped, got %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("expected children of unknown tags kept, got %q", out)
	}
}

func TestSanitize_DisallowedAttributesStripped(t *testing.T) {
	out := Sanitize(`<p style="color:red" id="x" class="y" onclick="evil()" data-a="1">hi</p>`)
	if out != "<p>hi</p>" {
		t.Errorf("expected bare paragraph, got %q", out)
	}
}

func TestSanitize_AllowedStructureSurvives(t *testing.T) {
	in := `<h2>Title</h2><ul><li><strong>bold</strong> text</li></ul><pre><code>x = 1</code></pre>`
	out := Sanitize(in)
	for _, want := range []string{"<h2>", "<ul>", "<li>", "<strong>", "<pre>", "<code>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestSanitize_EmptyAndTextOnly(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}
	if got := Sanitize("just text"); got != "just text" {
		t.Errorf("expected text to pass through, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags(`<h1>Title</h1><p>one <b>two</b></p><script>gone()</script>`)
	if strings.Contains(got, "<") || strings.Contains(got, "gone") {
		t.Errorf("expected tag-free text without script content, got %q", got)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "one two") {
		t.Errorf("expected text content preserved, got %q", got)
	}
}
