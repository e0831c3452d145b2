package importer

import (
	"fmt"
	"strings"
	"testing"

	"pastegate/internal/paste"
)

func TestForFile(t *testing.T) {
	cases := []struct {
		filename string
		want     any
	}{
		{"notes.txt", &TextImporter{}},
		{"README.md", &MarkdownImporter{}},
		{"README.markdown", &MarkdownImporter{}},
		{"data.CSV", &CSVImporter{}},
		{"page.html", &HTMLImporter{}},
		{"page.htm", &HTMLImporter{}},
		{"paper.pdf", &PDFImporter{}},
		{"report.docx", &DOCXImporter{}},
	}
	for _, tc := range cases {
		imp, err := ForFile(tc.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tc.filename, err)
			continue
		}
		if got, want := fmt.Sprintf("%T", imp), fmt.Sprintf("%T", tc.want); got != want {
			t.Errorf("ForFile(%q) = %s, want %s", tc.filename, got, want)
		}
	}
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}

	// Every advertised extension must resolve to an importer.
	for ext := range SupportedExtensions {
		if _, err := ForFile("upload" + ext); err != nil {
			t.Errorf("ForFile(%q): %v", "upload"+ext, err)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for file, want := range map[string]bool{
		"a.txt": true, "a.md": true, "a.markdown": true, "a.docx": true, "a.exe": false, "a": false,
	} {
		if got := IsSupportedExtension(file); got != want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", file, got, want)
		}
	}
}

func TestTextImporter(t *testing.T) {
	ev, err := (&TextImporter{}).Import(strings.NewReader("line one\r\nline two\n"), "a.txt")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	text, ok := ev.Get(paste.TypePlain)
	if !ok {
		t.Fatal("no plain representation")
	}
	if text != "line one\nline two" {
		t.Errorf("text = %q", text)
	}
	if _, ok := ev.Get(paste.TypeHTML); ok {
		t.Error("plain file produced a markup representation")
	}
}

func TestMarkdownImporter(t *testing.T) {
	src := "# Title\n\nBody with **bold**.\n"
	ev, err := (&MarkdownImporter{}).Import(strings.NewReader(src), "a.md")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	markup, ok := ev.Get(paste.TypeHTML)
	if !ok {
		t.Fatal("no markup representation")
	}
	if !strings.Contains(markup, "<h1>Title</h1>") || !strings.Contains(markup, "<strong>bold</strong>") {
		t.Errorf("markup = %q", markup)
	}
	if plain, _ := ev.Get(paste.TypePlain); plain != src {
		t.Errorf("plain = %q, want original source", plain)
	}
}

func TestCSVImporter(t *testing.T) {
	src := "name,age\nAda,36\nAlan,41\n"
	ev, err := (&CSVImporter{}).Import(strings.NewReader(src), "a.csv")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	text, _ := ev.Get(paste.TypePlain)
	want := "name: Ada, age: 36\nname: Alan, age: 41"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestCSVImporter_EmptyFile(t *testing.T) {
	ev, err := (&CSVImporter{}).Import(strings.NewReader(""), "a.csv")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !ev.Empty() {
		t.Error("expected empty event for empty csv")
	}
}

func TestHTMLImporter_PrefersMainContainer(t *testing.T) {
	page := `<html><head><title>t</title></head><body>
		<nav>menu</nav>
		<main><h1>Story</h1><p>content</p><script>track()</script></main>
		<footer>legal</footer>
	</body></html>`
	ev, err := (&HTMLImporter{}).Import(strings.NewReader(page), "a.html")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	markup, _ := ev.Get(paste.TypeHTML)
	if !strings.Contains(markup, "Story") || !strings.Contains(markup, "content") {
		t.Errorf("markup missing main content: %q", markup)
	}
	for _, noise := range []string{"menu", "legal", "track()"} {
		if strings.Contains(markup, noise) {
			t.Errorf("markup contains noise %q: %q", noise, markup)
		}
	}
	plain, _ := ev.Get(paste.TypePlain)
	if !strings.Contains(plain, "Story") || strings.Contains(plain, "menu") {
		t.Errorf("plain = %q", plain)
	}
}

func TestHTMLImporter_FallsBackToBody(t *testing.T) {
	ev, err := (&HTMLImporter{}).Import(strings.NewReader("<p>bare</p>"), "a.html")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	markup, _ := ev.Get(paste.TypeHTML)
	if !strings.Contains(markup, "bare") {
		t.Errorf("markup = %q", markup)
	}
}
