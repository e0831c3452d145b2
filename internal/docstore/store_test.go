package docstore

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"pastegate/internal/doctree"
	"pastegate/internal/paste"
)

func newStore() *Store {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateGetDelete(t *testing.T) {
	s := newStore()
	doc := s.Create("d1", "Notes")
	if doc.Editor == nil || doc.Dispatcher == nil {
		t.Fatal("document missing editor or dispatcher")
	}

	got, err := s.Get("d1")
	if err != nil || got != doc {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Delete("d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("d1"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted document still retrievable")
	}
	if err := s.Delete("d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestCreate_WiresNormalization(t *testing.T) {
	s := newStore()
	doc := s.Create("d1", "Notes")
	defer s.Delete("d1")

	ev := paste.NewEvent().Set(paste.TypeHTML, "<h5>Deep</h5><ul><li>• item</li></ul>")
	if !doc.Dispatcher.HandlePaste(ev) {
		t.Fatal("HandlePaste = false, want true")
	}
	kids := doc.Editor.Document().Children()
	h, ok := kids[0].(*doctree.Heading)
	if !ok || h.Rank != 3 {
		t.Errorf("heading not capped: %#v", kids[0])
	}
	if got := doctree.Text(kids[1]); got != "item" {
		t.Errorf("list item = %q, want %q", got, "item")
	}
}

func TestDelete_ReleasesSurface(t *testing.T) {
	s := newStore()
	first := s.Create("d1", "Notes")
	if err := s.Delete("d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// A re-created document under the same ID gets a working dispatcher and
	// transforms of its own.
	doc := s.Create("d1", "Notes again")
	defer s.Delete("d1")
	if doc.Dispatcher == first.Dispatcher {
		t.Error("re-created document reuses the deleted dispatcher")
	}
	ev := paste.NewEvent().Set(paste.TypePlain, "fresh")
	if !doc.Dispatcher.HandlePaste(ev) {
		t.Error("re-created document rejects pastes")
	}
}

func TestList_OrderedByCreation(t *testing.T) {
	s := newStore()
	for _, id := range []string{"a", "b", "c"} {
		s.Create(id, id)
	}
	defer func() {
		for _, id := range []string{"a", "b", "c"} {
			s.Delete(id)
		}
	}()

	docs := s.List()
	if len(docs) != 3 {
		t.Fatalf("List returned %d docs, want 3", len(docs))
	}
	for i := 1; i < len(docs); i++ {
		if docs[i].CreatedAt.Before(docs[i-1].CreatedAt) {
			t.Fatal("List not ordered by creation time")
		}
	}
}
