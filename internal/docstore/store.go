// Package docstore is the in-memory registry of live documents. Each
// document couples an editor surface with its attached ingestion dispatcher
// and normalization transforms; deleting a document releases every surface
// registration so a rebuilt document can attach cleanly.
package docstore

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"pastegate/internal/editor"
	"pastegate/internal/normalize"
	"pastegate/internal/paste"
)

// ErrNotFound is returned when a document ID is unknown.
var ErrNotFound = errors.New("document not found")

// Document is a live editing surface plus metadata.
type Document struct {
	ID         string
	Title      string
	Editor     *editor.Editor
	Dispatcher *paste.Dispatcher
	CreatedAt  time.Time

	unregister []func()
}

// Store holds documents by ID.
type Store struct {
	mu   sync.Mutex
	docs map[string]*Document
	log  *slog.Logger
}

func New(log *slog.Logger) *Store {
	return &Store{
		docs: make(map[string]*Document),
		log:  log,
	}
}

// Create builds a document: a fresh editable surface with the heading
// ceiling and list-prefix transforms registered and a dispatcher attached.
func (s *Store) Create(id, title string, opts ...paste.Option) *Document {
	ed := editor.New()
	doc := &Document{
		ID:        id,
		Title:     title,
		Editor:    ed,
		CreatedAt: time.Now(),
	}
	doc.unregister = append(doc.unregister,
		normalize.RegisterHeadingCeiling(ed),
		normalize.RegisterListItemCleanup(ed),
	)
	doc.Dispatcher = paste.Attach(ed, s.log.With("doc_id", id), opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = doc
	return doc
}

// Get returns a document by ID.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns all documents ordered by creation time.
func (s *Store) List() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Delete removes a document and releases its surface registrations.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	doc.Dispatcher.Detach()
	for _, unreg := range doc.unregister {
		unreg()
	}
	editor.ReleaseSurface(doc.Editor)
	return nil
}
