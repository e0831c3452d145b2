package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"pastegate/internal/config"
	"pastegate/internal/docstore"
	"pastegate/internal/doctree"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewULID(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = NewULID()
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if len(id) != 26 {
			t.Fatalf("len(%q) = %d, want 26", id, len(id))
		}
		for _, c := range id {
			if !strings.ContainsRune(crockford, c) {
				t.Fatalf("%q contains non-Crockford digit %q", id, c)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	// IDs generated later must not sort earlier.
	a := NewULID()
	time.Sleep(2 * time.Millisecond)
	b := NewULID()
	if a >= b {
		t.Errorf("later id %q does not sort after %q", b, a)
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	job := &Job{ID: "j1", UpdatedAt: time.Now().Add(-time.Second)}
	fresh := &Job{ID: "j2", UpdatedAt: time.Now()}
	store.Put(job)
	store.Put(fresh)

	store.Cleanup()
	if store.Get("j1") != nil {
		t.Error("expired job survived cleanup")
	}
	if store.Get("j2") == nil {
		t.Error("fresh job evicted")
	}
}

func TestJobSnapshot(t *testing.T) {
	job := &Job{ID: "j", DocID: "d", Filename: "f.md"}
	job.SetStatus(StatusImporting, "importing")
	job.AddError("first")

	snap := job.Snapshot()
	if snap.Status != StatusImporting || snap.Phase != "importing" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "first" {
		t.Errorf("Errors = %v", snap.Errors)
	}

	empty := (&Job{ID: "e"}).Snapshot()
	if empty.Errors == nil {
		t.Error("Errors must serialize as [], not null")
	}
}

func TestWorker_Process(t *testing.T) {
	docs := docstore.New(discardLogger())
	doc := docs.Create("doc1", "Test")
	defer docs.Delete("doc1")

	job := &Job{ID: "j1", DocID: "doc1", Filename: "notes.md", Status: StatusQueued}
	job.SetFileData([]byte("# Hello\n\nBody text.\n"))

	w := NewWorker(docs, discardLogger())
	w.Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusCompleted {
		t.Fatalf("Status = %s, want %s", got, StatusCompleted)
	}
	kids := doc.Editor.Document().Children()
	if len(kids) != 2 {
		t.Fatalf("document has %d blocks, want 2", len(kids))
	}
	if h, ok := kids[0].(*doctree.Heading); !ok || doctree.Text(h) != "Hello" {
		t.Errorf("first block = %#v", kids[0])
	}
	if doc.Editor.UndoDepth() != 1 {
		t.Errorf("UndoDepth = %d, want 1 per completed import", doc.Editor.UndoDepth())
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	docs := docstore.New(discardLogger())
	docs.Create("doc1", "Test")
	defer docs.Delete("doc1")

	job := &Job{ID: "j1", DocID: "doc1", Filename: "evil.exe"}
	NewWorker(docs, discardLogger()).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || len(snap.Errors) == 0 {
		t.Errorf("snapshot = %+v, want failed with error", snap)
	}
}

func TestWorker_UnknownDocument(t *testing.T) {
	docs := docstore.New(discardLogger())
	job := &Job{ID: "j1", DocID: "missing", Filename: "a.txt"}
	job.SetFileData([]byte("text"))
	NewWorker(docs, discardLogger()).Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("Status = %s, want %s", got, StatusFailed)
	}
}

func TestWorker_RejectionIsNotFailure(t *testing.T) {
	docs := docstore.New(discardLogger())
	doc := docs.Create("doc1", "Test")
	defer docs.Delete("doc1")
	doc.Editor.SetEditable(false)

	job := &Job{ID: "j1", DocID: "doc1", Filename: "a.txt"}
	job.SetFileData([]byte("some text"))
	NewWorker(docs, discardLogger()).Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusRejected {
		t.Errorf("Status = %s, want %s", got, StatusRejected)
	}
}

func TestOrchestrator_SubmitAndDrain(t *testing.T) {
	docs := docstore.New(discardLogger())
	doc := docs.Create("doc1", "Test")
	defer docs.Delete("doc1")

	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 8, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, docs, discardLogger())
	o.Start(context.Background())

	job := &Job{ID: NewULID(), DocID: "doc1", Filename: "a.txt", Status: StatusQueued}
	job.SetFileData([]byte("imported line"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if s := job.Snapshot().Status; s == StatusCompleted {
			break
		} else if s == StatusFailed || s == StatusRejected {
			t.Fatalf("job ended %s: %v", s, job.Snapshot().Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in %s", job.Snapshot().Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	o.Stop()

	if got := strings.TrimSpace(doctree.Text(doc.Editor.Document())); got != "imported line" {
		t.Errorf("document text = %q", got)
	}
	if o.GetJob(job.ID) != job {
		t.Error("GetJob did not return the submitted job")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	docs := docstore.New(discardLogger())
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, docs, discardLogger())
	// Workers never started: the queue fills immediately.

	first := &Job{ID: "a", DocID: "d", Filename: "a.txt"}
	if err := o.Submit(first); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second := &Job{ID: "b", DocID: "d", Filename: "b.txt"}
	if err := o.Submit(second); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Submit = %v, want ErrQueueFull", err)
	}
	if got := second.Snapshot().Status; got != StatusFailed {
		t.Errorf("Status = %s, want %s", got, StatusFailed)
	}
}
