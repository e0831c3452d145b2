package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"pastegate/internal/docstore"
	"pastegate/internal/importer"
)

// Worker processes a single import job: parse the file into an ingestion
// event, then hand the event to the target document's dispatcher. The
// dispatcher inserts in one transaction, so a completed job is exactly one
// undo step on the document.
type Worker struct {
	docs *docstore.Store
	log  *slog.Logger
}

func NewWorker(docs *docstore.Store, log *slog.Logger) *Worker {
	return &Worker{docs: docs, log: log}
}

// Process runs the import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	job.SetStatus(StatusImporting, "importing")
	imp, err := importer.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "importing")
		return
	}

	ev, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "importing")
		return
	}

	job.SetStatus(StatusInserting, "inserting")
	doc, err := w.docs.Get(job.DocID)
	if err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "inserting")
		return
	}

	if !doc.Dispatcher.HandlePaste(ev) {
		// Rejection is not an error: the file produced nothing the
		// document could take (empty content, read-only surface).
		job.AddError("content rejected by dispatcher")
		job.SetStatus(StatusRejected, "inserting")
		return
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("import completed", "filename", job.Filename)
}
