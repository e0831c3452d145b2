package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pastegate/internal/paste"
)

// pasteRequest mirrors an ingestion event: up to three alternative
// representations of the incoming content.
type pasteRequest struct {
	Native string `json:"native,omitempty"`
	HTML   string `json:"html,omitempty"`
	Plain  string `json:"plain,omitempty"`
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var req pasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ev := paste.NewEvent().
		Set(paste.TypeNative, req.Native).
		Set(paste.TypeHTML, req.HTML).
		Set(paste.TypePlain, req.Plain)

	accepted := doc.Dispatcher.HandlePaste(ev)

	w.Header().Set("Content-Type", "application/json")
	if !accepted {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(map[string]any{
		"accepted": accepted,
		"blocks":   len(doc.Editor.Snapshot().Children()),
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"undone": doc.Editor.Undo()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"redone": doc.Editor.Redo()})
}

// dispatchOptions carries the configured ingestion guards to each new
// document's dispatcher.
func (s *Server) dispatchOptions() []paste.Option {
	return []paste.Option{
		paste.WithMarkupCeiling(s.cfg.MarkupByteCeiling),
		paste.WithSanitizeBudget(s.cfg.SanitizeBudget),
	}
}
