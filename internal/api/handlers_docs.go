package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pastegate/internal/convert"
	"pastegate/internal/docstore"
	"pastegate/internal/editor"
	"pastegate/internal/pipeline"
)

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc := s.docs.Create(pipeline.NewULID(), req.Title, s.dispatchOptions()...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": doc.ID,
		"title":  doc.Title,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	type docInfo struct {
		ID        string    `json:"doc_id"`
		Title     string    `json:"title"`
		Blocks    int       `json:"blocks"`
		CreatedAt time.Time `json:"created_at"`
	}
	var out []docInfo
	for _, doc := range s.docs.List() {
		out = append(out, docInfo{
			ID:        doc.ID,
			Title:     doc.Title,
			Blocks:    len(doc.Editor.Snapshot().Children()),
			CreatedAt: doc.CreatedAt,
		})
	}
	if out == nil {
		out = []docInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": out})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	// Render from a snapshot so a concurrent paste cannot mutate the tree
	// mid-walk.
	blocks := doc.Editor.Snapshot().Children()
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err := editor.SerializeNodes(blocks)
		if err != nil {
			jsonError(w, "serialize failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(convert.HTMLFromNodes(blocks)))
	case "markdown":
		md, err := convert.MarkdownFromNodes(blocks)
		if err != nil {
			jsonError(w, "markdown render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(convert.PlainText(blocks)))
	default:
		jsonError(w, "unknown format: "+format, http.StatusBadRequest)
	}
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := s.docs.Delete(chi.URLParam(r, "docID"))
	if errors.Is(err, docstore.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
