package api

import (
	"encoding/json"
	"net/http"

	"pastegate/internal/paste"
)

// handleIngestStats aggregates dispatcher counters across all documents.
func (s *Server) handleIngestStats(w http.ResponseWriter, r *http.Request) {
	var total paste.StatsSnapshot
	perDoc := make(map[string]paste.StatsSnapshot)
	for _, doc := range s.docs.List() {
		snap := doc.Dispatcher.Stats().Snapshot()
		perDoc[doc.ID] = snap
		total.NativeAccepted += snap.NativeAccepted
		total.MarkupAccepted += snap.MarkupAccepted
		total.PlaintextAccepted += snap.PlaintextAccepted
		total.OversizeSkips += snap.OversizeSkips
		total.BudgetSkips += snap.BudgetSkips
		total.Rejected += snap.Rejected
		total.Failures += snap.Failures
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":        total,
		"per_document": perDoc,
		"queue_depth":  s.orchestrator.QueueDepth(),
	})
}
