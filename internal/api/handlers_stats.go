package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleImportStats(w http.ResponseWriter, r *http.Request) {
	imp := s.orchestrator.Importer()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"window":      s.cfg.StatsWindow.String(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"phases":      imp.Stats().Snapshot(),
	})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	imp := s.orchestrator.Importer()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"levels":         imp.Hierarchy().Levels,
		"dedup_strategy": imp.Strategy(),
	})
}
