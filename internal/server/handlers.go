package server

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/watchboard/internal/synth"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "watchboard",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handlePeriods handles GET /api/periods so the period selector doesn't
// hardcode the supported ranges.
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, synth.Periods())
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
