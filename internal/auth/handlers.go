package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HandleLogin handles POST /api/auth/login
func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := s.Login(req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrLoginDisabled) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(session); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode session response")
	}
}

// HandleLogout handles POST /api/auth/logout
func (s *Service) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s.Logout(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}
