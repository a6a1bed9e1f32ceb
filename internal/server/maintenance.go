package server

import (
	"net/http"

	"github.com/aristath/watchboard/internal/auth"
)

// maintenanceGate blocks the public dashboard API while maintenance mode is
// on. Admin sessions pass through so the panel that turns the mode back off
// stays reachable.
func (s *Server) maintenanceGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.settingsService.MaintenanceMode() {
			if session, ok := s.authService.Validate(bearerToken(r)); !ok || session.Role != auth.RoleAdmin {
				s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error": "The dashboard is down for maintenance",
				})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
