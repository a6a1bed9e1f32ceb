package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/watchboard/internal/modules/settings"
)

// handleGetSettings handles GET /api/admin/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := s.settingsService.All()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get settings")
		http.Error(w, "Failed to get settings", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, all)
}

// handleUpdateSetting handles PUT /api/admin/settings/{key}
func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.Error(w, "Key is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.settingsService.Set(key, req.Value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to update setting")
		http.Error(w, "Failed to update setting", http.StatusInternalServerError)
		return
	}

	// A provider or mode change makes every cached payload suspect.
	if key == settings.KeyQuoteAPIKey || key == settings.KeySimulatedOnly {
		s.marketService.InvalidateAll()
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleSetMaintenance handles PUT /api/admin/maintenance
func (s *Server) handleSetMaintenance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.settingsService.SetMaintenanceMode(req.On); err != nil {
		s.log.Error().Err(err).Msg("Failed to toggle maintenance mode")
		http.Error(w, "Failed to toggle maintenance mode", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"maintenance": req.On})
}

// handleSetSimulatedOnly handles PUT /api/admin/simulated.
// Toggling the mode drops every cached payload so stale live data does not
// survive into simulated mode (or the other way around).
func (s *Server) handleSetSimulatedOnly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.settingsService.SetSimulatedOnly(req.On); err != nil {
		s.log.Error().Err(err).Msg("Failed to toggle simulated-only mode")
		http.Error(w, "Failed to toggle simulated-only mode", http.StatusInternalServerError)
		return
	}

	s.marketService.InvalidateAll()

	s.writeJSON(w, http.StatusOK, map[string]bool{"simulatedOnly": req.On})
}

// handleSystemStatus handles GET /api/admin/system
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
		"goroutines":    runtime.NumGoroutine(),
		"cacheEntries":  s.marketService.CachedEntryCount(),
		"maintenance":   s.settingsService.MaintenanceMode(),
		"simulatedOnly": s.settingsService.SimulatedOnly(),
	}

	if cpuPercent, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		status["cpuPercent"] = cpuPercent[0]
	}

	if memStat, err := mem.VirtualMemory(); err == nil {
		status["memUsedPercent"] = memStat.UsedPercent
		status["memUsedMB"] = memStat.Used / 1024 / 1024
	}

	if len(s.databases) > 0 {
		databases := make(map[string]string, len(s.databases))
		for _, db := range s.databases {
			if err := db.HealthCheck(r.Context()); err != nil {
				s.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
				databases[db.Name()] = err.Error()
			} else {
				databases[db.Name()] = "ok"
			}
		}
		status["databases"] = databases
	}

	s.writeJSON(w, http.StatusOK, status)
}

// handleSnapshots handles GET /api/admin/snapshots?symbol=AAPL&limit=20
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	symbol := r.URL.Query().Get("symbol")

	var (
		records interface{}
		err     error
	)
	if symbol != "" {
		records, err = s.snapshotsRepo.RecentForSymbol(symbol, limit)
	} else {
		records, err = s.snapshotsRepo.Recent(limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list snapshots")
		http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, records)
}
