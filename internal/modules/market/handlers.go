package market

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/watchboard/internal/synth"
)

// Handler provides HTTP handlers for market data endpoints.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new market handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "market").Logger(),
	}
}

// HandleSeries handles GET /api/stocks/{symbol}/series?period=1M&relative=true
func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	symbol := requestSymbol(r)
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	period, err := requestPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	relative := r.URL.Query().Get("relative") == "true"

	writeJSON(w, h.log, http.StatusOK, h.service.GetSeries(symbol, period, relative))
}

// HandleQuote handles GET /api/stocks/{symbol}/quote
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := requestSymbol(r)
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.service.GetQuote(r.Context(), symbol))
}

// HandlePrediction handles GET /api/stocks/{symbol}/prediction
func (h *Handler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	symbol := requestSymbol(r)
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.service.GetPrediction(r.Context(), symbol))
}

// HandleIndicators handles GET /api/stocks/{symbol}/indicators?period=1M
func (h *Handler) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := requestSymbol(r)
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	period, err := requestPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.service.GetIndicators(symbol, period))
}

// HandleRefresh handles POST /api/stocks/{symbol}/refresh.
// A cooldown denial answers 429 with the remaining wait rendered for
// display; it is the expected steady-state for impatient clients, not an
// error worth logging.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	symbol := requestSymbol(r)
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	result := h.service.Refresh(symbol)
	status := http.StatusOK
	if !result.Allowed {
		status = http.StatusTooManyRequests
	}

	writeJSON(w, h.log, status, result)
}

func requestSymbol(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

func requestPeriod(r *http.Request) (synth.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return synth.Period1M, nil
	}
	return synth.ParsePeriod(raw)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
