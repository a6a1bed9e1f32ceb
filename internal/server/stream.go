package server

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/watchboard/internal/modules/watchlist"
	"github.com/aristath/watchboard/internal/synth"
)

// streamInterval is how often quote ticks are pushed to a connected client.
const streamInterval = 2 * time.Second

// QuoteTick is one live-update message pushed over the websocket.
type QuoteTick struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	At            int64   `json:"at"`
}

// StreamHandler pushes simulated quote ticks for the whole watchlist over a
// websocket. Ticks start from the deterministic quote and add per-tick
// jitter; the stream is presentation-level movement, not the reproducible
// series data.
type StreamHandler struct {
	watchlist *watchlist.Service
	synth     *synth.Synthesizer
	log       zerolog.Logger
}

// NewStreamHandler creates a new quote stream handler.
func NewStreamHandler(watchlistService *watchlist.Service, synthesizer *synth.Synthesizer, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		watchlist: watchlistService,
		synth:     synthesizer,
		log:       log.With().Str("component", "quote_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/stream/quotes (websocket upgrade).
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	h.log.Info().Str("remote", r.RemoteAddr).Msg("Quote stream client connected")

	ctx := r.Context()
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
			entries, err := h.watchlist.List()
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to read watchlist for stream")
				continue
			}

			ticks := make([]QuoteTick, 0, len(entries))
			now := time.Now()
			for _, entry := range entries {
				quote := h.synth.Quote(entry.Symbol)
				jitter := (rand.Float64() - 0.5) * 0.004 * watchlist.VolatilityScale(entry.VolatilityLabel)

				ticks = append(ticks, QuoteTick{
					Symbol:        entry.Symbol,
					Price:         quote.Price * (1 + jitter),
					ChangePercent: quote.ChangePercent,
					At:            now.Unix(),
				})
			}

			if err := wsjson.Write(ctx, conn, ticks); err != nil {
				h.log.Debug().Err(err).Msg("Quote stream client disconnected")
				return
			}
		}
	}
}
