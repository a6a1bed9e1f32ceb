// Package server provides the HTTP server and routing for Watchboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/watchboard/internal/auth"
	"github.com/aristath/watchboard/internal/config"
	"github.com/aristath/watchboard/internal/database"
	"github.com/aristath/watchboard/internal/modules/market"
	"github.com/aristath/watchboard/internal/modules/settings"
	"github.com/aristath/watchboard/internal/modules/snapshots"
	"github.com/aristath/watchboard/internal/modules/watchlist"
	"github.com/aristath/watchboard/internal/synth"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	Config           *config.Config
	AuthService      *auth.Service
	SettingsService  *settings.Service
	MarketService    *market.Service
	WatchlistService *watchlist.Service
	SnapshotsRepo    *snapshots.Repository
	Synthesizer      *synth.Synthesizer
	Databases        []*database.DB
}

// Server represents the HTTP server
type Server struct {
	router           *chi.Mux
	server           *http.Server
	log              zerolog.Logger
	cfg              *config.Config
	authService      *auth.Service
	settingsService  *settings.Service
	marketService    *market.Service
	watchlistService *watchlist.Service
	snapshotsRepo    *snapshots.Repository
	streamHandler    *StreamHandler
	marketHandler    *market.Handler
	watchlistHandler *watchlist.Handler
	databases        []*database.DB
	startedAt        time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:           chi.NewRouter(),
		log:              cfg.Log.With().Str("component", "server").Logger(),
		cfg:              cfg.Config,
		authService:      cfg.AuthService,
		settingsService:  cfg.SettingsService,
		marketService:    cfg.MarketService,
		watchlistService: cfg.WatchlistService,
		snapshotsRepo:    cfg.SnapshotsRepo,
		marketHandler:    market.NewHandler(cfg.MarketService, cfg.Log),
		watchlistHandler: watchlist.NewHandler(cfg.WatchlistService, cfg.Log),
		databases:        cfg.Databases,
		startedAt:        time.Now(),
	}

	s.streamHandler = NewStreamHandler(cfg.WatchlistService, cfg.Synthesizer, cfg.Log)
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health and auth stay reachable in maintenance mode
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/auth/login", s.authService.HandleLogin)
	s.router.Post("/api/auth/logout", s.authService.HandleLogout)

	// Public dashboard API, blocked during maintenance
	s.router.Group(func(r chi.Router) {
		r.Use(s.maintenanceGate)

		r.Get("/api/periods", s.handlePeriods)
		r.Get("/api/watchlist", s.watchlistHandler.HandleList)

		r.Route("/api/stocks/{symbol}", func(r chi.Router) {
			r.Get("/series", s.marketHandler.HandleSeries)
			r.Get("/quote", s.marketHandler.HandleQuote)
			r.Get("/prediction", s.marketHandler.HandlePrediction)
			r.Get("/indicators", s.marketHandler.HandleIndicators)
			r.Post("/refresh", s.marketHandler.HandleRefresh)
		})

		r.Get("/api/stream/quotes", s.streamHandler.ServeHTTP)
	})

	// Admin panel API
	s.router.Route("/api/admin", func(r chi.Router) {
		r.Use(s.authService.RequireAdmin)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/{key}", s.handleUpdateSetting)
		r.Put("/maintenance", s.handleSetMaintenance)
		r.Put("/simulated", s.handleSetSimulatedOnly)
		r.Get("/system", s.handleSystemStatus)
		r.Get("/snapshots", s.handleSnapshots)

		r.Post("/watchlist", s.watchlistHandler.HandleAdd)
		r.Delete("/watchlist/{symbol}", s.watchlistHandler.HandleRemove)
		r.Put("/watchlist/order", s.watchlistHandler.HandleReorder)
		r.Put("/watchlist/{symbol}/volatility", s.watchlistHandler.HandleSetVolatility)
	})
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.log.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
