// Package main is the entry point for the watchboard dashboard server.
// It serves a watchlist of stock tickers with cached quotes, synthesized
// price series and predictions, backed by SQLite for watchlist and settings
// persistence.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/watchboard/internal/auth"
	"github.com/aristath/watchboard/internal/clients/predict"
	"github.com/aristath/watchboard/internal/clients/quotes"
	"github.com/aristath/watchboard/internal/config"
	"github.com/aristath/watchboard/internal/database"
	"github.com/aristath/watchboard/internal/modules/market"
	"github.com/aristath/watchboard/internal/modules/settings"
	"github.com/aristath/watchboard/internal/modules/snapshots"
	"github.com/aristath/watchboard/internal/modules/watchlist"
	"github.com/aristath/watchboard/internal/scheduler"
	"github.com/aristath/watchboard/internal/server"
	"github.com/aristath/watchboard/internal/synth"
	"github.com/aristath/watchboard/pkg/logger"
)

const snapshotRetention = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error", Pretty: true})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting watchboard server")

	// Databases: watchlist and config are durable, cache is ephemeral
	watchlistDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "watchlist.db"),
		Profile: database.ProfileStandard,
		Name:    "watchlist",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open watchlist database")
	}
	defer watchlistDB.Close()

	configDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer configDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{watchlistDB, configDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to run migrations")
		}
	}

	// Repositories and services
	settingsRepo := settings.NewRepository(configDB.Conn(), log)
	settingsService := settings.NewService(settingsRepo, log)
	if cfg.SimulatedOnly {
		if err := settingsService.SetSimulatedOnly(true); err != nil {
			log.Warn().Err(err).Msg("Failed to persist simulated-only flag")
		}
	}

	watchlistRepo := watchlist.NewRepository(watchlistDB.Conn(), log)
	watchlistService := watchlist.NewService(watchlistRepo, log)
	if err := watchlistService.SeedDefaults(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default watchlist")
	}

	snapshotsRepo := snapshots.NewRepository(cacheDB.Conn(), log)

	synthesizer := synth.New()
	quoteClient := quotes.NewClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey, log)
	quoteClient.UseKeySource(settingsService)
	predictClient := predict.NewClient(cfg.PredictAPIURL, log)

	marketService := market.NewService(
		synthesizer,
		quoteClient,
		predictClient,
		watchlistService,
		settingsService,
		log,
	)

	authService := auth.NewService(cfg.AdminPassword, log)

	// Background jobs
	sched := scheduler.New(log)

	warmJob := &scheduler.CacheWarmJob{
		Watchlist: watchlistService,
		Market:    marketService,
		Log:       log,
	}
	if err := sched.AddJob("@every 15m", warmJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache warm job")
	}

	snapshotJob := &scheduler.SnapshotJob{
		Watchlist: watchlistService,
		Market:    marketService,
		Snapshots: snapshotsRepo,
		Retention: snapshotRetention,
		Log:       log,
	}
	if err := sched.AddJob("@every 30m", snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot job")
	}

	sched.Start()
	defer sched.Stop()

	if err := sched.RunNow(warmJob); err != nil {
		log.Warn().Err(err).Msg("Initial cache warm failed")
	}

	// HTTP server
	srv := server.New(server.Config{
		Log:              log,
		Config:           cfg,
		AuthService:      authService,
		SettingsService:  settingsService,
		MarketService:    marketService,
		WatchlistService: watchlistService,
		SnapshotsRepo:    snapshotsRepo,
		Synthesizer:      synthesizer,
		Databases:        []*database.DB{watchlistDB, configDB, cacheDB},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
