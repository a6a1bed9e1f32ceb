package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/watchboard/internal/modules/market"
	"github.com/aristath/watchboard/internal/modules/snapshots"
	"github.com/aristath/watchboard/internal/modules/watchlist"
	"github.com/aristath/watchboard/internal/utils"
)

// CacheWarmJob pre-populates quote caches for watchlist symbols so the
// first dashboard load after a cold start does not wait on providers.
type CacheWarmJob struct {
	Watchlist *watchlist.Service
	Market    *market.Service
	Log       zerolog.Logger
}

func (j *CacheWarmJob) Name() string { return "cache_warm" }

func (j *CacheWarmJob) Run() error {
	defer utils.OperationTimer("cache_warm", j.Log)()

	entries, err := j.Watchlist.List()
	if err != nil {
		return fmt.Errorf("failed to list watchlist: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, entry := range entries {
		j.Market.WarmQuote(ctx, entry.Symbol)
	}

	j.Log.Debug().Int("symbols", len(entries)).Msg("Quote caches warmed")
	return nil
}

// SnapshotJob records the current quote for every watchlist symbol and
// prunes snapshots older than the retention window.
type SnapshotJob struct {
	Watchlist *watchlist.Service
	Market    *market.Service
	Snapshots *snapshots.Repository
	Retention time.Duration
	Log       zerolog.Logger
}

func (j *SnapshotJob) Name() string { return "quote_snapshot" }

func (j *SnapshotJob) Run() error {
	defer utils.OperationTimer("quote_snapshot", j.Log)()

	entries, err := j.Watchlist.List()
	if err != nil {
		return fmt.Errorf("failed to list watchlist: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recorded := 0
	for _, entry := range entries {
		result := j.Market.GetQuote(ctx, entry.Symbol)
		if err := j.Snapshots.Record(entry.Symbol, string(result.Source), result.Snapshot); err != nil {
			j.Log.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Failed to record snapshot")
			continue
		}
		recorded++
	}

	pruned, err := j.Snapshots.Prune(j.Retention)
	if err != nil {
		j.Log.Warn().Err(err).Msg("Failed to prune snapshots")
	}

	j.Log.Debug().
		Int("recorded", recorded).
		Int64("pruned", pruned).
		Msg("Quote snapshots recorded")

	return nil
}
