package snapshots

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/watchboard/internal/synth"
)

const testSchema = `
CREATE TABLE quote_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol TEXT NOT NULL,
    source TEXT NOT NULL,
    data BLOB NOT NULL,
    recorded_at INTEGER NOT NULL
);
`

func setupTestRepo(t *testing.T) *Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewRepository(db, zerolog.Nop())
}

func testSnapshot(symbol string) synth.QuoteSnapshot {
	return synth.QuoteSnapshot{
		Symbol:        symbol,
		Price:         227.50,
		ChangePercent: 1.07,
		Volume:        "48.2M",
		MarketCap:     "$3.4T",
	}
}

func TestRecordAndRecent(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Record("AAPL", "live", testSnapshot("AAPL")))
	require.NoError(t, repo.Record("MSFT", "simulated", testSnapshot("MSFT")))

	records, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first; msgpack round-trips the full snapshot
	assert.Equal(t, "MSFT", records[0].Symbol)
	assert.Equal(t, "simulated", records[0].Source)
	assert.Equal(t, testSnapshot("MSFT"), records[0].Snapshot)
	assert.Equal(t, testSnapshot("AAPL"), records[1].Snapshot)
}

func TestRecentForSymbol(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Record("AAPL", "live", testSnapshot("AAPL")))
	require.NoError(t, repo.Record("MSFT", "live", testSnapshot("MSFT")))

	records, err := repo.RecentForSymbol("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AAPL", records[0].Symbol)
}

func TestPrune(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Record("AAPL", "live", testSnapshot("AAPL")))

	// Nothing is old enough yet
	deleted, err := repo.Prune(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// Zero retention prunes everything recorded before now
	time.Sleep(1100 * time.Millisecond)
	deleted, err = repo.Prune(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
