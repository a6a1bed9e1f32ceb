package watchlist

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE watchlist (
    symbol TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    sector TEXT NOT NULL DEFAULT '',
    volatility_label TEXT NOT NULL DEFAULT 'normal',
    position INTEGER NOT NULL DEFAULT 0,
    added_at INTEGER NOT NULL
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

func TestAddAndList(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(Entry{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"}))
	require.NoError(t, repo.Add(Entry{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology"}))

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Appended in order, defaults applied
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, VolatilityNormal, entries[0].VolatilityLabel)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
	assert.NotZero(t, entries[0].AddedAt)
}

func TestGetUntracked(t *testing.T) {
	repo := setupTestRepo(t)

	entry, err := repo.Get("GONE")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRemove(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(Entry{Symbol: "AAPL"}))
	require.NoError(t, repo.Remove("AAPL"))

	entry, err := repo.Get("AAPL")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Removing again is a no-op
	require.NoError(t, repo.Remove("AAPL"))
}

func TestSetVolatilityLabel(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(Entry{Symbol: "TSLA"}))
	require.NoError(t, repo.SetVolatilityLabel("TSLA", VolatilityHigh))

	entry, err := repo.Get("TSLA")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, VolatilityHigh, entry.VolatilityLabel)
}

func TestSetVolatilityLabelValidation(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(Entry{Symbol: "TSLA"}))

	assert.Error(t, repo.SetVolatilityLabel("TSLA", "extreme"))
	assert.Error(t, repo.SetVolatilityLabel("GONE", VolatilityHigh))
}

func TestReorder(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Add(Entry{Symbol: "AAPL"}))
	require.NoError(t, repo.Add(Entry{Symbol: "MSFT"}))
	require.NoError(t, repo.Add(Entry{Symbol: "TSLA"}))

	require.NoError(t, repo.Reorder([]string{"TSLA", "AAPL", "MSFT"}))

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "TSLA", entries[0].Symbol)
	assert.Equal(t, "AAPL", entries[1].Symbol)
	assert.Equal(t, "MSFT", entries[2].Symbol)
}

func TestServiceSeedDefaults(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewService(repo, zerolog.Nop())

	require.NoError(t, svc.SeedDefaults())

	entries, err := repo.List()
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	// Seeding twice does not duplicate
	count, err := repo.Count()
	require.NoError(t, err)
	require.NoError(t, svc.SeedDefaults())
	countAfter, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, count, countAfter)
}

func TestServiceVolatilityScale(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewService(repo, zerolog.Nop())

	require.NoError(t, repo.Add(Entry{Symbol: "TSLA", VolatilityLabel: VolatilityHigh}))
	require.NoError(t, repo.Add(Entry{Symbol: "KO", VolatilityLabel: VolatilityLow}))

	assert.Equal(t, 2.0, svc.VolatilityScaleFor("TSLA"))
	assert.Equal(t, 0.5, svc.VolatilityScaleFor("KO"))
	assert.Equal(t, 1.0, svc.VolatilityScaleFor("UNTRACKED"))
	assert.Equal(t, 2.0, svc.VolatilityScaleFor(" tsla "), "symbols are normalized")
}
