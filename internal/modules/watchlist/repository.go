package watchlist

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/watchboard/internal/database"
)

// Repository handles watchlist database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "watchlist").Logger(),
	}
}

// List returns all tracked tickers in display order.
func (r *Repository) List() ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT symbol, name, sector, volatility_label, position, added_at
		FROM watchlist
		ORDER BY position, symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Symbol, &e.Name, &e.Sector, &e.VolatilityLabel, &e.Position, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Get returns one entry by symbol, or nil if not tracked (not an error).
func (r *Repository) Get(symbol string) (*Entry, error) {
	var e Entry
	err := r.db.QueryRow(`
		SELECT symbol, name, sector, volatility_label, position, added_at
		FROM watchlist
		WHERE symbol = ?
	`, symbol).Scan(&e.Symbol, &e.Name, &e.Sector, &e.VolatilityLabel, &e.Position, &e.AddedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist entry %s: %w", symbol, err)
	}
	return &e, nil
}

// Add inserts or updates a tracked ticker. New entries are appended at the
// end of the display order.
func (r *Repository) Add(entry Entry) error {
	if entry.VolatilityLabel == "" {
		entry.VolatilityLabel = VolatilityNormal
	}
	if entry.AddedAt == 0 {
		entry.AddedAt = time.Now().Unix()
	}
	if entry.Position == 0 {
		var maxPos sql.NullInt64
		if err := r.db.QueryRow("SELECT MAX(position) FROM watchlist").Scan(&maxPos); err != nil {
			return fmt.Errorf("failed to determine watchlist position: %w", err)
		}
		entry.Position = int(maxPos.Int64) + 1
	}

	_, err := r.db.Exec(`
		INSERT INTO watchlist (symbol, name, sector, volatility_label, position, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector
	`, entry.Symbol, entry.Name, entry.Sector, entry.VolatilityLabel, entry.Position, entry.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add watchlist entry %s: %w", entry.Symbol, err)
	}

	return nil
}

// Remove deletes a tracked ticker; removing an untracked symbol is a no-op.
func (r *Repository) Remove(symbol string) error {
	_, err := r.db.Exec("DELETE FROM watchlist WHERE symbol = ?", symbol)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry %s: %w", symbol, err)
	}
	return nil
}

// SetVolatilityLabel updates the admin-assigned volatility label.
func (r *Repository) SetVolatilityLabel(symbol, label string) error {
	if !ValidVolatilityLabel(label) {
		return fmt.Errorf("invalid volatility label %q", label)
	}

	result, err := r.db.Exec(
		"UPDATE watchlist SET volatility_label = ? WHERE symbol = ?",
		label, symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to set volatility label for %s: %w", symbol, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check volatility label update for %s: %w", symbol, err)
	}
	if affected == 0 {
		return fmt.Errorf("symbol %s is not on the watchlist", symbol)
	}

	return nil
}

// Reorder rewrites display positions to match the given symbol order.
// Symbols not mentioned keep their positions.
func (r *Repository) Reorder(symbols []string) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		for i, symbol := range symbols {
			if _, err := tx.Exec("UPDATE watchlist SET position = ? WHERE symbol = ?", i+1, symbol); err != nil {
				return fmt.Errorf("failed to reorder %s: %w", symbol, err)
			}
		}
		return nil
	})
}

// Count returns the number of tracked tickers.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM watchlist").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count watchlist: %w", err)
	}
	return count, nil
}
