// Package snapshots records served quote snapshots into cache.db as msgpack
// blobs, giving the admin panel a short history of what the dashboard
// displayed and from which source.
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/watchboard/internal/synth"
)

// Record is one recorded snapshot.
type Record struct {
	ID         int64               `json:"id"`
	Symbol     string              `json:"symbol"`
	Source     string              `json:"source"`
	Snapshot   synth.QuoteSnapshot `json:"snapshot"`
	RecordedAt time.Time           `json:"recordedAt"`
}

// Repository handles snapshot history operations.
// Database: cache.db (quote_snapshots table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}
}

// Record stores one snapshot.
func (r *Repository) Record(symbol, source string, snapshot synth.QuoteSnapshot) error {
	blob, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", symbol, err)
	}

	_, err = r.db.Exec(`
		INSERT INTO quote_snapshots (symbol, source, data, recorded_at)
		VALUES (?, ?, ?, ?)
	`, symbol, source, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record snapshot for %s: %w", symbol, err)
	}

	return nil
}

// Recent returns the most recent snapshots across all symbols.
func (r *Repository) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, symbol, source, data, recorded_at
		FROM quote_snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecentForSymbol returns the most recent snapshots for one symbol.
func (r *Repository) RecentForSymbol(symbol string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, symbol, source, data, recorded_at
		FROM quote_snapshots
		WHERE symbol = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Prune deletes snapshots older than the retention window.
func (r *Repository) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()

	result, err := r.db.Exec("DELETE FROM quote_snapshots WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}

	return deleted, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var blob []byte
		var recordedAt int64

		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Source, &blob, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		if err := msgpack.Unmarshal(blob, &rec.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %d: %w", rec.ID, err)
		}

		rec.RecordedAt = time.Unix(recordedAt, 0)
		records = append(records, rec)
	}

	return records, rows.Err()
}
