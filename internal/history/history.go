// Package history records per-tick asset prices in an embedded SQLite
// database so the API can serve recent price series. The default DSN keeps
// the data in memory for the process lifetime.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_points (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id TEXT    NOT NULL,
	tick_at  INTEGER NOT NULL,
	price    REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS price_points_asset_tick
	ON price_points (asset_id, tick_at DESC);
`

type Point struct {
	AssetID string    `json:"asset_id"`
	TickAt  time.Time `json:"tick_at"`
	Price   float64   `json:"price"`
}

// Recorder persists price points. A nil Recorder is valid and drops writes.
type Recorder struct {
	db *sql.DB
}

// Open opens the SQLite store at dsn and ensures the schema exists.
func Open(dsn string) (*Recorder, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("history dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// A single connection keeps in-memory databases coherent across calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Record appends one price point per asset for a single tick.
func (r *Recorder) Record(ctx context.Context, points []Point) error {
	if r == nil || r.db == nil || len(points) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_points (asset_id, tick_at, price)
			VALUES (?, ?, ?)
		`, p.AssetID, p.TickAt.UTC().UnixMilli(), p.Price); err != nil {
			return fmt.Errorf("insert price point: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit price points for an asset, newest first.
func (r *Recorder) Recent(ctx context.Context, assetID string, limit int) ([]Point, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 64
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT asset_id, tick_at, price
		FROM price_points
		WHERE asset_id = ?
		ORDER BY tick_at DESC, id DESC
		LIMIT ?
	`, assetID, limit)
	if err != nil {
		return nil, fmt.Errorf("query price points: %w", err)
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var p Point
		var at int64
		if err := rows.Scan(&p.AssetID, &at, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.TickAt = time.UnixMilli(at).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
