package stats

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend persists adaptive statistics across restarts. Estimates are
// flushed periodically (the engine schedules this on a cron tick) and loaded
// once at startup, so the store never blocks a scan on disk I/O.
type SQLiteBackend struct {
	db        *sql.DB
	closeOnce sync.Once
}

const statsSchema = `
CREATE TABLE IF NOT EXISTS symbol_stats (
	symbol TEXT PRIMARY KEY,
	fire_rate REAL NOT NULL,
	mean_latency_ns REAL NOT NULL,
	observations INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// NewSQLiteBackend opens (or creates) the statistics database at dbPath.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("stats db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(statsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize stats schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Load returns every persisted snapshot, keyed by symbol name.
func (b *SQLiteBackend) Load(ctx context.Context) (map[string]Snapshot, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT symbol, fire_rate, mean_latency_ns, observations FROM symbol_stats`)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbol stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Snapshot)
	for rows.Next() {
		var (
			name      string
			fireRate  float64
			latencyNS float64
			count     int64
		)
		if err := rows.Scan(&name, &fireRate, &latencyNS, &count); err != nil {
			return nil, fmt.Errorf("failed to scan symbol stats row: %w", err)
		}
		out[name] = Snapshot{
			FireRate:     fireRate,
			MeanLatency:  time.Duration(latencyNS),
			Observations: count,
		}
	}
	return out, rows.Err()
}

// Save upserts the store's current estimates in a single transaction.
func (b *SQLiteBackend) Save(ctx context.Context, store *Store) error {
	snapshots := store.Export()
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbol_stats (symbol, fire_rate, mean_latency_ns, observations, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			fire_rate = excluded.fire_rate,
			mean_latency_ns = excluded.mean_latency_ns,
			observations = excluded.observations,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for name, snap := range snapshots {
		if _, err := stmt.ExecContext(ctx, name, snap.FireRate,
			float64(snap.MeanLatency.Nanoseconds()), snap.Observations, now); err != nil {
			return fmt.Errorf("failed to persist stats for %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats transaction: %w", err)
	}
	return nil
}

// Close releases the underlying database handle. Safe to call more than
// once.
func (b *SQLiteBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = b.db.Close()
	})
	return err
}
