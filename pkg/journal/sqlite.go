package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema contains the SQL statements to create the journal schema.
const Schema = `
CREATE TABLE IF NOT EXISTS scans (
    scan_id TEXT PRIMARY KEY,
    queue_id TEXT,
    score REAL NOT NULL,
    category TEXT NOT NULL,
    early_exit BOOLEAN NOT NULL,
    degraded BOOLEAN NOT NULL,
    fatal_symbol TEXT,
    generation INTEGER NOT NULL,
    elapsed_us INTEGER NOT NULL,
    symbols TEXT NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_recorded_at ON scans(recorded_at);
CREATE INDEX IF NOT EXISTS idx_scans_category ON scans(category);
`

// SQLiteStore persists scan records to a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	closeOnce sync.Once
}

// NewSQLiteStore opens (or creates) the journal database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("journal db path cannot be empty")
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Insert writes one scan record.
func (s *SQLiteStore) Insert(ctx context.Context, rec *Record) error {
	symbols, err := json.Marshal(rec.Symbols)
	if err != nil {
		return fmt.Errorf("failed to marshal symbol results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (scan_id, queue_id, score, category, early_exit,
			degraded, fatal_symbol, generation, elapsed_us, symbols, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ScanID, rec.QueueID, rec.Score, rec.Category, rec.EarlyExit,
		rec.Degraded, rec.FatalSymbol, rec.Generation,
		rec.Elapsed.Microseconds(), string(symbols), rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scan record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT scan_id, queue_id, score, category, early_exit, degraded,
			fatal_symbol, generation, elapsed_us, symbols, recorded_at
		FROM scans ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var (
			rec       Record
			elapsedUS int64
			symbols   string
		)
		if err := rows.Scan(&rec.ScanID, &rec.QueueID, &rec.Score, &rec.Category,
			&rec.EarlyExit, &rec.Degraded, &rec.FatalSymbol, &rec.Generation,
			&elapsedUS, &symbols, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		rec.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		if err := json.Unmarshal([]byte(symbols), &rec.Symbols); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symbol results: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes records recorded before the cutoff and returns the
// number removed.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scan records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned records: %w", err)
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scan records: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle. Safe to call more than
// once.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}
