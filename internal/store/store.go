// Package store archives raw usage records in SQLite so reports can span
// several downloaded exports. One row is kept per (day, user_id).
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening DB: %w", err)
	}
	if err := configureSQLiteConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: configuring DB: %w", err)
	}

	s := NewStore(db)
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage_records (
			day TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			user_login TEXT,
			payload TEXT NOT NULL,
			payload_hash TEXT NOT NULL,
			ingested_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (day, user_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_user ON usage_records(user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

type UpsertResult struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Upsert writes records keyed by (day, user_id). A later export of the same
// day replaces the stored payload; identical payloads are left untouched.
func (s *Store) Upsert(ctx context.Context, records []core.UsageRecord) (UpsertResult, error) {
	var res UpsertResult
	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range records {
		rec := &records[i]
		day, ok := canonicalDay(rec)
		if !ok {
			return UpsertResult{}, fmt.Errorf("store: record for user %d has invalid day %q", rec.UserID, rec.Day)
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("store: marshal record: %w", err)
		}
		sum := sha256.Sum256(payload)
		hash := hex.EncodeToString(sum[:])

		var existing string
		err = tx.QueryRowContext(ctx,
			`SELECT payload_hash FROM usage_records WHERE day = ? AND user_id = ?`, day, rec.UserID,
		).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO usage_records (day, user_id, user_login, payload, payload_hash, ingested_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, day, rec.UserID, nullable(rec.UserLogin), string(payload), hash, now, now); err != nil {
				return UpsertResult{}, fmt.Errorf("store: insert record: %w", err)
			}
			res.Inserted++
		case err != nil:
			return UpsertResult{}, fmt.Errorf("store: lookup record: %w", err)
		case existing == hash:
			res.Unchanged++
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE usage_records
				SET user_login = ?, payload = ?, payload_hash = ?, updated_at = ?
				WHERE day = ? AND user_id = ?
			`, nullable(rec.UserLogin), string(payload), hash, now, day, rec.UserID); err != nil {
				return UpsertResult{}, fmt.Errorf("store: update record: %w", err)
			}
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("store: commit tx: %w", err)
	}
	return res, nil
}

// LoadRecords returns every archived record ordered by day then user id.
func (s *Store) LoadRecords(ctx context.Context) ([]core.UsageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM usage_records ORDER BY day, user_id`)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var out []core.UsageRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		var rec core.UsageRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("store: decode record: %w", err)
		}
		rec.Date, _ = core.ParseDay(rec.Day)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate records: %w", err)
	}
	return out, nil
}

func canonicalDay(rec *core.UsageRecord) (string, bool) {
	if !rec.Date.IsZero() {
		return rec.Date.Format(core.DayLayout), true
	}
	t, ok := core.ParseDay(rec.Day)
	if !ok {
		return "", false
	}
	return t.Format(core.DayLayout), true
}

func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
