// Package history - sqlite.go archives call records in SQLite.
//
// DESIGN: modernc.org/sqlite (pure Go, no cgo) with WAL journaling. The
// archive answers "what happened lately" queries for the CLI; the full
// engine breakdown is stored as a JSON column rather than one table per
// engine.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS call_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sample_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	model TEXT NOT NULL,
	latency_ms REAL NOT NULL,
	response_tokens INTEGER NOT NULL,
	tokens_per_second REAL NOT NULL,
	prompt_chars INTEGER NOT NULL,
	response_chars INTEGER NOT NULL,
	health TEXT NOT NULL,
	score REAL NOT NULL,
	warmup INTEGER NOT NULL,
	engines TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_records_created_at ON call_records(created_at);
CREATE INDEX IF NOT EXISTS idx_call_records_health ON call_records(health);
`

// SQLiteSink archives call records in a SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens the archive at path, creating it if needed.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Record inserts one call record.
func (s *SQLiteSink) Record(rec CallRecord) error {
	engines, err := json.Marshal(rec.Engines)
	if err != nil {
		return fmt.Errorf("marshal engine entries: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO call_records
			(sample_id, created_at, model, latency_ms, response_tokens,
			 tokens_per_second, prompt_chars, response_chars, health, score,
			 warmup, engines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SampleID,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.Model,
		rec.LatencyMs,
		rec.ResponseTokens,
		rec.TokensPerSecond,
		rec.PromptChars,
		rec.ResponseChars,
		rec.Health,
		rec.Score,
		boolToInt(rec.Warmup),
		string(engines),
	)
	if err != nil {
		return fmt.Errorf("insert call record: %w", err)
	}
	return nil
}

// Recent returns the newest n records, newest first. A non-positive n
// returns no records.
func (s *SQLiteSink) Recent(n int) ([]CallRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT sample_id, created_at, model, latency_ms, response_tokens,
		       tokens_per_second, prompt_chars, response_chars, health,
		       score, warmup, engines
		FROM call_records
		ORDER BY id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent records: %w", err)
	}
	defer rows.Close()

	var recs []CallRecord
	for rows.Next() {
		var (
			rec       CallRecord
			createdAt string
			engines   string
			warmup    int
		)
		if err := rows.Scan(&rec.SampleID, &createdAt, &rec.Model,
			&rec.LatencyMs, &rec.ResponseTokens, &rec.TokensPerSecond,
			&rec.PromptChars, &rec.ResponseChars, &rec.Health, &rec.Score,
			&warmup, &engines); err != nil {
			return nil, fmt.Errorf("scan call record: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse record timestamp: %w", err)
		}
		rec.Timestamp = ts
		rec.Warmup = warmup != 0
		if err := json.Unmarshal([]byte(engines), &rec.Engines); err != nil {
			return nil, fmt.Errorf("decode engine entries: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call records: %w", err)
	}
	return recs, nil
}

// CountByHealth aggregates stored records per health bucket.
func (s *SQLiteSink) CountByHealth() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT health, COUNT(*) FROM call_records GROUP BY health`)
	if err != nil {
		return nil, fmt.Errorf("query health counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var health string
		var n int64
		if err := rows.Scan(&health, &n); err != nil {
			return nil, fmt.Errorf("scan health count: %w", err)
		}
		counts[health] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health counts: %w", err)
	}
	return counts, nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Sink = (*SQLiteSink)(nil)
