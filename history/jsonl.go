// Package history - jsonl.go appends call records to a JSONL file.
//
// DESIGN: One JSON object per line, appended immediately after each record
// so `tail -f` gives a live view. The file handle is opened per append;
// append-mode writes keep lines whole even with external rotation.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// JSONLSink appends records to a JSON-lines file.
type JSONLSink struct {
	path string

	mu    sync.Mutex
	count int64
}

// NewJSONLSink creates parent directories and verifies the path is
// writable.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonl path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close history file: %w", err)
	}
	return &JSONLSink{path: path}, nil
}

// Record appends one record as a single line.
func (s *JSONLSink) Record(rec CallRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal call record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append call record: %w", err)
	}
	s.count++
	return nil
}

// Close logs a summary. Handles are per-append, so there is nothing to
// release.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Info().
		Str("path", s.path).
		Int64("records", s.count).
		Msg("history_jsonl_closed")
	return nil
}

var _ Sink = (*JSONLSink)(nil)
