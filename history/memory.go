// Package history - memory.go buffers recent call records in memory.
//
// DESIGN: A bounded ring over a plain slice; once full, each append evicts
// the oldest record. The query surface mirrors SQLiteSink so callers that
// only need "what happened lately" can skip the database entirely. For
// multi-process aggregation, use the SQLite archive instead.
package history

import (
	"sync"
)

// DefaultMemoryCapacity bounds a MemorySink built with capacity <= 0.
const DefaultMemoryCapacity = 256

// MemorySink keeps the newest records in a fixed-size ring.
type MemorySink struct {
	mu     sync.RWMutex
	buf    []CallRecord
	start  int // index of the oldest record
	size   int
	closed bool
}

// NewMemorySink returns a ring holding at most capacity records.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{buf: make([]CallRecord, capacity)}
}

// Record appends one record, evicting the oldest when full.
func (s *MemorySink) Record(rec CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.buf[(s.start+s.size)%len(s.buf)] = rec
	if s.size < len(s.buf) {
		s.size++
	} else {
		s.start = (s.start + 1) % len(s.buf)
	}
	return nil
}

// Recent returns up to n of the newest buffered records, newest first.
func (s *MemorySink) Recent(n int) []CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > s.size {
		n = s.size
	}
	out := make([]CallRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.buf[(s.start+s.size-1-i)%len(s.buf)])
	}
	return out
}

// Len returns the number of buffered records.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// CountByHealth aggregates buffered records per health bucket.
func (s *MemorySink) CountByHealth() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for i := 0; i < s.size; i++ {
		counts[s.buf[(s.start+i)%len(s.buf)].Health]++
	}
	return counts
}

// Close drops the buffer. Records after Close are discarded.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.buf = nil
		s.size = 0
		s.start = 0
	}
	return nil
}

var _ Sink = (*MemorySink)(nil)
