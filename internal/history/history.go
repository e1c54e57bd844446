// Package history keeps the append-only record of evaluation runs used
// for accuracy trend tracking across code revisions.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is one evaluation run. Records are never mutated or deleted
// once appended.
type Record struct {
	Timestamp       time.Time          `json:"timestamp"`
	Revision        string             `json:"revision"`
	OverallAccuracy float64            `json:"overall_accuracy"`
	PerGesture      map[string]float64 `json:"per_gesture"`
}

// Store is an append-only JSON-array file of Records, strictly ordered
// by append time.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path. The file does
// not have to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all records in append order. A missing file is an empty
// history, not an error.
func (s *Store) Load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return records, nil
}

// Append adds one record to the end of the history. The whole file is
// rewritten to a temporary file and renamed into place, so a failed
// write never corrupts previously persisted records.
func (s *Store) Append(r Record) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	records = append(records, r)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit history: %w", err)
	}

	return nil
}

// Recent returns the n most recent records, oldest first. It returns
// fewer when the history is shorter than n.
func (s *Store) Recent(n int) ([]Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n >= len(records) {
		return records, nil
	}
	return records[len(records)-n:], nil
}

// ByRevision returns every record tagged with the given revision id, in
// append order.
func (s *Store) ByRevision(revision string) ([]Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	var matched []Record
	for _, r := range records {
		if r.Revision == revision {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
