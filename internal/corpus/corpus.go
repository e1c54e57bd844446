// Package corpus persists the labeled hand snapshots used as evaluation
// ground truth: one directory per test case holding case.json and an
// optional captured screenshot.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
)

// caseFileName is the snapshot file inside each case directory.
const caseFileName = "case.json"

// TestCase is one labeled snapshot: the ground-truth gesture and the
// hand that should classify to it.
type TestCase struct {
	ID         string
	Label      gesture.Label
	Hand       detector.Hand
	ImagePath  string // optional captured screenshot, may be empty
	CapturedAt time.Time
}

// CaseError is a corpus-integrity problem with a single record. It is
// reported alongside the healthy cases, never silently dropped, and is
// distinct from a classification miss.
type CaseError struct {
	ID  string
	Err error
}

func (e CaseError) Error() string {
	return fmt.Sprintf("case %s: %v", e.ID, e.Err)
}

func (e CaseError) Unwrap() error {
	return e.Err
}

// caseFile is the on-disk JSON form of a test case.
type caseFile struct {
	ID         string              `json:"id,omitempty"`
	Gesture    string              `json:"gesture"`
	Handedness string              `json:"handedness"`
	Landmarks  []detector.Landmark `json:"landmarks"`
	Image      string              `json:"image,omitempty"`
	CapturedAt string              `json:"captured_at,omitempty"`
}

// Store loads and appends test cases under a corpus directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory does not have to
// exist yet; Append creates it on first use.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the corpus root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load enumerates the full corpus in directory order. Malformed records
// are returned as CaseErrors next to the healthy cases; only an
// unreadable corpus directory is a fatal error.
func (s *Store) Load() ([]TestCase, []CaseError, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var cases []TestCase
	var bad []CaseError

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		path := filepath.Join(s.dir, id, caseFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				// Not a case directory
				continue
			}
			bad = append(bad, CaseError{ID: id, Err: err})
			continue
		}

		tc, err := s.parseCase(id, data)
		if err != nil {
			bad = append(bad, CaseError{ID: id, Err: err})
			continue
		}
		cases = append(cases, tc)
	}

	return cases, bad, nil
}

func (s *Store) parseCase(id string, data []byte) (TestCase, error) {
	var cf caseFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return TestCase{}, fmt.Errorf("parse %s: %w", caseFileName, err)
	}

	label := gesture.Label(cf.Gesture)
	if !label.Valid() {
		return TestCase{}, fmt.Errorf("invalid gesture label %q", cf.Gesture)
	}

	if cf.Handedness != "Left" && cf.Handedness != "Right" {
		return TestCase{}, fmt.Errorf("invalid handedness %q", cf.Handedness)
	}

	hand, err := detector.HandFromSlice(cf.Landmarks, cf.Handedness, 1.0)
	if err != nil {
		return TestCase{}, err
	}

	tc := TestCase{
		ID:    id,
		Label: label,
		Hand:  hand,
	}

	if cf.Image != "" {
		tc.ImagePath = filepath.Join(s.dir, id, cf.Image)
	}
	if cf.CapturedAt != "" {
		if t, err := time.Parse(time.RFC3339, cf.CapturedAt); err == nil {
			tc.CapturedAt = t
		}
	}

	return tc, nil
}

// Append adds a newly captured case to the corpus. The snapshot is
// written to a temporary file and renamed into place so a crash never
// leaves a half-written case.json behind.
func (s *Store) Append(tc TestCase) error {
	if !tc.Label.Valid() {
		return fmt.Errorf("invalid gesture label %q", tc.Label)
	}
	if tc.ID == "" {
		tc.ID = uuid.NewString()
	}

	caseDir := filepath.Join(s.dir, tc.ID)
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		return fmt.Errorf("create case dir: %w", err)
	}

	cf := caseFile{
		ID:         tc.ID,
		Gesture:    string(tc.Label),
		Handedness: tc.Hand.Handedness,
		Landmarks:  tc.Hand.Points[:],
	}
	if tc.ImagePath != "" {
		cf.Image = filepath.Base(tc.ImagePath)
	}
	if !tc.CapturedAt.IsZero() {
		cf.CapturedAt = tc.CapturedAt.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode case: %w", err)
	}

	tmp, err := os.CreateTemp(caseDir, caseFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write case: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close case file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(caseDir, caseFileName)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit case file: %w", err)
	}

	return nil
}
