package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Sample is one staged hand snapshot: the operator-assigned ground
// truth label, the raw landmarks, and what the classifier predicted at
// capture time.
type Sample struct {
	ID         string
	Gesture    gesture.Label
	Hand       detector.Hand
	ImagePath  string
	Predicted  gesture.Label
	Confidence float64
	Promoted   bool
	CreatedAt  time.Time
}

// SampleRepository provides persistence operations for staged samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts a new sample. A missing ID is generated.
func (r *SampleRepository) Create(sample *Sample) error {
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if !sample.Gesture.Valid() {
		return fmt.Errorf("invalid gesture label %q", sample.Gesture)
	}
	sample.CreatedAt = time.Now()

	landmarks, err := json.Marshal(sample.Hand.Points[:])
	if err != nil {
		return fmt.Errorf("encode landmarks: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO samples (id, gesture, handedness, landmarks, image_path, predicted, confidence, promoted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.ID, string(sample.Gesture), sample.Hand.Handedness, string(landmarks),
		sample.ImagePath, string(sample.Predicted), sample.Confidence,
		boolToInt(sample.Promoted), sample.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a sample by its ID.
func (r *SampleRepository) GetByID(id string) (*Sample, error) {
	row := r.db.QueryRow(
		`SELECT id, gesture, handedness, landmarks, image_path, predicted, confidence, promoted, created_at
		 FROM samples WHERE id = ?`,
		id,
	)

	sample, err := scanSample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sample, nil
}

// List retrieves samples in capture order. With pendingOnly set, only
// samples not yet promoted into the corpus are returned.
func (r *SampleRepository) List(pendingOnly bool) ([]*Sample, error) {
	query := `SELECT id, gesture, handedness, landmarks, image_path, predicted, confidence, promoted, created_at
		 FROM samples`
	if pendingOnly {
		query += ` WHERE promoted = 0`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// MarkPromoted records that a sample has been exported to the corpus.
// Samples are never deleted: the staging table keeps the full capture
// history.
func (r *SampleRepository) MarkPromoted(id string) error {
	result, err := r.db.Exec(`UPDATE samples SET promoted = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountByGesture returns how many samples exist for the given label.
func (r *SampleRepository) CountByGesture(label gesture.Label) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM samples WHERE gesture = ?`, string(label)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*Sample, error) {
	s := &Sample{}
	var gestureLabel, handedness, landmarks, predicted string
	var promoted int

	err := row.Scan(&s.ID, &gestureLabel, &handedness, &landmarks, &s.ImagePath,
		&predicted, &s.Confidence, &promoted, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	var points []detector.Landmark
	if err := json.Unmarshal([]byte(landmarks), &points); err != nil {
		return nil, fmt.Errorf("decode landmarks: %w", err)
	}

	hand, err := detector.HandFromSlice(points, handedness, 1.0)
	if err != nil {
		return nil, err
	}

	s.Gesture = gesture.Label(gestureLabel)
	s.Hand = hand
	s.Predicted = gesture.Label(predicted)
	s.Promoted = promoted != 0
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
