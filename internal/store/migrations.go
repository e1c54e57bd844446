package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Samples table - hand snapshots staged from live capture.
		// Landmarks hold the 21-point array as JSON; predicted and
		// confidence record what the classifier said at capture time,
		// for later comparison against the assigned ground truth.
		`CREATE TABLE IF NOT EXISTS samples (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL,
			handedness TEXT NOT NULL CHECK(handedness IN ('Left', 'Right')),
			landmarks TEXT NOT NULL,
			image_path TEXT NOT NULL DEFAULT '',
			predicted TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL DEFAULT 0,
			promoted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_samples_gesture ON samples(gesture)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_promoted ON samples(promoted)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
