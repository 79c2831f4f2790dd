package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Tuning profiles - named control-feel presets
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			grab_threshold REAL NOT NULL,
			palm_facing_threshold REAL NOT NULL,
			influence_radius REAL NOT NULL,
			rotation_strength REAL NOT NULL,
			push_pull_strength REAL NOT NULL,
			camera_orbit_strength REAL NOT NULL,
			camera_zoom_strength REAL NOT NULL,
			zoom_smoothing REAL NOT NULL,
			trail_fade REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Landmark recordings - captured classifier sessions for replay
		`CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Per-frame classifier output within a recording
		`CREATE TABLE IF NOT EXISTS recording_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			grab_strength REAL NOT NULL,
			palm_facing INTEGER NOT NULL,
			hand_scale REAL NOT NULL,
			valid INTEGER NOT NULL,
			palm_x REAL NOT NULL,
			palm_y REAL NOT NULL
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_recording_frames_recording_id ON recording_frames(recording_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
