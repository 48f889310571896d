package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per monitoring run with its summary
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			blink_count INTEGER NOT NULL DEFAULT 0,
			frown_count INTEGER NOT NULL DEFAULT 0,
			avg_cpu_pct REAL NOT NULL DEFAULT 0,
			peak_cpu_pct REAL NOT NULL DEFAULT 0,
			avg_mem_mb REAL NOT NULL DEFAULT 0,
			peak_mem_mb REAL NOT NULL DEFAULT 0,
			avg_fps REAL NOT NULL DEFAULT 0,
			avg_latency_ms REAL NOT NULL DEFAULT 0,
			peak_latency_ms REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Events table - behavioral event onsets within a session
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK(kind IN ('blink', 'frown', 'too_close')),
			occurred_at DATETIME NOT NULL,
			distance_cm REAL NOT NULL DEFAULT 0
		)`,

		// Settings table - application settings as key-value pairs,
		// including the stored calibration reference pair
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
