package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one monitoring run and its end-of-run summary.
type Session struct {
	ID            string
	StartedAt     time.Time
	EndedAt       sql.NullTime
	Frames        int
	BlinkCount    int
	FrownCount    int
	AvgCPUPct     float64
	PeakCPUPct    float64
	AvgMemMB      float64
	PeakMemMB     float64
	AvgFPS        float64
	AvgLatencyMs  float64
	PeakLatencyMs float64
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session row at run start.
func (r *SessionRepository) Create(id string, startedAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		id, startedAt,
	)
	return err
}

// Finish records the end-of-run summary for a session.
func (r *SessionRepository) Finish(s *Session) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, blink_count = ?, frown_count = ?,
			avg_cpu_pct = ?, peak_cpu_pct = ?, avg_mem_mb = ?, peak_mem_mb = ?,
			avg_fps = ?, avg_latency_ms = ?, peak_latency_ms = ?
		 WHERE id = ?`,
		s.EndedAt, s.Frames, s.BlinkCount, s.FrownCount,
		s.AvgCPUPct, s.PeakCPUPct, s.AvgMemMB, s.PeakMemMB,
		s.AvgFPS, s.AvgLatencyMs, s.PeakLatencyMs,
		s.ID,
	)
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

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, blink_count, frown_count,
			avg_cpu_pct, peak_cpu_pct, avg_mem_mb, peak_mem_mb,
			avg_fps, avg_latency_ms, peak_latency_ms
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.StartedAt, &s.EndedAt, &s.Frames, &s.BlinkCount, &s.FrownCount,
		&s.AvgCPUPct, &s.PeakCPUPct, &s.AvgMemMB, &s.PeakMemMB,
		&s.AvgFPS, &s.AvgLatencyMs, &s.PeakLatencyMs)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s, nil
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames, blink_count, frown_count,
			avg_cpu_pct, peak_cpu_pct, avg_mem_mb, peak_mem_mb,
			avg_fps, avg_latency_ms, peak_latency_ms
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}

		err := rows.Scan(&s.ID, &s.StartedAt, &s.EndedAt, &s.Frames, &s.BlinkCount, &s.FrownCount,
			&s.AvgCPUPct, &s.PeakCPUPct, &s.AvgMemMB, &s.PeakMemMB,
			&s.AvgFPS, &s.AvgLatencyMs, &s.PeakLatencyMs)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and its events.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
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
