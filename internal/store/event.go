package store

import (
	"database/sql"
	"time"
)

// EventKind identifies the kind of behavioral event.
type EventKind string

const (
	// EventBlink is a committed blink.
	EventBlink EventKind = "blink"
	// EventFrown is a committed frown.
	EventFrown EventKind = "frown"
	// EventTooClose is the onset of a too-close-to-screen condition.
	EventTooClose EventKind = "too_close"
)

// Event represents one behavioral event onset within a session.
type Event struct {
	ID         int64
	SessionID  string
	Kind       EventKind
	OccurredAt time.Time
	DistanceCm float64
}

// EventRepository provides operations for session events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Add records one event.
func (r *EventRepository) Add(e *Event) error {
	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, occurred_at, distance_cm)
		 VALUES (?, ?, ?, ?)`,
		e.SessionID, string(e.Kind), e.OccurredAt, e.DistanceCm,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// ListBySession retrieves all events for a session in time order.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, occurred_at, distance_cm
		 FROM events WHERE session_id = ? ORDER BY occurred_at`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string

		err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.OccurredAt, &e.DistanceCm)
		if err != nil {
			return nil, err
		}

		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByKind returns the number of events of one kind in a session.
func (r *EventRepository) CountByKind(sessionID string, kind EventKind) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE session_id = ? AND kind = ?`,
		sessionID, string(kind),
	).Scan(&count)
	return count, err
}
