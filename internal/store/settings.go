package store

import (
	"database/sql"
	"errors"
)

// Settings keys used by the application.
const (
	// SettingRefWidthPx stores the calibrated face width in pixels.
	SettingRefWidthPx = "calibration.ref_width_px"
	// SettingRefDistanceCm stores the calibrated distance in centimeters.
	SettingRefDistanceCm = "calibration.ref_distance_cm"
)

// SettingsRepository provides key-value settings storage, used for the
// one-time calibration measurement among other things.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
