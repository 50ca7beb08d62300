package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Setting keys used by the calendar grid.
const (
	KeyDayStartOffset = "day_start_offset" // minutes past midnight, 0-1439
	KeyHourHeight     = "hour_height"      // last zoom level, pixels per hour
	KeyPINHash        = "pin_hash"         // bcrypt hash of the kiosk PIN
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns a setting value, or "" when the key has never been set.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// DayStartOffset returns the visual day boundary in minutes past midnight,
// defaulting to 0 (midnight) when unset or malformed.
func (s *SettingsStore) DayStartOffset() (int, error) {
	value, err := s.Get(KeyDayStartOffset)
	if err != nil {
		return 0, err
	}
	offset, err := strconv.Atoi(value)
	if err != nil || offset < 0 || offset > 1439 {
		return 0, nil
	}
	return offset, nil
}

func (s *SettingsStore) SetDayStartOffset(minutes int) error {
	if minutes < 0 || minutes > 1439 {
		return fmt.Errorf("day start offset %d out of range", minutes)
	}
	return s.Set(KeyDayStartOffset, strconv.Itoa(minutes))
}
