package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jhartwell/dayframe/internal/model"
)

type CounterStore struct {
	db *sql.DB
}

func NewCounterStore(db *sql.DB) *CounterStore {
	return &CounterStore{db: db}
}

func (s *CounterStore) Create(label string, target int64, color string) (*model.Counter, error) {
	result, err := s.db.Exec(
		`INSERT INTO counters (label, target, color) VALUES (?, ?, ?)`,
		label, target, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert counter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *CounterStore) GetByID(id int64) (*model.Counter, error) {
	var c model.Counter

	err := s.db.QueryRow(
		`SELECT id, label, value, target, color, created_at, updated_at FROM counters WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Label, &c.Value, &c.Target, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query counter: %w", err)
	}

	return &c, nil
}

func (s *CounterStore) List() ([]model.Counter, error) {
	rows, err := s.db.Query(
		`SELECT id, label, value, target, color, created_at, updated_at
		 FROM counters ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()

	var counters []model.Counter
	for rows.Next() {
		var c model.Counter
		if err := rows.Scan(&c.ID, &c.Label, &c.Value, &c.Target, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counters = append(counters, c)
	}
	return counters, rows.Err()
}

func (s *CounterStore) Update(id int64, label string, target int64, color string) (*model.Counter, error) {
	_, err := s.db.Exec(
		`UPDATE counters SET label = ?, target = ?, color = ?, updated_at = ? WHERE id = ?`,
		label, target, color, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update counter: %w", err)
	}
	return s.GetByID(id)
}

// Increment adjusts a counter's value by delta, which may be negative. The
// value floors at zero.
func (s *CounterStore) Increment(id int64, delta int64) (*model.Counter, error) {
	_, err := s.db.Exec(
		`UPDATE counters SET value = MAX(0, value + ?), updated_at = ? WHERE id = ?`,
		delta, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("increment counter: %w", err)
	}
	return s.GetByID(id)
}

func (s *CounterStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM counters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete counter: %w", err)
	}
	return nil
}
