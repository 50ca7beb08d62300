package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhartwell/dayframe/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(title string, startTime, endTime time.Time, allDay bool, color string) (*model.Event, error) {
	if endTime.Before(startTime) {
		endTime = startTime
	}

	result, err := s.db.Exec(
		`INSERT INTO events (uid, title, start_time, end_time, all_day, color)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), title, startTime.UTC(), endTime.UTC(), boolInt(allDay), color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	var e model.Event
	var allDayInt, completedInt int

	err := s.db.QueryRow(
		`SELECT id, uid, title, start_time, end_time, all_day, color, completed, created_at, updated_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.UID, &e.Title, &e.StartTime, &e.EndTime, &allDayInt, &e.Color, &completedInt, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}

	e.AllDay = allDayInt != 0
	e.Completed = completedInt != 0
	return &e, nil
}

// ListByDateRange returns events overlapping [start, end), all-day first,
// then by start time.
func (s *EventStore) ListByDateRange(start, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, uid, title, start_time, end_time, all_day, color, completed, created_at, updated_at
		 FROM events
		 WHERE start_time < ? AND end_time > ?
		 ORDER BY all_day DESC, start_time ASC, id ASC`,
		end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var allDayInt, completedInt int

		if err := rows.Scan(&e.ID, &e.UID, &e.Title, &e.StartTime, &e.EndTime, &allDayInt, &e.Color, &completedInt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.AllDay = allDayInt != 0
		e.Completed = completedInt != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *EventStore) Update(id int64, title string, startTime, endTime time.Time, allDay bool, color string) (*model.Event, error) {
	if endTime.Before(startTime) {
		endTime = startTime
	}

	_, err := s.db.Exec(
		`UPDATE events
		 SET title = ?, start_time = ?, end_time = ?, all_day = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		title, startTime.UTC(), endTime.UTC(), boolInt(allDay), color, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return s.GetByID(id)
}

// UpdateTimes rewrites only the scheduling fields. This is the write path
// for drag proposals, which always carry a full replacement state.
func (s *EventStore) UpdateTimes(id int64, startTime, endTime time.Time, allDay bool) (*model.Event, error) {
	if endTime.Before(startTime) {
		endTime = startTime
	}

	_, err := s.db.Exec(
		`UPDATE events SET start_time = ?, end_time = ?, all_day = ?, updated_at = ? WHERE id = ?`,
		startTime.UTC(), endTime.UTC(), boolInt(allDay), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event times: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) SetCompleted(id int64, completed bool) (*model.Event, error) {
	_, err := s.db.Exec(
		`UPDATE events SET completed = ?, updated_at = ? WHERE id = ?`,
		boolInt(completed), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set event completed: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
