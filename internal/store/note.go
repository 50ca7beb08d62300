package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jhartwell/dayframe/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Create(title, body string, pinned bool) (*model.Note, error) {
	result, err := s.db.Exec(
		`INSERT INTO notes (title, body, pinned) VALUES (?, ?, ?)`,
		title, body, boolInt(pinned),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *NoteStore) GetByID(id int64) (*model.Note, error) {
	var n model.Note
	var pinnedInt int

	err := s.db.QueryRow(
		`SELECT id, title, body, pinned, created_at, updated_at FROM notes WHERE id = ?`,
		id,
	).Scan(&n.ID, &n.Title, &n.Body, &pinnedInt, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}

	n.Pinned = pinnedInt != 0
	return &n, nil
}

// List returns all notes, pinned first, most recently updated first within
// each group.
func (s *NoteStore) List() ([]model.Note, error) {
	rows, err := s.db.Query(
		`SELECT id, title, body, pinned, created_at, updated_at
		 FROM notes ORDER BY pinned DESC, updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		var pinnedInt int
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &pinnedInt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Pinned = pinnedInt != 0
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *NoteStore) Update(id int64, title, body string, pinned bool) (*model.Note, error) {
	_, err := s.db.Exec(
		`UPDATE notes SET title = ?, body = ?, pinned = ?, updated_at = ? WHERE id = ?`,
		title, body, boolInt(pinned), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.GetByID(id)
}

func (s *NoteStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
