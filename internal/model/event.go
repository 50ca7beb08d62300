package model

import "time"

// Event is a calendar event. AllDay tags which variant it is: all-day events
// span whole visual days and live in the band; timed events occupy lanes on
// the time canvas.
type Event struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day"`
	Color     string    `json:"color"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
