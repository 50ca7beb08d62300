package model

import "time"

// Counter is a lightweight progress widget: a labelled tally with an
// optional target (zero means open-ended).
type Counter struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Value     int64     `json:"value"`
	Target    int64     `json:"target"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
