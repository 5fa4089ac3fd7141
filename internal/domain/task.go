package domain

import (
	"time"
)

// Limits applied to task fields on creation.
const (
	MaxDescriptionLength = 500
)

// Task is a single card on the board. ID and CreatedAt never change once set.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Column      ColumnID  `json:"column"`
	CreatedAt   time.Time `json:"createdAt"`
}

// newerThan orders tasks newest first, falling back to id for equal timestamps.
func (t Task) newerThan(o Task) bool {
	if !t.CreatedAt.Equal(o.CreatedAt) {
		return t.CreatedAt.After(o.CreatedAt)
	}
	return t.ID < o.ID
}
