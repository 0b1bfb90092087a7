package models

import "time"

// Week is an assessment week inside a term. Term and WeekNumber form the
// canonical chronological ordering key; Description is optional display text.
type Week struct {
	ID          string    `db:"id" json:"id"`
	Term        int       `db:"term" json:"term"`
	WeekNumber  int       `db:"week_number" json:"week_number"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
