package models

import "time"

// Student represents a learner on the school roster. Form is the class
// label the student belongs to (e.g. "1 East").
type Student struct {
	ID          string    `db:"id" json:"id"`
	AdmissionNo string    `db:"admission_no" json:"admission_no"`
	Name        string    `db:"name" json:"name"`
	Gender      string    `db:"gender" json:"gender"`
	Form        string    `db:"form" json:"form"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Class    string
	Search   string
	Page     int
	PageSize int
}

// ImportReport summarises the outcome of a bulk roster import.
type ImportReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
