package models

import "time"

// Mark records one student's score for one assessment week. Class captures
// the student's class label at entry time; EnteredBy and TeacherID audit who
// recorded the score.
type Mark struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	WeekID    string    `db:"week_id" json:"week_id"`
	Score     float64   `db:"score" json:"score"`
	Class     string    `db:"class" json:"class"`
	EnteredBy string    `db:"entered_by" json:"entered_by"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MarkEntry is one pending or submitted score for the batch upsert path.
type MarkEntry struct {
	StudentID string  `json:"student_id" validate:"required"`
	WeekID    string  `json:"week_id" validate:"required"`
	Score     float64 `json:"score" validate:"min=0,max=100"`
}
