package models

import "time"

// Exam identifies a single graded assessment for a class.
type Exam struct {
	ID          int64     `db:"id" json:"id"`
	ClassID     int64     `db:"class_id" json:"classId"`
	Name        string    `db:"name" json:"name"`
	Subject     string    `db:"subject" json:"subject"`
	TotalMarks  float64   `db:"total_marks" json:"totalMarks"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduledAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
