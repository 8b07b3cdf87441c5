package models

import "time"

// ResultRecord is one student's mark entry for one exam. Percentage and Grade
// are derived from MarksObtained and the exam's total marks; the stored marks
// are the only authoritative value. Once IsLocked is set the record can no
// longer be changed through the bulk-save path and every edit must go through
// an approved EditRequest.
type ResultRecord struct {
	ID            int64      `db:"id" json:"id"`
	StudentID     int64      `db:"student_id" json:"studentId"`
	ExamID        int64      `db:"exam_id" json:"examId"`
	MarksObtained *float64   `db:"marks_obtained" json:"marksObtained"`
	Remarks       string     `db:"remarks" json:"remarks"`
	IsLocked      bool       `db:"is_locked" json:"isLocked"`
	GradedAt      *time.Time `db:"graded_at" json:"gradedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Submitted reports whether the record carries a mark.
func (r ResultRecord) Submitted() bool {
	return r.MarksObtained != nil
}

// Percentage derives the percentage score against the exam total, or nil when
// the record is ungraded or the total is not positive.
func (r ResultRecord) Percentage(totalMarks float64) *float64 {
	if r.MarksObtained == nil || totalMarks <= 0 {
		return nil
	}
	p := 100 * *r.MarksObtained / totalMarks
	return &p
}

// ResultUpdate is the bulk-save tuple for a single changed row. Only changed
// rows are ever sent, never the full roster.
type ResultUpdate struct {
	ID            int64   `json:"id"`
	StudentID     int64   `json:"studentId"`
	MarksObtained float64 `json:"marksObtained"`
	Remarks       string  `json:"remarks"`
}

// RosterCounts summarises grading progress for an exam roster. Pending counts
// ungraded rows over the full roster, so a roster with zero submissions
// reports submitted=0 and pending=total.
type RosterCounts struct {
	Total     int `db:"total" json:"total"`
	Submitted int `db:"submitted" json:"submittedCount"`
	Pending   int `db:"pending" json:"pendingCount"`
}

// ScoredResult carries a pre-computed percentage for cross-exam aggregation
// where each row may belong to an exam with a different total.
type ScoredResult struct {
	ResultID   int64    `db:"result_id" json:"resultId"`
	StudentID  int64    `db:"student_id" json:"studentId"`
	Percentage *float64 `db:"percentage" json:"percentage"`
}
