package models

import "time"

// EditRequestStatus captures workflow states for locked-record edit requests.
type EditRequestStatus string

const (
	EditRequestStatusPending  EditRequestStatus = "PENDING"
	EditRequestStatusApproved EditRequestStatus = "APPROVED"
	EditRequestStatusRejected EditRequestStatus = "REJECTED"
)

// Terminal reports whether the status permits no further transitions.
func (s EditRequestStatus) Terminal() bool {
	return s == EditRequestStatusApproved || s == EditRequestStatusRejected
}

// EditRequest proposes a change to a locked ResultRecord. The record itself is
// untouched until a reviewer approves the request; rejected and approved
// requests are final and cannot be resubmitted.
type EditRequest struct {
	ID              int64             `db:"id" json:"id"`
	ResultID        int64             `db:"result_id" json:"resultId"`
	Reason          string            `db:"reason" json:"reason"`
	ProposedMarks   *float64          `db:"proposed_marks" json:"proposedMarks,omitempty"`
	ProposedRemarks *string           `db:"proposed_remarks" json:"proposedRemarks,omitempty"`
	Status          EditRequestStatus `db:"status" json:"status"`
	RequestedBy     string            `db:"requested_by" json:"requestedBy"`
	ReviewedBy      *string           `db:"reviewed_by" json:"reviewedBy,omitempty"`
	RequestedAt     time.Time         `db:"requested_at" json:"requestedAt"`
	ReviewedAt      *time.Time        `db:"reviewed_at" json:"reviewedAt,omitempty"`
	Note            *string           `db:"note" json:"note,omitempty"`
}

// EditRequestFilter constrains listing queries.
type EditRequestFilter struct {
	Status      []EditRequestStatus
	ResultID    int64
	ExamID      int64
	RequestedBy string
	Limit       int
	Offset      int
}
