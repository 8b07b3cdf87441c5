package models

import "time"

// ExamStatistics describes one exam's result set. Averages are kept at full
// precision; one-decimal rounding happens in the rendering layer only. The
// grade histogram is zero-filled over every band of the selected scale so
// downstream charts always see consistent axes.
type ExamStatistics struct {
	ExamID         int64          `json:"examId,omitempty"`
	Scale          string         `json:"scale"`
	Total          int            `json:"total"`
	Submitted      int            `json:"submittedCount"`
	Pending        int            `json:"pendingCount"`
	Average        *float64       `json:"average"`
	Highest        *float64       `json:"highest"`
	Lowest         *float64       `json:"lowest"`
	PassRate       *float64       `json:"passRate"`
	GradeHistogram map[string]int `json:"gradeHistogram"`
}

// ClassStatistics aggregates results across every exam of a class. The shape
// mirrors ExamStatistics because report renderers index both by field name.
type ClassStatistics struct {
	ClassID        int64          `json:"classId,omitempty"`
	Scale          string         `json:"scale"`
	Total          int            `json:"total"`
	Submitted      int            `json:"submittedCount"`
	Pending        int            `json:"pendingCount"`
	Average        *float64       `json:"average"`
	Highest        *float64       `json:"highest"`
	Lowest         *float64       `json:"lowest"`
	PassRate       *float64       `json:"passRate"`
	GradeHistogram map[string]int `json:"gradeHistogram"`
}

// CorrelationStrength buckets the absolute Pearson coefficient.
type CorrelationStrength string

const (
	CorrelationStrong   CorrelationStrength = "STRONG"
	CorrelationModerate CorrelationStrength = "MODERATE"
	CorrelationWeak     CorrelationStrength = "WEAK"
	CorrelationVeryWeak CorrelationStrength = "VERY_WEAK"
)

// CorrelationDirection labels the coefficient sign.
type CorrelationDirection string

const (
	CorrelationPositive CorrelationDirection = "POSITIVE"
	CorrelationNegative CorrelationDirection = "NEGATIVE"
)

// CorrelationResult reports a Pearson correlation over paired samples. Valid
// is false when fewer than two complete pairs exist or the series are
// degenerate, in which case no coefficient is reported.
type CorrelationResult struct {
	Valid       bool                 `json:"valid"`
	Coefficient float64              `json:"coefficient,omitempty"`
	Strength    CorrelationStrength  `json:"strength,omitempty"`
	Direction   CorrelationDirection `json:"direction,omitempty"`
	Samples     int                  `json:"samples"`
}

// TrendDirection classifies the performance trend of a time-ordered series.
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendDeclining TrendDirection = "DECLINING"
	TrendStable    TrendDirection = "STABLE"
	TrendNone      TrendDirection = "NO_TREND"
)

// TrendResult describes the half-split trend estimate for a student's
// percentage history.
type TrendResult struct {
	Trend          TrendDirection `json:"trend"`
	Delta          *float64       `json:"delta,omitempty"`
	FirstHalfMean  *float64       `json:"firstHalfMean,omitempty"`
	SecondHalfMean *float64       `json:"secondHalfMean,omitempty"`
	Samples        int            `json:"samples"`
}

// StudentTrendPoint is one graded percentage in a student's history.
type StudentTrendPoint struct {
	Percentage *float64  `db:"percentage" json:"percentage"`
	GradedAt   time.Time `db:"graded_at" json:"gradedAt"`
}

// AttendancePerformancePoint pairs a student's attendance rate with their mean
// exam percentage for correlation reporting. Either side may be missing; such
// pairs are dropped before the coefficient is computed.
type AttendancePerformancePoint struct {
	StudentID      int64    `db:"student_id" json:"studentId"`
	AttendanceRate *float64 `db:"attendance_rate" json:"attendanceRate"`
	MeanPercentage *float64 `db:"mean_percentage" json:"meanPercentage"`
}
