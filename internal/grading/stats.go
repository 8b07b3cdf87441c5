package grading

import (
	"math"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// Summarize computes descriptive statistics for one exam's result set. The
// roster size is len(results); rows without a mark count as pending, so a
// roster with zero submissions yields submitted=0 and pending=total rather
// than an empty object. Average, highest, lowest and pass rate are kept at
// full precision; one-decimal rounding is a display concern.
func Summarize(results []models.ResultRecord, totalMarks float64, scale Scale) models.ExamStatistics {
	percentages := make([]*float64, 0, len(results))
	for _, r := range results {
		percentages = append(percentages, r.Percentage(totalMarks))
	}
	core := summarizePercentages(percentages, scale)
	core.Scale = scale.Name()
	return core
}

// SummarizeScored aggregates pre-scored rows whose percentages were computed
// against their own exam totals, e.g. a class-wide pool across exams.
func SummarizeScored(rows []models.ScoredResult, scale Scale) models.ClassStatistics {
	percentages := make([]*float64, 0, len(rows))
	for _, row := range rows {
		percentages = append(percentages, row.Percentage)
	}
	core := summarizePercentages(percentages, scale)
	return models.ClassStatistics{
		Scale:          scale.Name(),
		Total:          core.Total,
		Submitted:      core.Submitted,
		Pending:        core.Pending,
		Average:        core.Average,
		Highest:        core.Highest,
		Lowest:         core.Lowest,
		PassRate:       core.PassRate,
		GradeHistogram: core.GradeHistogram,
	}
}

func summarizePercentages(percentages []*float64, scale Scale) models.ExamStatistics {
	stats := models.ExamStatistics{
		Total:          len(percentages),
		GradeHistogram: emptyHistogram(scale),
	}

	sum := 0.0
	passed := 0
	threshold := scale.PassThreshold()
	var highest, lowest *float64
	for _, p := range percentages {
		if p == nil {
			continue
		}
		v := *p
		stats.Submitted++
		sum += v
		if highest == nil || v > *highest {
			highest = ptr(v)
		}
		if lowest == nil || v < *lowest {
			lowest = ptr(v)
		}
		if v >= threshold {
			passed++
		}
		stats.GradeHistogram[string(scale.GradeOfValue(v))]++
	}

	stats.Pending = stats.Total - stats.Submitted
	if stats.Submitted > 0 {
		stats.Average = ptr(sum / float64(stats.Submitted))
		stats.Highest = highest
		stats.Lowest = lowest
		stats.PassRate = ptr(100 * float64(passed) / float64(stats.Submitted))
	}
	return stats
}

func emptyHistogram(scale Scale) map[string]int {
	histogram := make(map[string]int, len(scale.Grades()))
	for _, grade := range scale.Grades() {
		histogram[string(grade)] = 0
	}
	return histogram
}

// RoundTo1 rounds to one decimal for display surfaces such as exports.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr(v float64) *float64 {
	return &v
}
