package grading

import (
	"sort"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// trendNoiseBand is the delta (in percentage points) below which fluctuation
// is not reported as a trend.
const trendNoiseBand = 5.0

// Segment estimates a student's performance trend by splitting the
// time-ordered percentage history at floor(n/2) and comparing the half means.
// Nil percentages are dropped within each half; if fewer than two points
// exist, or either half holds no valid value, the result is NO_TREND.
func Segment(points []models.StudentTrendPoint) models.TrendResult {
	ordered := make([]models.StudentTrendPoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GradedAt.Before(ordered[j].GradedAt)
	})

	result := models.TrendResult{Trend: models.TrendNone, Samples: len(ordered)}
	if len(ordered) < 2 {
		return result
	}

	mid := len(ordered) / 2
	firstMean, firstOK := halfMean(ordered[:mid])
	secondMean, secondOK := halfMean(ordered[mid:])
	if !firstOK || !secondOK {
		return result
	}

	delta := secondMean - firstMean
	result.Delta = &delta
	result.FirstHalfMean = &firstMean
	result.SecondHalfMean = &secondMean
	switch {
	case delta > trendNoiseBand:
		result.Trend = models.TrendImproving
	case delta < -trendNoiseBand:
		result.Trend = models.TrendDeclining
	default:
		result.Trend = models.TrendStable
	}
	return result
}

func halfMean(points []models.StudentTrendPoint) (float64, bool) {
	sum := 0.0
	count := 0
	for _, p := range points {
		if p.Percentage == nil {
			continue
		}
		sum += *p.Percentage
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
