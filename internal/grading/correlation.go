package grading

import (
	"math"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

// minCorrelationPairs is the smallest sample that yields a defined Pearson
// coefficient.
const minCorrelationPairs = 2

// Correlate computes the Pearson correlation coefficient over two paired
// series. Pairs where either side is nil are dropped first. When fewer than
// two complete pairs remain, or either series has zero variance, the result
// reports Valid=false instead of a degenerate coefficient. Correlate(a, b)
// and Correlate(b, a) are identical.
func Correlate(seriesA, seriesB []*float64) models.CorrelationResult {
	n := len(seriesA)
	if len(seriesB) < n {
		n = len(seriesB)
	}

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if seriesA[i] == nil || seriesB[i] == nil {
			continue
		}
		xs = append(xs, *seriesA[i])
		ys = append(ys, *seriesB[i])
	}

	result := models.CorrelationResult{Samples: len(xs)}
	if len(xs) < minCorrelationPairs {
		return result
	}

	count := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / count
	meanY := sumY / count

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return result
	}

	r := cov / math.Sqrt(varX*varY)
	result.Valid = true
	result.Coefficient = r
	result.Strength = strengthOf(r)
	if r < 0 {
		result.Direction = models.CorrelationNegative
	} else {
		result.Direction = models.CorrelationPositive
	}
	return result
}

func strengthOf(r float64) models.CorrelationStrength {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return models.CorrelationStrong
	case abs >= 0.4:
		return models.CorrelationModerate
	case abs >= 0.2:
		return models.CorrelationWeak
	default:
		return models.CorrelationVeryWeak
	}
}
