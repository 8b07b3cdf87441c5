package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kasms254/KASMS-sub002/internal/models"
)

func series(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = ptr(v)
	}
	return out
}

func TestCorrelatePerfectPositive(t *testing.T) {
	a := series(1, 2, 3, 4)
	b := series(10, 20, 30, 40)

	result := Correlate(a, b)

	require.True(t, result.Valid)
	assert.InDelta(t, 1.0, result.Coefficient, 1e-9)
	assert.Equal(t, models.CorrelationStrong, result.Strength)
	assert.Equal(t, models.CorrelationPositive, result.Direction)
	assert.Equal(t, 4, result.Samples)
}

func TestCorrelatePerfectNegative(t *testing.T) {
	a := series(1, 2, 3)
	b := series(9, 6, 3)

	result := Correlate(a, b)

	require.True(t, result.Valid)
	assert.InDelta(t, -1.0, result.Coefficient, 1e-9)
	assert.Equal(t, models.CorrelationNegative, result.Direction)
}

func TestCorrelateSymmetric(t *testing.T) {
	a := series(55, 72, 61, 90, 48)
	b := series(60, 70, 65, 85, 50)

	ab := Correlate(a, b)
	ba := Correlate(b, a)

	require.True(t, ab.Valid)
	assert.Equal(t, ab.Coefficient, ba.Coefficient)
	assert.Equal(t, ab.Strength, ba.Strength)
	assert.Equal(t, ab.Direction, ba.Direction)
}

func TestCorrelateDropsIncompletePairs(t *testing.T) {
	a := []*float64{ptr(1), nil, ptr(3), ptr(4)}
	b := []*float64{ptr(2), ptr(5), nil, ptr(8)}

	result := Correlate(a, b)

	require.True(t, result.Valid)
	assert.Equal(t, 2, result.Samples)
}

func TestCorrelateTooFewPairs(t *testing.T) {
	result := Correlate(series(42), series(99))
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.Samples)

	result = Correlate(nil, nil)
	assert.False(t, result.Valid)
	assert.Equal(t, 0, result.Samples)

	// Nil on either side reduces the usable sample below the minimum.
	result = Correlate([]*float64{ptr(1), nil, nil}, []*float64{ptr(2), ptr(3), ptr(4)})
	assert.False(t, result.Valid)
}

func TestCorrelateZeroVariance(t *testing.T) {
	result := Correlate(series(5, 5, 5), series(1, 2, 3))
	assert.False(t, result.Valid)
	assert.Equal(t, 3, result.Samples)
}

func TestCorrelateMismatchedLengths(t *testing.T) {
	// Extra trailing values on the longer series are ignored.
	result := Correlate(series(1, 2, 3, 4, 5), series(2, 4, 6))
	require.True(t, result.Valid)
	assert.Equal(t, 3, result.Samples)
}

func TestStrengthBands(t *testing.T) {
	cases := []struct {
		r    float64
		want models.CorrelationStrength
	}{
		{0.95, models.CorrelationStrong},
		{0.7, models.CorrelationStrong},
		{-0.8, models.CorrelationStrong},
		{0.5, models.CorrelationModerate},
		{0.4, models.CorrelationModerate},
		{0.3, models.CorrelationWeak},
		{0.2, models.CorrelationWeak},
		{0.1, models.CorrelationVeryWeak},
		{-0.05, models.CorrelationVeryWeak},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, strengthOf(tc.r), "r=%v", tc.r)
	}
}
