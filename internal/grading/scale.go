// Package grading holds the pure grade-computation rules: letter-grade
// derivation, descriptive statistics, correlation and trend estimation.
// Everything in this package is deterministic and free of I/O so the same
// inputs always produce the same report figures.
package grading

import (
	"fmt"
	"strings"
)

// Grade is a single letter grade band.
type Grade string

// GradeUngraded is the sentinel for records without a mark. It is never a
// letter grade and never appears in histograms.
const GradeUngraded Grade = "UNGRADED"

// GradeF is the failing band shared by every scale.
const GradeF Grade = "F"

// Band maps a percentage floor to a grade. A percentage belongs to the
// highest band whose floor it reaches.
type Band struct {
	Grade Grade
	Floor float64
}

// Scale is an ordered list of grade bands, best first, ending in F at floor 0.
type Scale struct {
	name  string
	bands []Band
}

// NineBand is the detailed scale used by exam mark sheets.
var NineBand = Scale{
	name: "nine_band",
	bands: []Band{
		{Grade: "A", Floor: 91},
		{Grade: "A-", Floor: 86},
		{Grade: "B+", Floor: 81},
		{Grade: "B", Floor: 76},
		{Grade: "B-", Floor: 71},
		{Grade: "C+", Floor: 65},
		{Grade: "C", Floor: 60},
		{Grade: "C-", Floor: 50},
		{Grade: GradeF, Floor: 0},
	},
}

// FiveBand is the coarse scale used by summary reports.
var FiveBand = Scale{
	name: "five_band",
	bands: []Band{
		{Grade: "A", Floor: 80},
		{Grade: "B", Floor: 70},
		{Grade: "C", Floor: 60},
		{Grade: "D", Floor: 50},
		{Grade: GradeF, Floor: 0},
	},
}

// ScaleByName resolves a configured scale name. The caller selects the scale
// per report context; nothing in this package infers it.
func ScaleByName(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nine_band", "9":
		return NineBand, nil
	case "five_band", "5":
		return FiveBand, nil
	default:
		return Scale{}, fmt.Errorf("unknown grading scale %q", name)
	}
}

// Name returns the scale identifier used in configs and report payloads.
func (s Scale) Name() string {
	return s.name
}

// GradeOf maps a percentage to its letter grade. A nil percentage yields the
// ungraded sentinel.
func (s Scale) GradeOf(percentage *float64) Grade {
	if percentage == nil {
		return GradeUngraded
	}
	return s.GradeOfValue(*percentage)
}

// GradeOfValue maps a concrete percentage to its letter grade.
func (s Scale) GradeOfValue(percentage float64) Grade {
	for _, band := range s.bands {
		if percentage >= band.Floor {
			return band.Grade
		}
	}
	// Negative input falls through every floor; it is still a fail.
	return GradeF
}

// Passed reports whether the grade clears the lowest (failing) band.
func (s Scale) Passed(g Grade) bool {
	return g != GradeF && g != GradeUngraded
}

// PassThreshold is the percentage floor of the lowest non-failing band.
func (s Scale) PassThreshold() float64 {
	threshold := 0.0
	for _, band := range s.bands {
		if band.Grade == GradeF {
			continue
		}
		threshold = band.Floor
	}
	return threshold
}

// Grades lists every band of the scale, best first. Used to zero-fill
// histograms so charts render consistent axes.
func (s Scale) Grades() []Grade {
	grades := make([]Grade, 0, len(s.bands))
	for _, band := range s.bands {
		grades = append(grades, band.Grade)
	}
	return grades
}
