// Package curriculum models programs, their course requirements,
// prerequisite relationships, and degree-classification thresholds.
package curriculum

import (
	"sort"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAM
// ══════════════════════════════════════════════════════════════════════════════

// ClassificationScheme selects the default classification ladder for a
// program when no explicit thresholds are configured.
type ClassificationScheme string

const (
	// SchemeUniversity is the degree scheme (First Class .. Fail).
	SchemeUniversity ClassificationScheme = "BSC"

	// SchemePolytechnic is the diploma scheme (Distinction .. Fail).
	SchemePolytechnic ClassificationScheme = "ND"
)

// Program is a course of study a student can be registered in.
type Program struct {
	Code string
	Name string

	// MinUnitsToGraduate is the minimum counted units required for
	// graduation; 0 means no minimum is enforced.
	MinUnitsToGraduate int

	// Scheme picks the fallback classification ladder.
	Scheme ClassificationScheme
}

// CurriculumCourse places a course in a program's curriculum at a
// level/semester, optionally marking it compulsory for graduation.
type CurriculumCourse struct {
	ProgramCode string
	CourseCode  string
	CourseTitle string
	Units       int
	Level       string
	Semester    academic.Semester
	Compulsory  bool
}

// Prerequisite declares that, within a program, taking Course requires
// having passed RequiredCourse.
type Prerequisite struct {
	ProgramCode    string
	CourseCode     string
	RequiredCourse string
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASSIFICATION THRESHOLDS
// ══════════════════════════════════════════════════════════════════════════════

// ClassificationThreshold is a degree-classification band: the label
// awarded when the cumulative average is at least MinCGPA. Thresholds
// for a program are ordered descending by MinCGPA; the last band is the
// catch-all.
type ClassificationThreshold struct {
	Label   string
	MinCGPA float64
}

// DefaultThresholds returns the built-in ladder for a scheme, used when
// a program has no explicit thresholds configured.
func DefaultThresholds(scheme ClassificationScheme) []ClassificationThreshold {
	if scheme == SchemePolytechnic {
		return []ClassificationThreshold{
			{Label: "Distinction", MinCGPA: 3.5},
			{Label: "Upper Credit", MinCGPA: 3.0},
			{Label: "Lower Credit", MinCGPA: 2.5},
			{Label: "Pass", MinCGPA: 2.0},
			{Label: "Fail", MinCGPA: 0.0},
		}
	}
	return []ClassificationThreshold{
		{Label: "First Class", MinCGPA: 3.5},
		{Label: "Second Class Upper", MinCGPA: 3.0},
		{Label: "Second Class Lower", MinCGPA: 2.0},
		{Label: "Third Class", MinCGPA: 1.0},
		{Label: "Fail", MinCGPA: 0.0},
	}
}

// Classify picks the first threshold (descending by MinCGPA) whose
// minimum the average meets. An empty threshold list falls back to the
// scheme's default ladder. The final band acts as the catch-all.
func Classify(cgpa float64, thresholds []ClassificationThreshold, scheme ClassificationScheme) string {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds(scheme)
	}

	ordered := make([]ClassificationThreshold, len(thresholds))
	copy(ordered, thresholds)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinCGPA > ordered[j].MinCGPA
	})

	for _, t := range ordered {
		if cgpa >= t.MinCGPA {
			return t.Label
		}
	}
	return ordered[len(ordered)-1].Label
}
