package metrics

import (
	"math"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Metrics is the aggregation result for one student.
type Metrics struct {
	// CGPA is the cumulative grade-point average, rounded to two
	// decimal places; 0.0 when no units counted.
	CGPA float64

	// TotalUnits is the unit sum over counted attempts, including
	// attempts whose points were excluded (no grade, no scale entry,
	// or approval-gated).
	TotalUnits int

	// PassedUnits is the unit sum over attempts with grade point > 0,
	// across all attempts regardless of repeat-policy selection.
	PassedUnits int

	// SessionsCompleted is the number of distinct sessions with at
	// least one enrollment.
	SessionsCompleted int
}

// Engine computes grade-point aggregates for a student's enrollments.
// The grading scale and academic policy are injected at construction
// so every computation is deterministic: recomputation depends only on
// the raw enrollment rows, never on prior computed values.
type Engine struct {
	scale  *academic.GradingScale
	policy academic.Policy
}

// NewEngine creates an aggregation engine. A nil scale is tolerated
// and resolves every lookup to "does not count".
func NewEngine(scale *academic.GradingScale, policy academic.Policy) *Engine {
	return &Engine{scale: scale, policy: policy}
}

// CountsForMetrics is the single centralized approval-gating predicate:
// a grade contributes points iff it exists, has a letter, and either
// the gate is off or the approval workflow accepted it. Every
// policy-sensitive computation (metrics, eligibility, graduation)
// consults this predicate rather than re-checking the flag ad hoc.
func (e *Engine) CountsForMetrics(g *academic.Grade) bool {
	if !g.HasLetter() {
		return false
	}
	if e.policy.RequireApprovedForMetrics && !g.Status.IsApproved() {
		return false
	}
	return true
}

// GradePoint resolves the grade-point value for one attempt, honoring
// the approval gate. The second return is false when the attempt
// contributes no points: no grade, unapproved under the gate, or a
// letter missing from the scale. None of these are errors.
func (e *Engine) GradePoint(en academic.Enrollment) (float64, bool) {
	if !e.CountsForMetrics(en.Grade) {
		return 0, false
	}
	return e.scale.PointFor(en.Grade.Letter)
}

// Passed reports whether a single attempt is a pass: a resolved grade
// point exists and is strictly greater than zero.
func (e *Engine) Passed(en academic.Enrollment) bool {
	point, ok := e.GradePoint(en)
	return ok && point > 0
}

// PassedCourse reports whether any of the given attempts (all for one
// course code) is a pass. This is the single source of truth for
// "did the student pass this course", used by both eligibility and
// graduation checks.
func (e *Engine) PassedCourse(attempts []academic.Enrollment) bool {
	for _, a := range attempts {
		if e.Passed(a) {
			return true
		}
	}
	return false
}

// ComputeMetrics aggregates a student's enrollments into CGPA and unit
// totals under the injected policy and scale.
//
// Units accumulate for every attempt in the counted set; points only
// for attempts whose grade point resolves. An attempt in the counted
// set with points excluded for approval reasons still counts toward
// TotalUnits, the same as an ungraded attempt.
func (e *Engine) ComputeMetrics(enrollments []academic.Enrollment) Metrics {
	counted := SelectAttempts(enrollments, e.policy.Repeat, e.scale)

	var (
		totalPoints float64
		totalUnits  int
		passedUnits int
	)
	sessions := make(map[string]struct{})

	for _, en := range enrollments {
		sessions[en.Session] = struct{}{}

		point, ok := e.GradePoint(en)
		if ok && point > 0 {
			passedUnits += en.Units
		}

		if _, in := counted[en.ID]; !in {
			continue
		}
		totalUnits += en.Units
		if ok {
			totalPoints += float64(en.Units) * point
		}
	}

	m := Metrics{
		TotalUnits:        totalUnits,
		PassedUnits:       passedUnits,
		SessionsCompleted: len(sessions),
	}
	if totalUnits > 0 {
		m.CGPA = round2(totalPoints / float64(totalUnits))
	}
	return m
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
