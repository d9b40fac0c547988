// Package metrics implements the academic-metric aggregation engine:
// repeat-attempt selection, grade-point accumulation, and the pass
// predicate shared by eligibility checks and graduation audits.
package metrics

import (
	"github.com/acadhub/academic-core/internal/domain/academic"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTEMPT SELECTION
// ══════════════════════════════════════════════════════════════════════════════

// SelectAttempts returns the set of enrollment ids that count toward
// GPA/CGPA under the given repeat policy.
//
//   - ALL: every attempt counts.
//   - LATEST: for each course, only the latest attempt by term key.
//   - BEST: for each course, only the best attempt by grade point,
//     ties broken by latest term.
//
// Unknown policy values behave as ALL; missing data must not silently
// zero out a transcript. Display of historical attempts is unaffected
// by this selection - it is advisory for aggregation only.
func SelectAttempts(attempts []academic.Enrollment, policy academic.RepeatPolicy, scale *academic.GradingScale) map[string]struct{} {
	policy = policy.Normalize()

	counted := make(map[string]struct{}, len(attempts))
	if policy == academic.RepeatAll {
		for _, a := range attempts {
			counted[a.ID] = struct{}{}
		}
		return counted
	}

	byCourse := make(map[string][]academic.Enrollment)
	order := make([]string, 0)
	for _, a := range attempts {
		if _, seen := byCourse[a.CourseCode]; !seen {
			order = append(order, a.CourseCode)
		}
		byCourse[a.CourseCode] = append(byCourse[a.CourseCode], a)
	}

	for _, code := range order {
		group := byCourse[code]
		switch policy {
		case academic.RepeatLatest:
			counted[latestAttempt(group).ID] = struct{}{}
		case academic.RepeatBest:
			counted[bestAttempt(group, scale).ID] = struct{}{}
		}
	}

	return counted
}

// latestAttempt picks the attempt with the greatest term key. Equal
// keys resolve to the last encountered attempt.
func latestAttempt(group []academic.Enrollment) academic.Enrollment {
	best := group[0]
	for _, a := range group[1:] {
		if !a.TermKey().Before(best.TermKey()) {
			best = a
		}
	}
	return best
}

// bestAttempt picks the attempt with the greatest (grade point, term
// key) pair. Attempts without a resolvable grade point rank below
// every graded attempt.
func bestAttempt(group []academic.Enrollment, scale *academic.GradingScale) academic.Enrollment {
	best := group[0]
	bestPoint := selectionPoint(best, scale)
	for _, a := range group[1:] {
		p := selectionPoint(a, scale)
		if p > bestPoint || (p == bestPoint && !a.TermKey().Before(best.TermKey())) {
			best = a
			bestPoint = p
		}
	}
	return best
}

// selectionPoint resolves the grade point used for BEST ranking.
// Ungraded attempts and letters missing from the scale return -1 so
// they lose to any graded attempt. Selection deliberately ignores the
// approval gate; gating applies inside the aggregation loop.
func selectionPoint(e academic.Enrollment, scale *academic.GradingScale) float64 {
	if !e.Grade.HasLetter() {
		return -1
	}
	point, ok := scale.PointFor(e.Grade.Letter)
	if !ok {
		return -1
	}
	return point
}
