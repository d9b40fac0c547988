package academic

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// ACADEMIC POLICY
// ══════════════════════════════════════════════════════════════════════════════

// RepeatPolicy selects which attempts count toward GPA/CGPA when a
// course was attempted more than once.
type RepeatPolicy string

const (
	// RepeatAll counts every attempt.
	RepeatAll RepeatPolicy = "ALL"

	// RepeatLatest counts only the latest attempt per course, ordered
	// by TermKey.
	RepeatLatest RepeatPolicy = "LATEST"

	// RepeatBest counts only the best attempt per course by grade
	// point, ties broken by latest term.
	RepeatBest RepeatPolicy = "BEST"
)

// Normalize uppercases the policy and maps unknown values to RepeatAll.
// Failing open here is deliberate: a bad policy row must never zero out
// a transcript.
func (p RepeatPolicy) Normalize() RepeatPolicy {
	switch RepeatPolicy(strings.ToUpper(strings.TrimSpace(string(p)))) {
	case RepeatLatest:
		return RepeatLatest
	case RepeatBest:
		return RepeatBest
	default:
		return RepeatAll
	}
}

// Policy is the institution-wide academic computation policy. Exactly
// one policy is effective at a time; it is loaded explicitly and passed
// into every engine rather than read from ambient global state, so
// computations stay deterministic and testable.
type Policy struct {
	// Repeat selects the counted attempts for repeated courses.
	Repeat RepeatPolicy

	// RequireApprovedForMetrics gates CGPA/metrics computation on the
	// grade approval workflow: when set, unapproved grades contribute
	// no points.
	RequireApprovedForMetrics bool

	// RequireApprovedForExports gates grade exports.
	RequireApprovedForExports bool

	// RequireApprovedForTranscripts gates transcript line items: when
	// set, unapproved grades render as pending on generated documents.
	RequireApprovedForTranscripts bool
}

// DefaultPolicy is the safe fallback when no policy row is configured:
// count all attempts, no approval gating.
func DefaultPolicy() Policy {
	return Policy{Repeat: RepeatAll}
}
