package academic

import (
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADING SCALE
// ══════════════════════════════════════════════════════════════════════════════

// ScaleBand maps a score band to a letter grade and grade-point value.
// Bands are configured by administrators and read-only to the core;
// gaps or overlaps between bands are a configuration concern and are
// not enforced here.
type ScaleBand struct {
	// Letter is the band name, e.g. "A", "B+".
	Letter string

	// MinScore and MaxScore delimit the band (inclusive minimum).
	MinScore float64
	MaxScore float64

	// Point is the grade-point value awarded for the band.
	Point float64
}

// GradingScale is an ordered list of grade bands. Construct with
// NewGradingScale so resolution order is deterministic.
type GradingScale struct {
	bands    []ScaleBand
	byLetter map[string]ScaleBand
}

// NewGradingScale builds a scale from bands in any order. Bands are
// sorted descending by MinScore, matching how score resolution walks
// the scale.
func NewGradingScale(bands []ScaleBand) *GradingScale {
	sorted := make([]ScaleBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinScore > sorted[j].MinScore
	})

	byLetter := make(map[string]ScaleBand, len(sorted))
	for _, b := range sorted {
		key := normalizeLetter(b.Letter)
		if _, exists := byLetter[key]; !exists {
			byLetter[key] = b
		}
	}

	return &GradingScale{bands: sorted, byLetter: byLetter}
}

// Bands returns the bands in descending MinScore order.
func (s *GradingScale) Bands() []ScaleBand {
	out := make([]ScaleBand, len(s.bands))
	copy(out, s.bands)
	return out
}

// Len returns the number of configured bands.
func (s *GradingScale) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bands)
}

// Resolve maps a numeric score to the first band whose MinScore it
// meets. The second return is false when no band matches (score below
// the lowest band, or an empty scale).
func (s *GradingScale) Resolve(score float64) (ScaleBand, bool) {
	if s == nil {
		return ScaleBand{}, false
	}
	for _, b := range s.bands {
		if score >= b.MinScore {
			return b, true
		}
	}
	return ScaleBand{}, false
}

// PointFor looks up the grade-point value for a letter grade. A missing
// entry is a lookup miss, never an error: the aggregation engine treats
// it as "does not count".
func (s *GradingScale) PointFor(letter string) (float64, bool) {
	if s == nil || letter == "" {
		return 0, false
	}
	b, ok := s.byLetter[normalizeLetter(letter)]
	if !ok {
		return 0, false
	}
	return b.Point, true
}

// MaxPoint returns the highest grade-point value on the scale. The
// cumulative average is bounded by this value by construction.
func (s *GradingScale) MaxPoint() float64 {
	max := 0.0
	if s == nil {
		return max
	}
	for _, b := range s.bands {
		if b.Point > max {
			max = b.Point
		}
	}
	return max
}

func normalizeLetter(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}
