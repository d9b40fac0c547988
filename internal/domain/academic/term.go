package academic

import "regexp"

// TermKey orders attempts chronologically. Session labels carry no
// structured date, so the year is extracted best-effort from the label
// ("2023/2024" -> 2023); labels without a 4-digit year sort first.
type TermKey struct {
	Year    int
	Ordinal int
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// NewTermKey derives the ordering key from a session label and semester.
func NewTermKey(session string, semester Semester) TermKey {
	return TermKey{
		Year:    sessionYear(session),
		Ordinal: semester.Ordinal(),
	}
}

// sessionYear extracts the first 4-digit year from a session label,
// defaulting to 0 when absent.
func sessionYear(session string) int {
	m := yearPattern.FindString(session)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}

// Compare returns -1, 0, or 1 comparing k to other lexicographically
// on (year, semester ordinal).
func (k TermKey) Compare(other TermKey) int {
	switch {
	case k.Year != other.Year:
		if k.Year < other.Year {
			return -1
		}
		return 1
	case k.Ordinal != other.Ordinal:
		if k.Ordinal < other.Ordinal {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether k orders strictly before other.
func (k TermKey) Before(other TermKey) bool {
	return k.Compare(other) < 0
}
