// Package timeutil provides academic calendar helpers: mapping wall
// clock time to session labels and semesters, and the date formats
// printed on issued documents. No external dependencies - uses only
// standard library.
package timeutil

import (
	"fmt"
	"time"
)

// Academic calendar constants. Sessions roll over in September; the
// second semester starts in February and the summer term in July.
const (
	// SessionStartMonth is the month a new academic session begins.
	SessionStartMonth = time.September

	// SecondSemesterStartMonth is when the second semester begins.
	SecondSemesterStartMonth = time.February

	// SummerTermStartMonth is when the summer term begins.
	SummerTermStartMonth = time.July
)

// Semester labels as they appear in enrollment records.
const (
	SemesterFirst  = "FIRST"
	SemesterSecond = "SECOND"
	SemesterSummer = "SUMMER"
)

// SessionStartYear returns the calendar year the session containing t
// began. A March 2025 date belongs to the 2024/2025 session.
func SessionStartYear(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	year := local.Year()
	if local.Month() < SessionStartMonth {
		year--
	}
	return year
}

// SessionLabel returns the session label for t, e.g. "2024/2025".
func SessionLabel(t time.Time, loc *time.Location) string {
	start := SessionStartYear(t, loc)
	return fmt.Sprintf("%d/%d", start, start+1)
}

// SemesterForTime returns the semester label in effect at t.
func SemesterForTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	month := t.In(loc).Month()
	switch {
	case month >= SessionStartMonth || month == time.January:
		return SemesterFirst
	case month >= SummerTermStartMonth:
		return SemesterSummer
	default:
		return SemesterSecond
	}
}

// StartOfSession returns the first instant of the session containing t.
func StartOfSession(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(SessionStartYear(t, loc), SessionStartMonth, 1, 0, 0, 0, 0, loc)
}

// SameSession reports whether two times fall in the same session.
func SameSession(a, b time.Time, loc *time.Location) bool {
	return SessionStartYear(a, loc) == SessionStartYear(b, loc)
}

// Date/time formats used on issued documents.
const (
	// FormatDocumentDate is the date printed on transcripts.
	FormatDocumentDate = "2 January 2006"

	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"

	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// FormatDocument formats a time the way it appears on an issued
// document, in the given location.
func FormatDocument(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(FormatDocumentDate)
}
