// Package academic contains the core academic record model: students,
// enrollments, grades, the grading scale, and the institution-wide
// academic policy. The package has no external dependencies; all data
// is loaded through the read interfaces in repository.go and injected
// into the computation engines.
package academic

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Semester identifies the term within an academic session.
type Semester string

const (
	SemesterFirst  Semester = "FIRST"
	SemesterSecond Semester = "SECOND"
	SemesterSummer Semester = "SUMMER"
)

// Ordinal returns the within-session ordering of the semester.
// Unknown semesters order before every known one.
func (s Semester) Ordinal() int {
	switch s {
	case SemesterFirst:
		return 1
	case SemesterSecond:
		return 2
	case SemesterSummer:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether the semester is one of the known values.
func (s Semester) IsValid() bool {
	return s.Ordinal() > 0
}

// ParseSemester normalizes a raw semester string.
func ParseSemester(raw string) Semester {
	return Semester(strings.ToUpper(strings.TrimSpace(raw)))
}

// GradeStatus tracks a grade through the approval workflow. The workflow
// itself (submission, approval, rejection) is owned by the surrounding
// application; the core only reads the status.
type GradeStatus string

const (
	GradeStatusDraft     GradeStatus = "DRAFT"
	GradeStatusSubmitted GradeStatus = "SUBMITTED"
	GradeStatusApproved  GradeStatus = "APPROVED"
	GradeStatusRejected  GradeStatus = "REJECTED"
)

// IsApproved reports whether the grade passed the approval workflow.
func (s GradeStatus) IsApproved() bool {
	return s == GradeStatusApproved
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Grade is the assessment outcome of one enrollment. Letter and
// TotalScore are derived by the grade-entry workflow; the core treats
// them as read-only inputs.
type Grade struct {
	// EnrollmentID links the grade to its attempt.
	EnrollmentID string

	// Letter is the derived letter grade (e.g. "A"). Empty when scores
	// have been entered but no scale band matched.
	Letter string

	// TotalScore is the sum of component scores.
	TotalScore float64

	// Status is the approval workflow state.
	Status GradeStatus
}

// HasLetter reports whether a letter grade was derived.
func (g *Grade) HasLetter() bool {
	return g != nil && g.Letter != ""
}

// Enrollment is one student's attempt at one course offering in one
// session/semester. A repeated course produces multiple enrollments
// sharing the same CourseCode.
type Enrollment struct {
	// ID uniquely identifies the attempt.
	ID string

	// StudentRef identifies the owning student (institution student id).
	StudentRef string

	// CourseCode and CourseTitle describe the course offering.
	CourseCode  string
	CourseTitle string

	// Units is the credit-unit weight of the course.
	Units int

	// Session is the session label, e.g. "2023/2024".
	Session string

	// Semester is the term within the session.
	Semester Semester

	// Grade is the assessment outcome, nil while ungraded.
	Grade *Grade
}

// TermKey returns the chronological ordering key of this attempt.
func (e *Enrollment) TermKey() TermKey {
	return NewTermKey(e.Session, e.Semester)
}

// Student is the identity snapshot the core needs for metric scoping
// and canonical payload building. The full student aggregate (contact
// details, status history) lives in the surrounding application.
type Student struct {
	// StudentRef is the institution-assigned student identifier.
	StudentRef string

	FirstName string
	LastName  string

	// EntryLevel and CurrentLevel are level names, e.g. "100", "ND I".
	EntryLevel   string
	CurrentLevel string

	// CurrentSession is the session the student is registered in.
	CurrentSession string

	// ProgramCode references the student's program, empty if unassigned.
	ProgramCode string
}

// FullName returns the display name used in verification records.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Institution holds the display identity embedded into canonical
// payloads. The verification secret is deliberately NOT part of this
// struct; it must never travel with a payload.
type Institution struct {
	Name    string
	Address string
}
