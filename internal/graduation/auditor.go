// Package graduation audits whether a student is eligible to graduate
// and assigns a degree classification from program-specific thresholds.
package graduation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/metrics"
)

// AuditResult is the outcome of a graduation audit.
type AuditResult struct {
	// Eligible is true when no compulsory courses are missing and the
	// unit minimum (if any) is met.
	Eligible bool `json:"eligible"`

	// CGPA is the cumulative average over the student's entire
	// enrollment history.
	CGPA float64 `json:"cgpa"`

	// TotalUnits is the counted unit total from the aggregation engine.
	TotalUnits int `json:"total_units"`

	// MissingCompulsory lists compulsory course codes without a pass,
	// sorted and deduplicated.
	MissingCompulsory []string `json:"missing_compulsory"`

	// Classification is the awarded band label; nil when ineligible.
	Classification *string `json:"classification,omitempty"`

	// Notes carries human-readable findings, e.g. unit shortfalls.
	Notes []string `json:"notes"`
}

// Auditor runs graduation audits against a program's requirements.
type Auditor struct {
	engine      *metrics.Engine
	enrollments academic.EnrollmentReader
	curriculum  curriculum.Reader
}

// NewAuditor creates an Auditor sharing the aggregation engine's pass
// predicate and policy.
func NewAuditor(engine *metrics.Engine, enrollments academic.EnrollmentReader, cur curriculum.Reader) *Auditor {
	return &Auditor{engine: engine, enrollments: enrollments, curriculum: cur}
}

// Audit decides graduation eligibility and classification for the
// student. The cumulative average is scoped to the student's entire
// enrollment history, not a single program or level.
func (a *Auditor) Audit(ctx context.Context, student *academic.Student) (*AuditResult, error) {
	result := &AuditResult{Notes: []string{}, MissingCompulsory: []string{}}

	if student.ProgramCode == "" {
		result.Notes = append(result.Notes, "Student has no program assigned")
		return result, nil
	}

	program, err := a.curriculum.GetProgram(ctx, student.ProgramCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load program %s: %w", student.ProgramCode, err)
	}

	enrollments, err := a.enrollments.ListEnrollments(ctx, student.StudentRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	m := a.engine.ComputeMetrics(enrollments)
	result.CGPA = m.CGPA
	result.TotalUnits = m.TotalUnits

	missing, err := a.missingCompulsory(ctx, program.Code, enrollments)
	if err != nil {
		return nil, err
	}
	result.MissingCompulsory = missing

	result.Eligible = true
	if len(missing) > 0 {
		result.Eligible = false
		result.Notes = append(result.Notes, "Missing compulsory courses: "+strings.Join(missing, ", "))
	}
	if program.MinUnitsToGraduate > 0 && m.TotalUnits < program.MinUnitsToGraduate {
		result.Eligible = false
		result.Notes = append(result.Notes, fmt.Sprintf("Insufficient units: %d/%d", m.TotalUnits, program.MinUnitsToGraduate))
	}

	if result.Eligible {
		thresholds, err := a.curriculum.ListThresholds(ctx, program.Code)
		if err != nil {
			// Threshold rows are configuration; fall back to scheme
			// defaults rather than failing the audit.
			thresholds = nil
		}
		label := curriculum.Classify(m.CGPA, thresholds, program.Scheme)
		result.Classification = &label
	}

	return result, nil
}

// missingCompulsory tests the pass predicate for every compulsory
// course in the program, across all levels and semesters. Attempts are
// grouped from the already-loaded enrollment set to avoid per-course
// round trips.
func (a *Auditor) missingCompulsory(ctx context.Context, programCode string, enrollments []academic.Enrollment) ([]string, error) {
	compulsory, err := a.curriculum.ListCompulsory(ctx, programCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load compulsory courses: %w", err)
	}

	byCourse := make(map[string][]academic.Enrollment)
	for _, en := range enrollments {
		byCourse[en.CourseCode] = append(byCourse[en.CourseCode], en)
	}

	seen := make(map[string]struct{})
	missing := make([]string, 0)
	for _, cc := range compulsory {
		if _, dup := seen[cc.CourseCode]; dup {
			continue
		}
		seen[cc.CourseCode] = struct{}{}
		if !a.engine.PassedCourse(byCourse[cc.CourseCode]) {
			missing = append(missing, cc.CourseCode)
		}
	}

	sort.Strings(missing)
	return missing, nil
}
