package query

import (
	"context"
	"errors"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/eligibility"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECK PREREQUISITES QUERY
// Decides whether a student may register for a course, based on the
// program's declared prerequisite rows and the shared pass predicate.
// ══════════════════════════════════════════════════════════════════════════════

// CheckPrerequisitesQuery carries the parameters of a check.
type CheckPrerequisitesQuery struct {
	// StudentRef identifies the student.
	StudentRef string

	// CourseCode is the course the student wants to take.
	CourseCode string

	// ProgramCode scopes the prerequisite rows. Empty means the
	// student's own program.
	ProgramCode string
}

// Validate checks the query parameters.
func (q *CheckPrerequisitesQuery) Validate() error {
	if q.StudentRef == "" {
		return errors.New("student_ref must be provided")
	}
	if q.CourseCode == "" {
		return errors.New("course_code must be provided")
	}
	return nil
}

// CheckPrerequisitesResult is the eligibility decision.
type CheckPrerequisitesResult struct {
	StudentRef string `json:"student_ref"`
	CourseCode string `json:"course_code"`

	// Eligible is true when every prerequisite is satisfied.
	Eligible bool `json:"eligible"`

	// Reason names the missing courses when Eligible is false.
	Reason string `json:"reason,omitempty"`
}

// CheckPrerequisitesHandler handles prerequisite checks.
type CheckPrerequisitesHandler struct {
	students    academic.StudentReader
	enrollments academic.EnrollmentReader
	scales      academic.ScaleReader
	policies    academic.PolicyReader
	curriculum  curriculum.Reader
	log         *logger.Logger
}

// NewCheckPrerequisitesHandler creates a new handler.
func NewCheckPrerequisitesHandler(
	students academic.StudentReader,
	enrollments academic.EnrollmentReader,
	scales academic.ScaleReader,
	policies academic.PolicyReader,
	cur curriculum.Reader,
	log *logger.Logger,
) *CheckPrerequisitesHandler {
	return &CheckPrerequisitesHandler{
		students:    students,
		enrollments: enrollments,
		scales:      scales,
		policies:    policies,
		curriculum:  cur,
		log:         log,
	}
}

// Handle executes the query.
func (h *CheckPrerequisitesHandler) Handle(ctx context.Context, query CheckPrerequisitesQuery) (*CheckPrerequisitesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "CheckPrerequisites", shared.ErrValidation, err.Error(), err)
	}

	programCode := query.ProgramCode
	if programCode == "" {
		student, err := h.students.GetStudent(ctx, query.StudentRef)
		if err != nil {
			return nil, shared.WrapError("query", "CheckPrerequisites", shared.ErrNotFound, "student not found", err)
		}
		programCode = student.ProgramCode
	}

	engine, err := buildEngine(ctx, h.scales, h.policies)
	if err != nil {
		return nil, err
	}
	evaluator := eligibility.NewEvaluator(engine, h.enrollments, h.curriculum, h.log)

	res, err := evaluator.CheckPrerequisites(ctx, query.StudentRef, programCode, query.CourseCode)
	if err != nil {
		return nil, shared.WrapError("query", "CheckPrerequisites", shared.ErrStorageUnavailable, "failed to check prerequisites", err)
	}

	return &CheckPrerequisitesResult{
		StudentRef: query.StudentRef,
		CourseCode: query.CourseCode,
		Eligible:   res.OK,
		Reason:     res.Reason,
	}, nil
}
