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
// SUGGEST COURSES QUERY
// Lists the curriculum courses for the student's current level and a
// semester, minus courses already passed, with a per-course
// prerequisite verdict.
// ══════════════════════════════════════════════════════════════════════════════

// SuggestCoursesQuery carries the parameters of a suggestion request.
type SuggestCoursesQuery struct {
	// StudentRef identifies the student.
	StudentRef string

	// Semester selects the curriculum slice, e.g. FIRST or SECOND.
	Semester string
}

// Validate checks the query parameters.
func (q *SuggestCoursesQuery) Validate() error {
	if q.StudentRef == "" {
		return errors.New("student_ref must be provided")
	}
	if !academic.ParseSemester(q.Semester).IsValid() {
		return errors.New("semester must be one of FIRST, SECOND, SUMMER")
	}
	return nil
}

// SuggestCoursesResult lists registrable courses.
type SuggestCoursesResult struct {
	StudentRef string `json:"student_ref"`
	Semester   string `json:"semester"`

	// Courses carries one row per remaining curriculum course.
	Courses []eligibility.CourseEligibility `json:"courses"`
}

// SuggestCoursesHandler handles course suggestions.
type SuggestCoursesHandler struct {
	students    academic.StudentReader
	enrollments academic.EnrollmentReader
	scales      academic.ScaleReader
	policies    academic.PolicyReader
	curriculum  curriculum.Reader
	log         *logger.Logger
}

// NewSuggestCoursesHandler creates a new handler.
func NewSuggestCoursesHandler(
	students academic.StudentReader,
	enrollments academic.EnrollmentReader,
	scales academic.ScaleReader,
	policies academic.PolicyReader,
	cur curriculum.Reader,
	log *logger.Logger,
) *SuggestCoursesHandler {
	return &SuggestCoursesHandler{
		students:    students,
		enrollments: enrollments,
		scales:      scales,
		policies:    policies,
		curriculum:  cur,
		log:         log,
	}
}

// Handle executes the query.
func (h *SuggestCoursesHandler) Handle(ctx context.Context, query SuggestCoursesQuery) (*SuggestCoursesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "SuggestCourses", shared.ErrValidation, err.Error(), err)
	}
	semester := academic.ParseSemester(query.Semester)

	student, err := h.students.GetStudent(ctx, query.StudentRef)
	if err != nil {
		return nil, shared.WrapError("query", "SuggestCourses", shared.ErrNotFound, "student not found", err)
	}

	engine, err := buildEngine(ctx, h.scales, h.policies)
	if err != nil {
		return nil, err
	}
	evaluator := eligibility.NewEvaluator(engine, h.enrollments, h.curriculum, h.log)

	courses, err := evaluator.SuggestCourses(ctx, student, semester)
	if err != nil {
		return nil, shared.WrapError("query", "SuggestCourses", shared.ErrStorageUnavailable, "failed to suggest courses", err)
	}

	return &SuggestCoursesResult{
		StudentRef: student.StudentRef,
		Semester:   string(semester),
		Courses:    courses,
	}, nil
}
