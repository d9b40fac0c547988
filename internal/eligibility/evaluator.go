// Package eligibility decides whether a student may take a course,
// based on the program's declared prerequisite graph and the shared
// pass predicate from the metrics engine.
package eligibility

import (
	"context"
	"sort"
	"strings"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/metrics"
	"github.com/acadhub/academic-core/pkg/logger"
)

// Result is the outcome of a prerequisite check.
type Result struct {
	// OK is true when every prerequisite is satisfied.
	OK bool

	// Reason names the missing course codes (sorted, comma-joined)
	// when OK is false.
	Reason string
}

// CourseEligibility is one row of a course-suggestion batch.
type CourseEligibility struct {
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	OK          bool   `json:"ok"`
	Reason      string `json:"reason,omitempty"`
}

// Evaluator checks prerequisites and suggests registrable courses.
type Evaluator struct {
	engine      *metrics.Engine
	enrollments academic.EnrollmentReader
	curriculum  curriculum.Reader
	log         *logger.Logger
}

// NewEvaluator creates an Evaluator. The engine carries the active
// policy and scale; readers supply prerequisite and enrollment data.
func NewEvaluator(engine *metrics.Engine, enrollments academic.EnrollmentReader, cur curriculum.Reader, log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Default()
	}
	return &Evaluator{engine: engine, enrollments: enrollments, curriculum: cur, log: log}
}

// passedCourse resolves the pass predicate for one course, loading the
// student's attempts at that course code.
func (ev *Evaluator) passedCourse(ctx context.Context, studentRef, courseCode string) (bool, error) {
	attempts, err := ev.enrollments.ListEnrollmentsForCourse(ctx, studentRef, courseCode)
	if err != nil {
		return false, err
	}
	return ev.engine.PassedCourse(attempts), nil
}

// CheckPrerequisites reports whether the student satisfies every
// prerequisite declared for the course within the program.
//
// When the prerequisite source is unavailable the check fails open:
// prerequisitesUnknown is treated as satisfied. This is a deliberate
// availability/strictness trade-off, logged so it is never silent.
func (ev *Evaluator) CheckPrerequisites(ctx context.Context, studentRef, programCode, courseCode string) (Result, error) {
	prereqs, err := ev.curriculum.ListPrerequisites(ctx, programCode, courseCode)
	if err != nil {
		ev.log.Warn("prerequisite source unavailable, failing open",
			logger.StudentRef(studentRef),
			logger.CourseCode(courseCode),
			logger.Err(err),
		)
		return Result{OK: true}, nil
	}

	var missing []string
	for _, p := range prereqs {
		passed, err := ev.passedCourse(ctx, studentRef, p.RequiredCourse)
		if err != nil {
			return Result{}, err
		}
		if !passed {
			missing = append(missing, p.RequiredCourse)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return Result{
			OK:     false,
			Reason: "Missing prerequisites: " + strings.Join(missing, ", "),
		}, nil
	}
	return Result{OK: true}, nil
}

// SuggestCourses iterates the program's curriculum for the student's
// current level and the given semester, skips courses already passed,
// and returns one eligibility row per remaining course.
func (ev *Evaluator) SuggestCourses(ctx context.Context, student *academic.Student, semester academic.Semester) ([]CourseEligibility, error) {
	if student.ProgramCode == "" || student.CurrentLevel == "" {
		return nil, nil
	}

	courses, err := ev.curriculum.ListCurriculum(ctx, student.ProgramCode, student.CurrentLevel, semester)
	if err != nil {
		return nil, err
	}

	suggestions := make([]CourseEligibility, 0, len(courses))
	for _, cc := range courses {
		passed, err := ev.passedCourse(ctx, student.StudentRef, cc.CourseCode)
		if err != nil {
			return nil, err
		}
		if passed {
			continue
		}

		res, err := ev.CheckPrerequisites(ctx, student.StudentRef, student.ProgramCode, cc.CourseCode)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, CourseEligibility{
			CourseCode:  cc.CourseCode,
			CourseTitle: cc.CourseTitle,
			OK:          res.OK,
			Reason:      res.Reason,
		})
	}

	return suggestions, nil
}
