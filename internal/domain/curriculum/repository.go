package curriculum

import (
	"context"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

// Reader is the read interface over program/curriculum configuration
// owned by the surrounding application.
type Reader interface {
	// GetProgram returns the program with the given code.
	GetProgram(ctx context.Context, programCode string) (*Program, error)

	// ListCurriculum returns the curriculum courses for a program at a
	// level/semester. Empty level or semester matches all.
	ListCurriculum(ctx context.Context, programCode, level string, semester academic.Semester) ([]CurriculumCourse, error)

	// ListCompulsory returns the program's compulsory courses across
	// all levels and semesters.
	ListCompulsory(ctx context.Context, programCode string) ([]CurriculumCourse, error)

	// ListPrerequisites returns the prerequisite set declared for a
	// course within a program.
	ListPrerequisites(ctx context.Context, programCode, courseCode string) ([]Prerequisite, error)

	// ListThresholds returns the program's classification thresholds,
	// ordered descending by MinCGPA. An empty slice means "use the
	// scheme defaults".
	ListThresholds(ctx context.Context, programCode string) ([]ClassificationThreshold, error)
}
