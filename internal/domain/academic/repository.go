package academic

import "context"

// Read interfaces over the relational store owned by the surrounding
// application. The core never writes academic records; it only reads
// them for aggregation, eligibility, audits, and payload building.

// StudentReader loads student identity snapshots.
type StudentReader interface {
	// GetStudent returns the student with the given institution id.
	GetStudent(ctx context.Context, studentRef string) (*Student, error)

	// ListStudentRefs returns the ids of all students, for batch jobs.
	ListStudentRefs(ctx context.Context) ([]string, error)
}

// EnrollmentReader loads a student's attempts with grades attached.
type EnrollmentReader interface {
	// ListEnrollments returns every enrollment for a student, ordered
	// by session then course code so payload building is stable.
	ListEnrollments(ctx context.Context, studentRef string) ([]Enrollment, error)

	// ListEnrollmentsForCourse returns the student's attempts at one
	// course code.
	ListEnrollmentsForCourse(ctx context.Context, studentRef, courseCode string) ([]Enrollment, error)
}

// ScaleReader loads the configured grading scale.
type ScaleReader interface {
	GetGradingScale(ctx context.Context) (*GradingScale, error)
}

// PolicyReader loads the effective academic policy. Implementations
// return DefaultPolicy when no row is configured; a missing policy is
// a documented safe default, never an error.
type PolicyReader interface {
	GetPolicy(ctx context.Context) (Policy, error)
}
