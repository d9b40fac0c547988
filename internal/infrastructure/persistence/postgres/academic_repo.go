package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACADEMIC RECORD READ SIDE
// ══════════════════════════════════════════════════════════════════════════════

// AcademicRepository implements the academic read interfaces
// (StudentReader, EnrollmentReader, ScaleReader, PolicyReader) against
// the relational schema owned by the surrounding application.
type AcademicRepository struct {
	conn *Connection
}

// NewAcademicRepository creates a new AcademicRepository.
func NewAcademicRepository(conn *Connection) *AcademicRepository {
	return &AcademicRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// GetStudent returns the student with the given institution id.
func (r *AcademicRepository) GetStudent(ctx context.Context, studentRef string) (*academic.Student, error) {
	query := `
		SELECT student_ref, first_name, last_name, entry_level,
		       current_level, current_session, program_code
		FROM students
		WHERE student_ref = $1
	`

	var s academic.Student
	err := r.conn.QueryRow(ctx, query, studentRef).Scan(
		&s.StudentRef,
		&s.FirstName,
		&s.LastName,
		&s.EntryLevel,
		&s.CurrentLevel,
		&s.CurrentSession,
		&s.ProgramCode,
	)
	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &s, nil
}

// ListStudentRefs returns the ids of all students, for batch jobs.
func (r *AcademicRepository) ListStudentRefs(ctx context.Context) ([]string, error) {
	rows, err := r.conn.Query(ctx, "SELECT student_ref FROM students ORDER BY student_ref")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan student ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Enrollments
// ─────────────────────────────────────────────────────────────────────────────

const enrollmentColumns = `
	e.id, e.student_ref, e.course_code, e.course_title, e.units,
	e.session, e.semester,
	g.enrollment_id, g.letter, g.total_score, g.status
`

// ListEnrollments returns every enrollment for a student with grades
// attached, ordered by session then course code so payload building
// is stable across calls.
func (r *AcademicRepository) ListEnrollments(ctx context.Context, studentRef string) ([]academic.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments e
		LEFT JOIN grades g ON g.enrollment_id = e.id
		WHERE e.student_ref = $1
		ORDER BY e.session, e.semester, e.course_code, e.id
	`

	rows, err := r.conn.Query(ctx, query, studentRef)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

// ListEnrollmentsForCourse returns the student's attempts at one
// course code.
func (r *AcademicRepository) ListEnrollmentsForCourse(ctx context.Context, studentRef, courseCode string) ([]academic.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments e
		LEFT JOIN grades g ON g.enrollment_id = e.id
		WHERE e.student_ref = $1 AND e.course_code = $2
		ORDER BY e.session, e.semester, e.id
	`

	rows, err := r.conn.Query(ctx, query, studentRef, courseCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for course: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

// scanEnrollments scans joined enrollment+grade rows. The grade side
// of the join is nullable; ungraded attempts get a nil Grade.
func scanEnrollments(rows pgx.Rows) ([]academic.Enrollment, error) {
	var enrollments []academic.Enrollment
	for rows.Next() {
		var (
			en       academic.Enrollment
			semester string

			gradeEnrollmentID *string
			gradeLetter       *string
			gradeScore        *float64
			gradeStatus       *string
		)

		err := rows.Scan(
			&en.ID,
			&en.StudentRef,
			&en.CourseCode,
			&en.CourseTitle,
			&en.Units,
			&en.Session,
			&semester,
			&gradeEnrollmentID,
			&gradeLetter,
			&gradeScore,
			&gradeStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}

		en.Semester = academic.Semester(semester)
		if gradeEnrollmentID != nil {
			grade := academic.Grade{EnrollmentID: *gradeEnrollmentID}
			if gradeLetter != nil {
				grade.Letter = *gradeLetter
			}
			if gradeScore != nil {
				grade.TotalScore = *gradeScore
			}
			if gradeStatus != nil {
				grade.Status = academic.GradeStatus(*gradeStatus)
			}
			en.Grade = &grade
		}

		enrollments = append(enrollments, en)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return enrollments, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Grading scale and policy
// ─────────────────────────────────────────────────────────────────────────────

// GetGradingScale loads the configured scale bands.
func (r *AcademicRepository) GetGradingScale(ctx context.Context) (*academic.GradingScale, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT letter, min_score, max_score, point FROM grading_scale",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load grading scale: %w", err)
	}
	defer rows.Close()

	var bands []academic.ScaleBand
	for rows.Next() {
		var b academic.ScaleBand
		if err := rows.Scan(&b.Letter, &b.MinScore, &b.MaxScore, &b.Point); err != nil {
			return nil, fmt.Errorf("failed to scan scale band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return academic.NewGradingScale(bands), nil
}

// GetPolicy loads the single academic policy row. A missing row is the
// documented safe default, not an error.
func (r *AcademicRepository) GetPolicy(ctx context.Context) (academic.Policy, error) {
	query := `
		SELECT repeat_policy, require_approved_for_metrics,
		       require_approved_for_exports, require_approved_for_transcripts
		FROM academic_policy
		LIMIT 1
	`

	var (
		p            academic.Policy
		repeatPolicy string
	)
	err := r.conn.QueryRow(ctx, query).Scan(
		&repeatPolicy,
		&p.RequireApprovedForMetrics,
		&p.RequireApprovedForExports,
		&p.RequireApprovedForTranscripts,
	)
	if IsNoRows(err) {
		return academic.DefaultPolicy(), nil
	}
	if err != nil {
		return academic.Policy{}, fmt.Errorf("failed to load academic policy: %w", err)
	}

	p.Repeat = academic.RepeatPolicy(repeatPolicy).Normalize()
	return p, nil
}
