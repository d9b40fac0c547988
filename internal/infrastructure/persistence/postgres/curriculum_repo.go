package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CURRICULUM READ SIDE
// ══════════════════════════════════════════════════════════════════════════════

// CurriculumRepository implements curriculum.Reader for PostgreSQL.
type CurriculumRepository struct {
	conn *Connection
}

// NewCurriculumRepository creates a new CurriculumRepository.
func NewCurriculumRepository(conn *Connection) *CurriculumRepository {
	return &CurriculumRepository{conn: conn}
}

// GetProgram returns the program with the given code.
func (r *CurriculumRepository) GetProgram(ctx context.Context, code string) (*curriculum.Program, error) {
	query := `
		SELECT code, name, min_units_to_graduate, scheme
		FROM programs
		WHERE code = $1
	`

	var (
		p      curriculum.Program
		scheme string
	)
	err := r.conn.QueryRow(ctx, query, code).Scan(
		&p.Code,
		&p.Name,
		&p.MinUnitsToGraduate,
		&scheme,
	)
	if IsNoRows(err) {
		return nil, shared.ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	p.Scheme = curriculum.ClassificationScheme(scheme)
	return &p, nil
}

// ListCurriculum returns the curriculum slice for a program, level and
// semester.
func (r *CurriculumRepository) ListCurriculum(ctx context.Context, programCode, level string, semester academic.Semester) ([]curriculum.CurriculumCourse, error) {
	query := `
		SELECT program_code, course_code, course_title, units, level, semester, compulsory
		FROM curriculum_courses
		WHERE program_code = $1 AND level = $2 AND semester = $3
		ORDER BY course_code
	`

	rows, err := r.conn.Query(ctx, query, programCode, level, string(semester))
	if err != nil {
		return nil, fmt.Errorf("failed to list curriculum: %w", err)
	}
	defer rows.Close()

	return scanCurriculumCourses(rows)
}

// ListCompulsory returns every compulsory course of a program, across
// all levels and semesters.
func (r *CurriculumRepository) ListCompulsory(ctx context.Context, programCode string) ([]curriculum.CurriculumCourse, error) {
	query := `
		SELECT program_code, course_code, course_title, units, level, semester, compulsory
		FROM curriculum_courses
		WHERE program_code = $1 AND compulsory
		ORDER BY course_code
	`

	rows, err := r.conn.Query(ctx, query, programCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list compulsory courses: %w", err)
	}
	defer rows.Close()

	return scanCurriculumCourses(rows)
}

// ListPrerequisites returns the prerequisite rows declared for a
// course within a program.
func (r *CurriculumRepository) ListPrerequisites(ctx context.Context, programCode, courseCode string) ([]curriculum.Prerequisite, error) {
	query := `
		SELECT program_code, course_code, required_course
		FROM prerequisites
		WHERE program_code = $1 AND course_code = $2
		ORDER BY required_course
	`

	rows, err := r.conn.Query(ctx, query, programCode, courseCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list prerequisites: %w", err)
	}
	defer rows.Close()

	var prereqs []curriculum.Prerequisite
	for rows.Next() {
		var p curriculum.Prerequisite
		if err := rows.Scan(&p.ProgramCode, &p.CourseCode, &p.RequiredCourse); err != nil {
			return nil, fmt.Errorf("failed to scan prerequisite: %w", err)
		}
		prereqs = append(prereqs, p)
	}
	return prereqs, rows.Err()
}

// ListThresholds returns the classification thresholds configured for
// a program. An empty result means the scheme defaults apply.
func (r *CurriculumRepository) ListThresholds(ctx context.Context, programCode string) ([]curriculum.ClassificationThreshold, error) {
	query := `
		SELECT label, min_cgpa
		FROM classification_thresholds
		WHERE program_code = $1
		ORDER BY min_cgpa DESC
	`

	rows, err := r.conn.Query(ctx, query, programCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list thresholds: %w", err)
	}
	defer rows.Close()

	var thresholds []curriculum.ClassificationThreshold
	for rows.Next() {
		var t curriculum.ClassificationThreshold
		if err := rows.Scan(&t.Label, &t.MinCGPA); err != nil {
			return nil, fmt.Errorf("failed to scan threshold: %w", err)
		}
		thresholds = append(thresholds, t)
	}
	return thresholds, rows.Err()
}

// scanCurriculumCourses scans curriculum rows.
func scanCurriculumCourses(rows pgx.Rows) ([]curriculum.CurriculumCourse, error) {
	var courses []curriculum.CurriculumCourse
	for rows.Next() {
		var (
			c        curriculum.CurriculumCourse
			semester string
		)
		err := rows.Scan(
			&c.ProgramCode,
			&c.CourseCode,
			&c.CourseTitle,
			&c.Units,
			&c.Level,
			&semester,
			&c.Compulsory,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan curriculum course: %w", err)
		}
		c.Semester = academic.Semester(semester)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return courses, nil
}
