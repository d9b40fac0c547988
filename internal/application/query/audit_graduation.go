package query

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/graduation"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT GRADUATION QUERY
// Runs a full graduation audit: compulsory-course coverage, unit
// minimum, cumulative average, and degree classification.
// ══════════════════════════════════════════════════════════════════════════════

// AuditGraduationQuery carries the parameters of an audit.
type AuditGraduationQuery struct {
	// StudentRef identifies the student.
	StudentRef string
}

// Validate checks the query parameters.
func (q *AuditGraduationQuery) Validate() error {
	if q.StudentRef == "" {
		return errors.New("student_ref must be provided")
	}
	return nil
}

// AuditGraduationResult is the audit outcome.
type AuditGraduationResult struct {
	StudentRef  string `json:"student_ref"`
	StudentName string `json:"student_name"`
	ProgramCode string `json:"program_code,omitempty"`

	// Audit carries the eligibility decision, metrics, findings and
	// classification.
	Audit graduation.AuditResult `json:"audit"`

	// GeneratedAt is the audit time.
	GeneratedAt time.Time `json:"generated_at"`
}

// AuditGraduationHandler handles graduation audits.
type AuditGraduationHandler struct {
	students    academic.StudentReader
	enrollments academic.EnrollmentReader
	scales      academic.ScaleReader
	policies    academic.PolicyReader
	curriculum  curriculum.Reader
}

// NewAuditGraduationHandler creates a new handler.
func NewAuditGraduationHandler(
	students academic.StudentReader,
	enrollments academic.EnrollmentReader,
	scales academic.ScaleReader,
	policies academic.PolicyReader,
	cur curriculum.Reader,
) *AuditGraduationHandler {
	return &AuditGraduationHandler{
		students:    students,
		enrollments: enrollments,
		scales:      scales,
		policies:    policies,
		curriculum:  cur,
	}
}

// Handle executes the query.
func (h *AuditGraduationHandler) Handle(ctx context.Context, query AuditGraduationQuery) (*AuditGraduationResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "AuditGraduation", shared.ErrValidation, err.Error(), err)
	}

	student, err := h.students.GetStudent(ctx, query.StudentRef)
	if err != nil {
		return nil, shared.WrapError("query", "AuditGraduation", shared.ErrNotFound, "student not found", err)
	}

	engine, err := buildEngine(ctx, h.scales, h.policies)
	if err != nil {
		return nil, err
	}
	auditor := graduation.NewAuditor(engine, h.enrollments, h.curriculum)

	audit, err := auditor.Audit(ctx, student)
	if err != nil {
		return nil, shared.WrapError("query", "AuditGraduation", shared.ErrStorageUnavailable, "failed to run graduation audit", err)
	}

	return &AuditGraduationResult{
		StudentRef:  student.StudentRef,
		StudentName: student.FullName(),
		ProgramCode: student.ProgramCode,
		Audit:       *audit,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
