// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE METRICS QUERY
// Recomputes a student's academic aggregates (CGPA, unit totals,
// sessions) from raw enrollment rows under the active grading scale
// and policy. Always derived, never read from a stored snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeMetricsQuery carries the parameters of a metrics computation.
type ComputeMetricsQuery struct {
	// StudentRef identifies the student.
	StudentRef string
}

// Validate checks the query parameters.
func (q *ComputeMetricsQuery) Validate() error {
	if q.StudentRef == "" {
		return errors.New("student_ref must be provided")
	}
	return nil
}

// ComputeMetricsResult is the computed aggregate snapshot.
type ComputeMetricsResult struct {
	// StudentRef and StudentName identify the student.
	StudentRef  string `json:"student_ref"`
	StudentName string `json:"student_name"`

	// CGPA is the cumulative grade-point average, two decimal places.
	CGPA float64 `json:"cgpa"`

	// TotalUnits is the counted unit total under the repeat policy.
	TotalUnits int `json:"total_units"`

	// PassedUnits is the unit total over passed attempts.
	PassedUnits int `json:"passed_units"`

	// SessionsCompleted is the number of distinct enrollment sessions.
	SessionsCompleted int `json:"sessions_completed"`

	// GeneratedAt is the computation time.
	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeMetricsHandler handles metric computations.
type ComputeMetricsHandler struct {
	students    academic.StudentReader
	enrollments academic.EnrollmentReader
	scales      academic.ScaleReader
	policies    academic.PolicyReader
}

// NewComputeMetricsHandler creates a new handler.
func NewComputeMetricsHandler(
	students academic.StudentReader,
	enrollments academic.EnrollmentReader,
	scales academic.ScaleReader,
	policies academic.PolicyReader,
) *ComputeMetricsHandler {
	return &ComputeMetricsHandler{
		students:    students,
		enrollments: enrollments,
		scales:      scales,
		policies:    policies,
	}
}

// Handle executes the query.
func (h *ComputeMetricsHandler) Handle(ctx context.Context, query ComputeMetricsQuery) (*ComputeMetricsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ComputeMetrics", shared.ErrValidation, err.Error(), err)
	}

	student, err := h.students.GetStudent(ctx, query.StudentRef)
	if err != nil {
		return nil, shared.WrapError("query", "ComputeMetrics", shared.ErrNotFound, "student not found", err)
	}

	engine, err := buildEngine(ctx, h.scales, h.policies)
	if err != nil {
		return nil, err
	}

	enrollments, err := h.enrollments.ListEnrollments(ctx, student.StudentRef)
	if err != nil {
		return nil, shared.WrapError("query", "ComputeMetrics", shared.ErrStorageUnavailable, "failed to load enrollments", err)
	}

	m := engine.ComputeMetrics(enrollments)

	return &ComputeMetricsResult{
		StudentRef:        student.StudentRef,
		StudentName:       student.FullName(),
		CGPA:              m.CGPA,
		TotalUnits:        m.TotalUnits,
		PassedUnits:       m.PassedUnits,
		SessionsCompleted: m.SessionsCompleted,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

// buildEngine assembles an aggregation engine from the active scale
// and policy. Shared by every handler that computes grade points.
func buildEngine(ctx context.Context, scales academic.ScaleReader, policies academic.PolicyReader) (*metrics.Engine, error) {
	scale, err := scales.GetGradingScale(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "BuildEngine", shared.ErrStorageUnavailable, "failed to load grading scale", err)
	}
	policy, err := policies.GetPolicy(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "BuildEngine", shared.ErrStorageUnavailable, "failed to load academic policy", err)
	}
	return metrics.NewEngine(scale, policy), nil
}
