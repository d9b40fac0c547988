// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/docverify"
	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ISSUE VERIFICATION COMMAND
// Generates a document for a student: builds the canonical payload,
// fingerprints it, mints a verification code, and persists the record.
// The durable write is the commit point; the cache mirror never blocks.
// ══════════════════════════════════════════════════════════════════════════════

// IssueVerificationCommand carries the parameters of an issuance.
type IssueVerificationCommand struct {
	// StudentRef identifies the student the document is for.
	StudentRef string
}

// Validate checks the command parameters.
func (c *IssueVerificationCommand) Validate() error {
	if c.StudentRef == "" {
		return errors.New("student_ref must be provided")
	}
	return nil
}

// IssueVerificationResult describes the issued record.
type IssueVerificationResult struct {
	StudentRef  string `json:"student_ref"`
	StudentName string `json:"student_name"`

	// Code is the minted verification code, e.g. "TXN-9F2C01AB34DE".
	Code string `json:"code"`

	// Digest is the SHA-256 hex fingerprint of the canonical payload.
	Digest string `json:"digest"`

	// VerificationURL is the public lookup URL for the code.
	VerificationURL string `json:"verification_url"`

	// ExpiresAt is when the record stops verifying; nil when the
	// retention window is disabled.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// IssuedAt is the generation time.
	IssuedAt time.Time `json:"issued_at"`
}

// IssueVerificationHandler handles document issuance.
type IssueVerificationHandler struct {
	students    academic.StudentReader
	enrollments academic.EnrollmentReader
	scales      academic.ScaleReader
	policies    academic.PolicyReader
	issuer      *docverify.Issuer
	institution academic.Institution
}

// NewIssueVerificationHandler creates a new handler. secret and
// baseURL come from institution configuration; retention bounds record
// lifetime.
func NewIssueVerificationHandler(
	students academic.StudentReader,
	enrollments academic.EnrollmentReader,
	scales academic.ScaleReader,
	policies academic.PolicyReader,
	store verification.Store,
	cache verification.Cache,
	inst academic.Institution,
	secret, baseURL string,
	retention time.Duration,
	log *logger.Logger,
) *IssueVerificationHandler {
	return &IssueVerificationHandler{
		students:    students,
		enrollments: enrollments,
		scales:      scales,
		policies:    policies,
		issuer:      docverify.NewIssuer(store, cache, secret, baseURL, retention, log),
		institution: inst,
	}
}

// Handle executes the command.
func (h *IssueVerificationHandler) Handle(ctx context.Context, cmd IssueVerificationCommand) (*IssueVerificationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrValidation, err.Error(), err)
	}

	student, err := h.students.GetStudent(ctx, cmd.StudentRef)
	if err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrNotFound, "student not found", err)
	}

	scale, err := h.scales.GetGradingScale(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrStorageUnavailable, "failed to load grading scale", err)
	}
	policy, err := h.policies.GetPolicy(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrStorageUnavailable, "failed to load academic policy", err)
	}

	enrollments, err := h.enrollments.ListEnrollments(ctx, student.StudentRef)
	if err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrStorageUnavailable, "failed to load enrollments", err)
	}

	payload := docverify.NewBuilder(scale, policy).Build(student, enrollments, h.institution)

	issued, err := h.issuer.Issue(ctx, student, payload, h.institution)
	if err != nil {
		return nil, shared.WrapError("command", "IssueVerification", shared.ErrStorageUnavailable, "failed to issue verification record", err)
	}

	return &IssueVerificationResult{
		StudentRef:      student.StudentRef,
		StudentName:     student.FullName(),
		Code:            issued.Code,
		Digest:          issued.Digest,
		VerificationURL: issued.VerificationURL,
		ExpiresAt:       issued.Record.ExpiresAt,
		IssuedAt:        issued.Record.GeneratedAt,
	}, nil
}
