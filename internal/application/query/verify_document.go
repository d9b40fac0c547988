package query

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/docverify"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFY DOCUMENT QUERY
// Resolves a verification code and reports whether the document it
// certifies is authentic and intact. This is the public-facing check
// an employer or another institution runs against an issued document.
// ══════════════════════════════════════════════════════════════════════════════

// VerifyDocumentQuery carries the code to verify.
type VerifyDocumentQuery struct {
	// Code is the verification code printed on the document.
	Code string
}

// Validate checks the query parameters.
func (q *VerifyDocumentQuery) Validate() error {
	if q.Code == "" {
		return errors.New("code must be provided")
	}
	return nil
}

// VerifyDocumentResult wraps the verification outcome.
type VerifyDocumentResult struct {
	Code string `json:"code"`

	// Result carries validity, failure reason, and on success the
	// certified payload snapshot.
	Result docverify.VerifyResult `json:"result"`

	// CheckedAt is the verification time.
	CheckedAt time.Time `json:"checked_at"`
}

// VerifyDocumentHandler handles verification lookups.
type VerifyDocumentHandler struct {
	validator *docverify.Validator
}

// NewVerifyDocumentHandler creates a new handler.
func NewVerifyDocumentHandler(store verification.Store, cache verification.Cache, cacheTTL time.Duration, log *logger.Logger) *VerifyDocumentHandler {
	return &VerifyDocumentHandler{
		validator: docverify.NewValidator(store, cache, cacheTTL, log),
	}
}

// Handle executes the query. A failed verification (unknown, expired,
// revoked, or tampered code) is a structured result, not an error.
func (h *VerifyDocumentHandler) Handle(ctx context.Context, query VerifyDocumentQuery) (*VerifyDocumentResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "VerifyDocument", shared.ErrValidation, err.Error(), err)
	}

	res, err := h.validator.Verify(ctx, query.Code)
	if err != nil {
		return nil, shared.WrapError("query", "VerifyDocument", shared.ErrStorageUnavailable, "verification lookup failed", err)
	}

	return &VerifyDocumentResult{
		Code:      query.Code,
		Result:    *res,
		CheckedAt: time.Now().UTC(),
	}, nil
}
