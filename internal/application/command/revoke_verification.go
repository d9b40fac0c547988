package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVOKE VERIFICATION COMMAND
// Marks an issued verification record revoked, e.g. after a grade
// correction invalidated the document. The record stays for audit;
// verification of its code fails from the moment of revocation.
// ══════════════════════════════════════════════════════════════════════════════

// RevokeVerificationCommand carries the code to revoke.
type RevokeVerificationCommand struct {
	// Code is the verification code of the record to revoke.
	Code string
}

// Validate checks the command parameters.
func (c *RevokeVerificationCommand) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return errors.New("code must be provided")
	}
	return nil
}

// RevokeVerificationResult reports the revocation.
type RevokeVerificationResult struct {
	Code      string    `json:"code"`
	RevokedAt time.Time `json:"revoked_at"`
}

// RevokeVerificationHandler handles revocations.
type RevokeVerificationHandler struct {
	store verification.Store
	cache verification.Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewRevokeVerificationHandler creates a new handler.
func NewRevokeVerificationHandler(store verification.Store, cache verification.Cache, log *logger.Logger) *RevokeVerificationHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RevokeVerificationHandler{
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Handle executes the command. The cache entry is dropped after the
// durable revocation so stale reads cannot outlive it; a failed cache
// delete is logged and the entry expires by TTL.
func (h *RevokeVerificationHandler) Handle(ctx context.Context, cmd RevokeVerificationCommand) (*RevokeVerificationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "RevokeVerification", shared.ErrValidation, err.Error(), err)
	}

	code := strings.ToUpper(strings.TrimSpace(cmd.Code))
	at := h.now().UTC()

	if err := h.store.Revoke(ctx, code, at); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("command", "RevokeVerification", shared.ErrNotFound, "verification record not found", err)
		}
		return nil, shared.WrapError("command", "RevokeVerification", shared.ErrStorageUnavailable, "failed to revoke verification record", err)
	}

	if h.cache != nil {
		if err := h.cache.Delete(ctx, code); err != nil {
			h.log.Warn("failed to drop cached verification record",
				logger.VerificationCode(code),
				logger.Err(err),
			)
		}
	}

	return &RevokeVerificationResult{Code: code, RevokedAt: at}, nil
}
