package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFICATION STORE
// ══════════════════════════════════════════════════════════════════════════════

// VerificationRepository implements verification.Store for PostgreSQL.
// This is the authoritative tamper-evidence store; the cache layer in
// the redis package only mirrors it.
type VerificationRepository struct {
	conn *Connection
}

// NewVerificationRepository creates a new VerificationRepository.
func NewVerificationRepository(conn *Connection) *VerificationRepository {
	return &VerificationRepository{conn: conn}
}

// Save persists a new record. The insert runs in a transaction so the
// record lands fully or not at all; a code collision surfaces as
// shared.ErrDuplicateCode.
func (r *VerificationRepository) Save(ctx context.Context, rec *verification.Record) error {
	query := `
		INSERT INTO verification_records (
			id, code, student_ref, student_name, generated_at, digest,
			institution_name, verification_url, payload_json,
			created_at, expires_at, revoked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			rec.ID,
			rec.Code,
			rec.StudentRef,
			rec.StudentName,
			rec.GeneratedAt,
			rec.Digest,
			rec.InstitutionName,
			rec.VerificationURL,
			rec.PayloadJSON,
			rec.CreatedAt,
			rec.ExpiresAt,
			rec.RevokedAt,
		)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateCode
		}
		return fmt.Errorf("failed to save verification record: %w", err)
	}
	return nil
}

// GetByCode returns the record for a code.
func (r *VerificationRepository) GetByCode(ctx context.Context, code string) (*verification.Record, error) {
	query := `
		SELECT id, code, student_ref, student_name, generated_at, digest,
		       institution_name, verification_url, payload_json,
		       created_at, expires_at, revoked_at
		FROM verification_records
		WHERE code = $1
	`

	var rec verification.Record
	err := r.conn.QueryRow(ctx, query, code).Scan(
		&rec.ID,
		&rec.Code,
		&rec.StudentRef,
		&rec.StudentName,
		&rec.GeneratedAt,
		&rec.Digest,
		&rec.InstitutionName,
		&rec.VerificationURL,
		&rec.PayloadJSON,
		&rec.CreatedAt,
		&rec.ExpiresAt,
		&rec.RevokedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification record: %w", err)
	}

	return &rec, nil
}

// Revoke marks a record revoked. Revoking twice keeps the original
// timestamp.
func (r *VerificationRepository) Revoke(ctx context.Context, code string, at time.Time) error {
	query := `
		UPDATE verification_records
		SET revoked_at = COALESCE(revoked_at, $1)
		WHERE code = $2
	`

	result, err := r.conn.Exec(ctx, query, at, code)
	if err != nil {
		return fmt.Errorf("failed to revoke verification record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrRecordNotFound
	}
	return nil
}

// DeleteExpired removes records whose expiry passed before the cutoff.
func (r *VerificationRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.conn.Exec(ctx,
		"DELETE FROM verification_records WHERE expires_at IS NOT NULL AND expires_at < $1",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}
	return result.RowsAffected(), nil
}
