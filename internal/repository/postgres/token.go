package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/repository"
)

// StoreConfirmationToken upserts the current token for an appointment. A new
// reminder replaces any previously issued link.
func (r *tokenRepository) StoreConfirmationToken(ctx context.Context, appointmentID uuid.UUID, tokenHash string, expiry time.Time) error {
	query := `
		INSERT INTO confirmation_tokens (appointment_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (appointment_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, query, appointmentID, tokenHash, expiry, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store confirmation token: %w", err)
	}
	return nil
}

func (r *tokenRepository) GetConfirmationToken(ctx context.Context, appointmentID uuid.UUID) (string, error) {
	query := `
		SELECT token_hash
		FROM confirmation_tokens
		WHERE appointment_id = $1 AND expires_at > $2
	`
	var hash string
	err := r.db.GetContext(ctx, &hash, query, appointmentID, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get confirmation token: %w", err)
	}
	return hash, nil
}

func (r *tokenRepository) InvalidateConfirmationToken(ctx context.Context, appointmentID uuid.UUID) error {
	query := `DELETE FROM confirmation_tokens WHERE appointment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, appointmentID); err != nil {
		return fmt.Errorf("failed to invalidate confirmation token: %w", err)
	}
	return nil
}
