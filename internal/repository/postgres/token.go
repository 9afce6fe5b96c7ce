package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/repository"
)

func (r *tokenRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token, kind, expires_at, created_at)
		VALUES ($1, $2, $3, 'refresh', $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, token, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM auth_tokens
			WHERE user_id = $1 AND token = $2 AND kind = 'refresh'
			AND expires_at > $3 AND revoked_at IS NULL
		)
	`
	var valid bool
	if err := r.db.GetContext(ctx, &valid, query, userID, token, time.Now()); err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return valid, nil
}

func (r *tokenRepository) RevokeRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE auth_tokens SET revoked_at = $1
		WHERE user_id = $2 AND kind = 'refresh' AND revoked_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func (r *tokenRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token, kind, expires_at, created_at)
		VALUES ($1, $2, $3, 'reset', $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, token, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (r *tokenRepository) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		UPDATE auth_tokens SET revoked_at = $1
		WHERE token = $2 AND kind = 'reset' AND expires_at > $1 AND revoked_at IS NULL
		RETURNING user_id
	`
	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, time.Now(), token)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, repository.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
