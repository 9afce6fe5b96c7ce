package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT p.id, p.name, p.phone, u.email, p.created_at, p.updated_at
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.id = $1
	`
	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Upsert creates the profile on first save and updates name/phone after.
func (r *profileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (id, name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Phone, now); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
