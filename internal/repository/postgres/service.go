package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

func (r *serviceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, name_en, duration, price, description, active, created_at
		FROM services
		WHERE active = true
		ORDER BY created_at ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list active services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, name_en, duration, price, description, active, created_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}
