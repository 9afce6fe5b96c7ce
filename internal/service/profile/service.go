package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

var ErrNotFound = errors.New("profile not found")

type Service struct {
	repo repository.ProfileRepository
}

func NewService(repo repository.ProfileRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Update writes the profile, creating the row on first save.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	p := &model.Profile{
		ID:    userID,
		Name:  req.Name,
		Phone: req.Phone,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}
