// Package catalog serves the clinic's treatment menu. The menu changes
// rarely and every booking reads it, so reads go through a short-lived
// cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

var ErrNotFound = errors.New("service not found")

const (
	cacheTTL        = 5 * time.Minute
	activeListKey   = "services:active"
	serviceKeyPfx   = "service:"
	cleanupInterval = 10 * time.Minute
)

type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cleanupInterval),
	}
}

func (s *Service) ListActive(ctx context.Context) ([]*model.Service, error) {
	if cached, ok := s.cache.Get(activeListKey); ok {
		return cached.([]*model.Service), nil
	}

	services, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	s.cache.Set(activeListKey, services, cacheTTL)
	return services, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := serviceKeyPfx + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Service), nil
	}

	svc, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	s.cache.Set(key, svc, cacheTTL)
	return svc, nil
}
