package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlot is returned when a write is rejected by the
	// active-slot uniqueness constraint. Callers treat it exactly like a
	// conflict detected before the write.
	ErrDuplicateSlot = errors.New("slot already occupied")
)

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.BookingWithDetails, error)
	ListAll(ctx context.Context) ([]*model.BookingWithDetails, error)
	ListBetween(ctx context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error)
	// CheckConflict reports whether a non-cancelled booking occupies
	// (date, slot), excluding excludeID when non-nil.
	CheckConflict(ctx context.Context, date, slot string, excludeID *uuid.UUID) (bool, error)
}

type ServiceRepository interface {
	ListActive(ctx context.Context) ([]*model.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	IsRefreshTokenValid(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RevokeRefreshTokens(ctx context.Context, userID uuid.UUID) error
	StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// ConsumeResetToken resolves an unexpired reset token to its user and
	// invalidates it in the same step.
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, e *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
