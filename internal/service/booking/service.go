package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
	"github.com/seikotsu/booking-api/internal/schedule"
	"github.com/seikotsu/booking-api/internal/service/event"
	"github.com/seikotsu/booking-api/pkg/logger"
)

var (
	// ErrSlotTaken means another active booking occupies the slot. It is
	// recoverable: the caller picks another slot.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrAvailabilityCheck means the conflict check itself failed. It must
	// block the write; it is never a green light.
	ErrAvailabilityCheck = errors.New("availability check failed")
	ErrInvalidSlot       = errors.New("invalid time slot")
	ErrInvalidDate       = errors.New("invalid booking date")
	ErrPastDate          = errors.New("booking date is in the past")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("invalid booking status")
)

type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo   repository.BookingRepository
	events EventEmitter
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.BookingRepository, events EventEmitter, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// CheckAvailability validates the slot and reports whether it is free.
// A repository failure surfaces as ErrAvailabilityCheck so callers treat
// an unverifiable slot as blocked, never as free.
func (s *Service) CheckAvailability(ctx context.Context, date, slot string, excludeID *uuid.UUID) error {
	if !schedule.IsValidDate(date) {
		return ErrInvalidDate
	}
	if !schedule.IsValidSlot(slot) {
		return ErrInvalidSlot
	}

	taken, err := s.repo.CheckConflict(ctx, date, slot, excludeID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAvailabilityCheck, err)
	}
	if taken {
		return ErrSlotTaken
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if schedule.IsPastDate(req.BookingDate, s.now()) {
		if !schedule.IsValidDate(req.BookingDate) {
			return nil, ErrInvalidDate
		}
		return nil, ErrPastDate
	}

	if err := s.CheckAvailability(ctx, req.BookingDate, req.BookingTime, nil); err != nil {
		return nil, err
	}

	b := &model.Booking{
		UserID:      userID,
		ServiceID:   req.ServiceID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Status:      model.BookingStatusPending,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// The active-slot index caught a concurrent write that the
		// pre-check raced with.
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.emit(ctx, event.TypeBookingCreated, b)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// Reschedule moves a booking to a new slot. Moving to the current slot is
// a no-op with no store write. The conflict check excludes the booking
// itself and runs at the moment of the move, and a store-rejected write
// is reported exactly like a detected conflict.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date, slot string) (*model.Booking, bool, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if b.BookingDate == date && b.BookingTime == slot {
		return b, false, nil
	}

	if err := s.CheckAvailability(ctx, date, slot, &id); err != nil {
		return nil, false, err
	}

	b.BookingDate = date
	b.BookingTime = slot

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, false, ErrSlotTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to reschedule booking: %w", err)
	}

	s.emit(ctx, event.TypeBookingUpdated, b)
	return b, true, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}

	// Un-cancelling re-occupies the slot, so it has to pass the same
	// conflict guard as any other write into that cell.
	if !b.Status.Active() && status.Active() {
		if err := s.CheckAvailability(ctx, b.BookingDate, b.BookingTime, &id); err != nil {
			return nil, err
		}
	}

	b.Status = status
	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	s.emit(ctx, event.TypeBookingUpdated, b)
	return b, nil
}

// Delete is a hard remove, distinct from cancellation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.emit(ctx, event.TypeBookingDeleted, map[string]interface{}{"id": id})
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.BookingWithDetails, error) {
	bookings, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]*model.BookingWithDetails, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return filter.Apply(bookings), nil
}

func (s *Service) ListBetween(ctx context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error) {
	bookings, err := s.repo.ListBetween(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Service) Stats(ctx context.Context) (*model.BookingStats, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	today := schedule.FormatDate(s.now())
	stats := &model.BookingStats{Total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case model.BookingStatusConfirmed:
			stats.Confirmed++
		case model.BookingStatusPending:
			stats.Pending++
		case model.BookingStatusCompleted:
			stats.RevenueToDate += b.Service.Price
		}
		if b.BookingDate == today {
			stats.Today++
		}
	}
	return stats, nil
}

// Event emission is best-effort: the booking write already succeeded and
// stays authoritative even when the change stream lags.
func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to emit booking event", "event_type", eventType)
	}
}
