// Package bookingflow drives the customer booking wizard: pick a
// service, pick a slot, confirm contact details, submit. Each stage
// gates the next, and submission re-validates the whole chain so a
// stale client cannot skip ahead.
package bookingflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/schedule"
	"github.com/seikotsu/booking-api/pkg/logger"
)

var (
	ErrServiceNotSelected = errors.New("no service selected")
	ErrUnknownService     = errors.New("unknown service")
	ErrServiceInactive    = errors.New("service is not offered")
	ErrSlotNotSelected    = errors.New("no slot selected")
	ErrContactIncomplete  = errors.New("contact details incomplete")
	ErrInvalidDate        = errors.New("invalid date")
	// ErrSubmissionInFlight means the same user already has a submission
	// for the same slot being processed, as happens on a double click.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// Stage identifies how far through the wizard a request has validated.
type Stage int

const (
	StageService Stage = iota + 1
	StageSlot
	StageContact
)

func (s Stage) String() string {
	switch s {
	case StageService:
		return "service"
	case StageSlot:
		return "slot"
	case StageContact:
		return "contact"
	}
	return "unknown"
}

type Catalog interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
}

type Bookings interface {
	CheckAvailability(ctx context.Context, date, slot string, excludeID *uuid.UUID) error
	Create(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error)
	ListBetween(ctx context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error)
}

type Profiles interface {
	Update(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error)
}

type Flow struct {
	catalog  Catalog
	bookings Bookings
	profiles Profiles
	logger   *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewFlow(catalog Catalog, bookings Bookings, profiles Profiles, logger *logger.Logger) *Flow {
	return &Flow{
		catalog:  catalog,
		bookings: bookings,
		profiles: profiles,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Validate walks the wizard stages in order and reports the first stage
// that fails, so the client can send a partially filled request and
// learn where it stands.
func (f *Flow) Validate(ctx context.Context, req *model.CreateBookingRequest) (Stage, error) {
	if req.ServiceID == uuid.Nil {
		return StageService, ErrServiceNotSelected
	}
	svc, err := f.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return StageService, fmt.Errorf("%w: %s", ErrUnknownService, req.ServiceID)
	}
	if !svc.Active {
		return StageService, ErrServiceInactive
	}

	if req.BookingDate == "" || req.BookingTime == "" {
		return StageSlot, ErrSlotNotSelected
	}
	if err := f.bookings.CheckAvailability(ctx, req.BookingDate, req.BookingTime, nil); err != nil {
		return StageSlot, err
	}

	if req.Name == "" || req.Phone == "" || req.Email == "" {
		return StageContact, ErrContactIncomplete
	}

	return StageContact, nil
}

// Submit runs the full validation chain, writes the contact details back
// to the user's profile, and creates the booking in pending status. A
// second submission for the same user and slot while the first is still
// being processed is rejected; the store's slot index backstops anything
// that slips past.
func (f *Flow) Submit(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if _, err := f.Validate(ctx, req); err != nil {
		return nil, err
	}

	key := submissionKey(userID, req.BookingDate, req.BookingTime)
	if !f.acquire(key) {
		return nil, ErrSubmissionInFlight
	}
	defer f.release(key)

	if _, err := f.profiles.Update(ctx, userID, &model.UpdateProfileRequest{
		Name:  req.Name,
		Phone: req.Phone,
	}); err != nil {
		// The profile write-back is a convenience; the booking itself
		// decides success.
		f.logger.Error(err, "failed to save profile from booking", "user_id", userID)
	}

	return f.bookings.Create(ctx, userID, req)
}

// DayAvailability reports each slot of the given day with its taken flag,
// for the wizard's slot picker.
func (f *Flow) DayAvailability(ctx context.Context, date string) ([]model.SlotAvailability, error) {
	if !schedule.IsValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	bookings, err := f.bookings.ListBetween(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day bookings: %w", err)
	}

	taken := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.Status.Active() {
			taken[b.BookingTime] = true
		}
	}

	slots := schedule.Slots()
	out := make([]model.SlotAvailability, len(slots))
	for i, slot := range slots {
		out[i] = model.SlotAvailability{Time: slot, Available: !taken[slot]}
	}
	return out, nil
}

func submissionKey(userID uuid.UUID, date, slot string) string {
	return userID.String() + "|" + date + "|" + slot
}

func (f *Flow) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.inFlight[key]; busy {
		return false
	}
	f.inFlight[key] = struct{}{}
	return true
}

func (f *Flow) release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inFlight, key)
}
