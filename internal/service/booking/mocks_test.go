package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

// fakeBookingRepo is an in-memory repository.BookingRepository that
// mirrors the store's behavior, including the active-slot uniqueness
// constraint and injectable query failures.
type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
	services map[uuid.UUID]*model.Service
	profiles map[uuid.UUID]*model.Profile

	updateCalls  int
	createCalls  int
	conflictErr  error
	enforceIndex bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:     make(map[uuid.UUID]*model.Booking),
		services:     make(map[uuid.UUID]*model.Service),
		profiles:     make(map[uuid.UUID]*model.Profile),
		enforceIndex: true,
	}
}

func (r *fakeBookingRepo) occupied(date, slot string, excludeID *uuid.UUID) bool {
	for id, b := range r.bookings {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.BookingDate == date && b.BookingTime == slot && b.Status.Active() {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.createCalls++
	if r.enforceIndex && b.Status.Active() && r.occupied(b.BookingDate, b.BookingTime, nil) {
		return repository.ErrDuplicateSlot
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	r.updateCalls++
	if _, ok := r.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.enforceIndex && b.Status.Active() && r.occupied(b.BookingDate, b.BookingTime, &b.ID) {
		return repository.ErrDuplicateSlot
	}
	b.UpdatedAt = time.Now()
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) withDetails(b *model.Booking) *model.BookingWithDetails {
	d := &model.BookingWithDetails{Booking: *b}
	if svc, ok := r.services[b.ServiceID]; ok {
		d.Service = *svc
	}
	if p, ok := r.profiles[b.UserID]; ok {
		d.Profile = *p
	}
	return d
}

func (r *fakeBookingRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.BookingWithDetails, error) {
	var out []*model.BookingWithDetails
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, r.withDetails(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context) ([]*model.BookingWithDetails, error) {
	var out []*model.BookingWithDetails
	for _, b := range r.bookings {
		out = append(out, r.withDetails(b))
	}
	return out, nil
}

func (r *fakeBookingRepo) ListBetween(_ context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error) {
	var out []*model.BookingWithDetails
	for _, b := range r.bookings {
		if b.BookingDate >= fromDate && b.BookingDate <= toDate {
			out = append(out, r.withDetails(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CheckConflict(_ context.Context, date, slot string, excludeID *uuid.UUID) (bool, error) {
	if r.conflictErr != nil {
		return false, r.conflictErr
	}
	return r.occupied(date, slot, excludeID), nil
}

type fakeEmitter struct {
	events []string
	err    error
}

func (e *fakeEmitter) Emit(_ context.Context, eventType string, _ interface{}) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, eventType)
	return nil
}

var errStoreDown = errors.New("connection refused")
