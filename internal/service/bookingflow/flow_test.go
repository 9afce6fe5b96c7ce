package bookingflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/pkg/logger"
)

type fakeCatalog struct {
	services map[uuid.UUID]*model.Service
}

func (c *fakeCatalog) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := c.services[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return svc, nil
}

type fakeBookings struct {
	taken    map[string]bool // "date|slot"
	created  []*model.Booking
	checkErr error

	// releaseCreate blocks Create until closed, for racing submissions.
	releaseCreate chan struct{}
}

func (b *fakeBookings) key(date, slot string) string { return date + "|" + slot }

func (b *fakeBookings) CheckAvailability(_ context.Context, date, slot string, _ *uuid.UUID) error {
	if b.checkErr != nil {
		return b.checkErr
	}
	if b.taken[b.key(date, slot)] {
		return booking.ErrSlotTaken
	}
	return nil
}

func (b *fakeBookings) Create(_ context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if b.releaseCreate != nil {
		<-b.releaseCreate
	}
	nb := &model.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		ServiceID:   req.ServiceID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Status:      model.BookingStatusPending,
	}
	b.created = append(b.created, nb)
	return nb, nil
}

func (b *fakeBookings) ListBetween(_ context.Context, fromDate, _ string) ([]*model.BookingWithDetails, error) {
	var out []*model.BookingWithDetails
	for key, isTaken := range b.taken {
		if !isTaken {
			continue
		}
		out = append(out, &model.BookingWithDetails{Booking: model.Booking{
			BookingDate: fromDate,
			BookingTime: key[len(fromDate)+1:],
			Status:      model.BookingStatusConfirmed,
		}})
	}
	return out, nil
}

type fakeProfiles struct {
	updates []*model.UpdateProfileRequest
	err     error
}

func (p *fakeProfiles) Update(_ context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.updates = append(p.updates, req)
	return &model.Profile{ID: userID, Name: req.Name, Phone: req.Phone}, nil
}

func newTestFlow() (*Flow, *fakeCatalog, *fakeBookings, *fakeProfiles, uuid.UUID) {
	svcID := uuid.New()
	catalog := &fakeCatalog{services: map[uuid.UUID]*model.Service{
		svcID: {ID: svcID, Name: "一般整骨治療", Price: 3000, Active: true},
	}}
	bookings := &fakeBookings{taken: make(map[string]bool)}
	profiles := &fakeProfiles{}
	return NewFlow(catalog, bookings, profiles, logger.NewLogger(nil)), catalog, bookings, profiles, svcID
}

func validRequest(svcID uuid.UUID) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		ServiceID:   svcID,
		BookingDate: "2025-08-01",
		BookingTime: "10:00",
		Name:        "山田太郎",
		Phone:       "090-1234-5678",
		Email:       "taro@example.com",
	}
}

func TestValidateStages(t *testing.T) {
	flow, catalog, bookings, _, svcID := newTestFlow()
	ctx := context.Background()

	stage, err := flow.Validate(ctx, &model.CreateBookingRequest{})
	assert.Equal(t, StageService, stage)
	assert.ErrorIs(t, err, ErrServiceNotSelected)

	stage, err = flow.Validate(ctx, &model.CreateBookingRequest{ServiceID: uuid.New()})
	assert.Equal(t, StageService, stage)
	assert.ErrorIs(t, err, ErrUnknownService)

	inactive := uuid.New()
	catalog.services[inactive] = &model.Service{ID: inactive, Active: false}
	stage, err = flow.Validate(ctx, &model.CreateBookingRequest{ServiceID: inactive})
	assert.Equal(t, StageService, stage)
	assert.ErrorIs(t, err, ErrServiceInactive)

	stage, err = flow.Validate(ctx, &model.CreateBookingRequest{ServiceID: svcID})
	assert.Equal(t, StageSlot, stage)
	assert.ErrorIs(t, err, ErrSlotNotSelected)

	bookings.taken["2025-08-01|10:00"] = true
	req := validRequest(svcID)
	stage, err = flow.Validate(ctx, req)
	assert.Equal(t, StageSlot, stage)
	assert.ErrorIs(t, err, booking.ErrSlotTaken)

	delete(bookings.taken, "2025-08-01|10:00")
	partial := validRequest(svcID)
	partial.Email = ""
	stage, err = flow.Validate(ctx, partial)
	assert.Equal(t, StageContact, stage)
	assert.ErrorIs(t, err, ErrContactIncomplete)

	stage, err = flow.Validate(ctx, validRequest(svcID))
	assert.Equal(t, StageContact, stage)
	assert.NoError(t, err)
}

func TestValidateFailedCheckBlocksSlotStage(t *testing.T) {
	flow, _, bookings, _, svcID := newTestFlow()
	bookings.checkErr = booking.ErrAvailabilityCheck

	stage, err := flow.Validate(context.Background(), validRequest(svcID))
	assert.Equal(t, StageSlot, stage)
	assert.ErrorIs(t, err, booking.ErrAvailabilityCheck)
}

func TestSubmitWritesProfileAndCreatesPending(t *testing.T) {
	flow, _, bookings, profiles, svcID := newTestFlow()
	userID := uuid.New()

	b, err := flow.Submit(context.Background(), userID, validRequest(svcID))
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, userID, b.UserID)
	require.Len(t, bookings.created, 1)

	require.Len(t, profiles.updates, 1)
	assert.Equal(t, "山田太郎", profiles.updates[0].Name)
	assert.Equal(t, "090-1234-5678", profiles.updates[0].Phone)
}

func TestSubmitProfileFailureDoesNotBlockBooking(t *testing.T) {
	flow, _, bookings, profiles, svcID := newTestFlow()
	profiles.err = assert.AnError

	_, err := flow.Submit(context.Background(), uuid.New(), validRequest(svcID))
	require.NoError(t, err)
	assert.Len(t, bookings.created, 1)
}

func TestSubmitRejectsConcurrentDuplicate(t *testing.T) {
	flow, _, bookings, _, svcID := newTestFlow()
	userID := uuid.New()
	bookings.releaseCreate = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := flow.Submit(context.Background(), userID, validRequest(svcID))
		firstErr <- err
	}()

	// Wait until the first submission holds the in-flight key.
	require.Eventually(t, func() bool {
		flow.mu.Lock()
		defer flow.mu.Unlock()
		return len(flow.inFlight) == 1
	}, time.Second, time.Millisecond)

	_, err := flow.Submit(context.Background(), userID, validRequest(svcID))
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(bookings.releaseCreate)
	wg.Wait()
	assert.NoError(t, <-firstErr)
	assert.Len(t, bookings.created, 1)
}

func TestDayAvailability(t *testing.T) {
	flow, _, bookings, _, _ := newTestFlow()
	bookings.taken["2025-08-01|10:00"] = true
	bookings.taken["2025-08-01|14:30"] = true

	slots, err := flow.DayAvailability(context.Background(), "2025-08-01")
	require.NoError(t, err)
	require.Len(t, slots, 16)

	byTime := make(map[string]bool, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s.Available
	}
	assert.False(t, byTime["10:00"])
	assert.False(t, byTime["14:30"])
	assert.True(t, byTime["09:00"])
	assert.True(t, byTime["18:30"])
}

func TestDayAvailabilityRejectsBadDate(t *testing.T) {
	flow, _, _, _, _ := newTestFlow()
	_, err := flow.DayAvailability(context.Background(), "08/01/2025")
	assert.Error(t, err)
}
