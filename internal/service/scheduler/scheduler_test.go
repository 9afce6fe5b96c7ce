package scheduler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/pkg/logger"
)

type fakeBookings struct {
	bookings map[uuid.UUID]*model.BookingWithDetails

	rescheduleCalls int
	rescheduleErr   error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[uuid.UUID]*model.BookingWithDetails)}
}

func (f *fakeBookings) add(date, slot string, status model.BookingStatus) *model.BookingWithDetails {
	b := &model.BookingWithDetails{Booking: model.Booking{
		ID:          uuid.New(),
		BookingDate: date,
		BookingTime: slot,
		Status:      status,
	}}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeBookings) ListBetween(_ context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error) {
	var out []*model.BookingWithDetails
	for _, b := range f.bookings {
		if b.BookingDate >= fromDate && b.BookingDate <= toDate {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Reschedule(_ context.Context, id uuid.UUID, date, slot string) (*model.Booking, bool, error) {
	f.rescheduleCalls++
	if f.rescheduleErr != nil {
		return nil, false, f.rescheduleErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, false, booking.ErrNotFound
	}
	if b.BookingDate == date && b.BookingTime == slot {
		return &b.Booking, false, nil
	}
	for _, other := range f.bookings {
		if other.ID != id && other.BookingDate == date && other.BookingTime == slot && other.Status.Active() {
			return nil, false, booking.ErrSlotTaken
		}
	}
	b.BookingDate = date
	b.BookingTime = slot
	return &b.Booking, true, nil
}

func newTestScheduler(f *fakeBookings) *Scheduler {
	return NewScheduler(f, logger.NewLogger(nil))
}

// 2025-08-04 is a Monday.
const monday = "2025-08-04"

func TestWeekPlacesActiveBookings(t *testing.T) {
	repo := newFakeBookings()
	confirmed := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	repo.add("2025-08-05", "10:30", model.BookingStatusCancelled)
	repo.add("2025-08-11", "10:00", model.BookingStatusConfirmed) // next week

	sched := newTestScheduler(repo)
	week, err := sched.Week(context.Background(), "2025-08-06") // any day of the week
	require.NoError(t, err)

	assert.Equal(t, monday, week.WeekStart)
	assert.Equal(t, []string{
		"2025-08-04", "2025-08-05", "2025-08-06", "2025-08-07",
		"2025-08-08", "2025-08-09", "2025-08-10",
	}, week.Days)
	assert.Len(t, week.Slots, 16)

	require.Len(t, week.Cells, 1, "cancelled and out-of-week bookings are absent")
	got := week.Cells[CellKey("2025-08-05", "10:00")]
	require.NotNil(t, got)
	assert.Equal(t, confirmed.ID, got.ID)
}

func TestWeekRejectsBadAnchor(t *testing.T) {
	sched := newTestScheduler(newFakeBookings())
	_, err := sched.Week(context.Background(), "Aug 4")
	assert.ErrorIs(t, err, ErrInvalidWeekStart)
}

// dropReq builds a pointer release aimed at the center of a cell on a
// 1720px grid, where each slot column is 100px wide.
func dropReq(dayIdx, slotIdx int) *model.DropRequest {
	return &model.DropRequest{
		X:         120 + float64(slotIdx)*100 + 50,
		Y:         60 + float64(dayIdx)*80 + 40,
		GridWidth: 1720,
		WeekStart: monday,
	}
}

func TestDropOutsideGridIsDiscarded(t *testing.T) {
	repo := newFakeBookings()
	b := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	sched := newTestScheduler(repo)

	// Above the header row.
	res, err := sched.Drop(context.Background(), b.ID, &model.DropRequest{
		X: 500, Y: 10, GridWidth: 1720, WeekStart: monday,
	})
	require.NoError(t, err)
	assert.Equal(t, DropDiscarded, res.Outcome)
	assert.Zero(t, repo.rescheduleCalls, "a discarded drop never reaches the store")

	// Left of the label column.
	res, err = sched.Drop(context.Background(), b.ID, &model.DropRequest{
		X: 30, Y: 200, GridWidth: 1720, WeekStart: monday,
	})
	require.NoError(t, err)
	assert.Equal(t, DropDiscarded, res.Outcome)

	// Below the last day row.
	res, err = sched.Drop(context.Background(), b.ID, &model.DropRequest{
		X: 500, Y: 60 + 7*80 + 5, GridWidth: 1720, WeekStart: monday,
	})
	require.NoError(t, err)
	assert.Equal(t, DropDiscarded, res.Outcome)
}

func TestDropOnOwnCellIsUnchanged(t *testing.T) {
	repo := newFakeBookings()
	b := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	sched := newTestScheduler(repo)

	// Tuesday is day row 1, 10:00 is slot column 2.
	res, err := sched.Drop(context.Background(), b.ID, dropReq(1, 2))
	require.NoError(t, err)
	assert.Equal(t, DropUnchanged, res.Outcome)
	assert.Equal(t, "2025-08-05", res.Date)
	assert.Equal(t, "10:00", res.Time)
}

func TestDropToFreeCellMoves(t *testing.T) {
	repo := newFakeBookings()
	b := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	sched := newTestScheduler(repo)

	// Thursday, 14:30 (slot column 7).
	res, err := sched.Drop(context.Background(), b.ID, dropReq(3, 7))
	require.NoError(t, err)
	assert.Equal(t, DropMoved, res.Outcome)
	assert.Equal(t, "2025-08-07", res.Date)
	assert.Equal(t, "14:30", res.Time)
	require.NotNil(t, res.Booking)
	assert.Equal(t, "14:30", res.Booking.BookingTime)
}

func TestDropToOccupiedCellIsRejected(t *testing.T) {
	repo := newFakeBookings()
	dragged := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	occupant := repo.add("2025-08-05", "10:30", model.BookingStatusPending)
	sched := newTestScheduler(repo)

	// Tuesday, 10:30 (slot column 3).
	res, err := sched.Drop(context.Background(), dragged.ID, dropReq(1, 3))
	require.NoError(t, err)
	assert.Equal(t, DropRejected, res.Outcome)

	assert.Equal(t, "10:00", repo.bookings[dragged.ID].BookingTime)
	assert.Equal(t, "10:30", repo.bookings[occupant.ID].BookingTime)
}

func TestDropPropagatesCheckFailure(t *testing.T) {
	repo := newFakeBookings()
	b := repo.add("2025-08-05", "10:00", model.BookingStatusConfirmed)
	repo.rescheduleErr = booking.ErrAvailabilityCheck
	sched := newTestScheduler(repo)

	_, err := sched.Drop(context.Background(), b.ID, dropReq(1, 3))
	assert.ErrorIs(t, err, booking.ErrAvailabilityCheck)
}

func TestDropRejectsBadWeekStart(t *testing.T) {
	sched := newTestScheduler(newFakeBookings())
	_, err := sched.Drop(context.Background(), uuid.New(), &model.DropRequest{
		X: 500, Y: 200, GridWidth: 1720, WeekStart: "next monday",
	})
	assert.ErrorIs(t, err, ErrInvalidWeekStart)
}
