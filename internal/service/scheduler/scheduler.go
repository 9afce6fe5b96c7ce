// Package scheduler serves the admin calendar: the weekly booking grid
// and the drag-and-drop reschedule that works in raw pointer
// coordinates.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/schedule"
	"github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/pkg/logger"
)

var ErrInvalidWeekStart = errors.New("invalid week start date")

type Bookings interface {
	ListBetween(ctx context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error)
	Reschedule(ctx context.Context, id uuid.UUID, date, slot string) (*model.Booking, bool, error)
}

type Scheduler struct {
	bookings Bookings
	logger   *logger.Logger
}

func NewScheduler(bookings Bookings, logger *logger.Logger) *Scheduler {
	return &Scheduler{bookings: bookings, logger: logger}
}

// WeekSchedule is the admin calendar for one week: seven day rows, one
// column per slot, active bookings placed in their cells.
type WeekSchedule struct {
	WeekStart string                               `json:"week_start"`
	Days      []string                             `json:"days"`
	Slots     []string                             `json:"slots"`
	Cells     map[string]*model.BookingWithDetails `json:"cells"`
}

// CellKey addresses a calendar cell in the Cells map.
func CellKey(date, slot string) string { return date + "T" + slot }

// Week loads the schedule for the week containing anchor. Cancelled
// bookings do not occupy cells; they are simply absent.
func (s *Scheduler) Week(ctx context.Context, anchor string) (*WeekSchedule, error) {
	d, err := schedule.ParseDate(anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekStart, anchor)
	}

	week := schedule.WeekDates(d)
	days := make([]string, len(week))
	for i, day := range week {
		days[i] = schedule.FormatDate(day)
	}

	bookings, err := s.bookings.ListBetween(ctx, days[0], days[len(days)-1])
	if err != nil {
		return nil, fmt.Errorf("failed to load week: %w", err)
	}

	cells := make(map[string]*model.BookingWithDetails)
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		cells[CellKey(b.BookingDate, b.BookingTime)] = b
	}

	return &WeekSchedule{
		WeekStart: days[0],
		Days:      days,
		Slots:     schedule.Slots(),
		Cells:     cells,
	}, nil
}

// DropOutcome classifies what happened to a dragged booking.
type DropOutcome string

const (
	// DropDiscarded means the pointer was released outside the grid; the
	// booking snaps back with no store access.
	DropDiscarded DropOutcome = "discarded"
	// DropUnchanged means the drop landed on the booking's own cell.
	DropUnchanged DropOutcome = "unchanged"
	DropMoved     DropOutcome = "moved"
	// DropRejected means the target cell is occupied; both bookings keep
	// their slots.
	DropRejected DropOutcome = "rejected"
)

type DropResult struct {
	Outcome DropOutcome    `json:"outcome"`
	Booking *model.Booking `json:"booking,omitempty"`
	Date    string         `json:"date,omitempty"`
	Time    string         `json:"time,omitempty"`
}

// Drop resolves a pointer release position against the week grid and
// reschedules the booking into the cell it landed on. The geometry comes
// from the client because the grid is rendered there; only the width
// varies, the other metrics are fixed.
func (s *Scheduler) Drop(ctx context.Context, bookingID uuid.UUID, req *model.DropRequest) (*DropResult, error) {
	anchor, err := schedule.ParseDate(req.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekStart, req.WeekStart)
	}

	metrics := schedule.DefaultGridMetrics(req.GridWidth)
	dayIdx, slotIdx, ok := metrics.CellAt(req.X, req.Y)
	if !ok {
		return &DropResult{Outcome: DropDiscarded}, nil
	}

	week := schedule.WeekDates(anchor)
	date := schedule.FormatDate(week[dayIdx])
	slot := schedule.SlotAt(slotIdx)

	b, moved, err := s.bookings.Reschedule(ctx, bookingID, date, slot)
	if errors.Is(err, booking.ErrSlotTaken) {
		return &DropResult{Outcome: DropRejected, Date: date, Time: slot}, nil
	}
	if err != nil {
		return nil, err
	}

	outcome := DropUnchanged
	if moved {
		outcome = DropMoved
		s.logger.Info("booking rescheduled by drag",
			"booking_id", bookingID, "date", date, "time", slot)
	}
	return &DropResult{Outcome: outcome, Booking: b, Date: date, Time: slot}, nil
}
