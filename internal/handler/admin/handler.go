// Package admin serves the clinic staff dashboard: the filterable
// booking list, the weekly calendar with drag rescheduling, and the
// live change stream.
package admin

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/schedule"
	"github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/internal/service/scheduler"
	"github.com/seikotsu/booking-api/pkg/logger"
	"github.com/seikotsu/booking-api/pkg/messaging"
	"github.com/seikotsu/booking-api/pkg/worker"
)

type Handler struct {
	bookings  *booking.Service
	scheduler *scheduler.Scheduler
	broker    messaging.Broker
	logger    *logger.Logger
}

func NewHandler(bookings *booking.Service, sched *scheduler.Scheduler, broker messaging.Broker, logger *logger.Logger) *Handler {
	return &Handler{
		bookings:  bookings,
		scheduler: sched,
		broker:    broker,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/admin")
	{
		g.GET("/bookings", h.ListBookings)
		g.GET("/bookings/stats", h.Stats)
		g.PATCH("/bookings/:id/status", h.UpdateStatus)
		g.PUT("/bookings/:id/reschedule", h.Reschedule)
		g.POST("/bookings/:id/drop", h.Drop)
		g.DELETE("/bookings/:id", h.DeleteBooking)
		g.GET("/schedule", h.WeekSchedule)
		g.GET("/bookings/stream", h.Stream)
	}
}

// ListBookings returns all bookings narrowed by the search, status, and
// date query parameters.
func (h *Handler) ListBookings(c *gin.Context) {
	filter := booking.ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}

	bookings, err := h.bookings.ListAll(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load bookings"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.bookings.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load stats"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.bookings.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondBookingError(c, err, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

// Reschedule moves a booking to an explicit date and slot.
func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, _, err := h.bookings.Reschedule(c.Request.Context(), id, req.BookingDate, req.BookingTime)
	if err != nil {
		h.respondBookingError(c, err, "failed to reschedule booking")
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

// Drop resolves a calendar drag release against the week grid. A release
// outside the grid is not an error; the result says what happened.
func (h *Handler) Drop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req model.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	res, err := h.scheduler.Drop(c.Request.Context(), id, &req)
	if errors.Is(err, scheduler.ErrInvalidWeekStart) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err != nil {
		h.respondBookingError(c, err, "failed to process drop")
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), id); err != nil {
		h.respondBookingError(c, err, "failed to delete booking")
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// WeekSchedule returns the calendar grid for the week containing the
// anchor date, defaulting to the current week.
func (h *Handler) WeekSchedule(c *gin.Context) {
	anchor := c.Query("week")
	if anchor == "" {
		anchor = schedule.FormatDate(schedule.StartOfWeek(time.Now()))
	}

	week, err := h.scheduler.Week(c.Request.Context(), anchor)
	if errors.Is(err, scheduler.ErrInvalidWeekStart) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load schedule"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(week))
}

// Stream relays booking change events to the dashboard as server-sent
// events, so open calendars update without polling.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := h.broker.Subscribe(ctx, worker.BookingEventsChannel)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("event stream unavailable"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("booking", string(msg))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *Handler) respondBookingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("booking not found"))
	case errors.Is(err, booking.ErrSlotTaken):
		c.JSON(http.StatusConflict, handler.NewErrorResponse("the target slot is already booked"))
	case errors.Is(err, booking.ErrAvailabilityCheck):
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("availability is temporarily unknown, please retry"))
	case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidSlot),
		errors.Is(err, booking.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(fallback))
	}
}
