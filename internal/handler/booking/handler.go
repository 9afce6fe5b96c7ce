package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/service/booking"
	"github.com/seikotsu/booking-api/internal/service/bookingflow"
)

type Handler struct {
	flow *bookingflow.Flow
	svc  *booking.Service
}

func NewHandler(flow *bookingflow.Flow, svc *booking.Service) *Handler {
	return &Handler{flow: flow, svc: svc}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.DayAvailability)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/bookings")
	{
		g.POST("", h.CreateBooking)
		g.GET("", h.ListMyBookings)
		g.GET("/:id", h.GetMyBooking)
	}
}

// DayAvailability lists each slot of a day with its taken flag, so the
// slot picker can grey out occupied cells. With a time parameter it
// checks that single slot instead; the answer is advisory, the slot
// index at write time decides.
func (h *Handler) DayAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date is required"))
		return
	}

	if slot := c.Query("time"); slot != "" {
		h.checkSlot(c, date, slot)
		return
	}

	slots, err := h.flow.DayAvailability(c.Request.Context(), date)
	if errors.Is(err, bookingflow.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("availability is temporarily unknown"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  date,
		"slots": slots,
	}))
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, _, err := handler.Identity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	b, err := h.flow.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		status, msg := submitErrorStatus(err)
		if status == http.StatusInternalServerError {
			c.Error(err)
		}
		c.JSON(status, handler.NewErrorResponse(msg))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) checkSlot(c *gin.Context, date, slot string) {
	err := h.svc.CheckAvailability(c.Request.Context(), date, slot, nil)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
			"date": date, "time": slot, "available": true,
		}))
	case errors.Is(err, booking.ErrSlotTaken):
		c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
			"date": date, "time": slot, "available": false,
		}))
	case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
	default:
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("availability is temporarily unknown"))
	}
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, _, err := handler.Identity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	bookings, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load bookings"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

// GetMyBooking returns one of the caller's bookings. Other users'
// bookings read as not found.
func (h *Handler) GetMyBooking(c *gin.Context) {
	userID, _, err := handler.Identity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	b, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, booking.ErrNotFound) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("booking not found"))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load booking"))
		return
	}
	if b.UserID != userID {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("booking not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func submitErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict, "the selected slot is already booked"
	case errors.Is(err, booking.ErrAvailabilityCheck):
		return http.StatusServiceUnavailable, "availability is temporarily unknown, please retry"
	case errors.Is(err, bookingflow.ErrSubmissionInFlight):
		return http.StatusConflict, "a booking for this slot is already being processed"
	case errors.Is(err, booking.ErrPastDate):
		return http.StatusBadRequest, "booking date is in the past"
	case errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidSlot),
		errors.Is(err, bookingflow.ErrServiceNotSelected),
		errors.Is(err, bookingflow.ErrUnknownService),
		errors.Is(err, bookingflow.ErrServiceInactive),
		errors.Is(err, bookingflow.ErrSlotNotSelected),
		errors.Is(err, bookingflow.ErrContactIncomplete):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "failed to create booking"
}
