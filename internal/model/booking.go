package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Active reports whether the booking still occupies its slot.
// Cancelled bookings free the slot; every other status holds it.
func (s BookingStatus) Active() bool {
	return s != BookingStatusCancelled
}

type Booking struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	UserID      uuid.UUID     `db:"user_id" json:"user_id"`
	ServiceID   uuid.UUID     `db:"service_id" json:"service_id"`
	BookingDate string        `db:"booking_date" json:"booking_date"`
	BookingTime string        `db:"booking_time" json:"booking_time"`
	Status      BookingStatus `db:"status" json:"status"`
	Notes       string        `db:"notes" json:"notes,omitempty"`
	ChartNumber string        `db:"chart_number" json:"chart_number,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingWithDetails joins a booking to its service and the owning profile
// for list and calendar views.
type BookingWithDetails struct {
	Booking
	Service Service `db:"service" json:"service"`
	Profile Profile `db:"profile" json:"profile"`
}

type CreateBookingRequest struct {
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	BookingDate string    `json:"booking_date" binding:"required,bookdate"`
	BookingTime string    `json:"booking_time" binding:"required,slot"`
	Name        string    `json:"name" binding:"required"`
	Phone       string    `json:"phone" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

type RescheduleRequest struct {
	BookingDate string `json:"booking_date" binding:"required,bookdate"`
	BookingTime string `json:"booking_time" binding:"required,slot"`
}

// DropRequest carries the raw pointer release position of a calendar drag
// together with the grid geometry of the client that produced it.
type DropRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	GridWidth float64 `json:"grid_width" binding:"required,gt=0"`
	WeekStart string  `json:"week_start" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// BookingStats backs the admin dashboard header.
type BookingStats struct {
	Total         int `json:"total"`
	Confirmed     int `json:"confirmed"`
	Pending       int `json:"pending"`
	Today         int `json:"today"`
	RevenueToDate int `json:"revenue_to_date"`
}
