package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

// Dates and slot times live as DATE/TIME columns but cross the repository
// boundary as strings, so selects normalize them with to_char.
const bookingColumns = `
	b.id, b.user_id, b.service_id,
	to_char(b.booking_date, 'YYYY-MM-DD') AS booking_date,
	to_char(b.booking_time, 'HH24:MI') AS booking_time,
	b.status, b.notes, b.chart_number, b.created_at, b.updated_at`

const bookingDetailColumns = bookingColumns + `,
	s.id AS "service.id", s.name AS "service.name",
	s.name_en AS "service.name_en", s.duration AS "service.duration",
	s.price AS "service.price", s.description AS "service.description",
	s.active AS "service.active", s.created_at AS "service.created_at",
	p.id AS "profile.id", p.name AS "profile.name", p.phone AS "profile.phone",
	u.email AS "profile.email",
	p.created_at AS "profile.created_at", p.updated_at AS "profile.updated_at"`

const bookingDetailJoins = `
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN profiles p ON p.id = b.user_id
	JOIN users u ON u.id = b.user_id`

func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, service_id, booking_date, booking_time,
			status, notes, chart_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.UserID,
		b.ServiceID,
		b.BookingDate,
		b.BookingTime,
		b.Status,
		b.Notes,
		b.ChartNumber,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var b model.Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *model.Booking) error {
	query := `
		UPDATE bookings
		SET booking_date = $1, booking_time = $2, status = $3,
		    notes = $4, chart_number = $5, updated_at = $6
		WHERE id = $7
	`
	b.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		b.BookingDate,
		b.BookingTime,
		b.Status,
		b.Notes,
		b.ChartNumber,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.BookingWithDetails, error) {
	query := `SELECT ` + bookingDetailColumns + bookingDetailJoins + `
		WHERE b.user_id = $1
		ORDER BY b.booking_date ASC, b.booking_time ASC`

	var bookings []*model.BookingWithDetails
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]*model.BookingWithDetails, error) {
	query := `SELECT ` + bookingDetailColumns + bookingDetailJoins + `
		ORDER BY b.booking_date ASC, b.booking_time ASC`

	var bookings []*model.BookingWithDetails
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListBetween(ctx context.Context, fromDate, toDate string) ([]*model.BookingWithDetails, error) {
	query := `SELECT ` + bookingDetailColumns + bookingDetailJoins + `
		WHERE b.booking_date >= $1 AND b.booking_date <= $2
		ORDER BY b.booking_date ASC, b.booking_time ASC`

	var bookings []*model.BookingWithDetails
	if err := r.db.SelectContext(ctx, &bookings, query, fromDate, toDate); err != nil {
		return nil, fmt.Errorf("failed to list bookings between dates: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) CheckConflict(ctx context.Context, date, slot string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE booking_date = $1
			AND booking_time = $2
			AND status <> 'cancelled'
	`
	args := []interface{}{date, slot}

	if excludeID != nil {
		query += " AND id <> $3"
		args = append(args, *excludeID)
	}

	query += ")"

	var hasConflict bool
	if err := r.db.GetContext(ctx, &hasConflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	return hasConflict, nil
}
