package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/seikotsu/booking-api/internal/repository"
)

type bookingRepository struct{ db *sqlx.DB }
type serviceRepository struct{ db *sqlx.DB }
type profileRepository struct{ db *sqlx.DB }
type userRepository struct{ db *sqlx.DB }
type tokenRepository struct{ db *sqlx.DB }
type outboxRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewTokenRepository(db *sqlx.DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

// isUniqueViolation matches postgres error 23505.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
