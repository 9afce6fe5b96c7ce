package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the booking contact details for a user. The ID is the
// user's identity; the row is created implicitly on first save.
type Profile struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Phone string    `db:"phone" json:"phone,omitempty"`
	// Email is read from the users table on joined reads; it is not
	// stored on the profile row.
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"max=30"`
}
