package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is clinic reference data: read-only to the booking flow,
// only active rows are offered.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	NameEn      string    `db:"name_en" json:"name_en,omitempty"`
	Duration    string    `db:"duration" json:"duration"`
	Price       int       `db:"price" json:"price"`
	Description string    `db:"description" json:"description,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// SlotAvailability is one entry of a day's slot picker.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
