package booking

import (
	"strings"

	"github.com/seikotsu/booking-api/internal/model"
)

// ListFilter narrows the admin booking list. All set fields must match.
type ListFilter struct {
	// Search is matched case-insensitively as a substring of the
	// customer name, email, and chart number, and as a raw substring
	// of the phone number.
	Search string
	// Status filters to an exact status; empty or "all" disables it.
	Status string
	// Date filters to an exact booking date; empty disables it.
	Date string
}

func (f ListFilter) Matches(b *model.BookingWithDetails) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Profile.Name), term) &&
			!strings.Contains(b.Profile.Phone, f.Search) &&
			!strings.Contains(strings.ToLower(b.Profile.Email), term) &&
			!strings.Contains(strings.ToLower(b.ChartNumber), term) {
			return false
		}
	}

	if f.Status != "" && f.Status != "all" && string(b.Status) != f.Status {
		return false
	}

	if f.Date != "" && b.BookingDate != f.Date {
		return false
	}

	return true
}

func (f ListFilter) Apply(bookings []*model.BookingWithDetails) []*model.BookingWithDetails {
	if f.Search == "" && (f.Status == "" || f.Status == "all") && f.Date == "" {
		return bookings
	}

	filtered := make([]*model.BookingWithDetails, 0, len(bookings))
	for _, b := range bookings {
		if f.Matches(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
