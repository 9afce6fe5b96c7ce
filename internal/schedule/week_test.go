package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"tuesday", time.Date(2025, 8, 5, 15, 30, 0, 0, time.UTC), "2025-08-04"},
		{"monday", time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), "2025-08-04"},
		{"sunday rolls back to previous monday", time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC), "2025-08-04"},
		{"saturday", time.Date(2025, 8, 9, 23, 59, 0, 0, time.UTC), "2025-08-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.in)
			assert.Equal(t, tt.want, FormatDate(got))
			assert.Equal(t, time.Monday, got.Weekday())
			assert.Zero(t, got.Hour())
		})
	}
}

func TestWeekNavigation(t *testing.T) {
	tuesday := time.Date(2025, 8, 5, 10, 0, 0, 0, time.UTC)

	// Two "next" clicks advance the displayed Monday by exactly 14 days.
	anchor := NextWeek(NextWeek(tuesday))
	assert.Equal(t, "2025-08-18", FormatDate(StartOfWeek(anchor)))

	// Navigating back returns to the original week.
	assert.Equal(t, "2025-08-04", FormatDate(StartOfWeek(PrevWeek(PrevWeek(anchor)))))

	// "Today" resets regardless of how far we navigated: the anchor is
	// simply replaced by the current date.
	today := time.Date(2025, 8, 5, 10, 0, 0, 0, time.UTC)
	far := anchor
	for i := 0; i < 10; i++ {
		far = NextWeek(far)
	}
	assert.Equal(t, "2025-08-04", FormatDate(StartOfWeek(today)))
	assert.NotEqual(t, StartOfWeek(far), StartOfWeek(today))
}

func TestWeekDates(t *testing.T) {
	week := WeekDates(time.Date(2025, 8, 7, 12, 0, 0, 0, time.UTC)) // a Thursday

	assert.Equal(t, "2025-08-04", FormatDate(week[0]))
	assert.Equal(t, "2025-08-10", FormatDate(week[6]))
	for i := 1; i < 7; i++ {
		assert.Equal(t, 24*time.Hour, week[i].Sub(week[i-1]))
	}
}
