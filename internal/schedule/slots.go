// Package schedule defines the clinic's bookable grid: the fixed slot
// table, Monday-start week arithmetic, and the calendar cell geometry.
package schedule

import (
	"strings"
	"time"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// The clinic takes bookings in 30-minute steps, mornings 09:00-11:30 and
// afternoons 14:00-18:30. The midday gap is the lunch closure.
var slots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	"17:00", "17:30", "18:00", "18:30",
}

var slotIndex = func() map[string]int {
	m := make(map[string]int, len(slots))
	for i, s := range slots {
		m[s] = i
	}
	return m
}()

// Slots returns the ordered slot table. The caller gets a copy.
func Slots() []string {
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}

func NumSlots() int { return len(slots) }

func IsValidSlot(t string) bool {
	_, ok := slotIndex[t]
	return ok
}

// SlotIndex returns the position of t in the slot table, or -1.
func SlotIndex(t string) int {
	if i, ok := slotIndex[t]; ok {
		return i
	}
	return -1
}

// SlotAt returns the slot at position i, or "" when out of range.
func SlotAt(i int) string {
	if i < 0 || i >= len(slots) {
		return ""
	}
	return slots[i]
}

// CompareSlots orders two slot values by time of day. Lexicographic
// comparison is correct for zero-padded HH:MM strings.
func CompareSlots(a, b string) int {
	return strings.Compare(a, b)
}

// ParseDate parses a calendar date in the wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// IsPastDate reports whether date falls before the day containing now.
// Today is bookable; only earlier days are rejected.
func IsPastDate(date string, now time.Time) bool {
	d, err := ParseDate(date)
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}
