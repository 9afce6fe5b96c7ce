package schedule

import "time"

// StartOfWeek returns midnight on the Monday of the week containing d.
func StartOfWeek(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0, Sunday = 6
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the seven days of the week containing d, Monday first.
func WeekDates(d time.Time) [7]time.Time {
	var week [7]time.Time
	start := StartOfWeek(d)
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

// NextWeek and PrevWeek move the displayed week by exactly seven days.
func NextWeek(d time.Time) time.Time { return d.AddDate(0, 0, 7) }

func PrevWeek(d time.Time) time.Time { return d.AddDate(0, 0, -7) }

func FormatDate(d time.Time) string { return d.Format(DateFormat) }
