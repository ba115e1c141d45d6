package domain

import (
	"errors"
	"time"
)

// DayLayout is the ISO calendar-day format used for session dates and week keys.
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDay parses an ISO day string as midnight UTC.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDay renders the calendar day of t (in t's location).
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDay(now.In(loc))
}

// MondayOf returns midnight of the Monday of the ISO week containing t.
func MondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	// Sunday belongs to the week that started six days earlier.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekStart returns the Monday of the week containing the given ISO day.
func WeekStart(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(MondayOf(t)), nil
}

// AddDays shifts an ISO day by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}
