// Package recurrence computes due dates for recurring transaction templates
// and the calendar windows used by budget and report jobs.
package recurrence

import (
	"time"

	apperrors "welth/internal/errors"
	"welth/internal/models"
)

// NextOccurrence returns the next due date after date for interval.
// MONTHLY and YEARLY keep the day-of-month and clamp to the last day of the
// target month, so Jan 31 -> Feb 28/29 and Feb 29 -> Feb 28 the year after.
// The wall-clock time and location of date are preserved.
func NextOccurrence(date time.Time, interval models.RecurringInterval) (time.Time, error) {
	switch interval {
	case models.RecurringDaily:
		return date.AddDate(0, 0, 1), nil
	case models.RecurringWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.RecurringMonthly:
		return addMonthsClamped(date, 1), nil
	case models.RecurringYearly:
		return addMonthsClamped(date, 12), nil
	default:
		return time.Time{}, apperrors.ErrInvalidInterval
	}
}

// ValidInterval reports whether interval is one of the four supported kinds.
func ValidInterval(interval models.RecurringInterval) bool {
	_, err := NextOccurrence(time.Time{}, interval)
	return err == nil
}

func addMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	h, mi, s := date.Clock()
	return time.Date(first.Year(), first.Month(), d, h, mi, s, date.Nanosecond(), date.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// IsDue reports whether a recurring template should spawn an occurrence at now.
// A template that has never been processed is always due. Callers must gate
// on IsRecurring first.
func IsDue(lastProcessed, nextRecurringDate *time.Time, now time.Time) bool {
	if lastProcessed == nil {
		return true
	}
	if nextRecurringDate == nil {
		return false
	}
	return !nextRecurringDate.After(now)
}

// MonthBounds returns the first and last instant of t's calendar month in t's location.
func MonthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PreviousMonth returns an instant inside the calendar month before t's.
func PreviousMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
}

// SameMonth reports whether a and b fall in the same calendar month and year.
// b is compared in a's location.
func SameMonth(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}
