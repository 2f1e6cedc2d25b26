// Package calendar holds the week arithmetic used by the planner. Weeks are ISO weeks:
// Monday is the first day and Sunday the last.
package calendar

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/traffic/internal/constants"
)

var dayNames = [5]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Truncate drops the clock part of date, keeping its location.
func Truncate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

// MondayOf returns the Monday of the ISO week containing date.
func MondayOf(date time.Time) time.Time {
	date = Truncate(date)
	return date.AddDate(0, 0, -(isoWeekday(date) - 1))
}

// DayIndex returns 0 for Monday through 4 for Friday. ok is false on weekends.
func DayIndex(date time.Time) (idx int, ok bool) {
	wd := isoWeekday(date)
	if wd > 5 {
		return 0, false
	}
	return wd - 1, true
}

func IsWeekend(date time.Time) bool {
	return isoWeekday(date) > 5
}

// SkipWeekend advances date to the next Monday if it falls on a weekend.
func SkipWeekend(date time.Time) time.Time {
	for IsWeekend(date) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// DateForIndex returns the date of day idx (0=Mon) in the week starting at monday.
func DateForIndex(monday time.Time, idx int) time.Time {
	return Truncate(monday).AddDate(0, 0, idx)
}

// ISOWeek returns the ISO week number of date.
func ISOWeek(date time.Time) int {
	_, wk := date.ISOWeek()
	return wk
}

// DayName returns the short English name for a 0..4 day index.
func DayName(idx int) string {
	if idx < 0 || idx >= len(dayNames) {
		return "?"
	}
	return dayNames[idx]
}

// ParseDate parses a YYYY-MM-DD string in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func FormatDate(date time.Time) string {
	return date.Format(constants.DateFormat)
}

// FormatHour renders decimal hours as HH:MM (12.5 -> "12:30").
func FormatHour(h float64) string {
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseHour parses HH:MM into decimal hours.
func ParseHour(s string) (float64, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, use HH:MM: %w", s, err)
	}
	return float64(t.Hour()) + float64(t.Minute())/60, nil
}
