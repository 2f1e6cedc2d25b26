package scheduler

import (
	"github.com/julianstephens/traffic/internal/models"
)

// scanStep is the granularity of the first-fit scan, in hours.
const scanStep = 1.0

const epsilon = 1e-9

// Slot is a candidate or confirmed interval within a working day.
type Slot struct {
	StartHour     float64
	DurationHours float64
}

func (s Slot) End() float64 {
	return s.StartHour + s.DurationHours
}

// Overlaps is the open-interval overlap test: [aStart,aEnd) and [bStart,bEnd) conflict
// iff aStart < bEnd and aEnd > bStart. Adjacent intervals do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd-epsilon && aEnd > bStart+epsilon
}

func conflictsAny(start, end float64, bookings []models.Booking) bool {
	for _, b := range bookings {
		if Overlaps(start, end, b.StartHour, b.End()) {
			return true
		}
	}
	return false
}

// SlotFinder computes the earliest valid slot for a block.
type SlotFinder struct {
	cfg models.WorkConfig
}

func NewSlotFinder(cfg models.WorkConfig) SlotFinder {
	return SlotFinder{cfg: cfg}
}

// IsFullDay reports whether a block of durationHours is placed with the full-day rule.
func (f SlotFinder) IsFullDay(durationHours float64) bool {
	return durationHours >= f.cfg.StandardHoursPerDay-epsilon
}

// Find dispatches to the meeting, full-day or partial algorithm.
func (f SlotFinder) Find(kind models.Kind, bookings []models.Booking, durationHours float64) (Slot, bool) {
	switch {
	case kind == models.KindMeeting:
		return f.Meeting(bookings, durationHours)
	case f.IsFullDay(durationHours):
		return f.FullDay(bookings)
	default:
		return f.Partial(bookings, durationHours)
	}
}

// FullDay checks the morning window (workday start to lunch) and the afternoon window
// (FullDayAfternoonStart to workday end). When both are free the block covers the whole
// working day from its start, lunch included.
//
// Only those two windows are checked: a booking between lunch start and the afternoon
// window (13:00-14:00 by default) does not block a full day.
func (f SlotFinder) FullDay(bookings []models.Booking) (Slot, bool) {
	c := f.cfg
	if conflictsAny(c.WorkdayStart, c.LunchStart, bookings) {
		return Slot{}, false
	}
	if conflictsAny(c.FullDayAfternoonStart, c.WorkdayEnd, bookings) {
		return Slot{}, false
	}
	return Slot{StartHour: c.WorkdayStart, DurationHours: c.FullDaySpan()}, true
}

// Partial scans start hours from the workday start, first fit, skipping any candidate that
// touches lunch or an existing booking.
func (f SlotFinder) Partial(bookings []models.Booking, durationHours float64) (Slot, bool) {
	return f.scan(f.cfg.WorkdayStart, f.cfg.WorkdayEnd, bookings, durationHours)
}

// Meeting is Partial restricted to the meeting window.
func (f SlotFinder) Meeting(bookings []models.Booking, durationHours float64) (Slot, bool) {
	return f.scan(f.cfg.MeetingWindowStart, f.cfg.MeetingWindowEnd, bookings, durationHours)
}

func (f SlotFinder) scan(from, to float64, bookings []models.Booking, durationHours float64) (Slot, bool) {
	if durationHours <= 0 {
		return Slot{}, false
	}
	for start := from; start+durationHours <= to+epsilon; start += scanStep {
		end := start + durationHours
		if Overlaps(start, end, f.cfg.LunchStart, f.cfg.LunchEnd) {
			continue
		}
		if conflictsAny(start, end, bookings) {
			continue
		}
		return Slot{StartHour: start, DurationHours: durationHours}, true
	}
	return Slot{}, false
}
