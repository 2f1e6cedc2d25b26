package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/models"
)

// phasePlan is a validated PhaseRequest with everything the walk needs resolved.
type phasePlan struct {
	req         models.PhaseRequest
	class       Classification
	start       time.Time
	hours       float64
	dist        models.Distribution
	daysPerWeek int
}

// run accumulates the output of one planning invocation.
type run struct {
	oracle   *Oracle
	index    *BookingIndex
	finder   SlotFinder
	deadline time.Time
	hasDL    bool

	blocks   []models.PlacedBlock
	warnings []string
	lines    []string
	// blocks placed earlier in this run, keyed by employee and date
	pending map[string][]models.Booking
}

func pendingKey(employee string, date time.Time) string {
	return employee + "|" + calendar.FormatDate(date)
}

func (r *run) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	logger.Debug("planning warning", "msg", msg)
}

// beforeDeadline reports whether date may still receive blocks.
func (r *run) beforeDeadline(date time.Time) bool {
	return !r.hasDL || date.Before(r.deadline)
}

// schedulePhase walks the dates of one phase according to its distribution mode.
func (r *run) schedulePhase(p phasePlan) {
	switch p.dist {
	case models.DistributionPerWeek:
		r.perWeek(p)
	case models.DistributionLastWeek:
		r.lastWeek(p)
	default:
		r.sequential(p, p.start)
	}
}

// sequential places one block per employee on consecutive working days from `from`
// until DurationDays days have been attempted or the deadline is reached.
func (r *run) sequential(p phasePlan, from time.Time) {
	date := from
	for attempted := 0; attempted < p.req.DurationDays; attempted++ {
		date = calendar.SkipWeekend(date)
		if !r.beforeDeadline(date) {
			r.deadlineWarning(p, attempted)
			return
		}
		r.placeDay(p, date)
		date = date.AddDate(0, 0, 1)
	}
}

func (r *run) perWeek(p phasePlan) {
	feedback := p.class.Kind == models.KindFeedback
	remaining := p.req.DurationDays
	anchor := p.start

	// Each pass places at least one day, so the loop ends. A first week that starts late
	// rolls its unplaced days into the following weeks.
	for remaining > 0 {
		date := calendar.SkipWeekend(anchor)
		monday := calendar.MondayOf(date)
		if feedback {
			if idx, _ := calendar.DayIndex(date); idx < 3 {
				date = calendar.DateForIndex(monday, 3)
			}
		}
		friday := calendar.DateForIndex(monday, 4)

		quota := p.daysPerWeek
		if quota > remaining {
			quota = remaining
		}
		for placed := 0; placed < quota && !date.After(friday); placed++ {
			if !r.beforeDeadline(date) {
				r.deadlineWarning(p, p.req.DurationDays-remaining)
				return
			}
			r.placeDay(p, date)
			remaining--
			date = date.AddDate(0, 0, 1)
		}

		anchor = monday.AddDate(0, 0, 7)
		if feedback {
			anchor = calendar.DateForIndex(anchor, 3)
		}
	}
}

func (r *run) lastWeek(p phasePlan) {
	if !r.hasDL {
		r.warn("%s: last_week distribution needs a project deadline; nothing scheduled", p.req.PhaseName)
		return
	}
	anchor := calendar.SkipWeekend(r.deadline.AddDate(0, 0, -7))
	if p.start.After(anchor) {
		anchor = p.start
	}
	r.sequential(p, anchor)
}

func (r *run) deadlineWarning(p phasePlan, attempted int) {
	r.warn("%s: only %d of %d days fit before deadline %s",
		p.req.PhaseName, attempted, p.req.DurationDays, calendar.FormatDate(r.deadline))
}

// placeDay attempts one block per employee, in list order, on date.
func (r *run) placeDay(p phasePlan, date time.Time) {
	day := calendar.FormatDate(date)
	for _, emp := range p.req.Employees {
		avail := r.oracle.Check(emp, date)
		if avail.Blocks() {
			r.warnUnavailable(p, emp, date, avail)
			continue
		}
		if avail.Status == LookupFailed {
			logger.Warn("availability lookup failed, assuming available", "employee", emp, "date", day, "error", avail.Err)
			r.warn("%s: could not check availability of %s on %s, assumed available", p.req.PhaseName, emp, day)
		}

		bookings, err := r.index.BookingsOn(emp, date)
		if err != nil {
			logger.Error("booking lookup failed", "employee", emp, "date", day, "error", err)
			r.warn("%s: could not read bookings of %s on %s, not scheduled", p.req.PhaseName, emp, day)
			continue
		}
		key := pendingKey(emp, date)
		if extra := r.pending[key]; len(extra) > 0 {
			bookings = append(bookings, extra...)
			sortBookings(bookings)
		}

		slot, ok := r.finder.Find(p.class.Kind, bookings, p.hours)
		if !ok {
			r.warn("%s: no free %s slot for %s on %s", p.req.PhaseName, formatDuration(p.hours), emp, day)
			continue
		}

		r.place(p, emp, date, slot)
	}
}

func (r *run) warnUnavailable(p phasePlan, emp string, date time.Time, avail AvailabilityResult) {
	day := calendar.FormatDate(date)
	if avail.Status == OnLeave {
		leaveType := "leave"
		if avail.Leave != nil && avail.Leave.Type != "" {
			leaveType = avail.Leave.Type
		}
		r.warn("%s: %s is on approved %s on %s, not scheduled", p.req.PhaseName, emp, leaveType, day)
		return
	}
	r.warn("%s: %s does not work on %s (part-time), %s not scheduled",
		p.req.PhaseName, emp, date.Weekday(), day)
}

func (r *run) place(p phasePlan, emp string, date time.Time, slot Slot) {
	idx, _ := calendar.DayIndex(date)
	monday := calendar.MondayOf(date)
	block := models.PlacedBlock{
		EmployeeName:  emp,
		PhaseName:     p.req.PhaseName,
		Discipline:    p.class.Discipline,
		WeekStart:     calendar.FormatDate(monday),
		DayOfWeek:     idx,
		StartHour:     slot.StartHour,
		DurationHours: slot.DurationHours,
	}
	r.blocks = append(r.blocks, block)

	key := pendingKey(emp, date)
	r.pending[key] = append(r.pending[key], models.Booking{
		Employee:      emp,
		WeekStart:     block.WeekStart,
		DayOfWeek:     idx,
		StartHour:     slot.StartHour,
		DurationHours: slot.DurationHours,
	})

	r.lines = append(r.lines, fmt.Sprintf("%s: wk%d %s %s-%s",
		emp, calendar.ISOWeek(date), calendar.DayName(idx),
		calendar.FormatHour(slot.StartHour), calendar.FormatHour(slot.End())))
	logger.Debug("block placed", "employee", emp, "date", calendar.FormatDate(date), "start", slot.StartHour, "hours", slot.DurationHours)
}

func formatDuration(hours float64) string {
	if hours == float64(int(hours)) {
		return fmt.Sprintf("%dh", int(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}
