package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

// Availability is the outcome of checking one employee on one date.
type Availability int

const (
	Available Availability = iota
	OnLeave
	PartTimeOff
	// LookupFailed means a source returned an error. It is treated as available.
	LookupFailed
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case OnLeave:
		return "on_leave"
	case PartTimeOff:
		return "part_time_off"
	case LookupFailed:
		return "lookup_failed"
	default:
		return fmt.Sprintf("availability(%d)", int(a))
	}
}

// AvailabilityResult carries the matching leave record or lookup error alongside the outcome.
type AvailabilityResult struct {
	Status Availability
	Leave  *models.LeaveRecord
	Err    error
}

// Blocks reports whether the employee must not be scheduled.
func (r AvailabilityResult) Blocks() bool {
	return r.Status == OnLeave || r.Status == PartTimeOff
}

// Oracle answers leave and part-time questions. It keeps no cache.
type Oracle struct {
	leave    LeaveSource
	profiles ProfileSource
}

func NewOracle(leave LeaveSource, profiles ProfileSource) *Oracle {
	return &Oracle{leave: leave, profiles: profiles}
}

// HasApprovedLeave reports whether an approved leave record covers date (inclusive on both ends).
func (o *Oracle) HasApprovedLeave(employee string, date time.Time) (bool, *models.LeaveRecord, error) {
	records, err := o.leave.GetLeaveForEmployee(employee)
	if err != nil {
		return false, nil, fmt.Errorf("reading leave for %s: %w", employee, err)
	}
	day := calendar.FormatDate(date)
	for i := range records {
		r := records[i]
		if r.Status != constants.LeaveStatusApproved {
			continue
		}
		// YYYY-MM-DD compares correctly as a string.
		if r.StartDate <= day && day <= r.EndDate {
			return true, &r, nil
		}
	}
	return false, nil, nil
}

// IsFixedPartTimeOff reports whether date falls on the employee's recurring day off.
// Unknown employees are full-time.
func (o *Oracle) IsFixedPartTimeOff(employee string, date time.Time) (bool, error) {
	emp, err := o.profiles.GetEmployee(employee)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("reading profile for %s: %w", employee, err)
	}
	if emp.FixedDayOff == nil {
		return false, nil
	}
	idx, ok := calendar.DayIndex(date)
	return ok && idx == *emp.FixedDayOff, nil
}

// Check runs both lookups independently. A blocking answer from either lookup
// wins over an error from the other; LookupFailed, which callers must treat as
// available, is returned only when nothing that succeeded blocks the date.
func (o *Oracle) Check(employee string, date time.Time) AvailabilityResult {
	onLeave, rec, leaveErr := o.HasApprovedLeave(employee, date)
	if leaveErr == nil && onLeave {
		return AvailabilityResult{Status: OnLeave, Leave: rec}
	}
	off, profileErr := o.IsFixedPartTimeOff(employee, date)
	if profileErr == nil && off {
		return AvailabilityResult{Status: PartTimeOff}
	}
	if err := errors.Join(leaveErr, profileErr); err != nil {
		return AvailabilityResult{Status: LookupFailed, Err: err}
	}
	return AvailabilityResult{Status: Available}
}
