// Package validation checks committed bookings against the studio's rules: no double
// bookings, nothing outside the workday, nothing on leave or a fixed day off.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
	"github.com/julianstephens/traffic/internal/scheduler"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingBookings ConflictType = "overlapping_bookings"
	ConflictOutsideWorkday      ConflictType = "outside_workday"
	ConflictOverbooked          ConflictType = "overbooked"
	ConflictOnLeave             ConflictType = "on_leave"
	ConflictDayOff              ConflictType = "fixed_day_off"
	ConflictUnknownEmployee     ConflictType = "unknown_employee"
	ConflictInvalidDate         ConflictType = "invalid_date"
)

// Conflict is one problem found in the bookings.
type Conflict struct {
	Type        ConflictType
	Description string
	Employee    string
	Date        string   // YYYY-MM-DD, if applicable
	BookingIDs  []string // bookings involved
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks bookings against one work config.
type Validator struct {
	cfg models.WorkConfig
}

func New(cfg models.WorkConfig) *Validator {
	return &Validator{cfg: cfg}
}

type dayKey struct {
	employee string
	date     string
}

// ValidateBookings checks bookings (any number of weeks) against the employee profiles and
// leave records. Conflicts come back ordered by date, then employee.
func (v *Validator) ValidateBookings(bookings []models.Booking, employees []models.Employee, leave []models.LeaveRecord) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	profiles := make(map[string]models.Employee, len(employees))
	for _, e := range employees {
		profiles[e.Name] = e
	}

	byDay := map[dayKey][]models.Booking{}
	for _, b := range bookings {
		date, ok := bookingDate(b)
		if !ok {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Booking %s has invalid week %q / day %d", b.ID, b.WeekStart, b.DayOfWeek),
				Employee:    b.Employee,
				BookingIDs:  []string{b.ID},
			})
			continue
		}
		ds := calendar.FormatDate(date)
		k := dayKey{b.Employee, ds}
		byDay[k] = append(byDay[k], b)

		if b.StartHour < v.cfg.WorkdayStart || b.End() > v.cfg.WorkdayEnd {
			result.add(Conflict{
				Type: ConflictOutsideWorkday,
				Description: fmt.Sprintf("%s %s: %s-%s %s is outside the workday (%s-%s)",
					ds, b.Employee, calendar.FormatHour(b.StartHour), calendar.FormatHour(b.End()), label(b),
					calendar.FormatHour(v.cfg.WorkdayStart), calendar.FormatHour(v.cfg.WorkdayEnd)),
				Employee:   b.Employee,
				Date:       ds,
				BookingIDs: []string{b.ID},
			})
		}
	}

	for k, day := range byDay {
		v.validateDay(&result, k, day, profiles, leave)
	}

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		a, b := result.Conflicts[i], result.Conflicts[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Employee != b.Employee {
			return a.Employee < b.Employee
		}
		return a.Type < b.Type
	})
	return result
}

func (v *Validator) validateDay(result *ValidationResult, k dayKey, day []models.Booking, profiles map[string]models.Employee, leave []models.LeaveRecord) {
	ids := make([]string, len(day))
	for i, b := range day {
		ids[i] = b.ID
	}

	emp, known := profiles[k.employee]
	if !known {
		result.add(Conflict{
			Type:        ConflictUnknownEmployee,
			Description: fmt.Sprintf("%s %s: booked but has no employee profile", k.date, k.employee),
			Employee:    k.employee,
			Date:        k.date,
			BookingIDs:  ids,
		})
	}

	if l := approvedLeaveOn(leave, k.employee, k.date); l != nil {
		result.add(Conflict{
			Type:        ConflictOnLeave,
			Description: fmt.Sprintf("%s %s: booked during approved %s leave (%s to %s)", k.date, k.employee, l.Type, l.StartDate, l.EndDate),
			Employee:    k.employee,
			Date:        k.date,
			BookingIDs:  ids,
		})
	}

	if known && emp.FixedDayOff != nil && *emp.FixedDayOff == day[0].DayOfWeek {
		result.add(Conflict{
			Type:        ConflictDayOff,
			Description: fmt.Sprintf("%s %s: booked on fixed day off (%s)", k.date, k.employee, calendar.DayName(*emp.FixedDayOff)),
			Employee:    k.employee,
			Date:        k.date,
			BookingIDs:  ids,
		})
	}

	sort.Slice(day, func(i, j int) bool { return day[i].StartHour < day[j].StartHour })
	var total float64
	for i := range day {
		total += day[i].DurationHours
		for j := i + 1; j < len(day); j++ {
			a, b := day[i], day[j]
			if !scheduler.Overlaps(a.StartHour, a.End(), b.StartHour, b.End()) {
				continue
			}
			result.add(Conflict{
				Type: ConflictOverlappingBookings,
				Description: fmt.Sprintf("%s %s: %s-%s %s overlaps %s-%s %s", k.date, k.employee,
					calendar.FormatHour(a.StartHour), calendar.FormatHour(a.End()), label(a),
					calendar.FormatHour(b.StartHour), calendar.FormatHour(b.End()), label(b)),
				Employee:   k.employee,
				Date:       k.date,
				BookingIDs: []string{a.ID, b.ID},
			})
		}
	}

	if capacity := v.cfg.WorkdayEnd - v.cfg.WorkdayStart; total > capacity {
		result.add(Conflict{
			Type:        ConflictOverbooked,
			Description: fmt.Sprintf("%s %s: %gh booked exceeds the %gh workday", k.date, k.employee, total, capacity),
			Employee:    k.employee,
			Date:        k.date,
			BookingIDs:  ids,
		})
	}
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

func bookingDate(b models.Booking) (time.Time, bool) {
	monday, err := calendar.ParseDate(b.WeekStart)
	if err != nil || !calendar.MondayOf(monday).Equal(monday) {
		return time.Time{}, false
	}
	if b.DayOfWeek < 0 || b.DayOfWeek > 4 {
		return time.Time{}, false
	}
	return calendar.DateForIndex(monday, b.DayOfWeek), true
}

func approvedLeaveOn(leave []models.LeaveRecord, employee, date string) *models.LeaveRecord {
	for i, l := range leave {
		if l.Employee == employee && l.Status == constants.LeaveStatusApproved && l.StartDate <= date && date <= l.EndDate {
			return &leave[i]
		}
	}
	return nil
}

func label(b models.Booking) string {
	s := strings.TrimSpace(b.ProjectNumber + " " + b.Phase)
	if s == "" {
		return b.ID
	}
	return s
}
