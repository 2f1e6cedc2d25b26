// Package ics moves data between the planner and calendar apps: leave is imported from
// iCalendar files and bookings or proposals are exported as events.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

const productID = "-//julianstephens//traffic " + constants.Version + "//EN"

// ImportOptions controls how calendar events become leave records.
type ImportOptions struct {
	// Employee, when set, owns every imported event. Otherwise the employee is the part
	// of the summary before ":" ("Anna: holiday").
	Employee string
	// Type is the leave type when the summary does not carry one.
	Type string
}

// ImportLeave decodes every VEVENT in r as a leave record. Cancelled events are dropped,
// tentative ones become pending and everything else is approved. The end date is inclusive.
func ImportLeave(r io.Reader, opts ImportOptions, loc *time.Location) ([]models.LeaveRecord, error) {
	if loc == nil {
		loc = time.Local
	}
	dec := ical.NewDecoder(r)
	var out []models.LeaveRecord
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}
			rec, ok, err := leaveFromEvent(event, opts, loc)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func leaveFromEvent(event ical.Event, opts ImportOptions, loc *time.Location) (models.LeaveRecord, bool, error) {
	status := constants.LeaveStatusApproved
	if s, _ := event.Props.Text(ical.PropStatus); s != "" {
		switch strings.ToUpper(s) {
		case "CANCELLED":
			return models.LeaveRecord{}, false, nil
		case "TENTATIVE":
			status = constants.LeaveStatusPending
		}
	}

	summary, _ := event.Props.Text(ical.PropSummary)
	employee, leaveType := splitSummary(summary)
	if opts.Employee != "" {
		employee = opts.Employee
		if leaveType == "" {
			leaveType = strings.TrimSpace(summary)
		}
	}
	if leaveType == "" {
		leaveType = opts.Type
	}
	if leaveType == "" {
		leaveType = "leave"
	}
	if employee == "" {
		return models.LeaveRecord{}, false, fmt.Errorf("event %q names no employee (use \"Name: type\" or pass an employee)", summary)
	}

	start, err := event.DateTimeStart(loc)
	if err != nil {
		return models.LeaveRecord{}, false, fmt.Errorf("event %q: %w", summary, err)
	}
	end, err := event.DateTimeEnd(loc)
	if err != nil {
		return models.LeaveRecord{}, false, fmt.Errorf("event %q: %w", summary, err)
	}
	// All-day events end at midnight of the following day; timed events end on their own day.
	last := calendar.Truncate(end)
	if !end.After(last) && last.After(calendar.Truncate(start)) {
		last = last.AddDate(0, 0, -1)
	}

	id, _ := event.Props.Text(ical.PropUID)
	if id == "" {
		id = uuid.NewString()
	}
	return models.LeaveRecord{
		ID:        id,
		Employee:  employee,
		Type:      leaveType,
		StartDate: calendar.FormatDate(start),
		EndDate:   calendar.FormatDate(last),
		Status:    status,
	}, true, nil
}

func splitSummary(summary string) (employee, leaveType string) {
	name, rest, found := strings.Cut(summary, ":")
	if !found {
		return "", ""
	}
	return strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(rest))
}

// Event is one exportable block: a committed booking or a proposed placement.
type Event struct {
	UID        string
	Employee   string
	Title      string
	Discipline string
	Start      time.Time
	End        time.Time
}

func blockTimes(weekStart string, day int, startHour, duration float64, loc *time.Location) (time.Time, time.Time, error) {
	monday, err := time.ParseInLocation(constants.DateFormat, weekStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid week start %q: %w", weekStart, err)
	}
	date := calendar.DateForIndex(monday, day)
	start := date.Add(time.Duration(startHour * float64(time.Hour)))
	return start, start.Add(time.Duration(duration * float64(time.Hour))), nil
}

// EventsFromBookings converts committed bookings, keeping their IDs as UIDs so that
// re-exports update rather than duplicate calendar entries.
func EventsFromBookings(bookings []models.Booking, loc *time.Location) ([]Event, error) {
	out := make([]Event, 0, len(bookings))
	for _, b := range bookings {
		start, end, err := blockTimes(b.WeekStart, b.DayOfWeek, b.StartHour, b.DurationHours, loc)
		if err != nil {
			return nil, err
		}
		title := strings.TrimSpace(b.ProjectNumber + " " + b.Phase)
		out = append(out, Event{UID: b.ID, Employee: b.Employee, Title: title, Discipline: b.Discipline, Start: start, End: end})
	}
	return out, nil
}

// EventsFromProposal converts the blocks of an uncommitted proposal.
func EventsFromProposal(result models.PlanningResult, loc *time.Location) ([]Event, error) {
	out := make([]Event, 0, len(result.PlacedBlocks))
	for _, pb := range result.PlacedBlocks {
		start, end, err := blockTimes(pb.WeekStart, pb.DayOfWeek, pb.StartHour, pb.DurationHours, loc)
		if err != nil {
			return nil, err
		}
		title := strings.TrimSpace(result.ProjectNumber + " " + pb.PhaseName)
		out = append(out, Event{UID: uuid.NewString(), Employee: pb.EmployeeName, Title: title, Discipline: pb.Discipline, Start: start, End: end})
	}
	return out, nil
}

// Write encodes events as one VCALENDAR. Times are written in UTC.
func Write(w io.Writer, events []Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range events {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, e.UID)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		ev.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%s)", e.Title, e.Employee))
		if e.Discipline != "" {
			ev.Props.SetText(ical.PropCategories, e.Discipline)
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}
