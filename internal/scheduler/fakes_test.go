package scheduler

import (
	"errors"
	"fmt"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// fakeSources is an in-memory implementation of every source interface.
type fakeSources struct {
	leave     map[string][]models.LeaveRecord
	employees map[string]models.Employee
	bookings  []models.Booking
	clients   []models.Client

	failLeave    map[string]bool
	failProfile  map[string]bool
	failBookings map[string]bool
	nextSeq      int
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		leave:        make(map[string][]models.LeaveRecord),
		employees:    make(map[string]models.Employee),
		clients:      []models.Client{{ID: "c1", Name: "ACME Studios"}, {ID: "c2", Name: "Bakkerij de Vries"}},
		failLeave:    make(map[string]bool),
		failProfile:  make(map[string]bool),
		failBookings: make(map[string]bool),
	}
}

func (f *fakeSources) addLeave(emp, start, end, status string) {
	f.leave[emp] = append(f.leave[emp], models.LeaveRecord{
		ID: fmt.Sprintf("l%d", len(f.leave[emp])), Employee: emp, Type: "holiday",
		StartDate: start, EndDate: end, Status: status,
	})
}

func (f *fakeSources) addBooking(emp, week string, day int, start, hours float64) {
	f.bookings = append(f.bookings, models.Booking{
		Employee: emp, WeekStart: week, DayOfWeek: day, StartHour: start, DurationHours: hours,
	})
}

func (f *fakeSources) GetLeaveForEmployee(employee string) ([]models.LeaveRecord, error) {
	if f.failLeave[employee] {
		return nil, errStoreDown
	}
	return f.leave[employee], nil
}

func (f *fakeSources) GetEmployee(name string) (models.Employee, error) {
	if f.failProfile[name] {
		return models.Employee{}, errStoreDown
	}
	emp, ok := f.employees[name]
	if !ok {
		return models.Employee{}, fmt.Errorf("employee %s: %w", name, models.ErrNotFound)
	}
	return emp, nil
}

func (f *fakeSources) GetBookings(employee, weekStart string, dayOfWeek int) ([]models.Booking, error) {
	if f.failBookings[employee] {
		return nil, errStoreDown
	}
	var out []models.Booking
	// return in reverse insertion order so sorting is exercised
	for i := len(f.bookings) - 1; i >= 0; i-- {
		b := f.bookings[i]
		if b.Employee == employee && b.WeekStart == weekStart && b.DayOfWeek == dayOfWeek {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeSources) GetAllClients() ([]models.Client, error) {
	return f.clients, nil
}

func (f *fakeSources) NextProjectNumber(year int) (string, error) {
	f.nextSeq++
	return fmt.Sprintf("%02d-%03d", year%100, f.nextSeq), nil
}

func defaultConfig() models.WorkConfig {
	return models.WorkConfig{
		WorkdayStart:          constants.DefaultWorkdayStart,
		WorkdayEnd:            constants.DefaultWorkdayEnd,
		LunchStart:            constants.DefaultLunchStart,
		LunchEnd:              constants.DefaultLunchEnd,
		MeetingWindowStart:    constants.DefaultMeetingWindowStart,
		MeetingWindowEnd:      constants.DefaultMeetingWindowEnd,
		StandardHoursPerDay:   constants.DefaultStandardHoursPerDay,
		FullDayAfternoonStart: constants.DefaultFullDayAfternoonStart,
		MeetingHours:          constants.DefaultMeetingHours,
	}
}

func intPtr(i int) *int { return &i }
