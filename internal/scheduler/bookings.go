package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
)

// BookingIndex reads committed bookings per employee-day. Blocks of the proposal being
// built never come from here.
type BookingIndex struct {
	src BookingSource
}

func NewBookingIndex(src BookingSource) *BookingIndex {
	return &BookingIndex{src: src}
}

// BookingsOn returns the employee's committed bookings on date, ascending by start hour.
func (x *BookingIndex) BookingsOn(employee string, date time.Time) ([]models.Booking, error) {
	idx, ok := calendar.DayIndex(date)
	if !ok {
		return nil, fmt.Errorf("%s is a weekend day", calendar.FormatDate(date))
	}
	week := calendar.FormatDate(calendar.MondayOf(date))
	bookings, err := x.src.GetBookings(employee, week, idx)
	if err != nil {
		return nil, fmt.Errorf("reading bookings for %s on %s: %w", employee, calendar.FormatDate(date), err)
	}
	sortBookings(bookings)
	return bookings, nil
}

func sortBookings(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartHour < bookings[j].StartHour
	})
}
