package bookinglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/traffic/internal/models"
)

func TestSetBookings(t *testing.T) {
	m := New(60, 20)
	m.SetBookings("Anna", []models.Booking{
		{Employee: "Anna", ProjectNumber: "25-001", Phase: "Edit", DayOfWeek: 2, StartHour: 9, DurationHours: 2},
		{Employee: "Bram", Phase: "Design", DayOfWeek: 0, StartHour: 9, DurationHours: 9},
		{Employee: "Anna", Phase: "Kick-off", Discipline: "account", DayOfWeek: 0, StartHour: 10, DurationHours: 1},
	})

	items := m.list.Items()
	require.Len(t, items, 2)
	first := items[0].(Item)
	assert.Equal(t, "Kick-off", first.Title())
	assert.Equal(t, "Mon 10:00-11:00 | account", first.Description())
	assert.Equal(t, "25-001 Edit", items[1].(Item).Title())
}

func TestViewEmptyStates(t *testing.T) {
	m := New(60, 20)
	assert.Contains(t, m.View(), "Select an employee")

	m.SetBookings("Cas", nil)
	assert.Contains(t, m.View(), "Cas has no bookings")
}
