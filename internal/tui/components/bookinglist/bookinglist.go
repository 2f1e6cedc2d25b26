// Package bookinglist lists the bookings of one employee for the week on screen.
package bookinglist

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
)

type Item struct {
	Booking models.Booking
}

func (i Item) Title() string {
	b := i.Booking
	title := b.Phase
	if b.ProjectNumber != "" {
		title = b.ProjectNumber + " " + b.Phase
	}
	return title
}

func (i Item) Description() string {
	b := i.Booking
	desc := fmt.Sprintf("%s %s-%s", calendar.DayName(b.DayOfWeek), calendar.FormatHour(b.StartHour), calendar.FormatHour(b.End()))
	if b.Discipline != "" {
		desc += " | " + b.Discipline
	}
	return desc
}

func (i Item) FilterValue() string { return i.Booking.ProjectNumber + " " + i.Booking.Phase }

type Model struct {
	list     list.Model
	employee string
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	return Model{list: l}
}

// SetBookings shows the bookings of employee, in day and start order.
func (m *Model) SetBookings(employee string, bookings []models.Booking) {
	m.employee = employee
	var own []models.Booking
	for _, b := range bookings {
		if b.Employee == employee {
			own = append(own, b)
		}
	}
	sort.Slice(own, func(i, j int) bool {
		if own[i].DayOfWeek != own[j].DayOfWeek {
			return own[i].DayOfWeek < own[j].DayOfWeek
		}
		return own[i].StartHour < own[j].StartHour
	})
	items := make([]list.Item, len(own))
	for i, b := range own {
		items[i] = Item{Booking: b}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.employee == "" {
		return "\n  Select an employee in the week grid."
	}
	if len(m.list.Items()) == 0 {
		return fmt.Sprintf("\n  %s has no bookings this week.", m.employee)
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
