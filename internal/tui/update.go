package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/traffic/internal/calendar"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		body := msg.Height - 6
		if body < 3 {
			body = 3
		}
		m.grid.SetHeight(body)
		m.bookings.SetSize(msg.Width-2, body)
		m.leave.SetSize(msg.Width-2, body)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.PrevWeek):
			m.showWeek(m.week.Monday.AddDate(0, 0, -7))
			return m, nil
		case key.Matches(msg, m.keys.NextWeek):
			m.showWeek(m.week.Monday.AddDate(0, 0, 7))
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.showWeek(calendar.MondayOf(m.today()))
			return m, nil
		}
	}

	switch m.state {
	case StateGrid:
		before := m.grid.SelectedEmployee()
		m.grid, cmd = m.grid.Update(msg)
		if m.grid.SelectedEmployee() != before {
			m.syncPanels()
		}
	case StateBookings:
		m.bookings, cmd = m.bookings.Update(msg)
	case StateLeave:
		m.leave, cmd = m.leave.Update(msg)
	}
	return m, cmd
}
