package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/traffic/internal/calendar"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.err != nil:
		content = errorStyle.Render("Error: " + m.err.Error())
	case m.state == StateGrid:
		content = m.grid.View()
	case m.state == StateBookings:
		content = m.bookings.View()
	case m.state == StateLeave:
		content = m.leave.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.viewTabs(), m.viewWeekTitle()),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewWeekTitle() string {
	return weekTitleStyle.Render(fmt.Sprintf("wk%d · %s", calendar.ISOWeek(m.week.Monday), calendar.FormatDate(m.week.Monday)))
}
