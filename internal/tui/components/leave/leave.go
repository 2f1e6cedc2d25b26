// Package leave shows who is away during the week on screen.
package leave

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(14)

	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(26)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

// Overlapping returns the records that touch the Mon–Sun week starting at monday.
func Overlapping(records []models.LeaveRecord, monday time.Time) []models.LeaveRecord {
	from := calendar.FormatDate(monday)
	to := calendar.FormatDate(monday.AddDate(0, 0, 6))
	var out []models.LeaveRecord
	for _, l := range records {
		if l.StartDate <= to && l.EndDate >= from {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Employee != out[j].Employee {
			return out[i].Employee < out[j].Employee
		}
		return out[i].StartDate < out[j].StartDate
	})
	return out
}

func (m *Model) SetLeave(records []models.LeaveRecord, monday time.Time) {
	week := Overlapping(records, monday)
	if len(week) == 0 {
		m.viewport.SetContent("Nobody is on leave this week.")
		return
	}
	var b strings.Builder
	for _, l := range week {
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(l.Employee),
			rangeStyle.Render(fmt.Sprintf("%s → %s", l.StartDate, l.EndDate)),
			statusStyle.Render(l.Type+", "+l.Status),
		)
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}
