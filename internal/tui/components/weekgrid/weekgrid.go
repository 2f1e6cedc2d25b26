// Package weekgrid renders one week of bookings as an employee × weekday table.
package weekgrid

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

const (
	nameWidth = 14
	dayWidth  = 18
)

// Week is everything the grid shows for one week.
type Week struct {
	Monday    time.Time
	Employees []models.Employee
	Bookings  []models.Booking
	Leave     []models.LeaveRecord
}

// Cell summarises one employee-day.
func Cell(w Week, emp models.Employee, day int) string {
	date := calendar.DateForIndex(w.Monday, day)
	ds := calendar.FormatDate(date)
	for _, l := range w.Leave {
		if l.Employee == emp.Name && l.Status == constants.LeaveStatusApproved && l.StartDate <= ds && ds <= l.EndDate {
			return "leave (" + l.Type + ")"
		}
	}
	if emp.FixedDayOff != nil && *emp.FixedDayOff == day {
		return "off"
	}

	var hours float64
	var projects []string
	seen := map[string]bool{}
	for _, b := range w.Bookings {
		if b.Employee != emp.Name || b.DayOfWeek != day {
			continue
		}
		hours += b.DurationHours
		label := b.ProjectNumber
		if label == "" {
			label = b.Phase
		}
		if label != "" && !seen[label] {
			seen[label] = true
			projects = append(projects, label)
		}
	}
	if hours == 0 {
		return "-"
	}
	return strings.TrimSpace(fmt.Sprintf("%gh %s", hours, strings.Join(projects, ",")))
}

// Rows builds one table row per employee. Employees that only appear in bookings are
// included so that nothing committed is hidden.
func Rows(w Week) []table.Row {
	emps := append([]models.Employee(nil), w.Employees...)
	known := map[string]bool{}
	for _, e := range emps {
		known[e.Name] = true
	}
	for _, b := range w.Bookings {
		if !known[b.Employee] {
			known[b.Employee] = true
			emps = append(emps, models.Employee{Name: b.Employee, Active: true})
		}
	}
	sort.SliceStable(emps, func(i, j int) bool { return emps[i].Name < emps[j].Name })

	rows := make([]table.Row, 0, len(emps))
	for _, e := range emps {
		if !e.Active {
			continue
		}
		row := table.Row{e.Name}
		for day := 0; day < 5; day++ {
			row = append(row, Cell(w, e, day))
		}
		rows = append(rows, row)
	}
	return rows
}

func columns(monday time.Time) []table.Column {
	cols := []table.Column{{Title: "Employee", Width: nameWidth}}
	for day := 0; day < 5; day++ {
		date := calendar.DateForIndex(monday, day)
		cols = append(cols, table.Column{
			Title: fmt.Sprintf("%s %s", calendar.DayName(day), date.Format("02 Jan")),
			Width: dayWidth,
		})
	}
	return cols
}

type Model struct {
	table table.Model
	week  Week
}

func New(w Week, height int) Model {
	t := table.New(
		table.WithColumns(columns(w.Monday)),
		table.WithRows(Rows(w)),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return Model{table: t, week: w}
}

func (m *Model) SetWeek(w Week) {
	m.week = w
	m.table.SetRows(nil)
	m.table.SetColumns(columns(w.Monday))
	m.table.SetRows(Rows(w))
}

// SelectedEmployee returns the name in the highlighted row.
func (m Model) SelectedEmployee() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m *Model) SetHeight(h int) {
	m.table.SetHeight(h)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.table.Rows()) == 0 {
		return "\n  No employees yet.\n  Add one with 'traffic employee add'."
	}
	return m.table.View()
}
