package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
	"github.com/julianstephens/traffic/internal/tui/components/bookinglist"
	"github.com/julianstephens/traffic/internal/tui/components/leave"
	"github.com/julianstephens/traffic/internal/tui/components/weekgrid"
)

// WeekSource is the read side of the store the viewer needs.
type WeekSource interface {
	GetAllEmployees() ([]models.Employee, error)
	GetBookingsForWeek(weekStart string) ([]models.Booking, error)
	GetAllLeave() ([]models.LeaveRecord, error)
}

type SessionState int

const (
	StateGrid SessionState = iota
	StateBookings
	StateLeave
)

var tabTitles = []string{"Week", "Bookings", "Leave"}

type Model struct {
	source   WeekSource
	state    SessionState
	keys     KeyMap
	help     help.Model
	grid     weekgrid.Model
	bookings bookinglist.Model
	leave    leave.Model
	week     weekgrid.Week
	today    func() time.Time
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel opens the viewer on the ISO week containing date.
func NewModel(source WeekSource, date time.Time) Model {
	m := Model{
		source:   source,
		state:    StateGrid,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		bookings: bookinglist.New(0, 0),
		leave:    leave.New(0, 0),
		today:    time.Now,
	}
	m.week = m.loadWeek(calendar.MondayOf(date))
	m.grid = weekgrid.New(m.week, 10)
	m.syncPanels()
	return m
}

func (m *Model) loadWeek(monday time.Time) weekgrid.Week {
	w := weekgrid.Week{Monday: monday}
	var err error
	if w.Employees, err = m.source.GetAllEmployees(); err != nil {
		m.err = err
		return w
	}
	if w.Bookings, err = m.source.GetBookingsForWeek(calendar.FormatDate(monday)); err != nil {
		m.err = err
		return w
	}
	if w.Leave, err = m.source.GetAllLeave(); err != nil {
		m.err = err
		return w
	}
	m.err = nil
	return w
}

func (m *Model) showWeek(monday time.Time) {
	m.week = m.loadWeek(monday)
	m.grid.SetWeek(m.week)
	m.syncPanels()
}

func (m *Model) syncPanels() {
	m.bookings.SetBookings(m.grid.SelectedEmployee(), m.week.Bookings)
	m.leave.SetLeave(m.week.Leave, m.week.Monday)
}

// Monday is the first day of the week on screen.
func (m Model) Monday() time.Time {
	return m.week.Monday
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the week viewer in the alternate screen.
func Run(source WeekSource, date time.Time) error {
	_, err := tea.NewProgram(NewModel(source, date), tea.WithAltScreen()).Run()
	return err
}
