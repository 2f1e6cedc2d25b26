package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/migration"
	"github.com/julianstephens/traffic/internal/models"
)

// sqlStore holds the queries shared by the SQLite and PostgreSQL providers. Queries are
// written with ? placeholders and rebound for PostgreSQL.
type sqlStore struct {
	db      *sql.DB
	dialect migration.Dialect
}

func (s *sqlStore) rebind(query string) string {
	if s.dialect != migration.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) exec(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(s.rebind(query), args...)
}

func (s *sqlStore) query(query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.Query(s.rebind(query), args...)
}

func (s *sqlStore) queryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// Work config

func (s *sqlStore) GetWorkConfig() (models.WorkConfig, error) {
	rows, err := s.query("SELECT key, value FROM settings")
	if err != nil {
		return models.WorkConfig{}, err
	}
	defer rows.Close()

	cfg := DefaultWorkConfig()
	fields := workConfigFields(&cfg)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.WorkConfig{}, err
		}
		field, ok := fields[key]
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return models.WorkConfig{}, fmt.Errorf("parsing %s: %w", key, err)
		}
		*field = f
	}
	return cfg, rows.Err()
}

func (s *sqlStore) SaveWorkConfig(cfg models.WorkConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.rebind(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, field := range workConfigFields(&cfg) {
		if _, err := stmt.Exec(key, strconv.FormatFloat(*field, 'f', -1, 64)); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) hasSettings() (bool, error) {
	var count int
	if err := s.queryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Employees

func (s *sqlStore) AddEmployee(e models.Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("employee name is required")
	}
	if e.FixedDayOff != nil && (*e.FixedDayOff < 0 || *e.FixedDayOff > 4) {
		return fmt.Errorf("fixed day off must be 0 (Mon) to 4 (Fri), got %d", *e.FixedDayOff)
	}
	var dayOff sql.NullInt64
	if e.FixedDayOff != nil {
		dayOff = sql.NullInt64{Int64: int64(*e.FixedDayOff), Valid: true}
	}
	_, err := s.exec(`INSERT INTO employees (name, discipline, fixed_day_off, active, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET discipline = excluded.discipline, fixed_day_off = excluded.fixed_day_off, active = excluded.active`,
		e.Name, e.Discipline, dayOff, e.Active, now())
	return err
}

func scanEmployee(scan func(dest ...interface{}) error) (models.Employee, error) {
	var e models.Employee
	var dayOff sql.NullInt64
	var created string
	if err := scan(&e.Name, &e.Discipline, &dayOff, &e.Active, &created); err != nil {
		return models.Employee{}, err
	}
	if dayOff.Valid {
		d := int(dayOff.Int64)
		e.FixedDayOff = &d
	}
	e.CreatedAt = parseTimestamp(created)
	return e, nil
}

func (s *sqlStore) GetEmployee(name string) (models.Employee, error) {
	row := s.queryRow("SELECT name, discipline, fixed_day_off, active, created_at FROM employees WHERE name = ?", name)
	e, err := scanEmployee(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, fmt.Errorf("employee %q: %w", name, models.ErrNotFound)
	}
	return e, err
}

func (s *sqlStore) GetAllEmployees() ([]models.Employee, error) {
	rows, err := s.query("SELECT name, discipline, fixed_day_off, active, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clients and projects

func (s *sqlStore) AddClient(c models.Client) (models.Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return models.Client{}, errors.New("client name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec("INSERT INTO clients (id, name, created_at) VALUES (?, ?, ?)",
		c.ID, c.Name, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Client{}, fmt.Errorf("adding client %q: %w", c.Name, err)
	}
	return c, nil
}

func (s *sqlStore) GetAllClients() ([]models.Client, error) {
	rows, err := s.query("SELECT id, name, created_at FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTimestamp(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

const projectColumns = "number, client_id, name, type, deadline, reasoning, created_at"

func scanProject(scan func(dest ...interface{}) error) (models.Project, error) {
	var p models.Project
	var created string
	if err := scan(&p.Number, &p.ClientID, &p.Name, &p.Type, &p.Deadline, &p.Reasoning, &created); err != nil {
		return models.Project{}, err
	}
	p.CreatedAt = parseTimestamp(created)
	return p, nil
}

func (s *sqlStore) GetProject(number string) (models.Project, error) {
	p, err := scanProject(s.queryRow("SELECT "+projectColumns+" FROM projects WHERE number = ?", number).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %s: %w", number, models.ErrNotFound)
	}
	return p, err
}

func (s *sqlStore) GetAllProjects() ([]models.Project, error) {
	rows, err := s.query("SELECT " + projectColumns + " FROM projects ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (s *sqlStore) nextProjectNumber(q rowQuerier, year int) (string, error) {
	prefix := fmt.Sprintf("%02d-", year%100)
	var maxNumber sql.NullString
	if err := q.QueryRow(s.rebind("SELECT MAX(number) FROM projects WHERE number LIKE ?"), prefix+"%").Scan(&maxNumber); err != nil {
		return "", fmt.Errorf("reading project numbers: %w", err)
	}
	return NextProjectNumber(year, maxNumber.String)
}

func (s *sqlStore) NextProjectNumber(year int) (string, error) {
	return s.nextProjectNumber(s.db, year)
}

// Leave

func (s *sqlStore) AddLeave(l models.LeaveRecord) (models.LeaveRecord, error) {
	if err := ValidateLeave(l); err != nil {
		return models.LeaveRecord{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.exec(`INSERT INTO leave_records (id, employee, type, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`, l.ID, l.Employee, l.Type, l.StartDate, l.EndDate, l.Status)
	if err != nil {
		return models.LeaveRecord{}, err
	}
	return l, nil
}

func (s *sqlStore) scanLeave(rows *sql.Rows) ([]models.LeaveRecord, error) {
	defer rows.Close()
	var out []models.LeaveRecord
	for rows.Next() {
		var l models.LeaveRecord
		if err := rows.Scan(&l.ID, &l.Employee, &l.Type, &l.StartDate, &l.EndDate, &l.Status); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *sqlStore) GetLeaveForEmployee(employee string) ([]models.LeaveRecord, error) {
	rows, err := s.query(`SELECT id, employee, type, start_date, end_date, status
		FROM leave_records WHERE employee = ? ORDER BY start_date`, employee)
	if err != nil {
		return nil, err
	}
	return s.scanLeave(rows)
}

func (s *sqlStore) GetAllLeave() ([]models.LeaveRecord, error) {
	rows, err := s.query(`SELECT id, employee, type, start_date, end_date, status
		FROM leave_records ORDER BY start_date, employee`)
	if err != nil {
		return nil, err
	}
	return s.scanLeave(rows)
}

// Bookings

const bookingColumns = "id, employee, project_number, phase, discipline, week_start, day_of_week, start_hour, duration_hours"

func (s *sqlStore) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()
	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Employee, &b.ProjectNumber, &b.Phase, &b.Discipline,
			&b.WeekStart, &b.DayOfWeek, &b.StartHour, &b.DurationHours); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *sqlStore) GetBookings(employee, weekStart string, dayOfWeek int) ([]models.Booking, error) {
	rows, err := s.query("SELECT "+bookingColumns+` FROM bookings
		WHERE employee = ? AND week_start = ? AND day_of_week = ? ORDER BY start_hour`, employee, weekStart, dayOfWeek)
	if err != nil {
		return nil, err
	}
	return s.scanBookings(rows)
}

func (s *sqlStore) GetBookingsForWeek(weekStart string) ([]models.Booking, error) {
	rows, err := s.query("SELECT "+bookingColumns+` FROM bookings
		WHERE week_start = ? ORDER BY employee, day_of_week, start_hour`, weekStart)
	if err != nil {
		return nil, err
	}
	return s.scanBookings(rows)
}

func (s *sqlStore) CommitPlan(result models.PlanningResult) (models.Project, []models.Booking, error) {
	project := result.Project
	if project.Number == "" {
		project.Number = result.ProjectNumber
	}
	if project.ClientID == "" {
		project.ClientID = result.Client.ID
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Project{}, nil, err
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM projects WHERE number = ?"), project.Number).Scan(&taken); err != nil {
		return models.Project{}, nil, err
	}
	if taken > 0 || project.Number == "" {
		year := time.Now().Year()
		if t, err := strconv.Atoi(strings.SplitN(project.Number, "-", 2)[0]); err == nil {
			year = 2000 + t
		}
		number, err := s.nextProjectNumber(tx, year)
		if err != nil {
			return models.Project{}, nil, err
		}
		project.Number = number
	}

	project.CreatedAt = time.Now().UTC()
	if _, err := tx.Exec(s.rebind(`INSERT INTO projects (number, client_id, name, type, deadline, reasoning, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		project.Number, project.ClientID, project.Name, project.Type, project.Deadline, project.Reasoning,
		project.CreatedAt.Format(time.RFC3339)); err != nil {
		return models.Project{}, nil, fmt.Errorf("inserting project %s: %w", project.Number, err)
	}

	stmt, err := tx.Prepare(s.rebind("INSERT INTO bookings (" + bookingColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return models.Project{}, nil, err
	}
	defer stmt.Close()

	created := now()
	bookings := make([]models.Booking, 0, len(result.PlacedBlocks))
	for _, pb := range result.PlacedBlocks {
		b := BookingFromBlock(pb, project.Number)
		if _, err := stmt.Exec(b.ID, b.Employee, b.ProjectNumber, b.Phase, b.Discipline,
			b.WeekStart, b.DayOfWeek, b.StartHour, b.DurationHours, created); err != nil {
			return models.Project{}, nil, fmt.Errorf("inserting booking for %s: %w", b.Employee, err)
		}
		bookings = append(bookings, b)
	}

	if err := tx.Commit(); err != nil {
		return models.Project{}, nil, err
	}
	return project, bookings, nil
}

// BookingFromBlock turns a proposal block into a committed booking with a fresh ID.
func BookingFromBlock(pb models.PlacedBlock, projectNumber string) models.Booking {
	return models.Booking{
		ID:            uuid.NewString(),
		Employee:      pb.EmployeeName,
		ProjectNumber: projectNumber,
		Phase:         pb.PhaseName,
		Discipline:    pb.Discipline,
		WeekStart:     pb.WeekStart,
		DayOfWeek:     pb.DayOfWeek,
		StartHour:     pb.StartHour,
		DurationHours: pb.DurationHours,
	}
}

// NextProjectNumber returns the number after maxNumber (a YY-NNN string, or empty) for year.
func NextProjectNumber(year int, maxNumber string) (string, error) {
	seq := 0
	if maxNumber != "" {
		parts := strings.SplitN(maxNumber, "-", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("malformed project number %q", maxNumber)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", fmt.Errorf("malformed project number %q: %w", maxNumber, err)
		}
		seq = n
	}
	return fmt.Sprintf("%02d-%03d", year%100, seq+1), nil
}

// ValidateLeave checks the fields of a leave record before it is stored.
func ValidateLeave(l models.LeaveRecord) error {
	if strings.TrimSpace(l.Employee) == "" {
		return errors.New("leave employee is required")
	}
	start, err := time.Parse(constants.DateFormat, l.StartDate)
	if err != nil {
		return fmt.Errorf("invalid leave start date %q: %w", l.StartDate, err)
	}
	end, err := time.Parse(constants.DateFormat, l.EndDate)
	if err != nil {
		return fmt.Errorf("invalid leave end date %q: %w", l.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("leave ends (%s) before it starts (%s)", l.EndDate, l.StartDate)
	}
	switch l.Status {
	case constants.LeaveStatusApproved, constants.LeaveStatusPending, constants.LeaveStatusRejected:
	default:
		return fmt.Errorf("unknown leave status %q", l.Status)
	}
	return nil
}

// DefaultWorkConfig is the studio's standard day.
func DefaultWorkConfig() models.WorkConfig {
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

func workConfigFields(cfg *models.WorkConfig) map[string]*float64 {
	return map[string]*float64{
		constants.SettingWorkdayStart:          &cfg.WorkdayStart,
		constants.SettingWorkdayEnd:            &cfg.WorkdayEnd,
		constants.SettingLunchStart:            &cfg.LunchStart,
		constants.SettingLunchEnd:              &cfg.LunchEnd,
		constants.SettingMeetingWindowStart:    &cfg.MeetingWindowStart,
		constants.SettingMeetingWindowEnd:      &cfg.MeetingWindowEnd,
		constants.SettingStandardHoursPerDay:   &cfg.StandardHoursPerDay,
		constants.SettingFullDayAfternoonStart: &cfg.FullDayAfternoonStart,
		constants.SettingMeetingHours:          &cfg.MeetingHours,
	}
}
