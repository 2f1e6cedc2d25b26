package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/traffic/internal/models"
)

// Snapshot is a read-only copy of the studio's reference data, loaded once from a YAML or
// JSON file. It answers the same queries as a Provider so a plan can be run without a database.
type Snapshot struct {
	WorkConfig *models.WorkConfig   `json:"work_config,omitempty" yaml:"work_config,omitempty"`
	Employees  []models.Employee    `json:"employees" yaml:"employees"`
	Clients    []models.Client      `json:"clients" yaml:"clients"`
	Projects   []models.Project     `json:"projects,omitempty" yaml:"projects,omitempty"`
	Leave      []models.LeaveRecord `json:"leave,omitempty" yaml:"leave,omitempty"`
	Bookings   []models.Booking     `json:"bookings,omitempty" yaml:"bookings,omitempty"`
}

// LoadSnapshot reads a snapshot file; .json files are decoded as JSON, anything else as YAML.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	for i, l := range snap.Leave {
		if err := ValidateLeave(l); err != nil {
			return nil, fmt.Errorf("snapshot %s: leave record %d (%s, id %q): %w", path, i, l.Employee, l.ID, err)
		}
	}
	return &snap, nil
}

// ExportSnapshot copies everything the planner reads out of a provider. Bookings are limited
// to the given weeks (Monday dates).
func ExportSnapshot(p Provider, weeks []string) (*Snapshot, error) {
	cfg, err := p.GetWorkConfig()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{WorkConfig: &cfg}
	if snap.Employees, err = p.GetAllEmployees(); err != nil {
		return nil, err
	}
	if snap.Clients, err = p.GetAllClients(); err != nil {
		return nil, err
	}
	if snap.Projects, err = p.GetAllProjects(); err != nil {
		return nil, err
	}
	if snap.Leave, err = p.GetAllLeave(); err != nil {
		return nil, err
	}
	for _, w := range weeks {
		b, err := p.GetBookingsForWeek(w)
		if err != nil {
			return nil, err
		}
		snap.Bookings = append(snap.Bookings, b...)
	}
	return snap, nil
}

// Write encodes the snapshot as YAML.
func (s *Snapshot) Write(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Config returns the snapshot's working hours, or DefaultWorkConfig when the file has none.
func (s *Snapshot) Config() models.WorkConfig {
	if s.WorkConfig == nil {
		return DefaultWorkConfig()
	}
	return *s.WorkConfig
}

func (s *Snapshot) GetEmployee(name string) (models.Employee, error) {
	for _, e := range s.Employees {
		if e.Name == name {
			return e, nil
		}
	}
	return models.Employee{}, fmt.Errorf("employee %q: %w", name, models.ErrNotFound)
}

func (s *Snapshot) GetLeaveForEmployee(employee string) ([]models.LeaveRecord, error) {
	var out []models.LeaveRecord
	for _, l := range s.Leave {
		if l.Employee == employee {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Snapshot) GetBookings(employee, weekStart string, dayOfWeek int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.Bookings {
		if b.Employee == employee && b.WeekStart == weekStart && b.DayOfWeek == dayOfWeek {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

func (s *Snapshot) GetAllClients() ([]models.Client, error) {
	return s.Clients, nil
}

func (s *Snapshot) NextProjectNumber(year int) (string, error) {
	prefix := fmt.Sprintf("%02d-", year%100)
	maxNumber := ""
	for _, p := range s.Projects {
		if strings.HasPrefix(p.Number, prefix) && p.Number > maxNumber {
			maxNumber = p.Number
		}
	}
	return NextProjectNumber(year, maxNumber)
}
