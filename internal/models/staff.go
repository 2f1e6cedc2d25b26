package models

import "time"

// Employee is the profile the planner reads for part-time schedules.
type Employee struct {
	Name        string    `json:"name" yaml:"name"`
	Discipline  string    `json:"discipline,omitempty" yaml:"discipline,omitempty"`
	FixedDayOff *int      `json:"fixed_day_off,omitempty" yaml:"fixed_day_off,omitempty"` // 0=Mon .. 4=Fri, nil for full-time
	Active      bool      `json:"active" yaml:"active"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

type Client struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// Project is created when a proposal is committed.
type Project struct {
	Number    string    `json:"number" yaml:"number"` // YY-NNN
	ClientID  string    `json:"client_id" yaml:"client_id"`
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"`
	Deadline  string    `json:"deadline,omitempty" yaml:"deadline,omitempty"` // YYYY-MM-DD
	Reasoning string    `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// LeaveRecord is one leave request; only "approved" records block scheduling.
type LeaveRecord struct {
	ID        string `json:"id" yaml:"id"`
	Employee  string `json:"employee" yaml:"employee"`
	Type      string `json:"type" yaml:"type"`             // holiday, sick, ...
	StartDate string `json:"start_date" yaml:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date" yaml:"end_date"`     // YYYY-MM-DD, inclusive
	Status    string `json:"status" yaml:"status"`
}
