package models

// Booking is a committed block in the weekly grid.
type Booking struct {
	ID            string  `json:"id" yaml:"id"`
	Employee      string  `json:"employee" yaml:"employee"`
	ProjectNumber string  `json:"project_number,omitempty" yaml:"project_number,omitempty"`
	Phase         string  `json:"phase,omitempty" yaml:"phase,omitempty"`
	Discipline    string  `json:"discipline,omitempty" yaml:"discipline,omitempty"`
	WeekStart     string  `json:"week_start" yaml:"week_start"`   // Monday, YYYY-MM-DD
	DayOfWeek     int     `json:"day_of_week" yaml:"day_of_week"` // 0=Mon .. 4=Fri
	StartHour     float64 `json:"start_hour" yaml:"start_hour"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`
}

// End returns the exclusive end hour of the booking.
func (b Booking) End() float64 {
	return b.StartHour + b.DurationHours
}

type Distribution string

const (
	DistributionContiguous Distribution = "contiguous"
	DistributionPerWeek    Distribution = "per_week"
	DistributionLastWeek   Distribution = "last_week"
)

// Valid reports whether d is a known distribution mode. The empty value is valid and means contiguous.
func (d Distribution) Valid() bool {
	switch d {
	case "", DistributionContiguous, DistributionPerWeek, DistributionLastWeek:
		return true
	}
	return false
}

type Kind string

const (
	KindNormal   Kind = "normal"
	KindMeeting  Kind = "meeting"
	KindFeedback Kind = "feedback"
)

// PhaseRequest describes one phase of a project to be scheduled.
type PhaseRequest struct {
	PhaseName    string       `json:"phase_name" yaml:"phase_name" jsonschema:"required,description=Free-text phase label; drives discipline and kind classification"`
	Employees    []string     `json:"employees" yaml:"employees" jsonschema:"required,minItems=1,description=Employee names; each gets duration_days of work"`
	StartDate    string       `json:"start_date" yaml:"start_date" jsonschema:"required,format=date"`
	DurationDays int          `json:"duration_days" yaml:"duration_days" jsonschema:"required,minimum=1"`
	HoursPerDay  float64      `json:"hours_per_day,omitempty" yaml:"hours_per_day,omitempty" jsonschema:"description=Defaults to the standard hours per day"`
	Distribution Distribution `json:"distribution,omitempty" yaml:"distribution,omitempty" jsonschema:"enum=contiguous,enum=per_week,enum=last_week"`
	DaysPerWeek  int          `json:"days_per_week,omitempty" yaml:"days_per_week,omitempty" jsonschema:"minimum=1,maximum=5"`
}

// PlanRequest is the typed plan_project call.
type PlanRequest struct {
	ClientName  string         `json:"client_name" yaml:"client_name" jsonschema:"required"`
	ProjectName string         `json:"project_name" yaml:"project_name" jsonschema:"required"`
	ProjectType string         `json:"project_type" yaml:"project_type"`
	Phases      []PhaseRequest `json:"phases" yaml:"phases" jsonschema:"required,minItems=1"`
	Deadline    string         `json:"deadline,omitempty" yaml:"deadline,omitempty" jsonschema:"format=date"`
	Reasoning   string         `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// PlacedBlock is one scheduled employee-day in a proposal.
type PlacedBlock struct {
	EmployeeName  string  `json:"employee_name"`
	PhaseName     string  `json:"phase_name"`
	Discipline    string  `json:"discipline"`
	WeekStart     string  `json:"week_start"`  // Monday, YYYY-MM-DD
	DayOfWeek     int     `json:"day_of_week"` // 0=Mon .. 4=Fri
	StartHour     float64 `json:"start_hour"`
	DurationHours float64 `json:"duration_hours"`
}

// PlanningResult is the proposal returned by one planning run. Nothing in it is persisted
// until the caller commits it.
type PlanningResult struct {
	ProjectNumber string        `json:"project_number"`
	Client        Client        `json:"client"`
	Project       Project       `json:"project"`
	PlacedBlocks  []PlacedBlock `json:"placed_blocks"`
	Warnings      []string      `json:"warnings"`
	SummaryText   string        `json:"summary_text"`
}
