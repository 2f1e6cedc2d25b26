package storage

import "github.com/julianstephens/traffic/internal/models"

// Provider is the persistent store behind the planner. Besides its own CRUD it satisfies
// every scheduler source interface, so a Provider can be handed to scheduler.SourcesFrom.
type Provider interface {
	// Lifecycle
	Init(defaults models.WorkConfig) error
	Load() error
	Migrate() (int, error)
	Close() error

	// Work config
	GetWorkConfig() (models.WorkConfig, error)
	SaveWorkConfig(models.WorkConfig) error

	// Employees
	AddEmployee(models.Employee) error
	GetEmployee(name string) (models.Employee, error)
	GetAllEmployees() ([]models.Employee, error)

	// Clients and projects
	AddClient(models.Client) (models.Client, error)
	GetAllClients() ([]models.Client, error)
	GetProject(number string) (models.Project, error)
	GetAllProjects() ([]models.Project, error)
	// NextProjectNumber returns the next free YY-NNN number for year without reserving it.
	NextProjectNumber(year int) (string, error)

	// Leave
	AddLeave(models.LeaveRecord) (models.LeaveRecord, error)
	GetLeaveForEmployee(employee string) ([]models.LeaveRecord, error)
	GetAllLeave() ([]models.LeaveRecord, error)

	// Bookings
	GetBookings(employee, weekStart string, dayOfWeek int) ([]models.Booking, error)
	GetBookingsForWeek(weekStart string) ([]models.Booking, error)
	// CommitPlan stores the project and one booking per placed block in a single
	// transaction. A project number taken since the proposal was made is replaced.
	CommitPlan(result models.PlanningResult) (models.Project, []models.Booking, error)

	// Utils
	GetConfigPath() string
}
