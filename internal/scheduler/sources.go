package scheduler

import "github.com/julianstephens/traffic/internal/models"

// LeaveSource lists leave records for one employee. Records of every status are returned;
// the oracle filters on "approved".
type LeaveSource interface {
	GetLeaveForEmployee(employee string) ([]models.LeaveRecord, error)
}

// ProfileSource returns an employee profile, wrapping models.ErrNotFound for unknown names.
type ProfileSource interface {
	GetEmployee(name string) (models.Employee, error)
}

// BookingSource returns committed bookings for one employee-day.
type BookingSource interface {
	GetBookings(employee, weekStart string, dayOfWeek int) ([]models.Booking, error)
}

// ClientDirectory resolves clients and hands out project numbers.
type ClientDirectory interface {
	GetAllClients() ([]models.Client, error)
	NextProjectNumber(year int) (string, error)
}

// Sources bundles the read-only collaborators of a planning run. A storage.Provider
// satisfies all four; so does a storage.Snapshot.
type Sources struct {
	Leave    LeaveSource
	Profiles ProfileSource
	Bookings BookingSource
	Clients  ClientDirectory
}

// SourcesFrom uses one value for every collaborator.
func SourcesFrom(src interface {
	LeaveSource
	ProfileSource
	BookingSource
	ClientDirectory
}) Sources {
	return Sources{Leave: src, Profiles: src, Bookings: src, Clients: src}
}
