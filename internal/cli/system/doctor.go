package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/traffic/internal/backup"
	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	warning bool
	run     func(*cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Working hours", run: checkWorkConfig},
	{name: "Employees", warning: true, run: checkEmployees},
	{name: "Clients", warning: true, run: checkClients},
	{name: "Booking conflicts", warning: true, run: checkBookingConflicts},
	{name: "Backups present", warning: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone() }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
		}
	}

	ctx.Println()
	if failed {
		return errors.New("one or more checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	_, err := ctx.Store.GetWorkConfig()
	return err
}

func checkWorkConfig(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func checkEmployees(ctx *cli.Context) error {
	emps, err := ctx.Store.GetAllEmployees()
	if err != nil {
		return err
	}
	if len(emps) == 0 {
		return errors.New("no employees yet, add them with 'traffic employee add'")
	}
	return nil
}

func checkClients(ctx *cli.Context) error {
	clients, err := ctx.Store.GetAllClients()
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		return errors.New("no clients yet, plans need one ('traffic client add')")
	}
	return nil
}

// checkBookingConflicts looks at this week only; 'traffic validate' covers longer ranges.
func checkBookingConflicts(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return err
	}
	employees, err := ctx.Store.GetAllEmployees()
	if err != nil {
		return err
	}
	leave, err := ctx.Store.GetAllLeave()
	if err != nil {
		return err
	}
	bookings, err := ctx.Store.GetBookingsForWeek(calendar.FormatDate(calendar.MondayOf(ctx.Now())))
	if err != nil {
		return err
	}
	if result := validation.New(cfg).ValidateBookings(bookings, employees, leave); result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) this week, run 'traffic validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups in %s", mgr.Dir())
	}
	if age := time.Since(backups[0].Timestamp); age > 14*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone() error {
	if time.Now().Year() < 2020 {
		return errors.New("system clock looks wrong")
	}
	return nil
}
