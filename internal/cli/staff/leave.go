package staff

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/ics"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/models"
	"github.com/julianstephens/traffic/internal/request"
)

type LeaveCmd struct {
	Add    LeaveAddCmd    `cmd:"" help:"Record leave for an employee."`
	List   LeaveListCmd   `cmd:"" help:"List leave records."`
	Import LeaveImportCmd `cmd:"" help:"Import leave from an iCalendar (.ics) file."`
}

type LeaveAddCmd struct {
	Employee string `arg:"" help:"Employee name."`
	Start    string `arg:"" help:"First day of leave (YYYY-MM-DD or a phrase like 'next monday')."`
	End      string `arg:"" optional:"" help:"Last day of leave, inclusive; defaults to the start day."`
	Type     string `default:"holiday" help:"Leave type (holiday, sick, ...)."`
	Status   string `default:"approved" enum:"approved,pending,rejected" help:"Only approved leave blocks scheduling."`
}

func (c *LeaveAddCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	start, err := request.ResolveDate(c.Start, now)
	if err != nil {
		return err
	}
	end := start
	if c.End != "" {
		if end, err = request.ResolveDate(c.End, now); err != nil {
			return err
		}
	}
	rec, err := ctx.Store.AddLeave(models.LeaveRecord{
		Employee:  c.Employee,
		Type:      c.Type,
		StartDate: start,
		EndDate:   end,
		Status:    c.Status,
	})
	if err != nil {
		return err
	}
	ctx.Printf("Recorded %s leave for %s: %s → %s (%s)\n", rec.Type, rec.Employee, rec.StartDate, rec.EndDate, rec.Status)
	return nil
}

type LeaveListCmd struct {
	Employee string `help:"Only show this employee."`
}

func (c *LeaveListCmd) Run(ctx *cli.Context) error {
	var records []models.LeaveRecord
	var err error
	if c.Employee != "" {
		records, err = ctx.Store.GetLeaveForEmployee(c.Employee)
	} else {
		records, err = ctx.Store.GetAllLeave()
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ctx.Println("No leave recorded.")
		return nil
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE\tTYPE\tFROM\tTO\tSTATUS")
	for _, l := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.Employee, l.Type, l.StartDate, l.EndDate, l.Status)
	}
	return w.Flush()
}

type LeaveImportCmd struct {
	File     string `arg:"" help:"iCalendar file." type:"existingfile"`
	Employee string `help:"Assign every event to this employee instead of reading 'Name: type' summaries."`
	Type     string `default:"holiday" help:"Leave type for events that do not name one."`
	DryRun   bool   `help:"Show what would be imported without saving."`
}

func (c *LeaveImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := ics.ImportLeave(f, ics.ImportOptions{Employee: c.Employee, Type: c.Type}, time.Local)
	if err != nil {
		return err
	}

	existing := map[string]bool{}
	if all, err := ctx.Store.GetAllLeave(); err == nil {
		for _, l := range all {
			existing[l.ID] = true
		}
	}

	imported, skipped := 0, 0
	for _, rec := range records {
		if existing[rec.ID] {
			skipped++
			continue
		}
		if c.DryRun {
			ctx.Printf("would import: %s %s %s → %s (%s)\n", rec.Employee, rec.Type, rec.StartDate, rec.EndDate, rec.Status)
			imported++
			continue
		}
		if _, err := ctx.Store.AddLeave(rec); err != nil {
			logger.Warn("Skipping leave event", "employee", rec.Employee, "start", rec.StartDate, "error", err)
			skipped++
			continue
		}
		imported++
	}

	verb := "Imported"
	if c.DryRun {
		verb = "Would import"
	}
	ctx.Printf("%s %d leave record(s), skipped %d.\n", verb, imported, skipped)
	return nil
}
