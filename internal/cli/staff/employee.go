package staff

import (
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/models"
)

type EmployeeCmd struct {
	Add  EmployeeAddCmd  `cmd:"" help:"Add or update an employee."`
	List EmployeeListCmd `cmd:"" help:"List employees."`
}

type EmployeeAddCmd struct {
	Name       string `arg:"" help:"Employee name as used in plan requests."`
	Discipline string `help:"Main discipline (design, animation, ...)."`
	DayOff     string `help:"Fixed weekday off for part-timers (mon..fri)."`
	Inactive   bool   `help:"Hide the employee from the week grid."`
}

func (c *EmployeeAddCmd) Run(ctx *cli.Context) error {
	dayOff, err := cli.ParseDayOff(c.DayOff)
	if err != nil {
		return err
	}
	e := models.Employee{Name: c.Name, Discipline: c.Discipline, FixedDayOff: dayOff, Active: !c.Inactive}
	if err := ctx.Store.AddEmployee(e); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	ctx.Printf("Saved employee: %s\n", c.Name)
	return nil
}

type EmployeeListCmd struct{}

func (c *EmployeeListCmd) Run(ctx *cli.Context) error {
	emps, err := ctx.Store.GetAllEmployees()
	if err != nil {
		return err
	}
	if len(emps) == 0 {
		ctx.Println("No employees yet. Add one with 'traffic employee add <name>'.")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISCIPLINE\tDAY OFF\tACTIVE")
	for _, e := range emps {
		dayOff := "-"
		if e.FixedDayOff != nil {
			dayOff = calendar.DayName(*e.FixedDayOff)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", e.Name, e.Discipline, dayOff, e.Active)
	}
	return w.Flush()
}
