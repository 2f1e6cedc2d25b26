package bookings

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/tui"
	"github.com/julianstephens/traffic/internal/tui/components/weekgrid"
)

type WeekCmd struct {
	Date     string `arg:"" optional:"" help:"Any day in the week to show (YYYY-MM-DD or 'next week'); defaults to this week."`
	Employee string `help:"Only list this employee's bookings (implies --print)."`
	Print    bool   `help:"Print the week instead of opening the viewer."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	monday, err := cli.ParseWeek(c.Date, ctx.Now())
	if err != nil {
		return err
	}
	if !c.Print && c.Employee == "" {
		return tui.Run(ctx.Store, monday)
	}

	week := weekgrid.Week{Monday: monday}
	if week.Employees, err = ctx.Store.GetAllEmployees(); err != nil {
		return fmt.Errorf("failed to get employees: %w", err)
	}
	if week.Bookings, err = ctx.Store.GetBookingsForWeek(calendar.FormatDate(monday)); err != nil {
		return fmt.Errorf("failed to get bookings: %w", err)
	}
	if week.Leave, err = ctx.Store.GetAllLeave(); err != nil {
		return fmt.Errorf("failed to get leave: %w", err)
	}

	ctx.Printf("Week %d (%s)\n\n", calendar.ISOWeek(monday), calendar.FormatDate(monday))
	if c.Employee != "" {
		return c.printEmployee(ctx, week)
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	header := []string{"EMPLOYEE"}
	for day := 0; day < 5; day++ {
		header = append(header, strings.ToUpper(calendar.DayName(day)))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range weekgrid.Rows(week) {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func (c *WeekCmd) printEmployee(ctx *cli.Context, week weekgrid.Week) error {
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tTIME\tPROJECT\tPHASE")
	found := false
	for _, b := range week.Bookings {
		if !strings.EqualFold(b.Employee, c.Employee) {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\n",
			calendar.DayName(b.DayOfWeek),
			calendar.FormatHour(b.StartHour),
			calendar.FormatHour(b.End()),
			b.ProjectNumber,
			b.Phase,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !found {
		ctx.Printf("No bookings for %s.\n", c.Employee)
	}
	return nil
}
