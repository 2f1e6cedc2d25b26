package bookings

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/ics"
	"github.com/julianstephens/traffic/internal/models"
)

type ExportCmd struct {
	Week     []string `help:"Week(s) to export, any day in the week; defaults to this week."`
	Employee string   `help:"Only export this employee's bookings."`
	Out      string   `short:"o" default:"-" help:"Output .ics file; '-' writes to stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	weeks := c.Week
	if len(weeks) == 0 {
		weeks = []string{""}
	}

	var bookings []models.Booking
	for _, s := range weeks {
		monday, err := cli.ParseWeek(s, ctx.Now())
		if err != nil {
			return err
		}
		week, err := ctx.Store.GetBookingsForWeek(calendar.FormatDate(monday))
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}
		for _, b := range week {
			if c.Employee == "" || b.Employee == c.Employee {
				bookings = append(bookings, b)
			}
		}
	}

	events, err := ics.EventsFromBookings(bookings, time.Local)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Out
	if c.Out != "-" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.Out, err)
		}
		defer f.Close()
		w = f
	}
	if err := ics.Write(w, events, ctx.Now()); err != nil {
		return err
	}
	if c.Out != "-" {
		ctx.Printf("Exported %d bookings to %s\n", len(events), c.Out)
	}
	return nil
}
