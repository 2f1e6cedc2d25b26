package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/models"
	"github.com/julianstephens/traffic/internal/validation"
)

type ValidateCmd struct {
	Week  string `arg:"" optional:"" help:"First week to check (any date in it); defaults to this week."`
	Weeks int    `default:"4" help:"Number of weeks to check."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	monday, err := cli.ParseWeek(cmd.Week, ctx.Now())
	if err != nil {
		return err
	}
	if cmd.Weeks < 1 {
		return errors.New("--weeks must be at least 1")
	}

	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	employees, err := ctx.Store.GetAllEmployees()
	if err != nil {
		return fmt.Errorf("failed to get employees: %w", err)
	}
	leave, err := ctx.Store.GetAllLeave()
	if err != nil {
		return fmt.Errorf("failed to get leave: %w", err)
	}

	var bookings []models.Booking
	for i := 0; i < cmd.Weeks; i++ {
		week, err := ctx.Store.GetBookingsForWeek(calendar.FormatDate(monday.AddDate(0, 0, 7*i)))
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}
		bookings = append(bookings, week...)
	}

	result := validation.New(cfg).ValidateBookings(bookings, employees, leave)
	ctx.Printf("Checked %d booking(s) in %d week(s) from %s.\n", len(bookings), cmd.Weeks, calendar.FormatDate(monday))
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
