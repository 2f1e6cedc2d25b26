package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/storage"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show the database location."`
	DumpWeek  DebugDumpWeekCmd  `cmd:"" help:"Dump one week of bookings as JSON."`
	DumpState DebugDumpStateCmd `cmd:"" help:"Write a snapshot file of everything the planner reads."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(ctx, map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"config": ctx.ConfigPath,
	})
}

type DebugDumpWeekCmd struct {
	Week string `arg:"" optional:"" help:"Any date in the week (YYYY-MM-DD or a phrase); defaults to this week."`
}

func (cmd *DebugDumpWeekCmd) Run(ctx *cli.Context) error {
	monday, err := cli.ParseWeek(cmd.Week, ctx.Now())
	if err != nil {
		return err
	}
	bookings, err := ctx.Store.GetBookingsForWeek(monday.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to read bookings: %w", err)
	}
	return writeJSON(ctx, bookings)
}

type DebugDumpStateCmd struct {
	Out   string   `arg:"" help:"Snapshot file to write (YAML)." type:"path"`
	Weeks []string `help:"Weeks (any date in them) whose bookings are included; defaults to this week and the next three."`
}

func (cmd *DebugDumpStateCmd) Run(ctx *cli.Context) error {
	var weeks []string
	if len(cmd.Weeks) == 0 {
		monday, _ := cli.ParseWeek("", ctx.Now())
		for i := 0; i < 4; i++ {
			weeks = append(weeks, monday.AddDate(0, 0, 7*i).Format("2006-01-02"))
		}
	}
	for _, w := range cmd.Weeks {
		monday, err := cli.ParseWeek(w, ctx.Now())
		if err != nil {
			return err
		}
		weeks = append(weeks, monday.Format("2006-01-02"))
	}

	snap, err := storage.ExportSnapshot(ctx.Store, weeks)
	if err != nil {
		return err
	}
	if err := snap.Write(cmd.Out); err != nil {
		return err
	}
	ctx.Printf("Wrote snapshot of %d week(s) to %s\n", len(weeks), cmd.Out)
	return nil
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
