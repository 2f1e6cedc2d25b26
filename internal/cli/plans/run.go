package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/ics"
	"github.com/julianstephens/traffic/internal/lock"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/models"
	"github.com/julianstephens/traffic/internal/request"
	"github.com/julianstephens/traffic/internal/scheduler"
	"github.com/julianstephens/traffic/internal/storage"
	"github.com/julianstephens/traffic/internal/tui"
)

var ErrCommitSnapshot = errors.New("--commit cannot be used with --snapshot")

type PlanCmd struct {
	Run    PlanRunCmd    `cmd:"" help:"Propose a schedule for a project request."`
	Schema PlanSchemaCmd `cmd:"" help:"Print the JSON Schema of a plan request."`
}

type PlanRunCmd struct {
	Request  string `arg:"" help:"Request file (.yaml, .yml or .json); '-' reads YAML from stdin."`
	Snapshot string `help:"Plan against a snapshot file instead of the database." type:"path"`
	Commit   bool   `help:"Store the project and its bookings after confirmation."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
	ICS      string `name:"ics" help:"Write the proposed blocks to this .ics file." type:"path"`
	JSON     bool   `name:"json" help:"Print the proposal as JSON."`
}

// confirm is swapped out in tests.
var confirm = tui.ConfirmCommit

func (c *PlanRunCmd) Run(ctx *cli.Context) error {
	if c.Commit && c.Snapshot != "" {
		return ErrCommitSnapshot
	}

	req, err := request.Load(c.Request)
	if err != nil {
		return err
	}
	now := ctx.Now()
	if req, err = request.Normalize(req, now); err != nil {
		return err
	}

	sources, cfg, err := c.sources(ctx)
	if err != nil {
		return err
	}

	result, err := scheduler.New(sources).WithClock(ctx.Now).PlanProject(req, cfg)
	if err != nil {
		return err
	}
	logger.Info("Planned project", "project", result.ProjectNumber, "blocks", len(result.PlacedBlocks), "warnings", len(result.Warnings))

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		ctx.Println(tui.RenderProposal(result))
	}

	if c.ICS != "" {
		if err := writeICS(c.ICS, result, now); err != nil {
			return err
		}
		if !c.JSON {
			ctx.Printf("Wrote %d events to %s\n", len(result.PlacedBlocks), c.ICS)
		}
	}

	if !c.Commit {
		return nil
	}
	return commit(ctx, result, c.Yes)
}

func (c *PlanRunCmd) sources(ctx *cli.Context) (scheduler.Sources, models.WorkConfig, error) {
	if c.Snapshot != "" {
		snap, err := storage.LoadSnapshot(c.Snapshot)
		if err != nil {
			return scheduler.Sources{}, models.WorkConfig{}, err
		}
		return scheduler.SourcesFrom(snap), snap.Config(), nil
	}
	if ctx.Store == nil {
		return scheduler.Sources{}, models.WorkConfig{}, fmt.Errorf("storage not initialized, run 'traffic init' first")
	}
	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return scheduler.Sources{}, models.WorkConfig{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return scheduler.SourcesFrom(ctx.Store), cfg, nil
}

func writeICS(path string, result models.PlanningResult, now time.Time) error {
	events, err := ics.EventsFromProposal(result, time.Local)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ics.Write(f, events, now); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func commit(ctx *cli.Context, result models.PlanningResult, yes bool) error {
	if len(result.PlacedBlocks) == 0 {
		ctx.Println("Nothing to commit.")
		return nil
	}
	if !yes {
		ok, err := confirm(result)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Not committed.")
			return nil
		}
	}

	l, err := lock.Acquire(lock.Path(ctx.DataDir()))
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release commit lock", "error", err)
		}
	}()

	if path := ctx.PerformAutomaticBackup("pre-commit"); path != "" {
		logger.Debug("Backup before commit", "path", path)
	}

	project, bookings, err := ctx.Store.CommitPlan(result)
	if err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	if project.Number != result.ProjectNumber {
		ctx.Printf("Project number %s was taken; committed as %s.\n", result.ProjectNumber, project.Number)
	}
	ctx.Printf("Committed %s with %d bookings.\n", project.Number, len(bookings))
	return nil
}
