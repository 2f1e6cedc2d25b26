package system

import (
	"fmt"

	"github.com/julianstephens/traffic/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup("pre-migrate")
	n, err := ctx.Store.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if n == 0 {
		ctx.Println("Database schema is up to date.")
		return nil
	}
	ctx.Printf("Applied %d migration(s).\n", n)
	return nil
}
