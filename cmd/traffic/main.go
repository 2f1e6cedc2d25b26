package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/cli/backups"
	"github.com/julianstephens/traffic/internal/cli/bookings"
	"github.com/julianstephens/traffic/internal/cli/plans"
	"github.com/julianstephens/traffic/internal/cli/settings"
	"github.com/julianstephens/traffic/internal/cli/staff"
	"github.com/julianstephens/traffic/internal/cli/system"
	"github.com/julianstephens/traffic/internal/config"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/errors"
	"github.com/julianstephens/traffic/internal/keyring"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `name:"config-file" help:"Config file path." type:"path" default:"~/.config/traffic/config.toml"`
	DB         string `name:"db" help:"SQLite path or PostgreSQL connection string (no password); overrides the config file."`
	Verbose    bool   `short:"v" help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize traffic storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Validate system.ValidateCmd   `cmd:"" help:"Check committed bookings for conflicts."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Week     bookings.WeekCmd     `cmd:"" help:"Show the booking grid for a week." default:"withargs"`
	Export   bookings.ExportCmd   `cmd:"" help:"Export committed bookings as iCalendar."`
	Plan     plans.PlanCmd        `cmd:"" help:"Propose and commit project schedules."`
	Employee staff.EmployeeCmd    `cmd:"" help:"Manage employees."`
	Client   staff.ClientCmd      `cmd:"" help:"Manage clients."`
	Leave    staff.LeaveCmd       `cmd:"" help:"Manage leave."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change working hours."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
}

// Commands that run without an initialized store.
var noLoad = []string{"init", "plan schema", "keyring", "debug db-path"}

func needsStore(command string) bool {
	for _, prefix := range noLoad {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	if strings.HasPrefix(command, "plan run") && CLI.Plan.Run.Snapshot != "" {
		return false
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Studio traffic planner: finds free slots and books project phases"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Verbose {
		cfg.Log.Debug = true
	}
	if CLI.DB != "" {
		cfg.Storage.DSN = CLI.DB
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, LogDir: cfg.Log.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := ctx.Command()
	store, err := openStore(cfg.Storage.DSN, command)
	if err != nil {
		errors.Fatal(err)
	}
	if store != nil {
		defer store.Close()
	}

	logger.Debug("Running command", "command", command, "dsn", redact(cfg.Storage.DSN))
	if err := ctx.Run(cli.NewContext(store, cfg, CLI.ConfigFile)); err != nil {
		if store != nil {
			store.Close()
		}
		errors.Fatal(err)
	}
}

// openStore picks the backend from the DSN and loads it unless the command works without
// one. Keyring commands get no store at all so that a missing keyring entry cannot block them.
func openStore(dsn, command string) (storage.Provider, error) {
	if strings.HasPrefix(command, "keyring") {
		return nil, nil
	}

	fromKeyring := dsn == config.KeyringDSN
	resolved, err := keyring.ResolveDSN(dsn)
	if err != nil {
		return nil, err
	}

	var store storage.Provider
	if storage.IsPostgresDSN(resolved) {
		if !fromKeyring {
			if err := storage.ValidateConnString(resolved); err != nil {
				return nil, err
			}
		}
		store = storage.NewPostgresStore(resolved)
	} else {
		store = storage.NewSQLiteStore(resolved)
	}

	if needsStore(command) {
		if err := store.Load(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func redact(dsn string) string {
	if storage.HasEmbeddedCredentials(dsn) {
		return "<redacted>"
	}
	return dsn
}
