package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/keyring"
	"github.com/julianstephens/traffic/internal/storage"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgresDSN(cmd.ConnectionString) {
		return errors.New("connection string must be a PostgreSQL URL or key=value DSN")
	}
	// Passwords are fine here: the keyring is where they belong.
	if err := storage.ValidateConnString(cmd.ConnectionString); err != nil && !errors.Is(err, storage.ErrEmbeddedCredentials) {
		return fmt.Errorf("invalid connection string: %w", err)
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Println("  Set `dsn = \"keyring\"` under [storage] in config.toml (or TRAFFIC_DB=keyring) to use it")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	dsn, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring, use 'traffic keyring set' to store one")
		}
		return err
	}
	ctx.Println(maskPassword(dsn))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string removed from OS keyring")
	return nil
}

func maskPassword(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if u, err := url.Parse(dsn); err == nil {
			return u.Redacted()
		}
		return dsn
	}
	parts := strings.Fields(dsn)
	for i, p := range parts {
		if k, _, ok := strings.Cut(p, "="); ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=xxxxx"
		}
	}
	return strings.Join(parts, " ")
}
