// Package config loads the application config file (~/.config/traffic/config.toml). The file
// chooses where data lives and how logging behaves; the studio's working hours live in the
// store's settings table, and [work] only seeds them on init.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

// KeyringDSN as the storage DSN means "read the connection string from the OS keyring".
const KeyringDSN = "keyring"

type Config struct {
	Storage StorageConfig     `toml:"storage"`
	Log     LogConfig         `toml:"log"`
	Work    models.WorkConfig `toml:"work"`
}

type StorageConfig struct {
	// DSN is a SQLite file path, a PostgreSQL connection string without password, or "keyring".
	DSN string `toml:"dsn"`
}

type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{DSN: constants.DefaultDBPath},
		Log:     LogConfig{Dir: filepath.Join(constants.DefaultConfigDir, "logs")},
		Work: models.WorkConfig{
			WorkdayStart:          constants.DefaultWorkdayStart,
			WorkdayEnd:            constants.DefaultWorkdayEnd,
			LunchStart:            constants.DefaultLunchStart,
			LunchEnd:              constants.DefaultLunchEnd,
			MeetingWindowStart:    constants.DefaultMeetingWindowStart,
			MeetingWindowEnd:      constants.DefaultMeetingWindowEnd,
			StandardHoursPerDay:   constants.DefaultStandardHoursPerDay,
			FullDayAfternoonStart: constants.DefaultFullDayAfternoonStart,
			MeetingHours:          constants.DefaultMeetingHours,
		},
	}
}

// DefaultPath is ~/.config/traffic/config.toml, expanded.
func DefaultPath() (string, error) {
	return ExpandHome(filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName))
}

// Load reads path on top of DefaultConfig. A missing file is not an error. Environment
// overrides are applied last and paths are expanded.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Work.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [work] section: %w", err)
	}
	if cfg.Log.Dir, err = ExpandHome(cfg.Log.Dir); err != nil {
		return nil, err
	}
	if !isConnString(cfg.Storage.DSN) {
		if cfg.Storage.DSN, err = ExpandHome(cfg.Storage.DSN); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRAFFIC_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TRAFFIC_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
	if v := os.Getenv("TRAFFIC_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func isConnString(dsn string) bool {
	return dsn == KeyringDSN || strings.Contains(dsn, "://") || strings.Contains(dsn, "=")
}
