package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/traffic/internal/backup"
	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/config"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/request"
	"github.com/julianstephens/traffic/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigPath string
	Out        io.Writer
	Now        func() time.Time
}

// NewContext fills in stdout and the wall clock.
func NewContext(store storage.Provider, cfg *config.Config, cfgPath string) *Context {
	return &Context{Store: store, Config: cfg, ConfigPath: cfgPath, Out: os.Stdout, Now: time.Now}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// IsSQLite reports whether the store is a local SQLite file (and so can be backed up).
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*storage.SQLiteStore)
	return ok
}

// PerformAutomaticBackup backs up a SQLite store before a write. Failures are logged and
// do not stop the caller.
func (c *Context) PerformAutomaticBackup(reason string) string {
	if !c.IsSQLite() {
		return ""
	}
	path, err := backup.NewManager(c.Store.GetConfigPath()).Create(reason)
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return ""
	}
	return path
}

// DataDir is where lockfiles live: next to a SQLite database, otherwise next to the
// config file.
func (c *Context) DataDir() string {
	if c.Store != nil && c.IsSQLite() {
		return filepath.Dir(c.Store.GetConfigPath())
	}
	if c.ConfigPath != "" {
		return filepath.Dir(c.ConfigPath)
	}
	dir, err := config.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		return os.TempDir()
	}
	return dir
}

var dayOffNames = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
}

// ParseDayOff turns "wed" / "wednesday" / "2" into a 0=Mon day index; "" means full-time.
func ParseDayOff(s string) (*int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return nil, nil
	}
	if d, ok := dayOffNames[s]; ok {
		return &d, nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '4' {
		d := int(s[0] - '0')
		return &d, nil
	}
	return nil, fmt.Errorf("invalid day off %q: use mon..fri", s)
}

// ParseWeek resolves a date or phrase ("next week", "2025-03-05") to the Monday of its ISO week.
// An empty string means this week.
func ParseWeek(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return calendar.MondayOf(now), nil
	}
	ds, err := request.ResolveDate(s, now)
	if err != nil {
		return time.Time{}, err
	}
	d, err := calendar.ParseDate(ds)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.MondayOf(d), nil
}
