package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show the studio's working hours."`
	Set  SettingsSetCmd  `cmd:"" help:"Change one working-hours setting."`
}

// field describes one WorkConfig setting. clock settings are shown and accepted as HH:MM.
type field struct {
	key   string
	label string
	clock bool
	ptr   func(*models.WorkConfig) *float64
}

var fields = []field{
	{constants.SettingWorkdayStart, "Workday start", true, func(c *models.WorkConfig) *float64 { return &c.WorkdayStart }},
	{constants.SettingWorkdayEnd, "Workday end", true, func(c *models.WorkConfig) *float64 { return &c.WorkdayEnd }},
	{constants.SettingLunchStart, "Lunch start", true, func(c *models.WorkConfig) *float64 { return &c.LunchStart }},
	{constants.SettingLunchEnd, "Lunch end", true, func(c *models.WorkConfig) *float64 { return &c.LunchEnd }},
	{constants.SettingMeetingWindowStart, "Meeting window start", true, func(c *models.WorkConfig) *float64 { return &c.MeetingWindowStart }},
	{constants.SettingMeetingWindowEnd, "Meeting window end", true, func(c *models.WorkConfig) *float64 { return &c.MeetingWindowEnd }},
	{constants.SettingFullDayAfternoonStart, "Full-day afternoon check from", true, func(c *models.WorkConfig) *float64 { return &c.FullDayAfternoonStart }},
	{constants.SettingStandardHoursPerDay, "Standard hours per day", false, func(c *models.WorkConfig) *float64 { return &c.StandardHoursPerDay }},
	{constants.SettingMeetingHours, "Meeting length (hours)", false, func(c *models.WorkConfig) *float64 { return &c.MeetingHours }},
}

func lookup(key string) (field, bool) {
	key = strings.ReplaceAll(strings.ToLower(key), "-", "_")
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	sort.Strings(out)
	return out
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.label, format(f, *f.ptr(&cfg)), f.key)
	}
	return w.Flush()
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key, e.g. lunch_start."`
	Value string `arg:"" help:"HH:MM for times, a number for hours."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	f, ok := lookup(c.Key)
	if !ok {
		return fmt.Errorf("unknown setting %q, expected one of: %s", c.Key, strings.Join(keys(), ", "))
	}
	v, err := parse(f, c.Value)
	if err != nil {
		return err
	}

	cfg, err := ctx.Store.GetWorkConfig()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	*f.ptr(&cfg) = v
	if err := ctx.Store.SaveWorkConfig(cfg); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("%s set to %s\n", f.label, format(f, v))
	return nil
}

func format(f field, v float64) string {
	if f.clock {
		return calendar.FormatHour(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parse(f field, s string) (float64, error) {
	if f.clock && strings.Contains(s, ":") {
		return calendar.ParseHour(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for %s", s, f.key)
	}
	return v, nil
}
