package settings

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/traffic/internal/cli"
	"github.com/julianstephens/traffic/internal/config"
	"github.com/julianstephens/traffic/internal/storage"
)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init(storage.DefaultWorkConfig()))
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	ctx := cli.NewContext(store, &cfg, "")
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func TestSettingsShow(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&SettingsShowCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "12:30")
	assert.Contains(t, out.String(), "lunch_start")
}

func TestSettingsSet(t *testing.T) {
	ctx, out := setup(t)

	require.NoError(t, (&SettingsSetCmd{Key: "lunch-start", Value: "12:00"}).Run(ctx))
	assert.Contains(t, out.String(), "Lunch start set to 12:00")

	require.NoError(t, (&SettingsSetCmd{Key: "meeting_hours", Value: "1.5"}).Run(ctx))

	cfg, err := ctx.Store.GetWorkConfig()
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.LunchStart)
	assert.Equal(t, 1.5, cfg.MeetingHours)
}

func TestSettingsSetRejects(t *testing.T) {
	ctx, _ := setup(t)

	assert.Error(t, (&SettingsSetCmd{Key: "bogus", Value: "1"}).Run(ctx))
	assert.Error(t, (&SettingsSetCmd{Key: "lunch_start", Value: "noon"}).Run(ctx))
	assert.Error(t, (&SettingsSetCmd{Key: "lunch_start", Value: "19:00"}).Run(ctx), "lunch after the workday is invalid")
}
