package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gymdesk", cfg.Database.Name)
	assert.Equal(t, 4, cfg.Notifier.HorizonDays)
	assert.Equal(t, time.Hour, cfg.Notifier.Interval)
	assert.Equal(t, 15*time.Minute, cfg.S3.LinkExpiry)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  address: \":9090\"\ngym:\n  name: Iron Temple\n  time_zone: Europe/Berlin\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("NOTIFIER_HORIZON_DAYS", "7")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "Iron Temple", cfg.Gym.Name)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7, cfg.Notifier.HorizonDays)
	loc, err := cfg.Gym.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestGymConfig_Location(t *testing.T) {
	loc, err := GymConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = GymConfig{TimeZone: "Not/AZone"}.Location()
	assert.ErrorContains(t, err, "Not/AZone")
}

func TestLoadConfig_RejectsUnknownTimeZone(t *testing.T) {
	t.Setenv("GYM_TIME_ZONE", "Asia/Kolkatta")

	_, err := LoadConfig(t.TempDir())

	assert.ErrorContains(t, err, "gym.time_zone")
}
