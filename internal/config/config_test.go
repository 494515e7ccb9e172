package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "monadclicker", cfg.DB.Database)
	assert.Equal(t, 100, cfg.Game.LeaderboardSize)
	assert.Equal(t, 30*time.Second, cfg.Game.BroadcastInterval.Duration)
	assert.Empty(t, cfg.Game.IdentityURL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[db]
driver = "memory"

[log]
level = "debug"

[game]
leaderboard_size = 25
broadcast_interval = "10s"
identity_url = "https://identity.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Game.LeaderboardSize)
	assert.Equal(t, 10*time.Second, cfg.Game.BroadcastInterval.Duration)
	assert.Equal(t, "https://identity.example.com", cfg.Game.IdentityURL)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[game]
broadcast_interval = "not-a-duration"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[[not toml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConnString(t *testing.T) {
	c := DBConfig{
		Host: "db.internal", Port: 5433, User: "svc",
		Password: "secret", Database: "clicker", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=secret dbname=clicker sslmode=require",
		c.ConnString())
}
