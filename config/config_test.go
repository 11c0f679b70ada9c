package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
player:
  username: Bob
room:
  id: r42
redis:
  ttl: 30m
`)
	assert.NoError(t, Load(path))

	assert.Equal(t, "Bob", C.Player.Username)
	assert.Equal(t, "r42", C.Room.ID)
	assert.Equal(t, "ws://localhost:5000/ws", C.Server.URL, "default kept")
	assert.Equal(t, ":8081", C.API.Port)
	assert.Equal(t, 30*time.Minute, C.Redis.TTL)
	assert.Equal(t, "info", C.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "player:\n  username: Bob\n")
	t.Setenv("GUANDAN_PLAYER_USERNAME", "Carol")
	t.Setenv("GUANDAN_REDIS_ENABLED", "true")

	assert.NoError(t, Load(path))
	assert.Equal(t, "Carol", C.Player.Username)
	assert.True(t, C.Redis.Enabled)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("GUANDAN_PLAYER_TOKEN", "tok")
	assert.NoError(t, Load(""))
	assert.Equal(t, "tok", C.Player.Token)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Load(writeConfig(t, "log:\n  level: debug\n")), "no identity at all")
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml")))

	var c Config
	c.Server.URL = "ws://x"
	c.Player.Username = "Alice"
	c.Room.Create = true
	c.Room.ID = "r1"
	assert.Error(t, c.Validate())
}

func TestShippedConfigLoads(t *testing.T) {
	assert.NoError(t, Load("config.yaml"))
	assert.Equal(t, "Alice", C.Player.Username)
	assert.True(t, C.Room.Create)
}
