package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Empty(t, s.Database.URL)
	assert.Equal(t, 4, s.Simulate.Concurrency)
	assert.False(t, s.Simulate.StrictAges)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "log:\n  level: debug\n  format: json\nserver:\n  addr: \":9000\"\nsimulate:\n  strict_ages: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("DEPOTVERGLEICH_SERVER_ADDR", ":9100")
	t.Setenv("DEPOTVERGLEICH_AUTH_JWT_SECRET", "geheim")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, ":9100", s.Server.Addr, "environment wins over the file")
	assert.Equal(t, "geheim", s.Auth.JWTSecret)
	assert.True(t, s.Simulate.StrictAges)
}

func TestLoadSettings_ExplicitFileMissing(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
