package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", settings.Host)
	assert.Equal(t, 8080, settings.Port)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Empty(t, settings.PresetsDir)
	assert.False(t, settings.Ngrok.Enabled)
	assert.Equal(t, "localhost:8080", settings.Addr())
	assert.NoError(t, settings.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLEET_HOST", "0.0.0.0")
	t.Setenv("FLEET_PORT", "9090")
	t.Setenv("FLEET_PRESETS_DIR", "presets")
	t.Setenv("FLEET_DEBUG", "true")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore-token")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", settings.Addr())
	assert.Equal(t, "presets", settings.PresetsDir)
	assert.True(t, settings.Debug)
	assert.Equal(t, "underscore-token", settings.Ngrok.AuthToken)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleet.env")
	require.NoError(t, os.WriteFile(path, []byte("FLEET_PORT=7070\nFLEET_LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("FLEET_PORT")
		os.Unsetenv("FLEET_LOG_LEVEL")
	})

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, settings.Port)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLEET_PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"valid", Settings{Host: "localhost", Port: 8080}, false},
		{"port out of range", Settings{Port: 70000}, true},
		{"ngrok without token", Settings{Port: 8080, Ngrok: Ngrok{Enabled: true}}, true},
		{"ngrok with token", Settings{Port: 8080, Ngrok: Ngrok{Enabled: true, AuthToken: "t"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
