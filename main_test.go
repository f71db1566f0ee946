package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/fleet-garage/config"
)

func TestConstants(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, "Fleet Garage Server", AppName)
}

// parseSettings runs the command tree with args and returns the resolved settings
func parseSettings(t *testing.T, args ...string) (config.Settings, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var (
		settings config.Settings
		loadErr  error
	)
	capture := func(ctx context.Context, cmd *cli.Command) error {
		settings, loadErr = loadSettings(cmd)
		return nil
	}

	cmd := newCommand()
	cmd.Action = capture
	for _, sub := range cmd.Commands {
		sub.Action = capture
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"fleet-garage"}, args...)))
	return settings, loadErr
}

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := parseSettings(t)
	require.NoError(t, err)

	assert.Equal(t, "localhost", settings.Host)
	assert.Equal(t, 8080, settings.Port)
	assert.Equal(t, "info", settings.LogLevel)
	assert.False(t, settings.Ngrok.Enabled)
}

func TestLoadSettings_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FLEET_PORT", "7000")
	t.Setenv("FLEET_HOST", "127.0.0.1")

	settings, err := parseSettings(t, "--port", "9090", "--debug")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", settings.Host, "unset flags keep the environment value")
	assert.Equal(t, 9090, settings.Port)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoadSettings_Subcommand(t *testing.T) {
	settings, err := parseSettings(t, "server", "--presets-dir", "presets")
	require.NoError(t, err)
	assert.Equal(t, "presets", settings.PresetsDir)
}

func TestLoadSettings_NgrokWithoutToken(t *testing.T) {
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "")

	_, err := parseSettings(t, "--ngrok")
	assert.Error(t, err)
}

func TestInitializeServices(t *testing.T) {
	fleet, err := initializeServices(config.Settings{}, zerolog.Nop())
	require.NoError(t, err)

	presets, err := fleet.ListPresets(context.Background())
	require.NoError(t, err)
	assert.Len(t, presets, 2)
}

func TestInitializeServices_InvalidPresetsDir(t *testing.T) {
	_, err := initializeServices(config.Settings{PresetsDir: "/non/existent/path"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewHandler_Routes(t *testing.T) {
	fleet, err := initializeServices(config.Settings{}, zerolog.Nop())
	require.NoError(t, err)

	handler := newHandler(fleet, nil, "http://localhost:0", zerolog.Nop())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/vehicles/presets/mustang", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "add_fuel")
}

func TestAPIAvailable(t *testing.T) {
	fleet, err := initializeServices(config.Settings{}, zerolog.Nop())
	require.NoError(t, err)

	server := httptest.NewServer(newHandler(fleet, nil, "http://localhost:0", zerolog.Nop()))
	defer server.Close()

	assert.True(t, apiAvailable(context.Background(), server.URL))
	assert.False(t, apiAvailable(context.Background(), "http://127.0.0.1:1"))
}
