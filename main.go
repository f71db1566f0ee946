// Command fleet-garage starts the fleet garage server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the presets directory, logging, and optional ngrok
// tunneling for easy external access during development. Every flag has an
// environment counterpart, see package config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/fleet-garage/api"
	"github.com/wricardo/fleet-garage/config"
	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/service"
	"github.com/wricardo/fleet-garage/fleet/store"
	"github.com/wricardo/fleet-garage/logging"
	"github.com/wricardo/fleet-garage/transport/mcp"
	"github.com/wricardo/fleet-garage/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Fleet Garage Server"
)

const shutdownTimeout = 10 * time.Second

// main parses flags, initializes services, and starts the selected mode.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newCommand builds the command tree. Flags are inherited by subcommands.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "fleet-garage",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "presets-dir", Usage: "Directory containing vehicle preset JSON files"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging with human-friendly output"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (or use NGROK_AUTHTOKEN env var)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)"},
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  stdioAction,
			},
		},
	}
}

// loadSettings reads the environment and applies explicitly set flags on top
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}

	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("presets-dir") {
		settings.PresetsDir = cmd.String("presets-dir")
	}
	if cmd.IsSet("log-level") {
		settings.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("debug") {
		settings.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("ngrok") {
		settings.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		settings.Ngrok.AuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		settings.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if settings.Debug {
		settings.LogLevel = "debug"
	}

	return settings, settings.Validate()
}

// initializeServices wires the preset catalog, vehicle store and fleet service
func initializeServices(settings config.Settings, logger zerolog.Logger) (service.FleetService, error) {
	presets, err := catalog.NewManager(settings.PresetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset catalog: %w", err)
	}
	for name, err := range presets.Skipped() {
		logger.Warn().Str("file", name).Err(err).Msg("skipped preset file")
	}

	fleet, err := service.NewFleetService(store.New(), presets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create fleet service: %w", err)
	}
	return fleet, nil
}

// setup loads settings, builds the logger and the fleet service
func setup(cmd *cli.Command) (config.Settings, zerolog.Logger, service.FleetService, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return config.Settings{}, zerolog.Nop(), nil, err
	}

	// stdout belongs to the MCP stdio transport, so logs always go to stderr
	logger := logging.New(os.Stderr, settings.LogLevel, settings.Debug)

	fleet, err := initializeServices(settings, logger)
	if err != nil {
		return config.Settings{}, zerolog.Nop(), nil, err
	}
	return settings, logger, fleet, nil
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	settings, logger, fleet, err := setup(cmd)
	if err != nil {
		return err
	}

	logger.Info().Str("version", Version).Str("mode", "server").Msg("starting " + AppName)
	return runHTTPServer(ctx, settings, fleet, logger)
}

func stdioAction(ctx context.Context, cmd *cli.Command) error {
	settings, logger, fleet, err := setup(cmd)
	if err != nil {
		return err
	}

	logger.Info().Str("version", Version).Str("mode", "stdio-mcp").Msg("starting " + AppName)
	return runStdioMCP(ctx, settings, fleet, logger)
}

// newHandler combines the REST API, WebSocket endpoint and /mcp proxy
func newHandler(fleet service.FleetService, hub *websocket.Hub, baseURL string, logger zerolog.Logger) http.Handler {
	apiServer := api.NewServer(fleet, hub, logger)
	mcpClient := mcp.NewClient(baseURL, Version)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.Handler())
	return mainRouter
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, settings config.Settings, fleet service.FleetService, logger zerolog.Logger) error {
	addr := settings.Addr()
	hub := websocket.NewHub(logger)
	handler := newHandler(fleet, hub, "http://"+addr, logger)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info().
			Str("addr", addr).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("websocket", fmt.Sprintf("ws://%s/ws?vehicle=<vehicle_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	if settings.Ngrok.Enabled {
		g.Go(func() error {
			return runNgrok(gctx, settings.Ngrok, handler, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, settings config.Ngrok, handler http.Handler, logger zerolog.Logger) error {
	logger.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if settings.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.Domain))
		logger.Info().Str("domain", settings.Domain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.AuthToken))
	if err != nil {
		// The local server keeps running without the tunnel
		logger.Error().Err(err).Msg("failed to start ngrok tunnel")
		return nil
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	logger.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error().Err(err).Msg("ngrok server error")
	}
	logger.Info().Msg("ngrok tunnel closed")
	return nil
}

// runStdioMCP runs an MCP stdio server.
// It reuses an API already listening on the configured address; otherwise it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCP(ctx context.Context, settings config.Settings, fleet service.FleetService, logger zerolog.Logger) error {
	baseURL := "http://" + settings.Addr()

	if apiAvailable(ctx, baseURL) {
		logger.Info().Str("url", baseURL).Msg("external API server found, using it for MCP")
	} else {
		logger.Info().Msg("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		hubCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		hub := websocket.NewHub(logger)
		go hub.Run(hubCtx)

		httpServer := &http.Server{Handler: api.NewServer(fleet, hub, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		logger.Info().Str("url", baseURL).Msg("internal HTTP server started")
	}

	mcpClient := mcp.NewClient(baseURL, Version)
	logger.Info().Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable probes the health endpoint of an API server
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
