package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/service"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// APIError is returned when the REST API answers with an error status
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL, version string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer(version)
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer(version string) {
	c.mcpServer = server.NewMCPServer(
		"Fleet Garage",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Fleet Garage - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Vehicles are cars (4 tires) or motorcycles (2 tires). Each starts with an empty
tank and the engine off. Every add_fuel call pumps 0.1 units, never past the
tank capacity. An engine only starts with at least 0.01 units of fuel.

AVAILABLE TOOLS:
- list_vehicles: List registered vehicles
- get_vehicle: Get one vehicle by id
- create_vehicle: Register a vehicle from explicit attributes
- add_preset: Register a vehicle from a catalog preset
- list_presets: List catalog presets
- start_engine / stop_engine: Toggle the engine
- add_fuel: Pump one fuel increment`),
	)

	c.registerTools()
}

func vehicleIDSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"vehicle_id": map[string]interface{}{
				"type":        "string",
				"description": "Vehicle ID (UUID)",
			},
		},
		Required: []string{"vehicle_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Registration and lookup
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_vehicles",
		Description: "List all registered vehicles in registration order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListVehicles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_vehicle",
		Description: "Get the current state of a vehicle",
		InputSchema: vehicleIDSchema(),
	}, c.handleGetVehicle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_vehicle",
		Description: "Register a new vehicle with an empty tank and the engine off",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(vehicle.Car), string(vehicle.Motorcycle)},
					"description": "Vehicle kind (default car)",
				},
				"brand": map[string]interface{}{
					"type":        "string",
					"description": "Manufacturer",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Model name",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Paint color (default White)",
				},
				"fuel_capacity": map[string]interface{}{
					"type":        "number",
					"description": "Tank capacity (default depends on kind)",
				},
				"year": map[string]interface{}{
					"type":        "integer",
					"description": "Model year (default current year)",
				},
			},
			Required: []string{"brand", "model"},
		},
	}, c.handleCreateVehicle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_preset",
		Description: "Register a new vehicle built from a catalog preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID, see list_presets",
				},
			},
			Required: []string{"preset"},
		},
	}, c.handleAddPreset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List catalog presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	// Engine and fuel
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_engine",
		Description: "Start the engine. Fails when already running or out of fuel",
		InputSchema: vehicleIDSchema(),
	}, c.vehicleAction("start"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "stop_engine",
		Description: "Stop the engine. Fails when already stopped",
		InputSchema: vehicleIDSchema(),
	}, c.vehicleAction("stop"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_fuel",
		Description: "Pump one 0.1 fuel increment. Fails when the tank is full",
		InputSchema: vehicleIDSchema(),
	}, c.vehicleAction("fuel"))
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Handler serves JSON-RPC MCP messages over plain HTTP POST
func (c *Client) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return &APIError{Status: resp.StatusCode, Code: errResp["code"], Message: msg}
		}
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("API error: %d", resp.StatusCode)}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// Tool handlers

func (c *Client) handleListVehicles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Vehicles []*service.VehicleInfo `json:"vehicles"`
	}

	if err := c.apiCall(ctx, "GET", "/api/vehicles", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vehicles (%d):\n\n", response.Count)
	for _, v := range response.Vehicles {
		fmt.Fprintf(&b, "- %s\n", formatVehicleLine(v))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID := stringArg(arguments(request), "vehicle_id")
	if vehicleID == "" {
		return mcp.NewToolResultError("vehicle_id is required"), nil
	}

	var info service.VehicleInfo
	if err := c.apiCall(ctx, "GET", "/api/vehicles/"+url.PathEscape(vehicleID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatVehicle(&info)), nil
}

func (c *Client) handleCreateVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := service.CreateVehicleRequest{
		Kind:  stringArg(args, "kind"),
		Color: stringArg(args, "color"),
		Brand: stringArg(args, "brand"),
		Model: stringArg(args, "model"),
	}
	// JSON numbers arrive as float64
	if capacity, ok := args["fuel_capacity"].(float64); ok {
		body.FuelCapacity = capacity
	}
	if year, ok := args["year"].(float64); ok {
		body.Year = int(year)
	}

	var info service.VehicleInfo
	if err := c.apiCall(ctx, "POST", "/api/vehicles", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Registered vehicle\n" + formatVehicle(&info)), nil
}

func (c *Client) handleAddPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	presetID := stringArg(arguments(request), "preset")
	if presetID == "" {
		return mcp.NewToolResultError("preset is required"), nil
	}

	var info service.VehicleInfo
	if err := c.apiCall(ctx, "POST", "/api/vehicles/presets/"+url.PathEscape(presetID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Registered vehicle\n" + formatVehicle(&info)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int               `json:"count"`
		Presets []*catalog.Preset `json:"presets"`
	}

	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Presets (%d):\n\n", response.Count)
	for _, p := range response.Presets {
		fmt.Fprintf(&b, "- %s: %s (%s, %s)", p.ID, p.Name, p.Kind, colorOrDefault(p.Color))
		if p.Description != "" {
			fmt.Fprintf(&b, " - %s", p.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// vehicleAction proxies an engine or fuel operation
func (c *Client) vehicleAction(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vehicleID := stringArg(arguments(request), "vehicle_id")
		if vehicleID == "" {
			return mcp.NewToolResultError("vehicle_id is required"), nil
		}

		var info service.VehicleInfo
		path := fmt.Sprintf("/api/vehicles/%s/%s", url.PathEscape(vehicleID), action)
		if err := c.apiCall(ctx, "POST", path, nil, &info); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatVehicle(&info)), nil
	}
}

// Formatting helpers

func colorOrDefault(color string) string {
	if color == "" {
		return vehicle.DefaultColor
	}
	return color
}

func formatVehicleLine(v *service.VehicleInfo) string {
	engine := "off"
	if v.EngineOn {
		engine = "on"
	}
	return fmt.Sprintf("%s %s %s (%s) fuel %.1f/%.1f engine %s",
		v.ID, v.Color, v.Name, v.Kind, v.FuelLevel, v.FuelCapacity, engine)
}

func formatVehicle(v *service.VehicleInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", v.ID)
	fmt.Fprintf(&b, "Vehicle: %d %s %s\n", v.Year, v.Color, v.Name)
	fmt.Fprintf(&b, "Kind: %s (%d tires)\n", v.Kind, v.Tires)
	fmt.Fprintf(&b, "Fuel: %.2f/%.2f\n", v.FuelLevel, v.FuelCapacity)
	if v.EngineOn {
		b.WriteString("Engine: running\n")
	} else {
		b.WriteString("Engine: off\n")
	}
	if v.NeedsFuel {
		b.WriteString("⛽ Needs fuel before the engine can start\n")
	}
	return b.String()
}
