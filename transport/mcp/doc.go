// Package mcp provides a Model Context Protocol server for the fleet garage.
//
// The server is a thin proxy: every tool call is translated into a request
// against the REST API, so MCP clients observe exactly the same rules and
// errors as HTTP clients.
//
// MCP Tools:
//   - list_vehicles: List registered vehicles
//   - get_vehicle: Get one vehicle's state
//   - create_vehicle: Register a vehicle from explicit attributes
//   - add_preset: Register a vehicle from a catalog preset
//   - list_presets: List catalog presets
//   - start_engine: Start a vehicle's engine
//   - stop_engine: Stop a vehicle's engine
//   - add_fuel: Pump one fuel increment
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: mount client.Handler() at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", version)
//	http.Handle("/mcp", client.Handler())
package mcp
