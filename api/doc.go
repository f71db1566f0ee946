// Package api provides HTTP REST API handlers for the fleet garage.
//
// The api package implements:
//   - Vehicle registration from explicit attributes or catalog presets
//   - Engine and fuel operations on registered vehicles
//   - Preset catalog listing
//   - WebSocket upgrade handling for live vehicle updates
//
// Endpoints:
//
// Vehicles:
//   - GET /api/vehicles - List vehicles in registration order
//   - POST /api/vehicles - Register a vehicle
//   - POST /api/vehicles/presets/{preset} - Register a vehicle from a preset
//   - GET /api/vehicles/{id} - Get one vehicle
//
// Operations:
//   - POST /api/vehicles/{id}/start - Start the engine
//   - POST /api/vehicles/{id}/stop - Stop the engine
//   - POST /api/vehicles/{id}/fuel - Pump one fuel increment
//
// Catalog:
//   - GET /api/presets - List available presets
//
// Create requests are JSON:
//
//	{
//	  "kind": "car|motorcycle",   // optional, defaults to car
//	  "color": "Blue",            // optional, defaults to White
//	  "brand": "Ford",
//	  "model": "Bronco",
//	  "fuel_capacity": 12.5,      // optional, kind default when omitted
//	  "year": 2021                // optional, current year when omitted
//	}
//
// Error Handling:
//
// Errors are returned as JSON with a machine-friendly code:
//
//	{
//	  "error": "engine is already running",
//	  "code": "already_running"
//	}
//
// Malformed input maps to 400, unknown vehicles and presets to 404, rejected
// engine or fuel operations to 409.
package api
