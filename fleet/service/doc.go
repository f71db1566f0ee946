// Package service provides the orchestration layer of the fleet garage.
//
// The service package implements:
//   - Vehicle registration from explicit attributes or catalog presets
//   - Lookup by identifier string with boundary validation
//   - Engine and fuel operations addressed by vehicle identifier
//   - Structured logging and operation metrics for every call
//
// Core Interfaces:
//
// FleetService is the single entry point used by the transport layers (REST,
// WebSocket, MCP). VehicleStore and PresetCatalog describe the collaborators it
// is built from, implemented by the store and catalog packages.
//
// Architecture:
//
// The service sits between the transports and the vehicle state machine.
// Each call resolves the identifier, then invokes exactly one vehicle
// operation and reports its outcome unchanged. It adds no invariants of its
// own.
//
// Usage:
//
//	presets, _ := catalog.NewManager("")
//	fleet, err := service.NewFleetService(store.New(), presets, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := fleet.AddPreset(ctx, "mustang")
//	_, err = fleet.AddFuel(ctx, info.ID.String())
//	_, err = fleet.StartEngine(ctx, info.ID.String())
//
// Errors:
//
// Malformed identifiers and rejected attributes return ErrInvalidArgument,
// unknown identifiers return ErrNotFound, and rejected transitions return the
// vehicle package's EngineError or FuelError.
package service
