// Package vehicle provides the engine and fuel state machine for a single
// vehicle in the fleet.
//
// The vehicle package implements:
//   - Validated construction with per-kind defaults (tires, tank size)
//   - Fuel pumping in fixed increments, clamped to tank capacity
//   - Engine start/stop guarded by engine state and fuel level
//   - Typed errors for every rejected transition
//
// Core Types:
//
// Vehicle holds the immutable description of a vehicle plus its mutable
// engine/fuel state. Kind selects the tire count and default capacity from a
// small table. EngineError and FuelError report rejected transitions.
//
// Usage:
//
//	car, err := vehicle.NewOfKind(vehicle.Car, "Red", "Ford", "Mustang")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := car.StartEngine(); errors.Is(err, vehicle.ErrInsufficientFuel) {
//		_ = car.AddFuel()
//	}
//
// Rules:
//
// Fuel starts at zero and never leaves [0, capacity]. The engine can only be
// started when it is off and the tank holds at least MinimumFuelToStart. When
// both conditions fail, the engine check wins: starting a running vehicle is
// always an EngineError.
//
// Concurrency:
//
// Each Vehicle guards its own state with a mutex, so concurrent operations on
// the same vehicle serialize while different vehicles never contend.
package vehicle
