// Package store provides the shared in-memory registry of fleet vehicles.
//
// The store package implements:
//   - Thread-safe registration and lookup by identifier
//   - Insertion-ordered listing
//   - Snapshot reads that are safe to use while other goroutines add vehicles
//
// Core Types:
//
// Store holds every registered vehicle. It is constructed explicitly with New
// and handed to the collaborators that need it; there is no package-level
// instance.
//
// Usage:
//
//	vehicles := store.New()
//
//	car, _ := vehicle.NewOfKind(vehicle.Car, "Red", "Ford", "Mustang")
//	if err := vehicles.Add(car); err != nil {
//		log.Fatal(err)
//	}
//
//	if v, ok := vehicles.Find(car.ID()); ok {
//		_ = v.AddFuel()
//	}
//
// Concurrency:
//
// A single read/write lock guards the registry. It protects only the
// container; engine and fuel changes are serialized by each vehicle's own
// lock, so mutating one vehicle never blocks lookups or other vehicles.
//
// Lifetime:
//
// Vehicles are never removed and nothing is persisted. The registry lives as
// long as the process.
package store
