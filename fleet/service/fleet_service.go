package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

// FleetService defines all fleet operations
type FleetService interface {
	// Registration
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleInfo, error)
	AddPreset(ctx context.Context, presetID string) (*VehicleInfo, error)

	// Lookup
	GetVehicle(ctx context.Context, vehicleID string) (*VehicleInfo, error)
	ListVehicles(ctx context.Context) ([]*VehicleInfo, error)

	// Engine and fuel
	StartEngine(ctx context.Context, vehicleID string) (*VehicleInfo, error)
	StopEngine(ctx context.Context, vehicleID string) (*VehicleInfo, error)
	AddFuel(ctx context.Context, vehicleID string) (*VehicleInfo, error)
	NeedsFuel(ctx context.Context, vehicleID string) (bool, error)
	IsEngineOn(ctx context.Context, vehicleID string) (bool, error)

	// Catalog
	ListPresets(ctx context.Context) ([]*catalog.Preset, error)
}

// VehicleStore defines vehicle registry operations
type VehicleStore interface {
	Add(v *vehicle.Vehicle) error
	Find(id uuid.UUID) (*vehicle.Vehicle, bool)
	List() []*vehicle.Vehicle
	Len() int
}

// PresetCatalog provides named vehicle presets
type PresetCatalog interface {
	Get(id string) (*catalog.Preset, error)
	List() []*catalog.Preset
}
