package service

import (
	"errors"

	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

var (
	ErrInvalidArgument = vehicle.ErrInvalidArgument
	ErrNotFound        = errors.New("vehicle not found")
)

// CreateVehicleRequest carries the attributes of a new vehicle
type CreateVehicleRequest struct {
	Kind         string  `json:"kind,omitempty"`          // defaults to "car"
	Color        string  `json:"color,omitempty"`         // defaults to vehicle.DefaultColor
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	FuelCapacity float64 `json:"fuel_capacity,omitempty"` // zero uses the kind default
	Year         int     `json:"year,omitempty"`          // zero uses the current year
}

// VehicleInfo is the externally visible view of a vehicle
type VehicleInfo struct {
	vehicle.State
	Name string `json:"name"`
}

func newVehicleInfo(v *vehicle.Vehicle) *VehicleInfo {
	state := v.Snapshot()
	return &VehicleInfo{
		State: state,
		Name:  state.Brand + " " + state.Model,
	}
}
