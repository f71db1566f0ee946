package vehicle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind represents the category of a vehicle
type Kind string

const (
	Car        Kind = "car"
	Motorcycle Kind = "motorcycle"

	// Fuel constants
	FuelIncrement      = 0.1  // units added per pump
	MinimumFuelToStart = 0.01 // below this the tank counts as empty
	DefaultColor       = "White"

	// fuelPrecision removes float drift accumulated by repeated increments
	fuelPrecision = 1e9
)

// KindSpec describes what a kind determines about a vehicle
type KindSpec struct {
	Tires           int     `json:"tires"`
	DefaultCapacity float64 `json:"default_capacity"`
}

var kinds = map[Kind]KindSpec{
	Car:        {Tires: 4, DefaultCapacity: 10},
	Motorcycle: {Tires: 2, DefaultCapacity: 5},
}

// Spec returns the table entry for the kind
func (k Kind) Spec() (KindSpec, bool) {
	spec, ok := kinds[k]
	return spec, ok
}

// Valid reports whether the kind is known
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// ParseKind converts a case-insensitive name into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown vehicle kind %q", ErrInvalidArgument, s)
	}
	return k, nil
}

// Kinds returns every known kind
func Kinds() []Kind {
	return []Kind{Car, Motorcycle}
}

// State is a consistent, serializable view of a vehicle
type State struct {
	ID           uuid.UUID `json:"id"`
	Kind         Kind      `json:"kind"`
	Tires        int       `json:"tires"`
	Color        string    `json:"color"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	FuelCapacity float64   `json:"fuel_capacity"`
	FuelLevel    float64   `json:"fuel_level"`
	EngineOn     bool      `json:"engine_on"`
	NeedsFuel    bool      `json:"needs_fuel"`
}
