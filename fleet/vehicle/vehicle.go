package vehicle

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Vehicle is a single fleet member with fixed attributes and engine/fuel state
type Vehicle struct {
	id       uuid.UUID
	kind     Kind
	tires    int
	color    string
	brand    string
	model    string
	year     int
	capacity float64

	mu       sync.Mutex
	fuel     float64
	engineOn bool
}

// Option customizes optional attributes at construction
type Option func(*Vehicle)

// WithYear sets the model year; non-positive values are rejected by New
func WithYear(year int) Option {
	return func(v *Vehicle) {
		v.year = year
	}
}

// New creates a vehicle with an empty tank and the engine off.
// Brand and model are required, capacity must be positive and color falls back
// to DefaultColor when blank. The year defaults to the current calendar year.
func New(kind Kind, color, brand, model string, capacity float64, opts ...Option) (*Vehicle, error) {
	spec, ok := kind.Spec()
	if !ok {
		return nil, fmt.Errorf("%w: unknown vehicle kind %q", ErrInvalidArgument, kind)
	}
	if strings.TrimSpace(brand) == "" {
		return nil, fmt.Errorf("%w: brand cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", ErrInvalidArgument)
	}
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return nil, fmt.Errorf("%w: fuel capacity must be a positive value", ErrInvalidArgument)
	}
	if strings.TrimSpace(color) == "" {
		color = DefaultColor
	}

	v := &Vehicle{
		kind:     kind,
		tires:    spec.Tires,
		color:    color,
		brand:    brand,
		model:    model,
		year:     time.Now().Year(),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidArgument)
	}

	v.id = uuid.New()
	return v, nil
}

// NewOfKind creates a vehicle using the default tank capacity of its kind
func NewOfKind(kind Kind, color, brand, model string, opts ...Option) (*Vehicle, error) {
	spec, ok := kind.Spec()
	if !ok {
		return nil, fmt.Errorf("%w: unknown vehicle kind %q", ErrInvalidArgument, kind)
	}
	return New(kind, color, brand, model, spec.DefaultCapacity, opts...)
}

// ID returns the vehicle identifier
func (v *Vehicle) ID() uuid.UUID { return v.id }

// Kind returns the vehicle kind
func (v *Vehicle) Kind() Kind { return v.kind }

// Tires returns the tire count determined by the kind
func (v *Vehicle) Tires() int { return v.tires }

// Color returns the vehicle color
func (v *Vehicle) Color() string { return v.color }

// Brand returns the manufacturer
func (v *Vehicle) Brand() string { return v.brand }

// Model returns the model name
func (v *Vehicle) Model() string { return v.model }

// Year returns the model year
func (v *Vehicle) Year() int { return v.year }

// FuelCapacity returns the tank size
func (v *Vehicle) FuelCapacity() float64 { return v.capacity }

// AddFuel pumps one FuelIncrement into the tank, never past capacity
func (v *Vehicle) AddFuel() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fuel >= v.capacity {
		return &FuelError{Kind: TankFull}
	}

	fuel := math.Round((v.fuel+FuelIncrement)*fuelPrecision) / fuelPrecision
	if fuel > v.capacity {
		fuel = v.capacity
	}
	v.fuel = fuel
	return nil
}

// StartEngine turns the engine on.
// A running engine is reported before an empty tank.
func (v *Vehicle) StartEngine() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.engineOn {
		return &EngineError{Kind: AlreadyRunning}
	}
	if v.needsFuel() {
		return &FuelError{Kind: InsufficientFuel}
	}

	v.engineOn = true
	return nil
}

// StopEngine turns the engine off
func (v *Vehicle) StopEngine() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.engineOn {
		return &EngineError{Kind: AlreadyStopped}
	}

	v.engineOn = false
	return nil
}

// NeedsFuel reports whether the tank is below the level needed to start
func (v *Vehicle) NeedsFuel() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.needsFuel()
}

// IsEngineOn reports whether the engine is running
func (v *Vehicle) IsEngineOn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engineOn
}

// FuelLevel returns the current amount of fuel in the tank
func (v *Vehicle) FuelLevel() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fuel
}

// Snapshot returns all attributes and runtime state read under a single lock
func (v *Vehicle) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		ID:           v.id,
		Kind:         v.kind,
		Tires:        v.tires,
		Color:        v.color,
		Brand:        v.brand,
		Model:        v.model,
		Year:         v.year,
		FuelCapacity: v.capacity,
		FuelLevel:    v.fuel,
		EngineOn:     v.engineOn,
		NeedsFuel:    v.needsFuel(),
	}
}

// String implements fmt.Stringer
func (v *Vehicle) String() string {
	return fmt.Sprintf("%s %s %s (%s)", v.color, v.brand, v.model, v.id)
}

func (v *Vehicle) needsFuel() bool {
	return v.fuel < MinimumFuelToStart
}
