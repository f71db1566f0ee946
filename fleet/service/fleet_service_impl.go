package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

// fleetServiceImpl implements the FleetService interface
type fleetServiceImpl struct {
	vehicles VehicleStore
	presets  PresetCatalog
	logger   zerolog.Logger
	metrics  *serviceMetrics
}

// NewFleetService creates a new fleet service instance
func NewFleetService(vehicles VehicleStore, presets PresetCatalog, logger zerolog.Logger) (FleetService, error) {
	if vehicles == nil {
		return nil, fmt.Errorf("%w: vehicle store is required", ErrInvalidArgument)
	}
	if presets == nil {
		return nil, fmt.Errorf("%w: preset catalog is required", ErrInvalidArgument)
	}

	metrics, err := newServiceMetrics(vehicles)
	if err != nil {
		return nil, err
	}

	return &fleetServiceImpl{
		vehicles: vehicles,
		presets:  presets,
		logger:   logger.With().Str("component", "fleet").Logger(),
		metrics:  metrics,
	}, nil
}

// CreateVehicle builds a vehicle from explicit attributes and registers it
func (s *fleetServiceImpl) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleInfo, error) {
	v, err := buildVehicle(req)
	if err != nil {
		s.metrics.record(ctx, "create", err)
		s.logger.Warn().Err(err).Str("brand", req.Brand).Str("model", req.Model).Msg("vehicle rejected")
		return nil, err
	}
	return s.register(ctx, "create", v)
}

// AddPreset builds a vehicle from a catalog preset and registers it
func (s *fleetServiceImpl) AddPreset(ctx context.Context, presetID string) (*VehicleInfo, error) {
	preset, err := s.presets.Get(presetID)
	if err != nil {
		s.metrics.record(ctx, "add_preset", err)
		return nil, fmt.Errorf("%w: %s", err, presetID)
	}

	v, err := preset.Build()
	if err != nil {
		s.metrics.record(ctx, "add_preset", err)
		return nil, fmt.Errorf("failed to build preset %s: %w", preset.ID, err)
	}
	return s.register(ctx, "add_preset", v)
}

// GetVehicle returns the current state of one vehicle
func (s *fleetServiceImpl) GetVehicle(ctx context.Context, vehicleID string) (*VehicleInfo, error) {
	v, err := s.lookup(vehicleID)
	if err != nil {
		s.metrics.record(ctx, "get", err)
		return nil, err
	}
	return newVehicleInfo(v), nil
}

// ListVehicles returns every vehicle in registration order
func (s *fleetServiceImpl) ListVehicles(ctx context.Context) ([]*VehicleInfo, error) {
	vehicles := s.vehicles.List()
	result := make([]*VehicleInfo, 0, len(vehicles))
	for _, v := range vehicles {
		result = append(result, newVehicleInfo(v))
	}
	return result, nil
}

// StartEngine starts the engine of a vehicle
func (s *fleetServiceImpl) StartEngine(ctx context.Context, vehicleID string) (*VehicleInfo, error) {
	return s.mutate(ctx, "start_engine", vehicleID, (*vehicle.Vehicle).StartEngine)
}

// StopEngine stops the engine of a vehicle
func (s *fleetServiceImpl) StopEngine(ctx context.Context, vehicleID string) (*VehicleInfo, error) {
	return s.mutate(ctx, "stop_engine", vehicleID, (*vehicle.Vehicle).StopEngine)
}

// AddFuel pumps one fuel increment into a vehicle
func (s *fleetServiceImpl) AddFuel(ctx context.Context, vehicleID string) (*VehicleInfo, error) {
	return s.mutate(ctx, "add_fuel", vehicleID, (*vehicle.Vehicle).AddFuel)
}

// NeedsFuel reports whether a vehicle is below the start threshold
func (s *fleetServiceImpl) NeedsFuel(ctx context.Context, vehicleID string) (bool, error) {
	v, err := s.lookup(vehicleID)
	if err != nil {
		s.metrics.record(ctx, "needs_fuel", err)
		return false, err
	}
	return v.NeedsFuel(), nil
}

// IsEngineOn reports whether a vehicle's engine is running
func (s *fleetServiceImpl) IsEngineOn(ctx context.Context, vehicleID string) (bool, error) {
	v, err := s.lookup(vehicleID)
	if err != nil {
		s.metrics.record(ctx, "is_engine_on", err)
		return false, err
	}
	return v.IsEngineOn(), nil
}

// ListPresets returns the catalog presets
func (s *fleetServiceImpl) ListPresets(ctx context.Context) ([]*catalog.Preset, error) {
	return s.presets.List(), nil
}

// register adds a freshly built vehicle to the store
func (s *fleetServiceImpl) register(ctx context.Context, operation string, v *vehicle.Vehicle) (*VehicleInfo, error) {
	if err := s.vehicles.Add(v); err != nil {
		s.metrics.record(ctx, operation, err)
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}

	s.metrics.record(ctx, operation, nil)
	s.logger.Info().
		Str("vehicle_id", v.ID().String()).
		Str("kind", string(v.Kind())).
		Str("brand", v.Brand()).
		Str("model", v.Model()).
		Msg("vehicle registered")

	return newVehicleInfo(v), nil
}

// mutate resolves a vehicle and applies one state-machine operation to it.
// Rejections are returned unchanged so callers can match them.
func (s *fleetServiceImpl) mutate(ctx context.Context, operation, vehicleID string, op func(*vehicle.Vehicle) error) (*VehicleInfo, error) {
	v, err := s.lookup(vehicleID)
	if err != nil {
		s.metrics.record(ctx, operation, err)
		return nil, err
	}

	if err := op(v); err != nil {
		s.metrics.record(ctx, operation, err)
		s.logger.Warn().
			Str("vehicle_id", v.ID().String()).
			Str("operation", operation).
			Err(err).
			Msg("vehicle operation rejected")
		return nil, err
	}

	s.metrics.record(ctx, operation, nil)
	info := newVehicleInfo(v)
	s.logger.Info().
		Str("vehicle_id", v.ID().String()).
		Str("operation", operation).
		Float64("fuel_level", info.FuelLevel).
		Bool("engine_on", info.EngineOn).
		Msg("vehicle operation applied")

	return info, nil
}

// lookup parses a vehicle identifier and resolves it in the store
func (s *fleetServiceImpl) lookup(vehicleID string) (*vehicle.Vehicle, error) {
	id, err := ParseVehicleID(vehicleID)
	if err != nil {
		return nil, err
	}

	v, ok := s.vehicles.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// ParseVehicleID converts the canonical string form of an identifier
func ParseVehicleID(vehicleID string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(vehicleID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed vehicle id %q", ErrInvalidArgument, vehicleID)
	}
	return id, nil
}

// buildVehicle validates a create request and constructs the vehicle
func buildVehicle(req CreateVehicleRequest) (*vehicle.Vehicle, error) {
	kind := vehicle.Car
	if strings.TrimSpace(req.Kind) != "" {
		parsed, err := vehicle.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		kind = parsed
	}

	if req.FuelCapacity < 0 {
		return nil, fmt.Errorf("%w: fuel capacity must be a positive value", ErrInvalidArgument)
	}

	var opts []vehicle.Option
	if req.Year != 0 {
		opts = append(opts, vehicle.WithYear(req.Year))
	}

	if req.FuelCapacity == 0 {
		return vehicle.NewOfKind(kind, req.Color, req.Brand, req.Model, opts...)
	}
	return vehicle.New(kind, req.Color, req.Brand, req.Model, req.FuelCapacity, opts...)
}
