package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

// Preset describes a vehicle that can be built by name
type Preset struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Kind         vehicle.Kind `json:"kind"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Color        string       `json:"color,omitempty"`
	FuelCapacity float64      `json:"fuel_capacity,omitempty"` // zero uses the kind default
	Year         int          `json:"year,omitempty"`          // zero uses the current year
}

// Validate checks the preset can produce a vehicle
func (p *Preset) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: preset cannot be nil", ErrInvalidPreset)
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPreset)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPreset, p.Kind)
	}
	if strings.TrimSpace(p.Brand) == "" {
		return fmt.Errorf("%w: brand is required", ErrInvalidPreset)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidPreset)
	}
	if p.FuelCapacity < 0 {
		return fmt.Errorf("%w: fuel_capacity cannot be negative", ErrInvalidPreset)
	}
	if p.Year < 0 {
		return fmt.Errorf("%w: year cannot be negative", ErrInvalidPreset)
	}
	return nil
}

// Build creates a new vehicle from the preset
func (p *Preset) Build() (*vehicle.Vehicle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var opts []vehicle.Option
	if p.Year > 0 {
		opts = append(opts, vehicle.WithYear(p.Year))
	}

	if p.FuelCapacity > 0 {
		return vehicle.New(p.Kind, p.Color, p.Brand, p.Model, p.FuelCapacity, opts...)
	}
	return vehicle.NewOfKind(p.Kind, p.Color, p.Brand, p.Model, opts...)
}

// LoadFile reads and validates a preset JSON file.
// The ID is taken from the file name.
func LoadFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	preset.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	if preset.Name == "" {
		preset.Name = preset.Brand + " " + preset.Model
	}

	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return &preset, nil
}

// builtinPresets mirrors the vehicles the garage always offers
func builtinPresets() []*Preset {
	return []*Preset{
		{
			ID:          "explorer",
			Name:        "Ford Explorer",
			Description: "Black Ford Explorer",
			Kind:        vehicle.Car,
			Brand:       "Ford",
			Model:       "Explorer",
			Color:       "Black",
		},
		{
			ID:          "mustang",
			Name:        "Ford Mustang",
			Description: "Red Ford Mustang",
			Kind:        vehicle.Car,
			Brand:       "Ford",
			Model:       "Mustang",
			Color:       "Red",
		},
	}
}
