package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

var (
	ErrInvalidArgument = vehicle.ErrInvalidArgument
	ErrAlreadyExists   = errors.New("vehicle already registered")
)

// Store is the concurrency-safe registry of vehicles
type Store struct {
	vehicles map[uuid.UUID]*vehicle.Vehicle
	order    []*vehicle.Vehicle
	mu       sync.RWMutex
}

// New creates an empty store
func New() *Store {
	return &Store{
		vehicles: make(map[uuid.UUID]*vehicle.Vehicle),
	}
}

// Add registers a vehicle
func (s *Store) Add(v *vehicle.Vehicle) error {
	if v == nil {
		return fmt.Errorf("%w: vehicle cannot be nil", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vehicles[v.ID()]; exists {
		return ErrAlreadyExists
	}

	s.vehicles[v.ID()] = v
	s.order = append(s.order, v)
	return nil
}

// Find returns the vehicle with the given identifier
func (s *Store) Find(id uuid.UUID) (*vehicle.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	return v, ok
}

// List returns every vehicle in the order it was added.
// The returned slice is a copy; the vehicles themselves are shared.
func (s *Store) List() []*vehicle.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*vehicle.Vehicle, len(s.order))
	copy(result, s.order)
	return result
}

// Len returns the number of registered vehicles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
