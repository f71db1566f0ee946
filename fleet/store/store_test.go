package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

func newTestVehicle(t *testing.T, model string) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewOfKind(vehicle.Car, "Red", "Ford", model)
	require.NoError(t, err)
	return v
}

func TestStore_Add(t *testing.T) {
	s := New()

	t.Run("registers vehicle", func(t *testing.T) {
		v := newTestVehicle(t, "Mustang")
		require.NoError(t, s.Add(v))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("nil vehicle", func(t *testing.T) {
		err := s.Add(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("same vehicle twice", func(t *testing.T) {
		v := newTestVehicle(t, "Explorer")
		require.NoError(t, s.Add(v))
		assert.ErrorIs(t, s.Add(v), ErrAlreadyExists)
		assert.Equal(t, 2, s.Len())
	})
}

func TestStore_Find(t *testing.T) {
	s := New()
	v := newTestVehicle(t, "Mustang")
	require.NoError(t, s.Add(v))

	t.Run("existing", func(t *testing.T) {
		found, ok := s.Find(v.ID())
		require.True(t, ok)
		assert.Same(t, v, found)
	})

	t.Run("unknown id", func(t *testing.T) {
		found, ok := s.Find(uuid.New())
		assert.False(t, ok)
		assert.Nil(t, found)
	})

	t.Run("nil id", func(t *testing.T) {
		_, ok := s.Find(uuid.Nil)
		assert.False(t, ok)
	})

	t.Run("mutations are visible through later lookups", func(t *testing.T) {
		require.NoError(t, v.AddFuel())
		require.NoError(t, v.StartEngine())

		found, ok := s.Find(v.ID())
		require.True(t, ok)
		assert.True(t, found.IsEngineOn())
	})
}

func TestStore_List(t *testing.T) {
	s := New()
	assert.Empty(t, s.List())

	models := []string{"Mustang", "Explorer", "Bronco", "Ranger"}
	var added []*vehicle.Vehicle
	for _, m := range models {
		v := newTestVehicle(t, m)
		require.NoError(t, s.Add(v))
		added = append(added, v)
	}

	list := s.List()
	require.Len(t, list, len(models))
	for i := range added {
		assert.Same(t, added[i], list[i], "position %d", i)
	}

	// the returned slice is a copy
	list[0] = nil
	assert.NotNil(t, s.List()[0])
}

func TestStore_ConcurrentAdd(t *testing.T) {
	const callers = 64
	s := New()

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := vehicle.NewOfKind(vehicle.Motorcycle, "", "Honda", "CB500")
			if err != nil {
				t.Errorf("create vehicle: %v", err)
				return
			}
			if err := s.Add(v); err != nil {
				t.Errorf("add vehicle: %v", err)
				return
			}
			ids <- v.ID()
			// readers interleave with writers
			_ = s.List()
			_, _ = s.Find(v.ID())
		}()
	}
	wg.Wait()
	close(ids)

	list := s.List()
	require.Len(t, list, callers)

	seen := make(map[uuid.UUID]bool, callers)
	for _, v := range list {
		assert.False(t, seen[v.ID()], "duplicate %s", v.ID())
		seen[v.ID()] = true
	}
	for id := range ids {
		assert.True(t, seen[id], "missing %s", id)
	}
}
