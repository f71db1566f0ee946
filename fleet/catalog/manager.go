package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Manager holds the built-in presets plus any loaded from disk
type Manager struct {
	presetsDir string
	presets    map[string]*Preset
	skipped    map[string]error
	mu         sync.RWMutex
}

// NewManager creates a catalog from the built-in presets and the JSON files in
// presetsDir. An empty presetsDir uses the built-in presets only.
func NewManager(presetsDir string) (*Manager, error) {
	if presetsDir != "" {
		if _, err := os.Stat(presetsDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("presets directory does not exist: %s", presetsDir)
		}
	}

	m := &Manager{presetsDir: presetsDir}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the preset with the given ID (case-insensitive)
func (m *Manager) Get(id string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	preset, ok := m.presets[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return preset, nil
}

// List returns all presets sorted by ID
func (m *Manager) List() []*Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Preset, 0, len(m.presets))
	for _, p := range m.presets {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Skipped returns the preset files that failed to load on the last reload, keyed by file name
func (m *Manager) Skipped() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]error, len(m.skipped))
	for name, err := range m.skipped {
		result[name] = err
	}
	return result
}

// Reload rebuilds the catalog from the built-in presets and the presets directory
func (m *Manager) Reload() error {
	presets := make(map[string]*Preset)
	for _, p := range builtinPresets() {
		presets[p.ID] = p
	}

	skipped := make(map[string]error)
	if m.presetsDir != "" {
		entries, err := os.ReadDir(m.presetsDir)
		if err != nil {
			return fmt.Errorf("failed to read presets directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}

			preset, err := LoadFile(filepath.Join(m.presetsDir, entry.Name()))
			if err != nil {
				// Invalid files are reported, not fatal
				skipped[entry.Name()] = err
				continue
			}
			preset.ID = strings.ToLower(preset.ID)
			presets[preset.ID] = preset
		}
	}

	m.mu.Lock()
	m.presets = presets
	m.skipped = skipped
	m.mu.Unlock()
	return nil
}
