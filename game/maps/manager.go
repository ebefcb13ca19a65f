package maps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/textquest/game/service"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

var (
	ErrMapNotFound = service.ErrMapNotFound
	ErrInvalidMap  = errors.New("invalid map")
)

// DefaultMapID is preferred as the default map when present
const DefaultMapID = "meadow"

// Manager handles map loading and caching. Maps handed out are clones, so
// callers may modify them freely.
type Manager struct {
	mapDir     string
	defaultID  string
	defaultMap *terrain.Map
	maps       map[string]*terrain.Map
	mu         sync.RWMutex
}

// NewManager creates a new map manager over mapDir
func NewManager(mapDir string) (*Manager, error) {
	if _, err := os.Stat(mapDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("map directory does not exist: %s", mapDir)
	}

	m := &Manager{
		mapDir: mapDir,
		maps:   make(map[string]*terrain.Map),
	}

	if err := m.loadDefaultMap(); err != nil {
		return nil, fmt.Errorf("failed to load default map: %w", err)
	}

	return m, nil
}

// LoadMap loads a map by ID. The ID is the file name with or without its
// .json or .hcl extension.
func (m *Manager) LoadMap(id string) (*terrain.Map, error) {
	id = mapID(id)
	if !validMapID(id) {
		return nil, fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}

	m.mu.RLock()
	if cached, exists := m.maps[id]; exists {
		m.mu.RUnlock()
		return cached.Clone(), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, exists := m.maps[id]; exists {
		return cached.Clone(), nil
	}

	loaded, err := m.readMap(id)
	if err != nil {
		return nil, err
	}

	m.maps[id] = loaded
	return loaded.Clone(), nil
}

func (m *Manager) readMap(id string) (*terrain.Map, error) {
	for _, ext := range Extensions {
		path := filepath.Join(m.mapDir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := ValidateMap(loaded); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMap, path, err)
		}
		return loaded, nil
	}
	return nil, ErrMapNotFound
}

// ListMaps returns information about all valid maps in the directory.
// Invalid files are skipped.
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var result []*service.MapInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !IsMapFile(entry.Name()) {
			continue
		}

		id := mapID(entry.Name())
		if seen[id] {
			continue
		}

		loaded, err := m.LoadMap(id)
		if err != nil {
			continue
		}
		seen[id] = true

		result = append(result, Info(entry.Name(), id, loaded))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].MapID < result[j].MapID })
	return result, nil
}

// Info summarises a map for listings
func Info(filename, id string, m *terrain.Map) *service.MapInfo {
	description, _ := m.Meta(DescriptionMeta)
	return &service.MapInfo{
		Filename:    filename,
		MapID:       id,
		Name:        m.Name(),
		Description: description,
		Width:       m.Width(),
		Height:      m.Height(),
		Start:       m.StartingCoordinate(),
	}
}

// GetDefault returns a copy of the default map
func (m *Manager) GetDefault() *terrain.Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultMap.Clone()
}

// DefaultID returns the ID of the default map
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default map by ID
func (m *Manager) SetDefault(id string) error {
	loaded, err := m.LoadMap(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = mapID(id)
	m.defaultMap = loaded
	return nil
}

// RefreshCache drops all cached maps and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.maps = make(map[string]*terrain.Map)
	m.mu.Unlock()

	return m.loadDefaultMap()
}

// loadDefaultMap picks meadow, else the first valid map, else a built-in one
func (m *Manager) loadDefaultMap() error {
	id := DefaultMapID
	loaded, err := m.LoadMap(id)
	if err != nil {
		infos, listErr := m.ListMaps()
		if listErr != nil || len(infos) == 0 {
			m.setDefault("default", MinimalMap())
			return nil
		}

		id = infos[0].MapID
		loaded, err = m.LoadMap(id)
		if err != nil {
			m.setDefault("default", MinimalMap())
			return nil
		}
	}

	m.setDefault(id, loaded)
	return nil
}

func (m *Manager) setDefault(id string, tm *terrain.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = id
	m.defaultMap = tm
}

// SaveMap validates m and writes it to <id>.json
func (m *Manager) SaveMap(id string, tm *terrain.Map) error {
	if err := ValidateMap(tm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	id = mapID(id)
	if !validMapID(id) {
		return fmt.Errorf("%w: bad map id %q", ErrInvalidMap, id)
	}

	data, err := json.MarshalIndent(tm, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	path := filepath.Join(m.mapDir, id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	m.mu.Lock()
	m.maps[id] = tm.Clone()
	m.mu.Unlock()

	return nil
}

// MinimalMap returns the map used when the directory holds no valid maps
func MinimalMap() *terrain.Map {
	layout, _ := terrain.ParseLayout([]string{
		"TTTTTTTTTTT",
		"T.........T",
		"T..~~~....T",
		"T..~~~..^.T",
		"T.........T",
		"T====#====T",
		"T.........T",
		"T..:::....T",
		"T.....O...T",
		"T.........T",
		"TTTTTTTTTTT",
	})
	tm, _ := terrain.New("default", layout, map[string]string{
		terrain.StartMeta: "5,5",
		DescriptionMeta:   "Default minimal map",
	})
	return tm
}

// validMapID accepts IDs that name a file directly inside the map directory
func validMapID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\:`+"\x00") && !strings.Contains(id, "..")
}

func mapID(name string) string {
	for _, ext := range Extensions {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
