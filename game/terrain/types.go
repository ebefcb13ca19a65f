package terrain

import (
	"fmt"
	"strings"
)

// TerrainType is a kind of terrain occupying one map cell.
// The zero value is Empty.
type TerrainType byte

const (
	Empty TerrainType = iota
	Grass
	Forest
	Water
	Mountain
	Road
	Town
	Sand
	Bridge
	Cave

	numTerrainTypes
)

// EmptyKey is the printable key of Empty, also used for cells outside the map.
const EmptyKey byte = ' '

var terrainKeys = [numTerrainTypes]byte{
	Empty:    EmptyKey,
	Grass:    '.',
	Forest:   'T',
	Water:    '~',
	Mountain: '^',
	Road:     '=',
	Town:     '#',
	Sand:     ':',
	Bridge:   'H',
	Cave:     'O',
}

var terrainNames = [numTerrainTypes]string{
	Empty:    "empty",
	Grass:    "grass",
	Forest:   "forest",
	Water:    "water",
	Mountain: "mountain",
	Road:     "road",
	Town:     "town",
	Sand:     "sand",
	Bridge:   "bridge",
	Cave:     "cave",
}

// byKey is the reverse of terrainKeys; unknown keys map to -1.
var byKey = func() [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for t, k := range terrainKeys {
		idx[k] = t
	}
	return idx
}()

// Types returns every terrain type in declaration order.
func Types() []TerrainType {
	types := make([]TerrainType, numTerrainTypes)
	for i := range types {
		types[i] = TerrainType(i)
	}
	return types
}

// Key returns the printable ASCII character for t.
func (t TerrainType) Key() byte {
	if t >= numTerrainTypes {
		return EmptyKey
	}
	return terrainKeys[t]
}

// String returns the lower-case name of t.
func (t TerrainType) String() string {
	if t >= numTerrainTypes {
		return fmt.Sprintf("TerrainType(%d)", byte(t))
	}
	return terrainNames[t]
}

// Valid reports whether t is one of the declared terrain types.
func (t TerrainType) Valid() bool {
	return t < numTerrainTypes
}

// ParseKey returns the terrain type whose key is b.
func ParseKey(b byte) (TerrainType, error) {
	if i := byKey[b]; i >= 0 {
		return TerrainType(i), nil
	}
	return Empty, fmt.Errorf("%w: unknown terrain key %q", ErrInvalidFormat, b)
}

// ParseName returns the terrain type with the given name (case-insensitive).
// A single character is also accepted as a key.
func ParseName(s string) (TerrainType, error) {
	if len(s) == 1 {
		if t, err := ParseKey(s[0]); err == nil {
			return t, nil
		}
	}
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range terrainNames {
		if n == name {
			return TerrainType(i), nil
		}
	}
	return Empty, fmt.Errorf("%w: unknown terrain %q", ErrInvalidFormat, s)
}

// ParseRow converts a row of keys into terrain types.
func ParseRow(s string) ([]TerrainType, error) {
	row := make([]TerrainType, len(s))
	for i := 0; i < len(s); i++ {
		t, err := ParseKey(s[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		row[i] = t
	}
	return row, nil
}

// ParseLayout converts rows of keys into a terrain array.
func ParseLayout(rows []string) ([][]TerrainType, error) {
	terrain := make([][]TerrainType, len(rows))
	for y, s := range rows {
		row, err := ParseRow(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		terrain[y] = row
	}
	return terrain, nil
}

// MarshalText encodes t as its one-character key.
func (t TerrainType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: terrain type %d", ErrInvalidFormat, byte(t))
	}
	return []byte{t.Key()}, nil
}

// UnmarshalText decodes a one-character key.
func (t *TerrainType) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w: terrain key must be one character, got %q", ErrInvalidFormat, text)
	}
	parsed, err := ParseKey(text[0])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
