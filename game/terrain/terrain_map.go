package terrain

import (
	"errors"
	"fmt"
	"maps"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrRender          = errors.New("render failed")
)

// MaxCells bounds the area a map may grow to. A write that would grow the
// map past it fails with ErrInvalidArgument.
const MaxCells = 1 << 26

// Map is a named grid of terrain with attached metadata.
//
// Cells are stored in a flat row-major buffer of width*height. The grid grows
// when ModifyAt writes past its bounds; it never shrinks. A Map is not safe
// for concurrent use.
type Map struct {
	name     string
	metadata map[string]string

	// width and height change when ModifyAt grows the map. This happens when a
	// saved map is older (smaller) than the area the game has since expanded.
	width   int
	height  int
	terrain []TerrainType
}

// New creates a map from rows of terrain. The first row sets the width;
// shorter rows are padded with Empty and longer rows are cut to the width.
// It fails with ErrInvalidArgument if name is empty, terrain or metadata is
// nil, or terrain has no rows or an empty first row, and with
// ErrInvalidFormat if a kept cell is not a known terrain type.
func New(name string, terrain [][]TerrainType, metadata map[string]string) (*Map, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if terrain == nil {
		return nil, fmt.Errorf("%w: terrain is required", ErrInvalidArgument)
	}
	if metadata == nil {
		return nil, fmt.Errorf("%w: metadata is required", ErrInvalidArgument)
	}
	if len(terrain) < 1 || len(terrain[0]) < 1 {
		return nil, fmt.Errorf("%w: terrain must have at least one non-empty row", ErrInvalidArgument)
	}

	width, height := len(terrain[0]), len(terrain)
	if !fits(width, height) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidArgument, width, height, MaxCells)
	}
	cells := make([]TerrainType, width*height)
	for y, row := range terrain {
		n := copy(cells[y*width:(y+1)*width], row)
		for x, t := range row[:n] {
			if !t.Valid() {
				return nil, fmt.Errorf("%w: terrain type %d at (%d,%d)", ErrInvalidFormat, byte(t), x, y)
			}
		}
	}

	return &Map{
		name:     name,
		metadata: maps.Clone(metadata),
		width:    width,
		height:   height,
		terrain:  cells,
	}, nil
}

// Name returns the map name.
func (m *Map) Name() string {
	return m.name
}

// Width returns the current width.
func (m *Map) Width() int {
	return m.width
}

// Height returns the current height.
func (m *Map) Height() int {
	return m.height
}

// Metadata returns a copy of the map metadata.
func (m *Map) Metadata() map[string]string {
	return maps.Clone(m.metadata)
}

// Meta returns a single metadata value.
func (m *Map) Meta(key string) (string, bool) {
	v, ok := m.metadata[key]
	return v, ok
}

// InBounds reports whether (x, y) lies inside the current bounds.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// StartingCoordinate returns the "start" metadata coordinate, or DefaultStart
// if it is missing or cannot be parsed.
func (m *Map) StartingCoordinate() Coordinate {
	if start, ok := m.metadata[StartMeta]; ok {
		if c, ok := ParseCoordinate(start); ok {
			return c
		}
	}
	return DefaultStart
}

// TerrainAt returns the terrain at (x, y), or Empty if out of bounds.
func (m *Map) TerrainAt(x, y int) TerrainType {
	if !m.InBounds(x, y) {
		return Empty
	}
	return m.terrain[y*m.width+x]
}

// ModifyAt sets the terrain at (x, y) and reports whether it changed.
//
// Writing past the current bounds grows the map to cover (x, y). Growth
// allocates a new buffer and copies the old rows into its top-left corner,
// so it costs O(new width * new height). New cells are Empty. A write that
// grows the map always reports a change. Growth past MaxCells fails with
// ErrInvalidArgument and leaves m untouched.
func (m *Map) ModifyAt(x, y int, t TerrainType) (bool, error) {
	if x < 0 || y < 0 {
		return false, fmt.Errorf("%w: negative coordinate (%d,%d)", ErrInvalidArgument, x, y)
	}
	if !t.Valid() {
		return false, fmt.Errorf("%w: terrain type %d", ErrInvalidArgument, byte(t))
	}
	grew := x >= m.width || y >= m.height
	if grew {
		if x >= MaxCells || y >= MaxCells {
			return false, fmt.Errorf("%w: (%d,%d) is past the largest map", ErrInvalidArgument, x, y)
		}
		width, height := max(x+1, m.width), max(y+1, m.height)
		if !fits(width, height) {
			return false, fmt.Errorf("%w: growing to %dx%d exceeds %d cells", ErrInvalidArgument, width, height, MaxCells)
		}
		m.grow(width, height)
	}
	i := y*m.width + x
	if !grew && m.terrain[i] == t {
		return false, nil
	}
	m.terrain[i] = t
	return true, nil
}

// fits reports whether a width x height map stays within MaxCells. Both
// sides must be positive.
func fits(width, height int) bool {
	return width <= MaxCells/height
}

func (m *Map) grow(width, height int) {
	cells := make([]TerrainType, width*height)
	for row := 0; row < m.height; row++ {
		copy(cells[row*width:], m.terrain[row*m.width:(row+1)*m.width])
	}
	m.terrain = cells
	m.width = width
	m.height = height
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	return &Map{
		name:     m.name,
		metadata: maps.Clone(m.metadata),
		width:    m.width,
		height:   m.height,
		terrain:  append([]TerrainType(nil), m.terrain...),
	}
}

// Rows returns the terrain as a fresh 2D array.
func (m *Map) Rows() [][]TerrainType {
	rows := make([][]TerrainType, m.height)
	for y := range rows {
		rows[y] = append([]TerrainType(nil), m.terrain[y*m.width:(y+1)*m.width]...)
	}
	return rows
}

// Layout returns each row as a string of terrain keys.
func (m *Map) Layout() []string {
	rows := make([]string, m.height)
	buf := make([]byte, m.width)
	for y := range rows {
		for x := 0; x < m.width; x++ {
			buf[x] = m.terrain[y*m.width+x].Key()
		}
		rows[y] = string(buf)
	}
	return rows
}

// Count returns how many cells hold t.
func (m *Map) Count(t TerrainType) int {
	n := 0
	for _, c := range m.terrain {
		if c == t {
			n++
		}
	}
	return n
}

func (m *Map) String() string {
	return fmt.Sprintf("TerrainMap{width=%d, height=%d}", m.width, m.height)
}
