package maps

import (
	"fmt"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// MaxMapSize bounds the width and height of catalogue maps. Sessions may
// still grow their own copy past it.
const MaxMapSize = 512

// ValidateMap checks that a map can be used to start a session
func ValidateMap(m *terrain.Map) error {
	if m == nil {
		return fmt.Errorf("map is nil")
	}
	if m.Name() == "" {
		return fmt.Errorf("map name is required")
	}
	if m.Width() < 1 || m.Width() > MaxMapSize {
		return fmt.Errorf("width must be between 1 and %d, got %d", MaxMapSize, m.Width())
	}
	if m.Height() < 1 || m.Height() > MaxMapSize {
		return fmt.Errorf("height must be between 1 and %d, got %d", MaxMapSize, m.Height())
	}
	start := m.StartingCoordinate()
	if !m.InBounds(start.X, start.Y) {
		return fmt.Errorf("starting coordinate %s is outside the %dx%d map", start, m.Width(), m.Height())
	}
	return nil
}
