package terrain

import (
	"fmt"
	"regexp"
	"strconv"
)

// StartMeta is the metadata key holding a starting coordinate in the form X,Y.
const StartMeta = "start"

// DefaultStart is used when a map has no usable start metadata.
var DefaultStart = Coordinate{X: 9, Y: 9}

var coordinatePattern = regexp.MustCompile(`(\d+)\s*,\s*(\d+)`)

// Coordinate is a zero-based map position. X grows rightward, Y downward.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the coordinate as X,Y.
func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// ParseCoordinate finds the first X,Y pair in s. Whitespace around the comma
// is allowed. The second result is false when no pair is found.
func ParseCoordinate(s string) (Coordinate, bool) {
	m := coordinatePattern.FindStringSubmatch(s)
	if m == nil {
		return Coordinate{}, false
	}
	x, err := strconv.Atoi(m[1])
	if err != nil {
		return Coordinate{}, false
	}
	y, err := strconv.Atoi(m[2])
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{X: x, Y: y}, true
}
