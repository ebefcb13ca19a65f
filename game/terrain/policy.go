package terrain

// MovePolicy decides whether a player may enter a coordinate.
type MovePolicy interface {
	CanMoveTo(m *Map, x, y int) bool
}

// MovePolicyFunc adapts a function to MovePolicy.
type MovePolicyFunc func(m *Map, x, y int) bool

// CanMoveTo calls f(m, x, y).
func (f MovePolicyFunc) CanMoveTo(m *Map, x, y int) bool {
	return f(m, x, y)
}

// AllowAll permits every move. Terrain passability is not modeled yet.
var AllowAll MovePolicy = MovePolicyFunc(func(*Map, int, int) bool { return true })
