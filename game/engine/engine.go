package engine

import (
	"fmt"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetPlayerPosition() Position

	// Movement operations
	Move(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Map
	GetMap() *terrain.Map
	Terraform(x, y int, t terrain.TerrainType) (bool, error)
	View(width, height int) string

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []SurroundingCell
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	origin *terrain.Map
	policy terrain.MovePolicy
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithMovePolicy replaces the default policy, which allows every move.
func WithMovePolicy(p terrain.MovePolicy) Option {
	return func(e *GameEngine) {
		if p != nil {
			e.policy = p
		}
	}
}

// NewEngine creates a new game engine exploring a copy of m
func NewEngine(m *terrain.Map, opts ...Option) (*GameEngine, error) {
	if m == nil {
		return nil, fmt.Errorf("map cannot be nil")
	}

	engine := &GameEngine{
		origin: m.Clone(),
		policy: terrain.AllowAll,
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.state = InitGameState(engine.origin.Clone())

	return engine, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Map == nil {
		return fmt.Errorf("state has no map")
	}
	e.state = state
	e.state.refresh()
	return nil
}

// Reset returns the player to the starting coordinate of the original map.
// Terrain changes made since are discarded.
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameState(e.origin.Clone())

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.PlayerPos
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(direction string) bool {
	prevPos := e.state.PlayerPos
	success := e.state.MovePlayer(direction, e.policy)

	e.state.AddMoveToHistory(direction, prevPos, e.state.PlayerPos, success)

	return success
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	newX, newY, ok := step(e.state.PlayerPos, direction)
	if !ok {
		return false
	}
	return e.state.CanMoveTo(newX, newY, e.policy)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetMap returns the map being explored
func (e *GameEngine) GetMap() *terrain.Map {
	return e.state.Map
}

// Terraform changes the terrain at (x, y), growing the map when needed.
func (e *GameEngine) Terraform(x, y int, t terrain.TerrainType) (bool, error) {
	changed, err := e.state.Map.ModifyAt(x, y, t)
	if err != nil {
		return false, err
	}
	if changed {
		e.state.Message = fmt.Sprintf("The land at (%d,%d) is now %s.", x, y, t)
		e.state.refresh()
	}
	return changed, nil
}

// View renders a width x height window centred on the player. The player is
// drawn as PlayerKey.
func (e *GameEngine) View(width, height int) string {
	return e.state.RenderView(width, height)
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// GetLocalView returns the local view around the player
func (e *GameEngine) GetLocalView() []SurroundingCell {
	return e.state.GenerateLocalView()
}

// BulkMove executes multiple moves in sequence, returning success status for each
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))
	for _, direction := range moves {
		results = append(results, e.Move(direction))
	}
	return results
}

// InitGameState creates a new game state with the player at the map's
// starting coordinate
func InitGameState(m *terrain.Map) *GameState {
	welcome, ok := m.Meta(WelcomeMeta)
	if !ok || welcome == "" {
		welcome = fmt.Sprintf("Welcome to %s!", m.Name())
	}

	state := &GameState{
		Map:               m,
		MapName:           m.Name(),
		PlayerPos:         m.StartingCoordinate(),
		Message:           welcome,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	state.refresh()
	return state
}

// NextPosition returns where a move in direction would lead, without moving.
func (e *GameEngine) NextPosition(direction string) (Position, bool) {
	x, y, ok := step(e.state.PlayerPos, direction)
	return Position{X: x, Y: y}, ok
}

// CanMoveTo reports whether the engine's policy lets the player stand on (x, y)
func (e *GameEngine) CanMoveTo(x, y int) bool {
	return e.state.CanMoveTo(x, y, e.policy)
}
