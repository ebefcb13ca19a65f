package engine

import (
	"slices"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

const (
	// Validation constants
	MaxBulkMoves    = 50
	DefaultViewSize = 11
	MaxViewSize     = 99

	// MaxMapSide bounds how far terraforming may grow a session's map
	MaxMapSide = 4096

	// PlayerKey marks the player in rendered views.
	PlayerKey = '@'

	// WelcomeMeta is the metadata key holding a map's welcome message.
	WelcomeMeta = "welcome"
)

// Position represents x,y coordinates
type Position = terrain.Coordinate

// SurroundingCell represents a neighbouring cell with its absolute position
type SurroundingCell struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Type    string `json:"type"`
	Key     string `json:"key"`
	Present bool   `json:"present"`
}

// GameState represents the complete game state
type GameState struct {
	Map         *terrain.Map       `json:"map"`
	MapName     string             `json:"map_name"`
	PlayerPos   Position           `json:"player_pos"`
	Terrain     string             `json:"terrain"`
	Message     string             `json:"message"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
	LocalView   []SurroundingCell  `json:"local_view,omitempty"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper view (not required for core game logic)
	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Terrain      string   `json:"terrain"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

// Snapshot returns a deep copy of the state that stays valid while the
// engine keeps playing.
func (gs *GameState) Snapshot() *GameState {
	cp := *gs
	if gs.Map != nil {
		cp.Map = gs.Map.Clone()
	}
	cp.MoveHistory = slices.Clone(gs.MoveHistory)
	cp.CurrentMoves = slices.Clone(gs.CurrentMoves)
	cp.LocalView = slices.Clone(gs.LocalView)
	cp.LocalView3x3 = slices.Clone(gs.LocalView3x3)
	return &cp
}
