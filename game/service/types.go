package service

import (
	"time"

	"github.com/wricardo/mcp-training/textquest/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	MapID          string            `json:"map_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_edge|blocked_terrain|invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
	LocalView3x3  []string `json:"local_view_3x3,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx      int             `json:"idx"`
	Dir      string          `json:"dir"`
	From     engine.Position `json:"from"`
	To       engine.Position `json:"to"`
	TileChar string          `json:"tile_char"`
	TileType string          `json:"tile_type"`
	OnMap    bool            `json:"on_map"`
	Success  bool            `json:"success"`
}

// AttemptInfo details the first failed target cell attempted
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	TileChar string `json:"tile_char"`
	TileType string `json:"tile_type"`
	Passable bool   `json:"passable"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "explore", "terraform", "grow", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ViewOptions selects the window rendered around the player. Zero sizes use
// engine.DefaultViewSize. Full renders the whole map instead.
type ViewOptions struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Full   bool `json:"full"`
}

// ViewResult is a rendered window of a session's map
type ViewResult struct {
	SessionID string          `json:"session_id"`
	Origin    engine.Position `json:"origin"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	PlayerPos engine.Position `json:"player_pos"`
	MapWidth  int             `json:"map_width"`
	MapHeight int             `json:"map_height"`
	View      string          `json:"view"`
	Rows      []string        `json:"rows"`
}

// TerraformResult reports a terrain change
type TerraformResult struct {
	Changed   bool              `json:"changed"`
	Grew      bool              `json:"grew"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Terrain   string            `json:"terrain"`
	MapWidth  int               `json:"map_width"`
	MapHeight int               `json:"map_height"`
	GameState *engine.GameState `json:"game_state"`
}

// CellInfo describes one coordinate of a session's map
type CellInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Key      string `json:"key"`
	Type     string `json:"type"`
	InBounds bool   `json:"in_bounds"`
	Passable bool   `json:"passable"`
	IsPlayer bool   `json:"is_player"`
}

// MapInfo provides information about a map in the catalogue
type MapInfo struct {
	Filename    string          `json:"filename"`
	MapID       string          `json:"map_id"` // The identifier to use for session creation
	Name        string          `json:"name"`   // Display name
	Description string          `json:"description"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Start       engine.Position `json:"start"`
}
