package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// Directions lists the accepted move directions
var Directions = []string{"up", "down", "left", "right"}

// step returns the coordinate one move away from pos
func step(pos Position, direction string) (int, int, bool) {
	newX, newY := pos.X, pos.Y

	switch direction {
	case "up":
		newY--
	case "down":
		newY++
	case "left":
		newX--
	case "right":
		newX++
	default:
		return 0, 0, false
	}
	return newX, newY, true
}

// CanMoveTo checks if the player can move to the specified coordinates.
// The world has no negative coordinates; everything else is up to policy.
func (gs *GameState) CanMoveTo(x, y int, policy terrain.MovePolicy) bool {
	if x < 0 || y < 0 {
		return false
	}
	return policy.CanMoveTo(gs.Map, x, y)
}

// MovePlayer attempts to move the player in the specified direction
func (gs *GameState) MovePlayer(direction string, policy terrain.MovePolicy) bool {
	newX, newY, ok := step(gs.PlayerPos, direction)
	if !ok {
		gs.Message = fmt.Sprintf("Unknown direction %q", direction)
		return false
	}

	if !gs.CanMoveTo(newX, newY, policy) {
		if newX < 0 || newY < 0 {
			gs.Message = fmt.Sprintf("Can't move %s: the world ends at (%d,%d)", direction, gs.PlayerPos.X, gs.PlayerPos.Y)
		} else {
			gs.Message = fmt.Sprintf("Can't move %s: %s at (%d,%d) blocks the way",
				direction, gs.Map.TerrainAt(newX, newY), newX, newY)
		}
		return false
	}

	gs.PlayerPos.X = newX
	gs.PlayerPos.Y = newY

	if gs.Map.InBounds(newX, newY) {
		gs.Message = fmt.Sprintf("You walk %s onto %s at (%d,%d).", direction, gs.Map.TerrainAt(newX, newY), newX, newY)
	} else {
		gs.Message = fmt.Sprintf("You walk %s into uncharted land at (%d,%d).", direction, newX, newY)
	}

	gs.refresh()
	return true
}

// refresh recomputes the values derived from the map and player position
func (gs *GameState) refresh() {
	gs.MapName = gs.Map.Name()
	gs.Terrain = gs.Map.TerrainAt(gs.PlayerPos.X, gs.PlayerPos.Y).String()
	gs.LocalView = gs.GenerateLocalView()
	gs.LocalView3x3 = strings.Split(gs.RenderView(3, 3), "\n")
}

// GenerateLocalView lists the cells around the player that lie on the map
func (gs *GameState) GenerateLocalView() []SurroundingCell {
	var surroundings []SurroundingCell
	gs.Map.WalkSurrounding(gs.PlayerPos.X, gs.PlayerPos.Y, func(x, y int, t terrain.TerrainType, ok bool) {
		surroundings = append(surroundings, SurroundingCell{
			X:       x,
			Y:       y,
			Type:    t.String(),
			Key:     string(t.Key()),
			Present: ok,
		})
	})
	return surroundings
}

// RenderView renders a window centred on the player, marking the player with PlayerKey
func (gs *GameState) RenderView(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	x0 := gs.PlayerPos.X - width/2
	y0 := gs.PlayerPos.Y - height/2

	view := []byte(gs.Map.RenderQuadrant(x0, y0, width, height))
	row, col := gs.PlayerPos.Y-y0, gs.PlayerPos.X-x0
	view[row*(width+1)+col] = PlayerKey
	return string(view)
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(action string, fromPos, toPos Position, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Terrain:      gs.Terrain,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
