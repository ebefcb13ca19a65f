package engine

import (
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

func createTestMap(t *testing.T) *terrain.Map {
	t.Helper()
	layout, err := terrain.ParseLayout([]string{
		"~~~~~",
		"~...~",
		"~.#.~",
		"~...~",
		"~~~~~",
	})
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}
	m, err := terrain.New("Test Isle", layout, map[string]string{
		"start":   "2,2",
		"welcome": "Welcome to the isle!",
	})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}
	return m
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if engine.GetPlayerPosition() != (Position{X: 2, Y: 2}) {
		t.Errorf("Expected player at 2,2, got %v", engine.GetPlayerPosition())
	}
	state := engine.GetState()
	if state.Message != "Welcome to the isle!" {
		t.Errorf("Expected welcome message from metadata, got %q", state.Message)
	}
	if state.Terrain != "town" {
		t.Errorf("Expected player to stand on town, got %s", state.Terrain)
	}
	if state.MapName != "Test Isle" {
		t.Errorf("Expected map name Test Isle, got %s", state.MapName)
	}
	if len(state.LocalView) != 8 {
		t.Errorf("Expected 8 neighbours, got %d", len(state.LocalView))
	}
}

func TestNewEngine_NilMap(t *testing.T) {
	if _, err := NewEngine(nil); err == nil {
		t.Error("Expected error for nil map")
	}
}

func TestNewEngine_DefaultWelcomeAndStart(t *testing.T) {
	m, err := terrain.New("Plain", [][]terrain.TerrainType{{terrain.Grass}}, map[string]string{})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}
	engine, err := NewEngine(m)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if engine.GetState().Message != "Welcome to Plain!" {
		t.Errorf("Unexpected welcome %q", engine.GetState().Message)
	}
	if engine.GetPlayerPosition() != terrain.DefaultStart {
		t.Errorf("Expected default start, got %v", engine.GetPlayerPosition())
	}
	if engine.GetState().Terrain != "empty" {
		t.Errorf("Expected empty terrain outside the map, got %s", engine.GetState().Terrain)
	}
}

func TestEngine_DoesNotShareMap(t *testing.T) {
	m := createTestMap(t)
	engine, err := NewEngine(m)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if _, err := engine.Terraform(0, 0, terrain.Road); err != nil {
		t.Fatalf("Terraform failed: %v", err)
	}
	if m.TerrainAt(0, 0) != terrain.Water {
		t.Error("Engine should explore its own copy of the map")
	}
}

func TestMoveAndHistory(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if !engine.Move("up") {
		t.Fatalf("Expected move up to succeed: %s", engine.GetState().Message)
	}
	if engine.GetPlayerPosition() != (Position{X: 2, Y: 1}) {
		t.Errorf("Expected player at 2,1, got %v", engine.GetPlayerPosition())
	}
	if engine.Move("sideways") {
		t.Error("Unknown direction should fail")
	}

	history := engine.GetMoveHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if !history[0].Success || history[1].Success {
		t.Errorf("Unexpected success flags %v %v", history[0].Success, history[1].Success)
	}
	if history[0].Terrain != "grass" {
		t.Errorf("Expected grass after first move, got %s", history[0].Terrain)
	}
	last := engine.GetLastMove()
	if last == nil || last.MoveNumber != 2 {
		t.Errorf("Expected last move number 2, got %+v", last)
	}
}

func TestMove_WorldEdge(t *testing.T) {
	m, err := terrain.New("Edge", [][]terrain.TerrainType{{terrain.Grass, terrain.Grass}}, map[string]string{"start": "0,0"})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}
	engine, err := NewEngine(m)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if engine.Move("left") || engine.Move("up") {
		t.Error("Moving to negative coordinates should fail")
	}
	if !strings.Contains(engine.GetState().Message, "world ends") {
		t.Errorf("Unexpected message %q", engine.GetState().Message)
	}

	// the default policy lets the player leave the drawn map
	if !engine.Move("down") {
		t.Error("Expected move past the bottom edge to succeed")
	}
	if engine.GetState().Terrain != "empty" {
		t.Errorf("Expected empty terrain past the edge, got %s", engine.GetState().Terrain)
	}
}

func TestMovePolicy(t *testing.T) {
	noWater := terrain.MovePolicyFunc(func(m *terrain.Map, x, y int) bool {
		return m.TerrainAt(x, y) != terrain.Water
	})
	engine, err := NewEngine(createTestMap(t), WithMovePolicy(noWater))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if !engine.Move("up") {
		t.Fatal("Expected move onto grass to succeed")
	}
	if engine.Move("up") {
		t.Error("Expected water to block the move")
	}
	if !strings.Contains(engine.GetState().Message, "water") {
		t.Errorf("Expected blocking terrain in message, got %q", engine.GetState().Message)
	}

	moves := engine.GetPossibleMoves()
	if len(moves) != 3 {
		t.Errorf("Expected 3 possible moves, got %v", moves)
	}
}

func TestBulkMove(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	results := engine.BulkMove([]string{"left", "left", "bogus", "down"})
	expected := []bool{true, true, false, true}
	for i, want := range expected {
		if results[i] != want {
			t.Errorf("Move %d: expected %v, got %v", i, want, results[i])
		}
	}
	if engine.GetPlayerPosition() != (Position{X: 0, Y: 3}) {
		t.Errorf("Expected player at 0,3, got %v", engine.GetPlayerPosition())
	}
}

func TestReset(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	engine.Move("right")
	if _, err := engine.Terraform(7, 7, terrain.Cave); err != nil {
		t.Fatalf("Terraform failed: %v", err)
	}

	state := engine.Reset()
	if state.PlayerPos != (Position{X: 2, Y: 2}) {
		t.Errorf("Expected player back at start, got %v", state.PlayerPos)
	}
	if state.Map.Width() != 5 || state.Map.Height() != 5 {
		t.Errorf("Expected pristine 5x5 map, got %dx%d", state.Map.Width(), state.Map.Height())
	}
	if state.TotalMoves != 1 || len(state.MoveHistory) != 1 {
		t.Errorf("Cumulative history should survive reset, got %d", state.TotalMoves)
	}
	if state.CurrentMovesCount != 0 || len(state.CurrentMoves) != 0 {
		t.Errorf("Current moves should be cleared, got %d", state.CurrentMovesCount)
	}
}

func TestTerraform(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	changed, err := engine.Terraform(2, 1, terrain.Road)
	if err != nil || !changed {
		t.Fatalf("Expected terraform to change the map: %v", err)
	}
	changed, err = engine.Terraform(2, 1, terrain.Road)
	if err != nil || changed {
		t.Errorf("Second identical terraform should not change the map: %v", err)
	}

	if _, err := engine.Terraform(9, 6, terrain.Bridge); err != nil {
		t.Fatalf("Terraform failed: %v", err)
	}
	if engine.GetMap().Width() != 10 || engine.GetMap().Height() != 7 {
		t.Errorf("Expected map to grow to 10x7, got %dx%d", engine.GetMap().Width(), engine.GetMap().Height())
	}

	if _, err := engine.Terraform(-1, 0, terrain.Road); err == nil {
		t.Error("Expected error for negative coordinate")
	}
}

func TestView(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	view := engine.View(3, 3)
	if view != "...\n.@.\n..." {
		t.Errorf("Unexpected 3x3 view %q", view)
	}

	// The window reaches past the map and shows empty land there.
	wide := engine.View(7, 1)
	if wide != " ~.@.~ " {
		t.Errorf("Unexpected wide view %q", wide)
	}

	if engine.View(0, 3) != "" {
		t.Error("Expected empty view for zero width")
	}

	local := engine.GetState().LocalView3x3
	if len(local) != 3 || local[1] != ".@." {
		t.Errorf("Unexpected local view %q", local)
	}
}

func TestSetState(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if err := engine.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}
	if err := engine.SetState(&GameState{}); err == nil {
		t.Error("Expected error for state without map")
	}

	other := InitGameState(createTestMap(t))
	other.PlayerPos = Position{X: 1, Y: 1}
	if err := engine.SetState(other); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if engine.GetState().Terrain != "grass" {
		t.Errorf("Expected derived terrain to be refreshed, got %s", engine.GetState().Terrain)
	}
}

func TestSnapshot(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	engine.Move("left")

	snap := engine.GetState().Snapshot()
	engine.Move("up")
	if _, err := engine.Terraform(9, 9, terrain.Cave); err != nil {
		t.Fatalf("Terraform failed: %v", err)
	}

	if snap.PlayerPos != (Position{X: 1, Y: 2}) {
		t.Errorf("Snapshot position changed to %v", snap.PlayerPos)
	}
	if len(snap.MoveHistory) != 1 {
		t.Errorf("Snapshot history changed to %d entries", len(snap.MoveHistory))
	}
	if snap.Map.Width() != 5 {
		t.Errorf("Snapshot map grew to width %d", snap.Map.Width())
	}
}

func TestNextPositionAndCanMoveTo(t *testing.T) {
	engine, err := NewEngine(createTestMap(t))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	pos, ok := engine.NextPosition("right")
	if !ok || pos != (Position{X: 3, Y: 2}) {
		t.Errorf("Expected 3,2, got %v (%v)", pos, ok)
	}
	if engine.GetPlayerPosition() != (Position{X: 2, Y: 2}) {
		t.Error("NextPosition should not move the player")
	}
	if _, ok := engine.NextPosition("north"); ok {
		t.Error("Expected unknown direction to be rejected")
	}
	if engine.CanMoveTo(-1, 0) {
		t.Error("Expected negative coordinates to be refused")
	}
	if !engine.CanMoveTo(40, 40) {
		t.Error("Expected default policy to allow uncharted land")
	}
}
