package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/textquest/game/engine"
	"github.com/wricardo/mcp-training/textquest/game/service"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
	saveErr  error
	getErr   error
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, mapID string, tm *terrain.Map) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(tm)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		MapID:          mapID,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, mapID string, tm *terrain.Map) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, mapID, tm)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	m.saves++
	return m.saveErr
}

// MockMapCatalog implements service.MapCatalog for testing
type MockMapCatalog struct {
	maps map[string]*terrain.Map
}

func NewMockMapCatalog(t *testing.T) *MockMapCatalog {
	return &MockMapCatalog{
		maps: map[string]*terrain.Map{
			"isle": createTestMap(t),
		},
	}
}

func (c *MockMapCatalog) LoadMap(id string) (*terrain.Map, error) {
	m, ok := c.maps[id]
	if !ok {
		return nil, service.ErrMapNotFound
	}
	return m.Clone(), nil
}

func (c *MockMapCatalog) ListMaps() ([]*service.MapInfo, error) {
	var result []*service.MapInfo
	for id, m := range c.maps {
		result = append(result, &service.MapInfo{MapID: id, Name: m.Name(), Width: m.Width(), Height: m.Height()})
	}
	return result, nil
}

func (c *MockMapCatalog) GetDefault() *terrain.Map {
	return c.maps["isle"].Clone()
}

func (c *MockMapCatalog) DefaultID() string {
	return "isle"
}

func (c *MockMapCatalog) SaveMap(id string, m *terrain.Map) error {
	c.maps[id] = m.Clone()
	return nil
}

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
	m, err := terrain.New("Test Isle", layout, map[string]string{"start": "2,2"})
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}
	return m
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockMapCatalog(t)), sessions
}

func createSession(t *testing.T, svc service.GameService) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), "isle")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("named map", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "isle")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.MapID != "isle" {
			t.Errorf("Expected map ID isle, got %s", info.MapID)
		}
		if info.GameState.PlayerPos != (engine.Position{X: 2, Y: 2}) {
			t.Errorf("Expected player at 2,2, got %v", info.GameState.PlayerPos)
		}
	})

	t.Run("default map", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.MapID != "isle" {
			t.Errorf("Expected default map ID isle, got %s", info.MapID)
		}
	})

	t.Run("unknown map lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "atlantis")
		if err == nil {
			t.Fatal("Expected error for unknown map")
		}
		if !errors.Is(err, service.ErrMapNotFound) {
			t.Errorf("Expected ErrMapNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "isle") {
			t.Errorf("Expected available maps in error, got %v", err)
		}
	})
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	if _, err := svc.GetSession(ctx, id); err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	list, err := svc.ListSessions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("Expected 1 session, got %d (%v)", len(list), err)
	}
	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for deleted session, got %v", err)
	}
}

func TestSessionLookupErrors(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Move(ctx, "nope", "up", false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	sessions.getErr = errors.New("corrupt session file")
	_, err := svc.GetGameState(ctx, "nope")
	if err == nil || errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected load failure to stay distinct from a missing session, got %v", err)
	}
}

func TestMove(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	result, err := svc.Move(ctx, id, "UP", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected move to succeed: %s", result.Message)
	}
	if result.Step == nil || result.Step.TileType != "grass" || !result.Step.OnMap {
		t.Errorf("Unexpected step info %+v", result.Step)
	}
	if sessions.saves == 0 {
		t.Error("Expected session to be saved after move")
	}

	result, err = svc.Move(ctx, id, "sideways", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Success {
		t.Error("Expected unknown direction to fail")
	}

	t.Run("reset before move", func(t *testing.T) {
		result, err := svc.Move(ctx, id, "down", true)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.GameState.PlayerPos != (engine.Position{X: 2, Y: 3}) {
			t.Errorf("Expected player at 2,3 after reset and move, got %v", result.GameState.PlayerPos)
		}
		if len(result.Events) == 0 || result.Events[0].Type != "reset" {
			t.Errorf("Expected reset event first, got %+v", result.Events)
		}
	})

	t.Run("save failure is not fatal", func(t *testing.T) {
		sessions.saveErr = errors.New("disk full")
		defer func() { sessions.saveErr = nil }()
		if _, err := svc.Move(ctx, id, "up", false); err != nil {
			t.Errorf("Expected move to succeed despite save error, got %v", err)
		}
	})
}

func TestMove_WorldEdge(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	result, err := svc.BulkMove(ctx, id, []string{"up", "up", "up"}, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if result.Success {
		t.Fatal("Expected third move to hit the world edge")
	}
	if result.StopReasonCode != "blocked_edge" {
		t.Errorf("Expected blocked_edge, got %s", result.StopReasonCode)
	}
	if result.StoppedOnMove != 3 || result.MovesExecuted != 2 {
		t.Errorf("Expected stop on move 3 after 2 moves, got %d/%d", result.StoppedOnMove, result.MovesExecuted)
	}
	if result.AttemptedTo == nil || result.AttemptedTo.Y != -1 {
		t.Errorf("Unexpected attempt %+v", result.AttemptedTo)
	}
}

func TestBulkMove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		moves         []string
		wantExecuted  int
		wantEnd       engine.Position
		wantCode      string
		wantTruncated bool
	}{
		{"all succeed", []string{"left", "down"}, 2, engine.Position{X: 1, Y: 3}, "", false},
		{"stops on invalid", []string{"left", "jump", "left"}, 1, engine.Position{X: 1, Y: 2}, "invalid_direction", false},
		{"walks off the map", []string{"right", "right", "right", "right"}, 4, engine.Position{X: 6, Y: 2}, "", false},
		{"truncated", repeat("down", engine.MaxBulkMoves+5), engine.MaxBulkMoves, engine.Position{X: 2, Y: 2 + engine.MaxBulkMoves}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := createSession(t, svc)
			result, err := svc.BulkMove(ctx, id, tt.moves, false)
			if err != nil {
				t.Fatalf("BulkMove failed: %v", err)
			}
			if result.MovesExecuted != tt.wantExecuted {
				t.Errorf("Expected %d moves executed, got %d", tt.wantExecuted, result.MovesExecuted)
			}
			if result.EndPos != tt.wantEnd {
				t.Errorf("Expected end at %v, got %v", tt.wantEnd, result.EndPos)
			}
			if result.StopReasonCode != tt.wantCode {
				t.Errorf("Expected stop code %q, got %q", tt.wantCode, result.StopReasonCode)
			}
			if result.Truncated != tt.wantTruncated {
				t.Errorf("Expected truncated=%v, got %v", tt.wantTruncated, result.Truncated)
			}
			if len(result.Steps) != result.MovesExecuted {
				t.Errorf("Expected one step per executed move, got %d", len(result.Steps))
			}
			if result.StartPos != (engine.Position{X: 2, Y: 2}) {
				t.Errorf("Expected start at 2,2, got %v", result.StartPos)
			}
		})
	}
}

func repeat(move string, n int) []string {
	moves := make([]string, n)
	for i := range moves {
		moves[i] = move
	}
	return moves
}

func TestReset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	if _, err := svc.Terraform(ctx, id, 8, 8, "cave"); err != nil {
		t.Fatalf("Terraform failed: %v", err)
	}
	if _, err := svc.Move(ctx, id, "left", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.PlayerPos != (engine.Position{X: 2, Y: 2}) {
		t.Errorf("Expected player back at start, got %v", state.PlayerPos)
	}
	if state.Map.Width() != 5 {
		t.Errorf("Expected pristine 5-wide map after reset, got %d", state.Map.Width())
	}
	if state.TotalMoves != 1 || state.CurrentMovesCount != 0 {
		t.Errorf("Expected cumulative history kept, got total=%d current=%d", state.TotalMoves, state.CurrentMovesCount)
	}
}

func TestTerraform(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	tests := []struct {
		name        string
		x, y        int
		terrain     string
		wantErr     bool
		wantChanged bool
		wantGrew    bool
		wantW       int
	}{
		{"by name", 1, 1, "forest", false, true, false, 5},
		{"same value", 1, 1, "T", false, false, false, 5},
		{"grows the map", 7, 2, "road", false, true, true, 8},
		{"unknown terrain", 1, 1, "lava", true, false, false, 0},
		{"negative", -1, 0, "grass", true, false, false, 0},
		{"past the size limit", engine.MaxMapSide, 0, "grass", true, false, false, 0},
		{"huge coordinates", 1 << 40, 1 << 40, "road", true, false, false, 0},
		{"growth after refusals", 7, 3, "road", false, true, true, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Terraform(ctx, id, tt.x, tt.y, tt.terrain)
			if tt.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Errorf("Expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Terraform failed: %v", err)
			}
			if result.Changed != tt.wantChanged || result.Grew != tt.wantGrew {
				t.Errorf("Expected changed=%v grew=%v, got %+v", tt.wantChanged, tt.wantGrew, result)
			}
			if result.MapWidth != tt.wantW {
				t.Errorf("Expected width %d, got %d", tt.wantW, result.MapWidth)
			}
		})
	}

	other := createSession(t, svc)
	state, err := svc.GetGameState(ctx, other)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if state.Map.Width() != 5 {
		t.Error("Terraforming one session should not change another")
	}
}

func TestRenderView(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	view, err := svc.RenderView(ctx, id, service.ViewOptions{Width: 3, Height: 3})
	if err != nil {
		t.Fatalf("RenderView failed: %v", err)
	}
	if view.View != "...\n.@.\n..." {
		t.Errorf("Unexpected view %q", view.View)
	}
	if view.Origin != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Expected origin 1,1, got %v", view.Origin)
	}

	full, err := svc.RenderView(ctx, id, service.ViewOptions{Full: true})
	if err != nil {
		t.Fatalf("RenderView failed: %v", err)
	}
	if len(full.Rows) != 5 || full.Rows[2] != "~.#.~" {
		t.Errorf("Unexpected full view %q", full.Rows)
	}

	def, err := svc.RenderView(ctx, id, service.ViewOptions{})
	if err != nil {
		t.Fatalf("RenderView failed: %v", err)
	}
	if def.Width != engine.DefaultViewSize || len(def.Rows) != engine.DefaultViewSize {
		t.Errorf("Expected default %d window, got %dx%d", engine.DefaultViewSize, def.Width, len(def.Rows))
	}

	if _, err := svc.RenderView(ctx, id, service.ViewOptions{Width: engine.MaxViewSize + 1}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for oversized view, got %v", err)
	}
}

func TestDescribeCell(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	tests := []struct {
		name     string
		x, y     int
		wantType string
		inBounds bool
		isPlayer bool
		passable bool
	}{
		{"player", 2, 2, "town", true, true, true},
		{"water", 0, 0, "water", true, false, true},
		{"off map", 9, 9, "empty", false, false, true},
		{"negative", -1, 0, "empty", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := svc.DescribeCell(ctx, id, tt.x, tt.y)
			if err != nil {
				t.Fatalf("DescribeCell failed: %v", err)
			}
			if cell.Type != tt.wantType || cell.InBounds != tt.inBounds || cell.IsPlayer != tt.isPlayer || cell.Passable != tt.passable {
				t.Errorf("Unexpected cell %+v", cell)
			}
		})
	}
}

func TestGetMoveHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc)

	if _, err := svc.BulkMove(ctx, id, []string{"left", "right", "left", "right", "up"}, false); err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		wantNext  bool
	}{
		{"defaults newest first", service.HistoryOptions{}, 5, 5, false},
		{"ascending page 1", service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 2, 1, true},
		{"descending page 2", service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"}, 2, 3, true},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if len(resp.Moves) != tt.wantLen {
				t.Fatalf("Expected %d moves, got %d", tt.wantLen, len(resp.Moves))
			}
			if tt.wantLen > 0 && resp.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move number %d, got %d", tt.wantFirst, resp.Moves[0].MoveNumber)
			}
			if resp.HasNext != tt.wantNext {
				t.Errorf("Expected has_next=%v, got %v", tt.wantNext, resp.HasNext)
			}
			if resp.TotalMoves != 5 {
				t.Errorf("Expected 5 total moves, got %d", resp.TotalMoves)
			}
		})
	}
}

func TestMaps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.LoadMap(ctx, "isle")
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if err := svc.SaveMap(ctx, "copy", m); err != nil {
		t.Fatalf("SaveMap failed: %v", err)
	}
	list, err := svc.ListMaps(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("Expected 2 maps, got %d (%v)", len(list), err)
	}
	if err := svc.SaveMap(ctx, "nil", nil); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil map, got %v", err)
	}
}
