package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/textquest/game/engine"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

var (
	// ErrInvalidInput marks requests the service refuses before touching a session
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
	ErrMapNotFound     = errors.New("map not found")
)

// lookupError reports a failed session lookup. Anything other than a missing
// session, such as a broken persisted copy, is passed through.
func lookupError(sessionID string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return fmt.Errorf("failed to get session %s: %w", sessionID, err)
}

// gameServiceImpl implements the GameService interface.
// mu is held exclusively for anything that moves the player or changes
// terrain, since a terrain write may grow the map under concurrent readers.
// Game states leave the service as snapshots so callers can encode them
// after the lock is released.
type gameServiceImpl struct {
	sessions SessionManager
	maps     MapCatalog
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, maps MapCatalog) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		MapID:          sess.MapID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Snapshot(),
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, mapID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m *terrain.Map
	var err error
	if mapID != "" {
		m, err = s.maps.LoadMap(mapID)
		if err != nil {
			if errors.Is(err, ErrMapNotFound) {
				available, listErr := s.maps.ListMaps()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.MapID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available maps: %v", ErrMapNotFound, mapID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/maps to list available maps", ErrMapNotFound, mapID)
			}
			return nil, fmt.Errorf("failed to load map %s: %w", mapID, err)
		}
	} else {
		m = s.maps.GetDefault()
		mapID = s.maps.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", mapID, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	direction = strings.ToLower(direction)
	prevPos := sess.Engine.GetPlayerPosition()
	target, _ := sess.Engine.NextPosition(direction)
	success := sess.Engine.Move(direction)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   success,
		GameState: state.Snapshot(),
		Message:   state.Message,
		Events:    events,
	}

	if success {
		result.Events = append(result.Events, moveEvents(state, prevPos, direction)...)
		step := stepInfo(state, 1, direction, prevPos)
		result.Step = &step
	} else {
		_, attempt := blockedAttempt(sess.Engine, direction, target)
		result.AttemptedTo = attempt
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after move: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first refused move
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartPos = sess.Engine.GetPlayerPosition()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		move = strings.ToLower(move)
		prevPos := sess.Engine.GetPlayerPosition()
		target, _ := sess.Engine.NextPosition(move)

		if !sess.Engine.Move(move) {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.StoppedOnMove = i + 1
			result.StopReasonCode, result.AttemptedTo = blockedAttempt(sess.Engine, move, target)
			break
		}

		result.MovesExecuted++
		state := sess.Engine.GetState()
		result.Events = append(result.Events, moveEvents(state, prevPos, move)...)
		result.Steps = append(result.Steps, stepInfo(state, i+1, move, prevPos))
	}

	endState := sess.Engine.GetState()
	result.GameState = endState.Snapshot()
	result.EndPos = endState.PlayerPos
	result.Message = endState.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	result.LocalView3x3 = endState.LocalView3x3

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk moves: %v\n", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to its pristine map
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state.Snapshot(), nil
}

// Terraform changes the terrain of one cell of the session's map. terrainName
// is a terrain name or a single map key.
func (s *gameServiceImpl) Terraform(ctx context.Context, sessionID string, x, y int, terrainName string) (*TerraformResult, error) {
	t, err := terrain.ParseName(terrainName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if x < 0 || y < 0 {
		return nil, fmt.Errorf("%w: coordinates must not be negative", ErrInvalidInput)
	}
	if x >= engine.MaxMapSide || y >= engine.MaxMapSide {
		return nil, fmt.Errorf("%w: coordinates must be below %d", ErrInvalidInput, engine.MaxMapSide)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	m := sess.Engine.GetMap()
	grew := !m.InBounds(x, y)
	changed, err := sess.Engine.Terraform(x, y, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if grew {
		fmt.Printf("[TERRAFORM] Session %s map grew to %dx%d\n", sessionID, m.Width(), m.Height())
	}

	if changed {
		if err := s.sessions.Save(sessionID); err != nil {
			fmt.Printf("Warning: Failed to persist session %s after terraform: %v\n", sessionID, err)
		}
	}

	return &TerraformResult{
		Changed:   changed,
		Grew:      grew,
		X:         x,
		Y:         y,
		Terrain:   t.String(),
		MapWidth:  m.Width(),
		MapHeight: m.Height(),
		GameState: sess.Engine.GetState().Snapshot(),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// RenderView renders the map around the player, or the whole map with opts.Full
func (s *gameServiceImpl) RenderView(ctx context.Context, sessionID string, opts ViewOptions) (*ViewResult, error) {
	if opts.Width < 0 || opts.Height < 0 || opts.Width > engine.MaxViewSize || opts.Height > engine.MaxViewSize {
		return nil, fmt.Errorf("%w: view size must be between 1 and %d", ErrInvalidInput, engine.MaxViewSize)
	}
	if opts.Width == 0 {
		opts.Width = engine.DefaultViewSize
	}
	if opts.Height == 0 {
		opts.Height = engine.DefaultViewSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	m := state.Map
	result := &ViewResult{
		SessionID: sess.ID,
		PlayerPos: state.PlayerPos,
		MapWidth:  m.Width(),
		MapHeight: m.Height(),
	}
	if opts.Full {
		result.Width, result.Height = m.Width(), m.Height()
		result.View = m.Render()
	} else {
		result.Width, result.Height = opts.Width, opts.Height
		result.Origin = engine.Position{
			X: state.PlayerPos.X - opts.Width/2,
			Y: state.PlayerPos.Y - opts.Height/2,
		}
		result.View = sess.Engine.View(opts.Width, opts.Height)
	}
	result.Rows = strings.Split(result.View, "\n")

	return result, nil
}

// DescribeCell reports what lies at (x, y) on the session's map
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, lookupError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	m := sess.Engine.GetMap()
	t := m.TerrainAt(x, y)
	pos := sess.Engine.GetPlayerPosition()
	return &CellInfo{
		X:        x,
		Y:        y,
		Key:      string(t.Key()),
		Type:     t.String(),
		InBounds: m.InBounds(x, y),
		Passable: sess.Engine.CanMoveTo(x, y),
		IsPlayer: pos.X == x && pos.Y == y,
	}, nil
}

// ListMaps returns the maps available for new sessions
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// LoadMap loads a map from the catalogue
func (s *gameServiceImpl) LoadMap(ctx context.Context, mapID string) (*terrain.Map, error) {
	return s.maps.LoadMap(mapID)
}

// SaveMap saves a map to the catalogue
func (s *gameServiceImpl) SaveMap(ctx context.Context, mapID string, m *terrain.Map) error {
	if m == nil {
		return fmt.Errorf("%w: map is required", ErrInvalidInput)
	}
	return s.maps.SaveMap(mapID, m)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// moveEvents generates events for a successful move
func moveEvents(state *engine.GameState, prevPos engine.Position, direction string) []GameEvent {
	newPos := state.PlayerPos
	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to (%d,%d)", direction, newPos.X, newPos.Y),
		Timestamp: time.Now(),
		Position:  newPos,
	}}

	if !state.Map.InBounds(newPos.X, newPos.Y) && state.Map.InBounds(prevPos.X, prevPos.Y) {
		events = append(events, GameEvent{
			Type:      "explore",
			Message:   fmt.Sprintf("Left the known map at (%d,%d)", newPos.X, newPos.Y),
			Timestamp: time.Now(),
			Position:  newPos,
		})
	}
	return events
}

func stepInfo(state *engine.GameState, idx int, direction string, from engine.Position) StepInfo {
	to := state.PlayerPos
	t := state.Map.TerrainAt(to.X, to.Y)
	return StepInfo{
		Idx:      idx,
		Dir:      direction,
		From:     from,
		To:       to,
		TileChar: string(t.Key()),
		TileType: t.String(),
		OnMap:    state.Map.InBounds(to.X, to.Y),
		Success:  true,
	}
}

// blockedAttempt explains why a move toward target was refused
func blockedAttempt(e *engine.GameEngine, direction string, target engine.Position) (string, *AttemptInfo) {
	if _, ok := e.NextPosition(direction); !ok {
		return "invalid_direction", nil
	}
	if target.X < 0 || target.Y < 0 {
		return "blocked_edge", &AttemptInfo{
			X:        target.X,
			Y:        target.Y,
			TileChar: string(terrain.EmptyKey),
			TileType: "edge",
		}
	}
	t := e.GetMap().TerrainAt(target.X, target.Y)
	return "blocked_terrain", &AttemptInfo{
		X:        target.X,
		Y:        target.Y,
		TileChar: string(t.Key()),
		TileType: t.String(),
		Passable: false,
	}
}
