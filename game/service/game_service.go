package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/textquest/game/engine"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, mapID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Terraform(ctx context.Context, sessionID string, x, y int, terrainName string) (*TerraformResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	RenderView(ctx context.Context, sessionID string, opts ViewOptions) (*ViewResult, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, mapID string) (*terrain.Map, error)
	SaveMap(ctx context.Context, mapID string, m *terrain.Map) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapID string, m *terrain.Map) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, mapID string, m *terrain.Map) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapCatalog handles map loading
type MapCatalog interface {
	LoadMap(id string) (*terrain.Map, error)
	ListMaps() ([]*MapInfo, error)
	GetDefault() *terrain.Map
	DefaultID() string
	SaveMap(id string, m *terrain.Map) error
}

// Session represents an active game session
type Session struct {
	ID             string
	MapID          string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
