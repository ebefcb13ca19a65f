package session

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/textquest/game/engine"
	"github.com/wricardo/mcp-training/textquest/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. GameState carries the
// session's own map, including any growth from terraforming.
type PersistedSessionData struct {
	ID             string            `json:"id"`
	MapID          string            `json:"map_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

func persistedData(session *service.Session) PersistedSessionData {
	return PersistedSessionData{
		ID:             session.ID,
		MapID:          session.MapID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
	}
}

// restore rebuilds a session from stored data. Reset needs the pristine map,
// which comes from the catalogue; if the map has since left the catalogue the
// stored map becomes the reset point.
func restore(data PersistedSessionData, catalog service.MapCatalog) (*service.Session, error) {
	if data.GameState == nil || data.GameState.Map == nil {
		return nil, fmt.Errorf("session %s has no stored map", data.ID)
	}

	origin := data.GameState.Map
	if catalog != nil && data.MapID != "" {
		if m, err := catalog.LoadMap(data.MapID); err == nil {
			origin = m
		} else {
			fmt.Printf("Warning: map %s for session %s unavailable, resetting to stored map: %v\n", data.MapID, data.ID, err)
		}
	}

	gameEngine, err := engine.NewEngine(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}
	if err := gameEngine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}

	return &service.Session{
		ID:             data.ID,
		MapID:          data.MapID,
		Engine:         gameEngine,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
