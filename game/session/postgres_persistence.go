package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wricardo/mcp-training/textquest/game/service"
)

// PostgresPersistence implements SessionPersistence on a PostgreSQL table
type PostgresPersistence struct {
	db   *sql.DB
	maps service.MapCatalog
}

// NewPostgresPersistence connects to PostgreSQL and creates the sessions
// table if needed
func NewPostgresPersistence(connectionString string, maps service.MapCatalog) (*PostgresPersistence, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &PostgresPersistence{db: db, maps: maps}
	if err := p.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return p, nil
}

func (p *PostgresPersistence) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		last_accessed_at TIMESTAMP WITH TIME ZONE NOT NULL,
		state JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := p.db.Exec(schema)
	return err
}

// Save upserts a session row
func (p *PostgresPersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	stateJSON, err := json.Marshal(session.Engine.GetState())
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	query := `
	INSERT INTO sessions (id, map_id, created_at, last_accessed_at, state)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET
		map_id = $2, last_accessed_at = $4, state = $5,
		updated_at = NOW()
	`
	_, err = p.db.Exec(query, rowID(session.ID), session.MapID, session.CreatedAt, session.LastAccessedAt, string(stateJSON))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads a session row
func (p *PostgresPersistence) Load(id string) (*service.Session, error) {
	query := `SELECT id, map_id, created_at, last_accessed_at, state FROM sessions WHERE id = $1`

	var data PersistedSessionData
	var stateJSON []byte
	err := p.db.QueryRow(query, rowID(id)).Scan(&data.ID, &data.MapID, &data.CreatedAt, &data.LastAccessedAt, &stateJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal(stateJSON, &data.GameState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return restore(data, p.maps)
}

// Delete removes a session row
func (p *PostgresPersistence) Delete(id string) error {
	result, err := p.db.Exec(`DELETE FROM sessions WHERE id = $1`, rowID(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all stored session IDs
func (p *PostgresPersistence) ListAll() ([]string, error) {
	rows, err := p.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks if a session row exists. A failed query reports false;
// pruning relies on ListAll instead so an outage never drops sessions.
func (p *PostgresPersistence) Exists(id string) bool {
	var exists bool
	err := p.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, rowID(id)).Scan(&exists)
	if err != nil {
		fmt.Printf("Warning: Failed to check session %s: %v\n", id, err)
		return false
	}
	return exists
}

// Close closes the database connection
func (p *PostgresPersistence) Close() error {
	return p.db.Close()
}

// rowID matches the manager's case-insensitive session IDs
func rowID(id string) string {
	return strings.ToLower(id)
}
