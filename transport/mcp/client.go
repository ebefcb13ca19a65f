package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/textquest/game/engine"
	"github.com/wricardo/mcp-training/textquest/game/service"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Text Quest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Text Quest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

You explore a terrain grid as '@'. Every cell is one character; see game_instructions
for the legend. The world continues past the drawn map: walking off the edge leads into
uncharted (empty) land, and terraforming a cell past the edge grows the map.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage game sessions
- list_maps / show_map: browse the map catalogue
- game_state: position, terrain underfoot and the view around you
- look: render a window of the map around you (or the full map)
- move / bulk_move: walk up/down/left/right - requires intent explanation
- reset_game: return to the map's starting point
- move_history: view past moves
- terraform: change the terrain of a cell
- describe_cell: exact character and type of one cell
- game_instructions: the full legend and rules

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally on a specific map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the map to explore (optional, see list_maps)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        engine.Directions,
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked move", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": engine.Directions,
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Return to the map's starting point and discard terrain changes",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Terrain
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "look",
		Description: "Render the terrain around the player. Cells past the edge of the map show as blanks.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"width": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("View width (default %d, max %d)", engine.DefaultViewSize, engine.MaxViewSize),
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("View height (default %d, max %d)", engine.DefaultViewSize, engine.MaxViewSize),
				},
				"full": map[string]interface{}{
					"type":        "boolean",
					"description": "Render the whole map instead of a window",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleLook)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "terraform",
		Description: "Change the terrain of a cell. Writing past the edge of the map grows it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column, 0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row, 0-based)",
				},
				"terrain": map[string]interface{}{
					"type":        "string",
					"description": "Terrain name (e.g. forest, road) or its map character",
				},
			},
			Required: []string{"session_id", "x", "y", "terrain"},
		},
	}, c.handleTerraform)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific cell, including its exact character and type. Useful for telling apart characters that look alike.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionParam(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	// Maps
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List the maps a session can be created on",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "show_map",
		Description: "Show a catalogue map in full",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID (see list_maps)",
				},
			},
			Required: []string{"map_id"},
		},
	}, c.handleShowMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and the terrain legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(float64)
	return int(v), ok
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	mapID, _ := args["map_id"].(string)

	body := map[string]string{}
	if mapID != "" {
		body["map_id"] = mapID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMap: %s\n", session.ID, session.MapID)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Map: %s, Created: %s)\n",
			s.ID, s.MapID, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	// intent is for the caller's benefit only

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/bulk-move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", path, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleLook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if w, ok := intArg(args, "width"); ok {
		query.Set("width", fmt.Sprint(w))
	}
	if h, ok := intArg(args, "height"); ok {
		query.Set("height", fmt.Sprint(h))
	}
	if full, _ := args["full"].(bool); full {
		query.Set("full", "true")
	}
	path := sessionPath(sessionID, "/view")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var view service.ViewResult
	if err := c.apiCall("GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleTerraform(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	kind, _ := args["terrain"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	body := map[string]interface{}{"x": x, "y": y, "terrain": kind}

	var result service.TerraformResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/terraform"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTerraformResult(&result)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	var cell service.CellInfo
	err := c.apiCall("GET", sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", x, y)), nil, &cell)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []service.MapInfo
	if err := c.apiCall("GET", "/api/maps", nil, &infos); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Maps:\n\n")
	for _, info := range infos {
		fmt.Fprintf(&b, "• %s (%s)\n", info.MapID, info.Name)
		if info.Description != "" {
			fmt.Fprintf(&b, "  %s\n", info.Description)
		}
		fmt.Fprintf(&b, "  Size: %dx%d, Start: (%d,%d)\n\n", info.Width, info.Height, info.Start.X, info.Start.Y)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleShowMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	mapID, _ := args["map_id"].(string)

	var response struct {
		MapID  string          `json:"map_id"`
		Width  int             `json:"width"`
		Height int             `json:"height"`
		Start  engine.Position `json:"start"`
		Render []string        `json:"render"`
		Map    *terrain.Map    `json:"map"`
	}
	if err := c.apiCall("GET", "/api/maps/"+url.PathEscape(mapID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := response.MapID
	if response.Map != nil {
		name = response.Map.Name()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Map %s (%s): %dx%d, start (%d,%d)\n\n",
		response.MapID, name, response.Width, response.Height, response.Start.X, response.Start.Y)
	b.WriteString(strings.Join(response.Render, "\n"))
	b.WriteString("\n\n")
	b.WriteString(legend())
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Text Quest - Complete Instructions

GAME OBJECTIVE:
Explore the world. There is no score and no way to lose; go where you like and
reshape the land as you go.

COORDINATES:
• x is the column, y is the row, both 0-based from the top-left corner
• up is y-1, down is y+1, left is x-1, right is x+1
• There is nothing at negative coordinates: moves there are always refused

TERRAIN LEGEND:
` + legend() + `
MOVEMENT:
• move: one step in a cardinal direction
• bulk_move: up to ` + fmt.Sprint(engine.MaxBulkMoves) + ` steps, stopping at the first refused one
• Every terrain can be walked on, including the blank cells past the edge of the map
• Leaving the drawn map is reported as exploring uncharted land

VIEWS:
• game_state shows the cells next to you and a window centred on you
• look renders a larger window (up to ` + fmt.Sprint(engine.MaxViewSize) + ` cells wide) or the full map
• You are drawn as '@'; blanks are cells with no terrain
• describe_cell tells you exactly what one cell holds

TERRAFORMING:
• terraform sets a cell to any terrain, by name or by character
• Writing past the right or bottom edge grows the map to include that cell;
  the new cells in between are blank
• reset_game returns you to the start and restores the original map

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions keep their own position, history and terrain changes

Good luck exploring!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func legend() string {
	var b strings.Builder
	for _, t := range terrain.Types() {
		key := string(t.Key())
		if t == terrain.Empty {
			key = "' '"
		}
		fmt.Fprintf(&b, "• %s - %s\n", key, t)
	}
	fmt.Fprintf(&b, "• %c - you\n", engine.PlayerKey)
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nMap: %s\nCreated: %s\n\n%s",
		session.ID, session.MapID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Position: (%d,%d) | Terrain: %s | Moves: %d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.Terrain, state.TotalMoves)
	if state.Map != nil {
		fmt.Fprintf(&b, "Map: %s (%dx%d)\n", state.MapName, state.Map.Width(), state.Map.Height())
	}
	b.WriteString("\n")

	if len(state.LocalView3x3) == 3 {
		b.WriteString("Local 3x3:\n")
		b.WriteString(strings.Join(state.LocalView3x3, "\n"))
		b.WriteString("\n\n")
	}

	if state.Map != nil {
		fmt.Fprintf(&b, "View (%dx%d):\n", engine.DefaultViewSize, engine.DefaultViewSize)
		b.WriteString(state.RenderView(engine.DefaultViewSize, engine.DefaultViewSize))
		b.WriteString("\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) tile=%q %s\n",
			s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.TileChar, s.TileType)
	}

	if a := result.AttemptedTo; a != nil {
		passStr := "impassable"
		if a.Passable {
			passStr = "passable"
		}
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) tile=%q %s (%s)\n", a.X, a.Y, a.TileChar, a.TileType, passStr)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	mapName := ""
	if result.GameState != nil {
		mapName = result.GameState.MapName
	}
	fmt.Fprintf(&b, "Session: %s • Map: %s\n", sessionID, mapName)

	fmt.Fprintf(&b, "Executed %d/%d moves: (%d,%d)→(%d,%d)\n",
		result.MovesExecuted, result.RequestedMoves,
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			status := "✓"
			if !s.Success {
				status = "✗"
			}
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) tile=%q %s\n",
				s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.TileChar, status)
		}
	}

	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "\nBlocked: attempted (%d,%d) tile=%q %s\n", a.X, a.Y, a.TileChar, a.TileType)
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatView(view *service.ViewResult) string {
	return fmt.Sprintf("View %dx%d from (%d,%d), you at (%d,%d), map %dx%d:\n%s\n",
		view.Width, view.Height, view.Origin.X, view.Origin.Y,
		view.PlayerPos.X, view.PlayerPos.Y, view.MapWidth, view.MapHeight, view.View)
}

func formatTerraformResult(result *service.TerraformResult) string {
	var b strings.Builder
	switch {
	case !result.Changed:
		fmt.Fprintf(&b, "(%d,%d) is already %s\n", result.X, result.Y, result.Terrain)
	case result.Grew:
		fmt.Fprintf(&b, "(%d,%d) is now %s; the map grew to %dx%d\n",
			result.X, result.Y, result.Terrain, result.MapWidth, result.MapHeight)
	default:
		fmt.Fprintf(&b, "(%d,%d) is now %s\n", result.X, result.Y, result.Terrain)
	}
	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatCell(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): %q %s\n", cell.X, cell.Y, cell.Key, cell.Type)
	if !cell.InBounds {
		b.WriteString("Outside the drawn map\n")
	}
	if cell.Passable {
		b.WriteString("Passable\n")
	} else {
		b.WriteString("Impassable\n")
	}
	if cell.IsPlayer {
		b.WriteString("You are here\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d) %s\n",
			move.MoveNumber, status, move.Action,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y, move.Terrain)
	}

	if history.HasNext {
		b.WriteString("\n(more moves on the next page)\n")
	}
	return b.String()
}
