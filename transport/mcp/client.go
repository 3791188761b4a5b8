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
	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
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
		"Maze Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk the player (P) from the start cell to the finish (F) through open cells (.) without crossing walls (#).
The clock starts when the session is created and stops on the finish cell.

AVAILABLE TOOLS:
- create_session: Start a new session on a level
- list_sessions / get_session: Inspect active sessions
- game_state: Current maze, position, timer and possible moves
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Several moves in order, stopping at the first blocked move or the win
- describe_cell: Wall or path at a grid cell
- switch_mode / toggle_wall: Editor mode, flip walls by row and column
- reset_best: Clear the personal best of the level
- end_session: Finish a session and save its level
- list_levels: Stored levels and their best times
- game_instructions: Rules and strategy

NOTE: The 'intent' parameter on move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
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
		Description: "Create a new game session, optionally on a named level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Name of the level to play (optional, defaults to the server's default level)",
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
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "Finish a session, save its level and personal best, and remove it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleEndSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current maze, player position, timer and possible moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute several moves in order. Stops at the first blocked move or when the maze is solved.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe a single grid cell: wall or path, and whether it is the player or the finish",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based, top to bottom)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based, left to right)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	// Editor
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "switch_mode",
		Description: "Switch between play mode and editor mode",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleSwitchMode)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_wall",
		Description: "Flip a cell between wall and path. Only works in editor mode.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleToggleWall)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_best",
		Description: "Clear the personal best time of the session's level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleResetBest)

	// Levels
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List stored levels with their size and best time",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
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

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("missing required argument %q", name)
	default:
		return 0, fmt.Errorf("argument %q must be an integer", name)
	}
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, _ := arguments(request)["level"].(string)

	body := map[string]string{}
	if level != "" {
		body["level"] = level
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s", session.ID, session.Level, formatView(&session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Level: %s, Mode: %s, %s, Created: %s)\n",
			s.ID, s.Level, s.State.Mode, s.State.TimerText(), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string              `json:"message"`
		Session service.SessionInfo `json:"session"`
	}
	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, ""), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\nLevel %s saved. %s", response.Message, response.Session.Level, response.Session.State.BestText())
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.View
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	var result service.MoveResult
	body := map[string]string{"direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must contain at least one direction"), nil
	}

	var (
		b        strings.Builder
		last     service.MoveResult
		executed int
	)
	for i, move := range moves {
		var result service.MoveResult
		if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), map[string]string{"direction": move}, &result); err != nil {
			fmt.Fprintf(&b, "Stopped at move %d (%s): %v\n", i+1, move, err)
			break
		}
		last = result
		status := "✓"
		if !result.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) %s\n", i+1, result.Direction,
			result.From.Row, result.From.Col, result.To.Row, result.To.Col, status)
		if !result.Success {
			fmt.Fprintf(&b, "Stopped: %s\n", result.Message)
			break
		}
		executed++
		if result.Won {
			fmt.Fprintf(&b, "%s\n", result.Message)
			break
		}
	}

	header := fmt.Sprintf("Executed %d/%d moves\n\n", executed, len(moves))
	response := header + b.String()
	if last.Direction != "" {
		response += "\n" + formatView(&last.State)
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.View
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, engine.Position{Row: row, Col: col})), nil
}

func (c *Client) handleSwitchMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.ModeResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/mode"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", result.Message, formatView(&result.State))), nil
}

func (c *Client) handleToggleWall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, err := intArg(args, "row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	col, err := intArg(args, "col")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ToggleResult
	body := map[string]int{"row": row, "col": col}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/toggle"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", result.Message, formatView(&result.State))), nil
}

func (c *Client) handleResetBest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string       `json:"message"`
		State   *engine.View `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset-best"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatView(response.State))), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		best := "--"
		if level.PersonalBest > 0 {
			best = fmt.Sprintf("%ds", level.PersonalBest)
		}
		marker := ""
		if level.IsDefault {
			marker = " (default)"
		}
		fmt.Fprintf(&b, "• %s%s\n  Grid: %dx%d, Walls: %d, Best: %s\n\n",
			level.Name, marker, level.Rows, level.Cols, level.Walls, best)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Maze Game - Instructions

GAME OBJECTIVE:
Reach the finish cell (F) as fast as you can. The timer starts when the session is created
and freezes on the finish. Beat the level's personal best to replace it.

GRID LEGEND:
• P = Player
• F = Finish
• . = Path (walkable)
• # = Wall (impassable)
Cells outside the maze are impassable as well.

COORDINATES:
• Rows count from 0 at the top, columns from 0 at the left
• up = row-1, down = row+1, left = col-1, right = col+1

MOVEMENT COMMANDS:
• move: one step, e.g. {"direction": "down"}
• bulk_move: several steps, stops at the first blocked move
• game_state lists the possible moves from the current cell

EDITOR MODE:
• switch_mode enters editor mode; movement is ignored while editing
• toggle_wall flips a cell between wall and path
• switch_mode again to resume play; the timer keeps running

PERSONAL BEST:
• A win saves the level and updates the best time when it is faster
• reset_best clears it; end_session saves the level and closes the session
• Once the maze is solved the session is read-only

STRATEGY:
• Read possible_moves before each step instead of guessing
• Follow one wall consistently in a dead end heavy maze
• Use bulk_move for long straight corridors

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.Level,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatView(&session.State))
}

func cellChar(view *engine.View, pos engine.Position) string {
	switch {
	case pos == view.Player:
		return "P"
	case pos == view.Finish:
		return "F"
	case view.Grid[pos.Row][pos.Col] == engine.Wall:
		return "#"
	default:
		return "."
	}
}

func formatView(view *engine.View) string {
	if view == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Position: (%d,%d) | Finish: (%d,%d) | Mode: %s | %s | %s\n",
		view.Player.Row, view.Player.Col, view.Finish.Row, view.Finish.Col,
		view.Mode, view.TimerText(), view.BestText())

	if len(view.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(view.PossibleMoves, ", "))
	} else {
		b.WriteString("Possible moves: none\n")
	}
	b.WriteString("\n")

	for r := range view.Grid {
		for c := range view.Grid[r] {
			b.WriteString(cellChar(view, engine.Position{Row: r, Col: c}))
		}
		b.WriteString("\n")
	}

	if view.Won {
		fmt.Fprintf(&b, "\n🎉 SOLVED in %ds", view.WinSeconds)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Move successful\n"
	} else {
		response = "✗ Move failed\n"
	}

	response += fmt.Sprintf("Step: %s (%d,%d)→(%d,%d)\n", result.Direction,
		result.From.Row, result.From.Col, result.To.Row, result.To.Col)
	if result.Message != "" {
		response += fmt.Sprintf("Message: %s\n", result.Message)
	}

	response += "\n" + formatView(&result.State)
	return response
}

func describeCell(view *engine.View, pos engine.Position) string {
	size := len(view.Grid)
	if pos.Row < 0 || pos.Col < 0 || pos.Row >= size || pos.Col >= size {
		return fmt.Sprintf("Cell (%d,%d) is outside the %dx%d maze and is impassable", pos.Row, pos.Col, size, size)
	}

	var kind, note string
	passable := view.Grid[pos.Row][pos.Col] == engine.Path
	if passable {
		kind = "Path"
	} else {
		kind = "Wall"
	}
	switch pos {
	case view.Player:
		note = "The player is standing here."
	case view.Finish:
		note = "This is the finish cell."
	}

	result := fmt.Sprintf("Cell (%d,%d):\nCharacter: %s\nType: %s\nPassable: %v\n",
		pos.Row, pos.Col, cellChar(view, pos), kind, passable)
	if note != "" {
		result += note + "\n"
	}
	return result
}
