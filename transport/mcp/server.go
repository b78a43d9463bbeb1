package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/go2048/game/config"
	"github.com/wricardo/go2048/game/engine"
	"github.com/wricardo/go2048/game/render"
	"github.com/wricardo/go2048/game/session"
)

// Server exposes local 2048 sessions as MCP tools
type Server struct {
	rulesets   *config.Manager
	sessions   *session.Manager
	logger     *zap.Logger
	mcpServer  *server.MCPServer
	sessionTTL time.Duration
}

// NewServer creates an MCP server backed by the given managers
func NewServer(rulesets *config.Manager, sessions *session.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		rulesets: rulesets,
		sessions: sessions,
		logger:   logger,
	}

	s.initMCPServer()
	return s
}

// SetSessionTTL makes new_game drop sessions idle for longer than ttl.
// Zero keeps sessions until end_game.
func (s *Server) SetSessionTTL(ttl time.Duration) {
	s.sessionTTL = ttl
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`2048 - MCP Interface

Slide numbered tiles on a 4x4 grid. Equal tiles that collide merge into their sum.
Reach the winning tile (2048 unless the ruleset says otherwise) to win; the game is
lost when the grid is full and no move changes it.

AVAILABLE TOOLS:
- new_game: Start a game (optional ruleset and seed)
- list_sessions: List games in this process
- game_state: Current board, status and possible moves
- move: Single move (up/down/left/right)
- bulk_move: Multiple moves at once
- reset_game: Start over with the same ruleset
- end_game: Discard a finished or abandoned game
- move_history: View past moves
- list_rulesets: List available rulesets
- game_instructions: Full rules`),
	)

	s.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}
}

func directionEnum() []string {
	names := make([]string, len(engine.Directions))
	for i, d := range engine.Directions {
		names[i] = string(d)
	}
	return names
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its session ID and board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ruleset": map[string]interface{}{
					"type":        "string",
					"description": "Ruleset to play with (optional, defaults to the server default)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for reproducible games (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all games in this process",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, status and possible moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum(),
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence, stopping when the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionEnum(),
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
	}, s.handleBulkMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start the game over with the same ruleset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "Discard a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleEndGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the moves made in a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Only return the last N moves (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleMoveHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rulesets",
		Description: "List available rulesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListRulesets)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of 2048",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// MCPServer returns the underlying MCP server for serving
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Tool handlers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (s *Server) lookup(args map[string]interface{}) (*session.Session, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return nil, errors.New("session_id is required")
	}
	return s.sessions.Get(id)
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["ruleset"].(string)

	rules := s.rulesets.GetDefault()
	if name != "" {
		loaded, err := s.rulesets.LoadRuleset(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rules = loaded
	}

	var seed int64
	if v, ok := args["seed"].(float64); ok {
		seed = int64(v)
	}

	if s.sessionTTL > 0 {
		if removed := s.sessions.CleanupExpiredSessions(s.sessionTTL); removed > 0 {
			s.logger.Info("expired idle sessions", zap.Int("removed", removed))
		}
	}

	sess, err := s.sessions.Create("", rules, seed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp new_game",
		zap.String("session", sess.ID),
		zap.String("ruleset", sess.RulesetID),
		zap.Int64("seed", sess.Seed),
	)

	result := fmt.Sprintf("Created session: %s\n\n%s", sess.ID, formatGameState(sess))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.sessions.List()

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		_, status, moves := sess.Snapshot()
		fmt.Fprintf(&result, "- %s (Ruleset: %s, Status: %s, Moves: %d, Created: %s)\n",
			sess.ID, sess.RulesetID, status, moves, sess.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(sess)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.lookup(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	result, err := sess.Move(engine.Direction(strings.ToLower(strings.TrimSpace(direction))))
	s.logger.Debug("mcp move",
		zap.String("session", sess.ID),
		zap.String("direction", direction),
		zap.String("intent", intent),
		zap.Error(err),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v\n\n%s", err, formatGameState(sess))), nil
	}

	response := formatMoveResult(result) + "\n" + formatGameState(sess)
	return mcp.NewToolResultText(response), nil
}

func (s *Server) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.lookup(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	movesRaw, _ := args["moves"].([]interface{})
	moves := make([]engine.Direction, 0, len(movesRaw))
	for _, m := range movesRaw {
		move, ok := m.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid move %v", m)), nil
		}
		moves = append(moves, engine.Direction(strings.ToLower(strings.TrimSpace(move))))
	}

	var response strings.Builder
	executed := 0
	for i, dir := range moves {
		result, err := sess.Move(dir)
		if err != nil {
			fmt.Fprintf(&response, "Stopped at move %d (%s): %v\n", i+1, dir, err)
			break
		}
		executed++
		fmt.Fprintf(&response, "%d. %s", i+1, formatMoveResult(result))
		if result.Status.Terminal() {
			break
		}
	}
	s.logger.Debug("mcp bulk_move",
		zap.String("session", sess.ID),
		zap.Int("requested", len(moves)),
		zap.Int("executed", executed),
	)

	header := fmt.Sprintf("Executed %d of %d moves\n", executed, len(moves))
	return mcp.NewToolResultText(header + response.String() + "\n" + formatGameState(sess)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sess.Reset(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp reset_game", zap.String("session", sess.ID))

	return mcp.NewToolResultText("Game reset\n\n" + formatGameState(sess)), nil
}

func (s *Server) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)
	if id == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	if err := s.sessions.Delete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("mcp end_game", zap.String("session", id))

	return mcp.NewToolResultText(fmt.Sprintf("Ended session: %s", id)), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.lookup(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var history []engine.MoveHistoryEntry
	sess.Inspect(func(eng *engine.Engine) {
		history = eng.History()
	})

	total := len(history)
	if limit, ok := args["limit"].(float64); ok && int(limit) > 0 && int(limit) < total {
		history = history[total-int(limit):]
	}

	return mcp.NewToolResultText(formatHistory(total, history)), nil
}

func (s *Server) handleListRulesets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.rulesets.ListRulesets()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	def := s.rulesets.GetDefault()

	var result strings.Builder
	result.WriteString("Available Rulesets:\n\n")
	for _, info := range infos {
		marker := ""
		if info.RulesetID == def.Name {
			marker = " (default)"
		}
		fmt.Fprintf(&result, "• %s%s\n  %s\n  Winning tile: %d, Four probability: %.2f, Spawn on no-op: %t, Source: %s\n\n",
			info.RulesetID, marker, info.Description, info.WinningTile, info.FourProbability, info.SpawnOnNoop, info.Source)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `2048 - Complete Instructions

GAME OBJECTIVE:
Combine tiles until one of them reaches the winning tile (2048 in the standard ruleset).

GAME MECHANICS:
• Every move slides all tiles as far as they go in one direction: up, down, left or right
• Two equal tiles that collide merge into one tile holding their sum
• A tile merges at most once per move; with three equal tiles in a line, the pair
  nearest the direction of travel merges first
• After a move that changes the board a new tile appears on a random empty cell:
  a 2 or a 4, with odds set by the ruleset
• A move that changes nothing does not spawn a tile (the legacy ruleset spawns anyway)

VICTORY CONDITIONS:
- Any tile reaches the winning tile

GAME OVER CONDITIONS:
- The board is full and no two neighbouring tiles are equal
- Victory is checked first, so a full board with a winning tile is a win

TIPS:
- Keep the largest tile in a corner and build along one edge
- Prefer two directions and use a third only when stuck
- Check game_state's possible moves list before committing to a bulk_move

RULESETS:
- Use list_rulesets to see what is available and new_game with "ruleset" to pick one
- Pass "seed" to new_game to replay exactly the same tile sequence`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatGameState(sess *session.Session) string {
	var result strings.Builder

	sess.Inspect(func(eng *engine.Engine) {
		grid := eng.Grid()
		status := eng.Status()

		fmt.Fprintf(&result, "Session: %s | Ruleset: %s | Seed: %d\n", sess.ID, sess.RulesetID, sess.Seed)
		fmt.Fprintf(&result, "Status: %s | Moves: %d | Max tile: %d | Goal: %d\n\n",
			status, eng.TotalMoves(), engine.MaxTile(grid), eng.Ruleset().WinningTile)
		result.WriteString(render.Board(grid))

		if status.Terminal() {
			fmt.Fprintf(&result, "\n%s", render.Outcome(status))
			return
		}

		possible := eng.PossibleMoves()
		names := make([]string, len(possible))
		for i, d := range possible {
			names[i] = string(d)
		}
		fmt.Fprintf(&result, "\nPossible moves: %s", strings.Join(names, ", "))
	})

	return result.String()
}

func formatMoveResult(result engine.MoveResult) string {
	var response strings.Builder
	if result.Changed {
		fmt.Fprintf(&response, "✓ Moved %s", result.Direction)
	} else {
		fmt.Fprintf(&response, "✗ Moved %s, board unchanged", result.Direction)
	}
	if result.Spawned != nil {
		fmt.Fprintf(&response, ", new %d at (%d,%d)",
			result.Spawned.Value, result.Spawned.Position.Row, result.Spawned.Position.Col)
	}
	response.WriteString("\n")
	if result.Status.Terminal() {
		response.WriteString(render.Outcome(result.Status) + "\n")
	}
	return response.String()
}

func formatHistory(total int, entries []engine.MoveHistoryEntry) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Move History (showing %d of %d):\n", len(entries), total)
	for _, entry := range entries {
		fmt.Fprintf(&result, "%d. %s", entry.MoveNumber, entry.Direction)
		if !entry.Changed {
			result.WriteString(" (no change)")
		}
		if entry.Spawned != nil {
			fmt.Fprintf(&result, " +%d@(%d,%d)", entry.Spawned.Value, entry.Spawned.Position.Row, entry.Spawned.Position.Col)
		}
		result.WriteString("\n")
	}
	return result.String()
}
