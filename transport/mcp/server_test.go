package mcp

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/go2048/game/config"
	"github.com/wricardo/go2048/game/engine"
	"github.com/wricardo/go2048/game/session"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func createTestServer(t *testing.T) *Server {
	t.Helper()
	rulesets, err := config.NewManager("")
	require.NoError(t, err)
	return NewServer(rulesets, session.NewManager(), nil)
}

func call(t *testing.T, h handler, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	result, err := h(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

var sessionIDPattern = regexp.MustCompile(`Created session: ([0-9a-f]{4})`)

func newGame(t *testing.T, s *Server, args map[string]interface{}) string {
	t.Helper()
	text, isErr := call(t, s.handleNewGame, "new_game", args)
	require.False(t, isErr, text)
	m := sessionIDPattern.FindStringSubmatch(text)
	require.Len(t, m, 2, text)
	return m[1]
}

func TestNewServer(t *testing.T) {
	s := createTestServer(t)
	assert.NotNil(t, s.MCPServer())
}

func TestHandleNewGame(t *testing.T) {
	s := createTestServer(t)

	text, isErr := call(t, s.handleNewGame, "new_game", map[string]interface{}{
		"ruleset": "classic",
		"seed":    float64(42),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Ruleset: classic | Seed: 42")
	assert.Contains(t, text, "Status: playing | Moves: 0")
	assert.Contains(t, text, "Possible moves:")
	assert.Equal(t, 1, s.sessions.Count())
}

func TestHandleNewGame_DefaultRuleset(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "standard", sess.RulesetID)
	assert.NotZero(t, sess.Seed)
}

func TestHandleNewGame_UnknownRuleset(t *testing.T) {
	s := createTestServer(t)

	text, isErr := call(t, s.handleNewGame, "new_game", map[string]interface{}{"ruleset": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "ruleset not found")
	assert.Equal(t, 0, s.sessions.Count())
}

func TestHandleNewGame_SameSeedSameBoard(t *testing.T) {
	s := createTestServer(t)
	a := newGame(t, s, map[string]interface{}{"seed": float64(7)})
	b := newGame(t, s, map[string]interface{}{"seed": float64(7)})

	sa, err := s.sessions.Get(a)
	require.NoError(t, err)
	sb, err := s.sessions.Get(b)
	require.NoError(t, err)
	assert.True(t, sa.Engine.Grid().Equal(sb.Engine.Grid()))
}

func TestHandleMove(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, map[string]interface{}{"seed": float64(1)})

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.Engine.SetGrid(engine.GridFromRows([][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})))

	text, isErr := call(t, s.handleMove, "move", map[string]interface{}{
		"session_id": id,
		"direction":  "left",
		"intent":     "merge the pair",
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "✓ Moved left")
	assert.Contains(t, text, "Moves: 1")
	assert.Equal(t, 4, sess.Engine.Grid()[0][0])
}

func TestHandleMove_Errors(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{"missing session", map[string]interface{}{"direction": "up"}, "session_id is required"},
		{"unknown session", map[string]interface{}{"session_id": "zzzz", "direction": "up"}, "session not found"},
		{"bad direction", map[string]interface{}{"session_id": id, "direction": "sideways"}, "invalid direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, s.handleMove, "move", tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestHandleMove_GameOver(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.Engine.SetGrid(engine.GridFromRows([][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})))

	text, isErr := call(t, s.handleMove, "move", map[string]interface{}{"session_id": id, "direction": "up"})
	assert.True(t, isErr)
	assert.Contains(t, text, "game is already over")
	assert.Contains(t, text, "Game over! No more moves left.")
}

func TestHandleBulkMove(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, map[string]interface{}{"seed": float64(5)})

	text, isErr := call(t, s.handleBulkMove, "bulk_move", map[string]interface{}{
		"session_id": id,
		"moves":      []interface{}{"left", "up", "right", "down"},
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Executed 4 of 4 moves")

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 4, sess.Engine.TotalMoves())
}

func TestHandleBulkMove_StopsOnWin(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.Engine.SetGrid(engine.GridFromRows([][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})))

	text, isErr := call(t, s.handleBulkMove, "bulk_move", map[string]interface{}{
		"session_id": id,
		"moves":      []interface{}{"left", "right", "up"},
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Executed 1 of 3 moves")
	assert.Contains(t, text, "You win!")
	assert.Equal(t, 1, sess.Engine.TotalMoves())
}

func TestHandleBulkMove_InvalidDirectionStops(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	text, isErr := call(t, s.handleBulkMove, "bulk_move", map[string]interface{}{
		"session_id": id,
		"moves":      []interface{}{"left", "diagonal", "up"},
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Executed 1 of 3 moves")
	assert.Contains(t, text, "Stopped at move 2 (diagonal)")
}

func TestHandleResetAndHistory(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, map[string]interface{}{"seed": float64(9)})
	sess, err := s.sessions.Get(id)
	require.NoError(t, err)
	start := sess.Engine.Grid()

	_, isErr := call(t, s.handleBulkMove, "bulk_move", map[string]interface{}{
		"session_id": id,
		"moves":      []interface{}{"left", "up", "left"},
	})
	require.False(t, isErr)

	text, isErr := call(t, s.handleMoveHistory, "move_history", map[string]interface{}{
		"session_id": id,
		"limit":      float64(2),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Move History (showing 2 of 3)")
	assert.Contains(t, text, "2. up")
	assert.Contains(t, text, "3. left")
	assert.NotContains(t, text, "1. left")

	text, isErr = call(t, s.handleReset, "reset_game", map[string]interface{}{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Game reset")
	assert.Contains(t, text, "Moves: 0")

	assert.Contains(t, text, "Seed: 9")
	assert.Equal(t, start, sess.Engine.Grid(), "a reset replays the session seed")
}

func TestHandleEndGame(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)
	other := newGame(t, s, nil)

	text, isErr := call(t, s.handleEndGame, "end_game", map[string]interface{}{"session_id": strings.ToUpper(id)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Ended session")

	_, err := s.sessions.Get(id)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = s.sessions.Get(other)
	assert.NoError(t, err)

	text, isErr = call(t, s.handleEndGame, "end_game", map[string]interface{}{"session_id": id})
	assert.True(t, isErr)
	assert.Contains(t, text, "session not found")

	_, isErr = call(t, s.handleEndGame, "end_game", nil)
	assert.True(t, isErr)
}

func TestHandleNewGame_ExpiresIdleSessions(t *testing.T) {
	s := createTestServer(t)
	s.SetSessionTTL(time.Hour)

	idle := newGame(t, s, nil)
	sess, err := s.sessions.Get(idle)
	require.NoError(t, err)
	sess.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	active := newGame(t, s, nil)

	_, err = s.sessions.Get(idle)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = s.sessions.Get(active)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.sessions.Count())
}

func TestHandleListSessions(t *testing.T) {
	s := createTestServer(t)
	newGame(t, s, map[string]interface{}{"ruleset": "legacy"})
	newGame(t, s, nil)

	text, isErr := call(t, s.handleListSessions, "list_sessions", nil)
	require.False(t, isErr)
	assert.Contains(t, text, "Active Sessions (2)")
	assert.Contains(t, text, "Ruleset: legacy")
	assert.Contains(t, text, "Ruleset: standard")
}

func TestHandleGameState(t *testing.T) {
	s := createTestServer(t)
	id := newGame(t, s, nil)

	text, isErr := call(t, s.handleGameState, "game_state", map[string]interface{}{"session_id": strings.ToUpper(id)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Session: "+id)
	assert.Contains(t, text, "---------------------")
}

func TestHandleListRulesets(t *testing.T) {
	s := createTestServer(t)

	text, isErr := call(t, s.handleListRulesets, "list_rulesets", nil)
	require.False(t, isErr)
	assert.Contains(t, text, "• standard (default)")
	assert.Contains(t, text, "• classic")
	assert.Contains(t, text, "• legacy")
	assert.Contains(t, text, "Spawn on no-op: true")
}

func TestHandleGameInstructions(t *testing.T) {
	s := createTestServer(t)

	text, isErr := call(t, s.handleGameInstructions, "game_instructions", nil)
	require.False(t, isErr)
	assert.Contains(t, text, "GAME OBJECTIVE")
	assert.Contains(t, text, "VICTORY CONDITIONS")
}

func TestFormatMoveResult(t *testing.T) {
	assert.Equal(t, "✗ Moved up, board unchanged\n", formatMoveResult(engine.MoveResult{
		Direction: engine.Up,
		Status:    engine.Playing,
	}))

	assert.Equal(t, "✓ Moved left, new 2 at (0,3)\nYou win!\n", formatMoveResult(engine.MoveResult{
		Direction: engine.Left,
		Changed:   true,
		Spawned:   &engine.Spawn{Position: engine.Position{Row: 0, Col: 3}, Value: 2},
		Status:    engine.Won,
	}))
}
