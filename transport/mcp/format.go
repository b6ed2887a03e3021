package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/service"
)

const legend = "Legend: P player, E enemy, F finish, . solver route, | and --- walls. Up is toward the top line."

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nLevel: %s\nCreated: %s\n\n",
		session.ID, session.LevelID, session.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(formatStateHeader(session.GameState))
	b.WriteString(formatMaze(session.Layout, session.GameState))
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}
	return formatStateHeader(state) + formatMaze(nil, state)
}

func formatStateHeader(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Player: (%d,%d) | Enemy: (%d,%d) | Finish: %s | Status: %s | Turns: %d | Undo depth: %d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.EnemyPos.X, state.EnemyPos.Y,
		formatPos(state.FinishPos), state.Status, state.TotalTurns, len(state.UndoHistory))
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	if moves := possibleMoves(state); len(moves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(moves, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

// formatMaze prints the server-rendered layout, or renders one from the
// state when the response carried none.
func formatMaze(layout []string, state *engine.GameState) string {
	if len(layout) == 0 && state != nil && state.Grid.Validate() == nil {
		layout = engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil)
	}
	if len(layout) == 0 {
		return ""
	}
	return strings.Join(layout, "\n") + "\n" + legend + "\n"
}

func formatPos(p engine.Position) string {
	if p == engine.NotFound {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// possibleMoves mirrors the server's list for states fetched without one
func possibleMoves(state *engine.GameState) []string {
	if state == nil || state.Status.Terminal() || state.Grid.Validate() != nil || !state.Grid.InBounds(state.PlayerPos) {
		return nil
	}
	var moves []string
	for _, dir := range engine.Directions {
		if !state.Grid.Blocked(state.PlayerPos, dir) {
			moves = append(moves, string(dir))
		}
	}
	return append(moves, engine.ActionWait)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Action accepted\n")
	} else {
		b.WriteString("✗ Action rejected\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s player (%d,%d)→(%d,%d), enemy (%d,%d)→%s, outcome %s\n",
			s.Action, s.From.X, s.From.Y, s.To.X, s.To.Y, s.EnemyFrom.X, s.EnemyFrom.Y,
			formatPath(s.EnemySteps), s.Outcome)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d), reason %s\n", a.X, a.Y, a.Reason)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatStateHeader(result.GameState))
	b.WriteString(formatMaze(result.Layout, result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	level := ""
	if result.GameState != nil {
		level = result.GameState.LevelName
	}
	fmt.Fprintf(&b, "Session: %s • Level: %s\n", sessionID, level)
	fmt.Fprintf(&b, "Executed %d/%d actions", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on action %d: %s [%s]\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d), reason %s\n", a.X, a.Y, a.Reason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) enemy→%s %s\n",
				s.Idx, s.Action, s.From.X, s.From.Y, s.To.X, s.To.Y, formatPath(s.EnemySteps), s.Outcome)
		}
	}

	fmt.Fprintf(&b, "\nPlayer: (%d,%d)→(%d,%d) | Enemy: (%d,%d)→(%d,%d) | Outcome: %s\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y,
		result.StartEnemyPos.X, result.StartEnemyPos.Y, result.EndEnemyPos.X, result.EndEnemyPos.Y,
		result.Outcome)
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}
	b.WriteString("\n")
	b.WriteString(formatMaze(result.Layout, result.GameState))
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	var b strings.Builder
	if result.Result == nil {
		return "Solver returned no result"
	}

	switch {
	case result.Reached:
		fmt.Fprintf(&b, "✓ Safe route to the finish in %d moves\n", len(result.Moves))
	case result.TimedOut:
		b.WriteString("✗ Search timed out before a route was found\n")
	case result.CapReached:
		fmt.Fprintf(&b, "✗ Search budget of %d expansions spent before a route was found\n", result.Expansions)
	default:
		b.WriteString("✗ No safe route exists from this position\n")
	}
	if len(result.Moves) > 0 {
		fmt.Fprintf(&b, "Moves: %s\n", strings.Join(result.Moves, ", "))
	}
	if !result.Reached && len(result.PlayerPath) > 0 {
		b.WriteString("Shown: the best partial route found\n")
	}
	fmt.Fprintf(&b, "Expansions: %d | Open remaining: %d | Took: %s\n\n",
		result.Expansions, result.OpenRemaining, result.Duration)
	if len(result.Layout) > 0 {
		b.WriteString(strings.Join(result.Layout, "\n") + "\n" + legend + "\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d, %d turns total)\n\n", history.Page, history.TotalPages, history.TotalTurns)
	for _, turn := range history.Turns {
		fmt.Fprintf(&b, "#%d %s player (%d,%d)→(%d,%d) enemy (%d,%d)→%s %s\n",
			turn.TurnNumber, turn.Action,
			turn.PlayerFrom.X, turn.PlayerFrom.Y, turn.PlayerTo.X, turn.PlayerTo.Y,
			turn.EnemyFrom.X, turn.EnemyFrom.Y, formatPath(turn.EnemySteps), turn.Outcome)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore turns on page %d\n", history.Page+1)
	}
	return b.String()
}

func formatPath(path []engine.Position) string {
	if len(path) == 0 {
		return "-"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, "→")
}

// describeCell reports the walls around a cell and what stands on it
func describeCell(state *engine.GameState, pos engine.Position) (string, error) {
	if state == nil || state.Grid.Validate() != nil {
		return "", fmt.Errorf("game state has no usable grid")
	}
	if !state.Grid.InBounds(pos) {
		return "", fmt.Errorf("cell (%d,%d) is outside the %dx%d maze", pos.X, pos.Y, state.Grid.Width, state.Grid.Height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d)\n", pos.X, pos.Y)

	var occupants []string
	if pos == state.PlayerPos {
		occupants = append(occupants, "player")
	}
	if pos == state.EnemyPos {
		occupants = append(occupants, "enemy")
	}
	if state.Grid.Cell(pos).IsFinish {
		occupants = append(occupants, "finish")
	}
	if len(occupants) == 0 {
		occupants = append(occupants, "empty")
	}
	fmt.Fprintf(&b, "Contains: %s\n", strings.Join(occupants, ", "))

	for _, dir := range engine.Directions {
		next := state.Grid.Step(pos, dir)
		switch {
		case !state.Grid.Blocked(pos, dir):
			fmt.Fprintf(&b, "%-5s open to (%d,%d)\n", dir, next.X, next.Y)
		case !state.Grid.InBounds(next):
			fmt.Fprintf(&b, "%-5s boundary\n", dir)
		default:
			fmt.Fprintf(&b, "%-5s wall\n", dir)
		}
	}
	return b.String(), nil
}
