package engine

import (
	"fmt"
	"strings"
	"time"
)

// CanMove reports whether the player may step in dir
func (gs *GameState) CanMove(dir Direction) bool {
	if gs.Status.Terminal() || gs.Grid.Validate() != nil {
		return false
	}
	return !gs.Grid.Blocked(gs.PlayerPos, dir)
}

// selectDirection applies the polled input priority: down, up, left, right.
// A key qualifies only if it is pressed and its target row or column exists;
// the first qualifying key is the only one considered this frame.
func (gs *GameState) selectDirection(in Input) (Direction, bool) {
	p := gs.PlayerPos
	switch {
	case in.Down && p.Y > 0:
		return Down, true
	case in.Up && p.Y < gs.Grid.Height-1:
		return Up, true
	case in.Left && p.X > 0:
		return Left, true
	case in.Right && p.X < gs.Grid.Width-1:
		return Right, true
	}
	return "", false
}

// resolveTurn performs one accepted player action followed by the enemy
// turn. dir is empty for a wait.
func (gs *GameState) resolveTurn(action string, dir Direction, msgs LevelMessages) Outcome {
	playerFrom, enemyFrom := gs.PlayerPos, gs.EnemyPos
	gs.UndoHistory = append(gs.UndoHistory, UndoStep{Player: playerFrom, Enemy: enemyFrom})
	gs.PendingWait = false

	if dir != "" {
		gs.PlayerPos = gs.Grid.Step(playerFrom, dir)
		gs.Message = formatMessage(msgs.Moved, dir)
	} else {
		gs.Message = msgs.Waited
	}

	var steps []Position
	if gs.Grid.Cell(gs.PlayerPos).IsFinish {
		gs.Status = Victory
		gs.Phase = PhaseOver
		gs.Message = msgs.Victory
	} else {
		gs.Phase = PhaseEnemyTurn
		var caught bool
		steps, caught = gs.Grid.PursuitTurn(gs.PlayerPos, gs.EnemyPos)
		gs.EnemyPos = steps[len(steps)-1]
		if caught {
			gs.Status = Defeat
			gs.Phase = PhaseOver
			gs.Message = msgs.Caught
		} else {
			gs.Phase = PhasePlayerTurn
		}
	}

	gs.AddTurnToHistory(TurnRecord{
		Action:     action,
		PlayerFrom: playerFrom,
		PlayerTo:   gs.PlayerPos,
		EnemyFrom:  enemyFrom,
		EnemySteps: steps,
	})
	return gs.Status
}

// AddTurnToHistory appends an entry to both the cumulative and the current
// history, filling in the bookkeeping fields.
func (gs *GameState) AddTurnToHistory(entry TurnRecord) {
	entry.Outcome = gs.Status
	entry.UndoDepth = len(gs.UndoHistory)
	entry.Timestamp = time.Now().Unix()
	entry.TurnNumber = gs.TotalTurns + 1

	gs.TurnHistory = append(gs.TurnHistory, entry)
	gs.TotalTurns++

	gs.CurrentTurns = append(gs.CurrentTurns, entry)
	gs.CurrentTurnsCount++
}

// formatMessage fills a single %s verb when the template has one
func formatMessage(template string, dir Direction) string {
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, dir)
	}
	return template
}
