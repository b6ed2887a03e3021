package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned for a game state whose positions do not fit
// its grid.
var ErrInvalidState = errors.New("invalid game state")

// Validate checks the grid and that every stored position lies on it.
func (gs *GameState) Validate() error {
	if gs == nil {
		return fmt.Errorf("%w: state is nil", ErrInvalidState)
	}
	if err := gs.Grid.Validate(); err != nil {
		return err
	}

	positions := map[string]Position{
		"player":       gs.PlayerPos,
		"enemy":        gs.EnemyPos,
		"player spawn": gs.PlayerSpawn,
		"enemy spawn":  gs.EnemySpawn,
	}
	for name, pos := range positions {
		if !gs.Grid.InBounds(pos) {
			return fmt.Errorf("%w: %s %v is outside the %dx%d grid", ErrInvalidState, name, pos, gs.Grid.Width, gs.Grid.Height)
		}
	}
	for i, step := range gs.UndoHistory {
		if !gs.Grid.InBounds(step.Player) || !gs.Grid.InBounds(step.Enemy) {
			return fmt.Errorf("%w: undo step %d leaves the grid", ErrInvalidState, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy that shares no memory with gs.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.Grid = gs.Grid.Clone()
	if gs.UndoHistory != nil {
		c.UndoHistory = make([]UndoStep, len(gs.UndoHistory))
		copy(c.UndoHistory, gs.UndoHistory)
	}
	c.TurnHistory = cloneTurns(gs.TurnHistory)
	c.CurrentTurns = cloneTurns(gs.CurrentTurns)
	return &c
}

func cloneTurns(turns []TurnRecord) []TurnRecord {
	if turns == nil {
		return nil
	}
	out := make([]TurnRecord, len(turns))
	for i, t := range turns {
		if t.EnemySteps != nil {
			t.EnemySteps = append(make([]Position, 0, len(t.EnemySteps)), t.EnemySteps...)
		}
		out[i] = t
	}
	return out
}
