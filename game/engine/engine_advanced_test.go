package engine

import (
	"errors"
	"testing"
)

func TestEngine_UndoRestoresPositions(t *testing.T) {
	e := newTestEngine(t)

	e.MovePlayer(Right)
	if e.UndoDepth() != 1 {
		t.Fatalf("Expected depth 1, got %d", e.UndoDepth())
	}
	afterPlayer, afterEnemy := e.PlayerPosition(), e.EnemyPosition()

	if !e.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if e.PlayerPosition() != (Position{0, 0}) || e.EnemyPosition() != (Position{0, 2}) {
		t.Errorf("Expected spawn positions after undo, got player %v enemy %v", e.PlayerPosition(), e.EnemyPosition())
	}
	if e.UndoDepth() != 0 {
		t.Errorf("Expected depth 0 after undo, got %d", e.UndoDepth())
	}

	// Replaying the same input lands in exactly the same place.
	e.MovePlayer(Right)
	if e.PlayerPosition() != afterPlayer || e.EnemyPosition() != afterEnemy {
		t.Errorf("Replay mismatch: player %v enemy %v, expected %v %v",
			e.PlayerPosition(), e.EnemyPosition(), afterPlayer, afterEnemy)
	}
	if e.UndoDepth() != 1 {
		t.Errorf("Expected depth 1 after replay, got %d", e.UndoDepth())
	}
}

func TestEngine_UndoOncePerFrame(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)
	e.MovePlayer(Up)
	if e.PlayerPosition() != (Position{1, 1}) {
		t.Fatalf("Setup: expected player (1,1), got %v", e.PlayerPosition())
	}

	if !e.Undo() {
		t.Fatal("Expected first undo to succeed")
	}
	if e.Undo() {
		t.Error("Second undo in the same frame should be rejected")
	}
	if e.PlayerPosition() != (Position{1, 0}) {
		t.Errorf("Expected player (1,0), got %v", e.PlayerPosition())
	}

	e.BeginFrame()
	if !e.Undo() {
		t.Error("Expected undo to work again in a new frame")
	}
	if e.PlayerPosition() != (Position{0, 0}) || e.EnemyPosition() != (Position{0, 2}) {
		t.Errorf("Expected spawns, got player %v enemy %v", e.PlayerPosition(), e.EnemyPosition())
	}
}

func TestEngine_UndoThenMoveSameFrameSequence(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)

	if !e.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	// A move starts a new frame, so undo is available again afterwards.
	e.MovePlayer(Right)
	if !e.Undo() {
		t.Error("Expected undo after a new move to succeed")
	}
}

func TestEngine_UndoUnavailable(t *testing.T) {
	e := newTestEngine(t)

	if e.Undo() {
		t.Error("Undo with empty history should be a no-op")
	}
	if e.GetState().TotalTurns != 0 {
		t.Error("Rejected undo should not be recorded")
	}

	e.MovePlayer(Up) // caught
	if e.Undo() {
		t.Error("Undo should be disabled after defeat")
	}
}

func TestEngine_UndoClearsPendingWait(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)
	e.RequestWait()

	if !e.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if e.GetState().PendingWait {
		t.Error("Undo should cancel a pending wait")
	}
	if outcome := e.Tick(Input{}); outcome != Continue || e.UndoDepth() != 0 {
		t.Errorf("Empty frame should not resolve a turn, got %s depth %d", outcome, e.UndoDepth())
	}
}

func TestEngine_InputPriority(t *testing.T) {
	t.Run("out of bounds key is skipped", func(t *testing.T) {
		e := newTestEngine(t)
		// Down is pressed but the player is on the bottom row.
		e.Tick(Input{Down: true, Right: true})
		if e.PlayerPosition() != (Position{1, 0}) {
			t.Errorf("Expected right to be taken, got %v", e.PlayerPosition())
		}
	})

	t.Run("up wins over left", func(t *testing.T) {
		e := newTestEngine(t)
		e.MovePlayer(Right)
		e.Tick(Input{Up: true, Left: true})
		if e.PlayerPosition() != (Position{1, 1}) {
			t.Errorf("Expected up to be taken, got %v", e.PlayerPosition())
		}
	})

	t.Run("walled key does not fall through", func(t *testing.T) {
		e := newTestEngine(t)
		e.MovePlayer(Right)
		e.MovePlayer(Up)
		turns := e.GetState().TotalTurns

		outcome := e.Tick(Input{Up: true, Left: true})
		if outcome != Continue {
			t.Fatalf("Expected continue, got %s", outcome)
		}
		if e.PlayerPosition() != (Position{1, 1}) {
			t.Errorf("Left must not be tried after a blocked up, got %v", e.PlayerPosition())
		}
		if e.GetState().TotalTurns != turns {
			t.Error("Blocked input should not resolve a turn")
		}
		if e.GetState().Message != "Wall up" {
			t.Errorf("Expected blocked message, got %q", e.GetState().Message)
		}
	})

	t.Run("pending wait used when key is walled", func(t *testing.T) {
		e := newTestEngine(t)
		e.MovePlayer(Right)
		e.MovePlayer(Up)
		depth := e.UndoDepth()

		outcome := e.Tick(Input{Up: true, Wait: true})
		if outcome != Continue {
			t.Fatalf("Expected continue, got %s", outcome)
		}
		if e.UndoDepth() != depth+1 {
			t.Errorf("Expected wait to push an undo step")
		}
		if e.GetLastTurn().Action != ActionWait {
			t.Errorf("Expected wait recorded, got %q", e.GetLastTurn().Action)
		}
		if e.GetState().PendingWait {
			t.Error("Pending wait should be consumed")
		}
	})

	t.Run("move takes precedence over pending wait", func(t *testing.T) {
		e := newTestEngine(t)
		e.RequestWait()
		e.Tick(Input{Right: true})
		if e.GetLastTurn().Action != string(Right) {
			t.Errorf("Expected move recorded, got %q", e.GetLastTurn().Action)
		}
		if e.GetState().PendingWait {
			t.Error("Pending wait should be cleared after a resolved turn")
		}
	})
}

func TestEngine_InvalidGridRefusesInput(t *testing.T) {
	e := newTestEngine(t)
	state := e.GetState()
	state.Grid = &Grid{Width: 3, Height: 3, Cells: make([]Cell, 2)}

	if outcome := e.MovePlayer(Right); outcome != Continue {
		t.Errorf("Expected no-op continue, got %s", outcome)
	}
	if e.Wait() != Continue {
		t.Error("Expected wait to be a no-op")
	}
	if e.PlayerPosition() != (Position{0, 0}) || e.UndoDepth() != 0 {
		t.Error("Corrupted grid must not be mutated through")
	}
	if e.CanMove(Right) {
		t.Error("CanMove should be false on an invalid grid")
	}
	if e.FinishPosition() != NotFound {
		t.Errorf("Expected NotFound, got %v", e.FinishPosition())
	}
}

func TestEngine_OffGridPositionsRefuseInput(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)
	state := e.GetState()
	state.PlayerPos = Position{X: 7, Y: 7}

	if outcome := e.Wait(); outcome != Continue {
		t.Errorf("Expected no-op continue, got %s", outcome)
	}
	if e.Undo() {
		t.Error("Undo should refuse an off-grid state")
	}
	if e.UndoDepth() != 1 || state.TotalTurns != 1 {
		t.Errorf("Off-grid state must not be mutated, got depth %d turns %d", e.UndoDepth(), state.TotalTurns)
	}
	if len(e.PossibleMoves()) != 0 {
		t.Errorf("Expected no possible moves, got %v", e.PossibleMoves())
	}

	fresh := newTestEngine(t)
	bad := fresh.Snapshot()
	bad.EnemyPos = Position{X: -1, Y: 0}
	if err := fresh.SetState(bad); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}
}

func TestGameState_Clone(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)

	live := e.GetState()
	snap := e.Snapshot()
	if snap == live || snap.Grid == live.Grid {
		t.Fatal("Snapshot must not share the state or grid")
	}

	snap.Grid.Cells[0].BlockedUp = !live.Grid.Cells[0].BlockedUp
	snap.UndoHistory[0].Player = Position{X: 2, Y: 2}
	snap.TurnHistory[0].EnemySteps[0] = Position{X: 2, Y: 2}
	snap.CurrentTurns[0].Action = "edited"

	if live.Grid.Cells[0].BlockedUp == snap.Grid.Cells[0].BlockedUp {
		t.Error("Grid edit leaked into the live state")
	}
	if live.UndoHistory[0].Player == (Position{X: 2, Y: 2}) {
		t.Error("Undo edit leaked into the live state")
	}
	if live.TurnHistory[0].EnemySteps[0] == (Position{X: 2, Y: 2}) {
		t.Error("History edit leaked into the live state")
	}
	if live.CurrentTurns[0].Action == "edited" {
		t.Error("Current turn edit leaked into the live state")
	}

	var nilState *GameState
	if nilState.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestEngine_NoFinishNeverWins(t *testing.T) {
	g := NewGrid(3, 1)
	g.SetWall(Position{1, 0}, Right, true)

	e, err := NewEngineFromGrid(g, Position{0, 0}, Position{2, 0})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if e.FinishPosition() != NotFound {
		t.Fatalf("Expected NotFound, got %v", e.FinishPosition())
	}

	for i := 0; i < 20; i++ {
		dir := Right
		if i%2 == 1 {
			dir = Left
		}
		if outcome := e.MovePlayer(dir); outcome != Continue {
			t.Fatalf("Move %d: expected continue, got %s", i, outcome)
		}
	}
	if e.EnemyPosition() != (Position{2, 0}) {
		t.Errorf("Walled-off enemy should not move, got %v", e.EnemyPosition())
	}
}

func TestEngine_BulkMove(t *testing.T) {
	t.Run("stops at victory", func(t *testing.T) {
		e := newTestEngine(t)
		results := e.BulkMove([]string{"right", "right", "up", "left"})

		if len(results) != 2 {
			t.Fatalf("Expected 2 results before victory, got %d", len(results))
		}
		if !results[0] || !results[1] {
			t.Errorf("Expected both moves accepted, got %v", results)
		}
		if !e.IsVictory() {
			t.Error("Expected victory")
		}
	})

	t.Run("blocked and unknown actions are not accepted", func(t *testing.T) {
		e := newTestEngine(t)
		results := e.BulkMove([]string{"left", "jump", "right"})

		expected := []bool{false, false, true}
		if len(results) != len(expected) {
			t.Fatalf("Expected %d results, got %d", len(expected), len(results))
		}
		for i := range expected {
			if results[i] != expected[i] {
				t.Errorf("Result %d: expected %v, got %v", i, expected[i], results[i])
			}
		}
	})

	t.Run("wait counts as an action", func(t *testing.T) {
		e := newTestEngine(t)
		e.MovePlayer(Right)
		e.MovePlayer(Up)
		results := e.BulkMove([]string{"wait", "wait"})
		if len(results) != 2 || !results[0] || !results[1] {
			t.Errorf("Expected two accepted waits, got %v", results)
		}
		if e.EnemyPosition() != (Position{1, 2}) {
			t.Errorf("Enemy should be stuck behind the wall, got %v", e.EnemyPosition())
		}
	})
}

func TestEngine_TurnHistory(t *testing.T) {
	e := newTestEngine(t)
	e.MovePlayer(Right)
	e.Undo()
	e.MovePlayer(Right)

	history := e.GetTurnHistory()
	if len(history) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(history))
	}

	actions := []string{"right", "undo", "right"}
	for i, entry := range history {
		if entry.Action != actions[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, actions[i], entry.Action)
		}
		if entry.TurnNumber != i+1 {
			t.Errorf("Entry %d: expected turn number %d, got %d", i, i+1, entry.TurnNumber)
		}
		if entry.Timestamp == 0 {
			t.Errorf("Entry %d: missing timestamp", i)
		}
	}

	first := history[0]
	if first.PlayerFrom != (Position{0, 0}) || first.PlayerTo != (Position{1, 0}) {
		t.Errorf("Unexpected player move %v -> %v", first.PlayerFrom, first.PlayerTo)
	}
	if first.EnemyFrom != (Position{0, 2}) || len(first.EnemySteps) != 2 {
		t.Errorf("Unexpected enemy record %v %v", first.EnemyFrom, first.EnemySteps)
	}
	if history[1].UndoDepth != 0 || history[2].UndoDepth != 1 {
		t.Errorf("Unexpected undo depths %d, %d", history[1].UndoDepth, history[2].UndoDepth)
	}
}
