package engine

import "fmt"

// Engine provides the main interface for turn resolution
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	Status() Outcome

	// Turn operations
	Tick(in Input) Outcome
	MovePlayer(dir Direction) Outcome
	Wait() Outcome
	RequestWait()
	Undo() bool
	Restart()
	BeginFrame()
	Apply(action string) (bool, Outcome)
	BulkMove(actions []string) []bool

	// Read accessors
	PlayerPosition() Position
	EnemyPosition() Position
	FinishPosition() Position
	UndoDepth() int
	CanMove(dir Direction) bool
	PossibleMoves() []Direction

	// Level
	GetLevel() *LevelConfig

	// History
	GetTurnHistory() []TurnRecord
	GetLastTurn() *TurnRecord
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; the owner serialises access.
type GameEngine struct {
	state    *GameState
	level    *LevelConfig
	messages LevelMessages
}

// NewEngine creates a new game engine for the provided level
func NewEngine(level *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(level); err != nil {
		return nil, err
	}

	state, err := InitGameStateFromLevel(level)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		state:    state,
		level:    level,
		messages: level.Messages.withDefaults(),
	}, nil
}

// NewEngineFromGrid creates an engine over an already built grid. The grid
// is used as is and becomes owned by the engine.
func NewEngineFromGrid(grid *Grid, player, enemy Position) (*GameEngine, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if !grid.InBounds(player) || !grid.InBounds(enemy) {
		return nil, fmt.Errorf("spawn points %v and %v must be inside the %dx%d grid", player, enemy, grid.Width, grid.Height)
	}

	msgs := DefaultMessages()
	return &GameEngine{
		state:    newGameState(grid, player, enemy, "custom", "", msgs.Welcome),
		messages: msgs,
	}, nil
}

// GetState returns the live game state. Callers must hold whatever lock
// serialises the engine for as long as they use it.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a deep copy of the game state that is safe to hand to
// other goroutines.
func (e *GameEngine) Snapshot() *GameState {
	return e.state.Clone()
}

// SetState sets the game state (used for persistence loading). States whose
// positions fall outside their grid are refused.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := state.Validate(); err != nil {
		return err
	}
	e.state = state
	return nil
}

// Reset reloads the level: both actors return to their spawns and the undo
// stack and outcome are cleared. The cumulative turn history is kept.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.TurnHistory
	prevTotal := e.state.TotalTurns

	var fresh *GameState
	if e.level != nil {
		if s, err := InitGameStateFromLevel(e.level); err == nil {
			fresh = s
		}
	}
	if fresh == nil {
		s := e.state
		fresh = newGameState(s.Grid, s.PlayerSpawn, s.EnemySpawn, s.LevelName, s.NextLevel, e.messages.Welcome)
	}

	fresh.TurnHistory = prevHistory
	fresh.TotalTurns = prevTotal
	e.state = fresh
	return e.state
}

// IsGameOver returns whether the session reached a terminal outcome
func (e *GameEngine) IsGameOver() bool {
	return e.state.Status.Terminal()
}

// IsVictory returns whether the player reached the finish
func (e *GameEngine) IsVictory() bool {
	return e.state.Status == Victory
}

// Status returns the current outcome
func (e *GameEngine) Status() Outcome {
	return e.state.Status
}

// ready reports whether the engine can accept input at all. A grid whose
// cell count disagrees with its dimensions, or actors placed off the grid,
// are treated as uninitialised.
func (e *GameEngine) ready() bool {
	return e.state.Validate() == nil && !e.state.Status.Terminal()
}

// BeginFrame starts a new input frame, re-arming Undo.
func (e *GameEngine) BeginFrame() {
	e.state.JustUndid = false
}

// Tick processes one frame of polled input. Directions are examined in the
// order down, up, left, right and only the first pressed, in-bounds key is
// tried. If no move is accepted a pending wait is consumed instead.
func (e *GameEngine) Tick(in Input) Outcome {
	e.BeginFrame()
	if in.Wait {
		e.RequestWait()
	}
	if !e.ready() {
		return e.state.Status
	}

	s := e.state
	dir, pressed := s.selectDirection(in)
	if pressed && !s.Grid.Blocked(s.PlayerPos, dir) {
		return s.resolveTurn(string(dir), dir, e.messages)
	}
	if s.PendingWait {
		return s.resolveTurn(ActionWait, "", e.messages)
	}
	if pressed {
		s.Message = formatMessage(e.messages.Blocked, dir)
	}
	return s.Status
}

// MovePlayer runs a frame with a single direction key pressed
func (e *GameEngine) MovePlayer(dir Direction) Outcome {
	var in Input
	switch dir {
	case Down:
		in.Down = true
	case Up:
		in.Up = true
	case Left:
		in.Left = true
	case Right:
		in.Right = true
	}
	return e.Tick(in)
}

// RequestWait marks a wait to be consumed by the next frame. Ignored once
// the game is over.
func (e *GameEngine) RequestWait() {
	if e.state.Status.Terminal() {
		return
	}
	e.state.PendingWait = true
}

// Wait performs a null move: the undo step is still recorded and the enemy
// still takes its turn.
func (e *GameEngine) Wait() Outcome {
	return e.Tick(Input{Wait: true})
}

// Undo restores the positions saved before the last action. It returns false
// when the game is over, the history is empty, or an undo already happened
// in this frame.
func (e *GameEngine) Undo() bool {
	s := e.state
	if s.Status.Terminal() || len(s.UndoHistory) == 0 || s.JustUndid || s.Validate() != nil {
		return false
	}

	playerFrom, enemyFrom := s.PlayerPos, s.EnemyPos
	step := s.UndoHistory[len(s.UndoHistory)-1]
	s.UndoHistory = s.UndoHistory[:len(s.UndoHistory)-1]
	s.PlayerPos = step.Player
	s.EnemyPos = step.Enemy
	s.JustUndid = true
	s.PendingWait = false
	s.Phase = PhasePlayerTurn
	s.Message = e.messages.Undone

	s.AddTurnToHistory(TurnRecord{
		Action:     "undo",
		PlayerFrom: playerFrom,
		PlayerTo:   s.PlayerPos,
		EnemyFrom:  enemyFrom,
		EnemySteps: []Position{s.EnemyPos},
	})
	return true
}

// Restart gives up the current attempt by forcing a defeat. It does nothing
// if the game is already over.
func (e *GameEngine) Restart() {
	s := e.state
	if s.Status.Terminal() {
		return
	}
	s.Status = Defeat
	s.Phase = PhaseOver
	s.PendingWait = false
	s.Message = e.messages.GaveUp
	s.AddTurnToHistory(TurnRecord{
		Action:     "restart",
		PlayerFrom: s.PlayerPos,
		PlayerTo:   s.PlayerPos,
		EnemyFrom:  s.EnemyPos,
	})
}

// Apply performs a single named action ("up", "down", "left", "right" or
// "wait") as its own frame and reports whether a turn was resolved.
func (e *GameEngine) Apply(action string) (bool, Outcome) {
	before := e.state.TotalTurns
	var outcome Outcome
	if action == ActionWait {
		outcome = e.Wait()
	} else {
		dir, ok := ParseDirection(action)
		if !ok {
			return false, e.state.Status
		}
		outcome = e.MovePlayer(dir)
	}
	return e.state.TotalTurns > before, outcome
}

// PlayerPosition returns the current player position
func (e *GameEngine) PlayerPosition() Position {
	return e.state.PlayerPos
}

// EnemyPosition returns the current enemy position
func (e *GameEngine) EnemyPosition() Position {
	return e.state.EnemyPos
}

// FinishPosition returns the finish cell, or NotFound
func (e *GameEngine) FinishPosition() Position {
	if e.state.Grid.Validate() != nil {
		return NotFound
	}
	return e.state.Grid.FinishPosition()
}

// UndoDepth returns the number of actions that can be undone
func (e *GameEngine) UndoDepth() int {
	return len(e.state.UndoHistory)
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(dir Direction) bool {
	return e.state.CanMove(dir)
}

// PossibleMoves returns all directions the player can currently move
func (e *GameEngine) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetLevel returns the level the engine was built from, or nil for a raw grid
func (e *GameEngine) GetLevel() *LevelConfig {
	return e.level
}

// GetTurnHistory returns the complete turn history
func (e *GameEngine) GetTurnHistory() []TurnRecord {
	return e.state.TurnHistory
}

// GetLastTurn returns the last recorded turn, or nil if none
func (e *GameEngine) GetLastTurn() *TurnRecord {
	if len(e.state.TurnHistory) == 0 {
		return nil
	}
	return &e.state.TurnHistory[len(e.state.TurnHistory)-1]
}

// BulkMove applies actions in sequence and returns whether each one resolved
// a turn. It stops at the first terminal outcome.
func (e *GameEngine) BulkMove(actions []string) []bool {
	results := make([]bool, 0, len(actions))

	for _, action := range actions {
		if e.IsGameOver() {
			break
		}

		accepted, _ := e.Apply(action)
		results = append(results, accepted)
	}

	return results
}
