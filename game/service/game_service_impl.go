package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/solver"
)

// DefaultSolveTimeout bounds a solve request when no timeout is configured
const DefaultSolveTimeout = 5 * time.Second

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions     SessionManager
	levels       LevelManager
	solveTimeout time.Duration
	mu           sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithSolveTimeout bounds how long a solve request may search
func WithSolveTimeout(d time.Duration) Option {
	return func(s *gameServiceImpl) {
		if d > 0 {
			s.solveTimeout = d
		}
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:     sessions,
		levels:       levels,
		solveTimeout: DefaultSolveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.LevelConfig
	var err error
	levelID := strings.TrimSuffix(levelName, ".json")
	if levelID != "" {
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrLevelNotFound) {
				available, listErr := s.levels.ListLevels()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, lvl := range available {
						ids = append(ids, lvl.LevelID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available levels: %v", ErrLevelNotFound, levelID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/levels to list available levels", ErrLevelNotFound, levelID)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
		}
	} else {
		level = s.levels.GetDefault()
		levelID = s.levels.GetDefaultID()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", levelID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getSession(sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(sessionID)
}

// Move resolves one turn for a session. The action is a direction or "wait".
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, action string, reset bool) (*MoveResult, error) {
	normalized, ok := normalizeAction(action)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	result := applyAction(sess.Engine, normalized, 1)
	result.Events = append(events, result.Events...)

	s.persist(sessionID, "move")
	return result, nil
}

// BulkMove resolves actions in order, stopping at the first one that is
// rejected or ends the game
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, actions []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	e := sess.Engine
	result := &BulkMoveResult{
		RequestedMoves: len(actions),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		e.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	result.StartPos = e.PlayerPosition()
	result.StartEnemyPos = e.EnemyPosition()

	// Limit moves to prevent abuse
	if len(actions) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		actions = actions[:engine.MaxBulkMoves]
	}

	for i, action := range actions {
		if e.IsGameOver() {
			result.Success = false
			result.StoppedReason = "game is over"
			result.StopReasonCode = string(e.Status())
			result.StoppedOnMove = i + 1
			break
		}

		normalized, ok := normalizeAction(action)
		if !ok {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d is not a valid action: %q", i+1, action)
			result.StopReasonCode = "invalid_action"
			result.StoppedOnMove = i + 1
			break
		}

		step := applyAction(e, normalized, i+1)
		result.Events = append(result.Events, step.Events...)
		if !step.Success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, normalized)
			result.StopReasonCode = "blocked_" + step.AttemptedTo.Reason
			result.StoppedOnMove = i + 1
			result.AttemptedTo = step.AttemptedTo
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, *step.Step)
	}

	state := e.Snapshot()
	result.GameState = state
	result.EndPos = state.PlayerPos
	result.EndEnemyPos = state.EnemyPos
	result.GameOver = state.Status.Terminal()
	result.Outcome = state.Status
	result.Message = state.Message
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = string(state.Status)
	}
	result.PossibleMoves = possibleMoves(e)
	result.Layout = engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil)

	s.persist(sessionID, "bulk moves")
	return result, nil
}

// Wait resolves a turn in which the player stays put
func (s *gameServiceImpl) Wait(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.Move(ctx, sessionID, engine.ActionWait, false)
}

// Undo restores the positions from before the last action
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	e := sess.Engine
	// Each request is its own input frame
	e.BeginFrame()
	depth := e.UndoDepth()
	undone := e.Undo()

	state := e.Snapshot()
	result := &MoveResult{
		Success:       undone,
		Outcome:       state.Status,
		GameState:     state,
		Message:       state.Message,
		PossibleMoves: possibleMoves(e),
		Layout:        engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil),
	}

	switch {
	case undone:
		turn := e.GetLastTurn()
		result.Step = stepInfo(1, turn)
		result.Events = []GameEvent{{
			Type:      "undo",
			Message:   fmt.Sprintf("Player back to (%d,%d), enemy back to (%d,%d)", state.PlayerPos.X, state.PlayerPos.Y, state.EnemyPos.X, state.EnemyPos.Y),
			Timestamp: time.Now(),
			Position:  state.PlayerPos,
		}}
	case state.Status.Terminal():
		result.Message = "Cannot undo: the game is over"
	case depth == 0:
		result.Message = "Nothing to undo"
	}

	s.persist(sessionID, "undo")
	return result, nil
}

// Restart gives up the current attempt, ending it in defeat
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	e := sess.Engine
	wasOver := e.IsGameOver()
	e.Restart()

	state := e.Snapshot()
	result := &MoveResult{
		Success:   !wasOver,
		Outcome:   state.Status,
		GameState: state,
		Message:   state.Message,
		Layout:    engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil),
	}
	if wasOver {
		result.Message = "Cannot restart: the game is already over"
	} else {
		result.Events = []GameEvent{{
			Type:      "restart",
			Message:   state.Message,
			Timestamp: time.Now(),
			Position:  state.PlayerPos,
		}}
	}

	s.persist(sessionID, "restart")
	return result, nil
}

// Reset resets a game session to its level's initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset().Clone()

	s.persist(sessionID, "reset")
	return state, nil
}

// NextLevel moves a session that won its level on to the linked next level.
// The cumulative turn history carries over.
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	if state.Status != engine.Victory {
		return nil, fmt.Errorf("%w: status is %s", ErrLevelNotComplete, state.Status)
	}
	nextID := state.NextLevel
	if nextID == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrNoNextLevel, state.LevelName)
	}

	level, err := s.levels.LoadLevel(nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to load next level %s: %w", nextID, err)
	}
	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to start next level %s: %w", nextID, err)
	}

	fresh := eng.GetState()
	fresh.TurnHistory = state.TurnHistory
	fresh.TotalTurns = state.TotalTurns

	sess.Engine = eng
	sess.Level = level
	sess.LevelID = nextID

	s.persist(sessionID, "next level")
	return sessionInfo(sess), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Snapshot(), nil
}

// GetTurnHistory returns paginated turn history
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetTurnHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var turns []engine.TurnRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	if turns == nil {
		turns = []engine.TurnRecord{}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Solve searches for a safe route from the session's current positions. The
// session is only locked while its state is copied; the search itself runs
// unlocked under the service's solve timeout.
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error) {
	s.mu.RLock()
	sess, err := s.getSession(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	state := sess.Engine.GetState()
	if state.Status.Terminal() {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: status is %s", ErrGameOver, state.Status)
	}
	grid := state.Grid.Clone()
	player, enemy := state.PlayerPos, state.EnemyPos
	id := sess.ID
	s.mu.RUnlock()

	solveOpts := []solver.Option{
		solver.WithHeuristic(opts.Heuristic),
		solver.WithLegacyRightWall(opts.LegacyRightWall),
	}
	if opts.MaxExpansions > 0 {
		solveOpts = append(solveOpts, solver.WithMaxExpansions(opts.MaxExpansions))
	}

	ctx, cancel := context.WithTimeout(ctx, s.solveTimeout)
	defer cancel()

	started := time.Now()
	res, err := solver.Solve(ctx, grid, player, enemy, solveOpts...)
	timedOut := false
	if err != nil {
		if errors.Is(err, solver.ErrInvalidGrid) || errors.Is(err, solver.ErrOutOfBounds) {
			return nil, fmt.Errorf("%w: %v", ErrUnsolvableState, err)
		}
		if !errors.Is(err, context.DeadlineExceeded) || res == nil {
			return nil, fmt.Errorf("solve failed: %w", err)
		}
		timedOut = true
	}

	moves := make([]string, 0, len(res.PlayerPath))
	for _, dir := range res.Moves() {
		moves = append(moves, string(dir))
	}

	return &SolveResult{
		RequestID: uuid.NewString(),
		SessionID: id,
		Result:    res,
		Moves:     moves,
		TimedOut:  timedOut,
		Duration:  time.Since(started).String(),
		Layout:    engine.FormatLayout(grid, player, enemy, res.PlayerPath),
	}, nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(strings.TrimSuffix(levelName, ".json"))
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return sess, nil
}

// persist saves the session; failures are reported but do not fail the call
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after %s: %v\n", sessionID, after, err)
	}
}

// applyAction runs one normalized action against the engine and describes it
func applyAction(e *engine.GameEngine, action string, idx int) *MoveResult {
	from := e.PlayerPosition()

	if e.IsGameOver() {
		state := e.Snapshot()
		return &MoveResult{
			Success:     false,
			Outcome:     state.Status,
			GameState:   state,
			Message:     state.Message,
			AttemptedTo: &AttemptInfo{X: from.X, Y: from.Y, Reason: "game_over"},
			Layout:      engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil),
		}
	}

	accepted, outcome := e.Apply(action)
	state := e.Snapshot()
	result := &MoveResult{
		Success:       accepted,
		Outcome:       outcome,
		GameState:     state,
		Message:       state.Message,
		PossibleMoves: possibleMoves(e),
		Layout:        engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil),
	}

	if accepted {
		turn := e.GetLastTurn()
		result.Step = stepInfo(idx, turn)
		result.Events = turnEvents(turn, state)
		return result
	}

	dir, _ := engine.ParseDirection(action)
	target := state.Grid.Step(from, dir)
	reason := "wall"
	if !state.Grid.InBounds(target) {
		reason = "boundary"
	}
	result.AttemptedTo = &AttemptInfo{X: target.X, Y: target.Y, Reason: reason}
	return result
}

func stepInfo(idx int, turn *engine.TurnRecord) *StepInfo {
	if turn == nil {
		return nil
	}
	return &StepInfo{
		Idx:        idx,
		Action:     turn.Action,
		From:       turn.PlayerFrom,
		To:         turn.PlayerTo,
		EnemyFrom:  turn.EnemyFrom,
		EnemySteps: turn.EnemySteps,
		Outcome:    turn.Outcome,
	}
}

// turnEvents generates events from a resolved turn
func turnEvents(turn *engine.TurnRecord, state *engine.GameState) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if turn.Action == engine.ActionWait {
		events = append(events, GameEvent{
			Type:      "wait",
			Message:   fmt.Sprintf("Waited at (%d,%d)", turn.PlayerTo.X, turn.PlayerTo.Y),
			Timestamp: now,
			Position:  turn.PlayerTo,
		})
	} else {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", turn.Action, turn.PlayerTo.X, turn.PlayerTo.Y),
			Timestamp: now,
			Position:  turn.PlayerTo,
		})
	}

	for _, pos := range turn.EnemySteps {
		events = append(events, GameEvent{
			Type:      "enemy_move",
			Message:   fmt.Sprintf("Enemy at (%d,%d)", pos.X, pos.Y),
			Timestamp: now,
			Position:  pos,
		})
	}

	switch turn.Outcome {
	case engine.Victory:
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   state.Message,
			Timestamp: now,
			Position:  turn.PlayerTo,
		})
	case engine.Defeat:
		events = append(events, GameEvent{
			Type:      "capture",
			Message:   state.Message,
			Timestamp: now,
			Position:  state.EnemyPos,
		})
	}

	return events
}

func possibleMoves(e *engine.GameEngine) []string {
	if e.IsGameOver() {
		return nil
	}
	var moves []string
	for _, dir := range e.PossibleMoves() {
		moves = append(moves, string(dir))
	}
	return append(moves, engine.ActionWait)
}

// normalizeAction lower-cases an action and checks it is a direction or wait
func normalizeAction(action string) (string, bool) {
	a := strings.ToLower(strings.TrimSpace(action))
	if a == engine.ActionWait {
		return a, true
	}
	dir, ok := engine.ParseDirection(a)
	return string(dir), ok
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.LevelID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
		Level:          sess.Level,
		Layout:         engine.FormatLayout(state.Grid, state.PlayerPos, state.EnemyPos, nil),
	}
}
