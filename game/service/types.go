package service

import (
	"time"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/solver"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	Level          *engine.LevelConfig `json:"level"`
	Layout         []string            `json:"layout"`
}

// MoveResult contains the result of a single action (move, wait, undo or
// restart)
type MoveResult struct {
	Success       bool              `json:"success"`
	Outcome       engine.Outcome    `json:"outcome"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
	Step          *StepInfo         `json:"step,omitempty"`
	AttemptedTo   *AttemptInfo      `json:"attempted_to,omitempty"`
	PossibleMoves []string          `json:"possible_moves,omitempty"`
	Layout        []string          `json:"layout,omitempty"`
}

// BulkMoveResult contains the result of multiple actions
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_boundary|blocked_wall|invalid_action|victory|defeat
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos      engine.Position `json:"start_pos"`
	EndPos        engine.Position `json:"end_pos"`
	StartEnemyPos engine.Position `json:"start_enemy_pos"`
	EndEnemyPos   engine.Position `json:"end_enemy_pos"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	GameOver      bool           `json:"game_over"`
	Outcome       engine.Outcome `json:"outcome"`
	Message       string         `json:"message,omitempty"`
	PossibleMoves []string       `json:"possible_moves,omitempty"`
	Layout        []string       `json:"layout,omitempty"`
}

// StepInfo is a compact record of one resolved turn
type StepInfo struct {
	Idx        int               `json:"idx"`
	Action     string            `json:"action"`
	From       engine.Position   `json:"from"`
	To         engine.Position   `json:"to"`
	EnemyFrom  engine.Position   `json:"enemy_from"`
	EnemySteps []engine.Position `json:"enemy_steps,omitempty"`
	Outcome    engine.Outcome    `json:"outcome"`
}

// AttemptInfo details a rejected move
type AttemptInfo struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Reason string `json:"reason"` // "boundary", "wall", "game_over"
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "wait", "enemy_move", "capture", "victory", "undo", "restart", "reset", "next_level"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// SolveOptions tune a solve request
type SolveOptions struct {
	MaxExpansions int  `json:"max_expansions,omitempty"`
	Heuristic     bool `json:"heuristic,omitempty"`

	// LegacyRightWall selects the first-generation enemy simulation
	LegacyRightWall bool `json:"legacy_right_wall,omitempty"`
}

// SolveResult is a solver run against a session snapshot
type SolveResult struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	*solver.Result
	Moves    []string `json:"moves"`
	TimedOut bool     `json:"timed_out,omitempty"`
	Duration string   `json:"duration"`
	Layout   []string `json:"layout,omitempty"`
}

// LevelInfo provides information about a level file
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	HasFinish   bool   `json:"has_finish"`
	NextLevel   string `json:"next_level,omitempty"`
}
