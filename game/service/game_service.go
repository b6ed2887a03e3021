package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrInvalidAction    = errors.New("invalid action")
	ErrGameOver         = errors.New("game is over")
	ErrLevelNotComplete = errors.New("level not complete")
	ErrNoNextLevel      = errors.New("level has no next level")
	ErrUnsolvableState  = errors.New("session state cannot be solved")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn Operations
	Move(ctx context.Context, sessionID, action string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, actions []string, reset bool) (*BulkMoveResult, error)
	Wait(ctx context.Context, sessionID string) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	NextLevel(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, levelID string, level *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, levelID string, level *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level loading
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.LevelConfig
	GetDefaultID() string
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Level          *engine.LevelConfig
	LevelID        string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
