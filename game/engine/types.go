package engine

import "strings"

// Direction is one of the four grid directions. Up is y+1: row 0 is the
// bottom of the maze.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// ActionWait is the null move accepted by BulkMove and the transports.
	ActionWait = "wait"

	// Validation constants
	MinGridSize          = 1
	MaxGridSize          = 64
	MaxBulkMoves         = 50
	DefaultMaxExpansions = 10000
	WebSocketBufferSize  = 256
)

// Directions lists the four directions in display order.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection normalises user input into a Direction
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	case Left:
		return Left, true
	case Right:
		return Right, true
	}
	return "", false
}

// Delta returns the unit offset for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the direction facing back
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NotFound is returned by lookups that find no cell.
var NotFound = Position{X: -1, Y: -1}

// Cell is one grid square: four edge flags and the finish marker.
type Cell struct {
	BlockedLeft  bool `json:"blocked_left,omitempty"`
	BlockedRight bool `json:"blocked_right,omitempty"`
	BlockedUp    bool `json:"blocked_up,omitempty"`
	BlockedDown  bool `json:"blocked_down,omitempty"`
	IsFinish     bool `json:"is_finish,omitempty"`
}

// Outcome is the result of resolving a turn
type Outcome string

const (
	Continue Outcome = "continue"
	Victory  Outcome = "victory"
	Defeat   Outcome = "defeat"
)

// Terminal reports whether the outcome freezes player input
func (o Outcome) Terminal() bool {
	return o == Victory || o == Defeat
}

// Phase is the turn engine's state machine position
type Phase string

const (
	PhasePlayerTurn Phase = "player_turn"
	PhaseEnemyTurn  Phase = "enemy_turn"
	PhaseOver       Phase = "over"
)

// UndoStep is the pair of positions captured before a player action.
type UndoStep struct {
	Player Position `json:"player"`
	Enemy  Position `json:"enemy"`
}

// Input is one polled frame of player input.
type Input struct {
	Down  bool
	Up    bool
	Left  bool
	Right bool
	Wait  bool
}

// GameState represents the complete state of one play session
type GameState struct {
	Grid        *Grid      `json:"grid"`
	PlayerPos   Position   `json:"player_pos"`
	EnemyPos    Position   `json:"enemy_pos"`
	PlayerSpawn Position   `json:"player_spawn"`
	EnemySpawn  Position   `json:"enemy_spawn"`
	FinishPos   Position   `json:"finish_pos"`
	UndoHistory []UndoStep `json:"undo_history"`
	Status      Outcome    `json:"status"`
	Phase       Phase      `json:"phase"`
	PendingWait bool       `json:"pending_wait"`
	JustUndid   bool       `json:"just_undid"`
	Message     string     `json:"message"`
	LevelName   string     `json:"level_name"`
	NextLevel   string     `json:"next_level,omitempty"`

	TurnHistory []TurnRecord `json:"turn_history"`
	TotalTurns  int          `json:"total_turns"`

	// CurrentTurns mirrors TurnHistory but is cleared when the level is
	// reloaded, while TurnHistory stays cumulative.
	CurrentTurns      []TurnRecord `json:"current_turns"`
	CurrentTurnsCount int          `json:"current_turns_count"`
}

// TurnRecord is one accepted action in the session history
type TurnRecord struct {
	Action     string     `json:"action"`
	PlayerFrom Position   `json:"player_from"`
	PlayerTo   Position   `json:"player_to"`
	EnemyFrom  Position   `json:"enemy_from"`
	EnemySteps []Position `json:"enemy_steps,omitempty"`
	Outcome    Outcome    `json:"outcome"`
	UndoDepth  int        `json:"undo_depth"`
	Timestamp  int64      `json:"timestamp"`
	TurnNumber int        `json:"turn_number"`
}
