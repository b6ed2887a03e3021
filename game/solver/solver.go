package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

var (
	// ErrInvalidGrid is returned when the grid's cells do not match its size.
	ErrInvalidGrid = errors.New("solver: invalid grid")
	// ErrOutOfBounds is returned when a start position is outside the grid.
	ErrOutOfBounds = errors.New("solver: start position outside grid")
)

// expansionOrder is the order neighbours are generated in.
var expansionOrder = []engine.Direction{engine.Left, engine.Right, engine.Down, engine.Up}

// Options configure a search
type Options struct {
	MaxExpansions int
	// UseHeuristic orders the open list by steps plus straight-line distance
	// to the finish instead of by steps alone.
	UseHeuristic bool
	// LegacyRightWall makes simulated rightward enemy steps test the right
	// wall of the enemy's starting cell instead of the cell it stands on.
	LegacyRightWall bool
}

// Option mutates Options
type Option func(*Options)

// WithMaxExpansions bounds the number of nodes taken off the open list.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxExpansions = n
		}
	}
}

// WithHeuristic switches between steps-first ordering (the default) and
// steps-plus-distance ordering.
func WithHeuristic(enabled bool) Option {
	return func(o *Options) {
		o.UseHeuristic = enabled
	}
}

// WithLegacyRightWall reproduces the first-generation solver, which read the
// right wall of the enemy's starting cell for every rightward enemy step. An
// enemy that starts against a right wall then never moves right during the
// search, so routes can be found that the turn engine would intercept.
func WithLegacyRightWall(enabled bool) Option {
	return func(o *Options) {
		o.LegacyRightWall = enabled
	}
}

// Result is the outcome of a search. When Reached is false the paths lead to
// the last node examined and may not be safe to follow to the end.
type Result struct {
	PlayerPath    []engine.Position `json:"player_path"`
	EnemyPath     []engine.Position `json:"enemy_path"`
	Finish        engine.Position   `json:"finish"`
	Reached       bool              `json:"reached"`
	CapReached    bool              `json:"cap_reached"`
	Expansions    int               `json:"expansions"`
	OpenRemaining int               `json:"open_remaining"`
}

// Solver finds player routes that the pursuing enemy cannot intercept.
type Solver struct {
	opts Options
}

// New creates a solver with default options overridden by opts
func New(opts ...Option) *Solver {
	o := Options{MaxExpansions: engine.DefaultMaxExpansions}
	for _, opt := range opts {
		opt(&o)
	}
	return &Solver{opts: o}
}

// Solve runs a search with a default solver
func Solve(ctx context.Context, grid *engine.Grid, playerStart, enemyStart engine.Position, opts ...Option) (*Result, error) {
	return New(opts...).Solve(ctx, grid, playerStart, enemyStart)
}

// Solve searches from the given start positions toward the grid's finish
// cell. The grid is cloned first, so the caller may keep mutating it.
//
// Every candidate move simulates a full enemy turn; a move after which the
// enemy stands on the player is never enqueued. Player positions are closed
// once expanded. The search stops at the finish, when the open list is
// empty, or when MaxExpansions nodes have been expanded. Cancelling ctx stops
// it between expansions and returns the partial result with ctx.Err().
func (s *Solver) Solve(ctx context.Context, grid *engine.Grid, playerStart, enemyStart engine.Position, opts ...Option) (*Result, error) {
	o := s.opts
	for _, opt := range opts {
		opt(&o)
	}

	g := grid.Clone()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	if !g.InBounds(playerStart) || !g.InBounds(enemyStart) {
		return nil, fmt.Errorf("%w: player %v enemy %v", ErrOutOfBounds, playerStart, enemyStart)
	}

	finish := g.FinishPosition()
	heuristic := func(p engine.Position) float64 {
		if finish == engine.NotFound {
			return 0
		}
		return engine.EuclideanDistance(p, finish)
	}

	open := &openList{heuristic: o.UseHeuristic}
	closed := make(map[engine.Position]bool)
	seq := 0

	current := &node{player: playerStart, enemy: enemyStart, h: heuristic(playerStart)}
	open.push(current)

	result := &Result{Finish: finish}
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			result.OpenRemaining = open.Len()
			result.fill(current)
			return result, err
		}
		if result.Expansions >= o.MaxExpansions {
			result.CapReached = true
			break
		}

		current = open.pop()
		result.Expansions++
		closed[current.player] = true

		if current.player == finish {
			result.Reached = true
			break
		}

		for _, dir := range expansionOrder {
			if g.Blocked(current.player, dir) {
				continue
			}
			next := g.Step(current.player, dir)
			if closed[next] {
				continue
			}
			var (
				steps  []engine.Position
				caught bool
			)
			if o.LegacyRightWall {
				steps, caught = legacyPursuitTurn(g, next, current.enemy, enemyStart)
			} else {
				steps, caught = g.PursuitTurn(next, current.enemy)
			}
			if caught {
				continue
			}
			seq++
			open.push(&node{
				player:     next,
				enemy:      steps[len(steps)-1],
				g:          current.g + 1,
				h:          heuristic(next),
				parent:     current,
				enemySteps: steps,
				seq:        seq,
			})
		}
	}

	result.OpenRemaining = open.Len()
	result.fill(current)
	return result, nil
}

// legacyPursuitTurn is PursuitTurn except that a rightward step is checked
// against anchor's right wall rather than the enemy's own.
func legacyPursuitTurn(g *engine.Grid, player, enemy, anchor engine.Position) ([]engine.Position, bool) {
	steps := make([]engine.Position, 0, engine.EnemySubSteps)
	for i := 0; i < engine.EnemySubSteps; i++ {
		if player.X > enemy.X {
			dest := g.Step(enemy, engine.Right)
			if g.InBounds(dest) && !g.Cell(anchor).BlockedRight && !g.Cell(dest).BlockedLeft {
				enemy = dest
			}
		} else {
			enemy = g.PursuitStep(player, enemy)
		}
		steps = append(steps, enemy)
		if enemy == player {
			return steps, true
		}
	}
	return steps, false
}

// fill reconstructs both paths by walking parent links back to the root.
func (r *Result) fill(last *node) {
	var chain []*node
	for n := last; n != nil; n = n.parent {
		chain = append(chain, n)
	}

	r.PlayerPath = make([]engine.Position, 0, len(chain))
	r.EnemyPath = make([]engine.Position, 0, 2*len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		r.PlayerPath = append(r.PlayerPath, chain[i].player)
		r.EnemyPath = append(r.EnemyPath, chain[i].enemySteps...)
	}
}

// Moves converts the player path into the directions that walk it.
func (r *Result) Moves() []engine.Direction {
	moves := make([]engine.Direction, 0, len(r.PlayerPath))
	for i := 1; i < len(r.PlayerPath); i++ {
		from, to := r.PlayerPath[i-1], r.PlayerPath[i]
		switch {
		case to.X > from.X:
			moves = append(moves, engine.Right)
		case to.X < from.X:
			moves = append(moves, engine.Left)
		case to.Y > from.Y:
			moves = append(moves, engine.Up)
		default:
			moves = append(moves, engine.Down)
		}
	}
	return moves
}
