package engine

// EnemySubSteps is how many single-cell moves the enemy makes per turn.
const EnemySubSteps = 2

// PursuitStep computes one enemy sub-step toward the player. The x gap is
// closed first; y is only considered once x is aligned. A blocked step
// leaves the enemy where it is.
func (g *Grid) PursuitStep(player, enemy Position) Position {
	var dir Direction
	switch {
	case player.X > enemy.X:
		dir = Right
	case player.X < enemy.X:
		dir = Left
	case player.Y > enemy.Y:
		dir = Up
	case player.Y < enemy.Y:
		dir = Down
	default:
		return enemy
	}
	if g.Blocked(enemy, dir) {
		return enemy
	}
	return g.Step(enemy, dir)
}

// PursuitTurn runs a full enemy turn against a stationary player and returns
// every sub-step position. It stops early on capture, so the slice may be
// shorter than EnemySubSteps.
func (g *Grid) PursuitTurn(player, enemy Position) (steps []Position, caught bool) {
	steps = make([]Position, 0, EnemySubSteps)
	for i := 0; i < EnemySubSteps; i++ {
		enemy = g.PursuitStep(player, enemy)
		steps = append(steps, enemy)
		if enemy == player {
			return steps, true
		}
	}
	return steps, false
}
