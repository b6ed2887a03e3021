// Package solver searches for a safe route through a pursuit maze.
//
// The search is best-first over player positions. Each node also carries the
// enemy position produced by simulating the enemy's two-step turn after
// every move on the path, so a route is only accepted if the enemy never
// lands on the player along the way. By default the open list is ordered by
// step count alone with ties leaving in arrival order; WithHeuristic adds the
// straight-line distance to the finish to the ranking.
//
// Usage:
//
//	res, err := solver.Solve(ctx, grid, playerStart, enemyStart)
//	if err != nil {
//		return err
//	}
//	if !res.Reached {
//		log.Printf("no safe route, showing best effort after %d expansions", res.Expansions)
//	}
package solver
