package engine

import "math"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// EuclideanDistance is the straight-line distance between two cells
func EuclideanDistance(from, to Position) float64 {
	dx := float64(from.X - to.X)
	dy := float64(from.Y - to.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ReachableCells counts the cells the player could walk to from start,
// ignoring the enemy. Used to spot sealed-off regions in a level.
func ReachableCells(g *Grid, start Position) int {
	if g.Validate() != nil || !g.InBounds(start) {
		return 0
	}
	seen := map[Position]bool{start: true}
	queue := []Position{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, dir := range Directions {
			if g.Blocked(p, dir) {
				continue
			}
			n := g.Step(p, dir)
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
