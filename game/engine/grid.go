package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidGridSize is returned when the cell slice does not match the
// declared dimensions.
var ErrInvalidGridSize = errors.New("invalid grid size")

// Grid is a rectangular maze of cells addressed by (x, y). Cells are stored
// row-major at index y*Width + x.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// NewGrid allocates a width x height grid with every boundary cell blocked on
// its outward sides.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := &g.Cells[y*width+x]
			if x == 0 {
				c.BlockedLeft = true
			}
			if x == width-1 {
				c.BlockedRight = true
			}
			if y == 0 {
				c.BlockedDown = true
			}
			if y == height-1 {
				c.BlockedUp = true
			}
		}
	}
	return g
}

// Validate checks the grid dimensions against the cell count
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: grid is nil", ErrInvalidGridSize)
	}
	if g.Width < MinGridSize || g.Height < MinGridSize {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGridSize, g.Width, g.Height)
	}
	if len(g.Cells) != g.Width*g.Height {
		return fmt.Errorf("%w: %d cells for %dx%d", ErrInvalidGridSize, len(g.Cells), g.Width, g.Height)
	}
	return nil
}

// Index returns the linear index of a position
func (g *Grid) Index(p Position) int {
	return p.Y*g.Width + p.X
}

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Cell returns the cell at p. p must be in bounds.
func (g *Grid) Cell(p Position) Cell {
	return g.Cells[g.Index(p)]
}

// Step returns the neighbour of pos in dir. The result is not bounds checked.
func (g *Grid) Step(pos Position, dir Direction) Position {
	dx, dy := dir.Delta()
	return Position{X: pos.X + dx, Y: pos.Y + dy}
}

// Blocked reports whether moving from pos toward dir is illegal. Both the
// source cell's edge and the destination's opposite edge are consulted, so a
// wall set on only one side still blocks in both directions.
func (g *Grid) Blocked(pos Position, dir Direction) bool {
	if !g.InBounds(pos) {
		return true
	}
	dest := g.Step(pos, dir)
	if dest == pos || !g.InBounds(dest) {
		return true
	}
	return edgeSet(g.Cell(pos), dir) || edgeSet(g.Cell(dest), dir.Opposite())
}

// FinishPosition scans the grid in index order and returns the first finish
// cell, or NotFound.
func (g *Grid) FinishPosition() Position {
	for i, c := range g.Cells {
		if c.IsFinish {
			if g.Width == 0 {
				break
			}
			return Position{X: i % g.Width, Y: i / g.Width}
		}
	}
	return NotFound
}

// FinishCount returns how many cells are flagged as the finish
func (g *Grid) FinishCount() int {
	count := 0
	for _, c := range g.Cells {
		if c.IsFinish {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Width: g.Width, Height: g.Height, Cells: cells}
}

// SetWall sets or clears the wall between pos and its neighbour in dir,
// updating both cells. Walls on the outer boundary only touch pos.
func (g *Grid) SetWall(pos Position, dir Direction, blocked bool) {
	if !g.InBounds(pos) {
		return
	}
	setEdge(&g.Cells[g.Index(pos)], dir, blocked)
	dest := g.Step(pos, dir)
	if g.InBounds(dest) {
		setEdge(&g.Cells[g.Index(dest)], dir.Opposite(), blocked)
	}
}

// SetEdge sets a single cell's edge flag without touching the neighbour.
func (g *Grid) SetEdge(pos Position, dir Direction, blocked bool) {
	if !g.InBounds(pos) {
		return
	}
	setEdge(&g.Cells[g.Index(pos)], dir, blocked)
}

// SetFinish marks pos as the only finish cell
func (g *Grid) SetFinish(pos Position) {
	for i := range g.Cells {
		g.Cells[i].IsFinish = false
	}
	if g.InBounds(pos) {
		g.Cells[g.Index(pos)].IsFinish = true
	}
}

// AsymmetricEdge describes a wall present on one side of a shared edge only.
type AsymmetricEdge struct {
	From Position  `json:"from"`
	Dir  Direction `json:"dir"`
}

// AsymmetricEdges lists interior edges whose flags disagree between the two
// neighbouring cells. Each edge is reported once, from its blocked side.
func (g *Grid) AsymmetricEdges() []AsymmetricEdge {
	var out []AsymmetricEdge
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			pos := Position{X: x, Y: y}
			for _, dir := range []Direction{Right, Up} {
				dest := g.Step(pos, dir)
				if !g.InBounds(dest) {
					continue
				}
				a := edgeSet(g.Cell(pos), dir)
				b := edgeSet(g.Cell(dest), dir.Opposite())
				switch {
				case a && !b:
					out = append(out, AsymmetricEdge{From: pos, Dir: dir})
				case b && !a:
					out = append(out, AsymmetricEdge{From: dest, Dir: dir.Opposite()})
				}
			}
		}
	}
	return out
}

func edgeSet(c Cell, dir Direction) bool {
	switch dir {
	case Left:
		return c.BlockedLeft
	case Right:
		return c.BlockedRight
	case Up:
		return c.BlockedUp
	case Down:
		return c.BlockedDown
	}
	return true
}

func setEdge(c *Cell, dir Direction, blocked bool) {
	switch dir {
	case Left:
		c.BlockedLeft = blocked
	case Right:
		c.BlockedRight = blocked
	case Up:
		c.BlockedUp = blocked
	case Down:
		c.BlockedDown = blocked
	}
}
