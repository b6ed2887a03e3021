package engine

import "testing"

func TestPursuitStep(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(g *Grid)
		player   Position
		enemy    Position
		expected Position
	}{
		{
			name:     "closes x gap first",
			player:   Position{0, 0},
			enemy:    Position{2, 2},
			expected: Position{1, 2},
		},
		{
			name:     "moves right toward player",
			player:   Position{2, 2},
			enemy:    Position{0, 2},
			expected: Position{1, 2},
		},
		{
			name:     "moves on y once x is aligned",
			player:   Position{2, 0},
			enemy:    Position{2, 2},
			expected: Position{2, 1},
		},
		{
			name:     "moves up toward player",
			player:   Position{1, 2},
			enemy:    Position{1, 0},
			expected: Position{1, 1},
		},
		{
			name:     "stays when already on the player",
			player:   Position{1, 1},
			enemy:    Position{1, 1},
			expected: Position{1, 1},
		},
		{
			name: "blocked x step does not fall back to y",
			setup: func(g *Grid) {
				g.SetWall(Position{2, 2}, Left, true)
			},
			player:   Position{0, 0},
			enemy:    Position{2, 2},
			expected: Position{2, 2},
		},
		{
			name: "one-sided wall still blocks",
			setup: func(g *Grid) {
				g.SetEdge(Position{1, 2}, Right, true)
			},
			player:   Position{0, 2},
			enemy:    Position{2, 2},
			expected: Position{2, 2},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := NewGrid(3, 3)
			if test.setup != nil {
				test.setup(g)
			}
			if got := g.PursuitStep(test.player, test.enemy); got != test.expected {
				t.Errorf("PursuitStep(%v, %v): expected %v, got %v", test.player, test.enemy, test.expected, got)
			}
		})
	}
}

func TestPursuitTurn(t *testing.T) {
	g := NewGrid(3, 3)

	t.Run("two steps without capture", func(t *testing.T) {
		steps, caught := g.PursuitTurn(Position{0, 0}, Position{2, 2})
		if caught {
			t.Fatal("Did not expect a capture")
		}
		expected := []Position{{1, 2}, {0, 2}}
		if len(steps) != len(expected) {
			t.Fatalf("Expected %d steps, got %v", len(expected), steps)
		}
		for i := range expected {
			if steps[i] != expected[i] {
				t.Errorf("Step %d: expected %v, got %v", i, expected[i], steps[i])
			}
		}
	})

	t.Run("capture on the first step ends the turn", func(t *testing.T) {
		steps, caught := g.PursuitTurn(Position{0, 1}, Position{0, 2})
		if !caught {
			t.Fatal("Expected capture")
		}
		if len(steps) != 1 || steps[0] != (Position{0, 1}) {
			t.Errorf("Expected single step onto the player, got %v", steps)
		}
	})

	t.Run("capture on the second step", func(t *testing.T) {
		steps, caught := g.PursuitTurn(Position{0, 0}, Position{0, 2})
		if !caught {
			t.Fatal("Expected capture")
		}
		if len(steps) != 2 || steps[1] != (Position{0, 0}) {
			t.Errorf("Expected capture on second step, got %v", steps)
		}
	})
}
