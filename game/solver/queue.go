package solver

import (
	"container/heap"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

// node is one joint search state: where the player stands and where the
// simulated enemy ends up after the path taken to get there.
type node struct {
	player engine.Position
	enemy  engine.Position
	g      int
	h      float64
	parent *node
	// enemySteps holds the enemy's two sub-step positions for the move into
	// this node. Empty for the root.
	enemySteps []engine.Position
	seq        int
}

// openList is a binary heap of nodes. Ties are broken by insertion order so
// equally ranked nodes leave in the order they arrived.
type openList struct {
	nodes     []*node
	heuristic bool
}

func (o *openList) Len() int { return len(o.nodes) }

func (o *openList) Less(i, j int) bool {
	a, b := o.nodes[i], o.nodes[j]
	if o.heuristic {
		fa, fb := float64(a.g)+a.h, float64(b.g)+b.h
		if fa != fb {
			return fa < fb
		}
	} else if a.g != b.g {
		return a.g < b.g
	}
	return a.seq < b.seq
}

func (o *openList) Swap(i, j int) { o.nodes[i], o.nodes[j] = o.nodes[j], o.nodes[i] }

func (o *openList) Push(x any) { o.nodes = append(o.nodes, x.(*node)) }

func (o *openList) Pop() any {
	old := o.nodes
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	o.nodes = old[:n-1]
	return item
}

func (o *openList) push(n *node) { heap.Push(o, n) }

func (o *openList) pop() *node { return heap.Pop(o).(*node) }
