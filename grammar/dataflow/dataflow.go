// Package dataflow solves monotone fixpoint problems over graphs whose edges carry labels.
package dataflow

// Edge is a labeled edge seen from one endpoint. Node is the other endpoint.
type Edge[L any] struct {
	Label L
	Node  int
}

// Graph is a directed graph whose nodes are numbered from 0 to Len()-1.
type Graph[L any] interface {
	Len() int
	Successors(node int) []Edge[L]
	Predecessors(node int) []Edge[L]
}

type Direction int

const (
	// Forward propagates values from a node to its successors.
	Forward Direction = iota

	// Backward propagates values from a node to its predecessors.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return "unknown"
}

// Problem describes a fixpoint problem.
type Problem[L, V any] struct {
	Direction Direction

	// Init returns the initial value of a node. Every call must return a fresh value.
	Init func(node int) V

	// Transfer returns the value flowing across edge out of a node holding v. When ok is false,
	// nothing flows across the edge.
	Transfer func(node int, edge Edge[L], v V) (out V, ok bool)

	// Meet merges in into acc and reports whether acc changed. Meet must be monotone so that the
	// solver terminates.
	Meet func(acc V, in V) (merged V, changed bool)
}

// Solve computes the least fixpoint of p over g with a worklist.
func Solve[L, V any](g Graph[L], p *Problem[L, V]) []V {
	n := g.Len()
	values := make([]V, n)
	queued := make([]bool, n)
	queue := make([]int, 0, n)
	for node := 0; node < n; node++ {
		values[node] = p.Init(node)
		queued[node] = true
		queue = append(queue, node)
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		queued[node] = false

		var edges []Edge[L]
		if p.Direction == Forward {
			edges = g.Successors(node)
		} else {
			edges = g.Predecessors(node)
		}
		for _, e := range edges {
			out, ok := p.Transfer(node, e, values[node])
			if !ok {
				continue
			}
			merged, changed := p.Meet(values[e.Node], out)
			if !changed {
				continue
			}
			values[e.Node] = merged
			if !queued[e.Node] {
				queued[e.Node] = true
				queue = append(queue, e.Node)
			}
		}
	}

	return values
}

// Digraph is a mutable adjacency-list graph.
type Digraph[L any] struct {
	succs [][]Edge[L]
	preds [][]Edge[L]
}

func NewDigraph[L any](n int) *Digraph[L] {
	return &Digraph[L]{
		succs: make([][]Edge[L], n),
		preds: make([][]Edge[L], n),
	}
}

// AddNode appends a node and returns its number.
func (g *Digraph[L]) AddNode() int {
	g.succs = append(g.succs, nil)
	g.preds = append(g.preds, nil)
	return len(g.succs) - 1
}

func (g *Digraph[L]) AddEdge(from int, label L, to int) {
	g.succs[from] = append(g.succs[from], Edge[L]{
		Label: label,
		Node:  to,
	})
	g.preds[to] = append(g.preds[to], Edge[L]{
		Label: label,
		Node:  from,
	})
}

func (g *Digraph[L]) Len() int {
	return len(g.succs)
}

func (g *Digraph[L]) Successors(node int) []Edge[L] {
	return g.succs[node]
}

func (g *Digraph[L]) Predecessors(node int) []Edge[L] {
	return g.preds[node]
}

// Reachable returns, per node, whether a node holding true at the start reaches it along edges
// accepted by follow. With Backward, reachability runs against the edge direction.
func Reachable[L any](g Graph[L], dir Direction, start func(node int) bool, follow func(label L) bool) []bool {
	return Solve(g, &Problem[L, bool]{
		Direction: dir,
		Init:      start,
		Transfer: func(node int, e Edge[L], v bool) (bool, bool) {
			return v, v && follow(e.Label)
		},
		Meet: func(acc, in bool) (bool, bool) {
			return acc || in, !acc && in
		},
	})
}
