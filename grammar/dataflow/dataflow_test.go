package dataflow

import (
	"testing"
)

func newTestGraph(n int, edges [][3]int) *Digraph[int] {
	g := NewDigraph[int](n)
	for _, e := range edges {
		g.AddEdge(e[0], e[1], e[2])
	}
	return g
}

func TestReachable(t *testing.T) {
	// 0 -1-> 1 -2-> 2 -1-> 3
	// ^-------1------'
	g := newTestGraph(5, [][3]int{
		{0, 1, 1},
		{1, 2, 2},
		{2, 1, 3},
		{2, 1, 0},
	})
	onlyOne := func(label int) bool {
		return label == 1
	}
	every := func(label int) bool {
		return true
	}
	from := func(n int) func(int) bool {
		return func(node int) bool {
			return node == n
		}
	}

	tests := []struct {
		caption string
		dir     Direction
		start   func(int) bool
		follow  func(int) bool
		want    []bool
	}{
		{
			caption: "forward along every edge",
			dir:     Forward,
			start:   from(0),
			follow:  every,
			want:    []bool{true, true, true, true, false},
		},
		{
			caption: "forward along restricted edges",
			dir:     Forward,
			start:   from(0),
			follow:  onlyOne,
			want:    []bool{true, true, false, false, false},
		},
		{
			caption: "backward along every edge",
			dir:     Backward,
			start:   from(3),
			follow:  every,
			want:    []bool{true, true, true, true, false},
		},
		{
			caption: "backward along restricted edges",
			dir:     Backward,
			start:   from(3),
			follow:  onlyOne,
			want:    []bool{false, false, true, true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got := Reachable[int](g, tt.dir, tt.start, tt.follow)
			if len(got) != len(tt.want) {
				t.Fatalf("unexpected result length; want: %v, got: %v", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("unexpected reachability; node: %v, want: %v, got: %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSolve_SetUnion(t *testing.T) {
	// Collects the labels on every path leading to a node.
	g := newTestGraph(4, [][3]int{
		{0, 10, 1},
		{1, 20, 2},
		{2, 30, 1},
		{0, 40, 3},
	})
	values := Solve[int, map[int]struct{}](g, &Problem[int, map[int]struct{}]{
		Direction: Forward,
		Init: func(node int) map[int]struct{} {
			return map[int]struct{}{}
		},
		Transfer: func(node int, e Edge[int], v map[int]struct{}) (map[int]struct{}, bool) {
			out := map[int]struct{}{
				e.Label: {},
			}
			for l := range v {
				out[l] = struct{}{}
			}
			return out, true
		},
		Meet: func(acc, in map[int]struct{}) (map[int]struct{}, bool) {
			changed := false
			for l := range in {
				if _, ok := acc[l]; ok {
					continue
				}
				acc[l] = struct{}{}
				changed = true
			}
			return acc, changed
		},
	})

	want := []map[int]struct{}{
		{},
		{10: {}, 20: {}, 30: {}},
		{10: {}, 20: {}, 30: {}},
		{40: {}},
	}
	for node, w := range want {
		got := values[node]
		if len(got) != len(w) {
			t.Fatalf("unexpected labels; node: %v, want: %v, got: %v", node, w, got)
		}
		for l := range w {
			if _, ok := got[l]; !ok {
				t.Fatalf("a label is missing; node: %v, label: %v, got: %v", node, l, got)
			}
		}
	}
}

func TestDigraph(t *testing.T) {
	g := NewDigraph[string](1)
	n := g.AddNode()
	if n != 1 {
		t.Fatalf("unexpected node number; want: %v, got: %v", 1, n)
	}
	g.AddEdge(0, "a", 1)
	if len(g.Successors(0)) != 1 || g.Successors(0)[0].Node != 1 || g.Successors(0)[0].Label != "a" {
		t.Fatalf("unexpected successors: %v", g.Successors(0))
	}
	if len(g.Predecessors(1)) != 1 || g.Predecessors(1)[0].Node != 0 {
		t.Fatalf("unexpected predecessors: %v", g.Predecessors(1))
	}
}
