package automaton

import (
	"github.com/nihei9/regll/grammar/dataflow"
	"github.com/nihei9/regll/grammar/symbol"
)

// StateNum identifies a state of an explored automaton. The start state is always 0.
type StateNum int

const StateNumStart = StateNum(0)

func (n StateNum) Int() int {
	return int(n)
}

// Graph holds every state reachable from the start state of a DFA, numbered in breadth-first order.
type Graph[R any] struct {
	edges     *dataflow.Digraph[symbol.Symbol]
	states    []State[R]
	results   []R
	accepts   []bool
	next      []map[symbol.Symbol]StateNum
	preds     []map[symbol.Symbol][]StateNum
	accepting []StateNum
	symbols   []symbol.Symbol
}

// Explore discovers every reachable state of dfa. It fails when a reachable state cannot decide
// its result.
func Explore[R any](dfa DFA[R]) (*Graph[R], error) {
	g := &Graph[R]{
		edges: dataflow.NewDigraph[symbol.Symbol](0),
	}
	key2Num := map[string]StateNum{}
	seenSyms := map[symbol.Symbol]struct{}{}

	add := func(state State[R]) (StateNum, bool, error) {
		if num, ok := key2Num[state.Key()]; ok {
			return num, false, nil
		}
		result, ok, err := state.Result()
		if err != nil {
			return 0, false, err
		}
		num := StateNum(g.edges.AddNode())
		key2Num[state.Key()] = num
		g.states = append(g.states, state)
		g.results = append(g.results, result)
		g.accepts = append(g.accepts, ok)
		g.next = append(g.next, map[symbol.Symbol]StateNum{})
		g.preds = append(g.preds, map[symbol.Symbol][]StateNum{})
		if ok {
			g.accepting = append(g.accepting, num)
		}
		return num, true, nil
	}

	start, _, err := add(dfa.Start())
	if err != nil {
		return nil, err
	}
	queue := []StateNum{start}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, step := range g.states[from].Steps() {
			to, isNew, err := add(step.Next)
			if err != nil {
				return nil, err
			}
			if isNew {
				queue = append(queue, to)
			}
			g.edges.AddEdge(from.Int(), step.Symbol, to.Int())
			g.next[from][step.Symbol] = to
			g.preds[to][step.Symbol] = append(g.preds[to][step.Symbol], from)
			if _, ok := seenSyms[step.Symbol]; !ok {
				seenSyms[step.Symbol] = struct{}{}
				g.symbols = append(g.symbols, step.Symbol)
			}
		}
	}
	symbol.Sort(g.symbols)

	return g, nil
}

func (g *Graph[R]) Start() StateNum {
	return StateNumStart
}

// Len returns the number of states.
func (g *Graph[R]) Len() int {
	return g.edges.Len()
}

func (g *Graph[R]) Successors(node int) []dataflow.Edge[symbol.Symbol] {
	return g.edges.Successors(node)
}

func (g *Graph[R]) Predecessors(node int) []dataflow.Edge[symbol.Symbol] {
	return g.edges.Predecessors(node)
}

func (g *Graph[R]) State(num StateNum) State[R] {
	return g.states[num]
}

// Result returns the result of an accepting state.
func (g *Graph[R]) Result(num StateNum) (R, bool) {
	return g.results[num], g.accepts[num]
}

// Next returns the successor of a state on sym.
func (g *Graph[R]) Next(num StateNum, sym symbol.Symbol) (StateNum, bool) {
	to, ok := g.next[num][sym]
	return to, ok
}

// PredecessorsOn returns the states having a transition on sym into a state.
func (g *Graph[R]) PredecessorsOn(num StateNum, sym symbol.Symbol) []StateNum {
	return g.preds[num][sym]
}

// AcceptingStates returns the accepting states in ascending order.
func (g *Graph[R]) AcceptingStates() []StateNum {
	return g.accepting
}

// EdgeSymbols returns every symbol labeling some transition, in ascending order.
func (g *Graph[R]) EdgeSymbols() []symbol.Symbol {
	return g.symbols
}
