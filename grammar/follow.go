package grammar

import (
	"github.com/nihei9/regll/grammar/dataflow"
	"github.com/nihei9/regll/grammar/symbol"
)

// ComputeFollow returns Follow of every symbol of ag. The result may contain symbols that can never
// follow in any derivation, but it never misses one that can. symbol.SymbolEOF stands for the end of
// input.
func ComputeFollow(ag *AutomatonGrammar, nullable *SymbolSet, first SymbolSets) SymbolSets {
	return computeFollow(ag, nullable, first, SymbolSets{})
}

func computeFollow(ag *AutomatonGrammar, nullable *SymbolSet, first SymbolSets, seed SymbolSets) SymbolSets {
	follow := seed.clone()
	for _, sym := range ag.Symbols() {
		if _, ok := follow[sym]; !ok {
			follow[sym] = NewSymbolSet()
		}
	}
	follow[ag.StartSymbol()].Add(symbol.SymbolEOF)

	// Within a production, a symbol is followed by the first symbols of what may come after it.
	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		suffixFirst := dataflow.Solve[symbol.Symbol, *SymbolSet](g, &dataflow.Problem[symbol.Symbol, *SymbolSet]{
			Direction: dataflow.Backward,
			Init: func(node int) *SymbolSet {
				return NewSymbolSet()
			},
			Transfer: func(node int, e dataflow.Edge[symbol.Symbol], v *SymbolSet) (*SymbolSet, bool) {
				out := first.Of(e.Label).Clone()
				if nullable.Contains(e.Label) {
					out.Merge(v)
				}
				return out, true
			},
			Meet: func(acc, in *SymbolSet) (*SymbolSet, bool) {
				return acc, acc.Merge(in)
			},
		})
		for node := 0; node < g.Len(); node++ {
			for _, e := range g.Successors(node) {
				follow[e.Label].Merge(suffixFirst[e.Node])
			}
		}
	}

	// A symbol that can be consumed last by a production is followed by whatever follows its LHS.
	sym2Node := map[symbol.Symbol]int{}
	for i, sym := range ag.Symbols() {
		sym2Node[sym] = i
	}
	lastGraph := dataflow.NewDigraph[struct{}](len(ag.Symbols()))
	for _, lhs := range ag.NonTerminals() {
		for _, sym := range lastSymbols(ag, lhs, nullable).Symbols() {
			lastGraph.AddEdge(sym2Node[lhs], struct{}{}, sym2Node[sym])
		}
	}
	propagated := dataflow.Solve[struct{}, *SymbolSet](lastGraph, &dataflow.Problem[struct{}, *SymbolSet]{
		Direction: dataflow.Forward,
		Init: func(node int) *SymbolSet {
			return follow[ag.Symbols()[node]].Clone()
		},
		Transfer: func(node int, e dataflow.Edge[struct{}], v *SymbolSet) (*SymbolSet, bool) {
			return v, true
		},
		Meet: func(acc, in *SymbolSet) (*SymbolSet, bool) {
			return acc, acc.Merge(in)
		},
	})
	for i, sym := range ag.Symbols() {
		follow[sym] = propagated[i]
	}

	return follow
}

// lastSymbols returns the symbols that can be consumed last before lhs's automaton accepts.
func lastSymbols(ag *AutomatonGrammar, lhs symbol.Symbol, nullable *SymbolSet) *SymbolSet {
	g, _ := ag.Graph(lhs)
	accepting := map[int]struct{}{}
	for _, state := range g.AcceptingStates() {
		accepting[state.Int()] = struct{}{}
	}
	canFinish := dataflow.Reachable[symbol.Symbol](g, dataflow.Backward, func(node int) bool {
		_, ok := accepting[node]
		return ok
	}, nullable.Contains)

	last := NewSymbolSet()
	for node := 0; node < g.Len(); node++ {
		if !canFinish[node] {
			continue
		}
		for _, e := range g.Predecessors(node) {
			last.Add(e.Label)
		}
	}
	return last
}
