package grammar

import (
	"github.com/nihei9/regll/grammar/dataflow"
	"github.com/nihei9/regll/grammar/symbol"
)

// ComputeFirst returns First of every symbol of ag. First(X) contains X itself, every symbol
// labeling a transition reachable from the start of X's automaton through nullable transitions,
// and is closed under First.
func ComputeFirst(ag *AutomatonGrammar, nullable *SymbolSet) SymbolSets {
	return computeFirst(ag, nullable, SymbolSets{})
}

func computeFirst(ag *AutomatonGrammar, nullable *SymbolSet, seed SymbolSets) SymbolSets {
	first := seed.clone()
	for _, sym := range ag.Symbols() {
		if _, ok := first[sym]; !ok {
			first[sym] = NewSymbolSet()
		}
		first[sym].Add(sym)
	}

	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		reachable := dataflow.Reachable[symbol.Symbol](g, dataflow.Forward, func(node int) bool {
			return node == g.Start().Int()
		}, nullable.Contains)
		e := first[lhs]
		for node, ok := range reachable {
			if !ok {
				continue
			}
			for _, edge := range g.Successors(node) {
				e.Add(edge.Label)
			}
		}
	}

	// First only grows and is bounded by the alphabet, so as many rounds as symbols suffice.
	for round := 0; round < len(first); round++ {
		changed := false
		for _, e := range first {
			for _, sym := range e.Symbols() {
				if e.Merge(first[sym]) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return first
}
