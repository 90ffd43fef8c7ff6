package grammar

import (
	"github.com/nihei9/regll/grammar/automaton"
	"github.com/nihei9/regll/grammar/symbol"
)

type nullableItem struct {
	lhs   symbol.Symbol
	state automaton.StateNum
}

// ComputeNullable returns the set of non-terminals deriving the empty sequence.
func ComputeNullable(ag *AutomatonGrammar) *SymbolSet {
	return computeNullable(ag, NewSymbolSet())
}

// computeNullable extends seed. It walks backward from accepting states. A transition on a symbol
// not yet known to be nullable parks its source state until the symbol turns out nullable.
func computeNullable(ag *AutomatonGrammar, seed *SymbolSet) *SymbolSet {
	nullable := seed.Clone()
	visited := map[nullableItem]struct{}{}
	parked := map[symbol.Symbol][]nullableItem{}
	var queue []nullableItem

	enqueue := func(item nullableItem) {
		if _, ok := visited[item]; ok {
			return
		}
		visited[item] = struct{}{}
		queue = append(queue, item)
	}

	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		for _, state := range g.AcceptingStates() {
			enqueue(nullableItem{
				lhs:   lhs,
				state: state,
			})
		}
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		g, _ := ag.Graph(item.lhs)
		if item.state == g.Start() {
			nullable.Add(item.lhs)
			for _, p := range parked[item.lhs] {
				enqueue(p)
			}
			delete(parked, item.lhs)
		}

		for _, e := range g.Predecessors(item.state.Int()) {
			pred := nullableItem{
				lhs:   item.lhs,
				state: automaton.StateNum(e.Node),
			}
			if nullable.Contains(e.Label) {
				enqueue(pred)
				continue
			}
			if e.Label.IsNonTerminal() {
				parked[e.Label] = append(parked[e.Label], pred)
			}
		}
	}

	return nullable
}
