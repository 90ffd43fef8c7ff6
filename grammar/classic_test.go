package grammar

import (
	"github.com/nihei9/regll/grammar/symbol"
)

// The textbook FIRST and FOLLOW computations over productions whose RHSs are symbol sequences.
// They serve as the minimal reference the automaton-based analyses are checked against.

type bnfProduction struct {
	lhs symbol.Symbol
	rhs []symbol.Symbol
}

type classicFirstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newClassicFirstEntry() *classicFirstEntry {
	return &classicFirstEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *classicFirstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *classicFirstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *classicFirstEntry) mergeExceptEmpty(target *classicFirstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

type classicFirstSet map[symbol.Symbol]*classicFirstEntry

// genClassicFirstSet computes FIRST restricted to terminals.
func genClassicFirstSet(prods []*bnfProduction) classicFirstSet {
	first := classicFirstSet{}
	for _, prod := range prods {
		if _, ok := first[prod.lhs]; !ok {
			first[prod.lhs] = newClassicFirstEntry()
		}
	}
	for {
		more := false
		for _, prod := range prods {
			if genClassicProdFirstEntry(first, first[prod.lhs], prod.rhs) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return first
}

func genClassicProdFirstEntry(first classicFirstSet, acc *classicFirstEntry, rhs []symbol.Symbol) bool {
	for _, sym := range rhs {
		if sym.IsTerminal() {
			return acc.add(sym)
		}
		e := first[sym]
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed
		}
	}
	return acc.addEmpty()
}

// find returns FIRST of a symbol sequence.
func (first classicFirstSet) find(seq []symbol.Symbol) *classicFirstEntry {
	entry := newClassicFirstEntry()
	genClassicProdFirstEntry(first, entry, seq)
	return entry
}

// genClassicFollowSet computes FOLLOW of every symbol, restricted to terminals. The end of input
// is left out.
func genClassicFollowSet(prods []*bnfProduction, first classicFirstSet) map[symbol.Symbol]*SymbolSet {
	follow := map[symbol.Symbol]*SymbolSet{}
	for _, prod := range prods {
		if _, ok := follow[prod.lhs]; !ok {
			follow[prod.lhs] = NewSymbolSet()
		}
		for _, sym := range prod.rhs {
			if _, ok := follow[sym]; !ok {
				follow[sym] = NewSymbolSet()
			}
		}
	}
	for {
		more := false
		for _, prod := range prods {
			for i, sym := range prod.rhs {
				e := follow[sym]
				fst := first.find(prod.rhs[i+1:])
				for s := range fst.symbols {
					if e.Add(s) {
						more = true
					}
				}
				if fst.empty {
					if e.Merge(follow[prod.lhs]) {
						more = true
					}
				}
			}
		}
		if !more {
			break
		}
	}
	return follow
}
