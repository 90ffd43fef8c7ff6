package grammar

import (
	"fmt"

	"github.com/nihei9/regll/grammar/automaton"
	"github.com/nihei9/regll/grammar/symbol"
)

// Grammar is a start symbol and the productions in declaration order.
type Grammar struct {
	start     symbol.Symbol
	prods     []*Production
	lhs2Prods map[symbol.Symbol][]*Production
	lhsSyms   []symbol.Symbol
}

// NewGrammar numbers prods in the order they are passed.
func NewGrammar(start symbol.Symbol, prods ...*Production) (*Grammar, error) {
	if len(prods) == 0 {
		return nil, semErrNoProduction
	}

	g := &Grammar{
		start:     start,
		lhs2Prods: map[symbol.Symbol][]*Production{},
	}
	num := productionNumMin
	for _, prod := range prods {
		if prod == nil {
			return nil, fmt.Errorf("a production must be non-nil")
		}
		for _, q := range g.lhs2Prods[prod.LHS] {
			if prod.equals(q) {
				return nil, fmt.Errorf("%w; production: %v", semErrDuplicateProduction, prod)
			}
		}
		prod.Num = num
		num++
		if _, ok := g.lhs2Prods[prod.LHS]; !ok {
			g.lhsSyms = append(g.lhsSyms, prod.LHS)
		}
		g.lhs2Prods[prod.LHS] = append(g.lhs2Prods[prod.LHS], prod)
		g.prods = append(g.prods, prod)
	}
	if _, ok := g.lhs2Prods[start]; !ok {
		return nil, fmt.Errorf("%w; symbol: %v", semErrInvalidStartSymbol, start)
	}

	return g, nil
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.start
}

// Productions returns every production in declaration order.
func (g *Grammar) Productions() []*Production {
	return g.prods
}

// ProductionsOf returns the productions of lhs in declaration order.
func (g *Grammar) ProductionsOf(lhs symbol.Symbol) []*Production {
	return g.lhs2Prods[lhs]
}

// NonTerminals returns the LHS symbols in order of their first appearance.
func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.lhsSyms
}

// AutomatonGrammar holds one composite automaton per non-terminal. Each automaton accepts with the
// production whose RHS matched.
type AutomatonGrammar struct {
	grammar  *Grammar
	automata map[symbol.Symbol]*automaton.Composite[*Production]
	graphs   map[symbol.Symbol]*automaton.Graph[*Production]
	symbols  []symbol.Symbol
}

// NewAutomatonGrammar builds and explores the automaton of every non-terminal of g.
func NewAutomatonGrammar(g *Grammar) (*AutomatonGrammar, error) {
	ag := &AutomatonGrammar{
		grammar:  g,
		automata: map[symbol.Symbol]*automaton.Composite[*Production]{},
		graphs:   map[symbol.Symbol]*automaton.Graph[*Production]{},
	}

	syms := map[symbol.Symbol]struct{}{}
	for _, lhs := range g.NonTerminals() {
		var comps []automaton.Component[*Production]
		for _, prod := range g.ProductionsOf(lhs) {
			comps = append(comps, automaton.Component[*Production]{
				DFA: automaton.NewRegexDFA(prod.RHS),
				Tag: prod,
			})
		}
		c := automaton.NewComposite(comps)
		graph, err := automaton.Explore[*Production](c)
		if err != nil {
			return nil, fmt.Errorf("%w; LHS: %v: %w", semErrAmbiguousProduction, lhs, err)
		}
		ag.automata[lhs] = c
		ag.graphs[lhs] = graph

		syms[lhs] = struct{}{}
		for _, sym := range graph.EdgeSymbols() {
			syms[sym] = struct{}{}
		}
	}

	for sym := range syms {
		if !sym.IsNonTerminal() {
			continue
		}
		if _, ok := ag.graphs[sym]; !ok {
			return nil, fmt.Errorf("%w; a non-terminal has no productions; symbol: %v", semErrUndefinedSym, sym)
		}
	}

	ag.symbols = make([]symbol.Symbol, 0, len(syms))
	for sym := range syms {
		ag.symbols = append(ag.symbols, sym)
	}
	symbol.Sort(ag.symbols)

	return ag, nil
}

func (ag *AutomatonGrammar) Grammar() *Grammar {
	return ag.grammar
}

func (ag *AutomatonGrammar) StartSymbol() symbol.Symbol {
	return ag.grammar.StartSymbol()
}

// NonTerminals returns the non-terminals in order of their first appearance.
func (ag *AutomatonGrammar) NonTerminals() []symbol.Symbol {
	return ag.grammar.NonTerminals()
}

func (ag *AutomatonGrammar) Automaton(lhs symbol.Symbol) (*automaton.Composite[*Production], bool) {
	c, ok := ag.automata[lhs]
	return c, ok
}

// Graph returns the explored automaton of lhs.
func (ag *AutomatonGrammar) Graph(lhs symbol.Symbol) (*automaton.Graph[*Production], bool) {
	g, ok := ag.graphs[lhs]
	return g, ok
}

// Symbols returns every LHS symbol and every symbol labeling a transition of some automaton, in
// ascending order.
func (ag *AutomatonGrammar) Symbols() []symbol.Symbol {
	return ag.symbols
}
