package driver

import (
	"fmt"
	"strings"

	"github.com/nihei9/regll/compressor"
	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/automaton"
	"github.com/nihei9/regll/grammar/symbol"
)

// AmbiguousParseActionError reports that a grammar is not LL(1): more than one action applies to
// one state and lookahead.
type AmbiguousParseActionError struct {
	LHS       symbol.Symbol
	State     automaton.StateNum
	Lookahead symbol.Symbol
	Actions   []Action

	names func(symbol.Symbol) string
}

func (e *AmbiguousParseActionError) Error() string {
	return e.Format(e.names)
}

// Format renders the error the same way as Error but maps symbols to text using name.
func (e *AmbiguousParseActionError) Format(name func(symbol.Symbol) string) string {
	if name == nil {
		name = func(sym symbol.Symbol) string {
			return sym.String()
		}
	}
	var b strings.Builder
	for i, act := range e.Actions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(act.format(name))
	}
	return fmt.Sprintf("the grammar is not LL(1); LHS: %v, state: %v, lookahead: %v, actions: %v", name(e.LHS), e.State, name(e.Lookahead), b.String())
}

// ParsingTable maps a state of a non-terminal's automaton and a lookahead terminal to an action.
type ParsingTable struct {
	ag *grammar.AutomatonGrammar

	// offsets numbers the states of every automaton globally: the state s of the automaton of X is
	// offsets[X] + s.
	offsets    map[symbol.Symbol]int
	stateCount int

	// termCount is the size of the terminal number space.
	termCount int

	// rows maps a global state number to a row of cells. A row of the uncompressed table is indexed by
	// a terminal number.
	rows  *compressor.UniqueEntriesTable[Action]
	cells *compressor.RowDisplacementTable[Action]
}

// NewParsingTable derives exactly one action per reachable state and lookahead, or fails with
// *AmbiguousParseActionError.
func NewParsingTable(ag *grammar.AutomatonGrammar, a *grammar.Analysis) (*ParsingTable, error) {
	lookaheads := []symbol.Symbol{symbol.SymbolEOF}
	termCount := symbol.SymbolEOF.Num().Int() + 1
	for _, sym := range ag.Symbols() {
		if !sym.IsTerminal() {
			continue
		}
		lookaheads = append(lookaheads, sym)
		if sym.Num().Int()+1 > termCount {
			termCount = sym.Num().Int() + 1
		}
	}

	tab := &ParsingTable{
		ag:        ag,
		offsets:   map[symbol.Symbol]int{},
		termCount: termCount,
	}
	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		tab.offsets[lhs] = tab.stateCount
		tab.stateCount += g.Len()
	}
	actions := make([]Action, tab.stateCount*tab.termCount)

	in := newActionInterner()
	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		for s := 0; s < g.Len(); s++ {
			state := automaton.StateNum(s)
			for _, la := range lookaheads {
				acts := genActions(g, state, la, a, in)
				if len(acts) == 0 {
					continue
				}
				if len(acts) > 1 {
					return nil, &AmbiguousParseActionError{
						LHS:       lhs,
						State:     state,
						Lookahead: la,
						Actions:   acts,
					}
				}
				actions[(tab.offsets[lhs]+s)*tab.termCount+la.Num().Int()] = acts[0]
			}
		}
	}

	err := tab.compress(actions)
	if err != nil {
		return nil, err
	}

	return tab, nil
}

func (t *ParsingTable) compress(actions []Action) error {
	orig, err := compressor.NewOriginalTable(actions, t.termCount)
	if err != nil {
		return err
	}
	t.rows = compressor.NewUniqueEntriesTable[Action](nil)
	err = t.rows.Compress(orig)
	if err != nil {
		return err
	}
	uniq, err := t.rows.UniqueTable()
	if err != nil {
		return err
	}
	t.cells = compressor.NewRowDisplacementTable[Action](nil)
	return t.cells.Compress(uniq)
}

// actionInterner shares one value per distinct action so that actions compare by identity.
type actionInterner struct {
	shift   *Shift
	calls   map[symbol.Symbol]*Call
	reduces map[*grammar.Production]*Reduce
}

func newActionInterner() *actionInterner {
	return &actionInterner{
		shift:   &Shift{},
		calls:   map[symbol.Symbol]*Call{},
		reduces: map[*grammar.Production]*Reduce{},
	}
}

func (in *actionInterner) call(child symbol.Symbol) *Call {
	if act, ok := in.calls[child]; ok {
		return act
	}
	act := &Call{
		Child: child,
	}
	in.calls[child] = act
	return act
}

func (in *actionInterner) reduce(prod *grammar.Production) *Reduce {
	if act, ok := in.reduces[prod]; ok {
		return act
	}
	act := &Reduce{
		Production: prod,
	}
	in.reduces[prod] = act
	return act
}

func genActions(g *automaton.Graph[*grammar.Production], state automaton.StateNum, la symbol.Symbol, a *grammar.Analysis, in *actionInterner) []Action {
	var acts []Action

	if prod, ok := g.Result(state); ok {
		if la.IsEOF() || a.Follow.Of(prod.LHS).Contains(la) {
			acts = append(acts, in.reduce(prod))
		}
	}

	for _, e := range g.Successors(state.Int()) {
		sym := e.Label
		if sym.IsTerminal() {
			if sym == la {
				acts = append(acts, in.shift)
			}
			continue
		}
		if a.FirstPlus.Of(sym).Contains(la) {
			acts = append(acts, in.call(sym))
		}
	}

	return acts
}

// Action returns the action for a state of lhs's automaton and a lookahead terminal.
func (t *ParsingTable) Action(lhs symbol.Symbol, state automaton.StateNum, la symbol.Symbol) (Action, bool) {
	if !la.IsTerminal() || la.Num().Int() >= t.termCount {
		return nil, false
	}
	g, ok := t.ag.Graph(lhs)
	if !ok || state.Int() < 0 || state.Int() >= g.Len() {
		return nil, false
	}
	act, err := t.cells.Lookup(t.rows.RowNums[t.offsets[lhs]+state.Int()], la.Num().Int())
	if err != nil {
		return nil, false
	}
	return act, act != nil
}

// ExpectedTerminals returns the lookahead terminals having an action, in ascending order.
func (t *ParsingTable) ExpectedTerminals(lhs symbol.Symbol, state automaton.StateNum) []symbol.Symbol {
	var terms []symbol.Symbol
	for _, sym := range t.ag.Symbols() {
		if !sym.IsTerminal() {
			continue
		}
		if _, ok := t.Action(lhs, state, sym); ok {
			terms = append(terms, sym)
		}
	}
	if _, ok := t.Action(lhs, state, symbol.SymbolEOF); ok {
		terms = append(terms, symbol.SymbolEOF)
	}
	return terms
}

// StateCount returns the number of states of all automata.
func (t *ParsingTable) StateCount() int {
	return t.stateCount
}
