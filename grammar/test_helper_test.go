package grammar

import (
	"testing"

	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
)

type testProduction struct {
	lhs string
	rhs string
}

type testGrammar struct {
	grammar *Grammar
	symTab  *symbol.SymbolTable
}

// newTestGrammar registers every LHS as a non-terminal and any other name as a terminal. RHSs are
// written in the regex notation.
func newTestGrammar(t *testing.T, start string, prods ...testProduction) *testGrammar {
	t.Helper()

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	for _, p := range prods {
		_, err := w.RegisterNonTerminalSymbol(p.lhs)
		if err != nil {
			t.Fatal(err)
		}
	}
	resolve := func(name string) (symbol.Symbol, error) {
		if sym, ok := symTab.Reader().ToSymbol(name); ok {
			return sym, nil
		}
		return w.RegisterTerminalSymbol(name)
	}

	var ps []*Production
	for _, p := range prods {
		lhs, _ := symTab.Reader().ToSymbol(p.lhs)
		rhs, err := regex.Parse(p.rhs, resolve)
		if err != nil {
			t.Fatalf("failed to parse RHS; RHS: %v, error: %v", p.rhs, err)
		}
		prod, err := NewProduction(lhs, rhs)
		if err != nil {
			t.Fatal(err)
		}
		ps = append(ps, prod)
	}
	startSym, ok := symTab.Reader().ToSymbol(start)
	if !ok {
		t.Fatalf("start symbol was not found: %v", start)
	}
	g, err := NewGrammar(startSym, ps...)
	if err != nil {
		t.Fatal(err)
	}

	return &testGrammar{
		grammar: g,
		symTab:  symTab,
	}
}

func (tg *testGrammar) sym(t *testing.T, text string) symbol.Symbol {
	t.Helper()

	sym, ok := tg.symTab.Reader().ToSymbol(text)
	if !ok {
		t.Fatalf("symbol was not found: %v", text)
	}
	return sym
}

func (tg *testGrammar) set(t *testing.T, texts ...string) *SymbolSet {
	t.Helper()

	s := NewSymbolSet()
	for _, text := range texts {
		s.Add(tg.sym(t, text))
	}
	return s
}

func (tg *testGrammar) names(syms []symbol.Symbol) []string {
	var texts []string
	for _, sym := range syms {
		texts = append(texts, tg.symTab.Reader().Name(sym))
	}
	return texts
}

func (tg *testGrammar) automaton(t *testing.T) *AutomatonGrammar {
	t.Helper()

	ag, err := NewAutomatonGrammar(tg.grammar)
	if err != nil {
		t.Fatal(err)
	}
	return ag
}

func testSymbolSet(t *testing.T, tg *testGrammar, caption string, want, got *SymbolSet) {
	t.Helper()

	if !want.IsSubsetOf(got) || !got.IsSubsetOf(want) {
		t.Fatalf("%v is mismatched; want: %v, got: %v", caption, tg.names(want.Symbols()), tg.names(got.Symbols()))
	}
}

var exprGrammar = []testProduction{
	{lhs: "Add", rhs: `{Mul} (\+ {Mul})*`},
	{lhs: "Mul", rhs: `{Num} (\* {Num})*`},
	{lhs: "Num", rhs: `\( {Add} \) | 0 | 1`},
}
