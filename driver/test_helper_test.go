package driver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
	"github.com/stretchr/testify/require"
)

type testProduction struct {
	lhs string
	rhs string
}

// newTestGrammar registers every LHS as a non-terminal and any other name as a terminal. RHSs are
// written in the regex notation.
func newTestGrammar(t *testing.T, start string, prods ...testProduction) (*grammar.Grammar, *symbol.SymbolTable) {
	t.Helper()

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	for _, p := range prods {
		_, err := w.RegisterNonTerminalSymbol(p.lhs)
		require.NoError(t, err)
	}
	resolve := func(name string) (symbol.Symbol, error) {
		if sym, ok := symTab.Reader().ToSymbol(name); ok {
			return sym, nil
		}
		return w.RegisterTerminalSymbol(name)
	}

	var ps []*grammar.Production
	for _, p := range prods {
		lhs, _ := symTab.Reader().ToSymbol(p.lhs)
		rhs, err := regex.Parse(p.rhs, resolve)
		require.NoError(t, err)
		prod, err := grammar.NewProduction(lhs, rhs)
		require.NoError(t, err)
		ps = append(ps, prod)
	}
	startSym, ok := symTab.Reader().ToSymbol(start)
	require.True(t, ok)
	g, err := grammar.NewGrammar(startSym, ps...)
	require.NoError(t, err)

	return g, symTab
}

// charLeaves makes one leaf per character of text. The symbol of a leaf is the terminal named by
// the character.
func charLeaves(t *testing.T, symTab *symbol.SymbolTable, text string) []*Leaf {
	t.Helper()

	var leaves []*Leaf
	for i, c := range []rune(text) {
		sym, ok := symTab.Reader().ToSymbol(string(c))
		require.True(t, ok, "a symbol was not found: %v", string(c))
		loc := source.Location{
			Row: 1,
			Col: i + 1,
		}
		leaves = append(leaves, &Leaf{
			Loc:  source.At(loc),
			Sym:  sym,
			Text: string(c),
		})
	}
	return leaves
}

// treeString renders a tree compactly: a branch is `Name(child child ...)` and a leaf is its text.
func treeString(tree ParseTree, name func(symbol.Symbol) string) string {
	switch t := tree.(type) {
	case *Leaf:
		return t.Text
	case *Branch:
		children := make([]string, len(t.Children))
		for i, c := range t.Children {
			children[i] = treeString(c, name)
		}
		return fmt.Sprintf("%v(%v)", name(t.Sym), strings.Join(children, " "))
	}
	return "<nil>"
}

var exprGrammar = []testProduction{
	{lhs: "Add", rhs: `{Mul} (\+ {Mul})*`},
	{lhs: "Mul", rhs: `{Num} (\* {Num})*`},
	{lhs: "Num", rhs: `\( {Add} \) | 0 | 1`},
}

type errorStream struct {
	leaves []*Leaf
	err    error
}

func (s *errorStream) Next() (*Leaf, error) {
	if len(s.leaves) == 0 {
		return nil, s.err
	}
	leaf := s.leaves[0]
	s.leaves = s.leaves[1:]
	return leaf, nil
}

func names(name func(symbol.Symbol) string, syms []symbol.Symbol) []string {
	var texts []string
	for _, sym := range syms {
		texts = append(texts, name(sym))
	}
	return texts
}
