package automaton

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
)

type testSymbols struct {
	tab *symbol.SymbolTable
}

func newTestSymbols(t *testing.T) *testSymbols {
	t.Helper()

	tab := symbol.NewSymbolTable()
	w := tab.Writer()
	for _, term := range []string{"a", "b", "c", "d"} {
		_, err := w.RegisterTerminalSymbol(term)
		if err != nil {
			t.Fatal(err)
		}
	}
	for _, nonTerm := range []string{"X", "Y"} {
		_, err := w.RegisterNonTerminalSymbol(nonTerm)
		if err != nil {
			t.Fatal(err)
		}
	}
	return &testSymbols{
		tab: tab,
	}
}

func (s *testSymbols) resolve(name string) (symbol.Symbol, error) {
	sym, ok := s.tab.Reader().ToSymbol(name)
	if !ok {
		return symbol.SymbolNil, fmt.Errorf("unknown symbol; name: %v", name)
	}
	return sym, nil
}

func (s *testSymbols) regex(t *testing.T, text string) regex.Regex {
	t.Helper()

	re, err := regex.Parse(text, s.resolve)
	if err != nil {
		t.Fatal(err)
	}
	return re
}

func (s *testSymbols) word(t *testing.T, text string) []symbol.Symbol {
	t.Helper()

	var w []symbol.Symbol
	for _, c := range text {
		sym, err := s.resolve(string(c))
		if err != nil {
			t.Fatal(err)
		}
		w = append(w, sym)
	}
	return w
}

func TestWalk(t *testing.T) {
	syms := newTestSymbols(t)

	tests := []struct {
		pattern  string
		accepted []string
		rejected []string
	}{
		{
			pattern:  "a b* c",
			accepted: []string{"ac", "abc", "abbbc"},
			rejected: []string{"", "a", "ab", "acc", "bc"},
		},
		{
			pattern:  "(X|a)* Y?",
			accepted: []string{"", "X", "aXa", "Y", "aaY"},
			rejected: []string{"YY", "Ya", "b"},
		},
		{
			pattern:  "",
			rejected: []string{"", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := syms.regex(t, tt.pattern)
			dfa := NewRegexDFA(re)
			for _, w := range tt.accepted {
				walk := NewWalk(dfa)
				for _, sym := range syms.word(t, w) {
					if !walk.Step(sym) {
						t.Fatalf("a walk died unexpectedly; word: %v", w)
					}
				}
				_, ok, err := walk.Accepting()
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatalf("a word must be accepted; pattern: %v, word: %v", tt.pattern, w)
				}
			}
			for _, w := range tt.rejected {
				walk := NewWalk(dfa)
				for _, sym := range syms.word(t, w) {
					walk.Step(sym)
				}
				_, ok, err := walk.Accepting()
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatalf("a word must be rejected; pattern: %v, word: %v", tt.pattern, w)
				}
				if regex.Matches(re, syms.word(t, w)) {
					t.Fatalf("a walk and a regex disagree; pattern: %v, word: %v", tt.pattern, w)
				}
			}
		})
	}

	t.Run("a dead walk stays dead", func(t *testing.T) {
		walk := NewWalk(NewRegexDFA(syms.regex(t, "a")))
		a := syms.word(t, "a")[0]
		if !walk.Step(a) {
			t.Fatalf("a walk died unexpectedly")
		}
		if walk.Step(a) {
			t.Fatalf("a walk must die")
		}
		if !walk.Dead() || walk.State() != nil {
			t.Fatalf("a walk must be dead")
		}
		if walk.Step(a) {
			t.Fatalf("a dead walk must stay dead")
		}
	})
}

func newTestComposite(t *testing.T, syms *testSymbols, patterns ...string) *Composite[string] {
	t.Helper()

	var comps []Component[string]
	for _, p := range patterns {
		comps = append(comps, Component[string]{
			DFA: NewRegexDFA(syms.regex(t, p)),
			Tag: p,
		})
	}
	return NewComposite(comps)
}

func TestComposite(t *testing.T) {
	syms := newTestSymbols(t)

	t.Run("disjoint alternatives resolve to one tag", func(t *testing.T) {
		c := newTestComposite(t, syms, "a b", "a c", "a* d", "()")
		tests := []struct {
			word string
			tag  string
		}{
			{word: "ab", tag: "a b"},
			{word: "ac", tag: "a c"},
			{word: "aad", tag: "a* d"},
			{word: "d", tag: "a* d"},
			{word: "", tag: "()"},
		}
		for _, tt := range tests {
			walk := NewWalk[string](c)
			for _, sym := range syms.word(t, tt.word) {
				if !walk.Step(sym) {
					t.Fatalf("a walk died unexpectedly; word: %v", tt.word)
				}
			}
			tag, ok, err := walk.Accepting()
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("a word must be accepted; word: %v", tt.word)
			}
			if tag != tt.tag {
				t.Fatalf("unexpected tag; word: %v, want: %v, got: %v", tt.word, tt.tag, tag)
			}
		}

		g, err := Explore[string](c)
		if err != nil {
			t.Fatal(err)
		}
		if len(g.AcceptingStates()) != 4 {
			t.Fatalf("unexpected accepting state count; want: %v, got: %v", 4, len(g.AcceptingStates()))
		}
	})

	t.Run("overlapping alternatives are ambiguous", func(t *testing.T) {
		c := newTestComposite(t, syms, "a b*", "a (b|c)")
		walk := NewWalk[string](c)
		for _, sym := range syms.word(t, "ab") {
			walk.Step(sym)
		}
		_, _, err := walk.Accepting()
		var ambErr *AmbiguousAlternativesError
		if !errors.As(err, &ambErr) {
			t.Fatalf("unexpected error; want: %T, got: %v", ambErr, err)
		}
		if len(ambErr.Tags) != 2 || ambErr.Tags[0] != "a b*" || ambErr.Tags[1] != "a (b|c)" {
			t.Fatalf("unexpected tags: %v", ambErr.Tags)
		}

		_, err = Explore[string](c)
		if !errors.As(err, &ambErr) {
			t.Fatalf("exploring an ambiguous composite must fail; got: %v", err)
		}
	})

	t.Run("ambiguity needs a common word", func(t *testing.T) {
		c := newTestComposite(t, syms, "a b*", "a c")
		_, err := Explore[string](c)
		if err != nil {
			t.Fatal(err)
		}
	})
}

func TestExplore(t *testing.T) {
	syms := newTestSymbols(t)
	a := syms.word(t, "a")[0]
	b := syms.word(t, "b")[0]
	c := syms.word(t, "c")[0]
	d := syms.word(t, "d")[0]

	g, err := Explore(NewRegexDFA(syms.regex(t, "a (b c)* d?")))
	if err != nil {
		t.Fatal(err)
	}

	// 0: start, 1: after a (accepting), 2: after ab, 3: after ad (accepting)
	if g.Len() != 4 {
		t.Fatalf("unexpected state count; want: %v, got: %v", 4, g.Len())
	}
	if g.Start() != StateNumStart {
		t.Fatalf("unexpected start state: %v", g.Start())
	}
	if _, ok := g.Result(g.Start()); ok {
		t.Fatalf("the start state must not accept")
	}
	s1, ok := g.Next(g.Start(), a)
	if !ok {
		t.Fatalf("the start state must have a transition on a")
	}
	if _, ok := g.Result(s1); !ok {
		t.Fatalf("a state after a must accept")
	}
	s2, ok := g.Next(s1, b)
	if !ok {
		t.Fatalf("a state after a must have a transition on b")
	}
	if _, ok := g.Result(s2); ok {
		t.Fatalf("a state after ab must not accept")
	}
	back, ok := g.Next(s2, c)
	if !ok || back != s1 {
		t.Fatalf("a state after abc must be the state after a; want: %v, got: %v", s1, back)
	}
	if _, ok := g.Next(s2, d); ok {
		t.Fatalf("a state after ab must not have a transition on d")
	}

	if preds := g.PredecessorsOn(s1, c); len(preds) != 1 || preds[0] != s2 {
		t.Fatalf("unexpected predecessors on c; want: [%v], got: %v", s2, preds)
	}
	if preds := g.PredecessorsOn(s1, a); len(preds) != 1 || preds[0] != g.Start() {
		t.Fatalf("unexpected predecessors on a; want: [%v], got: %v", g.Start(), preds)
	}
	if len(g.Predecessors(s1.Int())) != 2 {
		t.Fatalf("unexpected predecessor edges: %v", g.Predecessors(s1.Int()))
	}
	if len(g.Successors(s1.Int())) != 2 {
		t.Fatalf("unexpected successor edges: %v", g.Successors(s1.Int()))
	}

	wantSyms := []symbol.Symbol{a, b, c, d}
	if len(g.EdgeSymbols()) != len(wantSyms) {
		t.Fatalf("unexpected edge symbols; want: %v, got: %v", wantSyms, g.EdgeSymbols())
	}
	for i, sym := range wantSyms {
		if g.EdgeSymbols()[i] != sym {
			t.Fatalf("unexpected edge symbols; want: %v, got: %v", wantSyms, g.EdgeSymbols())
		}
	}
	if len(g.AcceptingStates()) != 2 {
		t.Fatalf("unexpected accepting states: %v", g.AcceptingStates())
	}
}
