package grammar

import (
	"github.com/nihei9/regll/grammar/symbol"
)

// SymbolSet is a mutable set of symbols. A nil set is empty.
type SymbolSet struct {
	syms map[symbol.Symbol]struct{}
}

func NewSymbolSet(syms ...symbol.Symbol) *SymbolSet {
	s := &SymbolSet{
		syms: map[symbol.Symbol]struct{}{},
	}
	for _, sym := range syms {
		s.syms[sym] = struct{}{}
	}
	return s
}

// Add reports whether sym was newly added.
func (s *SymbolSet) Add(sym symbol.Symbol) bool {
	if _, ok := s.syms[sym]; ok {
		return false
	}
	s.syms[sym] = struct{}{}
	return true
}

// Merge adds every symbol of t and reports whether s grew.
func (s *SymbolSet) Merge(t *SymbolSet) bool {
	if t == nil {
		return false
	}
	changed := false
	for sym := range t.syms {
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *SymbolSet) Contains(sym symbol.Symbol) bool {
	if s == nil {
		return false
	}
	_, ok := s.syms[sym]
	return ok
}

func (s *SymbolSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.syms)
}

// Symbols returns the members in ascending order.
func (s *SymbolSet) Symbols() []symbol.Symbol {
	if s == nil {
		return nil
	}
	syms := make([]symbol.Symbol, 0, len(s.syms))
	for sym := range s.syms {
		syms = append(syms, sym)
	}
	symbol.Sort(syms)
	return syms
}

// Terminals returns the terminal members in ascending order.
func (s *SymbolSet) Terminals() []symbol.Symbol {
	var terms []symbol.Symbol
	for _, sym := range s.Symbols() {
		if sym.IsTerminal() {
			terms = append(terms, sym)
		}
	}
	return terms
}

func (s *SymbolSet) Clone() *SymbolSet {
	c := NewSymbolSet()
	c.Merge(s)
	return c
}

// IsSubsetOf reports whether every member of s belongs to t.
func (s *SymbolSet) IsSubsetOf(t *SymbolSet) bool {
	if s == nil {
		return true
	}
	for sym := range s.syms {
		if !t.Contains(sym) {
			return false
		}
	}
	return true
}

// SymbolSets maps a symbol to a set of symbols.
type SymbolSets map[symbol.Symbol]*SymbolSet

// Of returns the set of sym. It returns an empty set when sym has no entry.
func (ss SymbolSets) Of(sym symbol.Symbol) *SymbolSet {
	if s, ok := ss[sym]; ok {
		return s
	}
	return NewSymbolSet()
}

func (ss SymbolSets) clone() SymbolSets {
	c := SymbolSets{}
	for sym, s := range ss {
		c[sym] = s.Clone()
	}
	return c
}
