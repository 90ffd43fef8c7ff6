// Package automaton provides lazily expanded deterministic automata over grammar symbols.
package automaton

import (
	"sort"

	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
)

// State is a state of a deterministic automaton. States are immutable, and two states with the same
// key are interchangeable.
type State[R any] interface {
	// Result returns the result of an accepting state. ok is false when the state doesn't accept.
	// err is non-nil only when the state cannot decide a single result.
	Result() (result R, ok bool, err error)

	// Steps returns the outgoing transitions in ascending order of their symbols.
	Steps() []Step[R]

	Key() string
}

type Step[R any] struct {
	Symbol symbol.Symbol
	Next   State[R]
}

type DFA[R any] interface {
	Start() State[R]
}

// Next returns the successor of state on sym, or nil when state has no transition on sym.
func Next[R any](state State[R], sym symbol.Symbol) State[R] {
	steps := state.Steps()
	i := sort.Search(len(steps), func(i int) bool {
		return steps[i].Symbol >= sym
	})
	if i < len(steps) && steps[i].Symbol == sym {
		return steps[i].Next
	}
	return nil
}

type regexDFA struct {
	start regex.Regex
}

// NewRegexDFA returns a DFA whose states are the residuals of re. A state accepts iff its residual
// is nullable.
func NewRegexDFA(re regex.Regex) DFA[struct{}] {
	return &regexDFA{
		start: re,
	}
}

func (d *regexDFA) Start() State[struct{}] {
	return &regexState{
		re: d.start,
	}
}

type regexState struct {
	re regex.Regex
}

func (s *regexState) Result() (struct{}, bool, error) {
	return struct{}{}, s.re.Nullable(), nil
}

func (s *regexState) Steps() []Step[struct{}] {
	first := s.re.First()
	steps := make([]Step[struct{}], 0, len(first))
	for _, sym := range first {
		steps = append(steps, Step[struct{}]{
			Symbol: sym,
			Next: &regexState{
				re: s.re.Derivative(sym),
			},
		})
	}
	return steps
}

func (s *regexState) Key() string {
	return s.re.Key()
}

// Regex returns the residual regex the state represents.
func (s *regexState) Regex() regex.Regex {
	return s.re
}

// Walk steps through a DFA one symbol at a time.
type Walk[R any] struct {
	state State[R]
}

func NewWalk[R any](dfa DFA[R]) *Walk[R] {
	return &Walk[R]{
		state: dfa.Start(),
	}
}

// Step consumes sym. It returns false when the walk has died.
func (w *Walk[R]) Step(sym symbol.Symbol) bool {
	if w.state == nil {
		return false
	}
	w.state = Next(w.state, sym)
	return w.state != nil
}

// Accepting returns the result of the current state.
func (w *Walk[R]) Accepting() (R, bool, error) {
	if w.state == nil {
		var zero R
		return zero, false, nil
	}
	return w.state.Result()
}

func (w *Walk[R]) Dead() bool {
	return w.state == nil
}

// State returns the current state, or nil once the walk has died.
func (w *Walk[R]) State() State[R] {
	return w.state
}
