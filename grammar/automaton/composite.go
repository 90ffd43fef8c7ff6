package automaton

import (
	"fmt"
	"strings"

	"github.com/nihei9/regll/grammar/symbol"
)

// AmbiguousAlternativesError reports that several components of a composite automaton accept the
// same input.
type AmbiguousAlternativesError struct {
	Tags []interface{}
}

func (e *AmbiguousAlternativesError) Error() string {
	var b strings.Builder
	for i, tag := range e.Tags {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", tag)
	}
	return fmt.Sprintf("alternatives accept the same input; alternatives: %v", b.String())
}

// Component is one alternative of a composite automaton.
type Component[R any] struct {
	DFA DFA[struct{}]
	Tag R
}

// Composite runs its components in lockstep and accepts with the tag of the only accepting one.
type Composite[R any] struct {
	components []Component[R]
}

func NewComposite[R any](components []Component[R]) *Composite[R] {
	return &Composite[R]{
		components: components,
	}
}

func (c *Composite[R]) Components() []Component[R] {
	return c.components
}

func (c *Composite[R]) Start() State[R] {
	states := make([]State[struct{}], len(c.components))
	for i, comp := range c.components {
		states[i] = comp.DFA.Start()
	}
	return &compositeState[R]{
		composite: c,
		states:    states,
	}
}

// compositeState holds one state per component. A nil entry stands for a dead component.
type compositeState[R any] struct {
	composite *Composite[R]
	states    []State[struct{}]
}

func (s *compositeState[R]) Result() (R, bool, error) {
	var result R
	var accepted []int
	for i, state := range s.states {
		if state == nil {
			continue
		}
		_, ok, err := state.Result()
		if err != nil {
			return result, false, err
		}
		if ok {
			accepted = append(accepted, i)
		}
	}
	switch len(accepted) {
	case 0:
		return result, false, nil
	case 1:
		return s.composite.components[accepted[0]].Tag, true, nil
	}
	tags := make([]interface{}, 0, len(accepted))
	for _, i := range accepted {
		tags = append(tags, s.composite.components[i].Tag)
	}
	return result, false, &AmbiguousAlternativesError{
		Tags: tags,
	}
}

func (s *compositeState[R]) Steps() []Step[R] {
	var syms []symbol.Symbol
	seen := map[symbol.Symbol]struct{}{}
	for _, state := range s.states {
		if state == nil {
			continue
		}
		for _, step := range state.Steps() {
			if _, ok := seen[step.Symbol]; ok {
				continue
			}
			seen[step.Symbol] = struct{}{}
			syms = append(syms, step.Symbol)
		}
	}
	symbol.Sort(syms)

	steps := make([]Step[R], 0, len(syms))
	for _, sym := range syms {
		next := make([]State[struct{}], len(s.states))
		for i, state := range s.states {
			if state == nil {
				continue
			}
			next[i] = Next(state, sym)
		}
		steps = append(steps, Step[R]{
			Symbol: sym,
			Next: &compositeState[R]{
				composite: s.composite,
				states:    next,
			},
		})
	}
	return steps
}

func (s *compositeState[R]) Key() string {
	var b strings.Builder
	b.WriteString("<")
	for i, state := range s.states {
		if i > 0 {
			b.WriteString(",")
		}
		if state == nil {
			b.WriteString("-")
			continue
		}
		b.WriteString(state.Key())
	}
	b.WriteString(">")
	return b.String()
}
