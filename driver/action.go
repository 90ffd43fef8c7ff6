package driver

import (
	"fmt"

	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/symbol"
)

// Action is one of *Shift, *Call, and *Reduce.
type Action interface {
	format(name func(symbol.Symbol) string) string
	action()
}

var (
	_ Action = &Shift{}
	_ Action = &Call{}
	_ Action = &Reduce{}
)

// Shift consumes the lookahead leaf.
type Shift struct{}

func (a *Shift) format(name func(symbol.Symbol) string) string {
	return "shift"
}

func (a *Shift) action() {}

// Call starts recognizing Child.
type Call struct {
	Child symbol.Symbol
}

func (a *Call) format(name func(symbol.Symbol) string) string {
	return fmt.Sprintf("call %v", name(a.Child))
}

func (a *Call) action() {}

// Reduce finishes recognizing Production.
type Reduce struct {
	Production *grammar.Production
}

func (a *Reduce) format(name func(symbol.Symbol) string) string {
	return fmt.Sprintf("reduce %v", a.Production.Format(name))
}

func (a *Reduce) action() {}
