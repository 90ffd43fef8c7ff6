// Package diagnostics carries errors and warnings found in user input to whoever reports them.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
)

type Severity string

const (
	SeverityError   = Severity("error")
	SeverityWarning = Severity("warning")
)

func (s Severity) String() string {
	return string(s)
}

// Diagnostic is one of *UnexpectedSymbol, *UnexpectedEndOfInput, *InvalidToken, and
// *UnusedTerminal.
type Diagnostic interface {
	Severity() Severity
	Range() source.Range
	diagnostic()
}

var (
	_ Diagnostic = &UnexpectedSymbol{}
	_ Diagnostic = &UnexpectedEndOfInput{}
	_ Diagnostic = &InvalidToken{}
	_ Diagnostic = &UnusedTerminal{}
)

// UnexpectedSymbol is a leaf no parsing action accepts.
type UnexpectedSymbol struct {
	Loc      source.Range
	Symbol   symbol.Symbol
	Text     string
	Expected []symbol.Symbol
}

func (d *UnexpectedSymbol) Severity() Severity {
	return SeverityError
}

func (d *UnexpectedSymbol) Range() source.Range {
	return d.Loc
}

func (d *UnexpectedSymbol) diagnostic() {}

// UnexpectedEndOfInput is the end of input in the middle of a production.
type UnexpectedEndOfInput struct {
	Loc      source.Location
	Expected []symbol.Symbol
}

func (d *UnexpectedEndOfInput) Severity() Severity {
	return SeverityError
}

func (d *UnexpectedEndOfInput) Range() source.Range {
	return source.At(d.Loc)
}

func (d *UnexpectedEndOfInput) diagnostic() {}

// InvalidToken is a piece of text the tokenizer matches with no kind.
type InvalidToken struct {
	Loc  source.Range
	Text string
}

func (d *InvalidToken) Severity() Severity {
	return SeverityError
}

func (d *InvalidToken) Range() source.Range {
	return d.Loc
}

func (d *InvalidToken) diagnostic() {}

// UnusedTerminal is a lexical definition no production refers to.
type UnusedTerminal struct {
	Loc  source.Range
	Name string
}

func (d *UnusedTerminal) Severity() Severity {
	return SeverityWarning
}

func (d *UnusedTerminal) Range() source.Range {
	return d.Loc
}

func (d *UnusedTerminal) diagnostic() {}

// Message describes d. name maps a symbol to its text; a nil name renders symbols in their numeric
// form.
func Message(d Diagnostic, name func(symbol.Symbol) string) string {
	if name == nil {
		name = func(sym symbol.Symbol) string {
			return sym.String()
		}
	}
	switch d := d.(type) {
	case *UnexpectedSymbol:
		return fmt.Sprintf("unexpected symbol; symbol: %v, text: %q, expected: %v", name(d.Symbol), d.Text, joinNames(d.Expected, name))
	case *UnexpectedEndOfInput:
		return fmt.Sprintf("unexpected end of input; expected: %v", joinNames(d.Expected, name))
	case *InvalidToken:
		return fmt.Sprintf("invalid token; text: %q", d.Text)
	case *UnusedTerminal:
		return fmt.Sprintf("unused terminal; name: %v", d.Name)
	}
	panic(fmt.Errorf("unknown diagnostic: %T", d))
}

func joinNames(syms []symbol.Symbol, name func(symbol.Symbol) string) string {
	if len(syms) == 0 {
		return "<none>"
	}
	var b strings.Builder
	for i, sym := range syms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name(sym))
	}
	return b.String()
}

// Sink accepts diagnostics. A sink is never read back by whoever reports to it.
type Sink interface {
	Report(d Diagnostic)
}

// Collector keeps every diagnostic reported to it.
type Collector struct {
	diags []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Diagnostics returns the diagnostics in reported order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

func (c *Collector) Errors() []Diagnostic {
	return c.filter(SeverityError)
}

func (c *Collector) Warnings() []Diagnostic {
	return c.filter(SeverityWarning)
}

func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

func (c *Collector) filter(s Severity) []Diagnostic {
	var ds []Diagnostic
	for _, d := range c.diags {
		if d.Severity() == s {
			ds = append(ds, d)
		}
	}
	return ds
}

// Writer writes each diagnostic as one line.
type Writer struct {
	w      io.Writer
	name   func(symbol.Symbol) string
	errors int
}

func NewWriter(w io.Writer, name func(symbol.Symbol) string) *Writer {
	return &Writer{
		w:    w,
		name: name,
	}
}

func (w *Writer) Report(d Diagnostic) {
	if d.Severity() == SeverityError {
		w.errors++
	}
	fmt.Fprintf(w.w, "%v: %v: %v\n", d.Range().Start, d.Severity(), Message(d, w.name))
}

// ErrorCount returns the number of errors written so far.
func (w *Writer) ErrorCount() int {
	return w.errors
}
