package regex

import (
	"strings"
	"unicode/utf8"

	"github.com/nihei9/regll/grammar/symbol"
)

const (
	precUnion = iota
	precConcat
	precPostfix
)

// Format renders r in the notation Parse reads. name maps a symbol to its text; a nil name renders
// symbols in their numeric form.
func Format(r Regex, name func(symbol.Symbol) string) string {
	if name == nil {
		name = func(sym symbol.Symbol) string {
			return sym.String()
		}
	}
	var b strings.Builder
	format(&b, r, name, precUnion)
	return b.String()
}

func format(b *strings.Builder, r Regex, name func(symbol.Symbol) string, prec int) {
	switch r := r.(type) {
	case *Empty:
		b.WriteString("[]")
	case *Epsilon:
		b.WriteString("()")
	case *Atomic:
		if len(r.syms) == 1 {
			b.WriteString(formatName(name(r.syms[0])))
			return
		}
		b.WriteString("[")
		for _, sym := range r.syms {
			b.WriteString(formatName(name(sym)))
		}
		b.WriteString("]")
	case *Star:
		format(b, r.Child, name, precPostfix)
		b.WriteString("*")
	case *Concat:
		if prec > precConcat {
			b.WriteString("(")
		}
		format(b, r.Left, name, precConcat)
		b.WriteString(" ")
		format(b, r.Right, name, precPostfix)
		if prec > precConcat {
			b.WriteString(")")
		}
	case *Union:
		if prec > precUnion {
			b.WriteString("(")
		}
		format(b, r.Left, name, precUnion)
		b.WriteString("|")
		format(b, r.Right, name, precConcat)
		if prec > precUnion {
			b.WriteString(")")
		}
	}
}

func formatName(text string) string {
	if utf8.RuneCountInString(text) == 1 {
		c, _ := utf8.DecodeRuneInString(text)
		if isSpecial(c) {
			return `\` + text
		}
		if !isSpace(c) {
			return text
		}
	}
	return "{" + text + "}"
}
