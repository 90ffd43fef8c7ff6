package regex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nihei9/regll/grammar/symbol"
)

var (
	synErrUnexpectedEOF     = fmt.Errorf("unexpected end of pattern")
	synErrUnexpectedChar    = fmt.Errorf("unexpected character")
	synErrIncompletedEscSeq = fmt.Errorf("incompleted escape sequence; unexpected EOF following \\")
	synErrAltLackOfOperand  = fmt.Errorf("an alternation expression must have operands")
	synErrRepNoTarget       = fmt.Errorf("a repeat expression must have an operand")
	synErrGroupUnclosed     = fmt.Errorf("unclosed grouping expression")
	synErrGroupNoInitiator  = fmt.Errorf(") needs preceding (")
	synErrBExpUnclosed      = fmt.Errorf("unclosed bracket expression")
	synErrNameUnclosed      = fmt.Errorf("unclosed symbol name")
	synErrNameEmpty         = fmt.Errorf("a symbol name must not be empty")
)

// SyntaxError is an error in the textual notation of a regex.
type SyntaxError struct {
	Cause  error
	Detail string
	Offset int
}

func (e *SyntaxError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v; offset: %v", e.Cause, e.Offset)
	}
	return fmt.Sprintf("%v: %v; offset: %v", e.Cause, e.Detail, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// Parse reads a regex over grammar symbols written in the following notation:
//
//	{name}  a symbol with an arbitrary name
//	c       a symbol whose name is the single character c
//	\c      a symbol whose name is the special character c
//	[...]   any one of the enclosed symbols
//	a|b     alternation
//	ab      concatenation
//	a* a+ a? repetitions
//	()      the empty sequence
//
// White spaces outside of braces are ignored. An empty text denotes the empty language. resolve
// maps a symbol name to a symbol.
func Parse(text string, resolve func(name string) (symbol.Symbol, error)) (re Regex, retErr error) {
	p := &parser{
		src:     []rune(text),
		resolve: resolve,
	}

	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(error)
			if !ok {
				panic(err)
			}
			return
		}
	}()

	return p.parse(), nil
}

// MustParse is like Parse but panics when text cannot be parsed.
func MustParse(text string, resolve func(name string) (symbol.Symbol, error)) Regex {
	re, err := Parse(text, resolve)
	if err != nil {
		panic(err)
	}
	return re
}

type parser struct {
	src     []rune
	pos     int
	resolve func(name string) (symbol.Symbol, error)
}

func (p *parser) parse() Regex {
	p.skipSpaces()
	if p.eof() {
		return emptyRegex
	}
	alt := p.parseAlt()
	if alt == nil {
		if p.peekIs(')') {
			p.raiseParseError(synErrGroupNoInitiator, "")
		}
		p.raiseParseError(synErrUnexpectedChar, string(p.peek()))
	}
	if !p.eof() {
		if p.peekIs(')') {
			p.raiseParseError(synErrGroupNoInitiator, "")
		}
		p.raiseParseError(synErrUnexpectedChar, string(p.peek()))
	}
	return alt
}

func (p *parser) parseAlt() Regex {
	left := p.parseConcat()
	if left == nil {
		if p.consume('|') {
			p.raiseParseError(synErrAltLackOfOperand, "")
		}
		return nil
	}
	for p.consume('|') {
		right := p.parseConcat()
		if right == nil {
			p.raiseParseError(synErrAltLackOfOperand, "")
		}
		left = NewUnion(left, right)
	}
	return left
}

func (p *parser) parseConcat() Regex {
	left := p.parseRepeat()
	if left == nil {
		return nil
	}
	for {
		right := p.parseRepeat()
		if right == nil {
			break
		}
		left = NewConcat(left, right)
	}
	return left
}

func (p *parser) parseRepeat() Regex {
	group := p.parseGroup()
	if group == nil {
		for _, op := range []rune{'*', '+', '?'} {
			if p.consume(op) {
				p.raiseParseError(synErrRepNoTarget, fmt.Sprintf("%c needs an operand", op))
			}
		}
		return nil
	}
	for {
		switch {
		case p.consume('*'):
			group = NewStar(group)
		case p.consume('+'):
			group = NewPlus(group)
		case p.consume('?'):
			group = NewOptional(group)
		default:
			return group
		}
	}
}

func (p *parser) parseGroup() Regex {
	if p.consume('(') {
		if p.consume(')') {
			return epsilonRegex
		}
		alt := p.parseAlt()
		if alt == nil {
			if p.eof() {
				p.raiseParseError(synErrGroupUnclosed, "")
			}
			p.raiseParseError(synErrUnexpectedChar, string(p.peek()))
		}
		if !p.consume(')') {
			p.raiseParseError(synErrGroupUnclosed, "")
		}
		return alt
	}
	if p.consume('[') {
		var syms []symbol.Symbol
		for !p.consume(']') {
			if p.eof() {
				p.raiseParseError(synErrBExpUnclosed, "")
			}
			sym, ok := p.parseSymbol()
			if !ok {
				p.raiseParseError(synErrUnexpectedChar, string(p.peek()))
			}
			syms = append(syms, sym)
		}
		return NewAtomic(syms...)
	}
	sym, ok := p.parseSymbol()
	if !ok {
		return nil
	}
	return NewAtomic(sym)
}

func (p *parser) parseSymbol() (symbol.Symbol, bool) {
	if p.eof() {
		return symbol.SymbolNil, false
	}
	c := p.peek()
	var name string
	switch {
	case c == '{':
		p.pos++
		var b strings.Builder
		for {
			if p.pos >= len(p.src) {
				p.raiseParseError(synErrNameUnclosed, b.String())
			}
			c := p.src[p.pos]
			p.pos++
			if c == '}' {
				break
			}
			b.WriteRune(c)
		}
		name = b.String()
		if name == "" {
			p.raiseParseError(synErrNameEmpty, "")
		}
	case c == '\\':
		p.pos++
		if p.pos >= len(p.src) {
			p.raiseParseError(synErrIncompletedEscSeq, "")
		}
		name = string(p.src[p.pos])
		p.pos++
	case isSpecial(c):
		return symbol.SymbolNil, false
	default:
		name = string(c)
		p.pos++
	}
	p.skipSpaces()

	sym, err := p.resolve(name)
	if err != nil {
		panic(err)
	}
	return sym, true
}

func (p *parser) consume(c rune) bool {
	if p.eof() || p.src[p.pos] != c {
		return false
	}
	p.pos++
	p.skipSpaces()
	return true
}

func (p *parser) peekIs(c rune) bool {
	return !p.eof() && p.src[p.pos] == c
}

func (p *parser) peek() rune {
	if p.eof() {
		p.raiseParseError(synErrUnexpectedEOF, "")
	}
	return p.src[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) raiseParseError(err error, detail string) {
	panic(&SyntaxError{
		Cause:  err,
		Detail: detail,
		Offset: p.pos,
	})
}

func isSpecial(c rune) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', '|', '*', '+', '?', '\\':
		return true
	}
	return false
}

func isSpace(c rune) bool {
	return unicode.IsSpace(c)
}
