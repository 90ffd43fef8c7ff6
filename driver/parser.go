package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/automaton"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
)

// ErrParseFailed means the input is not a sentence of the grammar. The details have already been
// reported to the diagnostics sink of the parser.
var ErrParseFailed = errors.New("parse failed")

type ParserOption func(p *Parser) error

// Diagnostics makes a parser report syntax errors to sink.
func Diagnostics(sink diagnostics.Sink) ParserOption {
	return func(p *Parser) error {
		if sink == nil {
			return fmt.Errorf("a diagnostics sink must be non-nil")
		}
		p.sink = sink
		return nil
	}
}

// SymbolNames makes errors returned by a parser refer to symbols by their text.
func SymbolNames(r *symbol.SymbolTableReader) ParserOption {
	return func(p *Parser) error {
		if r == nil {
			return fmt.Errorf("a symbol table reader must be non-nil")
		}
		p.names = r.Name
		return nil
	}
}

type discardSink struct{}

func (s discardSink) Report(d diagnostics.Diagnostic) {}

type Parser struct {
	ag       *grammar.AutomatonGrammar
	analysis *grammar.Analysis
	tab      *ParsingTable
	sink     diagnostics.Sink
	names    func(symbol.Symbol) string
}

// NewParser builds the automata, the analyses, and the parsing table of g. A parser is reusable:
// every call of Process parses an independent input.
func NewParser(g *grammar.Grammar, opts ...ParserOption) (*Parser, error) {
	ag, err := grammar.NewAutomatonGrammar(g)
	if err != nil {
		return nil, err
	}
	return NewParserFromAutomaton(ag, opts...)
}

func NewParserFromAutomaton(ag *grammar.AutomatonGrammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		ag:   ag,
		sink: discardSink{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	p.analysis = grammar.Analyze(ag)
	tab, err := NewParsingTable(ag, p.analysis)
	if err != nil {
		var actErr *AmbiguousParseActionError
		if errors.As(err, &actErr) {
			actErr.names = p.names
		}
		return nil, err
	}
	p.tab = tab

	return p, nil
}

// WithDiagnostics returns a parser sharing the tables of p that reports syntax errors to sink.
func (p *Parser) WithDiagnostics(sink diagnostics.Sink) *Parser {
	q := *p
	if sink == nil {
		q.sink = discardSink{}
	} else {
		q.sink = sink
	}
	return &q
}

func (p *Parser) AutomatonGrammar() *grammar.AutomatonGrammar {
	return p.ag
}

func (p *Parser) Analysis() *grammar.Analysis {
	return p.analysis
}

func (p *Parser) ParsingTable() *ParsingTable {
	return p.tab
}

// frame is a production being recognized.
type frame struct {
	lhs      symbol.Symbol
	graph    *automaton.Graph[*grammar.Production]
	state    automaton.StateNum
	children []ParseTree
}

func (p *Parser) newFrame(lhs symbol.Symbol) *frame {
	g, ok := p.ag.Graph(lhs)
	if !ok {
		panic(fmt.Errorf("a non-terminal has no automaton; symbol: %v", lhs))
	}
	return &frame{
		lhs:   lhs,
		graph: g,
		state: g.Start(),
	}
}

// lookahead is the leaf the parser looks at. leaf is nil at the end of input; loc then stays at the
// last leaf.
type lookahead struct {
	leaf *Leaf
	loc  source.Range
}

func (la *lookahead) symbol() symbol.Symbol {
	if la.leaf == nil {
		return symbol.SymbolEOF
	}
	return la.leaf.Sym
}

// Process parses the leaves of stream and returns the parse tree of the start symbol. On a syntax
// error, Process reports exactly one diagnostic and returns ErrParseFailed. An error of stream other
// than *InvalidTokenError is returned as it is.
func (p *Parser) Process(stream LeafStream) (*Branch, error) {
	la := &lookahead{
		loc: source.At(source.Location{
			Row: 1,
			Col: 1,
		}),
	}
	err := p.advance(stream, la)
	if err != nil {
		return nil, err
	}

	stack := []*frame{
		p.newFrame(p.ag.StartSymbol()),
	}
	for {
		top := stack[len(stack)-1]

		sym := la.symbol()
		if la.leaf != nil && (!sym.IsTerminal() || sym.IsEOF()) {
			return nil, p.fail(top, la)
		}
		act, ok := p.tab.Action(top.lhs, top.state, sym)
		if !ok {
			return nil, p.fail(top, la)
		}

		switch act := act.(type) {
		case *Shift:
			next, ok := top.graph.Next(top.state, sym)
			if !ok {
				panic(fmt.Errorf("a state has no transition for a shift action; LHS: %v, state: %v, symbol: %v", top.lhs, top.state, sym))
			}
			top.state = next
			top.children = append(top.children, la.leaf)

			err := p.advance(stream, la)
			if err != nil {
				return nil, err
			}
		case *Call:
			next, ok := top.graph.Next(top.state, act.Child)
			if !ok {
				panic(fmt.Errorf("a state has no transition for a call action; LHS: %v, state: %v, symbol: %v", top.lhs, top.state, act.Child))
			}
			top.state = next
			stack = append(stack, p.newFrame(act.Child))
		case *Reduce:
			stack = stack[:len(stack)-1]
			b := &Branch{
				Loc:        branchRange(top.children, la),
				Sym:        top.lhs,
				Children:   top.children,
				Production: act.Production,
			}
			if len(stack) == 0 {
				// The start symbol must span the whole input.
				if la.leaf != nil {
					p.sink.Report(&diagnostics.UnexpectedSymbol{
						Loc:    la.loc,
						Symbol: la.leaf.Sym,
						Text:   la.leaf.Text,
						Expected: []symbol.Symbol{
							symbol.SymbolEOF,
						},
					})
					return nil, ErrParseFailed
				}
				return b, nil
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, b)
		default:
			panic(fmt.Errorf("unknown action: %T", act))
		}
	}
}

func (p *Parser) advance(stream LeafStream, la *lookahead) error {
	leaf, err := stream.Next()
	if err != nil {
		if err == io.EOF {
			la.leaf = nil
			return nil
		}
		var tokErr *InvalidTokenError
		if errors.As(err, &tokErr) {
			p.sink.Report(&diagnostics.InvalidToken{
				Loc:  tokErr.Loc,
				Text: tokErr.Text,
			})
			return ErrParseFailed
		}
		return err
	}
	la.leaf = leaf
	la.loc = leaf.Loc
	return nil
}

func (p *Parser) fail(top *frame, la *lookahead) error {
	expected := p.tab.ExpectedTerminals(top.lhs, top.state)
	if la.leaf == nil {
		p.sink.Report(&diagnostics.UnexpectedEndOfInput{
			Loc:      la.loc.End,
			Expected: expected,
		})
	} else {
		p.sink.Report(&diagnostics.UnexpectedSymbol{
			Loc:      la.loc,
			Symbol:   la.leaf.Sym,
			Text:     la.leaf.Text,
			Expected: expected,
		})
	}
	return ErrParseFailed
}

// branchRange spans from the first child to the last one. A branch without children sits at the
// lookahead.
func branchRange(children []ParseTree, la *lookahead) source.Range {
	if len(children) == 0 {
		return la.loc
	}
	return source.Range{
		Start: children[0].Range().Start,
		End:   children[len(children)-1].Range().End,
	}
}
