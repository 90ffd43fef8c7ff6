// Package spec loads a grammar description written in EBNF.
//
// A production whose name starts with an upper-case letter defines a non-terminal. Its body maps to a
// regular expression over grammar symbols: `|` is a union, juxtaposition is a concatenation, `[...]`
// is optional, and `{...}` is a repetition. A quoted token in such a body is an anonymous terminal
// that matches the token literally. Every other production is lexical: its body is one quoted maleeni
// pattern.
//
//	Expr        = Term { "+" Term } .
//	Term        = Factor { "*" Factor } .
//	Factor      = "(" Expr ")" | number .
//	number      = "[0-9]+" .
//	white_space = "[ \t\n]+" .
package spec

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/regll/diagnostics"
	verr "github.com/nihei9/regll/error"
	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
	"golang.org/x/exp/ebnf"
)

const defaultSourceName = "<grammar>"

// lexSpecName names every lexical specification. maleeni requires a snake_case identifier.
const lexSpecName = "regll"

type LoadOption func(config *loadConfig)

type loadConfig struct {
	start      string
	skip       []string
	sourceName string
	filePath   string
}

// StartSymbol specifies the start symbol. Without this option, the first non-terminal production
// defines the start symbol.
func StartSymbol(name string) LoadOption {
	return func(config *loadConfig) {
		config.start = name
	}
}

// SkipTerminals makes the lexical productions named names be dropped from the token stream. A name
// having no lexical production is ignored.
func SkipTerminals(names ...string) LoadOption {
	return func(config *loadConfig) {
		config.skip = append(config.skip, names...)
	}
}

// SourceName names the grammar description in error messages.
func SourceName(name string) LoadOption {
	return func(config *loadConfig) {
		config.sourceName = name
	}
}

// FilePath makes error messages quote lines of the file.
func FilePath(path string) LoadOption {
	return func(config *loadConfig) {
		config.filePath = path
	}
}

// Spec is a loaded grammar description.
type Spec struct {
	Grammar     *grammar.Grammar
	SymbolTable *symbol.SymbolTable
	Lexical     *LexicalSpec

	// UnusedTerminals are the lexical productions that are neither referred to nor skipped.
	UnusedTerminals []*diagnostics.UnusedTerminal
}

// LexicalSpec is a compiled maleeni lexical specification and the terminal of each lexical kind.
type LexicalSpec struct {
	Spec *mlspec.CompiledLexSpec

	// KindToTerminal and Skip are indexed by a kind ID.
	KindToTerminal []symbol.Symbol
	Skip           []bool
}

// Load reads a grammar description from src. Errors in the description are reported as
// verr.SpecErrors.
func Load(src io.Reader, opts ...LoadOption) (*Spec, error) {
	config := &loadConfig{
		sourceName: defaultSourceName,
	}
	for _, opt := range opts {
		opt(config)
	}

	l := &loader{
		config: config,
	}
	return l.load(src)
}

type loader struct {
	config *loadConfig
	ast    ebnf.Grammar

	// nonTerms and lexProds are in source order.
	nonTerms []*ebnf.Production
	lexProds []*ebnf.Production

	skip map[string]struct{}

	// refs counts references to each production name from other productions.
	refs map[string]int

	// lits are the anonymous terminals in order of their first appearance.
	lits    []string
	litSeen map[string]struct{}

	symTab *symbol.SymbolTable
	errs   verr.SpecErrors
}

func (l *loader) load(src io.Reader) (*Spec, error) {
	ast, err := ebnf.Parse(l.config.sourceName, src)
	if err != nil {
		return nil, verr.SpecErrors{
			{
				Cause:      synErrEBNF,
				Detail:     err.Error(),
				SourceName: l.config.sourceName,
			},
		}
	}
	l.ast = ast

	l.classify()
	if len(l.errs) > 0 {
		return nil, l.errs
	}

	l.collectReferences()
	if len(l.errs) > 0 {
		return nil, l.errs
	}

	start, ok := l.startSymbol()
	if !ok {
		return nil, l.errs
	}

	l.verify(start)
	if len(l.errs) > 0 {
		return nil, l.errs
	}

	err = l.registerSymbols()
	if err != nil {
		return nil, err
	}

	g, ok := l.genGrammar(start)
	if !ok {
		return nil, l.errs
	}

	lexSpec, ok := l.genLexicalSpec()
	if !ok {
		return nil, l.errs
	}

	return &Spec{
		Grammar:         g,
		SymbolTable:     l.symTab,
		Lexical:         lexSpec,
		UnusedTerminals: l.unusedTerminals(),
	}, nil
}

func (l *loader) addError(cause error, detail string, pos scanner.Position) {
	l.errs = append(l.errs, &verr.SpecError{
		Cause:      cause,
		Detail:     detail,
		FilePath:   l.config.filePath,
		SourceName: l.config.sourceName,
		Row:        pos.Line,
		Col:        pos.Column,
	})
}

var reservedKindNameRE = regexp.MustCompile(`^x_[0-9]+$`)

func (l *loader) classify() {
	prods := make([]*ebnf.Production, 0, len(l.ast))
	for _, prod := range l.ast {
		prods = append(prods, prod)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})

	for _, prod := range prods {
		if isNonTerminal(prod.Name.String) {
			l.nonTerms = append(l.nonTerms, prod)
			continue
		}

		l.lexProds = append(l.lexProds, prod)
		if reservedKindNameRE.MatchString(prod.Name.String) {
			l.addError(semErrReservedKindName, prod.Name.String, prod.Pos())
			continue
		}
		tok, ok := prod.Expr.(*ebnf.Token)
		if !ok {
			l.addError(semErrLexicalProdNoPattern, prod.Name.String, prod.Pos())
			continue
		}
		if tok.String == "" {
			l.addError(semErrEmptyPattern, prod.Name.String, tok.Pos())
		}
	}
	if len(l.nonTerms) == 0 {
		l.addError(semErrNoProduction, "", scanner.Position{})
	}

	l.skip = map[string]struct{}{}
	for _, name := range l.config.skip {
		prod, ok := l.ast[name]
		if !ok {
			continue
		}
		if isNonTerminal(name) {
			l.addError(semErrSkipNotLexical, name, prod.Pos())
			continue
		}
		l.skip[name] = struct{}{}
	}
}

func (l *loader) collectReferences() {
	l.refs = map[string]int{}
	l.litSeen = map[string]struct{}{}
	for _, prod := range l.nonTerms {
		l.collectReferencesOf(prod.Name.String, prod.Expr)
	}
}

func (l *loader) collectReferencesOf(lhs string, expr ebnf.Expression) {
	switch e := expr.(type) {
	case nil:
	case ebnf.Alternative:
		for _, elem := range e {
			l.collectReferencesOf(lhs, elem)
		}
	case ebnf.Sequence:
		for _, elem := range e {
			l.collectReferencesOf(lhs, elem)
		}
	case *ebnf.Group:
		l.collectReferencesOf(lhs, e.Body)
	case *ebnf.Option:
		l.collectReferencesOf(lhs, e.Body)
	case *ebnf.Repetition:
		l.collectReferencesOf(lhs, e.Body)
	case *ebnf.Name:
		if _, ok := l.ast[e.String]; !ok {
			l.addError(semErrUndefinedSymbol, e.String, e.Pos())
			return
		}
		if _, ok := l.skip[e.String]; ok {
			l.addError(semErrSkipReferenced, e.String, e.Pos())
			return
		}
		if e.String != lhs {
			l.refs[e.String]++
		}
	case *ebnf.Token:
		if e.String == "" {
			l.addError(semErrEmptyPattern, lhs, e.Pos())
			return
		}
		if _, ok := l.litSeen[e.String]; ok {
			return
		}
		l.litSeen[e.String] = struct{}{}
		l.lits = append(l.lits, e.String)
	case *ebnf.Range:
		l.addError(semErrRangeUnsupported, lhs, e.Pos())
	default:
		l.addError(semErrInvalidGrammar, fmt.Sprintf("unknown expression: %T", e), e.Pos())
	}
}

func (l *loader) startSymbol() (string, bool) {
	if l.config.start == "" {
		return l.nonTerms[0].Name.String, true
	}
	if prod, ok := l.ast[l.config.start]; !ok || !isNonTerminal(prod.Name.String) {
		l.addError(semErrStartSymbolNotFound, l.config.start, scanner.Position{})
		return "", false
	}
	return l.config.start, true
}

// verify checks the reachability of the productions from the start symbol. Skipped and unused
// lexical productions are out of the check.
func (l *loader) verify(start string) {
	g := ebnf.Grammar{}
	for _, prod := range l.nonTerms {
		g[prod.Name.String] = prod
	}
	for _, prod := range l.lexProds {
		if l.refs[prod.Name.String] == 0 {
			continue
		}
		g[prod.Name.String] = prod
	}
	err := ebnf.Verify(g, start)
	if err != nil {
		l.addError(semErrVerify, err.Error(), scanner.Position{})
	}
}

func (l *loader) registerSymbols() error {
	l.symTab = symbol.NewSymbolTable()
	w := l.symTab.Writer()
	for _, prod := range l.nonTerms {
		_, err := w.RegisterNonTerminalSymbol(prod.Name.String)
		if err != nil {
			return err
		}
	}
	for _, lit := range l.lits {
		_, err := w.RegisterTerminalSymbol(literalText(lit))
		if err != nil {
			return err
		}
	}
	for _, prod := range l.lexProds {
		_, err := w.RegisterTerminalSymbol(prod.Name.String)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) genGrammar(start string) (*grammar.Grammar, bool) {
	r := l.symTab.Reader()
	var prods []*grammar.Production
	for _, prod := range l.nonTerms {
		lhs, _ := r.ToSymbol(prod.Name.String)

		// Every top-level alternative is a production of its own.
		alts, ok := prod.Expr.(ebnf.Alternative)
		if !ok {
			alts = ebnf.Alternative{prod.Expr}
		}
		for _, alt := range alts {
			p, err := grammar.NewProduction(lhs, l.toRegex(alt))
			if err != nil {
				l.addError(semErrInvalidGrammar, err.Error(), prod.Pos())
				return nil, false
			}
			prods = append(prods, p)
		}
	}

	startSym, _ := r.ToSymbol(start)
	g, err := grammar.NewGrammar(startSym, prods...)
	if err != nil {
		l.addError(semErrInvalidGrammar, err.Error(), scanner.Position{})
		return nil, false
	}
	return g, true
}

func (l *loader) toRegex(expr ebnf.Expression) regex.Regex {
	r := l.symTab.Reader()
	switch e := expr.(type) {
	case nil:
		return regex.NewEpsilon()
	case ebnf.Alternative:
		rs := make([]regex.Regex, len(e))
		for i, elem := range e {
			rs[i] = l.toRegex(elem)
		}
		return regex.NewAlternation(rs...)
	case ebnf.Sequence:
		rs := make([]regex.Regex, len(e))
		for i, elem := range e {
			rs[i] = l.toRegex(elem)
		}
		return regex.NewSequence(rs...)
	case *ebnf.Group:
		return l.toRegex(e.Body)
	case *ebnf.Option:
		return regex.NewOptional(l.toRegex(e.Body))
	case *ebnf.Repetition:
		return regex.NewStar(l.toRegex(e.Body))
	case *ebnf.Name:
		sym, ok := r.ToSymbol(e.String)
		if !ok {
			panic(fmt.Errorf("a symbol was not found in the symbol table; name: %v", e.String))
		}
		return regex.NewAtomic(sym)
	case *ebnf.Token:
		sym, ok := r.ToSymbol(literalText(e.String))
		if !ok {
			panic(fmt.Errorf("a symbol was not found in the symbol table; literal: %v", e.String))
		}
		return regex.NewAtomic(sym)
	}
	panic(fmt.Errorf("unexpected expression: %T", expr))
}

func (l *loader) genLexicalSpec() (*LexicalSpec, bool) {
	r := l.symTab.Reader()

	// Literal patterns take precedence over named ones.
	kind2Sym := map[string]symbol.Symbol{}
	var entries []*mlspec.LexEntry
	for i, lit := range l.lits {
		kind := fmt.Sprintf("x_%v", i+1)
		sym, _ := r.ToSymbol(literalText(lit))
		kind2Sym[kind] = sym
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(lit)),
		})
	}
	for _, prod := range l.lexProds {
		sym, _ := r.ToSymbol(prod.Name.String)
		kind2Sym[prod.Name.String] = sym
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(prod.Name.String),
			Pattern: mlspec.LexPattern(prod.Expr.(*ebnf.Token).String),
		})
	}

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) == 0 {
			l.addError(semErrLexSpec, err.Error(), scanner.Position{})
			return nil, false
		}
		for _, cErr := range cErrs {
			var b strings.Builder
			writeCompileError(&b, cErr)
			pos := scanner.Position{}
			if prod, ok := l.ast[cErr.Kind.String()]; ok {
				pos = prod.Pos()
			}
			l.addError(semErrLexSpec, b.String(), pos)
		}
		return nil, false
	}

	kind2Term := make([]symbol.Symbol, len(clspec.KindNames))
	skip := make([]bool, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		sym, ok := kind2Sym[k.String()]
		if !ok {
			l.addError(semErrLexSpec, fmt.Sprintf("a kind has no terminal; kind: %v", k), scanner.Position{})
			return nil, false
		}
		kind2Term[i] = sym
		if _, ok := l.skip[k.String()]; ok {
			skip[i] = true
		}
	}

	return &LexicalSpec{
		Spec:           clspec,
		KindToTerminal: kind2Term,
		Skip:           skip,
	}, true
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

func (l *loader) unusedTerminals() []*diagnostics.UnusedTerminal {
	var unused []*diagnostics.UnusedTerminal
	for _, prod := range l.lexProds {
		if l.refs[prod.Name.String] > 0 {
			continue
		}
		if _, ok := l.skip[prod.Name.String]; ok {
			continue
		}
		unused = append(unused, &diagnostics.UnusedTerminal{
			Loc:  nameRange(prod.Name),
			Name: prod.Name.String,
		})
	}
	return unused
}

func nameRange(name *ebnf.Name) source.Range {
	start := source.Location{
		Row: name.StringPos.Line,
		Col: name.StringPos.Column,
	}
	n := utf8.RuneCountInString(name.String)
	if n < 1 {
		n = 1
	}
	return source.Range{
		Start: start,
		End: source.Location{
			Row: start.Row,
			Col: start.Col + n - 1,
		},
	}
}

func isNonTerminal(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(ch)
}

// literalText is the symbol text of an anonymous terminal. Quoting keeps it apart from the names of
// lexical productions.
func literalText(lit string) string {
	return strconv.Quote(lit)
}
