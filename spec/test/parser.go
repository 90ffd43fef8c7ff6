// Package test reads test cases that pair a source text with the parse tree expected for it.
//
// A test case consists of a description, a source text, and a tree, separated by lines of three or
// more hyphens:
//
//	a sum
//	---
//	1 + 2
//	---
//	(Expr
//	    (Term (Factor (number '1')))
//	    ("+")
//	    (Term (Factor (number '2'))))
//
// A node is a symbol name followed by its children. A leaf may carry the text it must match in
// single quotes; a leaf without text matches any text. The name _ matches any symbol.
package test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/driver"
	"github.com/nihei9/regll/source"
	"github.com/nihei9/regll/spec"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
	Lexeme   string

	// AnyLexeme makes a leaf match regardless of its text.
	AnyLexeme bool
}

func NewTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewLeaf(kind string, lexeme string) *Tree {
	return &Tree{
		Kind:   kind,
		Lexeme: lexeme,
	}
}

// Fill links each node to its parent.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if t.Lexeme != "" {
		fmt.Fprintf(buf, " '%v'", t.Lexeme)
	}
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	// _ matches any symbols.
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if !expected.AnyLexeme && expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

type TestCase struct {
	Description string
	Source      []byte
	Output      *Tree
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just tree parts: %v parts found", len(parts))
	}

	tp, err := getTreeParser()
	if err != nil {
		return nil, err
	}
	tree, err := tp.parseTree(bytes.NewReader(parts[2].buf), parts[0].lineCount+parts[1].lineCount+2)
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
		Output:      tree,
	}, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// (*bytes.Buffer).Bytes() returns nil until something is written.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

const treeGrammar = `
Tree        = "(" Head { Tree } ")" .
Head        = name [ lexeme ] | literal [ lexeme ] .
name        = "[A-Za-z_][0-9A-Za-z_]*" .
literal     = "\"[^\"]*\"" .
lexeme      = "'[^']*'" .
white_space = "[ \t\r\n]+" .
`

// treeParser reads trees using a parser generated from treeGrammar.
type treeParser struct {
	spec   *spec.Spec
	parser *driver.Parser
}

var (
	treeParserOnce sync.Once
	treeParserInst *treeParser
	treeParserErr  error
)

func getTreeParser() (*treeParser, error) {
	treeParserOnce.Do(func() {
		s, err := spec.Load(strings.NewReader(treeGrammar), spec.SkipTerminals("white_space"), spec.SourceName("tree grammar"))
		if err != nil {
			treeParserErr = err
			return
		}
		p, err := driver.NewParser(s.Grammar, driver.SymbolNames(s.SymbolTable.Reader()))
		if err != nil {
			treeParserErr = err
			return
		}
		treeParserInst = &treeParser{
			spec:   s,
			parser: p,
		}
	})
	return treeParserInst, treeParserErr
}

func (tp *treeParser) parseTree(src io.Reader, lineOffset int) (*Tree, error) {
	toks, err := driver.NewTokenStream(tp.spec.Lexical, src)
	if err != nil {
		return nil, err
	}
	diags := diagnostics.NewCollector()
	tree, err := tp.parser.WithDiagnostics(diags).Process(toks)
	if err != nil {
		if !errors.Is(err, driver.ErrParseFailed) {
			return nil, err
		}
		name := tp.spec.SymbolTable.Reader().Name
		var b strings.Builder
		for i, d := range diags.Errors() {
			if i > 0 {
				b.WriteRune('\n')
			}
			loc := d.Range().Start
			fmt.Fprintf(&b, "%v: %v", source.Location{Row: loc.Row + lineOffset, Col: loc.Col}, diagnostics.Message(d, name))
		}
		return nil, errors.New(b.String())
	}
	return genTree(tree).Fill(), nil
}

// genTree converts a parse tree of treeGrammar. A Tree branch consists of "(", Head, zero or more
// Tree branches, and ")". A Head branch consists of a name or a literal and an optional lexeme.
func genTree(b *driver.Branch) *Tree {
	head := b.Children[1].(*driver.Branch)
	t := &Tree{
		Kind:      head.Children[0].(*driver.Leaf).Text,
		AnyLexeme: true,
	}
	if len(head.Children) > 1 {
		lexeme := head.Children[1].(*driver.Leaf).Text
		t.Lexeme = lexeme[1 : len(lexeme)-1]
		t.AnyLexeme = false
	}
	for _, c := range b.Children[2 : len(b.Children)-1] {
		t.Children = append(t.Children, genTree(c.(*driver.Branch)))
	}
	return t
}
