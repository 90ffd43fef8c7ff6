package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
)

// ParseTree is either *Leaf or *Branch.
type ParseTree interface {
	Range() source.Range
	Symbol() symbol.Symbol
	parseTree()
}

var (
	_ ParseTree = &Leaf{}
	_ ParseTree = &Branch{}
)

// Leaf is a terminal symbol with the text it matched.
type Leaf struct {
	Loc  source.Range
	Sym  symbol.Symbol
	Text string
}

func (l *Leaf) Range() source.Range {
	return l.Loc
}

func (l *Leaf) Symbol() symbol.Symbol {
	return l.Sym
}

func (l *Leaf) parseTree() {}

// Branch is an instance of a production.
type Branch struct {
	Loc        source.Range
	Sym        symbol.Symbol
	Children   []ParseTree
	Production *grammar.Production
}

func (b *Branch) Range() source.Range {
	return b.Loc
}

func (b *Branch) Symbol() symbol.Symbol {
	return b.Sym
}

func (b *Branch) parseTree() {}

// PrintTree writes tree with ruled lines. name maps a symbol to its text; a nil name renders
// symbols in their numeric form.
func PrintTree(w io.Writer, tree ParseTree, name func(symbol.Symbol) string) {
	if name == nil {
		name = func(sym symbol.Symbol) string {
			return sym.String()
		}
	}
	printTree(w, tree, name, "", "")
}

func printTree(w io.Writer, tree ParseTree, name func(symbol.Symbol) string, ruledLine string, childRuledLinePrefix string) {
	if tree == nil {
		return
	}

	var children []ParseTree
	switch t := tree.(type) {
	case *Leaf:
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, name(t.Sym), t.Text)
	case *Branch:
		fmt.Fprintf(w, "%v%v\n", ruledLine, name(t.Sym))
		children = t.Children
	}

	num := len(children)
	for i, child := range children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, name, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
