package regex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/regll/grammar/symbol"
)

// Regex is a regular expression over grammar symbols. Values are immutable and always kept in the
// canonical form the constructors of this package produce, so structurally equal values denote
// equal languages.
type Regex interface {
	// Nullable reports whether the language contains the empty sequence.
	Nullable() bool

	// First returns, in ascending order, the symbols whose derivative is not Empty.
	First() []symbol.Symbol

	// Derivative returns the residual language after consuming sym.
	Derivative(sym symbol.Symbol) Regex

	// Key returns the canonical structural key. Two regexes are equal iff their keys are equal.
	Key() string

	String() string

	rank() int
}

var (
	_ Regex = &Empty{}
	_ Regex = &Epsilon{}
	_ Regex = &Atomic{}
	_ Regex = &Star{}
	_ Regex = &Union{}
	_ Regex = &Concat{}
)

// Variants are ordered by these ranks first.
const (
	rankAtomic = iota
	rankConcat
	rankEmpty
	rankEpsilon
	rankStar
	rankUnion
)

const (
	keyEmpty   = `\empty`
	keyEpsilon = `\eps`
)

var (
	emptyRegex   = &Empty{}
	epsilonRegex = &Epsilon{}
)

// Empty denotes the empty language.
type Empty struct{}

func NewEmpty() Regex {
	return emptyRegex
}

func (r *Empty) Nullable() bool {
	return false
}

func (r *Empty) First() []symbol.Symbol {
	return nil
}

func (r *Empty) Derivative(sym symbol.Symbol) Regex {
	return emptyRegex
}

func (r *Empty) Key() string {
	return keyEmpty
}

func (r *Empty) String() string {
	return Format(r, nil)
}

func (r *Empty) rank() int {
	return rankEmpty
}

// Epsilon denotes the language containing only the empty sequence.
type Epsilon struct{}

func NewEpsilon() Regex {
	return epsilonRegex
}

func (r *Epsilon) Nullable() bool {
	return true
}

func (r *Epsilon) First() []symbol.Symbol {
	return nil
}

func (r *Epsilon) Derivative(sym symbol.Symbol) Regex {
	return emptyRegex
}

func (r *Epsilon) Key() string {
	return keyEpsilon
}

func (r *Epsilon) String() string {
	return Format(r, nil)
}

func (r *Epsilon) rank() int {
	return rankEpsilon
}

// Atomic matches exactly one symbol out of a non-empty set.
type Atomic struct {
	syms []symbol.Symbol
	key  string
}

// NewAtomic returns a regex matching any one of syms. Without symbols it returns Empty.
func NewAtomic(syms ...symbol.Symbol) Regex {
	s := mergeSymbols(nil, syms)
	if len(s) == 0 {
		return emptyRegex
	}
	return &Atomic{
		syms: s,
		key:  atomicKey(s),
	}
}

func atomicKey(syms []symbol.Symbol) string {
	if len(syms) == 1 {
		return syms[0].String()
	}
	var b strings.Builder
	b.WriteString("[")
	for i, sym := range syms {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteString(sym.String())
	}
	b.WriteString("]")
	return b.String()
}

// Symbols returns the sorted symbol set. The returned slice must not be modified.
func (r *Atomic) Symbols() []symbol.Symbol {
	return r.syms
}

func (r *Atomic) Contains(sym symbol.Symbol) bool {
	i := sort.Search(len(r.syms), func(i int) bool {
		return r.syms[i] >= sym
	})
	return i < len(r.syms) && r.syms[i] == sym
}

func (r *Atomic) Nullable() bool {
	return false
}

func (r *Atomic) First() []symbol.Symbol {
	return r.syms
}

func (r *Atomic) Derivative(sym symbol.Symbol) Regex {
	if r.Contains(sym) {
		return epsilonRegex
	}
	return emptyRegex
}

func (r *Atomic) Key() string {
	return r.key
}

func (r *Atomic) String() string {
	return Format(r, nil)
}

func (r *Atomic) rank() int {
	return rankAtomic
}

// Star is the Kleene closure of Child. Child is never Empty, Epsilon, or Star.
type Star struct {
	Child Regex
	key   string
}

func NewStar(child Regex) Regex {
	switch c := child.(type) {
	case *Empty, *Epsilon:
		return epsilonRegex
	case *Star:
		return c
	}
	return &Star{
		Child: child,
		key:   "(" + child.Key() + ")*",
	}
}

func (r *Star) Nullable() bool {
	return true
}

func (r *Star) First() []symbol.Symbol {
	return r.Child.First()
}

func (r *Star) Derivative(sym symbol.Symbol) Regex {
	return NewConcat(r.Child.Derivative(sym), r)
}

func (r *Star) Key() string {
	return r.key
}

func (r *Star) String() string {
	return Format(r, nil)
}

func (r *Star) rank() int {
	return rankStar
}

// Union is the alternation of Left and Right. Right is never a Union, the flattened operands are
// strictly ascending by Compare, and at most one of them is an Atomic.
type Union struct {
	Left     Regex
	Right    Regex
	key      string
	nullable bool
	first    []symbol.Symbol
}

func newUnion(left, right Regex) *Union {
	return &Union{
		Left:     left,
		Right:    right,
		key:      "(" + left.Key() + "|" + right.Key() + ")",
		nullable: left.Nullable() || right.Nullable(),
		first:    mergeSymbols(left.First(), right.First()),
	}
}

// NewUnion returns the canonical alternation of left and right.
func NewUnion(left, right Regex) Regex {
	var ops []Regex
	ops = collectUnionOperands(ops, left)
	ops = collectUnionOperands(ops, right)
	return foldUnion(ops)
}

func collectUnionOperands(ops []Regex, r Regex) []Regex {
	switch r := r.(type) {
	case *Union:
		ops = collectUnionOperands(ops, r.Left)
		return collectUnionOperands(ops, r.Right)
	case *Empty:
		return ops
	}
	return append(ops, r)
}

func foldUnion(ops []Regex) Regex {
	sort.SliceStable(ops, func(i, j int) bool {
		return Compare(ops[i], ops[j]) < 0
	})

	var atoms []symbol.Symbol
	var rest []Regex
	for _, op := range ops {
		if a, ok := op.(*Atomic); ok {
			atoms = mergeSymbols(atoms, a.syms)
			continue
		}
		if len(rest) > 0 && Compare(rest[len(rest)-1], op) == 0 {
			continue
		}
		rest = append(rest, op)
	}

	var result Regex = emptyRegex
	if len(atoms) > 0 {
		result = NewAtomic(atoms...)
	}
	for _, op := range rest {
		if _, ok := result.(*Empty); ok {
			result = op
			continue
		}
		result = newUnion(result, op)
	}
	return result
}

func (r *Union) Nullable() bool {
	return r.nullable
}

func (r *Union) First() []symbol.Symbol {
	return r.first
}

func (r *Union) Derivative(sym symbol.Symbol) Regex {
	return NewUnion(r.Left.Derivative(sym), r.Right.Derivative(sym))
}

func (r *Union) Key() string {
	return r.key
}

func (r *Union) String() string {
	return Format(r, nil)
}

func (r *Union) rank() int {
	return rankUnion
}

// Concat is the concatenation of Left and Right. Right is never a Concat, and neither operand is
// Empty or Epsilon.
type Concat struct {
	Left     Regex
	Right    Regex
	key      string
	nullable bool
	first    []symbol.Symbol
}

func newConcat(left, right Regex) *Concat {
	first := left.First()
	if left.Nullable() {
		first = mergeSymbols(first, right.First())
	}
	return &Concat{
		Left:     left,
		Right:    right,
		key:      "(" + left.Key() + " " + right.Key() + ")",
		nullable: left.Nullable() && right.Nullable(),
		first:    first,
	}
}

// NewConcat returns the canonical concatenation of left and right.
func NewConcat(left, right Regex) Regex {
	if isEmpty(left) || isEmpty(right) {
		return emptyRegex
	}
	if isEpsilon(left) {
		return right
	}
	if isEpsilon(right) {
		return left
	}

	var ops []Regex
	ops = collectConcatOperands(ops, left)
	ops = collectConcatOperands(ops, right)
	result := ops[0]
	for _, op := range ops[1:] {
		result = newConcat(result, op)
	}
	return result
}

func collectConcatOperands(ops []Regex, r Regex) []Regex {
	if c, ok := r.(*Concat); ok {
		ops = collectConcatOperands(ops, c.Left)
		return collectConcatOperands(ops, c.Right)
	}
	return append(ops, r)
}

func (r *Concat) Nullable() bool {
	return r.nullable
}

func (r *Concat) First() []symbol.Symbol {
	return r.first
}

func (r *Concat) Derivative(sym symbol.Symbol) Regex {
	d := NewConcat(r.Left.Derivative(sym), r.Right)
	if r.Left.Nullable() {
		return NewUnion(d, r.Right.Derivative(sym))
	}
	return d
}

func (r *Concat) Key() string {
	return r.key
}

func (r *Concat) String() string {
	return Format(r, nil)
}

func (r *Concat) rank() int {
	return rankConcat
}

// NewOptional returns child|().
func NewOptional(child Regex) Regex {
	return NewUnion(child, epsilonRegex)
}

// NewPlus returns child child*.
func NewPlus(child Regex) Regex {
	return NewConcat(child, NewStar(child))
}

// NewSequence concatenates rs in order. An empty sequence is Epsilon.
func NewSequence(rs ...Regex) Regex {
	var result Regex = epsilonRegex
	for _, r := range rs {
		result = NewConcat(result, r)
	}
	return result
}

// NewAlternation unions rs. An empty alternation is Empty.
func NewAlternation(rs ...Regex) Regex {
	var result Regex = emptyRegex
	for _, r := range rs {
		result = NewUnion(result, r)
	}
	return result
}

// Compare orders regexes by variant first, then structurally.
func Compare(a, b Regex) int {
	if a.rank() != b.rank() {
		if a.rank() < b.rank() {
			return -1
		}
		return 1
	}
	switch a := a.(type) {
	case *Atomic:
		return compareSymbols(a.syms, b.(*Atomic).syms)
	case *Concat:
		b := b.(*Concat)
		if c := Compare(a.Left, b.Left); c != 0 {
			return c
		}
		return Compare(a.Right, b.Right)
	case *Union:
		b := b.(*Union)
		if c := Compare(a.Left, b.Left); c != 0 {
			return c
		}
		return Compare(a.Right, b.Right)
	case *Star:
		return Compare(a.Child, b.(*Star).Child)
	case *Empty, *Epsilon:
		return 0
	}
	panic(fmt.Errorf("unknown regex variant: %T", a))
}

func Equal(a, b Regex) bool {
	return a.Key() == b.Key()
}

// Matches reports whether r accepts word by deriving r over each symbol of word.
func Matches(r Regex, word []symbol.Symbol) bool {
	for _, sym := range word {
		r = r.Derivative(sym)
		if isEmpty(r) {
			return false
		}
	}
	return r.Nullable()
}

func isEmpty(r Regex) bool {
	_, ok := r.(*Empty)
	return ok
}

func isEpsilon(r Regex) bool {
	_, ok := r.(*Epsilon)
	return ok
}

// compareSymbols compares lexicographically up to the shorter length, then by length.
func compareSymbols(a, b []symbol.Symbol) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// mergeSymbols returns the sorted union of a and b without duplicates. a must already be sorted
// and free of duplicates; b may be in any order.
func mergeSymbols(a, b []symbol.Symbol) []symbol.Symbol {
	if len(b) == 0 {
		return a
	}
	merged := make([]symbol.Symbol, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	symbol.Sort(merged)
	n := 0
	for i, sym := range merged {
		if i > 0 && merged[n-1] == sym {
			continue
		}
		merged[n] = sym
		n++
	}
	return merged[:n]
}
