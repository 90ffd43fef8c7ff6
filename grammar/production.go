package grammar

import (
	"fmt"

	"github.com/nihei9/regll/grammar/regex"
	"github.com/nihei9/regll/grammar/symbol"
)

type ProductionNum uint16

const (
	ProductionNumNil = ProductionNum(0)
	productionNumMin = ProductionNum(1)
)

func (n ProductionNum) Int() int {
	return int(n)
}

// Production rewrites LHS into any sequence of symbols RHS matches.
type Production struct {
	// Num is assigned by a grammar in declaration order.
	Num ProductionNum
	LHS symbol.Symbol
	RHS regex.Regex
}

func NewProduction(lhs symbol.Symbol, rhs regex.Regex) (*Production, error) {
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if rhs == nil {
		return nil, fmt.Errorf("RHS must be a non-nil regex; LHS: %v", lhs)
	}

	return &Production{
		LHS: lhs,
		RHS: rhs,
	}, nil
}

func (p *Production) equals(q *Production) bool {
	return p.LHS == q.LHS && regex.Equal(p.RHS, q.RHS)
}

// Format renders the production with the symbol names name returns.
func (p *Production) Format(name func(symbol.Symbol) string) string {
	lhs := p.LHS.String()
	if name != nil {
		lhs = name(p.LHS)
	}
	return fmt.Sprintf("%v → %v", lhs, regex.Format(p.RHS, name))
}

func (p *Production) String() string {
	return p.Format(nil)
}
