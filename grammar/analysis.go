package grammar

// ComputeFirstPlus returns the lookahead sets of every symbol: First, plus Follow for nullable
// symbols.
func ComputeFirstPlus(nullable *SymbolSet, first, follow SymbolSets) SymbolSets {
	firstPlus := SymbolSets{}
	for sym, e := range first {
		fp := e.Clone()
		if nullable.Contains(sym) {
			fp.Merge(follow[sym])
		}
		firstPlus[sym] = fp
	}
	return firstPlus
}

// Analysis is the result of the fixpoint analyses of a grammar.
type Analysis struct {
	Nullable  *SymbolSet
	First     SymbolSets
	Follow    SymbolSets
	FirstPlus SymbolSets
}

func Analyze(ag *AutomatonGrammar) *Analysis {
	nullable := ComputeNullable(ag)
	first := ComputeFirst(ag, nullable)
	follow := ComputeFollow(ag, nullable, first)
	return &Analysis{
		Nullable:  nullable,
		First:     first,
		Follow:    follow,
		FirstPlus: ComputeFirstPlus(nullable, first, follow),
	}
}
