package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error: %s", e.message)
}

var (
	synErrEBNF = newSyntaxError("invalid EBNF")

	semErrNoProduction         = newSemanticError("a grammar must have at least one non-terminal production")
	semErrStartSymbolNotFound  = newSemanticError("the start symbol must be a non-terminal defined in the grammar")
	semErrUndefinedSymbol      = newSemanticError("undefined symbol")
	semErrLexicalProdNoPattern = newSemanticError("a lexical production must consist of just one pattern")
	semErrEmptyPattern         = newSemanticError("a pattern must not be empty")
	semErrRangeUnsupported     = newSemanticError("a range is not allowed in a non-terminal production")
	semErrSkipNotLexical       = newSemanticError("a skip terminal must be a lexical production")
	semErrSkipReferenced       = newSemanticError("a skip terminal cannot appear in a non-terminal production")
	semErrReservedKindName     = newSemanticError("a lexical production name must not have the reserved form x_<number>")
	semErrVerify               = newSemanticError("the grammar does not pass verification")
	semErrInvalidGrammar       = newSemanticError("invalid grammar")
	semErrLexSpec              = newSemanticError("invalid lexical specification")
)
