package driver

import (
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
	"github.com/nihei9/regll/spec"
)

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []symbol.Symbol
	skip           []bool
}

// NewTokenStream returns a stream of the leaves maleeni reads from src.
func NewTokenStream(lexSpec *spec.LexicalSpec, src io.Reader) (LeafStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(lexSpec.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: lexSpec.KindToTerminal,
		skip:           lexSpec.Skip,
	}, nil
}

func (s *tokenStream) Next() (*Leaf, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return nil, io.EOF
		}

		text := string(tok.Lexeme)
		loc := tokenRange(tok.Row, tok.Col, text)
		if tok.Invalid {
			return nil, &InvalidTokenError{
				Loc:  loc,
				Text: text,
			}
		}
		if s.skip[tok.KindID] {
			continue
		}

		return &Leaf{
			Loc:  loc,
			Sym:  s.kindToTerminal[tok.KindID],
			Text: text,
		}, nil
	}
}

// tokenRange converts a 0-based position of maleeni into a range ending at the last character of
// text.
func tokenRange(row, col int, text string) source.Range {
	start := source.Location{
		Row: row + 1,
		Col: col + 1,
	}
	end := start
	next := start
	for _, r := range text {
		end = next
		if r == '\n' {
			next.Row++
			next.Col = 1
		} else {
			next.Col++
		}
	}
	return source.Range{
		Start: start,
		End:   end,
	}
}
