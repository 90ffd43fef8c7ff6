package diagnostics

import (
	"bytes"
	"testing"

	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/source"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Report(&UnusedTerminal{Name: "comment"})
	if c.HasErrors() {
		t.Fatalf("a warning must not count as an error")
	}
	c.Report(&InvalidToken{Text: "#"})
	c.Report(&UnexpectedEndOfInput{})

	if len(c.Diagnostics()) != 3 {
		t.Fatalf("unexpected diagnostic count; want: %v, got: %v", 3, len(c.Diagnostics()))
	}
	if len(c.Errors()) != 2 {
		t.Fatalf("unexpected error count; want: %v, got: %v", 2, len(c.Errors()))
	}
	if len(c.Warnings()) != 1 {
		t.Fatalf("unexpected warning count; want: %v, got: %v", 1, len(c.Warnings()))
	}
	if !c.HasErrors() {
		t.Fatalf("a collector must have errors")
	}
}

func TestWriter(t *testing.T) {
	tab := symbol.NewSymbolTable()
	w := tab.Writer()
	plus, _ := w.RegisterTerminalSymbol("plus")
	num, _ := w.RegisterTerminalSymbol("num")
	r := tab.Reader()

	tests := []struct {
		diag Diagnostic
		want string
	}{
		{
			diag: &UnexpectedSymbol{
				Loc: source.Range{
					Start: source.Location{Row: 1, Col: 3},
					End:   source.Location{Row: 1, Col: 3},
				},
				Symbol:   plus,
				Text:     "+",
				Expected: []symbol.Symbol{num},
			},
			want: "1:3: error: unexpected symbol; symbol: plus, text: \"+\", expected: num\n",
		},
		{
			diag: &UnexpectedEndOfInput{
				Loc:      source.Location{Row: 2, Col: 1},
				Expected: []symbol.Symbol{num, symbol.SymbolEOF},
			},
			want: "2:1: error: unexpected end of input; expected: num, <eof>\n",
		},
		{
			diag: &InvalidToken{
				Loc:  source.At(source.Location{Row: 1, Col: 1}),
				Text: "#",
			},
			want: "1:1: error: invalid token; text: \"#\"\n",
		},
		{
			diag: &UnusedTerminal{
				Loc:  source.At(source.Location{Row: 5, Col: 1}),
				Name: "comment",
			},
			want: "5:1: warning: unused terminal; name: comment\n",
		},
	}
	for _, tt := range tests {
		var b bytes.Buffer
		dw := NewWriter(&b, r.Name)
		dw.Report(tt.diag)
		if b.String() != tt.want {
			t.Fatalf("unexpected output; want: %#v, got: %#v", tt.want, b.String())
		}
		wantErrs := 0
		if tt.diag.Severity() == SeverityError {
			wantErrs = 1
		}
		if dw.ErrorCount() != wantErrs {
			t.Fatalf("unexpected error count; want: %v, got: %v", wantErrs, dw.ErrorCount())
		}
	}
}
