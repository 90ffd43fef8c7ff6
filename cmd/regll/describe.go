package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/driver"
	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/spec"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	json *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the properties of a grammar",
		Example: `  regll describe expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.json = cmd.Flags().Bool("json", false, "print the description in JSON")
	rootCmd.AddCommand(cmd)
}

type description struct {
	Start       string               `json:"start"`
	Productions []string             `json:"productions"`
	Symbols     []*symbolDescription `json:"symbols"`
	Automata    []*automatonSummary  `json:"automata"`
	StateCount  int                  `json:"state_count"`
	Warnings    []string             `json:"warnings"`
	Conflict    string               `json:"conflict,omitempty"`
}

type symbolDescription struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Nullable  bool     `json:"nullable"`
	First     []string `json:"first"`
	Follow    []string `json:"follow"`
	FirstPlus []string `json:"first_plus"`
}

type automatonSummary struct {
	LHS       string `json:"lhs"`
	States    int    `json:"states"`
	Accepting int    `json:"accepting"`
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	s, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	ag, err := grammar.NewAutomatonGrammar(s.Grammar)
	if err != nil {
		return explainGrammarError(err, s.SymbolTable.Reader().Name)
	}

	desc := describeGrammar(s, ag)

	if *describeFlags.json {
		b, err := json.Marshal(desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
		return nil
	}

	return writeDescription(os.Stdout, desc)
}

func describeGrammar(s *spec.Spec, ag *grammar.AutomatonGrammar) *description {
	r := s.SymbolTable.Reader()
	names := func(set *grammar.SymbolSet) []string {
		syms := set.Symbols()
		texts := make([]string, len(syms))
		for i, sym := range syms {
			texts[i] = r.Name(sym)
		}
		return texts
	}

	a := grammar.Analyze(ag)
	desc := &description{
		Start:    r.Name(ag.StartSymbol()),
		Warnings: []string{},
	}
	for _, prod := range s.Grammar.Productions() {
		desc.Productions = append(desc.Productions, prod.Format(r.Name))
	}
	for _, sym := range ag.Symbols() {
		kind := "terminal"
		if sym.IsNonTerminal() {
			kind = "non-terminal"
		}
		desc.Symbols = append(desc.Symbols, &symbolDescription{
			Name:      r.Name(sym),
			Kind:      kind,
			Nullable:  a.Nullable.Contains(sym),
			First:     names(a.First.Of(sym)),
			Follow:    names(a.Follow.Of(sym)),
			FirstPlus: names(a.FirstPlus.Of(sym)),
		})
	}
	for _, lhs := range ag.NonTerminals() {
		g, _ := ag.Graph(lhs)
		desc.Automata = append(desc.Automata, &automatonSummary{
			LHS:       r.Name(lhs),
			States:    g.Len(),
			Accepting: len(g.AcceptingStates()),
		})
		desc.StateCount += g.Len()
	}
	for _, d := range s.UnusedTerminals {
		desc.Warnings = append(desc.Warnings, fmt.Sprintf("%v: %v", d.Range().Start, diagnostics.Message(d, r.Name)))
	}

	_, err := driver.NewParsingTable(ag, a)
	if err != nil {
		if actErr, ok := err.(*driver.AmbiguousParseActionError); ok {
			desc.Conflict = actErr.Format(r.Name)
		} else {
			desc.Conflict = err.Error()
		}
	}

	return desc
}

const descTemplate = `# Start

{{ .Start }}

# Productions

{{ range .Productions -}}
{{ . }}
{{ end }}
# Symbols
{{ range .Symbols }}
## {{ .Name }} ({{ .Kind }})

nullable:   {{ .Nullable }}
first:      {{ join .First }}
follow:     {{ join .Follow }}
first+:     {{ join .FirstPlus }}
{{ end }}
# Automata

{{ range .Automata -}}
{{ .LHS }}: {{ .States }} state(s), {{ .Accepting }} accepting
{{ end -}}
total: {{ .StateCount }} state(s)

# LL(1)

{{ if .Conflict }}{{ .Conflict }}{{ else }}ok{{ end }}
{{ if .Warnings }}
# Warnings

{{ range .Warnings -}}
{{ . }}
{{ end -}}
{{ end -}}
`

func writeDescription(w io.Writer, desc *description) error {
	fns := template.FuncMap{
		"join": func(texts []string) string {
			if len(texts) == 0 {
				return "<none>"
			}
			return strings.Join(texts, ", ")
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, desc)
}
