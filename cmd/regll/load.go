package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/regll/grammar"
	"github.com/nihei9/regll/grammar/automaton"
	"github.com/nihei9/regll/grammar/symbol"
	"github.com/nihei9/regll/spec"
)

func loadSpec(path string) (*spec.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	opts := []spec.LoadOption{
		spec.SourceName(path),
		spec.FilePath(path),
		spec.SkipTerminals(*rootFlags.skip...),
	}
	if *rootFlags.start != "" {
		opts = append(opts, spec.StartSymbol(*rootFlags.start))
	}
	return spec.Load(f, opts...)
}

// explainGrammarError renders the alternatives an ambiguity error refers to with their symbol names.
func explainGrammarError(err error, name func(symbol.Symbol) string) error {
	var altErr *automaton.AmbiguousAlternativesError
	if !errors.As(err, &altErr) {
		return err
	}

	var b strings.Builder
	for _, tag := range altErr.Tags {
		prod, ok := tag.(*grammar.Production)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n    %v", prod.Format(name))
	}
	return fmt.Errorf("%w%v", err, b.String())
}

func recoverPanic(retErr *error) {
	v := recover()
	if v == nil {
		return
	}

	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}
