package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/driver"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	repr   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | regll parse expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.repr = cmd.Flags().Bool("repr", false, "dump the parse tree as a Go value instead of drawing it")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	s, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	names := s.SymbolTable.Reader().Name
	w := diagnostics.NewWriter(os.Stderr, names)
	p, err := driver.NewParser(s.Grammar, driver.Diagnostics(w), driver.SymbolNames(s.SymbolTable.Reader()))
	if err != nil {
		return explainGrammarError(err, names)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	stream, err := driver.NewTokenStream(s.Lexical, src)
	if err != nil {
		return err
	}
	tree, err := p.Process(stream)
	if err != nil {
		if errors.Is(err, driver.ErrParseFailed) {
			return fmt.Errorf("%w; errors: %v", err, w.ErrorCount())
		}
		return err
	}

	if *parseFlags.repr {
		fmt.Fprintln(os.Stdout, repr.String(tree, repr.Indent("  ")))
		return nil
	}
	driver.PrintTree(os.Stdout, tree, names)

	return nil
}
