package main

import (
	"fmt"
	"os"

	"github.com/nihei9/regll/diagnostics"
	"github.com/nihei9/regll/driver"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path>",
		Short:   "Check that a grammar is LL(1)",
		Example: `  regll check expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	s, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	names := s.SymbolTable.Reader().Name
	w := diagnostics.NewWriter(os.Stderr, names)
	for _, d := range s.UnusedTerminals {
		w.Report(d)
	}

	_, err = driver.NewParser(s.Grammar, driver.SymbolNames(s.SymbolTable.Reader()))
	if err != nil {
		return explainGrammarError(err, names)
	}

	fmt.Fprintln(os.Stdout, "ok")

	return nil
}
