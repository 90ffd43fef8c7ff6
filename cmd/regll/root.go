package main

import (
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	start *string
	skip  *[]string
}{}

var rootCmd = &cobra.Command{
	Use:   "regll",
	Short: "Check a grammar and parse a text stream with it",
	Long: `regll reads a grammar written in EBNF, whose productions may contain repetitions and options,
and provides four features:
- Checks that the grammar is LL(1).
- Describes the grammar: Nullable, First, Follow, and First+ of every symbol.
- Parses a text stream and prints its parse tree.
- Tests the grammar against expected parse trees.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.start = rootCmd.PersistentFlags().String("start", "", "start symbol (default the first non-terminal production)")
	rootFlags.skip = rootCmd.PersistentFlags().StringSlice("skip", []string{"white_space"}, "lexical productions the parser skips")
}

func Execute() error {
	return rootCmd.Execute()
}
