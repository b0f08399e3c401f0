package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/lexer"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Tokenize a source file and print the resulting token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(args[0])
		},
	}
}

func runTokens(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	src := lexer.Normalize(raw)

	in := intern.New()
	table := builtins.New(in)
	toks := lexer.Tokenize(src, in, table)

	for _, tok := range toks {
		text := ""
		switch tok.Kind {
		case lexer.Int, lexer.Float, lexer.StringLit, lexer.Symbol:
			text = in.Lookup(tok.Text)
		case lexer.BoolLit:
			text = fmt.Sprint(tok.BoolValue)
		}
		fmt.Printf("%-14s %-12s %s\n", tok.Span, tok.Kind, text)
	}
	return nil
}
