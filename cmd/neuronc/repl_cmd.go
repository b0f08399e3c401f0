package main

import (
	"github.com/spf13/cobra"

	"github.com/sunholo/neuronc/internal/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive fixture-loading REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.New().Run()
		},
	}
}
