// Command neuronc drives the type inference core (spec §1): checking a
// fixture file, printing its token stream, or dropping into a REPL. The
// outer command tree is Cobra (spf13/cobra + pflag), superseding the
// teacher's raw flag dispatch per SPEC_FULL.md §3; each subcommand's
// RunE keeps the teacher's fatih/color diagnostic styling.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version info, set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	traceFlag      bool
	jsonErrorsFlag bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "neuronc",
		Short: "Type inference core for a WebAssembly-targeting expression language",
	}
	root.PersistentFlags().BoolVar(&traceFlag, "trace", false, "enable structural-diff tracing of solved types")
	root.PersistentFlags().BoolVar(&jsonErrorsFlag, "json-errors", false, "emit structured errors as JSON instead of colored text")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newTokensCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	logrus.SetLevel(logrus.WarnLevel)
	if os.Getenv("NEURONC_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
