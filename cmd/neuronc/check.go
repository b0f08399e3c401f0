package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/neuronc/internal/check"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/module"
	"github.com/sunholo/neuronc/internal/repl"
	"github.com/sunholo/neuronc/internal/schema"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

var (
	builtinsManifestFlag string
	noCacheFlag          bool
	cachePathFlag        string
	jsonCompactFlag      bool
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <fixture.yaml>",
		Short: "Type-check a YAML fixture and print each definition's resolved type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
	cmd.Flags().StringVar(&builtinsManifestFlag, "builtins", "", "optional YAML manifest layering extra intrinsics/ground aliases over the defaults")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "disable the on-disk inference cache")
	cmd.Flags().StringVar(&cachePathFlag, "cache", defaultCachePath(), "path to the sqlite-backed inference cache")
	cmd.Flags().BoolVar(&jsonCompactFlag, "json-compact", false, "emit --json-errors output compact instead of pretty-printed")
	return cmd
}

// defaultCachePath mirrors the teacher's habit of keeping per-tool state
// under the user's cache directory rather than the working directory.
func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "neuronc", "inference_cache.sqlite")
}

func runCheck(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	in := intern.New()
	builtinsTable, err := check.LoadBuiltins(builtinsManifestFlag, in)
	if err != nil {
		return err
	}

	opts := repl.CheckFixtureOptions{Builtins: builtinsTable}
	if !noCacheFlag && cachePathFlag != "" {
		if err := os.MkdirAll(filepath.Dir(cachePathFlag), 0o755); err == nil {
			if cache, err := module.OpenCache(cachePathFlag); err == nil {
				defer cache.Close()
				opts.Cache = cache
			}
		}
	}

	res, mod, err := repl.CheckFixtureWithOptions(data, in, opts)
	if err != nil {
		return err
	}

	if len(res.Errors) > 0 {
		if jsonErrorsFlag {
			schema.SetCompactMode(jsonCompactFlag)
			raw, err := schema.MarshalDeterministic(mod.EncodeErrors())
			if err != nil {
				return err
			}
			out, err := schema.FormatJSON(raw)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			for _, e := range res.Errors {
				fmt.Fprintln(os.Stderr, red("error: ")+e.Error())
			}
		}
		return fmt.Errorf("%d error(s)", len(res.Errors))
	}

	for name, node := range mod.Typechecked() {
		resolved := res.Substitution.Apply(node.MonoType())
		if traceFlag {
			if diff := check.DiffTypes(node.MonoType(), resolved); diff != "" {
				fmt.Println(cyan("trace ") + in.Lookup(name) + ": " + diff)
			}
		}
		fmt.Printf("%s : %s\n", green(in.Lookup(name)), resolved)
	}
	return nil
}
