package check

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

// manifestIntrinsic is one entry of an optional YAML builtins manifest:
// an intrinsic name plus its parameter and return ground-type names,
// written the way they'd appear in a function's return-type annotation.
type manifestIntrinsic struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Return string   `yaml:"return"`
}

// manifestGroundAlias lets a manifest give an existing ground type an
// additional name, e.g. a backend that prefers "int" to "i32".
type manifestGroundAlias struct {
	Alias  string `yaml:"alias"`
	Target string `yaml:"target"`
}

type manifest struct {
	GroundAliases []manifestGroundAlias `yaml:"ground_aliases"`
	Intrinsics    []manifestIntrinsic   `yaml:"intrinsics"`
}

// LoadBuiltins builds a builtins.Table layering an optional YAML manifest
// at path over the hard-coded defaults (SPEC_FULL.md §3): an empty path,
// or a path that doesn't exist, yields the defaults unchanged. A manifest
// that does exist and fails to parse, or that references an unknown
// ground type, is reported as an error rather than silently ignored.
func LoadBuiltins(path string, in *intern.Interner) (*builtins.Table, error) {
	t := builtins.New(in)
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read builtins manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse builtins manifest %s: %w", path, err)
	}

	for _, alias := range m.GroundAliases {
		target, ok := t.Ground(alias.Target)
		if !ok {
			return nil, fmt.Errorf("builtins manifest %s: ground alias %q targets unknown type %q", path, alias.Alias, alias.Target)
		}
		t.AddGroundAlias(alias.Alias, target)
	}

	for _, ic := range m.Intrinsics {
		sig, err := resolveIntrinsic(t, ic)
		if err != nil {
			return nil, fmt.Errorf("builtins manifest %s: %w", path, err)
		}
		t.AddIntrinsic(in, ic.Name, sig)
	}

	return t, nil
}

// resolveIntrinsic resolves a manifest entry's ground-type names against
// t, producing the builtins.Intrinsic the checker will see.
func resolveIntrinsic(t *builtins.Table, ic manifestIntrinsic) (builtins.Intrinsic, error) {
	params := make([]types.Mono, len(ic.Params))
	for i, p := range ic.Params {
		g, ok := t.Ground(p)
		if !ok {
			return builtins.Intrinsic{}, fmt.Errorf("intrinsic %q: unknown param type %q", ic.Name, p)
		}
		params[i] = g
	}
	ret, ok := t.Ground(ic.Return)
	if !ok {
		return builtins.Intrinsic{}, fmt.Errorf("intrinsic %q: unknown return type %q", ic.Name, ic.Return)
	}
	return builtins.Intrinsic{Name: ic.Name, Params: params, Return: ret}, nil
}
