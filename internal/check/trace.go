package check

import (
	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/neuronc/internal/types"
)

// DiffTypes renders a structural diff between a node's pre- and
// post-substitution MonoType, for --trace debug output (SPEC_FULL.md
// §3). Returns "" when before and after are structurally identical.
func DiffTypes(before, after types.Mono) string {
	return cmp.Diff(before, after)
}
