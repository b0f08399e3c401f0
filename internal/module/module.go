// Package module implements the Module data type and driver of spec
// §3/§4.7: given an untyped expression map, a dependency order, and a
// foreign-export list, it drives internal/check's inference engine over
// every export, runs the solver, and applies the resulting substitution
// to every typed node it produced. It implements check.ModuleView so the
// inference engine never needs to import this package back.
package module

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/sunholo/neuronc/internal/ast"
	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/check"
	"github.com/sunholo/neuronc/internal/compileerrs"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/scope"
	"github.com/sunholo/neuronc/internal/source"
	"github.com/sunholo/neuronc/internal/typedast"
	"github.com/sunholo/neuronc/internal/types"
)

// Module is a single compilation job's worth of state (spec §3 Module):
// the untyped tree the (out-of-scope) parser produced, the typed tree
// this driver fills in, the global scope, and the shared constraint
// store. JobID tags every structured error this job emits so a caller
// juggling several jobs (e.g. the REPL, re-running one definition at a
// time) can tell them apart.
type Module struct {
	JobID uuid.UUID

	Order          []intern.Handle
	ForeignExports []intern.Handle

	untyped map[intern.Handle]ast.Expr
	typed   map[intern.Handle]typedast.TypedNode

	inProgress map[intern.Handle]bool

	Scope       *scope.Scope
	Constraints *types.Constraints
	Builtins    *builtins.Table
	Collector   *compileerrs.Collector

	// Cache is an optional inference-result cache (modernc.org/sqlite
	// backed); see Cache below. Nil disables it.
	Cache *Cache

	log *logrus.Entry
}

// New builds an empty Module ready to receive definitions via Define.
func New(in *intern.Interner) *Module {
	id := uuid.New()
	return &Module{
		JobID:       id,
		untyped:     make(map[intern.Handle]ast.Expr),
		typed:       make(map[intern.Handle]typedast.TypedNode),
		inProgress:  make(map[intern.Handle]bool),
		Scope:       scope.New(),
		Constraints: types.NewConstraints(),
		Builtins:    builtins.New(in),
		Collector:   compileerrs.NewCollector(),
		log:         logrus.WithField("job", id.String()),
	}
}

// Define registers name's untyped top-level expression and appends it to
// the dependency order. The parser (out of scope) is the intended caller;
// tests build a Module the same way.
func (m *Module) Define(name intern.Handle, e ast.Expr) {
	m.untyped[name] = e
	m.Order = append(m.Order, name)
}

// Export marks name as a foreign export, driving its inference explicitly
// (spec §4.7).
func (m *Module) Export(name intern.Handle) {
	m.ForeignExports = append(m.ForeignExports, name)
}

// check.ModuleView implementation below. The inference engine calls these
// directly; it never sees *Module, only this interface.

func (m *Module) Untyped(name intern.Handle) (ast.Expr, bool) {
	e, ok := m.untyped[name]
	return e, ok
}

func (m *Module) Typed(name intern.Handle) (typedast.TypedNode, bool) {
	t, ok := m.typed[name]
	return t, ok
}

func (m *Module) SetTyped(name intern.Handle, n typedast.TypedNode) {
	m.typed[name] = n
}

func (m *Module) InProgress(name intern.Handle) bool {
	return m.inProgress[name]
}

func (m *Module) MarkInProgress(name intern.Handle) {
	m.inProgress[name] = true
}

func (m *Module) UnmarkInProgress(name intern.Handle) {
	m.inProgress[name] = false
}

// Typechecked returns every top-level name that made it through Run, for
// callers that want the final typed tree without the internal map.
func (m *Module) Typechecked() map[intern.Handle]typedast.TypedNode {
	return m.typed
}

// Result is the module driver's output: the solved and defaulted
// substitution, and every structured error collected along the way
// (inference-time and solve-time both). The typed tree stays on the
// Module; see Typechecked.
type Result struct {
	Substitution types.Substitution
	Errors       []error
}

// EncodeErrors renders every collected error via compileerrs.Encode,
// stamping this job's JobID into each entry's SID field (SPEC_FULL.md
// §3: "threaded into every structured error's SID field in place of the
// teacher's ad hoc string IDs").
func (m *Module) EncodeErrors() []compileerrs.Encoded {
	return m.Collector.EncodeWithSID(m.JobID.String())
}

// Run implements spec §4.7: infer every foreign export in order (or the
// implicit "start" export if none were declared), solve, default, then
// apply the resulting substitution to every typed node, replacing every
// TypeVar the solver or the defaulting pass bound. A variable that no
// constraint and no literal origin pins (such as an unused foreign
// import's) stays free.
func (m *Module) Run(startName intern.Handle) Result {
	log := m.log.WithField("exports", len(m.ForeignExports))
	log.Debug("module run starting")

	checker := check.New(m.Scope, m.Constraints, m.Builtins, m.Collector, m)

	exports := m.ForeignExports
	if len(exports) == 0 {
		exports = []intern.Handle{startName}
	}
	for _, name := range exports {
		if m.Cache != nil && m.seedFromCache(name, log) {
			continue
		}
		checker.Infer(name)
	}

	var solveErrs []error
	solver := types.NewSolver()
	sub := solver.Solve(m.Constraints, &solveErrs)
	m.Collector.AddAll(solveErrs)
	sub = solver.Default(m.Constraints)

	for _, node := range m.typed {
		typedast.ApplySubstitution(node, sub.Apply)
	}

	for _, name := range m.Constraints.UnusedForeignImports() {
		m.Collector.Add(&compileerrs.UnusedForeignImport{Name: name})
	}

	if m.Cache != nil {
		for _, name := range exports {
			untyped, ok := m.untyped[name]
			node, typedOK := m.typed[name]
			if !ok || !typedOK {
				continue
			}
			if err := m.Cache.Store(fmt.Sprint(name), treeHash(untyped), node.MonoType().String()); err != nil {
				log.WithError(err).Warn("failed to populate inference cache")
			}
		}
	}

	log.WithField("errors", len(m.Collector.Errors())).Debug("module run finished")

	return Result{Substitution: sub, Errors: m.Collector.Errors()}
}

// seedFromCache consults the cache for name and, on a hit, seeds both the
// typed map and the global scope binding directly from the cached
// MonoType, returning true to tell Run to skip checker.Infer entirely for
// this export (SPEC_FULL.md §3: "consulted before infer() runs the real
// algorithm"). A malformed or stale cache entry is treated as a miss -
// Infer still runs as the ground truth.
func (m *Module) seedFromCache(name intern.Handle, log *logrus.Entry) bool {
	untyped, ok := m.untyped[name]
	if !ok {
		return false
	}
	hash := treeHash(untyped)
	cached, hit := m.Cache.Lookup(fmt.Sprint(name), hash)
	if !hit {
		return false
	}
	mono, err := types.ParseMono(cached)
	if err != nil {
		log.WithError(err).WithField("name", name).Warn("inference cache entry unparsable, re-inferring")
		return false
	}
	log.WithFields(logrus.Fields{"name": name, "cached_type": mono}).Debug("inference cache hit, skipping infer")
	m.Scope.Global()[name] = scope.Binding{Type: mono, Global: true, Mutable: false}
	m.typed[name] = &cachedNode{sp: untyped.Span(), mono: mono}
	return true
}

// cachedNode satisfies typedast.TypedNode for a cache-seeded definition.
// It carries only the resolved MonoType, never a subtree: Run never needs
// to walk into one (it is already fully resolved, and no case of
// ApplySubstitution's type switch matches it, so it is left as is), and nothing else in this
// package inspects a typed node's children without going through Infer.
type cachedNode struct {
	sp   source.Span
	mono types.Mono
}

func (n *cachedNode) Span() source.Span    { return n.sp }
func (n *cachedNode) MonoType() types.Mono { return n.mono }
func (n *cachedNode) String() string       { return n.mono.String() }

// treeHash hashes an untyped expression's textual form, giving the cache
// a cheap content key without needing a structural tree-hash walker of
// its own (ast nodes already implement fmt.Stringer).
func treeHash(e ast.Expr) string {
	sum := sha256.Sum256([]byte(e.String()))
	return hex.EncodeToString(sum[:])
}

// Cache is an optional, purely speed-oriented inference cache keyed by a
// definition's name and a hash of its untyped expression, backed by
// modernc.org/sqlite. A miss or a disabled cache always falls back to
// running the real algorithm; nothing about correctness depends on it
// (SPEC_FULL.md §3).
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if absent) a sqlite-backed cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open inference cache: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS inference_cache (
		name TEXT NOT NULL,
		tree_hash TEXT NOT NULL,
		mono_type TEXT NOT NULL,
		PRIMARY KEY (name, tree_hash)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init inference cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached MonoType string for (name, treeHash), if any.
func (c *Cache) Lookup(name, treeHash string) (string, bool) {
	if c == nil {
		return "", false
	}
	var mono string
	err := c.db.QueryRow(
		`SELECT mono_type FROM inference_cache WHERE name = ? AND tree_hash = ?`,
		name, treeHash,
	).Scan(&mono)
	if err != nil {
		return "", false
	}
	return mono, true
}

// Store records the resolved MonoType string for (name, treeHash),
// overwriting any previous entry.
func (c *Cache) Store(name, treeHash, mono string) error {
	if c == nil {
		return nil
	}
	_, err := c.db.Exec(
		`INSERT INTO inference_cache (name, tree_hash, mono_type) VALUES (?, ?, ?)
		 ON CONFLICT(name, tree_hash) DO UPDATE SET mono_type = excluded.mono_type`,
		name, treeHash, mono,
	)
	return err
}
