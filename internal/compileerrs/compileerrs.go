// Package compileerrs defines the structured error kinds of spec §7 and
// the Collector that gathers them per compilation job. Solver-time errors
// (TypeMismatch, ArityMismatch, InfiniteType) live inside internal/types
// instead of here, so this package can import types for Mono formatting
// without types ever needing to import compileerrs back. Every error kind
// satisfies two small duck-typed interfaces - codeOf and spanOf below -
// that Encode uses to render any of them, including the types-package
// ones, without a static dependency in the other direction.
package compileerrs

import (
	"fmt"

	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/schema"
	"github.com/sunholo/neuronc/internal/source"
	"github.com/sunholo/neuronc/internal/types"
)

// Error codes, one per spec §7 kind.
const (
	CodeUnknownSymbol        = "CH001"
	CodeAssignToImmutable    = "CH002"
	CodeTypeMismatch         = "TC003"
	CodeArityMismatch        = "TC004"
	CodeInfiniteType         = "TC005"
	CodeRecursiveValue       = "CH006"
	CodeUnsupportedReturn    = "CH007"
	CodeUnusedForeignImport  = "CH008"
)

// UnknownSymbol is raised when a symbol reference resolves against no
// binding in the current scope (spec §4.5).
type UnknownSymbol struct {
	Name intern.Handle
	Sp   source.Span
}

func (e *UnknownSymbol) Error() string {
	return fmt.Sprintf("%s: unknown symbol (handle %d)", e.Sp, e.Name)
}
func (e *UnknownSymbol) Code() string         { return CodeUnknownSymbol }
func (e *UnknownSymbol) ErrSpan() source.Span { return e.Sp }

// AssignToImmutable is raised when plus_equal/times_equal targets a
// binding whose Mutable flag is false (spec §4.4, §4.5).
type AssignToImmutable struct {
	Name intern.Handle
	Sp   source.Span
}

func (e *AssignToImmutable) Error() string {
	return fmt.Sprintf("%s: assignment to immutable binding (handle %d)", e.Sp, e.Name)
}
func (e *AssignToImmutable) Code() string         { return CodeAssignToImmutable }
func (e *AssignToImmutable) ErrSpan() source.Span { return e.Sp }

// RecursiveValue is raised when a non-function top-level definition
// cyclically refers to itself through the dependency order (spec §4.7,
// §9).
type RecursiveValue struct {
	Name intern.Handle
}

func (e *RecursiveValue) Error() string {
	return fmt.Sprintf("recursive value definition (handle %d)", e.Name)
}
func (e *RecursiveValue) Code() string { return CodeRecursiveValue }

// UnsupportedReturnType is surfaced by the embedder - not the core itself
// - when a core-emitted MonoType has no WebAssembly representation
// (spec §7). Kept here so the embedder's diagnostic shares the same
// Encode path as the core's own errors.
type UnsupportedReturnType struct {
	Type types.Mono
}

func (e *UnsupportedReturnType) Error() string {
	return fmt.Sprintf("unsupported return type: %s", e.Type)
}
func (e *UnsupportedReturnType) Code() string { return CodeUnsupportedReturn }

// UnusedForeignImport is the diagnostic spec §9 leaves as an explicit
// opportunity: a foreign_import whose fresh type variable never appears
// in a use-site constraint, so it never got pinned to a concrete type.
type UnusedForeignImport struct {
	Name string
}

func (e *UnusedForeignImport) Error() string {
	return fmt.Sprintf("unused foreign import: %s", e.Name)
}
func (e *UnusedForeignImport) Code() string { return CodeUnusedForeignImport }

// codeOf and spanOf are the duck-typed interfaces Encode introspects
// through. types.TypeMismatch, types.ArityMismatch, and types.InfiniteType
// satisfy both without this package needing to name them.
type codeOf interface{ Code() string }
type spanOf interface{ ErrSpan() source.Span }

// Encoded is the wire shape of a single structured error report
// (spec §6, "a compile-errors collector... appends structured entries").
type Encoded struct {
	Schema  string         `json:"schema"`
	SID     string         `json:"sid,omitempty"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Span    *source.Span   `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Encode renders any error - one of this package's kinds, or one of
// internal/types' solver errors - into the wire shape, via the duck-typed
// interfaces above. Errors matching neither interface still encode, with
// an empty code and no span, rather than being dropped.
func Encode(err error) Encoded {
	enc := Encoded{Schema: schema.ErrorV1, Message: err.Error()}
	if c, ok := err.(codeOf); ok {
		enc.Code = c.Code()
	}
	if s, ok := err.(spanOf); ok {
		sp := s.ErrSpan()
		enc.Span = &sp
	}
	enc.Data = dataOf(err)
	return enc
}

// dataOf extracts the structured fields each kind carries, so consumers
// (spec §6: "kind + span + referenced types") get more than code+message.
func dataOf(err error) map[string]any {
	switch e := err.(type) {
	case *UnknownSymbol:
		return map[string]any{"name": int(e.Name)}
	case *AssignToImmutable:
		return map[string]any{"name": int(e.Name)}
	case *RecursiveValue:
		return map[string]any{"name": int(e.Name)}
	case *UnsupportedReturnType:
		return map[string]any{"type": e.Type.String()}
	case *UnusedForeignImport:
		return map[string]any{"name": e.Name}
	case *types.TypeMismatch:
		return map[string]any{"expected": e.Expected.String(), "found": e.Found.String()}
	case *types.ArityMismatch:
		return map[string]any{"expected": e.Expected, "found": e.Found}
	case *types.InfiniteType:
		return map[string]any{"var": int(e.Var), "type": e.Type.String()}
	default:
		return nil
	}
}

// Collector gathers every structured error encountered across a
// compilation job (spec §7: "the core appends structured entries...
// multiple independent errors can be reported per run").
type Collector struct {
	errs []error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends err if it is non-nil.
func (c *Collector) Add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// AddAll appends every non-nil error in errs, in order.
func (c *Collector) AddAll(errs []error) {
	for _, err := range errs {
		c.Add(err)
	}
}

// Errors returns every collected error in the order they were added.
func (c *Collector) Errors() []error {
	return c.errs
}

// Empty reports whether nothing has been collected.
func (c *Collector) Empty() bool {
	return len(c.errs) == 0
}

// Encode renders every collected error via Encode, in order.
func (c *Collector) Encode() []Encoded {
	out := make([]Encoded, len(c.errs))
	for i, err := range c.errs {
		out[i] = Encode(err)
	}
	return out
}

// EncodeWithSID renders every collected error via Encode, stamping sid
// (a compilation job's identity) into each entry's SID field so a caller
// juggling several jobs can tell their errors apart.
func (c *Collector) EncodeWithSID(sid string) []Encoded {
	out := c.Encode()
	for i := range out {
		out[i].SID = sid
	}
	return out
}
