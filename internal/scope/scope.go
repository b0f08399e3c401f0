// Package scope implements the name-to-binding environment the inference
// engine consults while walking the untyped tree (spec §4.4): a stack of
// maps, innermost lookup first, with a permanent bottom frame for global
// (top-level) bindings.
package scope

import (
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/types"
)

// Binding records everything the checker needs to know about a resolved
// name: its monotype, whether it lives at module scope, and whether
// plus_equal/times_equal may target it.
type Binding struct {
	Type    types.Mono
	Global  bool
	Mutable bool
}

// Scope is a stack of binding frames. The bottom frame, installed by New,
// is the global scope and is never popped.
type Scope struct {
	frames []map[intern.Handle]Binding
}

// New returns a Scope with its global frame already pushed, per spec §4.4
// ("the top (global) scope is initialised before any top-level inference
// runs").
func New() *Scope {
	return &Scope{frames: []map[intern.Handle]Binding{{}}}
}

// Push opens a new, innermost frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, map[intern.Handle]Binding{})
}

// Pop discards the innermost frame. Popping the global frame is a
// programmer error in the caller, not a condition this package guards
// against - the checker pairs every Pop with an earlier Push.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Insert adds or overwrites a binding in the innermost frame.
func (s *Scope) Insert(name intern.Handle, b Binding) {
	s.frames[len(s.frames)-1][name] = b
}

// Lookup searches innermost to outermost, returning the first match.
func (s *Scope) Lookup(name intern.Handle) (Binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Global is the bottom frame, where top-level definitions live.
func (s *Scope) Global() map[intern.Handle]Binding {
	return s.frames[0]
}

// Depth reports the number of frames currently pushed, including the
// global frame. Tests use it to assert push/pop is balanced.
func (s *Scope) Depth() int {
	return len(s.frames)
}
