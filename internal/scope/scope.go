// Package scope implements the frame stack Pass C of the checker uses to
// resolve identifiers and assign each one its owning frame's "context id"
// (spec.md section 3's Scope frame, section 4.4's Pass C).
//
// Grounded on original_source/semantic_analyzer/src/def_context.rs
// (DefContext/Frame: a Vec of frames, push_frame/pop_frame tracking a
// "current" index, define/get_context). Frame there carries only a parent
// link; spec.md's Frame additionally carries a can-access-parents flag used
// to isolate a function body's lookups from its lexically enclosing scope,
// so Frame and Lookup here are both widened to gate on it.
package scope

import (
	"fmt"

	"github.com/velalang/velac/internal/ast"
)

// FrameID identifies one frame in a Stack — the "context id" spec.md
// section 3 says every resolved identifier records.
type FrameID int

// Frame is one lexical scope: its own bindings, an optional parent, and
// whether a lookup miss here is allowed to continue into that parent
// (spec.md section 3: "A frame with can-access-parents = false isolates
// nested lookups (used for function-body boundaries)").
type Frame struct {
	variables        map[string]ast.TypeAnnotation
	parent           *FrameID
	canAccessParents bool
}

// Stack is the frame stack a single Pass C traversal owns (spec.md's
// "Global state avoidance": one stack per compile invocation, never shared).
type Stack struct {
	frames  []*Frame
	current FrameID
}

// New returns a stack with a single root frame. The root has no parent, so
// canAccessParents is irrelevant for it but set true for uniformity.
func New() *Stack {
	return &Stack{
		frames:  []*Frame{{variables: map[string]ast.TypeAnnotation{}, canAccessParents: true}},
		current: 0,
	}
}

// Current returns the frame currently on top of the stack.
func (s *Stack) Current() FrameID { return s.current }

// Push opens a new frame whose parent is the current frame, and makes it
// current. canAccessParents gates whether an unresolved Lookup in the new
// frame may continue searching into this parent chain at all (false at a
// function-body boundary, per spec.md's Pass C note on binding a
// function-like body in a pushed frame).
func (s *Stack) Push(canAccessParents bool) FrameID {
	parent := s.current
	id := FrameID(len(s.frames))
	s.frames = append(s.frames, &Frame{
		variables:        map[string]ast.TypeAnnotation{},
		parent:           &parent,
		canAccessParents: canAccessParents,
	})
	s.current = id
	return id
}

// Pop returns to the current frame's parent. It panics if called on the
// root frame — a Pass C traversal that pops more than it pushed has a bug
// in its own push/pop nesting (original_source's def_context.rs treats the
// same condition as a fatal error, not a recoverable one).
func (s *Stack) Pop() {
	f := s.frames[s.current]
	if f.parent == nil {
		panic(fmt.Sprintf("scope: no parent frame to pop to from frame %d", s.current))
	}
	s.current = *f.parent
}

// Define binds name to ty in the current frame. It returns false if name is
// already bound in this frame (spec.md's VarAlreadyDefined rule); the
// caller owns turning that into a diagnostic since Stack carries no source
// position.
func (s *Stack) Define(name string, ty ast.TypeAnnotation) (FrameID, bool) {
	f := s.frames[s.current]
	if _, ok := f.variables[name]; ok {
		return s.current, false
	}
	f.variables[name] = ty
	return s.current, true
}

// Lookup searches from the current frame upward through parent links for
// name, stopping as soon as a frame along the way has canAccessParents =
// false and still hasn't found it (spec.md's Pass C: "search from the top
// frame upward through parent links, but only cross a frame whose
// can-access-parents = true").
//
// This checks every frame's own bindings first, including the root —
// def_context.rs's get_context only checks a frame's variables once it has
// already confirmed that frame has a parent to fall back to, which means
// the root frame (parent = None) never has its own variables consulted at
// all; a global let-binding would be unresolvable by that logic. Checking
// membership before deciding whether to continue upward, as done here,
// fixes that without changing the can-access-parents gating semantics.
func (s *Stack) Lookup(name string) (ast.TypeAnnotation, FrameID, bool) {
	idx := s.current
	for {
		f := s.frames[idx]
		if ty, ok := f.variables[name]; ok {
			return ty, idx, true
		}
		if f.parent == nil || !f.canAccessParents {
			return ast.TypeAnnotation{}, 0, false
		}
		idx = *f.parent
	}
}
