package machine

import (
	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
)

// Frame is a collection of Variables keyed by name (kept in a map, so in no
// particular order), one of the three kinds named
// by compiler.FrameKind. Variable names are unique within a frame (spec.md
// §3).
type Frame struct {
	kind compiler.FrameKind
	vars map[string]*Variable
}

func newFrame(kind compiler.FrameKind) *Frame {
	return &Frame{kind: kind, vars: make(map[string]*Variable)}
}

// define creates a new, uninitialized Variable named name in the frame.
// Redefining an existing name is fault.CodeSemantic (52), per spec.md §4.2.
func (f *Frame) define(name string) error {
	if _, ok := f.vars[name]; ok {
		return fault.New(fault.CodeSemantic, "variable %s@%s is already defined", f.kind, name)
	}
	f.vars[name] = &Variable{Frame: f.kind, Name: name}
	return nil
}

// lookup returns the Variable named name, or fault.CodeUndefinedVar (54) if
// no such variable exists in this frame.
func (f *Frame) lookup(name string) (*Variable, error) {
	v, ok := f.vars[name]
	if !ok {
		return nil, fault.New(fault.CodeUndefinedVar, "variable %s@%s is not defined", f.kind, name)
	}
	return v, nil
}

// relabel updates the Frame tag of every contained Variable to kind. Used
// when a frame moves between the Temporary Frame and the Local Frame stack
// (spec.md §3).
func (f *Frame) relabel(kind compiler.FrameKind) {
	f.kind = kind
	for _, v := range f.vars {
		v.Frame = kind
	}
}
