package machine

import (
	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
)

// FrameManager owns the Global Frame (permanent), the stack of Local Frames
// (top is active) and the optional Temporary Frame, and enforces the
// frame-existence invariants of spec.md §4.2.
type FrameManager struct {
	global *Frame
	locals []*Frame
	temp   *Frame // nil means undefined
}

// NewFrameManager returns a FrameManager with a fresh, empty Global Frame,
// no Local Frames and an undefined Temporary Frame.
func NewFrameManager() *FrameManager {
	return &FrameManager{global: newFrame(compiler.GF)}
}

// CreateFrame sets the Temporary Frame to a fresh empty frame, discarding
// any prior content. Always succeeds.
func (fm *FrameManager) CreateFrame() {
	fm.temp = newFrame(compiler.TF)
}

// PushFrame moves the Temporary Frame onto the Local Frame stack, relabeling
// its variables LF, and clears the Temporary Frame. Fails with
// fault.CodeNoFrame (55) if the Temporary Frame is undefined.
func (fm *FrameManager) PushFrame() error {
	if fm.temp == nil {
		return fault.New(fault.CodeNoFrame, "PUSHFRAME: no temporary frame defined")
	}
	fr := fm.temp
	fr.relabel(compiler.LF)
	fm.locals = append(fm.locals, fr)
	fm.temp = nil
	return nil
}

// PopFrame pops the top Local Frame into the Temporary Frame (discarding any
// previous Temporary Frame content), relabeling its variables TF. Fails with
// fault.CodeNoFrame (55) if the Local Frame stack is empty.
func (fm *FrameManager) PopFrame() error {
	if len(fm.locals) == 0 {
		return fault.New(fault.CodeNoFrame, "POPFRAME: no local frame to pop")
	}
	n := len(fm.locals) - 1
	fr := fm.locals[n]
	fm.locals = fm.locals[:n]
	fr.relabel(compiler.TF)
	fm.temp = fr
	return nil
}

// Define creates name as an uninitialized variable in the named frame.
// Fails with fault.CodeNoFrame (55) if the frame does not exist, or
// fault.CodeSemantic (52) if name is already defined there.
func (fm *FrameManager) Define(kind compiler.FrameKind, name string) error {
	fr, err := fm.resolve(kind)
	if err != nil {
		return err
	}
	return fr.define(name)
}

// Lookup resolves (kind, name) to its Variable. Fails with
// fault.CodeNoFrame (55) if the frame does not exist, or
// fault.CodeUndefinedVar (54) if name is not defined in that (existing)
// frame.
func (fm *FrameManager) Lookup(kind compiler.FrameKind, name string) (*Variable, error) {
	fr, err := fm.resolve(kind)
	if err != nil {
		return nil, err
	}
	return fr.lookup(name)
}

func (fm *FrameManager) resolve(kind compiler.FrameKind) (*Frame, error) {
	switch kind {
	case compiler.GF:
		return fm.global, nil
	case compiler.TF:
		if fm.temp == nil {
			return nil, fault.New(fault.CodeNoFrame, "temporary frame is not defined")
		}
		return fm.temp, nil
	case compiler.LF:
		if len(fm.locals) == 0 {
			return nil, fault.New(fault.CodeNoFrame, "no local frame is active")
		}
		return fm.locals[len(fm.locals)-1], nil
	default:
		return nil, fault.New(fault.CodeInternal, "unknown frame kind %s", kind)
	}
}
