package machine

import (
	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/types"
)

// Variable is a named slot bound to a frame. It either holds a Value or is
// uninitialized (Value == nil), per spec.md §3.
type Variable struct {
	Frame compiler.FrameKind
	Name  string
	Value types.Value
}
