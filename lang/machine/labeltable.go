package machine

import (
	"github.com/dolthub/swiss"
	"github.com/mna/ippvm/lang/fault"
)

// LabelTable maps label names to instruction indices. It is built once in
// the pre-pass (spec.md §4.5) and only read thereafter, which is exactly the
// access pattern a swiss-table map is built for — the same data structure
// the teacher repo backs its Map value type with.
type LabelTable struct {
	m *swiss.Map[string, int]
}

// NewLabelTable returns an empty LabelTable sized for the given number of
// instructions (an upper bound on the number of labels a program can have).
func NewLabelTable(sizeHint int) *LabelTable {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &LabelTable{m: swiss.NewMap[string, int](uint32(sizeHint))}
}

// Register records name as pointing at instruction index idx. A duplicate
// name is fault.CodeSemantic (52), per spec.md §3 and §4.3.
func (lt *LabelTable) Register(name string, idx int) error {
	if _, ok := lt.m.Get(name); ok {
		return fault.New(fault.CodeSemantic, "duplicate label %q", name)
	}
	lt.m.Put(name, idx)
	return nil
}

// Resolve returns the instruction index registered for name, or
// fault.CodeSemantic (52) if name was never registered.
func (lt *LabelTable) Resolve(name string) (int, error) {
	idx, ok := lt.m.Get(name)
	if !ok {
		return 0, fault.New(fault.CodeSemantic, "undefined label %q", name)
	}
	return idx, nil
}

// Names returns every registered label name together with its instruction
// index, for BREAK's diagnostic snapshot. The order is unspecified.
func (lt *LabelTable) Names() map[string]int {
	out := make(map[string]int, lt.m.Count())
	lt.m.Iter(func(k string, v int) bool {
		out[k] = v
		return false
	})
	return out
}
