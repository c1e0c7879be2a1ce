package machine

import (
	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/types"
)

// DataStack is the LIFO of Values manipulated by PUSHS/POPS and used as
// scratch space by no other opcode (spec.md §3, §4.3).
type DataStack struct {
	vals []types.Value
}

func (ds *DataStack) Push(v types.Value) { ds.vals = append(ds.vals, v) }

// Pop removes and returns the top Value. Popping an empty stack is
// fault.CodeMissingValue (56).
func (ds *DataStack) Pop() (types.Value, error) {
	if len(ds.vals) == 0 {
		return nil, fault.New(fault.CodeMissingValue, "POPS: data stack is empty")
	}
	n := len(ds.vals) - 1
	v := ds.vals[n]
	ds.vals = ds.vals[:n]
	return v, nil
}

// Snapshot returns the stack contents top-first, for BREAK's diagnostic
// dump. The caller must not mutate the result.
func (ds *DataStack) Snapshot() []string {
	out := make([]string, len(ds.vals))
	for i, v := range ds.vals {
		out[i] = describe(v)
	}
	// reverse so index 0 is the top of the stack
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CallStack is the LIFO of program-counter positions pushed by CALL and
// popped by RETURN (spec.md §3, §4.3).
type CallStack struct {
	pcs []int
}

func (cs *CallStack) Push(pc int) { cs.pcs = append(cs.pcs, pc) }

// Pop removes and returns the top PC. Popping an empty stack is
// fault.CodeMissingValue (56).
func (cs *CallStack) Pop() (int, error) {
	if len(cs.pcs) == 0 {
		return 0, fault.New(fault.CodeMissingValue, "RETURN: call stack is empty")
	}
	n := len(cs.pcs) - 1
	pc := cs.pcs[n]
	cs.pcs = cs.pcs[:n]
	return pc, nil
}

// Depth reports the current number of pending calls.
func (cs *CallStack) Depth() int { return len(cs.pcs) }

// Snapshot returns the stack contents top-first, for BREAK's diagnostic
// dump.
func (cs *CallStack) Snapshot() []int {
	out := append([]int(nil), cs.pcs...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func describe(v types.Value) string {
	if v == nil {
		return "<uninitialized>"
	}
	return v.Type() + ":" + v.String()
}
