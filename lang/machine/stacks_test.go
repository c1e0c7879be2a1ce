package machine

import (
	"testing"

	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/types"
	"github.com/stretchr/testify/require"
)

func TestDataStackPushPop(t *testing.T) {
	ds := &DataStack{}
	ds.Push(types.Int(1))
	ds.Push(types.Str("two"))

	v, err := ds.Pop()
	require.NoError(t, err)
	require.Equal(t, types.Str("two"), v)

	v, err = ds.Pop()
	require.NoError(t, err)
	require.Equal(t, types.Int(1), v)
}

func TestDataStackPopEmpty(t *testing.T) {
	ds := &DataStack{}
	_, err := ds.Pop()
	requireFault(t, err, fault.CodeMissingValue)
}

func TestDataStackSnapshotTopFirst(t *testing.T) {
	ds := &DataStack{}
	ds.Push(types.Int(1))
	ds.Push(types.Int(2))
	require.Equal(t, []string{"int:2", "int:1"}, ds.Snapshot())
}

func TestCallStackPushPop(t *testing.T) {
	cs := &CallStack{}
	cs.Push(10)
	cs.Push(20)
	require.Equal(t, 2, cs.Depth())

	pc, err := cs.Pop()
	require.NoError(t, err)
	require.Equal(t, 20, pc)
	require.Equal(t, 1, cs.Depth())
}

func TestCallStackPopEmpty(t *testing.T) {
	cs := &CallStack{}
	_, err := cs.Pop()
	requireFault(t, err, fault.CodeMissingValue)
}
