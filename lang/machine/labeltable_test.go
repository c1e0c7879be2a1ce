package machine

import (
	"testing"

	"github.com/mna/ippvm/lang/fault"
	"github.com/stretchr/testify/require"
)

func TestLabelTableRegisterAndResolve(t *testing.T) {
	lt := NewLabelTable(4)
	require.NoError(t, lt.Register("loop", 3))

	idx, err := lt.Resolve("loop")
	require.NoError(t, err)
	require.Equal(t, 3, idx)
}

func TestLabelTableDuplicateRegister(t *testing.T) {
	lt := NewLabelTable(4)
	require.NoError(t, lt.Register("loop", 3))
	requireFault(t, lt.Register("loop", 7), fault.CodeSemantic)
}

func TestLabelTableUnknownLabel(t *testing.T) {
	lt := NewLabelTable(0)
	_, err := lt.Resolve("nowhere")
	requireFault(t, err, fault.CodeSemantic)
}

func TestLabelTableNames(t *testing.T) {
	lt := NewLabelTable(2)
	require.NoError(t, lt.Register("a", 0))
	require.NoError(t, lt.Register("b", 5))
	require.Equal(t, map[string]int{"a": 0, "b": 5}, lt.Names())
}
