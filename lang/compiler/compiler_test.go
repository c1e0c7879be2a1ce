package compiler_test

import (
	"testing"

	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeLookup(t *testing.T) {
	op, ok := compiler.Lookup("move")
	require.True(t, ok)
	assert.Equal(t, compiler.MOVE, op)

	op, ok = compiler.Lookup("JUMPIFEQ")
	require.True(t, ok)
	assert.Equal(t, compiler.JUMPIFEQ, op)

	_, ok = compiler.Lookup("nosuchop")
	assert.False(t, ok)
}

func TestNewInstructionArity(t *testing.T) {
	_, err := compiler.New(compiler.ADD, 1,
		compiler.Var(compiler.ClassVar, compiler.GF, "x"),
		compiler.IntLiteral(1))
	require.Error(t, err)
	f, ok := fault.As(err)
	require.True(t, ok)
	assert.Equal(t, fault.CodeXMLStructure, f.Code)
}

func TestNewInstructionOperandClass(t *testing.T) {
	// CALL expects a label, not a variable.
	_, err := compiler.New(compiler.CALL, 1, compiler.Var(compiler.ClassVar, compiler.GF, "x"))
	require.Error(t, err)
	f, ok := fault.As(err)
	require.True(t, ok)
	assert.Equal(t, fault.CodeOperandType, f.Code)
}

func TestNewInstructionValid(t *testing.T) {
	instr, err := compiler.New(compiler.MOVE, 1,
		compiler.Var(compiler.ClassVar, compiler.GF, "x"),
		compiler.StrLiteral("hello"))
	require.NoError(t, err)
	assert.Equal(t, compiler.MOVE, instr.Opcode)
	assert.Len(t, instr.Operands, 2)
}

func TestProgramSortAndDuplicateOrder(t *testing.T) {
	a, _ := compiler.New(compiler.CREATEFRAME, 3)
	b, _ := compiler.New(compiler.PUSHFRAME, 1)
	c, _ := compiler.New(compiler.POPFRAME, 2)

	prog, err := compiler.NewProgram([]*compiler.Instruction{a, b, c})
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 3)
	assert.Equal(t, compiler.PUSHFRAME, prog.Instructions[0].Opcode)
	assert.Equal(t, compiler.POPFRAME, prog.Instructions[1].Opcode)
	assert.Equal(t, compiler.CREATEFRAME, prog.Instructions[2].Opcode)

	dup, _ := compiler.New(compiler.BREAK, 2)
	_, err = compiler.NewProgram([]*compiler.Instruction{b, c, dup})
	require.Error(t, err)
	f, ok := fault.As(err)
	require.True(t, ok)
	assert.Equal(t, fault.CodeXMLStructure, f.Code)
}

func TestDecodeEscapes(t *testing.T) {
	got, err := compiler.DecodeEscapes(`a\032b`)
	require.NoError(t, err)
	assert.Equal(t, "a b", got)

	got, err = compiler.DecodeEscapes("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = compiler.DecodeEscapes(`bad\0x`)
	require.Error(t, err)
	f, ok := fault.As(err)
	require.True(t, ok)
	assert.Equal(t, fault.CodeXMLStructure, f.Code)

	_, err = compiler.DecodeEscapes(`trunc\09`)
	require.Error(t, err)
}
