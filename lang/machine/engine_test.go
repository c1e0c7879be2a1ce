package machine

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
	"github.com/stretchr/testify/require"
)

func mustInstr(t *testing.T, op compiler.Opcode, order int, ops ...compiler.Operand) *compiler.Instruction {
	t.Helper()
	i, err := compiler.New(op, order, ops...)
	require.NoError(t, err)
	return i
}

func newTestEngine(t *testing.T, instrs []*compiler.Instruction, input string) (*Engine, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prog, err := compiler.NewProgram(instrs)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	reader := NewLineReader(bufio.NewScanner(strings.NewReader(input)))
	eng := New(prog, &out, &errOut, reader)
	return eng, &out, &errOut
}

func TestEnginePushsPopsRoundTrip(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "v")),
		mustInstr(t, compiler.PUSHS, 2, compiler.IntLiteral(7)),
		mustInstr(t, compiler.POPS, 3, compiler.Var(compiler.ClassVar, compiler.GF, "v")),
		mustInstr(t, compiler.WRITE, 4, compiler.Var(compiler.ClassSymbol, compiler.GF, "v")),
	}
	eng, out, _ := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "7", out.String())
}

func TestEngineTypeOnUninitializedVariable(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "x")),
		mustInstr(t, compiler.DEFVAR, 2, compiler.Var(compiler.ClassVar, compiler.GF, "t")),
		mustInstr(t, compiler.TYPE, 3,
			compiler.Var(compiler.ClassVar, compiler.GF, "t"),
			compiler.Var(compiler.ClassSymbol, compiler.GF, "x")),
		mustInstr(t, compiler.WRITE, 4, compiler.Var(compiler.ClassSymbol, compiler.GF, "t")),
	}
	eng, out, _ := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "", out.String())
}

func TestEngineUninitializedReadFaults(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "x")),
		mustInstr(t, compiler.WRITE, 2, compiler.Var(compiler.ClassSymbol, compiler.GF, "x")),
	}
	eng, _, _ := newTestEngine(t, instrs, "")
	_, err := eng.Run(context.Background())
	f, ok := fault.As(err)
	require.True(t, ok)
	require.Equal(t, fault.CodeMissingValue, f.Code)
}

func TestEngineSetCharAndGetChar(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "s")),
		mustInstr(t, compiler.MOVE, 2, compiler.Var(compiler.ClassVar, compiler.GF, "s"), compiler.StrLiteral("abc")),
		mustInstr(t, compiler.SETCHAR, 3,
			compiler.Var(compiler.ClassVar, compiler.GF, "s"),
			compiler.IntLiteral(1),
			compiler.StrLiteral("X")),
		mustInstr(t, compiler.WRITE, 4, compiler.Var(compiler.ClassSymbol, compiler.GF, "s")),
	}
	eng, out, _ := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "aXc", out.String())
}

func TestEngineSetCharOnUninitializedFaultsMissingValue(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "s")),
		mustInstr(t, compiler.SETCHAR, 2,
			compiler.Var(compiler.ClassVar, compiler.GF, "s"),
			compiler.IntLiteral(0),
			compiler.StrLiteral("X")),
	}
	eng, _, _ := newTestEngine(t, instrs, "")
	_, err := eng.Run(context.Background())
	f, ok := fault.As(err)
	require.True(t, ok)
	require.Equal(t, fault.CodeMissingValue, f.Code)
}

func TestEngineBreakNeverFails(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "x")),
		mustInstr(t, compiler.BREAK, 2),
	}
	eng, _, errOut := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Contains(t, errOut.String(), "BREAK at instruction")
	require.Contains(t, errOut.String(), "pc:")
}

func TestEngineStrlenRuneAware(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "n")),
		mustInstr(t, compiler.STRLEN, 2, compiler.Var(compiler.ClassVar, compiler.GF, "n"), compiler.StrLiteral("café")),
		mustInstr(t, compiler.WRITE, 3, compiler.Var(compiler.ClassSymbol, compiler.GF, "n")),
	}
	eng, out, _ := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "4", out.String())
}

func TestEngineReadIntParseFailureStoresNil(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.DEFVAR, 1, compiler.Var(compiler.ClassVar, compiler.GF, "v")),
		mustInstr(t, compiler.READ, 2, compiler.Var(compiler.ClassVar, compiler.GF, "v"), compiler.TypeLiteral("int")),
		mustInstr(t, compiler.TYPE, 3, compiler.Var(compiler.ClassVar, compiler.GF, "v"), compiler.Var(compiler.ClassSymbol, compiler.GF, "v")),
		mustInstr(t, compiler.WRITE, 4, compiler.Var(compiler.ClassSymbol, compiler.GF, "v")),
	}
	eng, out, _ := newTestEngine(t, instrs, "not-a-number\n")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "nil", out.String())
}

func TestEngineCallDepthRestoredByReturn(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.CALL, 1, compiler.Label("f")),
		mustInstr(t, compiler.EXIT, 2, compiler.IntLiteral(0)),
		mustInstr(t, compiler.LABEL, 3, compiler.Label("f")),
		mustInstr(t, compiler.RETURN, 4),
	}
	eng, _, _ := newTestEngine(t, instrs, "")
	code, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, 0, eng.call.Depth())
}

func TestEngineJumpToUnknownLabelFaults(t *testing.T) {
	instrs := []*compiler.Instruction{
		mustInstr(t, compiler.JUMP, 1, compiler.Label("nowhere")),
	}
	eng, _, _ := newTestEngine(t, instrs, "")
	_, err := eng.Run(context.Background())
	f, ok := fault.As(err)
	require.True(t, ok)
	require.Equal(t, fault.CodeSemantic, f.Code)
}
