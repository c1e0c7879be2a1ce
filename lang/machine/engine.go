// Package machine implements the execution engine: the dispatcher described
// by spec.md §4.5–§4.8. It owns the Frame Manager, the Label Table, the Data
// and Call Stacks and the program counter, and runs the two-pass algorithm
// (register labels, then execute) described in spec.md §4.5.
package machine

import (
	"context"
	"fmt"
	"io"

	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/token"
	"github.com/mna/ippvm/lang/types"
)

// Engine is the explicit, non-global record that owns every piece of
// mutable VM state. Nothing here is a package-level singleton: a program
// can run any number of Engines, sequentially, with no shared state between
// them (spec.md §9's re-architecture note).
type Engine struct {
	program *compiler.Program
	frames  *FrameManager
	labels  *LabelTable
	data    *DataStack
	call    *CallStack
	input   *LineReader

	stdout io.Writer
	stderr io.Writer

	pc int
}

// New returns an Engine ready to run prog. stdout and stderr default to
// io.Discard if nil; input may be nil if the program never executes READ.
func New(prog *compiler.Program, stdout, stderr io.Writer, input *LineReader) *Engine {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Engine{
		program: prog,
		frames:  NewFrameManager(),
		labels:  NewLabelTable(len(prog.Instructions)),
		data:    &DataStack{},
		call:    &CallStack{},
		input:   input,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Run executes the program to completion, implementing the two-pass
// algorithm of spec.md §4.5. It returns the process exit code (0 on normal
// completion, or whatever EXIT specified) and a non-nil *fault.Fault if
// execution aborted on a fault.
func (e *Engine) Run(ctx context.Context) (int, error) {
	for idx, instr := range e.program.Instructions {
		if instr.Opcode == compiler.LABEL {
			name := instr.Operands[0].LabelName
			if err := e.labels.Register(name, idx); err != nil {
				return 0, err
			}
		}
	}

	e.pc = 0
	n := len(e.program.Instructions)
	for e.pc < n {
		select {
		case <-ctx.Done():
			return 0, fault.Wrap(fault.CodeInternal, ctx.Err(), "execution cancelled")
		default:
		}

		instr := e.program.Instructions[e.pc]
		if instr.Opcode == compiler.LABEL {
			e.pc++
			continue
		}

		newPC, halt, haltCode, err := e.exec(instr)
		if err != nil {
			return 0, err
		}
		if halt {
			return haltCode, nil
		}
		if newPC >= 0 {
			e.pc = newPC
		} else {
			e.pc++
		}
	}
	return 0, nil
}

// exec runs a single non-LABEL instruction. newPC >= 0 means "set PC to
// this index"; newPC == -1 means "advance PC by one as usual".
func (e *Engine) exec(instr *compiler.Instruction) (newPC int, halt bool, haltCode int, err error) {
	ops := instr.Operands

	switch instr.Opcode {
	case compiler.MOVE:
		dst, err := e.resolveVar(ops[0])
		if err != nil {
			return -1, false, 0, err
		}
		val, err := e.resolveSymbol(ops[1])
		if err != nil {
			return -1, false, 0, err
		}
		dst.Value = val

	case compiler.CREATEFRAME:
		e.frames.CreateFrame()

	case compiler.PUSHFRAME:
		if err := e.frames.PushFrame(); err != nil {
			return -1, false, 0, err
		}

	case compiler.POPFRAME:
		if err := e.frames.PopFrame(); err != nil {
			return -1, false, 0, err
		}

	case compiler.DEFVAR:
		if err := e.frames.Define(ops[0].VarFrame, ops[0].VarName); err != nil {
			return -1, false, 0, err
		}

	case compiler.CALL:
		idx, err := e.labels.Resolve(ops[0].LabelName)
		if err != nil {
			return -1, false, 0, err
		}
		e.call.Push(e.pc)
		return idx, false, 0, nil

	case compiler.RETURN:
		pc, err := e.call.Pop()
		if err != nil {
			return -1, false, 0, err
		}
		return pc + 1, false, 0, nil

	case compiler.PUSHS:
		val, err := e.resolveSymbol(ops[0])
		if err != nil {
			return -1, false, 0, err
		}
		e.data.Push(val)

	case compiler.POPS:
		dst, err := e.resolveVar(ops[0])
		if err != nil {
			return -1, false, 0, err
		}
		val, err := e.data.Pop()
		if err != nil {
			return -1, false, 0, err
		}
		dst.Value = val

	case compiler.ADD, compiler.SUB, compiler.MUL, compiler.IDIV:
		if err := e.execArith(instr.Opcode, ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.LT, compiler.GT, compiler.EQ:
		if err := e.execRelational(instr.Opcode, ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.AND, compiler.OR:
		if err := e.execLogicalBinary(instr.Opcode, ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.NOT:
		if err := e.execNot(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.INT2CHAR:
		if err := e.execInt2Char(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.STRI2INT:
		if err := e.execStri2Int(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.READ:
		if err := e.execRead(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.WRITE:
		val, err := e.resolveSymbol(ops[0])
		if err != nil {
			return -1, false, 0, err
		}
		fmt.Fprint(e.stdout, val.String())

	case compiler.CONCAT:
		if err := e.execConcat(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.STRLEN:
		if err := e.execStrlen(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.GETCHAR:
		if err := e.execGetChar(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.SETCHAR:
		if err := e.execSetChar(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.TYPE:
		if err := e.execType(ops); err != nil {
			return -1, false, 0, err
		}

	case compiler.JUMP:
		idx, err := e.labels.Resolve(ops[0].LabelName)
		if err != nil {
			return -1, false, 0, err
		}
		return idx, false, 0, nil

	case compiler.JUMPIFEQ, compiler.JUMPIFNEQ:
		idx, jump, err := e.execJumpIf(instr.Opcode, ops)
		if err != nil {
			return -1, false, 0, err
		}
		if jump {
			return idx, false, 0, nil
		}

	case compiler.EXIT:
		code, err := e.execExit(ops)
		if err != nil {
			return -1, false, 0, err
		}
		return -1, true, code, nil

	case compiler.DPRINT:
		val, err := e.resolveSymbol(ops[0])
		if err != nil {
			return -1, false, 0, err
		}
		fmt.Fprint(e.stderr, val.String())

	case compiler.BREAK:
		dumpBreak(e.stderr, e)

	default:
		return -1, false, 0, fault.New(fault.CodeInternal, "unimplemented opcode %s", instr.Opcode)
	}

	return -1, false, 0, nil
}

func opToken(op compiler.Opcode) token.Token {
	switch op {
	case compiler.ADD:
		return token.ADD
	case compiler.SUB:
		return token.SUB
	case compiler.MUL:
		return token.MUL
	case compiler.IDIV:
		return token.IDIV
	case compiler.LT:
		return token.LT
	case compiler.GT:
		return token.GT
	case compiler.EQ:
		return token.EQL
	default:
		return token.ILLEGAL
	}
}

func (e *Engine) execArith(op compiler.Opcode, ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	x, err := e.resolveSymbol(ops[1])
	if err != nil {
		return err
	}
	y, err := e.resolveSymbol(ops[2])
	if err != nil {
		return err
	}
	result, err := types.Binary(opToken(op), x, y)
	if err != nil {
		return err
	}
	dst.Value = result
	return nil
}

func (e *Engine) execRelational(op compiler.Opcode, ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	x, err := e.resolveSymbol(ops[1])
	if err != nil {
		return err
	}
	y, err := e.resolveSymbol(ops[2])
	if err != nil {
		return err
	}
	ok, err := types.Compare(opToken(op), x, y)
	if err != nil {
		return err
	}
	dst.Value = types.Bool(ok)
	return nil
}

func (e *Engine) execLogicalBinary(op compiler.Opcode, ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	x, err := e.resolveBool(ops[1])
	if err != nil {
		return err
	}
	y, err := e.resolveBool(ops[2])
	if err != nil {
		return err
	}
	if op == compiler.AND {
		dst.Value = types.Bool(bool(x) && bool(y))
	} else {
		dst.Value = types.Bool(bool(x) || bool(y))
	}
	return nil
}

func (e *Engine) execNot(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	x, err := e.resolveBool(ops[1])
	if err != nil {
		return err
	}
	dst.Value = !x
	return nil
}

func (e *Engine) execJumpIf(op compiler.Opcode, ops []compiler.Operand) (idx int, jump bool, err error) {
	idx, err = e.labels.Resolve(ops[0].LabelName)
	if err != nil {
		return 0, false, err
	}
	x, err := e.resolveSymbol(ops[1])
	if err != nil {
		return 0, false, err
	}
	y, err := e.resolveSymbol(ops[2])
	if err != nil {
		return 0, false, err
	}
	eq, err := types.Compare(token.EQL, x, y)
	if err != nil {
		return 0, false, err
	}
	if op == compiler.JUMPIFEQ {
		return idx, eq, nil
	}
	return idx, !eq, nil
}

func (e *Engine) execExit(ops []compiler.Operand) (int, error) {
	val, err := e.resolveSymbol(ops[0])
	if err != nil {
		return 0, err
	}
	n, ok := val.(types.Int)
	if !ok {
		return 0, fault.New(fault.CodeOperandType, "EXIT: expected int operand, got %s", val.Type())
	}
	if n < 0 || n > 49 {
		return 0, fault.New(fault.CodeBadValue, "EXIT: code %d out of range [0,49]", int64(n))
	}
	return int(n), nil
}

// resolveVar resolves a ClassVar operand to the Variable it names. It does
// not require the variable to be initialized — callers that need the value
// should go through resolveSymbol instead.
func (e *Engine) resolveVar(op compiler.Operand) (*Variable, error) {
	return e.frames.Lookup(op.VarFrame, op.VarName)
}

// resolveSymbol resolves a ClassSymbol operand (variable reference or
// literal) to its Value. An uninitialized variable is fault.CodeMissingValue
// (56), per spec.md §4.1.
func (e *Engine) resolveSymbol(op compiler.Operand) (types.Value, error) {
	if op.IsVar() {
		v, err := e.frames.Lookup(op.VarFrame, op.VarName)
		if err != nil {
			return nil, err
		}
		if v.Value == nil {
			return nil, fault.New(fault.CodeMissingValue, "variable %s@%s is not initialized", op.VarFrame, op.VarName)
		}
		return v.Value, nil
	}

	switch op.Lit {
	case compiler.LitInt:
		return types.Int(op.IntVal), nil
	case compiler.LitStr:
		return types.Str(op.StrVal), nil
	case compiler.LitBool:
		return types.Bool(op.BoolVal), nil
	case compiler.LitNil:
		return types.Nil, nil
	default:
		return nil, fault.New(fault.CodeInternal, "unresolvable operand")
	}
}

func (e *Engine) resolveBool(op compiler.Operand) (types.Bool, error) {
	v, err := e.resolveSymbol(op)
	if err != nil {
		return false, err
	}
	b, ok := v.(types.Bool)
	if !ok {
		return false, fault.New(fault.CodeOperandType, "expected bool operand, got %s", v.Type())
	}
	return b, nil
}

func (e *Engine) resolveStr(op compiler.Operand) (types.Str, error) {
	v, err := e.resolveSymbol(op)
	if err != nil {
		return "", err
	}
	s, ok := v.(types.Str)
	if !ok {
		return "", fault.New(fault.CodeOperandType, "expected string operand, got %s", v.Type())
	}
	return s, nil
}

func (e *Engine) resolveInt(op compiler.Operand) (types.Int, error) {
	v, err := e.resolveSymbol(op)
	if err != nil {
		return 0, err
	}
	i, ok := v.(types.Int)
	if !ok {
		return 0, fault.New(fault.CodeOperandType, "expected int operand, got %s", v.Type())
	}
	return i, nil
}
