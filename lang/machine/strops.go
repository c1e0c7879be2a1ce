package machine

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/types"
)

// execInt2Char converts an integer Unicode code point to a one-rune string.
// An out-of-range or surrogate code point is fault.CodeStringOp (58), per
// spec.md §4.6.
func (e *Engine) execInt2Char(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	i, err := e.resolveInt(ops[1])
	if err != nil {
		return err
	}
	r := rune(i)
	if i < 0 || i > utf8.MaxRune || !utf8.ValidRune(r) {
		return fault.New(fault.CodeStringOp, "INT2CHAR: %d is not a valid Unicode code point", int64(i))
	}
	dst.Value = types.Str(string(r))
	return nil
}

// execStri2Int resolves the rune at a given Unicode-scalar index of a string
// to its code point. An out-of-range index is fault.CodeStringOp (58).
func (e *Engine) execStri2Int(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	s, err := e.resolveStr(ops[1])
	if err != nil {
		return err
	}
	i, err := e.resolveInt(ops[2])
	if err != nil {
		return err
	}
	runes := []rune(string(s))
	if i < 0 || int(i) >= len(runes) {
		return fault.New(fault.CodeStringOp, "STRI2INT: index %d out of range for string of length %d", int64(i), len(runes))
	}
	dst.Value = types.Int(runes[i])
	return nil
}

// execRead stores the next input line, parsed per the requested type tag,
// into the destination variable. Exhaustion, a malformed value, or a type
// tag of "nil" all store Nil — READ never faults (spec.md §4.6).
func (e *Engine) execRead(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	tag := ops[1].TypeTag

	line, ok := e.input.ReadLine()
	if !ok {
		dst.Value = types.Nil
		return nil
	}

	switch tag {
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			dst.Value = types.Nil
			return nil
		}
		dst.Value = types.Int(n)
	case "bool":
		dst.Value = types.Bool(strings.EqualFold(strings.TrimSpace(line), "true"))
	case "string":
		decoded, err := compiler.DecodeEscapes(line)
		if err != nil {
			dst.Value = types.Nil
			return nil
		}
		dst.Value = types.Str(decoded)
	default:
		dst.Value = types.Nil
	}
	return nil
}

// execConcat requires both operands to already be strings (spec.md §4.6);
// a non-string operand is fault.CodeOperandType (53), surfaced by
// resolveStr.
func (e *Engine) execConcat(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	x, err := e.resolveStr(ops[1])
	if err != nil {
		return err
	}
	y, err := e.resolveStr(ops[2])
	if err != nil {
		return err
	}
	dst.Value = types.Str(string(x) + string(y))
	return nil
}

func (e *Engine) execStrlen(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	s, err := e.resolveStr(ops[1])
	if err != nil {
		return err
	}
	dst.Value = types.Int(s.Len())
	return nil
}

// execGetChar reads the rune at a Unicode-scalar index. Out of range is
// fault.CodeStringOp (58).
func (e *Engine) execGetChar(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	s, err := e.resolveStr(ops[1])
	if err != nil {
		return err
	}
	i, err := e.resolveInt(ops[2])
	if err != nil {
		return err
	}
	runes := []rune(string(s))
	if i < 0 || int(i) >= len(runes) {
		return fault.New(fault.CodeStringOp, "GETCHAR: index %d out of range for string of length %d", int64(i), len(runes))
	}
	dst.Value = types.Str(string(runes[i]))
	return nil
}

// execSetChar replaces the rune at index i of the destination's current
// string value with the first rune of s. The destination must already hold
// a String: uninitialized is fault.CodeMissingValue (56), any other type is
// fault.CodeOperandType (53). An empty s, or an out-of-range i, is
// fault.CodeStringOp (58).
func (e *Engine) execSetChar(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}
	if dst.Value == nil {
		return fault.New(fault.CodeMissingValue, "SETCHAR: %s@%s is not initialized", ops[0].VarFrame, ops[0].VarName)
	}
	cur, ok := dst.Value.(types.Str)
	if !ok {
		return fault.New(fault.CodeOperandType, "SETCHAR: %s@%s does not hold a string", ops[0].VarFrame, ops[0].VarName)
	}
	i, err := e.resolveInt(ops[1])
	if err != nil {
		return err
	}
	s, err := e.resolveStr(ops[2])
	if err != nil {
		return err
	}
	srcRunes := []rune(string(s))
	if len(srcRunes) == 0 {
		return fault.New(fault.CodeStringOp, "SETCHAR: source string is empty")
	}
	dstRunes := []rune(string(cur))
	if i < 0 || int(i) >= len(dstRunes) {
		return fault.New(fault.CodeStringOp, "SETCHAR: index %d out of range for string of length %d", int64(i), len(dstRunes))
	}
	dstRunes[i] = srcRunes[0]
	dst.Value = types.Str(string(dstRunes))
	return nil
}

// execType reports the dynamic type of a symbol as a string, with the one
// exception in the whole instruction set: an uninitialized variable yields
// the empty string rather than faulting (spec.md §4.6).
func (e *Engine) execType(ops []compiler.Operand) error {
	dst, err := e.resolveVar(ops[0])
	if err != nil {
		return err
	}

	src := ops[1]
	if src.IsVar() {
		v, err := e.frames.Lookup(src.VarFrame, src.VarName)
		if err != nil {
			return err
		}
		if v.Value == nil {
			dst.Value = types.Str("")
			return nil
		}
		dst.Value = types.Str(v.Value.Type())
		return nil
	}

	val, err := e.resolveSymbol(src)
	if err != nil {
		return err
	}
	dst.Value = types.Str(val.Type())
	return nil
}
