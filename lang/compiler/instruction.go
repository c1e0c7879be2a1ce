package compiler

import "github.com/mna/ippvm/lang/fault"

// Instruction is a parsed, validated IPPcode23 instruction: an opcode plus
// 0..3 operands whose arity and per-position kind have already been checked
// against the opcode's signature (spec.md §4.4).
type Instruction struct {
	Opcode   Opcode
	Operands []Operand
	Order    int // the source `order` attribute, retained for diagnostics
}

// New validates opcode's arity and operand classes against operands and
// returns the resulting Instruction. A wrong number of operands is
// fault.CodeXMLStructure (32); an operand present in the wrong class for its
// position is fault.CodeOperandType (53).
func New(op Opcode, order int, operands ...Operand) (*Instruction, error) {
	sig, ok := Signature(op)
	if !ok {
		return nil, fault.New(fault.CodeSemantic, "unknown opcode %s", op)
	}
	if len(operands) != len(sig) {
		return nil, fault.New(fault.CodeXMLStructure, "%s: expected %d operand(s), got %d", op, len(sig), len(operands))
	}
	for i, want := range sig {
		got := operands[i].Class
		if got != want {
			return nil, fault.New(fault.CodeOperandType, "%s: operand %d: expected %s, got %s", op, i+1, classString(want), classString(got))
		}
	}
	return &Instruction{Opcode: op, Operands: operands, Order: order}, nil
}

func classString(c OperandClass) string {
	switch c {
	case ClassVar:
		return "variable"
	case ClassSymbol:
		return "symbol"
	case ClassType:
		return "type tag"
	case ClassLabel:
		return "label"
	default:
		return "unknown"
	}
}
