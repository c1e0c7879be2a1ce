package types

import (
	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/token"
)

// Binary implements ADD, SUB, MUL and IDIV per spec.md §4.6: all four take
// two Int operands. IDIV is integer division truncated toward zero (Go's
// native integer division already truncates toward zero) and faults with
// CodeBadValue on division by zero.
func Binary(op token.Token, x, y Value) (Value, error) {
	xi, xok := x.(Int)
	yi, yok := y.(Int)
	if !xok || !yok {
		return nil, fault.New(fault.CodeOperandType, "%s: expected two int operands, got %s, %s", op, x.Type(), y.Type())
	}

	switch op {
	case token.ADD:
		return xi + yi, nil
	case token.SUB:
		return xi - yi, nil
	case token.MUL:
		return xi * yi, nil
	case token.IDIV:
		if yi == 0 {
			return nil, fault.New(fault.CodeBadValue, "IDIV: division by zero")
		}
		return xi / yi, nil
	default:
		return nil, fault.New(fault.CodeInternal, "unsupported binary operator %s", op)
	}
}
