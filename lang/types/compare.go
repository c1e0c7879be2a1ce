package types

import (
	"fmt"

	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/token"
)

// Compare implements LT, GT, EQ (and by extension JUMPIFEQ/JUMPIFNEQ) per
// spec.md §4.6: LT/GT require x and y to be the same concrete runtime type
// among Int/Str/Bool (Nil is not Ordered and is rejected); EQ additionally
// tolerates one operand being Nil, in which case the result is false unless
// both are Nil.
func Compare(op token.Token, x, y Value) (bool, error) {
	if op == token.EQL || op == token.NEQ {
		eq, err := equals(x, y)
		if err != nil {
			return false, err
		}
		if op == token.NEQ {
			return !eq, nil
		}
		return eq, nil
	}

	xo, xok := x.(Ordered)
	yo, yok := y.(Ordered)
	if !xok || !yok || x.Type() != y.Type() {
		return false, fault.New(fault.CodeOperandType, "%s: operands of incompatible or unordered types %s, %s", op, x.Type(), y.Type())
	}

	c, err := xo.Cmp(yo)
	if err != nil {
		return false, err
	}
	switch op {
	case token.LT:
		return c < 0, nil
	case token.GT:
		return c > 0, nil
	default:
		return false, fmt.Errorf("internal error: unsupported comparison operator %s", op)
	}
}

func equals(x, y Value) (bool, error) {
	_, xNil := x.(NilType)
	_, yNil := y.(NilType)
	if xNil || yNil {
		return xNil && yNil, nil
	}

	if x.Type() != y.Type() {
		return false, fault.New(fault.CodeOperandType, "EQ: operands of incompatible types %s, %s", x.Type(), y.Type())
	}

	xe, ok := x.(HasEqual)
	if !ok {
		return false, fmt.Errorf("internal error: type %s does not support equality", x.Type())
	}
	return xe.Equals(y)
}
