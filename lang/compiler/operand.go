package compiler

import "fmt"

// FrameKind identifies which of the three frame kinds a VarRef names.
type FrameKind uint8

const (
	GF FrameKind = iota // Global Frame
	LF                  // (the) Local Frame
	TF                  // Temporary Frame
)

func (f FrameKind) String() string {
	switch f {
	case GF:
		return "GF"
	case LF:
		return "LF"
	case TF:
		return "TF"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

// LitKind identifies the concrete literal kind of a non-variable Operand.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitStr
	LitBool
	LitNil
	LitType // a type-tag literal: one of int/string/bool/nil
	LitLabel
)

// Operand is one parsed instruction argument. Which of the fields below are
// meaningful is selected by Class (and, for a literal, by Lit).
type Operand struct {
	Class OperandClass

	// populated when Class == ClassVar
	VarFrame FrameKind
	VarName  string

	// populated when Class == ClassSymbol and it is a literal (IsVar reports
	// a variable operand instead)
	Lit LitKind

	IntVal  int64
	StrVal  string // already \ddd-decoded
	BoolVal bool

	// populated when Class == ClassType
	TypeTag string // "int", "string", "bool" or "nil"

	// populated when Class == ClassLabel
	LabelName string

	isVar bool
}

// IsVar reports whether this ClassSymbol (or ClassVar) operand is a variable
// reference rather than a literal.
func (o Operand) IsVar() bool { return o.isVar }

// Var constructs a variable-reference operand. class should be ClassVar or
// ClassSymbol depending on the position it is built for.
func Var(class OperandClass, frame FrameKind, name string) Operand {
	return Operand{Class: class, VarFrame: frame, VarName: name, isVar: true}
}

// IntLiteral constructs an int literal symbol operand.
func IntLiteral(v int64) Operand {
	return Operand{Class: ClassSymbol, Lit: LitInt, IntVal: v}
}

// StrLiteral constructs a string literal symbol operand. s must already be
// escape-decoded (see DecodeEscapes).
func StrLiteral(s string) Operand {
	return Operand{Class: ClassSymbol, Lit: LitStr, StrVal: s}
}

// BoolLiteral constructs a bool literal symbol operand.
func BoolLiteral(v bool) Operand {
	return Operand{Class: ClassSymbol, Lit: LitBool, BoolVal: v}
}

// NilLiteral constructs a nil literal symbol operand.
func NilLiteral() Operand {
	return Operand{Class: ClassSymbol, Lit: LitNil}
}

// TypeLiteral constructs a type-tag operand (the `t` in READ v t).
func TypeLiteral(tag string) Operand {
	return Operand{Class: ClassType, Lit: LitType, TypeTag: tag}
}

// Label constructs a label-name operand.
func Label(name string) Operand {
	return Operand{Class: ClassLabel, Lit: LitLabel, LabelName: name}
}
