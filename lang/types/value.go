// Package types defines the runtime value model of the interpreter: the
// closed set of Values a Variable or the Data Stack may hold (Int, Str,
// Bool, Nil), plus the comparison interfaces the execution engine uses to
// implement the relational and equality opcodes.
package types

// Value is the interface implemented by every runtime value. Unlike the
// parser's Operand (lang/compiler), a Value never carries a declared type
// tag or a label name — those exist only as instruction operands and are
// resolved away before a Value is produced.
type Value interface {
	// String returns the value formatted the way WRITE prints it.
	String() string

	// Type returns the runtime type name: "int", "string", "bool" or "nil".
	Type() string
}

// An Ordered type supports relational comparison (LT, GT). Nil is
// deliberately not Ordered: spec.md forbids LT/GT on Nil operands.
type Ordered interface {
	Value

	// Cmp compares the receiver to y, which is guaranteed to be of the same
	// concrete type. It returns negative if the receiver is less than y,
	// positive if greater, and zero if equal. Client code should not call this
	// directly; use Compare.
	Cmp(y Value) (int, error)
}

// A HasEqual type defines its own equality logic for the EQ/JUMPIFEQ family,
// which additionally tolerates comparing against Nil (see Compare).
type HasEqual interface {
	Value

	// Equals reports whether the receiver equals y, which is guaranteed to be
	// of the same concrete type. Client code should not call this directly;
	// use Compare.
	Equals(y Value) (bool, error)
}
