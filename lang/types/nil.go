package types

// NilType is the type of Nil. Its only legal value is Nil.
type NilType byte

// Nil is the sole runtime value of type NilType.
const Nil = NilType(0)

var _ Value = Nil

func (NilType) String() string { return "" }
func (NilType) Type() string   { return "nil" }
