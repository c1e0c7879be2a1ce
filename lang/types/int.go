package types

import "strconv"

// Int is the type of an integer value.
type Int int64

var (
	_ Value    = Int(0)
	_ Ordered  = Int(0)
	_ HasEqual = Int(0)
)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }

func (i Int) Cmp(v Value) (int, error) {
	j := v.(Int)
	switch {
	case i < j:
		return -1, nil
	case i > j:
		return +1, nil
	default:
		return 0, nil
	}
}

func (i Int) Equals(v Value) (bool, error) { return i == v.(Int), nil }
