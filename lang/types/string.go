package types

import "strings"

// Str is the type of a text string. Indexing operations (GETCHAR, SETCHAR,
// STRI2INT) index by Unicode scalar value (rune), not by byte — see
// DESIGN.md for why this convention was chosen over UTF-8 byte or UTF-16
// unit indexing.
type Str string

var (
	_ Value    = Str("")
	_ Ordered  = Str("")
	_ HasEqual = Str("")
)

func (s Str) String() string { return string(s) }
func (s Str) Type() string   { return "string" }

// Len returns the number of Unicode characters (runes) in s, which is what
// STRLEN reports, not the byte length.
func (s Str) Len() int { return len([]rune(string(s))) }

func (s Str) Cmp(v Value) (int, error) {
	s2 := v.(Str)
	return strings.Compare(string(s), string(s2)), nil
}

func (s Str) Equals(v Value) (bool, error) { return s == v.(Str), nil }
