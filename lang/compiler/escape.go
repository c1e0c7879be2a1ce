package compiler

import (
	"strings"

	"github.com/mna/ippvm/lang/fault"
)

// DecodeEscapes decodes the `\ddd` escape sequences (exactly three decimal
// digits denoting a Unicode code point) used by IPPcode23 string literals
// and by READ's string-typed input, per spec.md §4.6. No other escape forms
// (no backslash-letter escapes such as `\n`) are recognized; a lone
// backslash not followed by three decimal digits is a malformed literal.
func DecodeEscapes(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+3 >= len(runes) {
			return "", fault.New(fault.CodeXMLStructure, "malformed escape sequence: incomplete \\ddd at end of string")
		}
		digits := runes[i+1 : i+4]
		val := 0
		for _, d := range digits {
			if d < '0' || d > '9' {
				return "", fault.New(fault.CodeXMLStructure, "malformed escape sequence: %q is not three decimal digits", string(digits))
			}
			val = val*10 + int(d-'0')
		}
		b.WriteRune(rune(val))
		i += 3
	}
	return b.String(), nil
}
