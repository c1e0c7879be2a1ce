// Package fault defines the exit-code taxonomy used throughout the
// interpreter. Every layer of the VM — the XML loader, the parse-time
// instruction validator, the frame manager, the auxiliary stacks, and the
// execution engine — reports failures as a *Fault so that a single place
// (internal/maincmd) decides the process exit code.
package fault

import "fmt"

// Code is one of the documented fault exit codes.
type Code int

// The documented exit codes. Values and meanings are contractual: test
// harnesses built against this interpreter depend on them remaining stable.
const (
	CodeInvalidArgs  Code = 10 // missing/invalid CLI parameter
	CodeInputOpen    Code = 11 // cannot open input files
	CodeOutputOpen   Code = 12 // cannot open output files
	CodeXMLMalformed Code = 31 // XML not well-formed
	CodeXMLStructure Code = 32 // unexpected XML/instruction structure
	CodeSemantic     Code = 52 // unknown opcode, duplicate label, redefined variable
	CodeOperandType  Code = 53 // operand type mismatch
	CodeUndefinedVar Code = 54 // access to undefined variable in an existing frame
	CodeNoFrame      Code = 55 // access to a nonexistent frame
	CodeMissingValue Code = 56 // uninitialized read, empty pop
	CodeBadValue     Code = 57 // division by zero, EXIT out of range, illegal frame relabel
	CodeStringOp     Code = 58 // bad index, bad code point, empty SETCHAR replacement
	CodeInternal     Code = 99 // internal error
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgs:
		return "invalid-args"
	case CodeInputOpen:
		return "input-open"
	case CodeOutputOpen:
		return "output-open"
	case CodeXMLMalformed:
		return "xml-malformed"
	case CodeXMLStructure:
		return "xml-structure"
	case CodeSemantic:
		return "semantic"
	case CodeOperandType:
		return "operand-type"
	case CodeUndefinedVar:
		return "undefined-variable"
	case CodeNoFrame:
		return "no-frame"
	case CodeMissingValue:
		return "missing-value"
	case CodeBadValue:
		return "bad-value"
	case CodeStringOp:
		return "string-op"
	case CodeInternal:
		return "internal"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Fault is the error type returned by every fallible VM operation.
type Fault struct {
	Code Code
	msg  string
	err  error
}

func (f *Fault) Error() string {
	if f.err != nil {
		return fmt.Sprintf("%s: %s", f.msg, f.err)
	}
	return f.msg
}

func (f *Fault) Unwrap() error { return f.err }

// New returns a Fault with the given code and formatted message.
func New(code Code, format string, args ...any) *Fault {
	return &Fault{Code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a Fault with the given code that wraps err.
func Wrap(code Code, err error, format string, args ...any) *Fault {
	return &Fault{Code: code, msg: fmt.Sprintf(format, args...), err: err}
}

// As extracts a *Fault from err, if it is one or wraps one. Returns
// (nil, false) otherwise.
func As(err error) (*Fault, bool) {
	f, ok := err.(*Fault)
	if ok {
		return f, true
	}
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
		if f, ok := err.(*Fault); ok {
			return f, true
		}
	}
}
