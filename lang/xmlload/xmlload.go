// Package xmlload loads an IPPcode23 program from its XML encoding into a
// *compiler.Program. It is the external collaborator spec.md §1 calls out
// as "out of scope" for the core engine: the document format itself (element
// names, attribute names) is fixed by spec.md §6, but nothing here executes
// a program. The standard library's encoding/xml is used directly — no
// example repo in the retrieval pack imports a third-party XML library, so
// there is no ecosystem choice to make here.
package xmlload

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mna/ippvm/lang/compiler"
	"github.com/mna/ippvm/lang/fault"
)

type xmlProgram struct {
	XMLName      xml.Name
	Language     string           `xml:"language,attr"`
	Instructions []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order  string   `xml:"order,attr"`
	Opcode string   `xml:"opcode,attr"`
	Args   []xmlArg `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// Load decodes an IPPcode23 XML document from r into a ready-to-run
// *compiler.Program (sorted by instruction order, parse-time checked).
func Load(r io.Reader) (*compiler.Program, error) {
	var doc xmlProgram
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fault.Wrap(fault.CodeXMLMalformed, err, "XML is not well-formed")
	}

	if doc.XMLName.Local != "program" {
		return nil, fault.New(fault.CodeXMLStructure, "root element must be <program>, got <%s>", doc.XMLName.Local)
	}
	if doc.Language != "IPPcode23" {
		return nil, fault.New(fault.CodeXMLStructure, `root element must have language="IPPcode23", got %q`, doc.Language)
	}

	instrs := make([]*compiler.Instruction, 0, len(doc.Instructions))
	for _, xi := range doc.Instructions {
		instr, err := convertInstruction(xi)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	return compiler.NewProgram(instrs)
}

func convertInstruction(xi xmlInstruction) (*compiler.Instruction, error) {
	if xi.Order == "" {
		return nil, fault.New(fault.CodeXMLStructure, "instruction is missing required order attribute")
	}
	order, err := strconv.Atoi(xi.Order)
	if err != nil || order <= 0 {
		return nil, fault.New(fault.CodeXMLStructure, "instruction order %q is not a positive integer", xi.Order)
	}

	if xi.Opcode == "" {
		return nil, fault.New(fault.CodeXMLStructure, "instruction (order %d) is missing required opcode attribute", order)
	}
	op, ok := compiler.Lookup(xi.Opcode)
	if !ok {
		return nil, fault.New(fault.CodeSemantic, "instruction (order %d): unknown opcode %q", order, xi.Opcode)
	}

	sig, _ := compiler.Signature(op)
	if len(xi.Args) != len(sig) {
		return nil, fault.New(fault.CodeXMLStructure, "%s (order %d): expected %d argument(s), got %d", op, order, len(sig), len(xi.Args))
	}

	operands := make([]compiler.Operand, len(xi.Args))
	for i, arg := range xi.Args {
		wantTag := fmt.Sprintf("arg%d", i+1)
		if arg.XMLName.Local != wantTag {
			return nil, fault.New(fault.CodeXMLStructure, "%s (order %d): expected <%s>, found <%s>", op, order, wantTag, arg.XMLName.Local)
		}
		operand, err := convertArg(op, order, sig[i], arg)
		if err != nil {
			return nil, err
		}
		operands[i] = operand
	}

	return compiler.New(op, order, operands...)
}

func convertArg(op compiler.Opcode, order int, want compiler.OperandClass, arg xmlArg) (compiler.Operand, error) {
	switch arg.Type {
	case "var":
		if want != compiler.ClassVar && want != compiler.ClassSymbol {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): variable not allowed here", op, order)
		}
		frame, name, err := splitVarRef(arg.Text)
		if err != nil {
			return compiler.Operand{}, fault.Wrap(fault.CodeXMLStructure, err, "%s (order %d)", op, order)
		}
		return compiler.Var(want, frame, name), nil

	case "int":
		if want != compiler.ClassSymbol {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): int literal not allowed here", op, order)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(arg.Text), 10, 64)
		if err != nil {
			return compiler.Operand{}, fault.Wrap(fault.CodeXMLStructure, err, "%s (order %d): invalid int literal %q", op, order, arg.Text)
		}
		return compiler.IntLiteral(v), nil

	case "bool":
		if want != compiler.ClassSymbol {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): bool literal not allowed here", op, order)
		}
		t := strings.ToLower(strings.TrimSpace(arg.Text))
		if t != "true" && t != "false" {
			return compiler.Operand{}, fault.New(fault.CodeXMLStructure, "%s (order %d): invalid bool literal %q", op, order, arg.Text)
		}
		return compiler.BoolLiteral(t == "true"), nil

	case "string":
		if want != compiler.ClassSymbol {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): string literal not allowed here", op, order)
		}
		decoded, err := compiler.DecodeEscapes(arg.Text)
		if err != nil {
			return compiler.Operand{}, err
		}
		return compiler.StrLiteral(decoded), nil

	case "nil":
		if want != compiler.ClassSymbol {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): nil literal not allowed here", op, order)
		}
		return compiler.NilLiteral(), nil

	case "type":
		if want != compiler.ClassType {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): type tag not allowed here", op, order)
		}
		tag := strings.TrimSpace(arg.Text)
		switch tag {
		case "int", "string", "bool", "nil":
		default:
			return compiler.Operand{}, fault.New(fault.CodeXMLStructure, "%s (order %d): invalid type tag %q", op, order, arg.Text)
		}
		return compiler.TypeLiteral(tag), nil

	case "label":
		if want != compiler.ClassLabel {
			return compiler.Operand{}, fault.New(fault.CodeOperandType, "%s (order %d): label not allowed here", op, order)
		}
		return compiler.Label(strings.TrimSpace(arg.Text)), nil

	default:
		return compiler.Operand{}, fault.New(fault.CodeXMLStructure, "%s (order %d): unknown arg type %q", op, order, arg.Type)
	}
}

func splitVarRef(text string) (compiler.FrameKind, string, error) {
	frameStr, name, ok := strings.Cut(text, "@")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid variable reference %q, want FRAME@NAME", text)
	}
	switch frameStr {
	case "GF":
		return compiler.GF, name, nil
	case "LF":
		return compiler.LF, name, nil
	case "TF":
		return compiler.TF, name, nil
	default:
		return 0, "", fmt.Errorf("invalid frame %q in variable reference %q", frameStr, text)
	}
}
