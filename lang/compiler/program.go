package compiler

import (
	"sort"

	"github.com/mna/ippvm/lang/fault"
)

// Program is a fully parsed, order-sorted IPPcode23 instruction list, ready
// for the label pre-pass and execution (lang/machine).
type Program struct {
	Instructions []*Instruction
}

// NewProgram sorts instrs by their source Order and returns the resulting
// Program. A duplicate Order across instructions is fault.CodeXMLStructure
// (32), matching the "duplicate order" case of spec.md §6.
func NewProgram(instrs []*Instruction) (*Program, error) {
	sorted := append([]*Instruction(nil), instrs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Order == sorted[i-1].Order {
			return nil, fault.New(fault.CodeXMLStructure, "duplicate instruction order %d", sorted[i].Order)
		}
	}
	return &Program{Instructions: sorted}, nil
}
