package parser

import "fmt"

// Link resolves every textual jump target against the symbol table,
// producing the final linear Program (spec.md §4.3). An unresolved
// label is reported with the referring instruction's line number.
func Link(instructions []*Instruction, symbols *SymbolTable) (*Program, *Error) {
	for _, inst := range instructions {
		if inst.Label == "" {
			continue
		}
		sym, ok := symbols.Lookup(inst.Label)
		if !ok {
			return nil, NewError(inst.Line, ErrorUnknownLabel, fmt.Sprintf("unknown label %q", inst.Label))
		}
		inst.Target = sym.Index
	}

	return &Program{Instructions: instructions, Symbols: symbols}, nil
}

// ParseProgram runs the full pipeline — classify, parse, link — on a
// source string and returns the executable Program.
func ParseProgram(source string) (*Program, *Error) {
	instructions, symbols, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Link(instructions, symbols)
}
