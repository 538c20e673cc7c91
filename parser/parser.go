package parser

import "strings"

// Parser folds one logical line at a time into a typed Instruction,
// matching the grammar rows of spec.md §4.1/§4.2, and records label
// definitions into a SymbolTable as it goes. Label-defining lines never
// emit an instruction: the recorded index equals the index of the next
// real instruction (spec.md's resolved Open Question (b)).
type Parser struct {
	symbols      *SymbolTable
	instructions []*Instruction
}

func newParser() *Parser {
	return &Parser{symbols: NewSymbolTable()}
}

// Parse runs the full front end — classification, then per-line parsing
// — and returns the unlinked instruction list and symbol table. Per
// spec.md §7, parse errors abort on first failure; Parse returns the
// first one encountered.
func Parse(source string) ([]*Instruction, *SymbolTable, *Error) {
	lines, lexErrs := ClassifyLines(source)
	if lexErrs.HasErrors() {
		return nil, nil, lexErrs.First()
	}

	p := newParser()
	for _, line := range lines {
		if err := p.parseLine(line); err != nil {
			return nil, nil, err
		}
	}

	return p.instructions, p.symbols, nil
}

func (p *Parser) emit(inst *Instruction) {
	p.instructions = append(p.instructions, inst)
}

func (p *Parser) nextIndex() int {
	return len(p.instructions)
}

func (p *Parser) parseLine(line Line) *Error {
	toks := line.Tokens
	if len(toks) == 0 || toks[0].Kind != TokOpcode {
		return NewError(line.Number, ErrorSyntax, "expected an opcode at the start of the line")
	}

	op := toks[0].Opcode
	rest := toks[1:]

	switch op {
	case OpIncrement, OpDecrement, OpNegate, OpDouble, OpHalve, OpRandomize,
		OpReadByte, OpWriteChar:
		reg, err := expectOnlyRegister(rest, line.Number)
		if err != nil {
			return err
		}
		p.emit(&Instruction{Line: line.Number, Opcode: op, Reg1: reg, Target: -1})
		return nil

	case OpAlign:
		return p.parseAlign(rest, line.Number)

	case OpAdd, OpSubtract:
		return p.parseBinaryRegister(op, rest, line.Number)

	case OpLabelDef:
		return p.parseLabelDef(rest, line.Number)

	case OpJump:
		return p.parseLabelRef(op, nil, rest, line.Number)

	case OpJumpIfZero, OpJumpIfNegative:
		return p.parseConditionalJump(op, rest, line.Number)

	default:
		return NewError(line.Number, ErrorSyntax, "unrecognized opcode")
	}
}

// expectOnlyRegister requires toks to be exactly one register token.
func expectOnlyRegister(toks []PhraseToken, line int) (RegisterID, *Error) {
	if len(toks) != 1 || toks[0].Kind != TokRegister {
		return 0, NewError(line, ErrorSyntax, "expected exactly one register operand")
	}
	return toks[0].Register, nil
}

func expectKeyword(toks []PhraseToken, idx int, kw Keyword, line int, what string) *Error {
	if idx >= len(toks) || toks[idx].Kind != TokKeyword || toks[idx].Keyword != kw {
		return NewError(line, ErrorSyntax, "expected '"+what+"'")
	}
	return nil
}

// parseAlign handles "align REG with (REG | ConstExpr)".
func (p *Parser) parseAlign(toks []PhraseToken, line int) *Error {
	if len(toks) < 3 || toks[0].Kind != TokRegister {
		return NewError(line, ErrorSyntax, "expected 'align <register> with ...'")
	}
	dest := toks[0].Register

	if err := expectKeyword(toks, 1, KwWith, line, "with"); err != nil {
		return err
	}

	valueToks := toks[2:]
	if len(valueToks) == 1 && valueToks[0].Kind == TokRegister {
		p.emit(&Instruction{
			Line: line, Opcode: OpAlign, Reg1: dest,
			Value:  Value{IsRegister: true, Register: valueToks[0].Register},
			Target: -1,
		})
		return nil
	}

	val, err := evalConstExpr(valueToks, line)
	if err != nil {
		return err
	}
	p.emit(&Instruction{
		Line: line, Opcode: OpAlign, Reg1: dest,
		Value:  Value{IsRegister: false, Constant: val},
		Target: -1,
	})
	return nil
}

// parseBinaryRegister handles "synergize/integrate/differentiate X and Y".
func (p *Parser) parseBinaryRegister(op Opcode, toks []PhraseToken, line int) *Error {
	if len(toks) != 3 || toks[0].Kind != TokRegister {
		return NewError(line, ErrorSyntax, "expected '<register> and <register>'")
	}
	if err := expectKeyword(toks, 1, KwAnd, line, "and"); err != nil {
		return err
	}
	if toks[2].Kind != TokRegister {
		return NewError(line, ErrorSyntax, "expected a register after 'and'")
	}
	p.emit(&Instruction{Line: line, Opcode: op, Reg1: toks[0].Register, Reg2: toks[2].Register, Target: -1})
	return nil
}

// parseLabelDef handles "moving forward, <label text>" /
// "going forward, <label text>". The opcode token itself is already
// consumed by the caller; toks starts at the mandatory comma.
func (p *Parser) parseLabelDef(toks []PhraseToken, line int) *Error {
	if len(toks) == 0 || toks[0].Kind != TokComma {
		return NewError(line, ErrorSyntax, "expected ',' after label-introduction phrase")
	}
	name, err := collectLabelText(toks[1:], line)
	if err != nil {
		return err
	}
	if goErr := p.symbols.Define(name, p.nextIndex(), line); goErr != nil {
		return NewError(line, ErrorDuplicateLabel, goErr.Error())
	}
	return nil
}

// parseLabelRef handles "circle back to <label>" / "revisit <label>"
// (reg is nil), and the label tail of a conditional jump, whose
// conditioning register is passed in reg.
func (p *Parser) parseLabelRef(op Opcode, reg *RegisterID, toks []PhraseToken, line int) *Error {
	name, err := collectLabelText(toks, line)
	if err != nil {
		return err
	}
	inst := &Instruction{Line: line, Opcode: op, Label: name, Target: -1}
	if reg != nil {
		inst.Reg1 = *reg
	}
	p.emit(inst)
	return nil
}

// parseConditionalJump handles "pivot Y to <label>" / "restructure Y to <label>".
func (p *Parser) parseConditionalJump(op Opcode, toks []PhraseToken, line int) *Error {
	if len(toks) < 2 || toks[0].Kind != TokRegister {
		return NewError(line, ErrorSyntax, "expected '<register> to <label>'")
	}
	reg := toks[0].Register
	if err := expectKeyword(toks, 1, KwTo, line, "to"); err != nil {
		return err
	}
	return p.parseLabelRef(op, &reg, toks[2:], line)
}

// collectLabelText joins the remaining tokens on a line into a label
// identifier, requiring every token to be free text (no reserved word),
// then trims and lowercases it for comparison (spec.md §3).
func collectLabelText(toks []PhraseToken, line int) (string, *Error) {
	if len(toks) == 0 {
		return "", NewError(line, ErrorSyntax, "empty label identifier")
	}
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind != TokText {
			return "", NewError(line, ErrorSyntax, "label identifier contains a reserved word")
		}
		parts = append(parts, t.Text)
	}
	name := strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
	if name == "" {
		return "", NewError(line, ErrorSyntax, "empty label identifier")
	}
	return name, nil
}
