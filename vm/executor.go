package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/corpspeak/stratcomm/parser"
)

// State is the machine's coarse run state, mirroring the teacher's
// ExecutionState enum minus the breakpoint/step modes that belong to
// the debugger, not the core VM.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
)

// VM is the executor: a register file, a program counter, and the I/O
// and diagnostic capabilities a running program can touch. It has no
// addressable memory — spec.md's "machine state" is exactly Register
// File + Program Counter + halt flag.
type VM struct {
	Registers *RegisterFile
	Program   *parser.Program
	PC        int
	State     State
	Cycles    uint64

	CycleLimit uint64 // 0 means unlimited
	LastError  error

	Random RandomSource
	Input  *bufio.Reader
	Output io.Writer

	Trace      *ExecutionTrace
	Statistics *PerformanceStatistics
	Coverage   *CodeCoverage
}

// NewVM creates a machine ready to run program, with registers at zero
// and PC at the first instruction (spec.md §4.4).
func NewVM(program *parser.Program, random RandomSource) *VM {
	return &VM{
		Registers: NewRegisterFile(),
		Program:   program,
		PC:        0,
		State:     StateRunning,
		Random:    random,
		Input:     bufio.NewReader(os.Stdin),
		Output:    os.Stdout,
	}
}

// Run steps the machine until it halts or faults.
func (vm *VM) Run() error {
	for vm.State == StateRunning {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step fetches, dispatches, and advances exactly one instruction
// (spec.md §4.4's numbered loop).
func (vm *VM) Step() error {
	if vm.PC == len(vm.Program.Instructions) {
		vm.State = StateHalted
		return nil
	}
	if vm.State != StateRunning {
		return fmt.Errorf("machine is not running")
	}
	if vm.CycleLimit > 0 && vm.Cycles >= vm.CycleLimit {
		vm.State = StateError
		vm.LastError = fmt.Errorf("cycle limit exceeded (%d cycles)", vm.CycleLimit)
		return vm.LastError
	}

	inst := vm.Program.Instructions[vm.PC]
	vm.Cycles++

	var before [parser.RegisterCount]int32
	if vm.Trace != nil {
		before = vm.Registers.Snapshot()
	}

	jumped, err := vm.execute(inst)
	if err != nil {
		vm.State = StateError
		vm.LastError = err
		return err
	}

	if vm.Statistics != nil {
		vm.Statistics.Record(inst.Opcode)
		if isJumpOpcode(inst.Opcode) {
			vm.Statistics.RecordJump(jumped)
		}
	}
	if vm.Coverage != nil {
		vm.Coverage.Mark(vm.PC)
	}

	prevPC := vm.PC
	if jumped {
		vm.PC = inst.Target
	} else {
		vm.PC++
	}

	if vm.Trace != nil {
		vm.Trace.Record(vm.Cycles, prevPC, inst, before, vm.Registers.Snapshot())
	}

	return nil
}

// execute dispatches one instruction and reports whether it took a
// jump (in which case the caller must not simply advance PC by 1).
func (vm *VM) execute(inst *parser.Instruction) (bool, error) {
	switch inst.Opcode {
	case parser.OpIncrement:
		vm.Registers.Set(inst.Reg1, wrappingIncrement(vm.Registers.Get(inst.Reg1)))
	case parser.OpDecrement:
		vm.Registers.Set(inst.Reg1, wrappingDecrement(vm.Registers.Get(inst.Reg1)))
	case parser.OpNegate:
		vm.Registers.Set(inst.Reg1, wrappingNegate(vm.Registers.Get(inst.Reg1)))
	case parser.OpDouble:
		vm.Registers.Set(inst.Reg1, wrappingDouble(vm.Registers.Get(inst.Reg1)))
	case parser.OpHalve:
		vm.Registers.Set(inst.Reg1, wrappingHalve(vm.Registers.Get(inst.Reg1)))
	case parser.OpRandomize:
		vm.Registers.Set(inst.Reg1, vm.Random.NextDigit())
	case parser.OpAlign:
		var v int32
		if inst.Value.IsRegister {
			v = vm.Registers.Get(inst.Value.Register)
		} else {
			v = inst.Value.Constant
		}
		vm.Registers.Set(inst.Reg1, v)
	case parser.OpAdd:
		vm.Registers.Set(inst.Reg1, wrappingAdd(vm.Registers.Get(inst.Reg1), vm.Registers.Get(inst.Reg2)))
	case parser.OpSubtract:
		vm.Registers.Set(inst.Reg1, wrappingSubtract(vm.Registers.Get(inst.Reg1), vm.Registers.Get(inst.Reg2)))
	case parser.OpReadByte:
		return false, vm.readByte(inst)
	case parser.OpWriteChar:
		return false, vm.writeChar(inst)
	case parser.OpLabelDef:
		// No runtime effect; the parser never emits these anyway.
	case parser.OpJump:
		return true, nil
	case parser.OpJumpIfZero:
		return vm.Registers.Get(inst.Reg1) == 0, nil
	case parser.OpJumpIfNegative:
		return vm.Registers.Get(inst.Reg1) < 0, nil
	default:
		return false, parser.NewError(inst.Line, parser.ErrorSyntax, "unhandled opcode during execution")
	}
	return false, nil
}

// isJumpOpcode reports whether op is one of the three jump opcodes, the
// set PerformanceStatistics.RecordJump tracks a taken/not-taken outcome
// for.
func isJumpOpcode(op parser.Opcode) bool {
	return op == parser.OpJump || op == parser.OpJumpIfZero || op == parser.OpJumpIfNegative
}

// readByte implements crowdsource: one raw byte from stdin, or -1 on
// end-of-stream (spec.md §4.4, resolved Open Question (a)).
func (vm *VM) readByte(inst *parser.Instruction) error {
	b, err := vm.Input.ReadByte()
	if err == io.EOF {
		vm.Registers.Set(inst.Reg1, -1)
		return nil
	}
	if err != nil {
		return parser.NewError(inst.Line, parser.ErrorIO, "reading stdin: "+err.Error())
	}
	vm.Registers.Set(inst.Reg1, int32(b))
	return nil
}

// writeChar implements deliver/produce: the register's value is a
// Unicode scalar value, UTF-8 encoded to stdout.
func (vm *VM) writeChar(inst *parser.Instruction) error {
	v := vm.Registers.Get(inst.Reg1)
	if !utf8.ValidRune(rune(v)) {
		return parser.NewError(inst.Line, parser.ErrorInvalidUnicode,
			fmt.Sprintf("%d is not a valid Unicode scalar value", v))
	}
	if _, err := vm.Output.Write([]byte(string(rune(v)))); err != nil {
		return parser.NewError(inst.Line, parser.ErrorIO, "writing stdout: "+err.Error())
	}
	return nil
}
