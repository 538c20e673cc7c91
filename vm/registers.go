package vm

import "github.com/corpspeak/stratcomm/parser"

// RegisterFile holds the eight signed 32-bit registers (spec.md §3).
// Unlike the teacher's 15-register CPU with a separate condition-flag
// register, this machine has no flags: every opcode's effect is fully
// determined by its operands, so there is nothing analogous to CPSR to
// carry here.
type RegisterFile struct {
	slots [parser.RegisterCount]int32
}

// NewRegisterFile returns a register file with every slot initialized
// to zero (spec.md §3: "Initial value: 0").
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

func (r *RegisterFile) Get(id parser.RegisterID) int32 {
	return r.slots[id]
}

func (r *RegisterFile) Set(id parser.RegisterID, value int32) {
	r.slots[id] = value
}

// Reset zeroes every register, mirroring the teacher's CPU.Reset.
func (r *RegisterFile) Reset() {
	for i := range r.slots {
		r.slots[i] = 0
	}
}

// Snapshot returns a copy of all eight register values, used by the
// execution trace and the debugger's register panel.
func (r *RegisterFile) Snapshot() [parser.RegisterCount]int32 {
	return r.slots
}
