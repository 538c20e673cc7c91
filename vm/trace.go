package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/corpspeak/stratcomm/parser"
)

// TraceEntry is one recorded step, grounded on the teacher's
// ExecutionTrace.TraceEntry but slimmed to this machine's state: no
// CPSR flags and no disassembly string, since an Instruction already
// prints its own mnemonic form via its opcode.
type TraceEntry struct {
	Sequence uint64
	Index    int
	Opcode   parser.Opcode
	Before   [parser.RegisterCount]int32
	After    [parser.RegisterCount]int32
}

// ExecutionTrace records register-level deltas across a run, the same
// role as the teacher's vm/trace.go ExecutionTrace but keyed on
// register index instead of register name.
type ExecutionTrace struct {
	Writer     io.Writer
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace creates a trace that keeps up to maxEntries steps
// in memory; 0 means unbounded.
func NewExecutionTrace(maxEntries int) *ExecutionTrace {
	return &ExecutionTrace{
		MaxEntries: maxEntries,
		entries:    make([]TraceEntry, 0, 256),
	}
}

// Record appends one step's before/after register snapshot.
func (t *ExecutionTrace) Record(seq uint64, index int, inst *parser.Instruction, before, after [parser.RegisterCount]int32) {
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, TraceEntry{
		Sequence: seq,
		Index:    index,
		Opcode:   inst.Opcode,
		Before:   before,
		After:    after,
	})
}

// Entries returns all recorded steps.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// Flush writes every entry to the trace's writer, one line per step,
// showing only the registers that changed.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		if err := t.writeEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *ExecutionTrace) writeEntry(e TraceEntry) error {
	var changes []string
	for i := 0; i < int(parser.RegisterCount); i++ {
		if e.Before[i] != e.After[i] {
			changes = append(changes, fmt.Sprintf("%s=%d", parser.RegisterID(i), e.After[i]))
		}
	}
	line := fmt.Sprintf("[%06d] #%04d %-12s", e.Sequence, e.Index, e.Opcode)
	if len(changes) > 0 {
		line += " | " + strings.Join(changes, " ")
	} else {
		line += " | (no changes)"
	}
	line += "\n"
	_, err := t.Writer.Write([]byte(line))
	return err
}
