package vm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corpspeak/stratcomm/parser"
)

// PerformanceStatistics tracks instruction-level execution counts, the
// same role as the teacher's vm/statistics.go but scoped down to what
// this machine actually has: no branch-prediction or memory-access
// metrics, since there are no addressable memory or conditional
// branches with a "missed" outcome distinct from "not taken".
type PerformanceStatistics struct {
	TotalInstructions uint64
	OpcodeCounts      map[parser.Opcode]uint64
	JumpsTaken        uint64
	JumpsNotTaken     uint64
}

// NewPerformanceStatistics returns an empty counter set.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{
		OpcodeCounts: make(map[parser.Opcode]uint64),
	}
}

// Record tallies one executed instruction.
func (s *PerformanceStatistics) Record(op parser.Opcode) {
	s.TotalInstructions++
	s.OpcodeCounts[op]++
}

// RecordJump tallies a jump's outcome. Unconditional jumps always count
// as taken.
func (s *PerformanceStatistics) RecordJump(taken bool) {
	if taken {
		s.JumpsTaken++
	} else {
		s.JumpsNotTaken++
	}
}

type opcodeCount struct {
	Opcode parser.Opcode
	Count  uint64
}

// TopOpcodes returns the n most frequently executed opcodes, most
// frequent first. n <= 0 returns all of them.
func (s *PerformanceStatistics) TopOpcodes(n int) []opcodeCount {
	counts := make([]opcodeCount, 0, len(s.OpcodeCounts))
	for op, c := range s.OpcodeCounts {
		counts = append(counts, opcodeCount{Opcode: op, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Opcode < counts[j].Opcode
	})
	if n > 0 && n < len(counts) {
		return counts[:n]
	}
	return counts
}

// String renders a human-readable summary, in the same spirit as the
// teacher's PerformanceStatistics.String().
func (s *PerformanceStatistics) String() string {
	var sb strings.Builder
	sb.WriteString("Execution Statistics\n")
	sb.WriteString("=====================\n\n")
	sb.WriteString(fmt.Sprintf("Total Instructions: %d\n", s.TotalInstructions))
	sb.WriteString(fmt.Sprintf("Jumps Taken:        %d\n", s.JumpsTaken))
	sb.WriteString(fmt.Sprintf("Jumps Not Taken:    %d\n\n", s.JumpsNotTaken))
	sb.WriteString("Opcode Breakdown:\n")
	for _, oc := range s.TopOpcodes(0) {
		pct := float64(oc.Count) / float64(s.TotalInstructions) * 100
		sb.WriteString(fmt.Sprintf("  %-20s %8d (%.1f%%)\n", oc.Opcode, oc.Count, pct))
	}
	return sb.String()
}
