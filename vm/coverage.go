package vm

import (
	"fmt"
	"sort"
	"strings"
)

// coverageEntry tracks how many times one instruction index executed.
type coverageEntry struct {
	Index          int
	ExecutionCount uint64
	FirstCycle     uint64
	LastCycle      uint64
}

// CodeCoverage tracks which instruction indices have executed, the same
// role as the teacher's vm/coverage.go but keyed on instruction index
// rather than memory address, since this machine has no address space.
type CodeCoverage struct {
	ProgramLength int

	executed map[int]*coverageEntry
	cycle    uint64
}

// NewCodeCoverage returns a tracker for a program with the given
// instruction count.
func NewCodeCoverage(programLength int) *CodeCoverage {
	return &CodeCoverage{
		ProgramLength: programLength,
		executed:      make(map[int]*coverageEntry),
	}
}

// Mark records that instruction index executed on this cycle.
func (c *CodeCoverage) Mark(index int) {
	c.cycle++
	if entry, ok := c.executed[index]; ok {
		entry.ExecutionCount++
		entry.LastCycle = c.cycle
		return
	}
	c.executed[index] = &coverageEntry{
		Index:          index,
		ExecutionCount: 1,
		FirstCycle:     c.cycle,
		LastCycle:      c.cycle,
	}
}

// Covered reports how many distinct instructions executed at least once.
func (c *CodeCoverage) Covered() int {
	return len(c.executed)
}

// Percentage returns the fraction of the program that executed, 0-100.
func (c *CodeCoverage) Percentage() float64 {
	if c.ProgramLength == 0 {
		return 0
	}
	return float64(c.Covered()) / float64(c.ProgramLength) * 100
}

// Unreached returns the instruction indices that never executed, in
// ascending order.
func (c *CodeCoverage) Unreached() []int {
	var missed []int
	for i := 0; i < c.ProgramLength; i++ {
		if _, ok := c.executed[i]; !ok {
			missed = append(missed, i)
		}
	}
	sort.Ints(missed)
	return missed
}

// String renders a short human-readable coverage summary.
func (c *CodeCoverage) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %d/%d instructions (%.1f%%)\n", c.Covered(), c.ProgramLength, c.Percentage()))
	if missed := c.Unreached(); len(missed) > 0 {
		strs := make([]string, len(missed))
		for i, idx := range missed {
			strs[i] = fmt.Sprintf("#%d", idx)
		}
		sb.WriteString("Unreached: " + strings.Join(strs, ", ") + "\n")
	}
	return sb.String()
}
