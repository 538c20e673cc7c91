package vm_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/corpspeak/stratcomm/parser"
	"github.com/corpspeak/stratcomm/vm"
)

func mustProgram(t *testing.T, src string) *parser.Program {
	t.Helper()
	program, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return program
}

func newVM(t *testing.T, src, stdin string) (*vm.VM, *bytes.Buffer) {
	t.Helper()
	m := vm.NewVM(mustProgram(t, src), vm.NewDefaultRandomSource(1))
	m.Input = bufio.NewReader(strings.NewReader(stdin))
	out := &bytes.Buffer{}
	m.Output = out
	return m, out
}

func TestCrowdsourceReturnsMinusOneAtEOF(t *testing.T) {
	m, _ := newVM(t, "crowdsource assets\n", "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != -1 {
		t.Fatalf("expected -1 at EOF, got %d", got)
	}
}

func TestCrowdsourceReadsByte(t *testing.T) {
	m, _ := newVM(t, "crowdsource assets\n", "A")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != 65 {
		t.Fatalf("expected 65 ('A'), got %d", got)
	}
}

func TestDeliverWritesUTF8(t *testing.T) {
	m, out := newVM(t, "align assets with Engineering\ndeliver assets\n", "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "\x01" {
		t.Fatalf("expected byte 0x01, got %q", out.String())
	}
}

func TestDeliverRejectsNegativeValue(t *testing.T) {
	m, _ := newVM(t, "crowdsource assets\ndeliver assets\n", "")
	err := m.Run()
	if err == nil {
		t.Fatal("expected an InvalidUnicode error for crowdsource's EOF sentinel")
	}
	perr, ok := err.(*parser.Error)
	if !ok || perr.Kind != parser.ErrorInvalidUnicode {
		t.Fatalf("expected ErrorInvalidUnicode, got %v", err)
	}
}

func TestJumpIfZeroTakesOnZero(t *testing.T) {
	src := "align assets with HR\npivot assets to target\ninnovate assets\nmoving forward, target\n"
	m, _ := newVM(t, src, "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != 0 {
		t.Fatalf("expected the jump to skip the increment, got %d", got)
	}
}

func TestJumpIfNegativeTakesOnNegative(t *testing.T) {
	src := "crowdsource assets\nrestructure assets to target\ninnovate assets\nmoving forward, target\n"
	m, _ := newVM(t, src, "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != -1 {
		t.Fatalf("expected -1 (unmodified, jump taken), got %d", got)
	}
}

func TestJumpIfNegativeFallsThroughOnNonNegative(t *testing.T) {
	src := "align assets with Engineering\nrestructure assets to target\ninnovate assets\nmoving forward, target\n"
	m, _ := newVM(t, src, "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != 2 {
		t.Fatalf("expected the increment to run, got %d", got)
	}
}

func TestNegateThenIncrement(t *testing.T) {
	src := "align assets with Sales\nrevamp assets\ninnovate assets\n"
	m, _ := newVM(t, src, "")
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != -6 {
		t.Fatalf("expected -7+1=-6, got %d", got)
	}
}

func TestRandomizeUsesInjectedSource(t *testing.T) {
	program := mustProgram(t, "paradigm shift assets\n")
	m := vm.NewVM(program, &stubRandom{digit: 7})
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Registers.Get(parser.RegAssets); got != 7 {
		t.Fatalf("expected the injected digit 7, got %d", got)
	}
}

func TestCycleLimitFaults(t *testing.T) {
	m, _ := newVM(t, "moving forward, loop\ncircle back to loop\n", "")
	m.CycleLimit = 10
	err := m.Run()
	if err == nil {
		t.Fatal("expected a cycle-limit error for an infinite loop")
	}
	if m.Cycles != 10 {
		t.Fatalf("expected exactly 10 cycles to run, got %d", m.Cycles)
	}
	if m.State != vm.StateError {
		t.Fatalf("expected StateError after the cycle limit trips, got %v", m.State)
	}
}

func TestStatisticsRecordsOpcodeCounts(t *testing.T) {
	program := mustProgram(t, "innovate assets\ninnovate assets\nstreamline assets\n")
	m := vm.NewVM(program, vm.NewDefaultRandomSource(1))
	m.Statistics = vm.NewPerformanceStatistics()
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Statistics.TotalInstructions != 3 {
		t.Fatalf("expected 3 recorded instructions, got %d", m.Statistics.TotalInstructions)
	}
	if m.Statistics.OpcodeCounts[parser.OpIncrement] != 2 {
		t.Fatalf("expected 2 increments recorded, got %d", m.Statistics.OpcodeCounts[parser.OpIncrement])
	}
}

func TestStatisticsRecordsJumpOutcomes(t *testing.T) {
	src := "align assets with HR\n" +
		"pivot assets to skip\n" + // assets == 0, taken
		"innovate revenue streams\n" +
		"moving forward, skip\n" +
		"innovate assets\n" +
		"pivot assets to done\n" + // assets == 1, not taken
		"moving forward, done\n"
	program := mustProgram(t, src)
	m := vm.NewVM(program, vm.NewDefaultRandomSource(1))
	m.Statistics = vm.NewPerformanceStatistics()
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Statistics.JumpsTaken != 1 {
		t.Fatalf("expected 1 taken jump, got %d", m.Statistics.JumpsTaken)
	}
	if m.Statistics.JumpsNotTaken != 1 {
		t.Fatalf("expected 1 not-taken jump, got %d", m.Statistics.JumpsNotTaken)
	}
}

func TestCoverageTracksUnreachedInstructions(t *testing.T) {
	src := "align assets with HR\npivot assets to target\ninnovate revenue streams\nmoving forward, target\n"
	program := mustProgram(t, src)
	m := vm.NewVM(program, vm.NewDefaultRandomSource(1))
	m.Coverage = vm.NewCodeCoverage(len(program.Instructions))
	if err := m.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Coverage.Covered() != 2 {
		t.Fatalf("expected 2 instructions covered (align + pivot, skipping the increment), got %d", m.Coverage.Covered())
	}
	unreached := m.Coverage.Unreached()
	if len(unreached) != 1 || unreached[0] != 2 {
		t.Fatalf("expected instruction #2 unreached, got %v", unreached)
	}
}

type stubRandom struct {
	digit int32
}

func (s *stubRandom) NextDigit() int32 {
	return s.digit
}
