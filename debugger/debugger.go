package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corpspeak/stratcomm/parser"
	"github.com/corpspeak/stratcomm/vm"
)

// Debugger wraps a VM with breakpoints, command history, and a
// line-oriented command interpreter, the same shape as the teacher's
// Debugger minus watchpoints and the expression evaluator — this
// language has no addressable memory or call stack for those to watch.
type Debugger struct {
	VM          *vm.VM
	Program     *parser.Program
	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running     bool
	LastCommand string

	Output strings.Builder
}

// NewDebugger wraps machine for interactive or scripted stepping.
func NewDebugger(machine *vm.VM, program *parser.Program, historySize int) *Debugger {
	return &Debugger{
		VM:          machine,
		Program:     program,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(historySize),
	}
}

// ResolveIndex resolves a breakpoint target: a label name or a literal
// instruction index.
func (d *Debugger) ResolveIndex(target string) (int, error) {
	if sym, ok := d.Program.Symbols.Lookup(strings.ToLower(target)); ok {
		return sym.Index, nil
	}
	idx, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("unknown label or instruction index: %s", target)
	}
	return idx, nil
}

// ExecuteCommand parses and dispatches one command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "list", "l":
		return d.cmdList(args)
	case "history":
		return d.cmdHistory(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause before running
// the instruction at the VM's current PC.
func (d *Debugger) ShouldBreak() (bool, string) {
	if bp, hit := d.Breakpoints.Hit(d.VM.PC); hit {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}
	return false, ""
}

// runUntilStop drives the VM with Step, the way the teacher's debugger
// run loop does, pausing before any instruction that ShouldBreak flags
// and stopping on halt or a runtime fault. cmdRun and cmdContinue both
// delegate here instead of dispatching a single step and leaving the
// machine parked.
func (d *Debugger) runUntilStop() error {
	for d.VM.State == vm.StateRunning {
		if stop, reason := d.ShouldBreak(); stop {
			d.Printf("Stopped at #%d (%s)\n", d.VM.PC, reason)
			d.Running = false
			return nil
		}
		if err := d.VM.Step(); err != nil {
			d.Running = false
			return err
		}
	}

	d.Running = false
	switch d.VM.State {
	case vm.StateHalted:
		d.Printf("Program halted after %d cycles\n", d.VM.Cycles)
	case vm.StateError:
		d.Printf("Program faulted: %v\n", d.VM.LastError)
	}
	return nil
}

// GetOutput drains and returns everything written to Output so far.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
