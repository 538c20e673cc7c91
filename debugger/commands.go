package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corpspeak/stratcomm/parser"
	"github.com/corpspeak/stratcomm/vm"
)

func (d *Debugger) cmdRun(args []string) error {
	d.VM.Registers.Reset()
	d.VM.PC = 0
	d.VM.Cycles = 0
	d.VM.State = vm.StateRunning
	d.Running = true
	d.Println("Starting program execution...")
	return d.runUntilStop()
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.VM.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}
	d.VM.State = vm.StateRunning
	d.Running = true
	d.Println("Continuing...")
	// Step past whatever instruction is at the current PC first, so
	// resuming from a just-hit breakpoint doesn't immediately re-trap
	// on the same spot without making progress.
	if err := d.VM.Step(); err != nil {
		d.Running = false
		return err
	}
	return d.runUntilStop()
}

func (d *Debugger) cmdStep(args []string) error {
	if d.VM.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}
	if err := d.VM.Step(); err != nil {
		return err
	}
	d.Printf("stopped at #%d\n", d.VM.PC)
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <label|index>")
	}
	index, err := d.ResolveIndex(strings.Join(args, " "))
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(index)
	d.Printf("Breakpoint %d at #%d\n", bp.ID, index)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.Delete(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 || args[0] != "registers" {
		return fmt.Errorf("usage: info registers")
	}
	snapshot := d.VM.Registers.Snapshot()
	for i := 0; i < int(parser.RegisterCount); i++ {
		d.Printf("%-26s = %d\n", parser.RegisterID(i), snapshot[i])
	}
	d.Printf("PC = #%d, cycles = %d, state = %v\n", d.VM.PC, d.VM.Cycles, d.VM.State)
	return nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register>")
	}
	reg, ok := parser.LookupRegister(strings.Join(args, " "))
	if !ok {
		return fmt.Errorf("unknown register: %s", strings.Join(args, " "))
	}
	d.Printf("%s = %d\n", reg, d.VM.Registers.Get(reg))
	return nil
}

func (d *Debugger) cmdList(args []string) error {
	start := d.VM.PC - 3
	if start < 0 {
		start = 0
	}
	end := d.VM.PC + 4
	if end > len(d.Program.Instructions) {
		end = len(d.Program.Instructions)
	}
	for i := start; i < end; i++ {
		marker := "  "
		if i == d.VM.PC {
			marker = "->"
		}
		inst := d.Program.Instructions[i]
		d.Printf("%s #%04d %s\n", marker, i, inst.Opcode)
	}
	return nil
}

func (d *Debugger) cmdHistory(args []string) error {
	all := d.History.GetAll()
	d.Printf("%d command(s) in history:\n", d.History.Size())
	for i, cmd := range all {
		d.Printf("  %3d  %s\n", i+1, cmd)
	}
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Available commands:")
	d.Println("  run, r              restart execution from instruction 0")
	d.Println("  continue, c         resume a stopped program")
	d.Println("  step, s             execute one instruction")
	d.Println("  break, b <label>    set a breakpoint on a label or index")
	d.Println("  delete, d <id>      delete a breakpoint")
	d.Println("  info, i registers   show all register values")
	d.Println("  print, p <register> show one register's value")
	d.Println("  list, l             show instructions around the program counter")
	d.Println("  history             show past commands")
	d.Println("  help, h, ?          show this message")
	return nil
}
