package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/corpspeak/stratcomm/parser"
)

// TUI is the text user interface for interactive debugging, the same
// tview/tcell panel layout as the teacher's debugger.TUI but scoped
// down to this machine's state: a program view, a register view, a
// breakpoint list, an output log, and a command line — no
// memory/stack/disassembly panels,
// since there is no addressable memory to show.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	ProgramView     *tview.TextView
	RegisterView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI wraps d in an interactive terminal interface.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.ProgramView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.ProgramView.SetBorder(true).SetTitle(" Program ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
	t.CommandInput.SetInputCapture(t.handleHistoryKeys)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.ProgramView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

// handleHistoryKeys lets the Up/Down arrows recall previous command
// lines into the input field, the same history-navigation binding a
// shell gives its own prompt.
func (t *TUI) handleHistoryKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		if cmd := t.Debugger.History.Previous(); cmd != "" {
			t.CommandInput.SetText(cmd)
		}
		return nil
	case tcell.KeyDown:
		t.CommandInput.SetText(t.Debugger.History.Next())
		return nil
	}
	return event
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output log, scrolled to the bottom.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current debugger/VM state.
func (t *TUI) RefreshAll() {
	t.updateProgramView()
	t.updateRegisterView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateProgramView() {
	t.ProgramView.Clear()
	pc := t.Debugger.VM.PC
	start := pc - 10
	if start < 0 {
		start = 0
	}
	end := pc + 20
	if end > len(t.Debugger.Program.Instructions) {
		end = len(t.Debugger.Program.Instructions)
	}
	for i := start; i < end; i++ {
		marker, color := "  ", "white"
		if i == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.At(i) != nil {
			marker = "* "
		}
		inst := t.Debugger.Program.Instructions[i]
		fmt.Fprintf(t.ProgramView, "[%s]%s #%04d %s[white]\n", color, marker, i, inst.Opcode)
	}
}

func (t *TUI) updateRegisterView() {
	t.RegisterView.Clear()
	snapshot := t.Debugger.VM.Registers.Snapshot()
	for i := 0; i < int(parser.RegisterCount); i++ {
		fmt.Fprintf(t.RegisterView, "%-26s %d\n", parser.RegisterID(i), snapshot[i])
	}
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	for _, bp := range t.Debugger.Breakpoints.All() {
		fmt.Fprintf(t.BreakpointsView, "#%-3d at #%04d (hits: %d)\n", bp.ID, bp.Index, bp.HitCount)
	}
}

// Run starts the interactive event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
