// Package tui is the live terminal viewer over a running simulator: it
// renders active groups, memory-register state, and DISPLAY-declared
// counters/timers, and refreshes after each step or run command (a run
// refreshes once, when it stops).
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/arrowslasharrow/tasm/sim"
)

// Viewer is the text user interface for a running simulator.
type Viewer struct {
	Sim *sim.Simulator
	App *tview.Application

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView    *tview.TextView
	GroupsView    *tview.TextView
	DisplayedView *tview.TextView
	MemoryView    *tview.TextView
	OutputView    *tview.TextView
	CommandInput  *tview.InputField

	SourceLines []string
}

// NewViewer builds a Viewer over a live simulator. source is the raw
// tasm program text, shown as-is in the Source panel (tasm has no
// address-keyed source map to walk the way ARM's PC does).
func NewViewer(machine *sim.Simulator, source string) *Viewer {
	v := &Viewer{
		Sim:         machine,
		App:         tview.NewApplication(),
		SourceLines: strings.Split(source, "\n"),
	}

	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()

	return v
}

func (v *Viewer) initializeViews() {
	v.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.SourceView.SetBorder(true).SetTitle(" Source ")
	v.SourceView.SetText(strings.Join(v.SourceLines, "\n"))

	v.GroupsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.GroupsView.SetBorder(true).SetTitle(" Active Groups ")

	v.DisplayedView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.DisplayedView.SetBorder(true).SetTitle(" Displayed ")

	v.MemoryView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.MemoryView.SetBorder(true).SetTitle(" Memory ")

	v.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	v.OutputView.SetBorder(true).SetTitle(" Output ")

	v.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	v.CommandInput.SetBorder(true).SetTitle(" Command ")
	v.CommandInput.SetDoneFunc(v.handleCommand)
}

func (v *Viewer) buildLayout() {
	v.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.SourceView, 0, 3, false).
		AddItem(v.GroupsView, 0, 2, false)

	v.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.DisplayedView, 0, 1, false).
		AddItem(v.MemoryView, 0, 2, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.LeftPanel, 0, 2, false).
		AddItem(v.RightPanel, 0, 1, false)

	v.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(v.OutputView, 8, 0, false).
		AddItem(v.CommandInput, 3, 0, true)
}

func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			v.executeCommand("run")
			return nil
		case tcell.KeyF11:
			v.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			v.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			v.RefreshAll()
			return nil
		}
		return event
	})
}

func (v *Viewer) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := v.CommandInput.GetText()
		if cmd != "" {
			v.executeCommand(cmd)
			v.CommandInput.SetText("")
		}
	}
}

// executeCommand runs one viewer command: "step" advances one tick,
// "run" steps until halted or errored, "quit" stops the application.
func (v *Viewer) executeCommand(cmd string) {
	switch strings.TrimSpace(cmd) {
	case "step":
		if err := v.Sim.Step(); err != nil {
			v.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
		}
	case "run":
		if err := v.Sim.Run(0); err != nil {
			v.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
		}
	case "quit":
		v.App.Stop()
		return
	default:
		v.WriteOutput(fmt.Sprintf("[yellow]Unknown command:[white] %s\n", cmd))
	}
	v.RefreshAll()
}

// WriteOutput appends a line to the output panel.
func (v *Viewer) WriteOutput(text string) {
	_, _ = v.OutputView.Write([]byte(text))
	v.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from the simulator's current snapshot.
func (v *Viewer) RefreshAll() {
	snap := v.Sim.Snapshot()
	v.updateGroupsView(snap)
	v.updateDisplayedView(snap)
	v.updateMemoryView(snap)
	v.App.Draw()
}

func (v *Viewer) updateGroupsView(snap sim.Snapshot) {
	v.GroupsView.Clear()

	lines := []string{fmt.Sprintf("[yellow]Tick: %d  State: %s[white]", snap.Tick, snap.State)}
	for _, ag := range snap.ActiveGroups {
		marker := "  "
		if ag.Wait > 0 {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("%s%-4d %-16s idx=%-4d wait=%d", marker, ag.Group, ag.Ident, ag.Idx, ag.Wait))
	}
	if snap.BreakpointHit {
		lines = append(lines, "", "[red]breakpoint hit[white]")
	}

	v.GroupsView.SetText(strings.Join(lines, "\n"))
}

func (v *Viewer) updateDisplayedView(snap sim.Snapshot) {
	v.DisplayedView.Clear()

	var lines []string
	for _, dv := range snap.Displayed {
		if dv.IsTimer {
			lines = append(lines, fmt.Sprintf("%-20s %.2f", dv.Label, dv.Float))
		} else {
			lines = append(lines, fmt.Sprintf("%-20s %d", dv.Label, dv.Int))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]No DISPLAY declarations[white]")
	}

	v.DisplayedView.SetText(strings.Join(lines, "\n"))
}

func (v *Viewer) updateMemoryView(snap sim.Snapshot) {
	v.MemoryView.Clear()

	if snap.MemorySize == 0 {
		v.MemoryView.SetText("[yellow]No memory region allocated[white]")
		return
	}

	lines := []string{
		fmt.Sprintf("[yellow]start=%d size=%d mode=%s ptr=%d memreg=%d[white]",
			snap.MemoryStart, snap.MemorySize, snap.MemoryMode, snap.PtrPos, snap.MemRegValue),
	}
	const perRow = 8
	for row := int32(0); row*perRow < snap.MemorySize; row++ {
		var cells []string
		for col := int32(0); col < perRow && row*perRow+col < snap.MemorySize; col++ {
			idx := row*perRow + col
			marker := " "
			if idx == snap.PtrPos {
				marker = ">"
			}
			cells = append(cells, fmt.Sprintf("%s%.2f", marker, v.Sim.MemoryCell(idx)))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	v.MemoryView.SetText(strings.Join(lines, "\n"))
}

// Run starts the viewer application; it blocks until Stop or Ctrl+C.
func (v *Viewer) Run() error {
	v.RefreshAll()
	v.WriteOutput("[green]tasm simulator viewer[white]\n")
	v.WriteOutput("Press F11 to step, F5 to run to completion, Ctrl+C to quit\n\n")

	return v.App.SetRoot(v.MainLayout, true).SetFocus(v.CommandInput).Run()
}

// Stop stops the viewer application.
func (v *Viewer) Stop() {
	v.App.Stop()
}
