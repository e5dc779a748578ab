package tui

import (
	"strings"
	"testing"

	"github.com/arrowslasharrow/tasm/compiler"
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/namespace"
	"github.com/arrowslasharrow/tasm/object"
	"github.com/arrowslasharrow/tasm/sim"
)

func buildTestSimulator(t *testing.T, src string) *sim.Simulator {
	t.Helper()

	cfg := *config.DefaultConfig()
	ns, diags := lexer.Lex(src, cfg)
	if diags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", diags.Error())
	}
	if compileDiags := compiler.NewDriver(cfg).Compile(ns, &object.SliceSink{}); compileDiags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", compileDiags.Error())
	}

	machine, err := sim.NewSimulator(namespace.FromCompiled(ns), cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return machine
}

func TestNewViewerInitializesPanels(t *testing.T) {
	src := "_start:\n  NOP\n"
	v := NewViewer(buildTestSimulator(t, src), src)

	if v.SourceView == nil || v.GroupsView == nil || v.DisplayedView == nil ||
		v.MemoryView == nil || v.OutputView == nil || v.CommandInput == nil {
		t.Fatal("expected every panel to be initialized")
	}
	if !strings.Contains(v.SourceView.GetText(false), "_start:") {
		t.Error("expected source view to contain the loaded program text")
	}
}

func TestUpdateGroupsViewShowsActiveGroup(t *testing.T) {
	src := "_start:\n  ADD C1, 1\n  SL _start, C1, 3\n"
	machine := buildTestSimulator(t, src)
	v := NewViewer(machine, src)

	v.updateGroupsView(machine.Snapshot())
	text := v.GroupsView.GetText(true)
	if !strings.Contains(text, "_start") {
		t.Errorf("expected groups view to list _start, got %q", text)
	}
}

func TestUpdateDisplayedViewShowsDeclaredCounter(t *testing.T) {
	src := "_init:\n  DISPLAY C1\n_start:\n  ADD C1, 7\n"
	machine := buildTestSimulator(t, src)
	if err := machine.Run(5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v := NewViewer(machine, src)

	v.updateDisplayedView(machine.Snapshot())
	text := v.DisplayedView.GetText(true)
	if !strings.Contains(text, "7") {
		t.Errorf("expected displayed view to show C1's value 7, got %q", text)
	}
}

func TestUpdateMemoryViewReflectsAllocatedCells(t *testing.T) {
	src := "_init:\n  MALLOC 2\n  INITMEM 5, 9\n_start:\n  NOP\n"
	machine := buildTestSimulator(t, src)
	v := NewViewer(machine, src)

	v.updateMemoryView(machine.Snapshot())
	text := v.MemoryView.GetText(true)
	if !strings.Contains(text, "5.00") || !strings.Contains(text, "9.00") {
		t.Errorf("expected memory view to show seeded cells [5,9], got %q", text)
	}
}

func TestUpdateMemoryViewHandlesNoAllocation(t *testing.T) {
	src := "_start:\n  NOP\n"
	machine := buildTestSimulator(t, src)
	v := NewViewer(machine, src)

	v.updateMemoryView(machine.Snapshot())
	text := v.MemoryView.GetText(true)
	if !strings.Contains(text, "No memory region allocated") {
		t.Errorf("expected a no-allocation message, got %q", text)
	}
}
