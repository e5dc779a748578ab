package compiler

import (
	"testing"

	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/diag"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/object"
)

func testConfig() config.Config {
	return *config.DefaultConfig()
}

func compileSource(t *testing.T, src string) ([]object.Object, diag.Diagnostics) {
	t.Helper()
	ns, diags := lexer.Lex(src, testConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", diags.Error())
	}
	var sink object.SliceSink
	compileDiags := NewDriver(testConfig()).Compile(ns, &sink)
	return sink.Objects, compileDiags
}

func TestCompileSimpleCountsEmitsObjects(t *testing.T) {
	src := "_start:\n  ADD C1, 1\n  SL _start, C1, 10\n"
	objs, diags := compileSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", diags.Error())
	}
	if len(objs) == 0 {
		t.Fatal("expected at least one emitted object")
	}

	var sawItemEdit, sawSpawn bool
	for _, o := range objs {
		switch o.Kind {
		case object.ItemEditTrigger:
			sawItemEdit = true
		case object.SpawnTrigger:
			sawSpawn = true
		}
	}
	if !sawItemEdit {
		t.Error("expected an ItemEditTrigger from ADD")
	}
	if !sawSpawn {
		t.Error("expected a SpawnTrigger from SL or the implicit IOBLOCK")
	}
}

func TestCompileImplicitIOBlock(t *testing.T) {
	src := "_start:\n  NOP\n"
	objs, diags := compileSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", diags.Error())
	}

	found := false
	for _, o := range objs {
		if o.Kind == object.SpawnTrigger && o.Spawnable && len(o.Groups) == 1 && o.Groups[0] == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected an implicit IOBLOCK spawn object targeting _start's group")
	}
}

func TestCompileMallocSynthesizesMemoryLattice(t *testing.T) {
	src := "_init:\n  MALLOC 3\n  INITMEM 1, 2, 3\n_start:\n  MPTR 1\n  MREAD\n"
	objs, diags := compileSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", diags.Error())
	}

	var blocks, collisions, itemEdits, displays, instants int
	for _, o := range objs {
		switch o.Kind {
		case object.Block:
			blocks++
		case object.CollisionTrigger:
			collisions++
		case object.ItemEditTrigger:
			itemEdits++
		case object.CounterDisplay:
			displays++
		case object.InstantCountTrigger:
			instants++
		}
	}

	// 2 fixed blocks (reset target + pointer) + 3 per-cell blocks = 5
	if blocks != 5 {
		t.Errorf("expected 5 blocks, got %d", blocks)
	}
	if collisions != 3 {
		t.Errorf("expected 3 collision triggers (one per cell), got %d", collisions)
	}
	if itemEdits != 6 {
		t.Errorf("expected 6 item-edit triggers (read+write per cell), got %d", itemEdits)
	}
	if instants != 3 {
		t.Errorf("expected 3 INITMEM instant-count triggers, got %d", instants)
	}
	if displays == 0 {
		t.Error("expected at least one counter display for the memory lattice")
	}
}

func TestCompileMemoryBeforeMallocIsError(t *testing.T) {
	ns, lexDiags := lexer.Lex("_start:\n  MFUNC\n", testConfig())
	if lexDiags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexDiags.Error())
	}
	diags := NewDriver(testConfig()).Compile(ns, &object.SliceSink{})
	if !diags.HasErrors() {
		t.Fatal("expected NonexistentMemoryAccess diagnostic")
	}
	if diags.Items[0].Kind != diag.NonexistentMemoryAccess {
		t.Errorf("expected NonexistentMemoryAccess, got %s", diags.Items[0].Kind)
	}
}

func TestCompileSecondMallocIsError(t *testing.T) {
	src := "_init:\n  MALLOC 1\n  MALLOC 1\n_start:\n  NOP\n"
	ns, lexDiags := lexer.Lex(src, testConfig())
	if lexDiags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexDiags.Error())
	}
	diags := NewDriver(testConfig()).Compile(ns, &object.SliceSink{})
	if !diags.HasErrors() {
		t.Fatal("expected MultipleMemoryInstances diagnostic")
	}
	if diags.Items[0].Kind != diag.MultipleMemoryInstances {
		t.Errorf("expected MultipleMemoryInstances, got %s", diags.Items[0].Kind)
	}
}

func TestCompileExceedsGroupLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Compiler.GroupLimit = 2
	src := "_init:\n  MALLOC 50\n_start:\n  NOP\n"
	ns, lexDiags := lexer.Lex(src, cfg)
	if lexDiags.HasErrors() {
		t.Fatalf("unexpected lex errors: %v", lexDiags.Error())
	}
	diags := NewDriver(cfg).Compile(ns, &object.SliceSink{})
	if !diags.HasErrors() {
		t.Fatal("expected ExceedsGroupLimit diagnostic")
	}
	found := false
	for _, item := range diags.Items {
		if item.Kind == diag.ExceedsGroupLimit {
			found = true
		}
	}
	if !found {
		t.Error("expected an ExceedsGroupLimit diagnostic among the findings")
	}
}

func TestCompileForkBranchEmitsTwoSpawns(t *testing.T) {
	src := "_start:\n  FE yes, no, C1, 3\nyes:\n  NOP\nno:\n  NOP\n"
	objs, diags := compileSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", diags.Error())
	}

	count := 0
	for _, o := range objs {
		if o.Kind == object.SpawnTrigger && o.ItemA != 0 {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 fork-branch spawn triggers tied to C1, got %d", count)
	}
}

func TestCompileInitObjectsPlacedAtNegativeX(t *testing.T) {
	src := "_init:\n  DISPLAY C1\n_start:\n  NOP\n"
	objs, diags := compileSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", diags.Error())
	}

	found := false
	for _, o := range objs {
		if o.Kind == object.CounterDisplay && o.TargetGroup == 1 {
			if o.X >= 0 {
				t.Errorf("expected _init's DISPLAY object at negative x, got %v", o.X)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("expected a CounterDisplay object for _init's DISPLAY C1")
	}
}
