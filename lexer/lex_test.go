package lexer

import (
	"testing"

	"github.com/arrowslasharrow/tasm/config"
)

func testConfig() config.Config {
	return *config.DefaultConfig()
}

func TestLexSimpleProgram(t *testing.T) {
	src := "_init:\n  MALLOC 1\n  INITMEM 7\n  DISPLAY C9997\n\n_start:\n  MPTR 0\n  MREAD\n  MFUNC\n"

	ns, diags := Lex(src, testConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Error())
	}
	if ns == nil {
		t.Fatal("expected non-nil namespace")
	}

	if len(ns.Order) != 2 || ns.Order[0] != InitRoutine || ns.Order[1] != "_start" {
		t.Fatalf("expected [_init, _start] order, got %v", ns.Order)
	}

	init := ns.Routines[InitRoutine]
	if init.Group != 0 {
		t.Errorf("expected _init group 0, got %d", init.Group)
	}
	if len(init.Instructions) != 3 {
		t.Fatalf("expected 3 init instructions, got %d", len(init.Instructions))
	}

	start := ns.Routines["_start"]
	if start.Group != 1 {
		t.Errorf("expected _start group 1, got %d", start.Group)
	}
	if len(start.Instructions) != 3 {
		t.Fatalf("expected 3 start instructions, got %d", len(start.Instructions))
	}
}

func TestLexMissingEntryPoint(t *testing.T) {
	src := "foo:\n  NOP\n"

	ns, diags := Lex(src, testConfig())
	if ns != nil {
		t.Error("expected nil namespace on missing entry point")
	}
	if !diags.HasErrors() {
		t.Fatal("expected NoEntryPoint diagnostic")
	}
}

func TestLexBadTokenHeader(t *testing.T) {
	src := "this is not a header\n  NOP\n_start:\n  NOP\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected BadToken diagnostic")
	}
}

func TestLexDuplicateRoutine(t *testing.T) {
	src := "_start:\n  NOP\n_start:\n  NOP\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected MultipleRoutineDefinitions diagnostic")
	}
}

func TestLexSpawnResolvesToGroup(t *testing.T) {
	src := "_start:\n  SPAWN other\nother:\n  NOP\n"

	ns, diags := Lex(src, testConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Error())
	}

	spawn := ns.Routines["_start"].Instructions[0]
	if spawn.Args[0].Tag().String() == "" {
		t.Fatal("expected a resolved Group arg")
	}
	if spawn.Args[0].IntID() != ns.Routines["other"].Group {
		t.Errorf("expected SPAWN target group %d, got %d", ns.Routines["other"].Group, spawn.Args[0].IntID())
	}
}

func TestLexSpawningInitIsError(t *testing.T) {
	src := "_init:\n  MALLOC 1\n_start:\n  SPAWN _init\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected InitRoutineSpawnError diagnostic")
	}
}

func TestLexMemoryInstructionInsideInitIsError(t *testing.T) {
	src := "_init:\n  MALLOC 1\n  MREAD\n_start:\n  NOP\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected InitRoutineMemoryAccess diagnostic")
	}
}

func TestLexInitOnlyOutsideInitIsError(t *testing.T) {
	src := "_start:\n  MALLOC 1\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected init-exclusive InvalidInstruction diagnostic")
	}
}

func TestLexUnrecognizedInstruction(t *testing.T) {
	src := "_start:\n  FROBNICATE C1\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected InvalidInstruction diagnostic")
	}
}

func TestLexInvalidArguments(t *testing.T) {
	src := "_start:\n  ADD C1, C2, C3, C4\n"

	_, diags := Lex(src, testConfig())
	if !diags.HasErrors() {
		t.Fatal("expected InvalidArguments diagnostic")
	}
}

func TestLexCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "_start: ; entry point\n  NOP ; no-op\n\n  NOP\n"

	ns, diags := Lex(src, testConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Error())
	}
	if len(ns.Routines["_start"].Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(ns.Routines["_start"].Instructions))
	}
}

func TestLexForkBranchSignature(t *testing.T) {
	src := "_start:\n  FE yes, no, C1, 3\nyes:\n  NOP\nno:\n  NOP\n"

	ns, diags := Lex(src, testConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Error())
	}
	fe := ns.Routines["_start"].Instructions[0]
	if fe.Mnemonic != "FE" {
		t.Fatalf("expected FE, got %s", fe.Mnemonic)
	}
	if len(fe.Args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(fe.Args))
	}
}
