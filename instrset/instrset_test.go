package instrset

import (
	"testing"

	"github.com/arrowslasharrow/tasm/tasmval"
)

func TestLookupKnownMnemonic(t *testing.T) {
	spec, ok := Lookup("ADD")
	if !ok {
		t.Fatal("expected ADD to be found")
	}
	if spec.Kind != Arithmetic {
		t.Errorf("expected ADD kind Arithmetic, got %v", spec.Kind)
	}
	if spec.InitOnly {
		t.Error("ADD should not be init-only")
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("FROB"); ok {
		t.Error("expected FROB to be unrecognized")
	}
}

func TestMallocIsInitOnly(t *testing.T) {
	spec, ok := Lookup("MALLOC")
	if !ok {
		t.Fatal("expected MALLOC to be found")
	}
	if !spec.InitOnly {
		t.Error("expected MALLOC to be init-only")
	}
	if spec.Kind != Init {
		t.Errorf("expected MALLOC kind Init, got %v", spec.Kind)
	}

	if _, ok := spec.Match([]tasmval.Value{tasmval.Number(5)}); !ok {
		t.Error("expected MALLOC to match a single Int argument")
	}
	if _, ok := spec.Match([]tasmval.Value{tasmval.Number(5.5)}); ok {
		t.Error("expected MALLOC to reject a non-integral Number")
	}
}

func TestArithmeticSignatureShapes(t *testing.T) {
	spec, _ := Lookup("ADD")

	cases := []struct {
		name string
		args []tasmval.Value
		want bool
	}{
		{"item,item", []tasmval.Value{tasmval.Counter(1), tasmval.Counter(2)}, true},
		{"item,number", []tasmval.Value{tasmval.Counter(1), tasmval.Number(5)}, true},
		{"item,item,item", []tasmval.Value{tasmval.Counter(1), tasmval.Counter(2), tasmval.Counter(3)}, true},
		{"item,item,number", []tasmval.Value{tasmval.Counter(1), tasmval.Counter(2), tasmval.Number(5)}, true},
		{"wrong arity", []tasmval.Value{tasmval.Counter(1), tasmval.Counter(2), tasmval.Counter(3), tasmval.Counter(4)}, false},
		{"group arg rejected", []tasmval.Value{tasmval.Group(1), tasmval.Number(5)}, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := spec.Match(tt.args)
			if ok != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.args, ok, tt.want)
			}
		})
	}
}

func TestSpawnerComparisonSignatures(t *testing.T) {
	se, _ := Lookup("SE")
	if _, ok := se.Match([]tasmval.Value{tasmval.Group(1), tasmval.Counter(1), tasmval.Number(3)}); !ok {
		t.Error("expected SE (group, item, number) to match")
	}

	fe, _ := Lookup("FE")
	if _, ok := fe.Match([]tasmval.Value{tasmval.Group(1), tasmval.Group(2), tasmval.Counter(1), tasmval.Number(3)}); !ok {
		t.Error("expected FE (group, group, item, number) to match")
	}
}

func TestNoArgMnemonics(t *testing.T) {
	for _, mnemonic := range []string{"MFUNC", "MREAD", "MWRITE", "MRESET", "NOP", "BREAKPOINT"} {
		spec, ok := Lookup(mnemonic)
		if !ok {
			t.Fatalf("expected %s to be found", mnemonic)
		}
		if _, ok := spec.Match(nil); !ok {
			t.Errorf("expected %s to match zero arguments", mnemonic)
		}
		if _, ok := spec.Match([]tasmval.Value{tasmval.Number(1)}); ok {
			t.Errorf("expected %s to reject a spurious argument", mnemonic)
		}
	}
}

func TestInitmemAcceptsNumberList(t *testing.T) {
	spec, _ := Lookup("INITMEM")
	if _, ok := spec.Match([]tasmval.Value{tasmval.Number(1), tasmval.Number(2), tasmval.Number(3)}); !ok {
		t.Error("expected INITMEM to match a list of numbers")
	}
	if _, ok := spec.Match(nil); !ok {
		t.Error("expected INITMEM to match an empty list")
	}
	if _, ok := spec.Match([]tasmval.Value{tasmval.Str("x")}); ok {
		t.Error("expected INITMEM to reject a string argument")
	}
}

func TestKindString(t *testing.T) {
	if Arithmetic.String() != "Arithmetic" {
		t.Errorf("Arithmetic.String() = %q", Arithmetic.String())
	}
	if Kind(99).String() != "Unknown" {
		t.Errorf("unknown kind String() = %q", Kind(99).String())
	}
}
