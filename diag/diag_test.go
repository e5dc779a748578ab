package diag

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{"with filename", Position{Filename: "prog.tasm", Line: 12}, "prog.tasm:12"},
		{"without filename", Position{Line: 3}, "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if got := InvalidInstruction.String(); got != "InvalidInstruction" {
		t.Errorf("InvalidInstruction.String() = %q", got)
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Errorf("unknown kind String() = %q", got)
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics

	if d.HasErrors() {
		t.Fatal("expected no errors on empty Diagnostics")
	}

	d.Add(New(Position{Line: 1}, BadToken, "bad mnemonic"))
	d.Addf(Position{Line: 2}, InvalidArguments, "expected %d args, got %d", 2, 1)

	if !d.HasErrors() {
		t.Fatal("expected errors after Add")
	}
	if len(d.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(d.Items))
	}
	if d.Items[1].Message != "expected 2 args, got 1" {
		t.Errorf("Addf message = %q", d.Items[1].Message)
	}
}

func TestDiagnosticsMerge(t *testing.T) {
	var a, b Diagnostics
	a.Add(New(Position{Line: 1}, BadToken, "one"))
	b.Add(New(Position{Line: 2}, BadToken, "two"))

	a.Merge(&b)

	if len(a.Items) != 2 {
		t.Fatalf("expected 2 items after merge, got %d", len(a.Items))
	}

	// Merge of nil is a no-op, not a panic.
	a.Merge(nil)
	if len(a.Items) != 2 {
		t.Fatalf("expected merge(nil) to be a no-op, got %d items", len(a.Items))
	}
}

func TestDiagnosticErrorRendersContext(t *testing.T) {
	d := NewWithContext(Position{Filename: "f.tasm", Line: 5}, NoEntryPoint, "no _start routine", "_init: MALLOC 1")

	got := d.Error()
	want := "f.tasm:5: NoEntryPoint: no _start routine\n    _init: MALLOC 1\n"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
