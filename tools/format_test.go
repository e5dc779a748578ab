package tools

import (
	"strings"
	"testing"
)

func TestFormatIndentsInstructionsAndUppercasesMnemonic(t *testing.T) {
	got := Format("_start:\n  add c1, 1\n", nil)
	want := "_start:\n  ADD c1, 1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatNormalizesOperandSpacing(t *testing.T) {
	got := Format("_start:\n  spawn  loop,5g\n", nil)
	if !strings.Contains(got, "SPAWN loop, 5g") {
		t.Errorf("expected normalized operand spacing, got %q", got)
	}
}

func TestFormatAlignsTrailingComment(t *testing.T) {
	opts := DefaultFormatOptions()
	opts.CommentColumn = 20
	got := Format("_start:\n  nop ; hello\n", opts)
	lines := strings.Split(got, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "  NOP") {
		t.Fatalf("unexpected output: %q", got)
	}
	if idx := strings.Index(lines[1], "; hello"); idx != opts.CommentColumn {
		t.Errorf("expected comment at column %d, got %d in %q", opts.CommentColumn, idx, lines[1])
	}
}

func TestFormatPreservesStandaloneCommentLines(t *testing.T) {
	got := Format("; top of file\n_start:\n  NOP\n", nil)
	if !strings.HasPrefix(got, "; top of file\n") {
		t.Errorf("expected standalone comment preserved, got %q", got)
	}
}

func TestFormatKeepsQuotedCommaIntact(t *testing.T) {
	got := Format(`_start:
  string str1, "hello, world"
`, nil)
	if !strings.Contains(got, `STRING str1, "hello, world"`) {
		t.Errorf("expected quoted string argument untouched, got %q", got)
	}
}
