package tools

import (
	"strings"
	"testing"

	"github.com/arrowslasharrow/tasm/config"
)

func TestLintFlagsUnreachableRoutine(t *testing.T) {
	src := "_start:\n  NOP\nloop:\n  NOP\n"
	issues := LintSource(src, *config.DefaultConfig())

	found := false
	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_ROUTINE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an UNREACHABLE_ROUTINE finding, got %v", issues)
	}
}

func TestLintAllowsSpawnedRoutine(t *testing.T) {
	src := "_start:\n  SPAWN loop\nloop:\n  NOP\n"
	issues := LintSource(src, *config.DefaultConfig())

	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_ROUTINE" {
			t.Errorf("did not expect an UNREACHABLE_ROUTINE finding, got %v", issue)
		}
	}
}

func TestLintFlagsDenseRoutine(t *testing.T) {
	var src strings.Builder
	src.WriteString("_start:\n")
	for i := 0; i < instructionDensityWarnThreshold+1; i++ {
		src.WriteString("  NOP\n")
	}
	issues := LintSource(src.String(), *config.DefaultConfig())

	found := false
	for _, issue := range issues {
		if issue.Code == "DENSE_ROUTINE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a DENSE_ROUTINE finding, got %v", issues)
	}
}

func TestLintFlagsInitmemOverflow(t *testing.T) {
	src := "_init:\n  MALLOC 2\n  INITMEM 1, 2, 3\n_start:\n  NOP\n"
	issues := LintSource(src, *config.DefaultConfig())

	found := false
	for _, issue := range issues {
		if issue.Code == "INITMEM_OVERFLOW" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an INITMEM_OVERFLOW finding, got %v", issues)
	}
}

func TestLintAllowsInitmemWithinCapacity(t *testing.T) {
	src := "_init:\n  MALLOC 3\n  INITMEM 1, 2, 3\n_start:\n  NOP\n"
	issues := LintSource(src, *config.DefaultConfig())

	for _, issue := range issues {
		if issue.Code == "INITMEM_OVERFLOW" {
			t.Errorf("did not expect an INITMEM_OVERFLOW finding, got %v", issue)
		}
	}
}

func TestLintSurfacesLexErrorsAsIssues(t *testing.T) {
	issues := LintSource("_start:\n  BOGUS\n", *config.DefaultConfig())
	if len(issues) != 1 || issues[0].Code != "LEX_ERROR" {
		t.Errorf("expected a single LEX_ERROR issue, got %v", issues)
	}
}
