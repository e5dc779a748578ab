// Package tools holds source-level developer tooling that sits beside
// the compiler rather than inside it: a formatter that rewrites raw
// source text line by line, and a linter that operates on a lexed
// *lexer.Namespace so it sees exactly the resolved program the compiler
// would see.
package tools

import (
	"fmt"
	"sort"

	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/tasmval"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError   LintLevel = iota // would also be rejected by the lexer/compiler
	LintWarning                  // compiles, but is very likely a mistake
	LintInfo                     // style suggestion
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, keyed to the source line the lexer
// recorded on the offending instruction.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which checks run.
type LintOptions struct {
	CheckUnreachable bool // routines that no spawner instruction anywhere targets (not a transitive walk from _start/_init)
	CheckGroupLimit  bool // routine instruction count approaching the group's row budget
	CheckInitmem     bool // INITMEM given more values than the preceding MALLOC/FMALLOC allocated
}

// DefaultLintOptions returns every check enabled.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnreachable: true,
		CheckGroupLimit:  true,
		CheckInitmem:     true,
	}
}

// Linter analyzes a resolved namespace for likely mistakes the lexer's
// own grammar checks don't catch.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
}

// NewLinter creates a Linter with the given options (nil for defaults).
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options}
}

// Lint analyzes an already-lexed namespace and returns every finding,
// sorted by source line.
func (l *Linter) Lint(ns *lexer.Namespace) []*LintIssue {
	l.issues = l.issues[:0]

	if l.options.CheckUnreachable {
		l.checkUnreachableRoutines(ns)
	}
	if l.options.CheckGroupLimit {
		l.checkInstructionDensity(ns)
	}
	if l.options.CheckInitmem {
		l.checkInitmemOverflow(ns)
	}

	sort.Slice(l.issues, func(i, j int) bool { return l.issues[i].Line < l.issues[j].Line })
	return l.issues
}

// checkUnreachableRoutines flags any routine (other than _init and
// _start, the two entry points) that no SPAWN-kind instruction ever
// targets by group.
func (l *Linter) checkUnreachableRoutines(ns *lexer.Namespace) {
	reachable := map[int16]bool{}
	for _, routine := range ns.Routines {
		for _, instr := range routine.Instructions {
			if instr.Kind != instrset.Spawner {
				continue
			}
			for _, arg := range instr.Args {
				if arg.Tag() == tasmval.TagGroup {
					reachable[arg.IntID()] = true
				}
			}
		}
	}

	for _, ident := range ns.Order {
		if ident == lexer.InitRoutine || ident == lexer.EntryPoint {
			continue
		}
		routine := ns.Routines[ident]
		if !reachable[routine.Group] {
			line := 0
			if len(routine.Instructions) > 0 {
				line = routine.Instructions[0].SourceLine
			}
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    line,
				Message: fmt.Sprintf("routine %q is never reached by SPAWN or FORK", ident),
				Code:    "UNREACHABLE_ROUTINE",
			})
		}
	}
}

// checkInstructionDensity warns when a routine's instruction count is
// large enough that its placement row is likely to collide with the
// next group's row under the compiler's fixed 30-unit row spacing.
const instructionDensityWarnThreshold = 25

func (l *Linter) checkInstructionDensity(ns *lexer.Namespace) {
	for _, ident := range ns.Order {
		routine := ns.Routines[ident]
		if len(routine.Instructions) > instructionDensityWarnThreshold {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintInfo,
				Line:    routine.Instructions[0].SourceLine,
				Message: fmt.Sprintf("routine %q has %d instructions, consider splitting it", ident, len(routine.Instructions)),
				Code:    "DENSE_ROUTINE",
			})
		}
	}
}

// checkInitmemOverflow flags an INITMEM given more values than the
// nearest preceding MALLOC/FMALLOC in _init allocated. The compiler
// silently drops the excess (compiler.initmemHandler), while the
// simulator's own init pass rejects it outright
// (sim.Simulator.processInit) — this check surfaces the mismatch
// before either of them sees it.
func (l *Linter) checkInitmemOverflow(ns *lexer.Namespace) {
	init, ok := ns.Routines[lexer.InitRoutine]
	if !ok {
		return
	}

	var allocated int
	haveAlloc := false
	for _, instr := range init.Instructions {
		switch instr.Mnemonic {
		case "MALLOC", "FMALLOC":
			allocated = int(instr.Args[0].NumberValue())
			haveAlloc = true
		case "INITMEM":
			if haveAlloc && len(instr.Args) > allocated {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Line:    instr.SourceLine,
					Message: fmt.Sprintf("INITMEM given %d values but only %d cells were allocated; the rest will be silently dropped", len(instr.Args), allocated),
					Code:    "INITMEM_OVERFLOW",
				})
			}
		}
	}
}

// LintSource lexes source and lints the result in one call; lexer
// diagnostics are surfaced together as a single LintError issue on line 0 rather than
// silently discarded, since a linter that can't see past a lex failure
// still owes the caller that much.
func LintSource(source string, cfg config.Config) []*LintIssue {
	ns, diags := lexer.Lex(source, cfg)
	if diags.HasErrors() {
		issues := make([]*LintIssue, 0, 1)
		issues = append(issues, &LintIssue{Level: LintError, Line: 0, Message: diags.Error(), Code: "LEX_ERROR"})
		return issues
	}
	return NewLinter(nil).Lint(ns)
}
