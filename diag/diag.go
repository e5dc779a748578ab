// Package diag is the shared diagnostics model used by both the lexer
// and the compiler driver: a source position, a single diagnostic, and
// an accumulator that lets a pass report every finding from one run
// instead of stopping at the first one.
package diag

import (
	"fmt"
	"strings"
)

// Position identifies a line within a source file. Lines are 1-based,
// matching how the toolchain reports them to users.
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Kind enumerates the error kinds of spec.md §7.
type Kind int

const (
	InvalidInstruction Kind = iota
	InvalidArguments
	BadToken
	NoEntryPoint
	InvalidNumber
	InvalidGroup
	ExceedsGroupLimit
	InitRoutineSpawnError
	InitRoutineMemoryAccess
	MultipleMemoryInstances
	MultipleRoutineDefinitions
	NonexistentMemoryAccess
	InvalidPointerMove
)

var kindNames = map[Kind]string{
	InvalidInstruction:         "InvalidInstruction",
	InvalidArguments:           "InvalidArguments",
	BadToken:                   "BadToken",
	NoEntryPoint:               "NoEntryPoint",
	InvalidNumber:              "InvalidNumber",
	InvalidGroup:               "InvalidGroup",
	ExceedsGroupLimit:          "ExceedsGroupLimit",
	InitRoutineSpawnError:      "InitRoutineSpawnError",
	InitRoutineMemoryAccess:    "InitRoutineMemoryAccess",
	MultipleMemoryInstances:    "MultipleMemoryInstances",
	MultipleRoutineDefinitions: "MultipleRoutineDefinitions",
	NonexistentMemoryAccess:    "NonexistentMemoryAccess",
	InvalidPointerMove:         "InvalidPointerMove",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a single error report, optionally carrying the offending
// source line for context.
type Diagnostic struct {
	Pos     Position
	Kind    Kind
	Message string
	Context string
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s: %s\n", d.Pos, d.Kind, d.Message)
	if d.Context != "" {
		fmt.Fprintf(&sb, "    %s\n", d.Context)
	}

	return sb.String()
}

// New creates a Diagnostic without source context.
func New(pos Position, kind Kind, message string) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: kind, Message: message}
}

// NewWithContext creates a Diagnostic carrying the offending source line.
func NewWithContext(pos Position, kind Kind, message, context string) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: kind, Message: message, Context: context}
}

// Diagnostics accumulates every finding from a single lex or compile
// pass. Passes never short-circuit on the first error — spec.md §7
// requires a single run to report every finding.
type Diagnostics struct {
	Items []*Diagnostic
}

// Add appends a diagnostic to the list.
func (d *Diagnostics) Add(diag *Diagnostic) {
	d.Items = append(d.Items, diag)
}

// Addf builds and appends a diagnostic in one call.
func (d *Diagnostics) Addf(pos Position, kind Kind, format string, args ...any) {
	d.Add(New(pos, kind, fmt.Sprintf(format, args...)))
}

// HasErrors reports whether any diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Items) > 0
}

// Error implements the error interface, rendering every diagnostic.
func (d *Diagnostics) Error() string {
	if !d.HasErrors() {
		return ""
	}

	var sb strings.Builder
	for _, item := range d.Items {
		sb.WriteString(item.Error())
	}
	return sb.String()
}

// Merge appends another Diagnostics' items onto this one, in order.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Items = append(d.Items, other.Items...)
}
