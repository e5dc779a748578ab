package lexer

import (
	"fmt"

	"github.com/arrowslasharrow/tasm/diag"
)

func addBadToken(d *diag.Diagnostics, line int, text string) {
	d.Addf(diag.Position{Line: line}, diag.BadToken, "malformed line: %q", text)
}

func addDuplicateRoutine(d *diag.Diagnostics, line int, ident string) {
	d.Addf(diag.Position{Line: line}, diag.MultipleRoutineDefinitions, "routine %s is already defined", ident)
}

func addNoEntryPoint(d *diag.Diagnostics) {
	d.Add(diag.New(diag.Position{}, diag.NoEntryPoint, fmt.Sprintf("no %s routine found", EntryPoint)))
}
