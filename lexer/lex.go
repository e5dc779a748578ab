// Package lexer implements the tasm two-pass scanner: routine
// indexing, then per-instruction parsing against the instruction
// registry, producing a resolved Namespace or a non-empty diagnostics
// list. Neither pass short-circuits on the first error.
package lexer

import (
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/diag"
)

// Lex scans source and returns either a fully resolved Namespace, or
// nil plus a non-empty Diagnostics describing every finding from the
// run.
func Lex(source string, cfg config.Config) (*Namespace, diag.Diagnostics) {
	_ = cfg // threaded for future config-dependent diagnostics, unused today

	var diags diag.Diagnostics

	lines := preprocessLines(source)
	rawRoutines, groupMap, pass1Diags := indexRoutines(lines)
	diags.Merge(&pass1Diags)

	ordered := reorderInitFirst(rawRoutines)

	ns := &Namespace{Routines: make(map[string]*Routine, len(ordered))}
	for _, rr := range ordered {
		group := rr.group
		if group == initSentinelGroup {
			group = 0
		}

		routine := &Routine{Ident: rr.ident, Group: group}
		for _, ln := range rr.lines {
			if ln.text == "" {
				continue
			}
			instr, ok := parseInstrLine(ln, rr.ident, groupMap, &diags)
			if ok {
				routine.Instructions = append(routine.Instructions, instr)
			}
		}

		ns.Order = append(ns.Order, rr.ident)
		ns.Routines[rr.ident] = routine
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return ns, diags
}
