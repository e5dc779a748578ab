package lexer

import (
	"strings"

	"github.com/arrowslasharrow/tasm/diag"
)

// rawRoutine is a header and its raw indented body lines, before
// per-instruction parsing.
type rawRoutine struct {
	ident   string
	group   int16
	lineIdx int
	lines   []rawLine
}

type rawLine struct {
	lineIdx int
	text    string
}

// preprocessLines truncates each line at the first comment marker and
// strips trailing whitespace. Leading whitespace is left intact: it is
// how pass 1 distinguishes a routine header from an instruction line.
func preprocessLines(source string) []string {
	raw := strings.Split(source, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		if idx := strings.IndexByte(l, ';'); idx >= 0 {
			l = l[:idx]
		}
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// indexRoutines is pass 1 of spec.md §4.1: it scans lines, recognises
// routine headers, assigns each a group (initSentinelGroup for _init,
// which Lex later maps to 0; 1..N in source order otherwise), and groups
// each routine's indented body lines.
func indexRoutines(lines []string) (routines []*rawRoutine, groupMap map[string]int16, diags diag.Diagnostics) {
	groupMap = make(map[string]int16)

	var curGroup int16
	var current *rawRoutine
	var hasEntry bool
	seen := make(map[string]bool)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !isIndented(line) {
			trimmed := strings.TrimSpace(line)
			if !strings.HasSuffix(trimmed, ":") || strings.Contains(trimmed, " ") {
				addBadToken(&diags, i+1, line)
				current = nil
				continue
			}

			ident := strings.TrimSuffix(trimmed, ":")

			if seen[ident] {
				addDuplicateRoutine(&diags, i+1, ident)
				current = nil
				continue
			}
			seen[ident] = true

			var group int16
			if ident == InitRoutine {
				group = initSentinelGroup
			} else {
				curGroup++
				group = curGroup
				if ident == EntryPoint {
					hasEntry = true
				}
			}
			groupMap[ident] = group

			current = &rawRoutine{ident: ident, group: group, lineIdx: i}
			routines = append(routines, current)
			continue
		}

		if current == nil {
			addBadToken(&diags, i+1, line)
			continue
		}
		current.lines = append(current.lines, rawLine{lineIdx: i, text: strings.TrimSpace(line)})
	}

	if !hasEntry {
		addNoEntryPoint(&diags)
	}

	return routines, groupMap, diags
}

// reorderInitFirst moves _init to the head of the slice, the way
// Tasm::parse() does before handle_instructions runs.
func reorderInitFirst(routines []*rawRoutine) []*rawRoutine {
	for i, r := range routines {
		if r.ident == InitRoutine {
			ordered := make([]*rawRoutine, 0, len(routines))
			ordered = append(ordered, r)
			ordered = append(ordered, routines[:i]...)
			ordered = append(ordered, routines[i+1:]...)
			return ordered
		}
	}
	return routines
}
