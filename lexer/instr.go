package lexer

import (
	"strings"

	"github.com/arrowslasharrow/tasm/diag"
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/tasmval"
)

// splitMnemonic splits a trimmed instruction line on its first space,
// per spec.md §4.1 step 1.
func splitMnemonic(line string) (mnemonic, rest string, hasArgs bool) {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx], line[idx+1:], true
	}
	return line, "", false
}

// resolveIdent implements §4.1 step 4: a String-typed argument that
// names a declared routine becomes that routine's Group; naming the
// _init sentinel is an error; anything else passes through unchanged
// (MEMREG/PTRPOS are already resolved to Alias at value-parse time).
func resolveIdent(ident string, pos diag.Position, groupMap map[string]int16, diags *diag.Diagnostics) (tasmval.Value, bool) {
	group, ok := groupMap[ident]
	if !ok {
		return tasmval.Str(ident), true
	}
	if group == initSentinelGroup {
		diags.Addf(pos, diag.InitRoutineSpawnError, "cannot spawn the %s routine", InitRoutine)
		return tasmval.Value{}, false
	}
	return tasmval.Group(group), true
}

// parseInstrLine is pass 2 of spec.md §4.1 for a single instruction
// line, already known to belong to routineIdent.
func parseInstrLine(line rawLine, routineIdent string, groupMap map[string]int16, diags *diag.Diagnostics) (Instruction, bool) {
	pos := diag.Position{Line: line.lineIdx + 1}

	mnemonicRaw, rest, hasArgs := splitMnemonic(line.text)
	mnemonic := strings.ToUpper(mnemonicRaw)

	var args []tasmval.Value
	if hasArgs {
		erroneous := false
		for _, part := range strings.Split(rest, ",") {
			tok := strings.TrimSpace(part)
			v, err := tasmval.ParseValue(tok)
			if err != nil {
				diags.Addf(pos, diag.InvalidNumber, "%s", err.Error())
				erroneous = true
				continue
			}
			if v.Tag() == tasmval.TagString {
				resolved, ok := resolveIdent(v.StringValue(), pos, groupMap, diags)
				if !ok {
					erroneous = true
					continue
				}
				v = resolved
			}
			args = append(args, v)
		}
		if erroneous {
			diags.Addf(pos, diag.InvalidInstruction, "failed to parse instruction: invalid argument set")
			return Instruction{}, false
		}
	}

	spec, ok := instrset.Lookup(mnemonic)
	if !ok {
		diags.Addf(pos, diag.InvalidInstruction, "unrecognized instruction %s", mnemonic)
		return Instruction{}, false
	}

	if spec.InitOnly && routineIdent != InitRoutine {
		diags.Addf(pos, diag.InvalidInstruction,
			"instruction %s is exclusive to the %s routine", mnemonic, InitRoutine)
		return Instruction{}, false
	}
	if spec.Kind == instrset.Memory && routineIdent == InitRoutine {
		diags.Addf(pos, diag.InitRoutineMemoryAccess,
			"memory instruction %s may not appear inside %s", mnemonic, InitRoutine)
		return Instruction{}, false
	}

	key, ok := spec.Match(args)
	if !ok {
		diags.Addf(pos, diag.InvalidArguments,
			"instruction %s has no argument handler for the given arguments", mnemonic)
		return Instruction{}, false
	}

	return Instruction{
		Mnemonic:   mnemonic,
		Kind:       spec.Kind,
		SourceLine: line.lineIdx + 1,
		Args:       args,
		HandlerKey: key,
	}, true
}
