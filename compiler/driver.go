// Package compiler walks a resolved lexer.Namespace in source order
// and emits the host-object stream the §4.3 layout policy describes,
// threading a mutable current-group counter and MemoryInfo forward the
// way Tasm::handle_routines does in the reference implementation.
package compiler

import (
	"errors"

	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/diag"
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/object"
)

const rowHeight = 30.0

// HandlerData is what one instruction handler contributes: the objects
// it placed, how far the layout cursor should advance, and how many
// auxiliary groups it claimed from the shared pool.
type HandlerData struct {
	Objects         []object.Object
	SkipSpaces      int
	UsedExtraGroups int16
}

// handlerCtx carries everything a handler needs besides its arguments.
// Group is -1 for _init's Init-kind instructions, which get no group
// assignment at all.
type handlerCtx struct {
	cfg          config.Config
	group        int16
	x, y         float64
	mem          *MemoryInfo
	currentGroup int16
}

// Driver compiles a lexer.Namespace into a host-object stream.
type Driver struct {
	Config config.Config
}

// NewDriver builds a Driver for the given configuration.
func NewDriver(cfg config.Config) *Driver {
	return &Driver{Config: cfg}
}

// Compile walks ns in source order and writes the emitted object
// stream into sink, accumulating every diagnostic instead of stopping
// at the first one.
func (d *Driver) Compile(ns *lexer.Namespace, sink object.Sink) diag.Diagnostics {
	var diags diag.Diagnostics

	var nonInit int16
	for _, ident := range ns.Order {
		if ident != lexer.InitRoutine {
			nonInit++
		}
	}
	currentGroup := nonInit + 1

	var mem *MemoryInfo
	initObjPos := 0.0
	declaredIOBlock := false
	var startGroup int16
	haveStart := false

	for _, ident := range ns.Order {
		routine := ns.Routines[ident]
		isInit := ident == lexer.InitRoutine
		if ident == lexer.EntryPoint {
			startGroup = routine.Group
			haveStart = true
		}

		routineObjPos := 0.0

		for _, instr := range routine.Instructions {
			pos := diag.Position{Line: instr.SourceLine}

			if instr.Mnemonic == "IOBLOCK" {
				declaredIOBlock = true
			}

			if instr.Kind == instrset.Memory && mem == nil {
				diags.Addf(pos, diag.NonexistentMemoryAccess, "%s used before any MALLOC", instr.Mnemonic)
				continue
			}
			if (instr.Mnemonic == "MALLOC" || instr.Mnemonic == "FMALLOC") && mem != nil {
				diags.Addf(pos, diag.MultipleMemoryInstances, "a memory region was already allocated")
				continue
			}

			ctx := handlerCtx{cfg: d.Config, mem: mem, currentGroup: currentGroup}
			if isInit {
				ctx.group = -1
				ctx.x = -rowHeight - initObjPos
				ctx.y = 75
			} else {
				ctx.group = routine.Group
				ctx.x = rowHeight + routineObjPos
				ctx.y = 75 + float64(routine.Group)*rowHeight
			}

			data, newMem, err := dispatch(ctx, instr.HandlerKey, instr.Args)
			if err != nil {
				var cerr *Error
				if errors.As(err, &cerr) {
					diags.Addf(pos, cerr.Kind, "%s", cerr.Message)
				} else {
					diags.Addf(pos, diag.InvalidInstruction, "%s", err.Error())
				}
				continue
			}
			if newMem != nil {
				mem = newMem
			}

			for _, obj := range data.Objects {
				sink.Write(obj)
			}
			currentGroup += data.UsedExtraGroups

			if isInit {
				initObjPos += float64(data.SkipSpaces) * rowHeight
			} else {
				routineObjPos += float64(data.SkipSpaces) * rowHeight
			}

			if currentGroup > d.Config.Compiler.GroupLimit {
				diags.Addf(pos, diag.ExceedsGroupLimit, "exceeds group limit of %d", d.Config.Compiler.GroupLimit)
				return diags
			}
		}
	}

	if haveStart && !declaredIOBlock {
		sink.Write(ioBlockObject(startGroup, 0, ""))
	}

	return diags
}
