package compiler

import (
	"github.com/arrowslasharrow/tasm/diag"
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/object"
	"github.com/arrowslasharrow/tasm/tasmval"
)

// itemID resolves a Counter/Timer/Group value to its raw id, mapping
// MEMREG/PTRPOS aliases through the active memory region when one
// exists and falling back to the configured defaults otherwise — the
// same fallback the lexer itself cannot take, since it resolves
// aliases before a MALLOC has necessarily run.
func (ctx handlerCtx) itemID(v tasmval.Value) int16 {
	if v.Tag() == tasmval.TagAlias {
		if v.AliasKindValue() == tasmval.MemReg {
			if ctx.mem != nil {
				return ctx.mem.MemRegID
			}
			return ctx.cfg.MemRegCounter()
		}
		if ctx.mem != nil {
			return ctx.mem.PtrPosID
		}
		return ctx.cfg.PtrPosCounter()
	}
	return v.IntID()
}

// splitArgs buckets an argument list into the item (Counter/Timer/
// Group/Alias) values and the bare Number values it carries, in
// encounter order. Every arithmetic and comparison shape in the
// registry is expressible as "some items, maybe one trailing number".
func (ctx handlerCtx) splitArgs(args []tasmval.Value) (items []tasmval.Value, nums []tasmval.Value) {
	for _, a := range args {
		if a.Tag() == tasmval.TagNumber {
			nums = append(nums, a)
		} else {
			items = append(items, a)
		}
	}
	return items, nums
}

func (ctx handlerCtx) groups() []int16 {
	if ctx.group >= 0 {
		return []int16{ctx.group}
	}
	return nil
}

// arithOperator maps an arithmetic HandlerKey to the wire operator code
// the simulator's item-edit interpreter switches on.
func arithOperator(key instrset.HandlerKey) int {
	switch key {
	case instrset.HMov:
		return 0
	case instrset.HAdd:
		return 1
	case instrset.HSub:
		return 2
	case instrset.HMul:
		return 3
	case instrset.HDiv:
		return 4
	case instrset.HFldiv:
		return 5
	default:
		return -1
	}
}

func arithHandler(ctx handlerCtx, key instrset.HandlerKey, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	items, nums := ctx.splitArgs(args)
	if len(items) == 0 {
		return HandlerData{}, nil, newError(diag.InvalidArguments, "%s requires at least one item operand", "arithmetic")
	}

	obj := object.Object{
		Kind:     object.ItemEditTrigger,
		X:        ctx.x,
		Y:        ctx.y,
		Groups:   ctx.groups(),
		Operator: arithOperator(key),
		ItemA:    ctx.itemID(items[0]),
	}
	if len(items) > 1 {
		obj.ItemB = ctx.itemID(items[1])
	}
	if len(nums) > 0 {
		obj.Compare = nums[0].NumberValue()
	}

	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

// compareOperator maps the six Sxx/Fxx comparators to a wire code.
func compareOperator(key instrset.HandlerKey) int {
	switch key {
	case instrset.HSe, instrset.HFe:
		return 0
	case instrset.HSne, instrset.HFne:
		return 1
	case instrset.HSl, instrset.HFl:
		return 2
	case instrset.HSle, instrset.HFle:
		return 3
	case instrset.HSg, instrset.HFg:
		return 4
	case instrset.HSge, instrset.HFge:
		return 5
	default:
		return -1
	}
}

// complementOperator is the comparator that fires exactly when the
// primary one does not — what the Fxx "false" branch spawns into.
func complementOperator(code int) int {
	switch code {
	case 0:
		return 1
	case 1:
		return 0
	case 2:
		return 5
	case 3:
		return 4
	case 4:
		return 3
	case 5:
		return 2
	default:
		return -1
	}
}

// compare2Handler implements SE/SNE/SL/SLE/SG/SGE: compare args[1]
// against args[2] (item or number) and spawn args[0] if the comparison
// holds.
func compare2Handler(ctx handlerCtx, key instrset.HandlerKey, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	if len(args) != 3 {
		return HandlerData{}, nil, newError(diag.InvalidArguments, "comparison spawner expects 3 arguments, got %d", len(args))
	}
	target := args[0].IntID()
	obj := object.Object{
		Kind:        object.SpawnTrigger,
		X:           ctx.x,
		Y:           ctx.y,
		TargetGroup: target,
		Spawnable:   true,
		Operator:    compareOperator(key),
		ItemA:       ctx.itemID(args[1]),
	}
	if args[2].Tag() == tasmval.TagNumber {
		obj.Compare = args[2].NumberValue()
	} else {
		obj.ItemB = ctx.itemID(args[2])
	}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

// compare4Handler implements FE/FNE/FL/FLE/FG/FGE: a two-way branch
// that spawns args[0] on true and args[1] on false.
func compare4Handler(ctx handlerCtx, key instrset.HandlerKey, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	if len(args) != 4 {
		return HandlerData{}, nil, newError(diag.InvalidArguments, "fork spawner expects 4 arguments, got %d", len(args))
	}
	trueGroup := args[0].IntID()
	falseGroup := args[1].IntID()
	code := compareOperator(key)

	base := object.Object{
		X:         ctx.x,
		Y:         ctx.y,
		Spawnable: true,
		ItemA:     ctx.itemID(args[2]),
	}
	if args[3].Tag() == tasmval.TagNumber {
		base.Compare = args[3].NumberValue()
	} else {
		base.ItemB = ctx.itemID(args[3])
	}

	trueObj := base
	trueObj.Kind = object.SpawnTrigger
	trueObj.TargetGroup = trueGroup
	trueObj.Operator = code

	falseObj := base
	falseObj.Kind = object.SpawnTrigger
	falseObj.TargetGroup = falseGroup
	falseObj.Operator = complementOperator(code)

	return HandlerData{Objects: []object.Object{trueObj, falseObj}, SkipSpaces: 1}, nil, nil
}

func spawnHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{
		Kind:        object.SpawnTrigger,
		X:           ctx.x,
		Y:           ctx.y,
		TargetGroup: args[0].IntID(),
		Spawnable:   true,
	}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

func nopHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	return HandlerData{SkipSpaces: 1}, nil, nil
}

func breakpointHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	return HandlerData{}, nil, nil
}

func persHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{
		Kind:        object.CounterDisplay,
		X:           ctx.x,
		Y:           ctx.y,
		TargetGroup: ctx.itemID(args[0]),
		Multitrigger: true,
	}
	return HandlerData{Objects: []object.Object{obj}}, nil, nil
}

func displayHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{
		Kind:        object.CounterDisplay,
		X:           ctx.x,
		Y:           ctx.y,
		TargetGroup: ctx.itemID(args[0]),
	}
	return HandlerData{Objects: []object.Object{obj}}, nil, nil
}

// ioBlockObject is the spawn-gated label object emitted into the level
// for one routine's group (the tick simulator does not act on IOBLOCK) — spec.md §4.3's implicit
// IOBLOCK, or an explicit user-declared one.
func ioBlockObject(group, itemID int16, text string) object.Object {
	return object.Object{
		Kind:        object.SpawnTrigger,
		Groups:      []int16{group},
		TargetGroup: group,
		ItemA:       itemID,
		Text:        text,
		Spawnable:   true,
	}
}

func ioBlockHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	group := args[0].IntID()
	itemID := int16(args[1].NumberValue())
	text := args[2].StringValue()
	return HandlerData{Objects: []object.Object{ioBlockObject(group, itemID, text)}}, nil, nil
}

func initmemHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	if ctx.mem == nil {
		return HandlerData{}, nil, newError(diag.NonexistentMemoryAccess, "INITMEM used before any MALLOC")
	}
	// Excess values beyond the allocated size are dropped rather than
	// rejected; the simulator's own init pass (sim.processInit) rejects
	// this same case outright, so a mismatch here is worth catching
	// before compiling — see tools.Linter's INITMEM_OVERFLOW check.
	var objs []object.Object
	for i, a := range args {
		if i >= ctx.mem.Size {
			break
		}
		objs = append(objs, object.Object{
			Kind:        object.InstantCountTrigger,
			X:           ctx.x,
			Y:           ctx.y,
			TargetGroup: ctx.mem.StartID + int16(i),
			Compare:     a.NumberValue(),
		})
	}
	return HandlerData{Objects: objs}, nil, nil
}

func mallocHandler(ctx handlerCtx, args []tasmval.Value, elem ElementType) (HandlerData, *MemoryInfo, error) {
	size := int(args[0].NumberValue())
	data, mem := synthesizeMemory(ctx.cfg, elem, size, ctx.x, ctx.y, ctx.currentGroup)
	return data, mem, nil
}

func mFuncHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	objs := []object.Object{
		{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.ReadGroup, Spawnable: true},
		{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.WriteGroup, Spawnable: true},
		{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.PtrGroup, Spawnable: true},
	}
	return HandlerData{Objects: objs, SkipSpaces: 1}, nil, nil
}

func mReadHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.ReadGroup, Spawnable: true}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

func mWriteHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.WriteGroup, Spawnable: true}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

func mResetHandler(ctx handlerCtx) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{Kind: object.SpawnTrigger, X: ctx.x, Y: ctx.y, TargetGroup: ctx.mem.PtrResetGroup, Spawnable: true}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

func mPtrHandler(ctx handlerCtx, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	obj := object.Object{
		Kind:        object.MoveTrigger,
		X:           ctx.x,
		Y:           ctx.y,
		Groups:      []int16{ctx.mem.PtrGroup},
		TargetGroup: ctx.mem.PtrGroup,
		Compare:     args[0].NumberValue(),
	}
	return HandlerData{Objects: []object.Object{obj}, SkipSpaces: 1}, nil, nil
}

// dispatch selects and invokes the handler for key. Memory-kind
// handlers may assume ctx.mem != nil: the driver rejects any
// Memory-kind instruction reached before a MALLOC before dispatch ever
// runs.
func dispatch(ctx handlerCtx, key instrset.HandlerKey, args []tasmval.Value) (HandlerData, *MemoryInfo, error) {
	switch key {
	case instrset.HMalloc:
		return mallocHandler(ctx, args, ElemInt)
	case instrset.HFMalloc:
		return mallocHandler(ctx, args, ElemFloat)
	case instrset.HInitmem:
		return initmemHandler(ctx, args)
	case instrset.HPers:
		return persHandler(ctx, args)
	case instrset.HDisplay:
		return displayHandler(ctx, args)
	case instrset.HIOBlock:
		return ioBlockHandler(ctx, args)

	case instrset.HMFunc:
		return mFuncHandler(ctx)
	case instrset.HMRead:
		return mReadHandler(ctx)
	case instrset.HMWrite:
		return mWriteHandler(ctx)
	case instrset.HMReset:
		return mResetHandler(ctx)
	case instrset.HMPtr:
		return mPtrHandler(ctx, args)

	case instrset.HNop:
		return nopHandler(ctx)

	case instrset.HMov, instrset.HAdd, instrset.HSub, instrset.HMul, instrset.HDiv, instrset.HFldiv:
		return arithHandler(ctx, key, args)

	case instrset.HSpawn:
		return spawnHandler(ctx, args)

	case instrset.HSe, instrset.HSne, instrset.HSl, instrset.HSle, instrset.HSg, instrset.HSge:
		return compare2Handler(ctx, key, args)

	case instrset.HFe, instrset.HFne, instrset.HFl, instrset.HFle, instrset.HFg, instrset.HFge:
		return compare4Handler(ctx, key, args)

	case instrset.HBreakpoint:
		return breakpointHandler(ctx)

	default:
		return HandlerData{}, nil, newError(diag.InvalidInstruction, "no handler registered for key %d", int(key))
	}
}
