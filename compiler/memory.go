package compiler

import (
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/object"
)

// ElementType distinguishes an integral memory cell from a float one —
// reserved for FMALLOC, which allocates the same shape of structure
// over timers instead of counters.
type ElementType int

const (
	ElemInt ElementType = iota
	ElemFloat
)

// MemoryInfo is the bookkeeping MALLOC produces and every later
// MREAD/MWRITE/MPTR/MRESET/MFUNC handler needs to find the groups and
// counter ids synthesized for the memory region.
type MemoryInfo struct {
	ElementType   ElementType
	Size          int
	StartID       int16
	MemRegID      int16
	PtrPosID      int16
	ReadGroup     int16
	WriteGroup    int16
	PtrGroup      int16
	PtrResetGroup int16
}

const cellUnit = 30.0

// synthesizeMemory implements the MALLOC handler of spec.md §4.3: it
// claims 4+N auxiliary groups and emits the collision/item-edit/move
// lattice that lets the simulator's MFUNC/MPTR/MRESET instructions
// move data between MEMREG and the memory cells.
func synthesizeMemory(cfg config.Config, elem ElementType, size int, xPos, y float64, firstGroup int16) (HandlerData, *MemoryInfo) {
	start := cfg.MemRegCounter() - int16(size)

	ptrResetGroup := firstGroup
	ptrGroup := firstGroup + 1
	readGroup := firstGroup + 2
	writeGroup := firstGroup + 3

	mem := &MemoryInfo{
		ElementType:   elem,
		Size:          size,
		StartID:       start,
		MemRegID:      cfg.MemRegCounter(),
		PtrPosID:      cfg.PtrPosCounter(),
		ReadGroup:     readGroup,
		WriteGroup:    writeGroup,
		PtrGroup:      ptrGroup,
		PtrResetGroup: ptrResetGroup,
	}

	var objs []object.Object

	// (a) reset-target block, left of the row.
	objs = append(objs, object.Object{
		Kind:   object.Block,
		X:      xPos,
		Y:      y,
		Groups: []int16{ptrResetGroup},
	})
	xPos += cellUnit

	// (b) the physical pointer: a collision block member of ptr_group.
	objs = append(objs, object.Object{
		Kind:   object.Block,
		X:      xPos,
		Y:      y,
		Groups: []int16{ptrGroup},
	})
	xPos += cellUnit

	for i := 0; i < size; i++ {
		cellGroup := firstGroup + 4 + int16(i)
		cellCounter := start + int16(i)

		// cell collision block
		objs = append(objs, object.Object{
			Kind:   object.Block,
			X:      xPos,
			Y:      y,
			Groups: []int16{cellGroup},
		})

		// collision trigger: cell block collides with ptr block -> activate cell group
		objs = append(objs, object.Object{
			Kind:        object.CollisionTrigger,
			X:           xPos,
			Y:           y,
			TargetGroup: cellGroup,
		})

		// write-side item edit, gated on cell ∧ write
		objs = append(objs, object.Object{
			Kind:   object.ItemEditTrigger,
			X:      xPos,
			Y:      y,
			Groups: []int16{cellGroup, writeGroup},
			ItemA:  mem.MemRegID,
			ItemB:  cellCounter,
		})

		// read-side item edit, gated on cell ∧ read
		objs = append(objs, object.Object{
			Kind:   object.ItemEditTrigger,
			X:      xPos,
			Y:      y,
			Groups: []int16{cellGroup, readGroup},
			ItemA:  cellCounter,
			ItemB:  mem.MemRegID,
		})

		// move trigger: return the pointer block vertically by one unit
		objs = append(objs, object.Object{
			Kind:   object.MoveTrigger,
			X:      xPos,
			Y:      y,
			Groups: []int16{ptrGroup},
		})

		// display counter for the cell
		objs = append(objs, object.Object{
			Kind:        object.CounterDisplay,
			X:           xPos,
			Y:           y,
			TargetGroup: cellCounter,
		})

		xPos += cellUnit
	}

	// display MEMREG and PTRPOS, and a "memory" label
	objs = append(objs,
		object.Object{Kind: object.CounterDisplay, X: xPos, Y: y, TargetGroup: mem.MemRegID},
		object.Object{Kind: object.CounterDisplay, X: xPos + cellUnit, Y: y, TargetGroup: mem.PtrPosID},
		object.Object{Kind: object.TextLabel, X: xPos + 2*cellUnit, Y: y, Text: "memory"},
	)

	return HandlerData{
		Objects:         objs,
		SkipSpaces:      0,
		UsedExtraGroups: 4 + int16(size),
	}, mem
}
