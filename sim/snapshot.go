package sim

import "github.com/arrowslasharrow/tasm/tasmval"

// Snapshot is an immutable, serialisable view of simulator state at one
// tick — what the TUI renders and the API broadcasts to WebSocket
// subscribers. It never aliases the simulator's live backing arrays, so
// it is safe to hand to another goroutine.
type Snapshot struct {
	Tick  uint64
	State State

	MemoryStart   int32
	MemorySize    int32
	MemoryIsFloat bool
	MemoryMode    MemoryMode
	PtrPos        int32
	MemRegValue   int32

	Displayed []DisplayedValue

	ActiveGroups []ActiveGroupView

	BreakpointHit bool
}

// DisplayedValue is one DISPLAY-declared counter/timer's live reading.
type DisplayedValue struct {
	Label   string
	IsTimer bool
	Int     int32
	Float   float32
}

// ActiveGroupView is the subset of ActiveGroup worth showing a viewer.
type ActiveGroupView struct {
	Group int16
	Ident string
	Idx   int
	Wait  int
}

// Snapshot captures the simulator's current state into an independent
// value. Memory cell contents are read on demand through MemoryCell,
// not copied wholesale, since regions can run to thousands of cells.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          s.Tick,
		State:         s.State,
		MemoryStart:   s.MemoryStart,
		MemorySize:    s.MemorySize,
		MemoryIsFloat: s.MemoryIsFloat,
		MemoryMode:    s.MemoryMode,
		PtrPos:        s.PtrPos,
		MemRegValue:   s.Counters[s.Config.MemRegCounter()],
		BreakpointHit: s.BreakpointHit,
	}

	for _, v := range s.Displayed {
		dv := DisplayedValue{Label: v.String(), IsTimer: v.Tag() == tasmval.TagTimer}
		switch v.Tag() {
		case tasmval.TagTimer:
			dv.Float = s.Timers[v.IntID()]
		case tasmval.TagAlias:
			dv.Int = int32(s.get(v))
		default:
			dv.Int = s.Counters[v.IntID()]
		}
		snap.Displayed = append(snap.Displayed, dv)
	}

	for g, ag := range s.active {
		snap.ActiveGroups = append(snap.ActiveGroups, ActiveGroupView{
			Group: g, Ident: ag.Ident, Idx: ag.Idx, Wait: ag.Wait,
		})
	}

	return snap
}

// MemoryCell reads one cell of the active memory region, relative to
// MemoryStart. It panics if no region is allocated or idx is out of
// range — callers should check MemorySize first.
func (s *Simulator) MemoryCell(idx int32) float64 {
	if s.MemoryIsFloat {
		return float64(s.Timers[s.MemoryStart+idx])
	}
	return float64(s.Counters[s.MemoryStart+idx])
}
