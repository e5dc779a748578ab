// Package sim is the tick-based cooperative simulator of spec.md §5-§6:
// given a compiled-namespace document, it steps every active group
// forward one instruction per tick, exactly reproducing the
// reference interpreter's counter/timer file, wait-cycle, and memory
// register protocol semantics.
package sim

// State mirrors the teacher VM's ExecutionState: a simulator is always
// in exactly one of these.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateHalted:
		return "Halted"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// MemoryMode is the MREAD/MWRITE latch MFUNC consults.
type MemoryMode int

const (
	MemNone MemoryMode = iota
	MemRead
	MemWrite
)

func (m MemoryMode) String() string {
	switch m {
	case MemRead:
		return "READ"
	case MemWrite:
		return "WRITE"
	default:
		return "NONE"
	}
}

// ActiveGroup is one currently-running routine instance. Idx is -1 for
// a group spawned this tick: it has not yet executed any instruction
// and only starts being scheduled on the following tick, matching the
// reference interpreter's insert-then-advance spawn timing.
type ActiveGroup struct {
	Group int16
	Ident string
	Idx   int
	Wait  int
}

// counterFileSize matches the reference interpreter's fixed 10,000-slot
// counter/timer files, indexed directly by item id (ids 0..9999).
const counterFileSize = 10000
