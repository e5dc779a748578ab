package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/namespace"
	"github.com/arrowslasharrow/tasm/tasmval"
)

// ErrNoEntryPoint is returned by NewSimulator when the namespace has no
// _start routine. spec.md §7 gives this one construction failure its
// own parity rule (a printed line and exit code 0, matching
// original_source/interpreter/src/main.rs's println!+return), so
// callers need to distinguish it from every other construction error.
var ErrNoEntryPoint = errors.New("sim: no _start routine found in namespace")

// Simulator is one running program. It owns the counter/timer files,
// the active-group map, and the memory-register protocol state, and
// advances by one instruction slot per active group per Step call.
type Simulator struct {
	NS     *namespace.Namespace
	Config config.Config

	State         State
	LastError     error
	BreakpointHit bool

	Counters [counterFileSize]int32
	Timers   [counterFileSize]float32

	Displayed []tasmval.Value

	MemoryStart   int32
	MemorySize    int32
	MemoryIsFloat bool
	MemoryMode    MemoryMode
	PtrPos        int32

	Tick        uint64
	MaxInstrLen int

	active     map[int16]*ActiveGroup
	groupIdent map[int16]string
}

// NewSimulator builds a Simulator from a compiled namespace: it
// resolves every routine's group, processes _init's MALLOC/FMALLOC/
// INITMEM/DISPLAY declarations exactly like the reference
// interpreter's init pass, and seeds _start as the sole initial active
// group.
func NewSimulator(ns *namespace.Namespace, cfg config.Config) (*Simulator, error) {
	start, ok := ns.Routines["_start"]
	if !ok {
		return nil, ErrNoEntryPoint
	}

	s := &Simulator{
		NS:         ns,
		Config:     cfg,
		State:      StateRunning,
		active:     make(map[int16]*ActiveGroup),
		groupIdent: make(map[int16]string, len(ns.Routines)),
	}
	for ident, routine := range ns.Routines {
		s.groupIdent[routine.Group] = ident
	}

	if init, ok := ns.Routines["_init"]; ok {
		if err := s.processInit(init); err != nil {
			return nil, err
		}
	}

	s.active[start.Group] = &ActiveGroup{Group: start.Group, Ident: "_start", Idx: 0, Wait: 0}

	return s, nil
}

func (s *Simulator) processInit(routine namespace.Routine) error {
	malloced := false
	for i, instr := range routine.Instructions {
		switch instr.HandlerKeyValue() {
		case instrset.HMalloc, instrset.HFMalloc:
			if malloced {
				return fmt.Errorf("sim: [instruction %d in _init] cannot allocate memory twice", i)
			}
			args, err := parseArgs(instr.Args)
			if err != nil {
				return err
			}
			s.MemoryStart = int32(s.Config.MemRegCounter()) - int32(args[0].NumberValue())
			s.MemorySize = int32(args[0].NumberValue())
			s.MemoryIsFloat = instr.HandlerKeyValue() == instrset.HFMalloc
			malloced = true

		case instrset.HInitmem:
			if !malloced {
				return fmt.Errorf("sim: [instruction %d in _init] cannot initialize unallocated memory", i)
			}
			args, err := parseArgs(instr.Args)
			if err != nil {
				return err
			}
			if len(args) > int(s.MemorySize) {
				return fmt.Errorf("sim: [instruction %d in _init] cannot initialize more slots than allocated", i)
			}
			for j, a := range args {
				s.Counters[s.MemoryStart+int32(j)] = clampInt(a.NumberValue())
			}

		case instrset.HDisplay:
			args, err := parseArgs(instr.Args)
			if err != nil {
				return err
			}
			s.Displayed = append(s.Displayed, args[0])
		}
	}
	return nil
}

func parseArgs(raw []string) ([]tasmval.Value, error) {
	out := make([]tasmval.Value, len(raw))
	for i, r := range raw {
		v, err := tasmval.ParseValue(r)
		if err != nil {
			return nil, fmt.Errorf("sim: invalid argument %q: %w", r, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s *Simulator) routine(ident string) namespace.Routine {
	return s.NS.Routines[ident]
}

// get reads the live value of a Counter, Timer, or MEMREG/PTRPOS alias.
func (s *Simulator) get(v tasmval.Value) float64 {
	switch v.Tag() {
	case tasmval.TagCounter:
		return float64(s.Counters[v.IntID()])
	case tasmval.TagTimer:
		return float64(s.Timers[v.IntID()])
	case tasmval.TagAlias:
		if v.AliasKindValue() == tasmval.MemReg {
			return float64(s.Counters[s.Config.MemRegCounter()])
		}
		return float64(s.Counters[s.Config.PtrPosCounter()])
	case tasmval.TagNumber:
		return v.NumberValue()
	default:
		return 0
	}
}

// set writes result into a Counter, Timer, or MEMREG/PTRPOS alias,
// clamping the way the reference interpreter's gsetv/gsetc/gset2/
// gset2c family does.
func (s *Simulator) set(v tasmval.Value, result float64) {
	switch v.Tag() {
	case tasmval.TagCounter:
		s.Counters[v.IntID()] = clampInt(result)
	case tasmval.TagTimer:
		s.Timers[v.IntID()] = float32(clampFloat(result))
	case tasmval.TagAlias:
		if v.AliasKindValue() == tasmval.MemReg {
			s.Counters[s.Config.MemRegCounter()] = clampInt(result)
		} else {
			s.Counters[s.Config.PtrPosCounter()] = clampInt(result)
		}
	}
}

// Step advances every active group by one scheduled instruction slot.
// Groups are visited in ascending group-id order so two runs of the
// same program produce identical traces.
func (s *Simulator) Step() error {
	if s.State == StateError {
		return fmt.Errorf("sim: simulator is in error state: %w", s.LastError)
	}
	if s.State == StateHalted || len(s.active) == 0 {
		s.State = StateHalted
		return nil
	}

	s.Tick++
	s.BreakpointHit = false

	groupIDs := make([]int16, 0, len(s.active))
	for g := range s.active {
		groupIDs = append(groupIDs, g)
	}
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	type scheduled struct {
		group   int16
		instr   namespace.Instruction
		waiting bool
	}
	var plan []scheduled
	if len(groupIDs) > s.MaxInstrLen {
		s.MaxInstrLen = len(groupIDs)
	}
	for _, g := range groupIDs {
		ag := s.active[g]
		if ag.Wait > 0 {
			plan = append(plan, scheduled{group: g, waiting: true})
			continue
		}
		if ag.Idx < 0 {
			continue
		}
		routine := s.routine(ag.Ident)
		if ag.Idx >= len(routine.Instructions) {
			continue
		}
		plan = append(plan, scheduled{group: g, instr: routine.Instructions[ag.Idx]})
	}

	for _, item := range plan {
		if item.waiting {
			s.active[item.group].Wait--
			continue
		}
		if err := s.execute(item.group, item.instr); err != nil {
			s.State = StateError
			s.LastError = err
			return err
		}
		s.syncPtr()
	}

	for g, ag := range s.active {
		if ag.Wait == 0 {
			ag.Idx++
		}
		routine := s.routine(ag.Ident)
		if ag.Idx >= len(routine.Instructions) {
			delete(s.active, g)
		}
	}

	if len(s.active) == 0 {
		s.State = StateHalted
	}
	return nil
}

// Run steps the simulator until it halts, errors, or maxTicks is
// reached (0 means unbounded).
func (s *Simulator) Run(maxTicks uint64) error {
	for s.State == StateRunning {
		if err := s.Step(); err != nil {
			return err
		}
		if maxTicks > 0 && s.Tick >= maxTicks {
			break
		}
	}
	return nil
}

// syncPtr is the per-instruction pointer clamp + PTRPOS mirror the
// reference interpreter runs after every instruction, not just MPTR.
func (s *Simulator) syncPtr() {
	if s.PtrPos < 0 {
		s.PtrPos = 0
	} else if s.MemorySize > 0 && s.PtrPos >= s.MemorySize {
		s.PtrPos = s.MemorySize - 1
	}
	s.Counters[s.Config.PtrPosCounter()] = s.PtrPos
}

func (s *Simulator) spawn(group int16) error {
	ident, ok := s.groupIdent[group]
	if !ok {
		return fmt.Errorf("sim: spawn references unknown group %d", group)
	}
	s.active[group] = &ActiveGroup{Group: group, Ident: ident, Idx: -1, Wait: 0}
	return nil
}

func (s *Simulator) execute(group int16, instr namespace.Instruction) error {
	args, err := parseArgs(instr.Args)
	if err != nil {
		return err
	}

	switch instr.HandlerKeyValue() {
	case instrset.HNop:
		return nil

	case instrset.HMov:
		return s.execArith(0, args)
	case instrset.HAdd:
		return s.execArith(1, args)
	case instrset.HSub:
		return s.execArith(2, args)
	case instrset.HMul:
		return s.execArith(3, args)
	case instrset.HDiv:
		return s.execArith(4, args)
	case instrset.HFldiv:
		return s.execArith(5, args)

	case instrset.HSpawn:
		return s.spawn(args[0].IntID())

	case instrset.HSe, instrset.HSne, instrset.HSl, instrset.HSle, instrset.HSg, instrset.HSge:
		return s.execCompare2(instr.HandlerKeyValue(), args)

	case instrset.HFe, instrset.HFne, instrset.HFl, instrset.HFle, instrset.HFg, instrset.HFge:
		return s.execCompare4(instr.HandlerKeyValue(), args)

	case instrset.HMRead:
		s.MemoryMode = MemRead
		return nil
	case instrset.HMWrite:
		s.MemoryMode = MemWrite
		return nil
	case instrset.HMReset:
		s.PtrPos = 0
		return nil
	case instrset.HMPtr:
		s.PtrPos += int32(args[0].NumberValue())
		return nil
	case instrset.HMFunc:
		s.active[group].Wait = 2
		switch s.MemoryMode {
		case MemRead:
			s.readMemCell()
		case MemWrite:
			s.writeMemCell()
		}
		return nil

	case instrset.HBreakpoint:
		s.BreakpointHit = true
		return nil

	default:
		// PERS/DISPLAY/IOBLOCK/MALLOC/FMALLOC/INITMEM are Init-only and
		// never scheduled outside _init's one-time preprocessing pass.
		return nil
	}
}

func (s *Simulator) readMemCell() {
	if s.MemoryIsFloat {
		s.Timers[s.Config.MemRegCounter()] = float32(s.Timers[s.MemoryStart+s.PtrPos])
		return
	}
	s.Counters[s.Config.MemRegCounter()] = s.Counters[s.MemoryStart+s.PtrPos]
}

func (s *Simulator) writeMemCell() {
	if s.MemoryIsFloat {
		s.Timers[s.MemoryStart+s.PtrPos] = s.Timers[s.Config.MemRegCounter()]
		return
	}
	s.Counters[s.MemoryStart+s.PtrPos] = s.Counters[s.Config.MemRegCounter()]
}

func applyOp(op int, lhs, rhs float64) float64 {
	switch op {
	case 0:
		return rhs
	case 1:
		return lhs + rhs
	case 2:
		return lhs - rhs
	case 3:
		return lhs * rhs
	case 4:
		if rhs != 0 {
			return lhs / rhs
		}
		return 0
	case 5:
		if rhs != 0 {
			return math.Floor(lhs / rhs)
		}
		return 0
	default:
		return 0
	}
}

// execArith implements MOV/ADD/SUB/MUL/DIV/FLDIV across all four
// signature shapes: (dest, num) and (dest, item) both use dest's own
// current value as the left operand; (dest, lhs, rhs) takes lhs/rhs
// from the named operands instead.
func (s *Simulator) execArith(op int, args []tasmval.Value) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("sim: arithmetic instruction expects 2 or 3 arguments, got %d", len(args))
	}
	dest := args[0]

	var lhs, rhs float64
	switch len(args) {
	case 2:
		lhs = s.get(dest)
		rhs = s.get(args[1])
	case 3:
		lhs = s.get(args[1])
		rhs = s.get(args[2])
	}

	s.set(dest, applyOp(op, lhs, rhs))
	return nil
}

func compareHolds(key instrset.HandlerKey, lhs, rhs float64) bool {
	switch key {
	case instrset.HSe, instrset.HFe:
		return lhs == rhs
	case instrset.HSne, instrset.HFne:
		return lhs != rhs
	case instrset.HSl, instrset.HFl:
		return lhs < rhs
	case instrset.HSle, instrset.HFle:
		return lhs <= rhs
	case instrset.HSg, instrset.HFg:
		return lhs > rhs
	case instrset.HSge, instrset.HFge:
		return lhs >= rhs
	default:
		return false
	}
}

func (s *Simulator) execCompare2(key instrset.HandlerKey, args []tasmval.Value) error {
	if len(args) != 3 {
		return fmt.Errorf("sim: comparison spawner expects 3 arguments, got %d", len(args))
	}
	lhs := s.get(args[1])
	rhs := s.get(args[2])
	if compareHolds(key, lhs, rhs) {
		return s.spawn(args[0].IntID())
	}
	return nil
}

func (s *Simulator) execCompare4(key instrset.HandlerKey, args []tasmval.Value) error {
	if len(args) != 4 {
		return fmt.Errorf("sim: fork spawner expects 4 arguments, got %d", len(args))
	}
	lhs := s.get(args[2])
	rhs := s.get(args[3])
	if compareHolds(key, lhs, rhs) {
		return s.spawn(args[0].IntID())
	}
	return s.spawn(args[1].IntID())
}
