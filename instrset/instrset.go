// Package instrset is the fixed instruction registry: for every
// mnemonic, whether it is init-only, which InstrKind it belongs to,
// and the ordered list of argument signatures a use of it must match.
// Dispatch downstream is always on the closed HandlerKey enum, never
// on the raw mnemonic string.
package instrset

import "github.com/arrowslasharrow/tasm/tasmval"

// Kind groups mnemonics by the compile-time invariants spec.md §3
// attaches to them.
type Kind int

const (
	Arithmetic Kind = iota
	Init
	Memory
	Timer
	Spawner
	Stopper
	Wait
	Debug
)

func (k Kind) String() string {
	switch k {
	case Arithmetic:
		return "Arithmetic"
	case Init:
		return "Init"
	case Memory:
		return "Memory"
	case Timer:
		return "Timer"
	case Spawner:
		return "Spawner"
	case Stopper:
		return "Stopper"
	case Wait:
		return "Wait"
	case Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// HandlerKey is the closed set of handler implementations. Several
// mnemonics (MOV/ADD/SUB/.../FLDIV, SE/SNE/.../SGE) share shapes but
// each gets its own key so compiler/sim dispatch never falls back to
// string comparison.
type HandlerKey int

const (
	HMalloc HandlerKey = iota
	HFMalloc
	HInitmem
	HPers
	HDisplay
	HIOBlock
	HMFunc
	HMRead
	HMWrite
	HMReset
	HMPtr
	HNop
	HMov
	HAdd
	HSub
	HMul
	HDiv
	HFldiv
	HSpawn
	HSe
	HSne
	HSl
	HSle
	HSg
	HSge
	HFe
	HFne
	HFl
	HFle
	HFg
	HFge
	HBreakpoint
)

// HandlerEntry pairs one accepted call shape with the handler it
// selects. The first matching entry, in declaration order, wins.
type HandlerEntry struct {
	Signature tasmval.Signature
	Key       HandlerKey
}

// Spec describes one mnemonic's compile-time contract.
type Spec struct {
	Mnemonic string
	InitOnly bool
	Kind     Kind
	Handlers []HandlerEntry
}

func arith(key HandlerKey) []HandlerEntry {
	return []HandlerEntry{
		{tasmval.Tuple(tasmval.Item, tasmval.Item, tasmval.Item), key},
		{tasmval.Tuple(tasmval.Item, tasmval.Item, tasmval.PNumber), key},
		{tasmval.Tuple(tasmval.Item, tasmval.Item), key},
		{tasmval.Tuple(tasmval.Item, tasmval.PNumber), key},
	}
}

func compare2(key HandlerKey) []HandlerEntry {
	return []HandlerEntry{
		{tasmval.Tuple(tasmval.PGroup, tasmval.Item, tasmval.Item), key},
		{tasmval.Tuple(tasmval.PGroup, tasmval.Item, tasmval.PNumber), key},
	}
}

func compare4(key HandlerKey) []HandlerEntry {
	return []HandlerEntry{
		{tasmval.Tuple(tasmval.PGroup, tasmval.PGroup, tasmval.Item, tasmval.Item), key},
		{tasmval.Tuple(tasmval.PGroup, tasmval.PGroup, tasmval.Item, tasmval.PNumber), key},
	}
}

// Table is the full instruction registry of spec.md §4.2.
var Table = []Spec{
	{"MALLOC", true, Init, []HandlerEntry{{tasmval.Tuple(tasmval.Int), HMalloc}}},
	{"FMALLOC", true, Init, []HandlerEntry{{tasmval.Tuple(tasmval.Int), HFMalloc}}},
	{"INITMEM", true, Init, []HandlerEntry{{tasmval.List(tasmval.PNumber), HInitmem}}},
	{"PERS", true, Init, []HandlerEntry{{tasmval.Tuple(tasmval.Item), HPers}}},
	{"DISPLAY", true, Init, []HandlerEntry{{tasmval.Tuple(tasmval.Item), HDisplay}}},
	{"IOBLOCK", true, Init, []HandlerEntry{{tasmval.Tuple(tasmval.PGroup, tasmval.Int, tasmval.PString), HIOBlock}}},

	{"MFUNC", false, Memory, []HandlerEntry{{tasmval.Tuple(), HMFunc}}},
	{"MREAD", false, Memory, []HandlerEntry{{tasmval.Tuple(), HMRead}}},
	{"MWRITE", false, Memory, []HandlerEntry{{tasmval.Tuple(), HMWrite}}},
	{"MRESET", false, Memory, []HandlerEntry{{tasmval.Tuple(), HMReset}}},
	{"MPTR", false, Memory, []HandlerEntry{{tasmval.Tuple(tasmval.Int), HMPtr}}},

	{"NOP", false, Wait, []HandlerEntry{{tasmval.Tuple(), HNop}}},

	{"MOV", false, Arithmetic, arith(HMov)},
	{"ADD", false, Arithmetic, arith(HAdd)},
	{"SUB", false, Arithmetic, arith(HSub)},
	{"MUL", false, Arithmetic, arith(HMul)},
	{"DIV", false, Arithmetic, arith(HDiv)},
	{"FLDIV", false, Arithmetic, arith(HFldiv)},

	{"SPAWN", false, Spawner, []HandlerEntry{{tasmval.Tuple(tasmval.PGroup), HSpawn}}},

	{"SE", false, Spawner, compare2(HSe)},
	{"SNE", false, Spawner, compare2(HSne)},
	{"SL", false, Spawner, compare2(HSl)},
	{"SLE", false, Spawner, compare2(HSle)},
	{"SG", false, Spawner, compare2(HSg)},
	{"SGE", false, Spawner, compare2(HSge)},

	{"FE", false, Spawner, compare4(HFe)},
	{"FNE", false, Spawner, compare4(HFne)},
	{"FL", false, Spawner, compare4(HFl)},
	{"FLE", false, Spawner, compare4(HFle)},
	{"FG", false, Spawner, compare4(HFg)},
	{"FGE", false, Spawner, compare4(HFge)},

	{"BREAKPOINT", false, Debug, []HandlerEntry{{tasmval.Tuple(), HBreakpoint}}},
}

// byMnemonic indexes Table for Lookup.
var byMnemonic = func() map[string]*Spec {
	m := make(map[string]*Spec, len(Table))
	for i := range Table {
		m[Table[i].Mnemonic] = &Table[i]
	}
	return m
}()

// Lookup returns the Spec for a mnemonic, or false if unrecognized.
func Lookup(mnemonic string) (*Spec, bool) {
	s, ok := byMnemonic[mnemonic]
	return s, ok
}

// Match finds the first handler entry whose signature fits args,
// returning the chosen key. The second result is false if no
// signature in the spec matches.
func (s *Spec) Match(args []tasmval.Value) (HandlerKey, bool) {
	for _, h := range s.Handlers {
		if h.Signature.Matches(args) {
			return h.Key, true
		}
	}
	return 0, false
}
