package lexer

import (
	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/tasmval"
)

// EntryPoint and InitRoutine are the two reserved routine idents.
const (
	EntryPoint  = "_start"
	InitRoutine = "_init"
)

// initSentinelGroup marks the _init routine in the routine→group map
// built during pass 1, so pass 2 can reject SPAWN-like references to it.
const initSentinelGroup int16 = -1

// Instruction is one fully resolved instruction: its mnemonic kind,
// source line, resolved argument values and the handler key the
// signature matcher selected.
type Instruction struct {
	Mnemonic   string
	Kind       instrset.Kind
	SourceLine int
	Args       []tasmval.Value
	HandlerKey instrset.HandlerKey
}

// Routine is a named, ordered sequence of resolved instructions.
type Routine struct {
	Ident        string
	Group        int16
	Instructions []Instruction
}

// Namespace is the lexer's output: every routine, resolved and ready
// for the compiler driver to walk in source order. Order lists idents
// in source declaration order with _init moved to the front, matching
// the reference lexer's "process _init before anything else" rule.
type Namespace struct {
	Order    []string
	Routines map[string]*Routine
}
