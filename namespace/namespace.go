// Package namespace is the compiled-namespace wire format of spec.md
// §6: the JSON document the simulator reads, built from a resolved
// lexer.Namespace independently of the compiler driver's host-object
// placement pass.
package namespace

import (
	"encoding/json"

	"github.com/arrowslasharrow/tasm/instrset"
	"github.com/arrowslasharrow/tasm/lexer"
)

// Instruction is one wire-format instruction: a command name, the
// handler key the simulator dispatches on, and textual argument tokens.
type Instruction struct {
	Command string   `json:"command"`
	Idx     int      `json:"idx"`
	Args    []string `json:"args"`
}

// Routine is one wire-format routine.
type Routine struct {
	Group        int16         `json:"group"`
	Instructions []Instruction `json:"instructions"`
}

// Namespace is the top-level wire document: ident → Routine.
type Namespace struct {
	Routines map[string]Routine `json:"routines"`
}

// FromCompiled builds the wire-format Namespace from a resolved
// lexer.Namespace. idx is the instruction's HandlerKey. All operand
// shapes of an arithmetic mnemonic share one HandlerKey, so idx does not
// encode the operand shape; the simulator tells those shapes apart by
// argument count.
func FromCompiled(ns *lexer.Namespace) *Namespace {
	out := &Namespace{Routines: make(map[string]Routine, len(ns.Routines))}

	for ident, routine := range ns.Routines {
		instrs := make([]Instruction, len(routine.Instructions))
		for i, instr := range routine.Instructions {
			args := make([]string, len(instr.Args))
			for j, a := range instr.Args {
				args[j] = a.String()
			}
			instrs[i] = Instruction{
				Command: instr.Mnemonic,
				Idx:     int(instr.HandlerKey),
				Args:    args,
			}
		}
		out.Routines[ident] = Routine{Group: routine.Group, Instructions: instrs}
	}

	return out
}

// Marshal serialises the Namespace to JSON.
func (n *Namespace) Marshal() ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// Unmarshal parses a JSON namespace document.
func Unmarshal(data []byte) (*Namespace, error) {
	var ns Namespace
	if err := json.Unmarshal(data, &ns); err != nil {
		return nil, err
	}
	return &ns, nil
}

// HandlerKeyValue reinterprets the wire-format idx as the instrset handler
// key the simulator should dispatch to for this instruction's command.
func (i Instruction) HandlerKeyValue() instrset.HandlerKey {
	return instrset.HandlerKey(i.Idx)
}
