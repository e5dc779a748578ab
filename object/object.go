// Package object defines the host-object representation the compiler
// driver emits into, and the Sink it writes through. The host engine's
// own level-serialisation library (gdlib) is an excluded external
// collaborator per the spec's non-goals, so Object is a minimal,
// self-contained stand-in for the structures that library would
// otherwise own.
package object

// Kind enumerates the trigger/block categories the compiler driver
// places. It is a closed set matched against what MALLOC synthesis and
// the instruction handlers actually need, not a full host catalogue.
type Kind int

const (
	Block Kind = iota
	CollisionTrigger
	ItemEditTrigger
	MoveTrigger
	CounterDisplay
	SpawnTrigger
	StopTrigger
	PickupTrigger
	InstantCountTrigger
	TextLabel
)

func (k Kind) String() string {
	switch k {
	case Block:
		return "Block"
	case CollisionTrigger:
		return "CollisionTrigger"
	case ItemEditTrigger:
		return "ItemEditTrigger"
	case MoveTrigger:
		return "MoveTrigger"
	case CounterDisplay:
		return "CounterDisplay"
	case SpawnTrigger:
		return "SpawnTrigger"
	case StopTrigger:
		return "StopTrigger"
	case PickupTrigger:
		return "PickupTrigger"
	case InstantCountTrigger:
		return "InstantCountTrigger"
	case TextLabel:
		return "TextLabel"
	default:
		return "Unknown"
	}
}

// Object is one placed host object: a block or trigger at a position,
// optionally a member of one or more groups.
type Object struct {
	Kind         Kind
	X            float64
	Y            float64
	Groups       []int16
	Scale        float64
	Spawnable    bool
	Multitrigger bool

	// Item/target fields, populated per Kind by the handler that
	// constructs the object. Not every field applies to every kind.
	TargetGroup int16
	ItemA       int16
	ItemB       int16
	Operator    int
	Compare     float64
	Text        string
}

// Sink is the one-method interface the compiler driver emits objects
// into. Production code writes to a LevelWriter; tests write to a
// SliceSink.
type Sink interface {
	Write(obj Object)
}

// SliceSink collects every object written to it, in order — the
// simplest possible Sink, used throughout the compiler's test suite.
type SliceSink struct {
	Objects []Object
}

func (s *SliceSink) Write(obj Object) {
	s.Objects = append(s.Objects, obj)
}
