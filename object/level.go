package object

import (
	"encoding/json"
	"fmt"
	"os"
)

// levelObject is the JSON wire shape for one exported object. Field
// names are stable across versions since this is a user-facing export
// format, not an internal detail.
type levelObject struct {
	Kind         string  `json:"kind"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Groups       []int16 `json:"groups,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	Spawnable    bool    `json:"spawnable,omitempty"`
	Multitrigger bool    `json:"multitrigger,omitempty"`
	TargetGroup  int16   `json:"target_group,omitempty"`
	ItemA        int16   `json:"item_a,omitempty"`
	ItemB        int16   `json:"item_b,omitempty"`
	Operator     int     `json:"operator,omitempty"`
	Compare      float64 `json:"compare,omitempty"`
	Text         string  `json:"text,omitempty"`
}

// levelDocument is the top-level "gmd" export: a flat JSON document
// standing in for the host's own (unspecified-by-the-spec) on-disk
// level format.
type levelDocument struct {
	Name    string        `json:"name"`
	Objects []levelObject `json:"objects"`
}

// LevelWriter is a Sink that accumulates objects and serialises them
// as a "gmd" level export on Flush.
type LevelWriter struct {
	Name    string
	objects []Object
}

// NewLevelWriter creates a LevelWriter for the given level name.
func NewLevelWriter(name string) *LevelWriter {
	return &LevelWriter{Name: name}
}

func (w *LevelWriter) Write(obj Object) {
	w.objects = append(w.objects, obj)
}

// Len reports how many objects have been written so far.
func (w *LevelWriter) Len() int {
	return len(w.objects)
}

// Flush serialises every object written so far to path as a JSON "gmd"
// document.
func (w *LevelWriter) Flush(path string) error {
	doc := levelDocument{Name: w.Name, Objects: make([]levelObject, len(w.objects))}
	for i, obj := range w.objects {
		doc.Objects[i] = levelObject{
			Kind:         obj.Kind.String(),
			X:            obj.X,
			Y:            obj.Y,
			Groups:       obj.Groups,
			Scale:        obj.Scale,
			Spawnable:    obj.Spawnable,
			Multitrigger: obj.Multitrigger,
			TargetGroup:  obj.TargetGroup,
			ItemA:        obj.ItemA,
			ItemB:        obj.ItemB,
			Operator:     obj.Operator,
			Compare:      obj.Compare,
			Text:         obj.Text,
		}
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified output path
	if err != nil {
		return fmt.Errorf("failed to create level file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode level: %w", err)
	}
	return nil
}
