package registry

import (
	"fmt"

	"github.com/mradosav-amd/cache/pkg/codec"
	"github.com/mradosav-amd/cache/pkg/sample"
)

// Decoder reconstructs a sample.Type value from a payload reader. r is
// positioned at the start of the payload (immediately after the record
// header) and must be fully consumed by a correct Decoder, matching the
// ByteSize the type reported when it was serialized.
type Decoder func(r *codec.Reader) (sample.Type, error)

// Registration binds one sample.TypeID to its Decoder. Build one with
// Register.
type Registration struct {
	ID      sample.TypeID
	Decode  Decoder
	label   string
}

// Register binds TypeID id to T's decode function, type-erasing T into the
// sample.Type interface that Registry.Lookup callers receive. decode is
// typically a package-level function such as telemetry.DeserializeTrackSample.
func Register[T sample.Type](id sample.TypeID, decode func(r *codec.Reader) (T, error)) Registration {
	var zero T
	return Registration{
		ID: id,
		Decode: func(r *codec.Reader) (sample.Type, error) {
			return decode(r)
		},
		label: fmt.Sprintf("%T", zero),
	}
}

// Registry looks up a Decoder by the TypeID it was registered under.
type Registry struct {
	decoders map[sample.TypeID]Decoder
	labels   map[sample.TypeID]string
}

// New builds a Registry from regs, rejecting a Registration that reuses
// sample.FragmentedSpace (reserved for the arena's fragmentation fillers)
// or that collides with an identifier already registered.
func New(regs ...Registration) (*Registry, error) {
	reg := &Registry{
		decoders: make(map[sample.TypeID]Decoder, len(regs)),
		labels:   make(map[sample.TypeID]string, len(regs)),
	}
	for _, r := range regs {
		if r.ID == sample.FragmentedSpace {
			return nil, fmt.Errorf("registry: type %s cannot use reserved identifier %#x", r.label, uint32(sample.FragmentedSpace))
		}
		if existing, ok := reg.labels[r.ID]; ok {
			return nil, fmt.Errorf("registry: identifier %#x already registered to %s, cannot also register %s", uint32(r.ID), existing, r.label)
		}
		reg.decoders[r.ID] = r.Decode
		reg.labels[r.ID] = r.label
	}
	return reg, nil
}

// Lookup returns the Decoder bound to id, and false if no type is
// registered under it.
func (r *Registry) Lookup(id sample.TypeID) (Decoder, bool) {
	d, ok := r.decoders[id]
	return d, ok
}

// Decode is a convenience wrapper around Lookup that produces an error
// naming the unrecognized identifier instead of a bare boolean.
func (r *Registry) Decode(id sample.TypeID, payload *codec.Reader) (sample.Type, error) {
	d, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("registry: no type registered for identifier %#x", uint32(id))
	}
	return d(payload)
}
