package block

import (
	"fmt"

	"github.com/matzehuels/plotline/pkg/value"
)

// ID identifies a block or a port. IDs are unique within one [IDAllocator].
type ID uint64

// IDAllocator hands out increasing IDs starting at 1. The zero value is
// ready to use. It is not safe for concurrent use; each graph owns one.
type IDAllocator struct {
	last ID
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() ID {
	a.last++
	return a.last
}

// Last returns the most recently issued ID, or 0.
func (a *IDAllocator) Last() ID { return a.last }

// Direction tells whether a port consumes or produces values.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Port is a named, typed connection point on a block. For inputs, Value is
// the default used while nothing is wired in; for outputs it only declares
// the kind.
type Port struct {
	ID        ID
	Owner     ID
	Name      string
	Value     value.Value
	Direction Direction
}

// PortSpec is a port template declared by a [Kind].
type PortSpec struct {
	Name    string
	Default value.Value
}

// Num declares a number port with the given default.
func Num(name string, def float64) PortSpec { return PortSpec{Name: name, Default: value.Num(def)} }

// Pt declares a point port defaulting to the origin.
func Pt(name string) PortSpec { return PortSpec{Name: name, Default: value.Point(0, 0)} }

// Layout is the port shape of a block kind.
type Layout struct {
	Inputs  []PortSpec
	Outputs []PortSpec

	// Flatten collects iterated inputs into list values so the block runs
	// once per pass instead of once per element.
	Flatten bool
}

// Kind is the behavior of a block. Run receives one resolved value per
// input port and returns one result per output port, in port order, or nil
// when the block only draws. Kinds must not keep state between calls.
type Kind interface {
	Name() string
	Ports() Layout
	Run(in []value.Value, rc *RunContext) []value.Result
}

// Block is a placed instance of a [Kind] with its own ports.
type Block struct {
	ID            ID
	Name          string
	Kind          Kind
	Inputs        []*Port
	Outputs       []*Port
	FlattenInputs bool

	// X and Y are the block's position on the editor canvas.
	X, Y float64
}

// New instantiates kind, drawing the block and port IDs from ids.
func New(kind Kind, ids *IDAllocator) *Block {
	l := kind.Ports()
	b := &Block{
		ID:            ids.Next(),
		Kind:          kind,
		FlattenInputs: l.Flatten,
	}
	b.Name = fmt.Sprintf("%d %s", b.ID, kind.Name())
	for _, s := range l.Inputs {
		b.Inputs = append(b.Inputs, &Port{ID: ids.Next(), Owner: b.ID, Name: s.Name, Value: s.Default, Direction: Input})
	}
	for _, s := range l.Outputs {
		b.Outputs = append(b.Outputs, &Port{ID: ids.Next(), Owner: b.ID, Name: s.Name, Value: s.Default, Direction: Output})
	}
	return b
}

// Input returns the input port with the given name, or nil.
func (b *Block) Input(name string) *Port { return find(b.Inputs, name) }

// Output returns the output port with the given name, or nil.
func (b *Block) Output(name string) *Port { return find(b.Outputs, name) }

// Ports returns inputs followed by outputs.
func (b *Block) Ports() []*Port {
	out := make([]*Port, 0, len(b.Inputs)+len(b.Outputs))
	out = append(out, b.Inputs...)
	return append(out, b.Outputs...)
}

func find(ports []*Port, name string) *Port {
	for _, p := range ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}
