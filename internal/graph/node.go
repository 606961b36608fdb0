// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Behavior is the evaluation step of a node type. Update reads the node's
// already-refreshed input pins and writes its output pins (and, for sinks,
// performs the external side effect).
type Behavior interface {
	Update(n *Node, env *Env)
}

// Previewer is implemented by control sinks. Simulate calls Preview instead of
// Update so the sink can show what it would do without doing it.
type Previewer interface {
	Preview(n *Node, env *Env)
}

// Grower is implemented by behaviors that react to a pin synthesized from one
// of their placeholders, e.g. to add the paired pin on the opposite side.
type Grower interface {
	PinAdded(n *Node, p *Pin)
}

// Shrinker is implemented by behaviors that match pins by position. It is
// called after a dynamic pin was removed; index is the position the pin had
// among the node's pins of its direction.
type Shrinker interface {
	PinRemoved(n *Node, p *Pin, index int)
}

// Configurable is implemented by behaviors with per-type settings that are
// persisted alongside the node.
type Configurable interface {
	Attrs() map[string]cty.Value
	SetAttrs(attrs map[string]cty.Value) error
}

// Shaper is implemented by behaviors whose pin layout depends on their
// settings. Loaders call Shape after SetAttrs and before restoring pins.
type Shaper interface {
	Shape(n *Node)
}

// Point is a node's position on the editor canvas.
type Point struct {
	X, Y float64
}

// Node is a vertex of the graph.
type Node struct {
	id       ID
	typeName string
	name     string
	behavior Behavior

	Position Point

	sink      bool
	device    bool
	hidden    bool
	deletable bool

	inputs  []*Pin
	outputs []*Pin
	addIn   *Pin
	addOut  *Pin

	parents  []ID
	children []ID

	owner *Graph
}

// NewNode creates a detached node. Pins are declared with AddInput and
// AddOutput before the node is handed to Graph.CreateNode.
func NewNode(typeName, name string, b Behavior) *Node {
	return &Node{
		typeName:  typeName,
		name:      name,
		behavior:  b,
		deletable: true,
	}
}

func (n *Node) ID() ID             { return n.id }
func (n *Node) Type() string       { return n.typeName }
func (n *Node) Name() string       { return n.name }
func (n *Node) SetName(s string)   { n.name = s }
func (n *Node) Behavior() Behavior { return n.behavior }
func (n *Node) IsSink() bool       { return n.sink }
func (n *Node) IsDeviceSource() bool {
	return n.device
}
func (n *Node) Hidden() bool    { return n.hidden }
func (n *Node) Deletable() bool { return n.deletable }

// MarkSink flags the node as a control sink.
func (n *Node) MarkSink() *Node {
	n.sink = true
	return n
}

// MarkDeviceSource flags the node as a device source.
func (n *Node) MarkDeviceSource() *Node {
	n.device = true
	return n
}

func (n *Node) SetHidden(v bool)    { n.hidden = v }
func (n *Node) SetDeletable(v bool) { n.deletable = v }

// Inputs returns the concrete input pins in declared order.
func (n *Node) Inputs() []*Pin { return n.inputs }

// Outputs returns the concrete output pins in declared order.
func (n *Node) Outputs() []*Pin { return n.outputs }

// Input returns the i-th input pin or nil.
func (n *Node) Input(i int) *Pin {
	if i < 0 || i >= len(n.inputs) {
		return nil
	}
	return n.inputs[i]
}

// Output returns the i-th output pin or nil.
func (n *Node) Output(i int) *Pin {
	if i < 0 || i >= len(n.outputs) {
		return nil
	}
	return n.outputs[i]
}

// InputPlaceholder returns the input "Add" pin, if the node has one.
func (n *Node) InputPlaceholder() *Pin { return n.addIn }

// OutputPlaceholder returns the output "Add" pin, if the node has one.
func (n *Node) OutputPlaceholder() *Pin { return n.addOut }

// Parents returns the ids of nodes feeding this node, as of the last Recompute.
func (n *Node) Parents() []ID { return append([]ID(nil), n.parents...) }

// Children returns the ids of nodes fed by this node, as of the last Recompute.
func (n *Node) Children() []ID { return append([]ID(nil), n.children...) }

// AddInput appends a concrete input pin.
func (n *Node) AddInput(name string, kind Kind) *Pin {
	p := newPin(name, kind, Input)
	n.inputs = append(n.inputs, p)
	n.attach(p)
	return p
}

// AddOutput appends a concrete output pin.
func (n *Node) AddOutput(name string, kind Kind) *Pin {
	p := newPin(name, kind, Output)
	n.outputs = append(n.outputs, p)
	n.attach(p)
	return p
}

// GrowInput appends a dynamic input pin, the same way linking to the input
// placeholder would.
func (n *Node) GrowInput(name string, kind Kind) *Pin {
	p := n.AddInput(name, kind)
	p.dynamic = true
	return p
}

// GrowOutput appends a dynamic output pin.
func (n *Node) GrowOutput(name string, kind Kind) *Pin {
	p := n.AddOutput(name, kind)
	p.dynamic = true
	return p
}

// SetInputPlaceholder gives the node an input "Add" pin of the given kind.
func (n *Node) SetInputPlaceholder(name string, kind Kind) *Pin {
	p := newPin(name, kind, Input)
	n.addIn = p
	n.attach(p)
	return p
}

// SetOutputPlaceholder gives the node an output "Add" pin of the given kind.
func (n *Node) SetOutputPlaceholder(name string, kind Kind) *Pin {
	p := newPin(name, kind, Output)
	n.addOut = p
	n.attach(p)
	return p
}

// attach registers a pin with the owning graph when the node is already part
// of one. Pins of detached nodes are registered by CreateNode.
func (n *Node) attach(p *Pin) {
	if n.owner == nil {
		return
	}
	n.owner.registerPin(n, p)
	n.owner.dirty = true
}

// allPins lists concrete pins followed by placeholders.
func (n *Node) allPins() []*Pin {
	pins := make([]*Pin, 0, len(n.inputs)+len(n.outputs)+2)
	pins = append(pins, n.inputs...)
	pins = append(pins, n.outputs...)
	if n.addIn != nil {
		pins = append(pins, n.addIn)
	}
	if n.addOut != nil {
		pins = append(pins, n.addOut)
	}
	return pins
}

// RemovePin removes one of the node's dynamic pins. On an attached node
// this is Graph.RemovePin, links included.
func (n *Node) RemovePin(p *Pin) error {
	if n.owner != nil {
		return n.owner.RemovePin(p.id)
	}
	if !p.dynamic {
		return fmt.Errorf("remove pin %q: %w", p.name, ErrPinNotRemovable)
	}
	n.dropPin(p)
	return nil
}

// dropPin detaches p from the pin lists and notifies the behavior.
func (n *Node) dropPin(p *Pin) {
	index := n.removePin(p)
	if index < 0 {
		return
	}
	if s, ok := n.behavior.(Shrinker); ok {
		s.PinRemoved(n, p, index)
	}
}

func (n *Node) removePin(p *Pin) int {
	list := &n.inputs
	if p.dir == Output {
		list = &n.outputs
	}
	for i, q := range *list {
		if q == p {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return i
		}
	}
	return -1
}
