// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"strconv"

	"github.com/vk/controlgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Toggle flips between its two outputs each time its trigger fires.
type Toggle struct {
	On bool
}

func NewToggle() *graph.Node {
	t := &Toggle{}
	n := graph.NewNode("toggle", "Toggle", t)
	n.AddInput("In", graph.KindTrigger)
	n.AddOutput("A", graph.KindButton).SetBool(true)
	n.AddOutput("B", graph.KindButton)
	return n
}

func (t *Toggle) Update(n *graph.Node, _ *graph.Env) {
	if n.Input(0).Bool() {
		t.On = !t.On
	}
	n.Output(0).SetBool(!t.On)
	n.Output(1).SetBool(t.On)
}

func (t *Toggle) Attrs() map[string]cty.Value {
	return map[string]cty.Value{"on": cty.BoolVal(t.On)}
}

func (t *Toggle) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"on": &t.On}.apply(attrs)
}

// Selector asserts exactly one of its outputs. Next and Prev move the
// selection, wrapping around. Outputs are added through its Add-Button pin.
type Selector struct {
	Index int
}

func NewSelector() *graph.Node {
	n := graph.NewNode("selector", "Selector", &Selector{})
	n.AddInput("Next", graph.KindTrigger)
	n.AddInput("Prev", graph.KindTrigger)
	n.AddOutput("1", graph.KindButton).SetBool(true)
	n.AddOutput("2", graph.KindButton)
	n.SetOutputPlaceholder("Add", graph.KindAddButton)
	return n
}

func (s *Selector) Update(n *graph.Node, _ *graph.Env) {
	outs := n.Outputs()
	count := len(outs)
	if count == 0 {
		return
	}
	if n.Input(0).Bool() {
		s.Index++
	}
	if n.Input(1).Bool() {
		s.Index--
	}
	s.Index = ((s.Index % count) + count) % count
	for i, p := range outs {
		p.SetBool(i == s.Index)
	}
}

// PinAdded names a grown output after its position.
func (s *Selector) PinAdded(n *graph.Node, p *graph.Pin) {
	if p.Dir() == graph.Output {
		p.SetName(strconv.Itoa(len(n.Outputs())))
	}
}

// PinRemoved renumbers the outputs after a grown one is removed and keeps
// the selection on the same pin when it survives.
func (s *Selector) PinRemoved(n *graph.Node, p *graph.Pin, index int) {
	if p.Dir() != graph.Output {
		return
	}
	outs := n.Outputs()
	for i, out := range outs {
		out.SetName(strconv.Itoa(i + 1))
	}
	if s.Index > index {
		s.Index--
	}
	if count := len(outs); count > 0 {
		s.Index = ((s.Index % count) + count) % count
		for i, out := range outs {
			out.SetBool(i == s.Index)
		}
	}
}

func (s *Selector) Attrs() map[string]cty.Value {
	return map[string]cty.Value{"index": integer(s.Index)}
}

func (s *Selector) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"index": &s.Index}.apply(attrs)
}

// Gated passes or holds pairs of pins depending on a gate button. The first
// input is the gate; input i+1 pairs with output i. Pairs are grown through
// either Add pin, which creates the opposite pin as well.
type Gated struct {
	// passWhen is the gate level at which values flow through.
	passWhen bool
}

func newGated(typeName, name string, passWhen bool) *graph.Node {
	n := graph.NewNode(typeName, name, &Gated{passWhen: passWhen})
	n.AddInput("Gate", graph.KindButton)
	n.SetInputPlaceholder("Add", graph.KindAdd)
	n.SetOutputPlaceholder("Add", graph.KindAdd)
	return n
}

// NewFilter passes its pairs while the gate is pressed.
func NewFilter() *graph.Node { return newGated("filter", "Filter", true) }

// NewMemory passes its pairs while the gate is released and holds them
// while it is pressed.
func NewMemory() *graph.Node { return newGated("memory", "Memory", false) }

func (g *Gated) Update(n *graph.Node, _ *graph.Env) {
	ins := n.Inputs()
	if len(ins) == 0 || ins[0].Bool() != g.passWhen {
		return
	}
	for i, out := range n.Outputs() {
		if i+1 >= len(ins) {
			break
		}
		out.CopyValue(ins[i+1])
	}
}

func (g *Gated) PinAdded(n *graph.Node, p *graph.Pin) {
	if p.Dir() == graph.Input {
		kind := p.Kind()
		if kind == graph.KindTrigger {
			kind = graph.KindButton
		}
		n.GrowOutput(p.Name(), kind)
		return
	}
	n.GrowInput(p.Name(), p.Kind())
}

// PinRemoved removes the partner of a removed pin so later pairs stay
// aligned.
func (g *Gated) PinRemoved(n *graph.Node, p *graph.Pin, index int) {
	ins, outs := n.Inputs(), n.Outputs()
	var partner *graph.Pin
	switch {
	case p.Dir() == graph.Input && index >= 1 && len(ins) == len(outs):
		partner = outs[index-1]
	case p.Dir() == graph.Output && len(ins) == len(outs)+2:
		partner = ins[index+1]
	}
	if partner != nil {
		// Partners are grown together with their pin, so they are dynamic.
		_ = n.RemovePin(partner)
	}
}

// Ramp turns a held button into a half axis that rises at RampUp per second
// while pressed and falls at Decay per second once released.
type Ramp struct {
	RampUp float64
	Decay  float64
}

func NewRamp() *graph.Node {
	n := graph.NewNode("ramp", "Ramp", &Ramp{RampUp: 2, Decay: 1})
	n.AddInput("In", graph.KindButton)
	n.AddOutput("Out", graph.KindHalfAxis)
	return n
}

func (r *Ramp) Update(n *graph.Node, env *graph.Env) {
	dt := env.Delta.Seconds()
	out := n.Output(0)
	v := out.Float()
	if n.Input(0).Bool() {
		v += r.RampUp * dt
	} else {
		v -= r.Decay * dt
	}
	out.SetFloat(clamp(v, 0, 1))
}

func (r *Ramp) Attrs() map[string]cty.Value {
	return map[string]cty.Value{
		"ramp_up": number(r.RampUp),
		"decay":   number(r.Decay),
	}
}

func (r *Ramp) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"ramp_up": &r.RampUp, "decay": &r.Decay}.apply(attrs)
}
