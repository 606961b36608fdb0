// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"math"

	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/zclconf/go-cty/cty"
)

// ButtonToAxis outputs Value while its button is pressed and 0 otherwise.
type ButtonToAxis struct {
	Value float64
}

func NewButtonToAxis() *graph.Node {
	n := graph.NewNode("button_to_axis", "Button to Axis", &ButtonToAxis{Value: 1})
	n.AddInput("In", graph.KindButton)
	n.AddOutput("Out", graph.KindAxis)
	return n
}

func (b *ButtonToAxis) Update(n *graph.Node, _ *graph.Env) {
	v := 0.0
	if n.Input(0).Bool() {
		v = clamp(b.Value, -1, 1)
	}
	n.Output(0).SetFloat(v)
}

func (b *ButtonToAxis) Attrs() map[string]cty.Value {
	return map[string]cty.Value{"value": number(b.Value)}
}

func (b *ButtonToAxis) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"value": &b.Value}.apply(attrs)
}

// AxisToButton is pressed while the absolute axis value reaches Threshold.
type AxisToButton struct {
	Threshold float64
}

func NewAxisToButton() *graph.Node {
	n := graph.NewNode("axis_to_button", "Axis to Button", &AxisToButton{Threshold: 0.5})
	n.AddInput("In", graph.KindAxis)
	n.AddOutput("Out", graph.KindButton)
	return n
}

func (a *AxisToButton) Update(n *graph.Node, _ *graph.Env) {
	n.Output(0).SetBool(math.Abs(n.Input(0).Float()) >= a.Threshold)
}

func (a *AxisToButton) Attrs() map[string]cty.Value {
	return map[string]cty.Value{"threshold": number(a.Threshold)}
}

func (a *AxisToButton) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"threshold": &a.Threshold}.apply(attrs)
}

// mapper applies a fixed function from one float pin to another.
type mapper func(float64) float64

func (m mapper) Update(n *graph.Node, _ *graph.Env) {
	n.Output(0).SetFloat(m(n.Input(0).Float()))
}

func NewInvert() *graph.Node {
	n := graph.NewNode("invert", "Invert", mapper(func(v float64) float64 { return -v }))
	n.AddInput("In", graph.KindAxis)
	n.AddOutput("Out", graph.KindAxis)
	return n
}

// NewAxisToHalf maps [-1, 1] onto [0, 1].
func NewAxisToHalf() *graph.Node {
	n := graph.NewNode("axis_to_half", "Axis to Half Axis", mapper(func(v float64) float64 {
		return clamp((v+1)/2, 0, 1)
	}))
	n.AddInput("In", graph.KindAxis)
	n.AddOutput("Out", graph.KindHalfAxis)
	return n
}

// NewHalfToAxis maps [0, 1] onto [-1, 1].
func NewHalfToAxis() *graph.Node {
	n := graph.NewNode("half_to_axis", "Half Axis to Axis", mapper(func(v float64) float64 {
		return clamp(v*2-1, -1, 1)
	}))
	n.AddInput("In", graph.KindHalfAxis)
	n.AddOutput("Out", graph.KindAxis)
	return n
}

// HatToButtons splits a hat into one button per direction.
type HatToButtons struct{}

func NewHatToButtons() *graph.Node {
	n := graph.NewNode("hat_to_buttons", "Hat to Buttons", HatToButtons{})
	n.AddInput("In", graph.KindHat)
	for _, d := range hid.HatDirections {
		n.AddOutput(d.String(), graph.KindButton)
	}
	return n
}

func (HatToButtons) Update(n *graph.Node, _ *graph.Env) {
	h := n.Input(0).Hat()
	for i, d := range hid.HatDirections {
		n.Output(i).SetBool(h.Has(d))
	}
}

// ButtonsToHat merges four direction buttons into a hat.
type ButtonsToHat struct{}

func NewButtonsToHat() *graph.Node {
	n := graph.NewNode("buttons_to_hat", "Buttons to Hat", ButtonsToHat{})
	for _, d := range hid.HatDirections {
		n.AddInput(d.String(), graph.KindButton)
	}
	n.AddOutput("Out", graph.KindHat)
	return n
}

func (ButtonsToHat) Update(n *graph.Node, _ *graph.Env) {
	var h hid.Hat
	for i, d := range hid.HatDirections {
		if n.Input(i).Bool() {
			h |= d
		}
	}
	n.Output(0).SetHat(h)
}

// AxisMix sums its axis inputs. More axis or half-axis inputs are added
// through its Add pin.
type AxisMix struct{}

func NewAxisMix() *graph.Node {
	n := graph.NewNode("axis_mix", "Axis Mix", AxisMix{})
	n.AddInput("A", graph.KindAxis)
	n.AddInput("B", graph.KindAxis)
	n.SetInputPlaceholder("Add", graph.KindAddAxis)
	n.AddOutput("Out", graph.KindAxis)
	return n
}

func (AxisMix) Update(n *graph.Node, _ *graph.Env) {
	sum := 0.0
	for _, p := range n.Inputs() {
		sum += p.Float()
	}
	n.Output(0).SetFloat(clamp(sum, -1, 1))
}
