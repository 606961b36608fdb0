// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import "github.com/vk/controlgrid/internal/graph"

type gateOp int

const (
	opAnd gateOp = iota
	opOr
	opXor
)

// Gate combines any number of button inputs into one button output.
type Gate struct {
	op gateOp
}

func newGate(typeName, name string, op gateOp) *graph.Node {
	n := graph.NewNode(typeName, name, &Gate{op: op})
	n.AddInput("A", graph.KindButton)
	n.AddInput("B", graph.KindButton)
	n.SetInputPlaceholder("Add", graph.KindAddButton)
	n.AddOutput("Out", graph.KindButton)
	return n
}

// NewAnd returns a gate that is pressed when every input is.
func NewAnd() *graph.Node { return newGate("and", "And", opAnd) }

// NewOr returns a gate that is pressed when any input is.
func NewOr() *graph.Node { return newGate("or", "Or", opOr) }

// NewXor returns a gate that is pressed when an odd number of inputs are.
func NewXor() *graph.Node { return newGate("xor", "Xor", opXor) }

func (g *Gate) Update(n *graph.Node, _ *graph.Env) {
	ins := n.Inputs()
	var out bool
	switch g.op {
	case opAnd:
		out = len(ins) > 0
		for _, p := range ins {
			out = out && p.Bool()
		}
	case opOr:
		for _, p := range ins {
			out = out || p.Bool()
		}
	case opXor:
		for _, p := range ins {
			out = out != p.Bool()
		}
	}
	n.Output(0).SetBool(out)
}

// Not inverts a button.
type Not struct{}

func NewNot() *graph.Node {
	n := graph.NewNode("not", "Not", Not{})
	n.AddInput("In", graph.KindButton)
	n.AddOutput("Out", graph.KindButton)
	return n
}

func (Not) Update(n *graph.Node, _ *graph.Env) {
	n.Output(0).SetBool(!n.Input(0).Bool())
}
