// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/graph"
)

// Attitude writes rotation, translation and throttle into the thrust
// channel array. Input order matches controls.Channel.
type Attitude struct {
	// Last holds the values seen by the most recent pass, live or preview.
	Last [controls.NumChannels]float64
}

func NewAttitude() *graph.Node {
	n := graph.NewNode("attitude", "Attitude", &Attitude{}).MarkSink()
	for c := controls.Channel(0); c < controls.NumChannels; c++ {
		kind := graph.KindAxis
		if c == controls.Throttle {
			kind = graph.KindHalfAxis
		}
		n.AddInput(c.String(), kind)
	}
	return n
}

func (a *Attitude) read(n *graph.Node) {
	for i := range a.Last {
		if p := n.Input(i); p != nil {
			a.Last[i] = p.Float()
		}
	}
}

func (a *Attitude) Update(n *graph.Node, env *graph.Env) {
	a.read(n)
	for i, v := range a.Last {
		env.Frame.Add(controls.Channel(i), v)
	}
}

func (a *Attitude) Preview(n *graph.Node, _ *graph.Env) { a.read(n) }

// Aero writes the aerodynamic surfaces into the aero channel array.
type Aero struct {
	Last [controls.NumAero]float64
}

func NewAero() *graph.Node {
	n := graph.NewNode("aero", "Aero Surfaces", &Aero{}).MarkSink()
	for c := controls.AeroChannel(0); c < controls.NumAero; c++ {
		kind := graph.KindAxis
		if c == controls.AeroFlaps || c == controls.AeroBrakes {
			kind = graph.KindHalfAxis
		}
		n.AddInput(c.String(), kind)
	}
	return n
}

func (a *Aero) read(n *graph.Node) {
	for i := range a.Last {
		if p := n.Input(i); p != nil {
			a.Last[i] = p.Float()
		}
	}
}

func (a *Aero) Update(n *graph.Node, env *graph.Env) {
	a.read(n)
	for i, v := range a.Last {
		env.Frame.AddAero(controls.AeroChannel(i), v)
	}
}

func (a *Aero) Preview(n *graph.Node, _ *graph.Env) { a.read(n) }

// command is a sink whose effect is a set of vehicle calls. Its preview step
// does nothing.
type command func(n *graph.Node, env *graph.Env)

func (c command) Update(n *graph.Node, env *graph.Env) { c(n, env) }

func (command) Preview(*graph.Node, *graph.Env) {}

func NewCamera() *graph.Node {
	n := graph.NewNode("camera", "Camera", command(func(n *graph.Node, env *graph.Env) {
		if n.Input(0).Bool() {
			env.Vehicle.CycleCamera(1)
		}
		if n.Input(1).Bool() {
			env.Vehicle.CycleCamera(-1)
		}
		env.Vehicle.PanCamera(n.Input(2).Float(), n.Input(3).Float())
	})).MarkSink()
	n.AddInput("Next", graph.KindTrigger)
	n.AddInput("Prev", graph.KindTrigger)
	n.AddInput("Pan X", graph.KindAxis)
	n.AddInput("Pan Y", graph.KindAxis)
	return n
}

func NewTimeWarp() *graph.Node {
	n := graph.NewNode("time_warp", "Time Warp", command(func(n *graph.Node, env *graph.Env) {
		switch {
		case n.Input(2).Bool():
			env.Vehicle.TimeWarp(0)
		case n.Input(0).Bool() && !n.Input(1).Bool():
			env.Vehicle.TimeWarp(1)
		case n.Input(1).Bool() && !n.Input(0).Bool():
			env.Vehicle.TimeWarp(-1)
		}
	})).MarkSink()
	n.AddInput("Faster", graph.KindTrigger)
	n.AddInput("Slower", graph.KindTrigger)
	n.AddInput("Stop", graph.KindTrigger)
	return n
}

func NewHUD() *graph.Node {
	n := graph.NewNode("hud", "HUD", command(func(n *graph.Node, env *graph.Env) {
		if n.Input(0).Bool() {
			env.Vehicle.ToggleHUD()
		}
	})).MarkSink()
	n.AddInput("Toggle", graph.KindTrigger)
	return n
}

func NewPanel() *graph.Node {
	n := graph.NewNode("panel", "Panel", command(func(n *graph.Node, env *graph.Env) {
		if n.Input(0).Bool() {
			env.Vehicle.CyclePanel(1)
		}
		if n.Input(1).Bool() {
			env.Vehicle.CyclePanel(-1)
		}
	})).MarkSink()
	n.AddInput("Next", graph.KindTrigger)
	n.AddInput("Prev", graph.KindTrigger)
	return n
}

func NewCursor() *graph.Node {
	n := graph.NewNode("cursor", "Cursor", command(func(n *graph.Node, env *graph.Env) {
		env.Vehicle.Cursor(n.Input(0).Float(), n.Input(1).Float(), n.Input(2).Bool())
	})).MarkSink()
	n.AddInput("X", graph.KindAxis)
	n.AddInput("Y", graph.KindAxis)
	n.AddInput("Click", graph.KindTrigger)
	return n
}

// NavModes names the navigation modes in cycling order.
var NavModes = []string{"Orbit", "Surface", "Target"}

// NavMode cycles the navigation mode and reports the current one as a
// status button per mode.
type NavMode struct{}

func NewNavMode() *graph.Node {
	n := graph.NewNode("nav_mode", "Navigation Mode", NavMode{}).MarkSink()
	n.AddInput("Cycle", graph.KindTrigger)
	for _, m := range NavModes {
		n.AddOutput(m, graph.KindButton)
	}
	return n
}

func (NavMode) Update(n *graph.Node, env *graph.Env) {
	mode := env.Vehicle.NavMode()
	if n.Input(0).Bool() {
		mode = (mode + 1) % len(NavModes)
		env.Vehicle.SetNavMode(mode)
	}
	showMode(n, mode)
}

// Preview reflects the vehicle's mode without changing it.
func (NavMode) Preview(n *graph.Node, env *graph.Env) {
	showMode(n, env.Vehicle.NavMode())
}

func showMode(n *graph.Node, mode int) {
	for i, p := range n.Outputs() {
		p.SetBool(i == mode)
	}
}

// RCSMode switches reaction control and reports its state on Active.
type RCSMode struct{}

func NewRCSMode() *graph.Node {
	n := graph.NewNode("rcs_mode", "RCS Mode", RCSMode{}).MarkSink()
	n.AddInput("On", graph.KindTrigger)
	n.AddInput("Off", graph.KindTrigger)
	n.AddInput("Toggle", graph.KindTrigger)
	n.AddOutput("Active", graph.KindButton)
	return n
}

func (RCSMode) Update(n *graph.Node, env *graph.Env) {
	on := env.Vehicle.RCS()
	switch {
	case n.Input(2).Bool():
		on = !on
	case n.Input(0).Bool():
		on = true
	case n.Input(1).Bool():
		on = false
	}
	if on != env.Vehicle.RCS() {
		env.Vehicle.SetRCS(on)
	}
	n.Output(0).SetBool(on)
}

func (RCSMode) Preview(n *graph.Node, env *graph.Env) {
	n.Output(0).SetBool(env.Vehicle.RCS())
}
