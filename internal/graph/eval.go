// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"time"

	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/vehicle"
)

// Env is what a pass hands to node behaviors: the live device snapshot and
// the external collaborators sinks write to.
type Env struct {
	Devices *hid.Snapshot
	Frame   *controls.Frame
	Vehicle vehicle.Vehicle
	Keys    vehicle.KeySink
	// Delta is the simulation time elapsed since the previous pass.
	Delta time.Duration
}

// withDefaults fills nil collaborators with inert ones so behaviors never
// need nil checks.
func (e *Env) withDefaults() *Env {
	out := Env{}
	if e != nil {
		out = *e
	}
	if out.Devices == nil {
		out.Devices = hid.NewSnapshot()
	}
	if out.Frame == nil {
		out.Frame = controls.NewFrame()
	}
	if out.Vehicle == nil {
		out.Vehicle = vehicle.Nop{}
	}
	if out.Keys == nil {
		out.Keys = vehicle.Nop{}
	}
	return &out
}

// Execute runs one live pass: inputs are refreshed and every node runs its
// live step in topological order. The control frame is cleared before the
// pass and committed after it.
func (g *Graph) Execute(ctx context.Context, env *Env) error {
	return g.run(ctx, env, false)
}

// Simulate runs one preview pass. Control sinks run their preview step and
// the control frame is left untouched; every other node behaves as in Execute.
func (g *Graph) Simulate(ctx context.Context, env *Env) error {
	return g.run(ctx, env, true)
}

func (g *Graph) run(ctx context.Context, env *Env, preview bool) error {
	if g.running {
		ctxlog.FromContext(ctx).Error("Re-entrant evaluation refused.")
		return ErrReentrant
	}
	g.running = true
	defer func() { g.running = false }()

	if _, err := g.Recompute(ctx); err != nil {
		return err
	}

	env = env.withDefaults()
	if !preview {
		env.Frame.Begin()
	}
	for _, n := range g.order {
		g.refresh(n)
		if preview && n.sink {
			if p, ok := n.behavior.(Previewer); ok {
				p.Preview(n, env)
			}
			continue
		}
		if n.behavior != nil {
			n.behavior.Update(n, env)
		}
	}
	if !preview {
		env.Frame.Commit()
	}
	return nil
}

// refresh pulls every input pin of n from its upstream outputs. Upstream
// values are already final for this pass because of the topological order.
func (g *Graph) refresh(n *Node) {
	for _, p := range n.inputs {
		g.refreshPin(p)
	}
}

func (g *Graph) refreshPin(p *Pin) {
	if len(p.upstream) == 0 {
		if p.kind == KindTrigger {
			p.b, p.prev = false, false
		}
		return
	}

	var (
		pressed bool
		sum     float64
		hat     hid.Hat
	)
	for _, id := range p.upstream {
		up, ok := g.pins[id]
		if !ok {
			continue
		}
		pressed = pressed || up.b
		sum += up.f
		hat |= up.h
	}

	switch p.kind {
	case KindButton:
		p.b = pressed
	case KindTrigger:
		p.b = pressed && !p.prev
		p.prev = pressed
	case KindHalfAxis:
		p.f = clamp(sum, 0, 1)
	case KindAxis:
		p.f = clamp(sum, -1, 1)
	case KindHat:
		p.h = hat
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
