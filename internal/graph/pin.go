// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "github.com/vk/controlgrid/internal/hid"

// MaxDeadzone caps the per-pin deadzone so the rescale never divides by zero.
const MaxDeadzone = 0.95

// Pin is a typed, directional terminal of a node. Which value field is
// meaningful depends on the kind: booleans for buttons and triggers, floats
// for axes, a bit-set for hats.
type Pin struct {
	id      ID
	node    ID
	name    string
	kind    Kind
	dir     Direction
	dynamic bool

	b bool
	f float64
	h hid.Hat

	// prev is the OR'd fan-in of the previous pass, kept for edge detection.
	prev     bool
	deadzone float64

	// upstream holds the ids of the output pins feeding this input, in link
	// order. It is rebuilt by Recompute.
	upstream []ID
}

func newPin(name string, kind Kind, dir Direction) *Pin {
	return &Pin{name: name, kind: kind, dir: dir}
}

func (p *Pin) ID() ID              { return p.id }
func (p *Pin) NodeID() ID          { return p.node }
func (p *Pin) Name() string        { return p.name }
func (p *Pin) Kind() Kind          { return p.kind }
func (p *Pin) Dir() Direction      { return p.dir }
func (p *Pin) IsPlaceholder() bool { return p.kind.IsPlaceholder() }
func (p *Pin) Dynamic() bool       { return p.dynamic }
func (p *Pin) Bool() bool          { return p.b }
func (p *Pin) Float() float64      { return p.f }
func (p *Pin) Hat() hid.Hat        { return p.h }
func (p *Pin) Deadzone() float64   { return p.deadzone }
func (p *Pin) SetName(name string) { p.name = name }
func (p *Pin) SetBool(v bool)      { p.b = v }
func (p *Pin) SetFloat(v float64)  { p.f = v }
func (p *Pin) SetHat(v hid.Hat)    { p.h = v }

// SetDeadzone stores the deadzone clamped to [0, MaxDeadzone].
func (p *Pin) SetDeadzone(dz float64) {
	if dz < 0 {
		dz = 0
	} else if dz > MaxDeadzone {
		dz = MaxDeadzone
	}
	p.deadzone = dz
}

// CopyValue copies the current value of src into p regardless of kind.
func (p *Pin) CopyValue(src *Pin) {
	p.b, p.f, p.h = src.b, src.f, src.h
}

// Upstream returns a copy of the fan-in list computed by the last Recompute.
func (p *Pin) Upstream() []ID {
	out := make([]ID, len(p.upstream))
	copy(out, p.upstream)
	return out
}
