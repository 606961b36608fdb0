// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
)

// linkPlan is the outcome of a compatibility check: the normalized endpoints
// and, when one side is a placeholder, the kind of the pin to synthesize.
type linkPlan struct {
	in, out *Pin
	synth   *Pin
	kind    Kind
}

// CanLink reports whether CreateLink(a, b) would succeed, ignoring cycles.
func (g *Graph) CanLink(a, b ID) bool {
	pa, ok := g.pins[a]
	if !ok {
		return false
	}
	pb, ok := g.pins[b]
	if !ok {
		return false
	}
	plan, err := planLink(pa, pb)
	if err != nil {
		return false
	}
	return plan.synth != nil || !g.linked(plan.in.id, plan.out.id)
}

// CreateLink links two pins given in either order. When one side is a
// placeholder, a new concrete pin is created on its node first and the link
// is made to that pin; the placeholder stays free for further links.
func (g *Graph) CreateLink(a, b ID) (ID, error) {
	pa, ok := g.pins[a]
	if !ok {
		return 0, fmt.Errorf("create link: pin %s: %w", a, ErrPinNotFound)
	}
	pb, ok := g.pins[b]
	if !ok {
		return 0, fmt.Errorf("create link: pin %s: %w", b, ErrPinNotFound)
	}
	plan, err := planLink(pa, pb)
	if err != nil {
		return 0, fmt.Errorf("create link %s-%s: %w", a, b, err)
	}

	in, out := plan.in, plan.out
	if plan.synth != nil {
		n, ok := g.nodes[plan.synth.node]
		if !ok {
			return 0, fmt.Errorf("create link: owner of %s: %w", plan.synth.id, ErrNodeNotFound)
		}
		var other *Pin
		var created *Pin
		if plan.synth.dir == Input {
			other = out
			created = n.GrowInput(other.name, plan.kind)
			in = created
		} else {
			other = in
			created = n.GrowOutput(other.name, plan.kind)
			out = created
		}
		if gr, ok := n.behavior.(Grower); ok {
			gr.PinAdded(n, created)
		}
		id := g.connect(in, out)
		g.lastGrown = created.id
		return id, nil
	}
	if g.linked(in.id, out.id) {
		return 0, fmt.Errorf("create link %s-%s: %w", a, b, ErrLinkExists)
	}

	return g.connect(in, out), nil
}

// Connect links two concrete pins without placeholder expansion and without
// recording the link as a rollback candidate. It is used when rebuilding a
// graph from a document.
func (g *Graph) Connect(inID, outID ID) (ID, error) {
	in, ok := g.pins[inID]
	if !ok {
		return 0, fmt.Errorf("connect: pin %s: %w", inID, ErrPinNotFound)
	}
	out, ok := g.pins[outID]
	if !ok {
		return 0, fmt.Errorf("connect: pin %s: %w", outID, ErrPinNotFound)
	}
	if in.dir != Input || out.dir != Output {
		return 0, fmt.Errorf("connect %s-%s: %w", inID, outID, ErrSameDirection)
	}
	if in.IsPlaceholder() || out.IsPlaceholder() || !kindsLinkable(in.kind, out.kind) {
		return 0, fmt.Errorf("connect %s (%s) - %s (%s): %w", inID, in.kind, outID, out.kind, ErrIncompatiblePins)
	}
	if g.linked(inID, outID) {
		return 0, fmt.Errorf("connect %s-%s: %w", inID, outID, ErrLinkExists)
	}
	id := g.connect(in, out)
	g.forgetLastLink()
	return id, nil
}

func (g *Graph) connect(in, out *Pin) ID {
	l := &Link{id: g.alloc(), in: in.id, out: out.id}
	g.links = append(g.links, l)
	g.lastLink, g.lastGrown = l.id, 0
	g.dirty = true
	return l.id
}

// DeleteLink removes a link.
func (g *Graph) DeleteLink(id ID) error {
	for i, l := range g.links {
		if l.id == id {
			g.links = append(g.links[:i], g.links[i+1:]...)
			if g.lastLink == id {
				g.forgetLastLink()
			}
			g.dirty = true
			return nil
		}
	}
	return fmt.Errorf("delete link %s: %w", id, ErrLinkNotFound)
}

func (g *Graph) forgetLastLink() {
	g.lastLink, g.lastGrown = 0, 0
}

// dropLinksOf removes every link with pinID at either end.
func (g *Graph) dropLinksOf(pinID ID) {
	kept := g.links[:0]
	for _, l := range g.links {
		if l.in == pinID || l.out == pinID {
			if g.lastLink == l.id {
				g.forgetLastLink()
			}
			g.dirty = true
			continue
		}
		kept = append(kept, l)
	}
	for i := len(kept); i < len(g.links); i++ {
		g.links[i] = nil
	}
	g.links = kept
}

func (g *Graph) linked(in, out ID) bool {
	for _, l := range g.links {
		if l.in == in && l.out == out {
			return true
		}
	}
	return false
}

// planLink normalizes (a, b) to (input, output) and applies the kind rules.
func planLink(a, b *Pin) (linkPlan, error) {
	if a.dir == b.dir {
		return linkPlan{}, ErrSameDirection
	}
	in, out := a, b
	if a.dir == Output {
		in, out = b, a
	}
	if in.IsPlaceholder() && out.IsPlaceholder() {
		return linkPlan{}, ErrPlaceholderPair
	}

	switch {
	case in.IsPlaceholder():
		k, ok := inferInput(in.kind, out.kind)
		if !ok {
			return linkPlan{}, fmt.Errorf("%s placeholder cannot take %s: %w", in.kind, out.kind, ErrIncompatiblePins)
		}
		return linkPlan{in: in, out: out, synth: in, kind: k}, nil
	case out.IsPlaceholder():
		k, ok := inferOutput(out.kind, in.kind)
		if !ok {
			return linkPlan{}, fmt.Errorf("%s placeholder cannot feed %s: %w", out.kind, in.kind, ErrIncompatiblePins)
		}
		return linkPlan{in: in, out: out, synth: out, kind: k}, nil
	}

	if !kindsLinkable(in.kind, out.kind) {
		return linkPlan{}, fmt.Errorf("%s input cannot take %s output: %w", in.kind, out.kind, ErrIncompatiblePins)
	}
	return linkPlan{in: in, out: out}, nil
}

// kindsLinkable applies the rules for two concrete pins. A trigger input also
// accepts a button output; the edge detection happens on refresh.
func kindsLinkable(in, out Kind) bool {
	if in == out {
		return true
	}
	return in == KindTrigger && out == KindButton
}

func buttonLike(k Kind) bool {
	return k == KindButton || k == KindTrigger
}

func axisLike(k Kind) bool {
	return k == KindAxis || k == KindHalfAxis
}

// inferInput picks the kind of an input pin synthesized from placeholder ph
// when linked to an output of kind other.
func inferInput(ph, other Kind) (Kind, bool) {
	switch ph {
	case KindAdd:
		return other, true
	case KindAddButton:
		if buttonLike(other) {
			return KindButton, true
		}
	case KindAddTrigger:
		if buttonLike(other) {
			return KindTrigger, true
		}
	case KindAddAxis:
		if axisLike(other) {
			return other, true
		}
	}
	return 0, false
}

// inferOutput picks the kind of an output pin synthesized from placeholder ph
// when linked to an input of kind other. Outputs never carry edges, so a
// trigger input is fed by a button output.
func inferOutput(ph, other Kind) (Kind, bool) {
	switch ph {
	case KindAdd:
		if other == KindTrigger {
			return KindButton, true
		}
		return other, true
	case KindAddButton, KindAddTrigger:
		if buttonLike(other) {
			return KindButton, true
		}
	case KindAddAxis:
		if axisLike(other) {
			return other, true
		}
	}
	return 0, false
}
