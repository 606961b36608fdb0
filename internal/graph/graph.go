// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"fmt"
)

// Graph owns all nodes, links and pins of one profile.
type Graph struct {
	nodes   map[ID]*Node
	nodeSeq []*Node
	pins    map[ID]*Pin
	links   []*Link

	order []*Node
	dirty bool

	// lastLink is the most recently created link, the only one Recompute may
	// roll back when it finds a cycle.
	lastLink ID
	// lastGrown is the pin synthesized from a placeholder for lastLink, if
	// any. A rollback removes it together with the link.
	lastGrown ID
	nextID    ID
	running   bool

	notifier Notifier
}

// Option configures a Graph.
type Option func(*Graph)

// WithNotifier routes user-visible notices to n.
func WithNotifier(n Notifier) Option {
	return func(g *Graph) {
		if n != nil {
			g.notifier = n
		}
	}
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make(map[ID]*Node),
		pins:     make(map[ID]*Pin),
		notifier: LogNotifier{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) alloc() ID {
	g.nextID++
	return g.nextID
}

// NextID is the id counter persisted with the graph.
func (g *Graph) NextID() ID { return g.nextID }

// ReserveIDs raises the id counter to at least id. It never lowers it.
func (g *Graph) ReserveIDs(id ID) {
	if id > g.nextID {
		g.nextID = id
	}
}

// Dirty reports whether the cached order must be recomputed.
func (g *Graph) Dirty() bool { return g.dirty }

// SetNotifier replaces the notifier. A nil notifier restores the log notifier.
func (g *Graph) SetNotifier(n Notifier) {
	if n == nil {
		n = LogNotifier{}
	}
	g.notifier = n
}

// Notify forwards a notice to the graph's notifier.
func (g *Graph) Notify(ctx context.Context, n Notice) {
	g.notifier.Notify(ctx, n)
}

// CreateNode inserts a detached node, allocating ids for the node and all of
// its pins in declaration order.
func (g *Graph) CreateNode(n *Node) (ID, error) {
	if n == nil {
		return 0, fmt.Errorf("create node: %w", ErrNodeNotFound)
	}
	if n.owner != nil {
		return 0, ErrNodeAttached
	}
	n.id = g.alloc()
	n.owner = g
	for _, p := range n.allPins() {
		g.registerPin(n, p)
	}
	g.nodes[n.id] = n
	g.nodeSeq = append(g.nodeSeq, n)
	g.dirty = true
	return n.id, nil
}

func (g *Graph) registerPin(n *Node, p *Pin) {
	p.id = g.alloc()
	p.node = n.id
	g.pins[p.id] = p
}

// DeleteNode removes a node, its pins and every link touching them.
func (g *Graph) DeleteNode(id ID) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("delete node %s: %w", id, ErrNodeNotFound)
	}
	if !n.deletable {
		return fmt.Errorf("delete node %s: %w", id, ErrNotDeletable)
	}
	g.removeNode(n)
	return nil
}

// removeNode drops a node without checking the deletable flag.
func (g *Graph) removeNode(n *Node) {
	for _, p := range n.allPins() {
		g.dropLinksOf(p.id)
		delete(g.pins, p.id)
	}
	delete(g.nodes, n.id)
	for i, m := range g.nodeSeq {
		if m == n {
			g.nodeSeq = append(g.nodeSeq[:i], g.nodeSeq[i+1:]...)
			break
		}
	}
	n.owner = nil
	g.dirty = true
}

// Node looks up a node by id.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Pin looks up a pin by id. This is the only path from an id to a pin.
func (g *Graph) Pin(id ID) (*Pin, bool) {
	p, ok := g.pins[id]
	return p, ok
}

// Link looks up a link by id.
func (g *Graph) Link(id ID) (*Link, bool) {
	for _, l := range g.links {
		if l.id == id {
			return l, true
		}
	}
	return nil, false
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodeSeq...)
}

// Links returns all links in creation order.
func (g *Graph) Links() []*Link {
	return append([]*Link(nil), g.links...)
}

// Order returns the cached evaluation order. It is only meaningful while the
// graph is not dirty.
func (g *Graph) Order() []*Node {
	return append([]*Node(nil), g.order...)
}

// DeviceNodes lists device-source nodes in insertion order.
func (g *Graph) DeviceNodes() []*Node {
	var out []*Node
	for _, n := range g.nodeSeq {
		if n.device {
			out = append(out, n)
		}
	}
	return out
}

// SinkNodes lists control-sink nodes in insertion order.
func (g *Graph) SinkNodes() []*Node {
	var out []*Node
	for _, n := range g.nodeSeq {
		if n.sink {
			out = append(out, n)
		}
	}
	return out
}

// SetDeadzone sets the deadzone of an axis output pin.
func (g *Graph) SetDeadzone(pinID ID, dz float64) error {
	p, ok := g.pins[pinID]
	if !ok {
		return fmt.Errorf("set deadzone on %s: %w", pinID, ErrPinNotFound)
	}
	if p.dir != Output || (p.kind != KindAxis && p.kind != KindHalfAxis) {
		return fmt.Errorf("set deadzone on %s (%s %s): %w", pinID, p.kind, p.dir, ErrIncompatiblePins)
	}
	p.SetDeadzone(dz)
	return nil
}

// RemovePin removes a dynamic pin and every link touching it. Behaviors
// implementing Shrinker are told afterwards, so they may remove paired pins.
func (g *Graph) RemovePin(pinID ID) error {
	p, ok := g.pins[pinID]
	if !ok {
		return fmt.Errorf("remove pin %s: %w", pinID, ErrPinNotFound)
	}
	if !p.dynamic {
		return fmt.Errorf("remove pin %s: %w", pinID, ErrPinNotRemovable)
	}
	g.dropLinksOf(pinID)
	delete(g.pins, pinID)
	if g.lastGrown == pinID {
		g.lastGrown = 0
	}
	g.dirty = true
	if n, ok := g.nodes[p.node]; ok {
		n.dropPin(p)
	}
	return nil
}
