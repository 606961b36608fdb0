// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package editorlink

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/manager"
	"github.com/vk/controlgrid/internal/nodes"
	"github.com/vk/controlgrid/internal/profile"
)

// ErrBadRequest is returned for payloads missing a field or carrying one of
// the wrong type.
var ErrBadRequest = errors.New("bad editor request")

// Args is the decoded payload of a command.
type Args map[string]any

// Result is the payload of a successful reply.
type Result map[string]any

type handler func(ctx context.Context, m *manager.Manager, args Args) (Result, error)

// PinView is how a pin is presented to the editor.
type PinView struct {
	ID       string  `json:"id"`
	Node     string  `json:"node"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Dir      string  `json:"dir"`
	Dynamic  bool    `json:"dynamic,omitempty"`
	Bool     bool    `json:"bool"`
	Float    float64 `json:"float"`
	Hat      uint8   `json:"hat"`
	Deadzone float64 `json:"deadzone,omitempty"`
}

// NodeView is how a node is presented to the editor.
type NodeView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Sink      bool      `json:"sink,omitempty"`
	Device    bool      `json:"device,omitempty"`
	Deletable bool      `json:"deletable"`
	Inputs    []PinView `json:"inputs"`
	Outputs   []PinView `json:"outputs"`
	AddInput  *PinView  `json:"add_input,omitempty"`
	AddOutput *PinView  `json:"add_output,omitempty"`
}

func pinView(p *graph.Pin) PinView {
	return PinView{
		ID:       p.ID().String(),
		Node:     p.NodeID().String(),
		Name:     p.Name(),
		Kind:     p.Kind().String(),
		Dir:      p.Dir().String(),
		Dynamic:  p.Dynamic(),
		Bool:     p.Bool(),
		Float:    p.Float(),
		Hat:      uint8(p.Hat()),
		Deadzone: p.Deadzone(),
	}
}

func nodeView(n *graph.Node) NodeView {
	v := NodeView{
		ID:        n.ID().String(),
		Type:      n.Type(),
		Name:      n.Name(),
		X:         n.Position.X,
		Y:         n.Position.Y,
		Sink:      n.IsSink(),
		Device:    n.IsDeviceSource(),
		Deletable: n.Deletable(),
		Inputs:    make([]PinView, 0, len(n.Inputs())),
		Outputs:   make([]PinView, 0, len(n.Outputs())),
	}
	for _, p := range n.Inputs() {
		v.Inputs = append(v.Inputs, pinView(p))
	}
	for _, p := range n.Outputs() {
		v.Outputs = append(v.Outputs, pinView(p))
	}
	if p := n.InputPlaceholder(); p != nil {
		pv := pinView(p)
		v.AddInput = &pv
	}
	if p := n.OutputPlaceholder(); p != nil {
		pv := pinView(p)
		v.AddOutput = &pv
	}
	return v
}

// commands maps event names to their handlers.
func (l *Link) commands() map[string]handler {
	return map[string]handler{
		"create_node":  l.createNode,
		"delete_node":  deleteNode,
		"create_link":  createLink,
		"delete_link":  deleteLink,
		"remove_pin":   removePin,
		"query_pin":    queryPin,
		"list_nodes":   listNodes,
		"list_types":   l.listTypes,
		"set_deadzone": setDeadzone,
		"recompute":    recompute,
		"save":         save,
		"activate":     activate,
		"edit":         edit,
	}
}

func edited(m *manager.Manager) (*profile.Profile, error) {
	p := m.Edited()
	if p == nil {
		return nil, fmt.Errorf("no profile open: %w", manager.ErrUnknownProfile)
	}
	if p.Disabled {
		return nil, fmt.Errorf("profile %s: %w", p.Name, manager.ErrProfileDisabled)
	}
	return p, nil
}

func (l *Link) createNode(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	typeName, err := args.str("type")
	if err != nil {
		return nil, err
	}
	if typeName == nodes.DeviceType {
		return nil, fmt.Errorf("device nodes are created from attached devices: %w", ErrBadRequest)
	}
	n, err := l.reg.NewNode(typeName)
	if err != nil {
		return nil, err
	}
	if name, ok := args["name"].(string); ok && name != "" {
		n.SetName(name)
	}
	n.Position.X, _ = args["x"].(float64)
	n.Position.Y, _ = args["y"].(float64)
	if _, err := p.Graph.CreateNode(n); err != nil {
		return nil, err
	}
	return Result{"node": nodeView(n)}, nil
}

func deleteNode(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	id, err := args.id("node")
	if err != nil {
		return nil, err
	}
	if err := p.Graph.DeleteNode(id); err != nil {
		return nil, err
	}
	return Result{"node": id.String()}, nil
}

func createLink(ctx context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	a, err := args.id("a")
	if err != nil {
		return nil, err
	}
	b, err := args.id("b")
	if err != nil {
		return nil, err
	}
	id, err := p.Graph.CreateLink(a, b)
	if err != nil {
		if errors.Is(err, graph.ErrIncompatiblePins) {
			p.Graph.Notify(ctx, graph.Notice{Kind: graph.NoticeIncompatiblePins, Message: err.Error(), Subject: a})
		}
		return nil, err
	}
	// Recompute now so a cycle-closing link is rolled back before the reply.
	if _, err := p.Graph.Recompute(ctx); err != nil {
		return nil, err
	}
	if _, ok := p.Graph.Link(id); !ok {
		return nil, fmt.Errorf("link %s: %w", id, graph.ErrCycle)
	}
	return Result{"link": id.String(), "nodes": nodesOf(p.Graph, a, b)}, nil
}

// nodesOf returns fresh views of the nodes owning the given pins, since a
// link to a placeholder adds pins.
func nodesOf(g *graph.Graph, pins ...graph.ID) []NodeView {
	var out []NodeView
	seen := make(map[graph.ID]bool)
	for _, pid := range pins {
		p, ok := g.Pin(pid)
		if !ok || seen[p.NodeID()] {
			continue
		}
		seen[p.NodeID()] = true
		if n, ok := g.Node(p.NodeID()); ok {
			out = append(out, nodeView(n))
		}
	}
	return out
}

func deleteLink(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	id, err := args.id("link")
	if err != nil {
		return nil, err
	}
	if err := p.Graph.DeleteLink(id); err != nil {
		return nil, err
	}
	return Result{"link": id.String()}, nil
}

func removePin(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	id, err := args.id("pin")
	if err != nil {
		return nil, err
	}
	if err := p.Graph.RemovePin(id); err != nil {
		return nil, err
	}
	return Result{"pin": id.String()}, nil
}

func queryPin(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	id, err := args.id("pin")
	if err != nil {
		return nil, err
	}
	pin, ok := p.Graph.Pin(id)
	if !ok {
		return nil, fmt.Errorf("pin %s: %w", id, graph.ErrPinNotFound)
	}
	return Result{"pin": pinView(pin)}, nil
}

func listNodes(_ context.Context, m *manager.Manager, _ Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	nodes := p.Graph.Nodes()
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, nodeView(n))
	}
	links := make([][2]string, 0, len(p.Graph.Links()))
	for _, l := range p.Graph.Links() {
		links = append(links, [2]string{l.In().String(), l.Out().String()})
	}
	return Result{"profile": p.Name, "nodes": views, "links": links}, nil
}

func (l *Link) listTypes(context.Context, *manager.Manager, Args) (Result, error) {
	entries := l.reg.Entries()
	types := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		types = append(types, map[string]string{"type": e.Type, "category": e.Category})
	}
	return Result{"types": types}, nil
}

func setDeadzone(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	id, err := args.id("pin")
	if err != nil {
		return nil, err
	}
	dz, ok := args["value"].(float64)
	if !ok {
		return nil, fmt.Errorf("field %q: %w", "value", ErrBadRequest)
	}
	if err := p.Graph.SetDeadzone(id, dz); err != nil {
		return nil, err
	}
	pin, _ := p.Graph.Pin(id)
	return Result{"pin": pinView(pin)}, nil
}

func recompute(ctx context.Context, m *manager.Manager, _ Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	order, err := p.Graph.Recompute(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(order))
	for i, n := range order {
		ids[i] = n.ID().String()
	}
	return Result{"order": ids}, nil
}

func save(ctx context.Context, m *manager.Manager, _ Args) (Result, error) {
	p, err := edited(m)
	if err != nil {
		return nil, err
	}
	if err := m.Save(ctx, p.Name); err != nil {
		return nil, err
	}
	return Result{"profile": p.Name}, nil
}

func activate(_ context.Context, m *manager.Manager, args Args) (Result, error) {
	name, err := args.str("profile")
	if err != nil {
		return nil, err
	}
	if err := m.Activate(name); err != nil {
		return nil, err
	}
	return Result{"profile": name}, nil
}

func edit(ctx context.Context, m *manager.Manager, args Args) (Result, error) {
	name, err := args.str("profile")
	if err != nil {
		return nil, err
	}
	if _, ok := m.Profile(name); !ok {
		if _, err := m.Create(ctx, name); err != nil {
			return nil, err
		}
	}
	if err := m.Edit(name); err != nil {
		return nil, err
	}
	return Result{"profile": name}, nil
}

func (a Args) str(key string) (string, error) {
	s, ok := a[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("field %q: %w", key, ErrBadRequest)
	}
	return s, nil
}

// id accepts ids as decimal strings or JSON numbers.
func (a Args) id(key string) (graph.ID, error) {
	switch v := a[key].(type) {
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %v: %w", key, err, ErrBadRequest)
		}
		return graph.ID(n), nil
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, fmt.Errorf("field %q: not an id: %w", key, ErrBadRequest)
		}
		return graph.ID(v), nil
	}
	return 0, fmt.Errorf("field %q: %w", key, ErrBadRequest)
}
