// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// probe is a behavior that counts calls and runs an optional hook.
type probe struct {
	updates  int
	previews int
	onUpdate func(n *Node, env *Env)
	added    []*Pin
}

func (p *probe) Update(n *Node, env *Env) {
	p.updates++
	if p.onUpdate != nil {
		p.onUpdate(n, env)
	}
}

func (p *probe) Preview(_ *Node, _ *Env) { p.previews++ }

func (p *probe) PinAdded(_ *Node, pin *Pin) { p.added = append(p.added, pin) }

// recorder collects notices.
type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(_ context.Context, n Notice) { r.notices = append(r.notices, n) }

// addSource creates a node with one output per kind given.
func addSource(t *testing.T, g *Graph, name string, kinds ...Kind) *Node {
	t.Helper()
	n := NewNode("source", name, &probe{})
	for _, k := range kinds {
		n.AddOutput(k.String(), k)
	}
	_, err := g.CreateNode(n)
	require.NoError(t, err)
	return n
}

// addSinkOf creates a node with one input per kind given.
func addSinkOf(t *testing.T, g *Graph, name string, kinds ...Kind) *Node {
	t.Helper()
	n := NewNode("consumer", name, &probe{})
	for _, k := range kinds {
		n.AddInput(k.String(), k)
	}
	_, err := g.CreateNode(n)
	require.NoError(t, err)
	return n
}

// addRelay creates a node with one button input and one button output.
func addRelay(t *testing.T, g *Graph, name string) *Node {
	t.Helper()
	n := NewNode("relay", name, &probe{})
	n.AddInput("In", KindButton)
	n.AddOutput("Out", KindButton)
	_, err := g.CreateNode(n)
	require.NoError(t, err)
	return n
}

func mustLink(t *testing.T, g *Graph, a, b *Pin) ID {
	t.Helper()
	id, err := g.CreateLink(a.ID(), b.ID())
	require.NoError(t, err)
	return id
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
