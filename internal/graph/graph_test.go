// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNode_AllocatesIDsForNodeAndPins(t *testing.T) {
	g := New()

	n := NewNode("relay", "R", &probe{})
	in := n.AddInput("In", KindButton)
	out := n.AddOutput("Out", KindButton)
	ph := n.SetInputPlaceholder("Add", KindAdd)

	id, err := g.CreateNode(n)
	require.NoError(t, err)

	assert.NotZero(t, id)
	assert.Equal(t, id, n.ID())
	for _, p := range []*Pin{in, out, ph} {
		got, ok := g.Pin(p.ID())
		require.True(t, ok)
		assert.Same(t, p, got)
		assert.Equal(t, id, p.NodeID())
	}
	assert.True(t, g.Dirty())

	_, err = g.CreateNode(n)
	assert.ErrorIs(t, err, ErrNodeAttached)
}

func TestLookups_MissingIDsAreContained(t *testing.T) {
	g := New()

	_, ok := g.Pin(42)
	assert.False(t, ok)
	_, ok = g.Node(42)
	assert.False(t, ok)
	_, ok = g.Link(42)
	assert.False(t, ok)

	assert.ErrorIs(t, g.DeleteNode(42), ErrNodeNotFound)
	assert.ErrorIs(t, g.DeleteLink(42), ErrLinkNotFound)
	assert.ErrorIs(t, g.RemovePin(42), ErrPinNotFound)
	_, err := g.CreateLink(1, 2)
	assert.ErrorIs(t, err, ErrPinNotFound)
	assert.False(t, g.CanLink(1, 2))
}

func TestDeleteNode_CascadesToLinks(t *testing.T) {
	ctx := context.Background()
	g := New()
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	c := addRelay(t, g, "C")
	mustLink(t, g, a.Output(0), b.Input(0))
	keep := mustLink(t, g, a.Output(0), c.Input(0))
	_, err := g.Recompute(ctx)
	require.NoError(t, err)

	require.NoError(t, g.DeleteNode(b.ID()))

	assert.True(t, g.Dirty())
	require.Len(t, g.Links(), 1)
	assert.Equal(t, keep, g.Links()[0].ID())
	_, ok := g.Pin(b.Input(0).ID())
	assert.False(t, ok)

	order, err := g.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(order))
}

func TestDeleteNode_RespectsDeletableFlag(t *testing.T) {
	g := New()
	n := addRelay(t, g, "pinned")
	n.SetDeletable(false)

	assert.ErrorIs(t, g.DeleteNode(n.ID()), ErrNotDeletable)
	_, ok := g.Node(n.ID())
	assert.True(t, ok)
}

func TestDeviceAndSinkEnumeration(t *testing.T) {
	g := New()
	dev := NewNode("device", "Stick", &probe{}).MarkDeviceSource()
	sink := NewNode("attitude", "Attitude", &probe{}).MarkSink()
	_, err := g.CreateNode(dev)
	require.NoError(t, err)
	addRelay(t, g, "R")
	_, err = g.CreateNode(sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"Stick"}, names(g.DeviceNodes()))
	assert.Equal(t, []string{"Attitude"}, names(g.SinkNodes()))
	assert.Len(t, g.Nodes(), 3)
}

func TestSetDeadzone(t *testing.T) {
	g := New()
	src := addSource(t, g, "S", KindAxis, KindButton)

	require.NoError(t, g.SetDeadzone(src.Output(0).ID(), 2))
	assert.Equal(t, MaxDeadzone, src.Output(0).Deadzone())

	assert.ErrorIs(t, g.SetDeadzone(src.Output(1).ID(), 0.1), ErrIncompatiblePins)
	assert.ErrorIs(t, g.SetDeadzone(999, 0.1), ErrPinNotFound)
}

func TestReserveIDs_NeverLowers(t *testing.T) {
	g := New()
	g.ReserveIDs(100)
	addRelay(t, g, "R")
	assert.Greater(t, uint64(g.NextID()), uint64(100))

	before := g.NextID()
	g.ReserveIDs(5)
	assert.Equal(t, before, g.NextID())
}

func TestKind_ParseRoundTrip(t *testing.T) {
	for k := KindButton; k <= KindAddAxis; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("joystick")
	assert.Error(t, err)
}
