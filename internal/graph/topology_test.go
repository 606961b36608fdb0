// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_OrderFollowsLinks(t *testing.T) {
	g := New()
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	c := addRelay(t, g, "C")
	mustLink(t, g, c.Output(0), a.Input(0))
	mustLink(t, g, a.Output(0), b.Input(0))

	order, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, names(order))
	assert.False(t, g.Dirty())
	assert.Equal(t, []ID{c.ID()}, a.Parents())
	assert.Equal(t, []ID{b.ID()}, a.Children())
}

func TestRecompute_TiesKeepInsertionOrder(t *testing.T) {
	g := New()
	a := addRelay(t, g, "A")
	addRelay(t, g, "B")
	c := addRelay(t, g, "C")
	mustLink(t, g, c.Output(0), a.Input(0))

	order, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, names(order))
}

func TestRecompute_ParallelLinksCountOnce(t *testing.T) {
	g := New()
	src := addSource(t, g, "src", KindButton, KindButton)
	dst := addSinkOf(t, g, "dst", KindButton, KindButton)
	mustLink(t, g, src.Output(0), dst.Input(0))
	mustLink(t, g, src.Output(1), dst.Input(1))
	mustLink(t, g, src.Output(1), dst.Input(0))

	_, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []ID{src.ID()}, dst.Parents())
	assert.Equal(t, []ID{src.Output(0).ID(), src.Output(1).ID()}, dst.Input(0).Upstream())
}

func TestRecompute_RollsBackLastLinkOnCycle(t *testing.T) {
	rec := &recorder{}
	g := New(WithNotifier(rec))
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	keep := mustLink(t, g, a.Output(0), b.Input(0))
	_, err := g.Recompute(context.Background())
	require.NoError(t, err)

	closing := mustLink(t, g, b.Output(0), a.Input(0))
	order, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(order))
	require.Len(t, g.Links(), 1)
	assert.Equal(t, keep, g.Links()[0].ID())
	_, ok := g.Link(closing)
	assert.False(t, ok)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, NoticeCycleRejected, rec.notices[0].Kind)
	assert.Equal(t, closing, rec.notices[0].Subject)
}

func TestRecompute_RollbackRemovesSynthesizedPin(t *testing.T) {
	rec := &recorder{}
	g := New(WithNotifier(rec))
	sel := NewNode("selector", "S", &probe{})
	next := sel.AddInput("Next", KindButton)
	sel.AddOutput("1", KindButton)
	sel.AddOutput("2", KindButton)
	ph := sel.SetOutputPlaceholder("Add", KindAddButton)
	_, err := g.CreateNode(sel)
	require.NoError(t, err)
	mustLink(t, g, ph, next)
	require.Len(t, sel.Outputs(), 3)
	grown := sel.Output(2).ID()

	_, err = g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Empty(t, g.Links())
	assert.Len(t, sel.Outputs(), 2)
	_, ok := g.Pin(grown)
	assert.False(t, ok)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, NoticeCycleRejected, rec.notices[0].Kind)
	assert.True(t, g.CanLink(ph.ID(), next.ID()))
}

func TestRecompute_RollbackKeepsPinsOfPlainLink(t *testing.T) {
	g := New(WithNotifier(&recorder{}))
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	mustLink(t, g, a.Output(0), b.Input(0))
	mustLink(t, g, b.Output(0), a.Input(0))

	_, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Len(t, g.Links(), 1)
	assert.Len(t, a.Inputs(), 1)
	assert.Len(t, b.Outputs(), 1)
}

func TestRecompute_SelfLoopRejected(t *testing.T) {
	rec := &recorder{}
	g := New(WithNotifier(rec))
	a := addRelay(t, g, "A")
	mustLink(t, g, a.Output(0), a.Input(0))

	order, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(order))
	assert.Empty(t, g.Links())
	assert.Len(t, rec.notices, 1)
}

func TestRecompute_CycleWithoutCandidateFails(t *testing.T) {
	g := New(WithNotifier(&recorder{}))
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	_, err := g.Connect(b.Input(0).ID(), a.Output(0).ID())
	require.NoError(t, err)
	_, err = g.Connect(a.Input(0).ID(), b.Output(0).ID())
	require.NoError(t, err)

	_, err = g.Recompute(context.Background())

	assert.ErrorIs(t, err, ErrCycle)
	assert.True(t, g.Dirty())
	assert.Len(t, g.Links(), 2)
}

func TestRecompute_OnlyOneRollbackPerPass(t *testing.T) {
	rec := &recorder{}
	g := New(WithNotifier(rec))
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	c := addRelay(t, g, "C")
	d := addRelay(t, g, "D")
	mustLink(t, g, a.Output(0), b.Input(0))
	mustLink(t, g, b.Output(0), a.Input(0))
	mustLink(t, g, c.Output(0), d.Input(0))
	mustLink(t, g, d.Output(0), c.Input(0))

	_, err := g.Recompute(context.Background())

	assert.ErrorIs(t, err, ErrCycle)
	assert.Len(t, g.Links(), 3)
	assert.Len(t, rec.notices, 1)
}

func TestRecompute_CleanGraphIsNoop(t *testing.T) {
	g := New()
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	mustLink(t, g, a.Output(0), b.Input(0))
	first, err := g.Recompute(context.Background())
	require.NoError(t, err)

	second, err := g.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))
}
