// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/hid"
)

func TestExecute_AxisFanInClamps(t *testing.T) {
	g := New()
	dst := addSinkOf(t, g, "dst", KindAxis)
	for _, name := range []string{"a", "b", "c"} {
		src := addSource(t, g, name, KindAxis)
		src.Output(0).SetFloat(0.4)
		mustLink(t, g, src.Output(0), dst.Input(0))
	}

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.InDelta(t, 1.0, dst.Input(0).Float(), 1e-9)
}

func TestExecute_HalfAxisFanInClampsAtZero(t *testing.T) {
	g := New()
	dst := addSinkOf(t, g, "dst", KindHalfAxis)
	a := addSource(t, g, "a", KindHalfAxis)
	b := addSource(t, g, "b", KindHalfAxis)
	a.Output(0).SetFloat(-0.6)
	b.Output(0).SetFloat(0.3)
	mustLink(t, g, a.Output(0), dst.Input(0))
	mustLink(t, g, b.Output(0), dst.Input(0))

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.InDelta(t, 0.0, dst.Input(0).Float(), 1e-9)
}

func TestExecute_ButtonAndHatFanIn(t *testing.T) {
	g := New()
	dst := addSinkOf(t, g, "dst", KindButton, KindHat)
	a := addSource(t, g, "a", KindButton, KindHat)
	b := addSource(t, g, "b", KindButton, KindHat)
	a.Output(0).SetBool(false)
	b.Output(0).SetBool(true)
	a.Output(1).SetHat(hid.HatUp)
	b.Output(1).SetHat(hid.HatLeft)
	for _, src := range []*Node{a, b} {
		mustLink(t, g, src.Output(0), dst.Input(0))
		mustLink(t, g, src.Output(1), dst.Input(1))
	}

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.True(t, dst.Input(0).Bool())
	assert.Equal(t, hid.HatUp|hid.HatLeft, dst.Input(1).Hat())
}

func TestExecute_TriggerFiresOnRisingEdge(t *testing.T) {
	g := New()
	src := addSource(t, g, "src", KindButton)
	dst := addSinkOf(t, g, "dst", KindTrigger)
	mustLink(t, g, src.Output(0), dst.Input(0))

	var got []bool
	for _, v := range []bool{false, true, true, false, true} {
		src.Output(0).SetBool(v)
		require.NoError(t, g.Execute(context.Background(), nil))
		got = append(got, dst.Input(0).Bool())
	}

	assert.Equal(t, []bool{false, true, false, false, true}, got)
}

func TestExecute_UnlinkedInputs(t *testing.T) {
	g := New()
	dst := addSinkOf(t, g, "dst", KindTrigger, KindAxis)
	dst.Input(0).SetBool(true)
	dst.Input(1).SetFloat(0.7)

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.False(t, dst.Input(0).Bool())
	assert.InDelta(t, 0.7, dst.Input(1).Float(), 1e-9)
}

func TestExecute_UpstreamValuesAreCurrent(t *testing.T) {
	g := New()
	dst := addSinkOf(t, g, "dst", KindAxis)
	mid := NewNode("relay", "mid", &probe{onUpdate: func(n *Node, _ *Env) {
		n.Output(0).SetFloat(n.Input(0).Float() / 2)
	}})
	mid.AddInput("In", KindAxis)
	mid.AddOutput("Out", KindAxis)
	_, err := g.CreateNode(mid)
	require.NoError(t, err)
	src := addSource(t, g, "src", KindAxis)
	src.Output(0).SetFloat(0.8)
	mustLink(t, g, mid.Output(0), dst.Input(0))
	mustLink(t, g, src.Output(0), mid.Input(0))

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.InDelta(t, 0.4, dst.Input(0).Float(), 1e-9)
}

func TestExecuteAndSimulate_SinkSteps(t *testing.T) {
	g := New()
	beh := &probe{onUpdate: func(_ *Node, env *Env) {
		env.Frame.Add(controls.Pitch, 0.5)
	}}
	sink := NewNode("attitude", "Attitude", beh).MarkSink()
	sink.AddInput("Pitch", KindAxis)
	_, err := g.CreateNode(sink)
	require.NoError(t, err)
	frame := controls.NewFrame()

	require.NoError(t, g.Simulate(context.Background(), &Env{Frame: frame}))
	assert.Equal(t, 1, beh.previews)
	assert.Zero(t, beh.updates)
	assert.Zero(t, frame.Levels().Channels[controls.Pitch])

	require.NoError(t, g.Execute(context.Background(), &Env{Frame: frame}))
	assert.Equal(t, 1, beh.updates)
	assert.Equal(t, int32(16384), frame.Levels().Channels[controls.Pitch])
}

func TestExecute_RefusesReentry(t *testing.T) {
	g := New()
	var inner error
	n := NewNode("relay", "R", &probe{onUpdate: func(_ *Node, env *Env) {
		inner = g.Execute(context.Background(), env)
	}})
	_, err := g.CreateNode(n)
	require.NoError(t, err)

	require.NoError(t, g.Execute(context.Background(), nil))

	assert.ErrorIs(t, inner, ErrReentrant)
	assert.NoError(t, g.Execute(context.Background(), nil))
}

func TestExecute_CycleErrorPropagates(t *testing.T) {
	g := New(WithNotifier(&recorder{}))
	a := addRelay(t, g, "A")
	b := addRelay(t, g, "B")
	_, err := g.Connect(b.Input(0).ID(), a.Output(0).ID())
	require.NoError(t, err)
	_, err = g.Connect(a.Input(0).ID(), b.Output(0).ID())
	require.NoError(t, err)

	err = g.Execute(context.Background(), nil)

	assert.ErrorIs(t, err, ErrCycle)
}
