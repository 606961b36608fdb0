// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/zclconf/go-cty/cty"
)

func TestButtonToAxis_UsesValueSetting(t *testing.T) {
	n := NewButtonToAxis()
	env, _ := testEnv()
	require.NoError(t, n.Behavior().(*ButtonToAxis).SetAttrs(map[string]cty.Value{"value": cty.NumberFloatVal(-0.5)}))

	update(n, env)
	assert.Zero(t, n.Output(0).Float())

	n.Input(0).SetBool(true)
	update(n, env)
	assert.InDelta(t, -0.5, n.Output(0).Float(), 1e-9)
}

func TestAxisToButton_ComparesMagnitude(t *testing.T) {
	n := NewAxisToButton()
	env, _ := testEnv()

	for _, tc := range []struct {
		in   float64
		want bool
	}{
		{0.2, false},
		{0.5, true},
		{-0.7, true},
		{-0.49, false},
	} {
		n.Input(0).SetFloat(tc.in)
		update(n, env)
		assert.Equal(t, tc.want, n.Output(0).Bool(), "input %v", tc.in)
	}
}

func TestAxisMappers(t *testing.T) {
	env, _ := testEnv()

	inv := NewInvert()
	inv.Input(0).SetFloat(0.25)
	update(inv, env)
	assert.InDelta(t, -0.25, inv.Output(0).Float(), 1e-9)

	half := NewAxisToHalf()
	half.Input(0).SetFloat(-1)
	update(half, env)
	assert.InDelta(t, 0.0, half.Output(0).Float(), 1e-9)
	half.Input(0).SetFloat(0)
	update(half, env)
	assert.InDelta(t, 0.5, half.Output(0).Float(), 1e-9)

	full := NewHalfToAxis()
	full.Input(0).SetFloat(0.75)
	update(full, env)
	assert.InDelta(t, 0.5, full.Output(0).Float(), 1e-9)
}

func TestHatConversions(t *testing.T) {
	env, _ := testEnv()

	split := NewHatToButtons()
	split.Input(0).SetHat(hid.HatUp | hid.HatLeft)
	update(split, env)
	assert.Equal(t, []bool{true, false, false, true}, bools(split.Outputs()))

	merge := NewButtonsToHat()
	merge.Input(1).SetBool(true)
	merge.Input(2).SetBool(true)
	update(merge, env)
	assert.Equal(t, hid.HatRight|hid.HatDown, merge.Output(0).Hat())
}

func TestAxisMix_SumsAndClamps(t *testing.T) {
	n := NewAxisMix()
	env, _ := testEnv()
	n.Input(0).SetFloat(0.7)
	n.Input(1).SetFloat(0.6)

	update(n, env)

	assert.InDelta(t, 1.0, n.Output(0).Float(), 1e-9)
}

func TestAxisMix_AddPinTakesAxesOnly(t *testing.T) {
	g := graph.New()
	src := graph.NewNode("source", "src", nil)
	btn := src.AddOutput("Fire", graph.KindButton)
	hat := src.AddOutput("POV", graph.KindHat)
	throttle := src.AddOutput("Throttle", graph.KindHalfAxis)
	add(t, g, src)
	mix := add(t, g, NewAxisMix())

	_, err := g.CreateLink(btn.ID(), mix.InputPlaceholder().ID())
	assert.ErrorIs(t, err, graph.ErrIncompatiblePins)
	_, err = g.CreateLink(hat.ID(), mix.InputPlaceholder().ID())
	assert.ErrorIs(t, err, graph.ErrIncompatiblePins)
	require.Len(t, mix.Inputs(), 2)

	link(t, g, throttle, mix.InputPlaceholder())
	require.Len(t, mix.Inputs(), 3)
	assert.Equal(t, graph.KindHalfAxis, mix.Input(2).Kind())

	env, _ := testEnv()
	mix.Input(0).SetFloat(0.5)
	mix.Input(2).SetFloat(0.25)
	update(mix, env)
	assert.InDelta(t, 0.75, mix.Output(0).Float(), 1e-9)
}
