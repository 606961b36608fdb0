// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHat_StringAndHas(t *testing.T) {
	h := HatUp | HatLeft

	assert.True(t, h.Has(HatUp))
	assert.True(t, h.Has(HatLeft))
	assert.False(t, h.Has(HatDown))
	assert.False(t, h.Has(0))
	assert.Equal(t, "Up+Left", h.String())
	assert.Equal(t, "Centered", Hat(0).String())
}

func TestState_OutOfRangeIsZero(t *testing.T) {
	s := State{Axes: []float64{0.5}, Buttons: []bool{true}, Hats: []Hat{HatDown}}

	assert.Equal(t, 0.5, s.Axis(0))
	assert.Equal(t, 0.0, s.Axis(3))
	assert.True(t, s.Button(0))
	assert.False(t, s.Button(-1))
	assert.Equal(t, HatDown, s.HatAt(0))
	assert.Equal(t, Hat(0), s.HatAt(1))
}

func TestSnapshot_InfosSortedByIndex(t *testing.T) {
	g1, g2 := uuid.New(), uuid.New()
	snap := NewSnapshot(
		Device{Info: Info{Index: 3, GUID: g2}},
		Device{Info: Info{Index: 1, GUID: g1}},
	)

	infos := snap.Infos()
	require.Len(t, infos, 2)
	assert.Equal(t, 1, infos[0].Index)
	assert.Equal(t, 3, infos[1].Index)

	_, ok := snap.Device(2)
	assert.False(t, ok)
}

func TestSameDevices(t *testing.T) {
	g1, g2 := uuid.New(), uuid.New()
	a := []Info{{Index: 0, GUID: g1}, {Index: 1, GUID: g2}}

	assert.True(t, SameDevices(a, []Info{{Index: 1, GUID: g2}, {Index: 0, GUID: g1}}))
	assert.False(t, SameDevices(a, []Info{{Index: 0, GUID: g2}, {Index: 1, GUID: g1}}))
	assert.False(t, SameDevices(a, a[:1]))
}

func TestStatic_PollReturnsLastSet(t *testing.T) {
	src := NewStatic()
	snap, err := src.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Infos())

	src.Set(NewSnapshot(Device{Info: Info{Index: 0, GUID: uuid.New()}}))
	snap, err = src.Poll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Infos(), 1)
}
