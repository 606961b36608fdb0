// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame_CommitClampsAndScales(t *testing.T) {
	f := NewFrame()

	f.Begin()
	f.Add(Pitch, 0.5)
	f.Add(Yaw, 0.8)
	f.Add(Yaw, 0.8)
	f.Add(Roll, -3)
	f.AddAero(AeroFlaps, 1)
	f.Commit()

	l := f.Levels()
	assert.Equal(t, int32(16384), l.Channels[Pitch])
	assert.Equal(t, int32(Scale), l.Channels[Yaw])
	assert.Equal(t, int32(-Scale), l.Channels[Roll])
	assert.Equal(t, int32(Scale), l.Aero[AeroFlaps])
}

func TestFrame_CommitOverwritesWholesale(t *testing.T) {
	f := NewFrame()
	f.Begin()
	f.Add(Throttle, 1)
	f.Commit()

	f.Begin()
	f.Commit()

	assert.Equal(t, int32(0), f.Levels().Channels[Throttle])
}

func TestFrame_ResetZeroesBothArrays(t *testing.T) {
	f := NewFrame()
	f.Begin()
	f.Add(Pitch, 1)
	f.AddAero(AeroBrakes, 1)
	f.Commit()

	f.Reset()

	assert.Equal(t, Levels{}, f.Levels())
}

func TestFrame_IgnoresOutOfRange(t *testing.T) {
	f := NewFrame()
	f.Begin()
	f.Add(NumChannels, 1)
	f.AddAero(-1, 1)
	f.Commit()

	assert.Equal(t, Levels{}, f.Levels())
	assert.Equal(t, "unknown", Channel(99).String())
	assert.Equal(t, "throttle", Throttle.String())
	assert.Equal(t, "brakes", AeroBrakes.String())
}
