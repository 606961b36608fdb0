// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package controls holds the control-channel arrays that sink nodes write
// and the vehicle core reads.
//
// Sinks accumulate float levels into a Frame during an evaluation pass. Commit
// clamps the accumulated values and overwrites both published arrays wholesale,
// so a channel no sink wrote during the pass reads zero afterwards.
package controls

import "math"

// Channel indexes the attitude/thrust channel array.
type Channel int

const (
	Pitch Channel = iota
	Yaw
	Roll
	TranslateX
	TranslateY
	TranslateZ
	Throttle
	NumChannels
)

var channelNames = [NumChannels]string{"pitch", "yaw", "roll", "translate_x", "translate_y", "translate_z", "throttle"}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

// AeroChannel indexes the aerodynamic-surface channel array.
type AeroChannel int

const (
	AeroPitch AeroChannel = iota
	AeroYaw
	AeroRoll
	AeroFlaps
	AeroBrakes
	NumAero
)

var aeroNames = [NumAero]string{"pitch", "yaw", "roll", "flaps", "brakes"}

func (c AeroChannel) String() string {
	if c < 0 || c >= NumAero {
		return "unknown"
	}
	return aeroNames[c]
}

// Scale maps a level of 1.0 to its integer channel value.
const Scale = 32767

// Levels is the published, integer-scaled state of both arrays.
type Levels struct {
	Channels [NumChannels]int32
	Aero     [NumAero]int32
}

// Frame accumulates one pass worth of sink output.
type Frame struct {
	acc     [NumChannels]float64
	aeroAcc [NumAero]float64
	levels  Levels
}

// NewFrame returns a zeroed frame.
func NewFrame() *Frame {
	return &Frame{}
}

// Begin clears the accumulators for a new pass.
func (f *Frame) Begin() {
	f.acc = [NumChannels]float64{}
	f.aeroAcc = [NumAero]float64{}
}

// Add accumulates v into channel c. Out-of-range channels are ignored.
func (f *Frame) Add(c Channel, v float64) {
	if c < 0 || c >= NumChannels {
		return
	}
	f.acc[c] += v
}

// AddAero accumulates v into aero channel c. Out-of-range channels are ignored.
func (f *Frame) AddAero(c AeroChannel, v float64) {
	if c < 0 || c >= NumAero {
		return
	}
	f.aeroAcc[c] += v
}

// Commit clamps the accumulated levels and overwrites the published arrays.
func (f *Frame) Commit() {
	for i, v := range f.acc {
		f.levels.Channels[i] = scale(v)
	}
	for i, v := range f.aeroAcc {
		f.levels.Aero[i] = scale(v)
	}
}

// Reset publishes zero on every channel, as a pass with no sinks would.
func (f *Frame) Reset() {
	f.Begin()
	f.Commit()
}

// Levels returns a copy of the last committed arrays.
func (f *Frame) Levels() Levels {
	return f.levels
}

func scale(v float64) int32 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int32(math.Round(v * Scale))
}
