// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hid

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Hat is the directional bit-set reported by a POV hat.
type Hat uint8

const (
	HatUp Hat = 1 << iota
	HatRight
	HatDown
	HatLeft
)

// HatDirections lists the single-direction bits in pin order.
var HatDirections = []Hat{HatUp, HatRight, HatDown, HatLeft}

// Has reports whether every bit of d is set in h.
func (h Hat) Has(d Hat) bool {
	return d != 0 && h&d == d
}

// String returns a compact name such as "Up" or "Up+Left".
func (h Hat) String() string {
	if h == 0 {
		return "Centered"
	}
	s := ""
	for _, d := range HatDirections {
		if h.Has(d) {
			if s != "" {
				s += "+"
			}
			s += hatNames[d]
		}
	}
	return s
}

var hatNames = map[Hat]string{
	HatUp:    "Up",
	HatRight: "Right",
	HatDown:  "Down",
	HatLeft:  "Left",
}

// Info is the identity and layout of one attached device.
type Info struct {
	// Index is the volatile slot the platform assigned; it changes across hot-plugs.
	Index int
	// GUID is the stable hardware identity used for reconciliation.
	GUID    uuid.UUID
	Name    string
	Axes    int
	Buttons int
	Hats    int
}

// State holds the raw values of one device for the current tick.
type State struct {
	Axes    []float64
	Buttons []bool
	Hats    []Hat
}

// Axis returns the i-th axis value, or 0 when out of range.
func (s State) Axis(i int) float64 {
	if i < 0 || i >= len(s.Axes) {
		return 0
	}
	return s.Axes[i]
}

// Button returns the i-th button value, or false when out of range.
func (s State) Button(i int) bool {
	if i < 0 || i >= len(s.Buttons) {
		return false
	}
	return s.Buttons[i]
}

// HatAt returns the i-th hat bit-set, or 0 when out of range.
func (s State) HatAt(i int) Hat {
	if i < 0 || i >= len(s.Hats) {
		return 0
	}
	return s.Hats[i]
}

// Device pairs an Info with its current State.
type Device struct {
	Info
	State
}

// Snapshot is the set of live devices for one tick, keyed by index.
type Snapshot struct {
	devices map[int]Device
}

// NewSnapshot builds a snapshot. A later device with a duplicate index wins.
func NewSnapshot(devices ...Device) *Snapshot {
	s := &Snapshot{devices: make(map[int]Device, len(devices))}
	for _, d := range devices {
		s.devices[d.Index] = d
	}
	return s
}

// Device looks up a live device by its volatile index.
func (s *Snapshot) Device(index int) (Device, bool) {
	if s == nil {
		return Device{}, false
	}
	d, ok := s.devices[index]
	return d, ok
}

// Infos returns the identities of all live devices ordered by index.
func (s *Snapshot) Infos() []Info {
	if s == nil {
		return nil
	}
	out := make([]Info, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d.Info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// SameDevices reports whether two device lists describe the same attachment
// state (same indices bound to the same GUIDs).
func SameDevices(a, b []Info) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]uuid.UUID, len(a))
	for _, d := range a {
		seen[d.Index] = d.GUID
	}
	for _, d := range b {
		guid, ok := seen[d.Index]
		if !ok || guid != d.GUID {
			return false
		}
	}
	return true
}

// Source is implemented by the platform input layer.
type Source interface {
	// Poll returns the device snapshot for the coming tick.
	Poll(ctx context.Context) (*Snapshot, error)
}

// Static is a Source that returns whatever snapshot was last stored with Set.
// It is safe for concurrent use.
type Static struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewStatic creates a Static source holding the given devices.
func NewStatic(devices ...Device) *Static {
	return &Static{snap: NewSnapshot(devices...)}
}

// Set replaces the snapshot returned by subsequent polls.
func (s *Static) Set(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Poll implements Source.
func (s *Static) Poll(_ context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return NewSnapshot(), nil
	}
	return s.snap, nil
}
