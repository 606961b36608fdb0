// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package vehicle declares the external collaborators that control-sink nodes
// drive: the vehicle API for discrete commands and the key-event path.
package vehicle

import "sync"

// Vehicle is the simulation-side API invoked by sink nodes. Implementations
// must not call back into the graph engine.
type Vehicle interface {
	CycleCamera(step int)
	PanCamera(x, y float64)
	// TimeWarp steps the warp rate: positive faster, negative slower, zero stops.
	TimeWarp(step int)
	ToggleHUD()
	CyclePanel(step int)
	NavMode() int
	SetNavMode(mode int)
	RCS() bool
	SetRCS(on bool)
	Cursor(x, y float64, click bool)
}

// Modifier flags carried by a synthesized key event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// KeyEvent is a synthesized key press.
type KeyEvent struct {
	Code      int
	Modifiers Modifier
}

// KeySink buffers key events toward the vehicle/module input path.
type KeySink interface {
	PushKey(ev KeyEvent)
}

// Nop ignores every command. Its NavMode is always 0 and RCS is always off.
type Nop struct{}

func (Nop) CycleCamera(int)               {}
func (Nop) PanCamera(float64, float64)    {}
func (Nop) TimeWarp(int)                  {}
func (Nop) ToggleHUD()                    {}
func (Nop) CyclePanel(int)                {}
func (Nop) NavMode() int                  { return 0 }
func (Nop) SetNavMode(int)                {}
func (Nop) RCS() bool                     { return false }
func (Nop) SetRCS(bool)                   {}
func (Nop) Cursor(float64, float64, bool) {}
func (Nop) PushKey(KeyEvent)              {}

// Recorder is an in-memory Vehicle and KeySink that remembers what it was
// asked to do. It backs the CLI when no simulator is attached and is handy in tests.
type Recorder struct {
	mu      sync.Mutex
	Camera  int
	PanX    float64
	PanY    float64
	Warp    int
	HUD     bool
	Panel   int
	Nav     int
	RCSOn   bool
	CursorX float64
	CursorY float64
	Clicks  int
	Keys    []KeyEvent
}

func (r *Recorder) CycleCamera(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Camera += step
}

func (r *Recorder) PanCamera(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PanX, r.PanY = x, y
}

func (r *Recorder) TimeWarp(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if step == 0 {
		r.Warp = 0
		return
	}
	r.Warp += step
	if r.Warp < 0 {
		r.Warp = 0
	}
}

func (r *Recorder) ToggleHUD() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.HUD = !r.HUD
}

func (r *Recorder) CyclePanel(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Panel += step
}

func (r *Recorder) NavMode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Nav
}

func (r *Recorder) SetNavMode(mode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Nav = mode
}

func (r *Recorder) RCS() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.RCSOn
}

func (r *Recorder) SetRCS(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RCSOn = on
}

func (r *Recorder) Cursor(x, y float64, click bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CursorX, r.CursorY = x, y
	if click {
		r.Clicks++
	}
}

func (r *Recorder) PushKey(ev KeyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Keys = append(r.Keys, ev)
}
