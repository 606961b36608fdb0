// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/vehicle"
)

// testEnv returns an Env with a fresh frame and a recording vehicle.
func testEnv(devices ...hid.Device) (*graph.Env, *vehicle.Recorder) {
	rec := &vehicle.Recorder{}
	return &graph.Env{
		Devices: hid.NewSnapshot(devices...),
		Frame:   controls.NewFrame(),
		Vehicle: rec,
		Keys:    rec,
	}, rec
}

// gamepad builds a live device with the given button states.
func gamepad(index int, guid uuid.UUID, buttons ...bool) hid.Device {
	return hid.Device{
		Info: hid.Info{
			Index:   index,
			GUID:    guid,
			Name:    "Pad",
			Buttons: len(buttons),
		},
		State: hid.State{Buttons: buttons},
	}
}

// add inserts n into g and fails the test on error.
func add(t *testing.T, g *graph.Graph, n *graph.Node) *graph.Node {
	t.Helper()
	_, err := g.CreateNode(n)
	require.NoError(t, err)
	return n
}

func link(t *testing.T, g *graph.Graph, a, b *graph.Pin) {
	t.Helper()
	_, err := g.CreateLink(a.ID(), b.ID())
	require.NoError(t, err)
}

// update runs a behavior's live step directly, outside any graph.
func update(n *graph.Node, env *graph.Env) {
	n.Behavior().Update(n, env)
}

func bools(pins []*graph.Pin) []bool {
	out := make([]bool, len(pins))
	for i, p := range pins {
		out[i] = p.Bool()
	}
	return out
}
