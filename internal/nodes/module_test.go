// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestModule_RegistersValidCatalogue(t *testing.T) {
	r := registry.New(&Module{})

	require.NoError(t, r.Validate(context.Background()))
	assert.Len(t, r.Types(), len(catalogue))
	for _, name := range []string{"toggle", "selector", "device", "key_binding", "attitude", "comment"} {
		assert.True(t, r.Has(name), name)
	}
}

func TestModule_DuplicateRegistrationPanics(t *testing.T) {
	r := registry.New(&Module{})

	assert.Panics(t, func() { (&Module{}).Register(r) })
}

func TestStoredDevice_ShapesFromSettings(t *testing.T) {
	r := registry.New(&Module{})
	n, err := r.NewNode(DeviceType)
	require.NoError(t, err)
	guid := uuid.New()
	d := n.Behavior().(*Device)

	require.NoError(t, d.SetAttrs(map[string]cty.Value{
		"guid":    cty.StringVal(guid.String()),
		"device":  cty.StringVal("Throttle"),
		"axes":    cty.NumberIntVal(2),
		"buttons": cty.NumberIntVal(3),
		"hats":    cty.NumberIntVal(0),
	}))
	n.Behavior().(graph.Shaper).Shape(n)

	assert.Equal(t, guid, d.GUID)
	assert.False(t, d.Connected())
	assert.Len(t, n.Outputs(), 5)
	assert.Equal(t, graph.KindAxis, n.Output(1).Kind())
	assert.Equal(t, graph.KindButton, n.Output(2).Kind())
}

func TestDevice_RejectsBadGUID(t *testing.T) {
	d := &Device{}

	err := d.SetAttrs(map[string]cty.Value{"guid": cty.StringVal("not-a-guid")})

	assert.ErrorIs(t, err, ErrBadSetting)
}

func TestRegistry_UnknownType(t *testing.T) {
	r := registry.New(&Module{})

	_, err := r.NewNode("warp_drive")

	assert.ErrorIs(t, err, registry.ErrUnknownType)
}
