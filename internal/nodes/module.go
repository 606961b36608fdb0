// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import "github.com/vk/controlgrid/internal/registry"

// Module implements the registry.Module interface for the built-in node types.
type Module struct{}

// Register registers every built-in constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	for _, e := range catalogue {
		r.Register(e.Type, e.Category, e.New)
	}
}

var catalogue = []registry.Entry{
	{Type: "and", Category: "logic", New: NewAnd},
	{Type: "or", Category: "logic", New: NewOr},
	{Type: "xor", Category: "logic", New: NewXor},
	{Type: "not", Category: "logic", New: NewNot},

	{Type: "button_to_axis", Category: "conversion", New: NewButtonToAxis},
	{Type: "axis_to_button", Category: "conversion", New: NewAxisToButton},
	{Type: "invert", Category: "conversion", New: NewInvert},
	{Type: "axis_to_half", Category: "conversion", New: NewAxisToHalf},
	{Type: "half_to_axis", Category: "conversion", New: NewHalfToAxis},
	{Type: "hat_to_buttons", Category: "conversion", New: NewHatToButtons},
	{Type: "buttons_to_hat", Category: "conversion", New: NewButtonsToHat},
	{Type: "axis_mix", Category: "conversion", New: NewAxisMix},

	{Type: "toggle", Category: "state", New: NewToggle},
	{Type: "selector", Category: "state", New: NewSelector},
	{Type: "filter", Category: "state", New: NewFilter},
	{Type: "memory", Category: "state", New: NewMemory},
	{Type: "ramp", Category: "state", New: NewRamp},

	{Type: DeviceType, Category: "source", New: newStoredDevice},

	{Type: "key_binding", Category: "action", New: NewKeyBinding},
	{Type: "attitude", Category: "action", New: NewAttitude},
	{Type: "aero", Category: "action", New: NewAero},
	{Type: "camera", Category: "action", New: NewCamera},
	{Type: "time_warp", Category: "action", New: NewTimeWarp},
	{Type: "hud", Category: "action", New: NewHUD},
	{Type: "panel", Category: "action", New: NewPanel},
	{Type: "nav_mode", Category: "action", New: NewNavMode},
	{Type: "rcs_mode", Category: "action", New: NewRCSMode},
	{Type: "cursor", Category: "action", New: NewCursor},

	{Type: "comment", Category: "annotation", New: NewComment},
}
