// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hid describes the input devices the platform layer hands to the
// engine once per tick.
//
// The engine never talks to drivers. A Source produces a Snapshot holding one
// Device per attached controller: its identity (volatile index plus a stable
// hardware GUID) and its current axis, button and hat values.
package hid
