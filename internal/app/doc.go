// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app wires the control graph runtime together: the node registry,
// the profile manager, the tick loop that polls input devices, the profile
// watcher, the editor link and the health check server. It is decoupled
// from any specific entrypoint like a CLI.
package app
