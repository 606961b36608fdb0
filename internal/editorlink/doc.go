// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package editorlink connects the external node editor to the graph manager
// over socket.io.
//
// Every editor command arrives as an event whose payload is a JSON object.
// The command is queued onto the tick thread, executed against the edited
// profile, and answered with a "<command>_result" event carrying either the
// result fields or an "error" string. A "request" field in the payload is
// echoed back so the editor can match replies to requests.
package editorlink
