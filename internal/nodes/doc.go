// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package nodes holds the built-in node types: logic gates, converters,
// stateful elements, the device source, the key binding, the control sinks
// and the comment annotation. Module registers all of them.
package nodes
