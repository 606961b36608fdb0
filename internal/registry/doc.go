// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package registry maps the type tags stored in profile documents to the Go
// constructors that build the corresponding nodes.
//
// Node packages contribute their constructors through a Module during
// application startup. The registry is then validated so that every
// registered constructor produces a node carrying its own tag and a usable
// settings block, preventing a class of load-time failures.
package registry
