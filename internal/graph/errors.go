// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "errors"

var (
	ErrNodeNotFound     = errors.New("graph: node not found")
	ErrPinNotFound      = errors.New("graph: pin not found")
	ErrLinkNotFound     = errors.New("graph: link not found")
	ErrNodeAttached     = errors.New("graph: node already belongs to a graph")
	ErrNotDeletable     = errors.New("graph: node is not deletable")
	ErrSameDirection    = errors.New("graph: pins have the same direction")
	ErrPlaceholderPair  = errors.New("graph: cannot link two placeholder pins")
	ErrIncompatiblePins = errors.New("graph: incompatible pin kinds")
	ErrLinkExists       = errors.New("graph: pins are already linked")
	ErrPinNotRemovable  = errors.New("graph: pin is not a dynamic pin")
	ErrCycle            = errors.New("graph: cycle detected")
	ErrReentrant        = errors.New("graph: evaluation is not re-entrant")
)
